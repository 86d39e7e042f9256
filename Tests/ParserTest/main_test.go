/*
** Copyright (C) 2025 Rochus Keller (me@rochus-keller.ch)
**
** This file is part of the modcc-go project.
**
**
** GNU Lesser General Public License Usage
** This file may be used under the terms of the GNU Lesser
** General Public License version 2.1 or version 3 as published by the Free
** Software Foundation and appearing in the file LICENSE.LGPLv21 and
** LICENSE.LGPLv3 included in the packaging of this file. Please review the
** following information to ensure the GNU Lesser General Public License
** requirements will be met: https://www.gnu.org/licenses/lgpl.html and
** http://www.gnu.org/licenses/old-licenses/lgpl-2.1.html.
*/

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passive = `NEURON {
    SUFFIX pas
    NONSPECIFIC_CURRENT i
    RANGE g, e
}

PARAMETER {
    g = 0.001 (S/cm2)
    e = -70 (mV)
}

ASSIGNED { v (mV) }

BREAKPOINT {
    i = g*(v - e)
}
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestParserTestReportsEachFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.mod", passive)
	writeFile(t, dir, "bad.mod", "NEURON { SUFFIX }\n")
	writeFile(t, dir, "notes.txt", "ignored")

	out, err := execute(dir, filepath.Join(dir, "missing.mod"))
	assert.True(t, errors.Is(err, errFailed))
	assert.Contains(t, out, "Skipping "+filepath.Join(dir, "missing.mod")+" (not found)")
	assert.Contains(t, out, "Parsing: "+filepath.Join(dir, "good.mod"))
	assert.Contains(t, out, "SUCCESS: parsed mechanism pas")
	assert.Contains(t, out, "FAILED with 1 error(s):")
	assert.Contains(t, out, "'<identifier>' expected in NEURON")
	assert.Contains(t, out, "Summary: 1 succeeded, 1 failed")
	assert.NotContains(t, out, "notes.txt")
}

func TestParserTestDumpAST(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pas.mod", passive)
	cfg := filepath.Join(dir, "modcc.yaml")
	writeFile(t, dir, "modcc.yaml", "output:\n  dump_ast: true\n")

	out, err := execute("--config", cfg, filepath.Join(dir, "pas.mod"))
	require.NoError(t, err)
	assert.Contains(t, out, "BREAKPOINT")
	assert.Contains(t, out, "Summary: 1 succeeded, 0 failed")
}

func TestParserTestNoFiles(t *testing.T) {
	out, err := execute()
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to do.")
}
