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
    RANGE g, e
}

PARAMETER {
    g = 0.001 (S/cm2)
    e = -70 (mV)
}

ASSIGNED { v (mV) }

BREAKPOINT {
    LOCAL x
    x = v - e
    i = g*x
}
`

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestNonLocalCheckerReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pas.mod")
	require.NoError(t, os.WriteFile(path, []byte(passive), 0o644))

	out, err := execute(path)
	require.NoError(t, err)
	assert.Contains(t, out, "=== Non-local Access Analysis ===")
	assert.Contains(t, out, "Mechanism pas has 1 definitions with non-local accesses:")
	assert.Contains(t, out, "1. procedure: breakpoint")
	assert.Contains(t, out, "e (parameter)")
	assert.Contains(t, out, "v (assigned)")
	assert.Contains(t, out, "i (external)")
	assert.NotContains(t, out, "x (")
	assert.Contains(t, out, "Summary: 1 analyzed, 0 failed")
}

func TestNonLocalCheckerParseFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.mod")
	require.NoError(t, os.WriteFile(path, []byte("BREAKPOINT { x = }\n"), 0o644))

	out, err := execute(path)
	assert.True(t, errors.Is(err, errFailed))
	assert.Contains(t, out, "parsing of '"+path+"' had FAILED with")
	assert.Contains(t, out, "broken.mod:1:")
	assert.Contains(t, out, "Summary: 0 analyzed, 1 failed")
}
