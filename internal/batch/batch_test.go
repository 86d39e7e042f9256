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

package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbor-sim/modcc-go/internal/log"
)

const goodMod = `NEURON { SUFFIX pas }
PARAMETER { g = .001 (S/cm2) e = -70 (mV) }
ASSIGNED { v (mV) i (mA/cm2) }
BREAKPOINT { i = g*(v - e) }
`

const badMod = `STATE { m }
PROCEDURE m() { }
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.mod", goodMod)
	b := writeFile(t, dir, "B.MOD", goodMod)
	writeFile(t, dir, "notes.txt", "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	writeFile(t, filepath.Join(dir, "sub"), "c.mod", goodMod)
	single := writeFile(t, t.TempDir(), "single.inc", goodMod)

	files, missing, err := CollectFiles([]string{dir, single, "does-not-exist"}, []string{".mod"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b, single}, files)
	assert.Equal(t, []string{"does-not-exist"}, missing)

	assert.True(t, HasExtension("x.NMODL", []string{".mod", ".nmodl"}))
	assert.False(t, HasExtension("x.txt", []string{".mod"}))
}

func TestRunnerRun(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := 0; i < 6; i++ {
		content := goodMod
		if i%3 == 2 {
			content = badMod
		}
		files = append(files, writeFile(t, dir, fmt.Sprintf("m%d.mod", i), content))
	}
	files = append(files, filepath.Join(dir, "gone.mod"))

	var buf bytes.Buffer
	logger := log.New(log.Config{Level: log.LevelDebug, Format: log.FormatJSON, Output: &buf})
	r := NewRunner(Options{Workers: 3}, logger)
	results, err := r.Run(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, results, len(files))

	jobs := make(map[string]bool)
	for i, res := range results {
		assert.Equal(t, files[i], res.Path)
		assert.NotEmpty(t, res.JobID)
		jobs[res.JobID] = true
	}
	assert.Len(t, jobs, len(files))

	for i := 0; i < 6; i++ {
		res := results[i]
		require.NoError(t, res.Err)
		if i%3 == 2 {
			assert.False(t, res.OK())
			require.Len(t, res.Errors, 1)
			continue
		}
		assert.True(t, res.OK(), "%s", res.Path)
		assert.Equal(t, uint32(4), res.Sloc)
		assert.Equal(t, "pas", res.Module.Neuron.Name)
	}
	assert.Error(t, results[6].Err)
	assert.False(t, results[6].OK())

	assert.Contains(t, buf.String(), r.RunID())
	assert.Contains(t, buf.String(), `"msg":"batch finished"`)
	assert.Contains(t, buf.String(), `"failed":3`)
}

func TestRunnerStopOnFirstError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "two.mod", "x\nSTATE { 1 }\n")

	results, err := NewRunner(Options{Workers: 1}, nil).Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Len(t, results[0].Errors, 2)

	results, err = NewRunner(Options{Workers: 1, StopOnFirstError: true}, nil).Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Len(t, results[0].Errors, 1)
}

func TestRunnerCancelled(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeFile(t, dir, "a.mod", goodMod), writeFile(t, dir, "b.mod", goodMod)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := NewRunner(Options{Workers: 2}, nil).Run(ctx, files)
	assert.True(t, errors.Is(err, context.Canceled))
	require.Len(t, results, 2)
	for _, res := range results {
		assert.True(t, errors.Is(res.Err, context.Canceled))
		assert.Nil(t, res.Module)
	}
}

func TestRunnerTimesEachFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.mod", goodMod)
	bad := writeFile(t, dir, "bad.mod", badMod)

	var buf bytes.Buffer
	logger := log.New(log.Config{Level: log.LevelInfo, Format: log.FormatJSON, Output: &buf})
	results, err := NewRunner(Options{Workers: 1}, logger).Run(context.Background(), []string{good, bad})
	require.NoError(t, err)
	for _, res := range results {
		assert.Positive(t, res.Elapsed)
	}

	out := buf.String()
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte(`"msg":"parse completed"`)))
	assert.Contains(t, out, `"level":"WARN","msg":"parse completed"`)
	assert.Contains(t, out, bad)
	assert.Contains(t, out, `"elapsed":`)
}
