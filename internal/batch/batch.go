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

// Package batch parses many mechanism files concurrently, one Module and
// Parser per file.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	mc "github.com/arbor-sim/modcc-go/Modcc"
	"github.com/arbor-sim/modcc-go/internal/log"
)

// CollectFiles expands args into file paths. Files are taken as given,
// directories contribute their entries (not recursively) whose extension is
// one of exts, compared case-insensitively. Arguments that do not exist are
// returned in missing.
func CollectFiles(args []string, exts []string) (files []string, missing []string, err error) {
	for _, a := range args {
		info, statErr := os.Stat(a)
		if statErr != nil {
			missing = append(missing, a)
			continue
		}
		if !info.IsDir() {
			files = append(files, a)
			continue
		}
		mods, dirErr := listModInDir(a, exts)
		if dirErr != nil {
			return nil, nil, fmt.Errorf("scan %s: %w", a, dirErr)
		}
		files = append(files, mods...)
	}
	return files, missing, nil
}

func listModInDir(dir string, exts []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if HasExtension(e.Name(), exts) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

func HasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, x := range exts {
		if strings.EqualFold(ext, x) {
			return true
		}
	}
	return false
}

type Options struct {
	Workers          int
	StopOnFirstError bool
	MaxErrors        int
}

// Result is the outcome of one file. Err is set when the file could not be
// read; parse diagnostics are in Errors.
type Result struct {
	Path    string
	JobID   string
	Module  *mc.Module
	Errors  []*mc.ParseError
	Sloc    uint32
	Elapsed time.Duration
	Err     error
}

func (r *Result) OK() bool {
	return r.Err == nil && len(r.Errors) == 0
}

type Runner struct {
	opts   Options
	logger *log.Logger
	runID  string
}

func NewRunner(opts Options, logger *log.Logger) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = log.Nop()
	}
	runID := uuid.New().String()
	return &Runner{
		opts:   opts,
		logger: logger.WithName("batch").WithField("run_id", runID),
		runID:  runID,
	}
}

func (r *Runner) RunID() string {
	return r.runID
}

// Run parses files with at most Workers goroutines. Results are in the order
// of files. The returned error is non-nil only if ctx was cancelled; files not
// started by then have Err set to the context error.
func (r *Runner) Run(ctx context.Context, files []string) ([]*Result, error) {
	results := make([]*Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)

	r.logger.Info("batch started", log.Fields{"files": len(files), "workers": r.opts.Workers})
	for i, f := range files {
		results[i] = &Result{Path: f, JobID: uuid.New().String()}
		if gctx.Err() != nil {
			results[i].Err = gctx.Err()
			continue
		}
		res := results[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				res.Err = err
				return err
			}
			r.parseFile(res)
			return nil
		})
	}
	err := g.Wait()

	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
		}
	}
	r.logger.Info("batch finished", log.Fields{"files": len(files), "failed": failed})
	if err == nil {
		err = ctx.Err()
	}
	return results, err
}

func (r *Runner) parseFile(res *Result) {
	logger := r.logger.WithFields(log.Fields{"file": res.Path, "job_id": res.JobID})
	timer := logger.StartTimer("parse")
	m, err := mc.NewModuleFromFile(res.Path)
	if err != nil {
		res.Err = err
		logger.Error("cannot read file", log.Fields{"error": err.Error()})
		return
	}
	p := mc.NewParser(m)
	p.SetStopOnFirstError(r.opts.StopOnFirstError)
	p.SetMaxErrors(r.opts.MaxErrors)
	p.Parse()

	res.Module = m
	res.Errors = p.Errors()
	res.Sloc = countSloc(m)

	fields := log.Fields{"errors": len(res.Errors), "sloc": res.Sloc}
	if len(res.Errors) > 0 {
		timer.WithLevel(log.LevelWarn)
	}
	res.Elapsed = timer.Stop(fields)
}

func countSloc(m *mc.Module) uint32 {
	l := mc.NewLexerFromBytes(m.Source(), m.Path())
	for !l.Next().IsEof() {
	}
	return l.Sloc()
}
