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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	mc "github.com/arbor-sim/modcc-go/Modcc"
	"github.com/arbor-sim/modcc-go/internal/batch"
	"github.com/arbor-sim/modcc-go/internal/cli"
)

var errFailed = errors.New("some files failed to parse")

// maxReported limits the diagnostics printed per file.
const maxReported = 10

func newRootCmd() *cobra.Command {
	var flags cli.Flags
	cmd := &cobra.Command{
		Use:           "NonLocalChecker [files or directories]",
		Short:         "Report non-local variable accesses of mechanism definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.Setup("NonLocalChecker")
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), env, args)
		},
	}
	flags.Register(cmd)
	return cmd
}

func run(ctx context.Context, out io.Writer, env *cli.Env, args []string) error {
	cfg := env.Config
	files, missing, err := batch.CollectFiles(args, cfg.Files.Extensions)
	if err != nil {
		return err
	}
	for _, m := range missing {
		fmt.Fprintf(out, "Skipping %s (not found)\n", m)
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No mechanism files provided. Nothing to do.")
		return nil
	}

	runner := batch.NewRunner(batch.Options{
		Workers:          cfg.Files.Workers,
		StopOnFirstError: cfg.Parser.StopOnFirstError,
		MaxErrors:        cfg.Parser.MaxErrors,
	}, env.Logger)
	results, err := runner.Run(ctx, files)
	if err != nil {
		return err
	}

	var modules []*mc.Module
	failed := 0
	for _, res := range results {
		if res.OK() {
			modules = append(modules, res.Module)
			continue
		}
		failed++
		if res.Err != nil {
			fmt.Fprintf(out, "%s: %s %v\n", res.Path, env.Styles.Failure.Render("cannot read:"), res.Err)
			continue
		}
		fmt.Fprintf(out, "parsing of '%s' had %s\n", res.Path,
			env.Styles.Failure.Render(fmt.Sprintf("FAILED with %d error(s):", len(res.Errors))))
		for i, e := range res.Errors {
			if i == maxReported {
				break
			}
			fmt.Fprintf(out, "    %2d) %s at %s:%s\n", i+1, e.Msg, filepath.Base(e.Path), e.Pos)
		}
	}

	fmt.Fprintln(out, env.Styles.Header.Render("=== Non-local Access Analysis ==="))
	for _, m := range modules {
		a := mc.NewNonLocalAnalyzer(m)
		a.Analyze()
		a.PrintResults(out)
	}

	fmt.Fprintf(out, "Summary: %d analyzed, %d failed\n", len(modules), failed)
	if failed > 0 {
		return errFailed
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
