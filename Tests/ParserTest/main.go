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

	"github.com/spf13/cobra"

	"github.com/arbor-sim/modcc-go/internal/batch"
	"github.com/arbor-sim/modcc-go/internal/cli"
)

var errFailed = errors.New("some files failed to parse")

func newRootCmd() *cobra.Command {
	var flags cli.Flags
	cmd := &cobra.Command{
		Use:           "ParserTest [files or directories]",
		Short:         "Parse mechanism files and report diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.Setup("ParserTest")
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
	st := env.Styles
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

	success, failed := 0, 0
	for _, res := range results {
		fmt.Fprintf(out, "Parsing: %s\n", res.Path)
		switch {
		case res.Err != nil:
			fmt.Fprintf(out, "  %s %v\n", st.Failure.Render("Error opening file:"), res.Err)
			failed++
		case len(res.Errors) > 0:
			fmt.Fprintf(out, "  %s\n", st.Failure.Render(fmt.Sprintf("FAILED with %d error(s):", len(res.Errors))))
			for i, e := range res.Errors {
				pos := e.Pos.String()
				if e.Path != "" {
					pos = fmt.Sprintf("%s:%s", e.Path, pos)
				}
				fmt.Fprintf(out, "    %2d) %s at %s\n", i+1, e.Msg, st.Muted.Render(pos))
			}
			failed++
		default:
			name := res.Module.Neuron.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Fprintf(out, "  %s parsed mechanism %s, %d symbols, %d SLOC\n",
				st.Success.Render("SUCCESS:"), name, len(res.Module.Symbols()), res.Sloc)
			if cfg.Output.DumpAST {
				for _, def := range res.Module.Definitions() {
					fmt.Fprintf(out, "    %s\n", def)
				}
			}
			success++
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Summary: %d succeeded, %d failed\n", success, failed)
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
