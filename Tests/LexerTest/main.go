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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	mc "github.com/arbor-sim/modcc-go/Modcc"
	"github.com/arbor-sim/modcc-go/internal/batch"
	"github.com/arbor-sim/modcc-go/internal/cli"
	"github.com/arbor-sim/modcc-go/internal/log"
)

var errInvalidToken = errors.New("invalid token")

func newRootCmd() *cobra.Command {
	var flags cli.Flags
	cmd := &cobra.Command{
		Use:           "LexerTest <mechanism-file>",
		Short:         "Print the token stream of a mechanism file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := flags.Setup("LexerTest")
			if err != nil {
				return err
			}
			return run(cmd.OutOrStdout(), env, args[0])
		},
	}
	flags.Register(cmd)
	return cmd
}

func run(out io.Writer, env *cli.Env, filename string) error {
	if _, err := os.Stat(filename); err != nil {
		return fmt.Errorf("file '%s' does not exist", filename)
	}
	if !batch.HasExtension(filename, env.Config.Files.Extensions) {
		env.Logger.Warn("unexpected file extension", log.Fields{"file": filename})
	}

	lexer := mc.NewLexer()
	if err := lexer.SetStreamFromFile(filename); err != nil {
		return fmt.Errorf("opening file '%s': %w", filename, err)
	}

	st := env.Styles
	fmt.Fprintf(out, "Tokenizing file: %s\n", filename)
	fmt.Fprintln(out, st.Header.Render(fmt.Sprintf("%-12s %-12s %s", "Position", "Token", "Value")))
	fmt.Fprintf(out, "%-12s %-12s %s\n", "--------", "-----", "-----")

	tokenCount := 0
	var failed error
	for {
		t := lexer.Next()
		name := mc.TokenTypeName(t.Type)
		if t.Type == mc.TokEof {
			fmt.Fprintf(out, "%-6d%-5d %-12s\n", t.LineNr, t.ColNr, name)
			break
		}
		if t.Type == mc.TokInvalid {
			fmt.Fprintf(out, "%-6d%-5d %-12s %s\n", t.LineNr, t.ColNr, name,
				st.Failure.Render("ERROR: "+string(t.Val)))
			failed = errInvalidToken
			break
		}
		if len(t.Val) == 0 {
			fmt.Fprintf(out, "%-6d%-5d %s\n", t.LineNr, t.ColNr, name)
		} else {
			fmt.Fprintf(out, "%-6d%-5d %-12s %s\n", t.LineNr, t.ColNr, name, string(t.Val))
		}
		tokenCount++
	}

	fmt.Fprintf(out, "\nTokenization complete. Total tokens: %d\n", tokenCount)
	fmt.Fprintf(out, "Source lines of code (SLOC): %d\n", lexer.Sloc())
	return failed
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errInvalidToken) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
