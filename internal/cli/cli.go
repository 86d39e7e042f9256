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

// Package cli holds what the command line tools share: persistent flags,
// configuration and logger setup, and terminal styles.
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/arbor-sim/modcc-go/internal/config"
	"github.com/arbor-sim/modcc-go/internal/log"
)

var (
	ColorSuccess = lipgloss.Color("#10B981")
	ColorError   = lipgloss.Color("#EF4444")
	ColorWarning = lipgloss.Color("#F59E0B")
	ColorMuted   = lipgloss.Color("#6B7280")
)

// Styles renders plain text when color is off.
type Styles struct {
	Success lipgloss.Style
	Failure lipgloss.Style
	Warning lipgloss.Style
	Muted   lipgloss.Style
	Header  lipgloss.Style
}

func NewStyles(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{Success: plain, Failure: plain, Warning: plain, Muted: plain, Header: plain}
	}
	return Styles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
		Failure: lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Muted:   lipgloss.NewStyle().Foreground(ColorMuted),
		Header:  lipgloss.NewStyle().Bold(true).Underline(true),
	}
}

// Flags are the persistent flags of every tool.
type Flags struct {
	ConfigFile string
	Verbose    bool
	NoColor    bool
}

func (f *Flags) Register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.ConfigFile, "config", "", "config file (.toml, .yaml or .yml)")
	cmd.PersistentFlags().BoolVarP(&f.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVar(&f.NoColor, "no-color", false, "disable colored output")
}

// Env is the configured environment of one tool run.
type Env struct {
	Config *config.Config
	Logger *log.Logger
	Styles Styles
}

// Setup loads the configuration named by the flags, or the defaults, and
// builds logger and styles from it. Flags override the file.
func (f *Flags) Setup(name string) (*Env, error) {
	cfg := config.Default()
	if f.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(f.ConfigFile); err != nil {
			return nil, err
		}
	}
	if f.Verbose {
		cfg.Log.Level = "debug"
	}
	if f.NoColor {
		cfg.Output.Color = false
	}
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	logger := log.New(log.Config{
		Level:  level,
		Format: log.Format(cfg.Log.Format),
		Output: os.Stderr,
		Name:   name,
	})
	return &Env{Config: cfg, Logger: logger, Styles: NewStyles(cfg.Output.Color)}, nil
}
