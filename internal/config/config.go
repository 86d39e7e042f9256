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

// Package config holds the settings of the command line tools. Files are TOML
// or YAML, chosen by extension, and are decoded over Default().
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownFormat = errors.New("unknown config format")
	ErrInvalidConfig = errors.New("invalid config")
)

type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

type Parser struct {
	StopOnFirstError bool `toml:"stop_on_first_error" yaml:"stop_on_first_error"`
	// MaxErrors caps the diagnostics collected per file, 0 is unlimited.
	MaxErrors int `toml:"max_errors" yaml:"max_errors"`
}

type Log struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

type Files struct {
	Extensions []string `toml:"extensions" yaml:"extensions"`
	Workers    int      `toml:"workers" yaml:"workers"`
}

type Output struct {
	Color   bool `toml:"color" yaml:"color"`
	DumpAST bool `toml:"dump_ast" yaml:"dump_ast"`
}

type Config struct {
	Parser Parser `toml:"parser" yaml:"parser"`
	Log    Log    `toml:"log" yaml:"log"`
	Files  Files  `toml:"files" yaml:"files"`
	Output Output `toml:"output" yaml:"output"`
}

func Default() *Config {
	return &Config{
		Parser: Parser{MaxErrors: 0},
		Log:    Log{Level: "info", Format: "text"},
		Files:  Files{Extensions: []string{".mod"}, Workers: 4},
		Output: Output{Color: true},
	}
}

func detectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := LoadFromString(string(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func LoadFromString(content string, format Format) (*Config, error) {
	cfg := Default()
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(content, cfg); err != nil {
			return nil, fmt.Errorf("TOML parse error: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
			return nil, fmt.Errorf("YAML parse error: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Parser.MaxErrors < 0 {
		return fmt.Errorf("%w: parser.max_errors must not be negative", ErrInvalidConfig)
	}
	if c.Files.Workers < 1 {
		return fmt.Errorf("%w: files.workers must be at least 1", ErrInvalidConfig)
	}
	if len(c.Files.Extensions) == 0 {
		return fmt.Errorf("%w: files.extensions is empty", ErrInvalidConfig)
	}
	for _, ext := range c.Files.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: extension %q must start with a dot", ErrInvalidConfig, ext)
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}
