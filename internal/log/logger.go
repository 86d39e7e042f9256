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

// Package log is the leveled, structured logger of the command line tools.
// Entries carry persistent fields and are written as text or JSON.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "unknown"
}

func (l Level) toSlog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ParseLevel accepts the level names case-insensitively; "warning" is an
// alias of warn.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Fields are key/value pairs attached to log entries.
type Fields map[string]any

type Config struct {
	Level  Level
	Format Format
	Output io.Writer
	Name   string
}

// Logger is safe for concurrent use. The With methods return new loggers
// and leave the receiver unchanged.
type Logger struct {
	sl   *slog.Logger
	name string
}

func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level.toSlog()}
	var h slog.Handler
	if cfg.Format == FormatJSON {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	l := &Logger{sl: slog.New(h)}
	if cfg.Name != "" {
		return l.WithName(cfg.Name)
	}
	return l
}

// Nop returns a logger which discards everything.
func Nop() *Logger {
	return New(Config{Level: LevelError, Output: io.Discard})
}

func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{sl: l.sl.With(key, value), name: l.name}
}

func (l *Logger) WithFields(fields Fields) *Logger {
	args := make([]any, 0, 2*len(fields))
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{sl: l.sl.With(args...), name: l.name}
}

// WithName appends a component name; names nest with dots.
func (l *Logger) WithName(name string) *Logger {
	full := name
	if l.name != "" {
		full = l.name + "." + name
	}
	return &Logger{sl: l.sl, name: full}
}

func (l *Logger) Name() string {
	return l.name
}

func (l *Logger) Enabled(level Level) bool {
	return l.sl.Enabled(context.Background(), level.toSlog())
}

func (l *Logger) log(level Level, msg string, fields []Fields) {
	if !l.Enabled(level) {
		return
	}
	var args []any
	if l.name != "" {
		args = append(args, "logger", l.name)
	}
	for _, f := range fields {
		for k, v := range f {
			args = append(args, k, v)
		}
	}
	l.sl.Log(context.Background(), level.toSlog(), msg, args...)
}

func (l *Logger) Debug(msg string, fields ...Fields) { l.log(LevelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields ...Fields)  { l.log(LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields ...Fields)  { l.log(LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields ...Fields) { l.log(LevelError, msg, fields) }

// Timer logs the duration of an operation when stopped.
type Timer struct {
	logger    *Logger
	operation string
	start     time.Time
	level     Level
}

func (l *Logger) StartTimer(operation string) *Timer {
	return &Timer{logger: l, operation: operation, start: time.Now(), level: LevelDebug}
}

func (t *Timer) WithLevel(level Level) *Timer {
	t.level = level
	return t
}

// Stop logs "<operation> completed" with the elapsed time and returns it.
func (t *Timer) Stop(fields ...Fields) time.Duration {
	elapsed := time.Since(t.start)
	fields = append(fields, Fields{"elapsed": elapsed.String()})
	t.logger.log(t.level, t.operation+" completed", fields)
	return elapsed
}
