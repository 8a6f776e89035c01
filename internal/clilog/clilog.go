// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package clilog provides a zombiezen.com/go/log logger for command-line
// programs.
package clilog

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"zombiezen.com/go/log"
)

// Logger writes one line per entry, prefixed by the program name.
// It is safe to use from multiple goroutines.
type Logger struct {
	prefix string
	color  bool

	mu sync.Mutex
	w  io.Writer
}

// New returns a logger that writes to w without color.
func New(w io.Writer, prog string) *Logger {
	return &Logger{prefix: prog, w: w}
}

// Log writes the entry's message.
func (l *Logger) Log(ctx context.Context, entry log.Entry) {
	buf := make([]byte, 0, len(l.prefix)+len(entry.Msg)+16)
	if l.prefix != "" {
		buf = append(buf, l.prefix...)
		buf = append(buf, ": "...)
	}
	switch entry.Level {
	case log.Warn:
		buf = append(buf, l.label("warning:", color.FgYellow)...)
		buf = append(buf, ' ')
	case log.Error:
		buf = append(buf, l.label("error:", color.FgRed, color.Bold)...)
		buf = append(buf, ' ')
	}
	buf = append(buf, entry.Msg...)
	if len(buf) == 0 || buf[len(buf)-1] != '\n' {
		buf = append(buf, '\n')
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(buf)
}

func (l *Logger) label(s string, attrs ...color.Attribute) string {
	if !l.color {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

// LogEnabled returns true.
func (l *Logger) LogEnabled(entry log.Entry) bool {
	return true
}

// Setup installs a Logger writing to stderr as the default logger. Debug
// entries are dropped unless debug is true. Labels are colored if stderr is a
// terminal and NO_COLOR is not set.
func Setup(prog string, debug bool) {
	level := log.Info
	if debug {
		level = log.Debug
	}
	l := New(os.Stderr, prog)
	_, noColor := os.LookupEnv("NO_COLOR")
	l.color = !noColor && isatty.IsTerminal(os.Stderr.Fd())
	log.SetDefault(&log.LevelFilter{
		Min:    level,
		Output: l,
	})
}
