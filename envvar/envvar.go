// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package envvar reads the conftools commands' configuration from environment
// variables.
package envvar

import (
	"os"
	"strings"
)

// Environment variable names.
const (
	// Debug enables debug logging when set to a true value.
	Debug = "CONFTOOLS_DEBUG"
	// IncludeDir is the default directory for resolving relative
	// libconfig @include paths.
	IncludeDir = "CONFTOOLS_INCLUDE_DIR"
)

// Config is the environment-provided configuration of a command.
// Command-line flags take precedence over it.
type Config struct {
	Debug      bool
	IncludeDir string
}

// FromEnv reads the configuration from the process's environment.
func FromEnv() Config {
	return Config{
		Debug:      Bool(Debug),
		IncludeDir: Get(IncludeDir, ""),
	}
}

// Get returns the value of the given environment variable with surrounding
// whitespace removed. If it is empty or unset, it returns the default value.
func Get(key string, defaultValue string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	return v
}

// Bool returns the value of a boolean environment variable. It accepts the
// same spellings as INI booleans, ignoring case: 1, t, true, y, yes, and on
// are true. Anything else, including an unset variable, is false.
func Bool(key string) bool {
	switch strings.ToLower(Get(key, "")) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}
