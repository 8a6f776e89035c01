// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// A File is a collection of properties. The zero value is an empty file.
// Files can be read by multiple concurrent goroutines.
type File struct {
	sections []section
	trailing []string // comment and blank lines after the last property

	normalizeKey   func(section, key string) string
	defaultSection string
}

type section struct {
	lead       []string // comment and blank lines before the header
	name       string
	header     string // header line as read; empty if added by Set
	properties []property
}

type property struct {
	lead  []string // comment and blank lines before the property
	key   string   // normalized key used for lookups
	name  string   // key as written
	value string
	line  string // line as read; empty once modified
}

// ParseOptions holds optional parameters for Parse.
type ParseOptions struct {
	// NormalizeKey is called on each key to apply text transformations.
	// This can be used to make keys case-insensitive, for instance.
	// The File applies the same transformation to keys passed to its methods.
	// If nil, no transformations are made.
	NormalizeKey func(section, key string) string

	// DefaultSection names a section whose properties are visible from every
	// other section. If empty, no section is treated specially.
	DefaultSection string
}

// Parse parses an INI file. Nil options are treated identically as passing the
// zero value.
//
// See the Syntax section in the package documentation for the format recognized
// by Parse.
func Parse(r io.Reader, opts *ParseOptions) (*File, error) {
	s := bufio.NewScanner(r)
	f := &File{
		sections: []section{
			{name: ""}, // Always start with the global section.
		},
	}
	if opts != nil {
		f.normalizeKey = opts.NormalizeKey
		f.defaultSection = opts.DefaultSection
	}
	lineno := 1
	var lead []string
	for ; s.Scan(); lineno++ {
		raw := strings.TrimSuffix(s.Text(), "\r")
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == ';' || line[0] == '#' {
			lead = append(lead, raw)
			continue
		}
		if line[0] == '[' {
			name, err := parseSectionHeader(line)
			if err != nil {
				return f, fmt.Errorf("parse ini file: line %d: %w", lineno, err)
			}
			f.sections = append(f.sections, section{
				lead:   lead,
				name:   name,
				header: raw,
			})
			lead = nil
			continue
		}
		name, value, err := splitProperty(line)
		if err != nil {
			return f, fmt.Errorf("parse ini file: line %d: %w", lineno, err)
		}
		currSection := &f.sections[len(f.sections)-1]
		currSection.properties = append(currSection.properties, property{
			lead:  lead,
			key:   f.normalize(currSection.name, name),
			name:  name,
			value: value,
			line:  raw,
		})
		lead = nil
	}
	if err := s.Err(); err != nil {
		return f, fmt.Errorf("parse ini file: line %d: %w", lineno, err)
	}
	f.trailing = lead
	return f, nil
}

func parseSectionHeader(line string) (string, error) {
	if line[len(line)-1] != ']' {
		return "", errors.New("missing section closing bracket")
	}
	name := strings.TrimSpace(line[1 : len(line)-1])
	if len(name) == 0 {
		return "", errors.New("section name missing")
	}
	if strings.ContainsAny(name, "[]") {
		return "", errors.New("unexpected brackets in section name")
	}
	return name, nil
}

// splitProperty splits a trimmed property line at the first delimiter.
func splitProperty(line string) (key, value string, err error) {
	i := strings.IndexAny(line, "=:")
	if i == -1 {
		return "", "", errors.New("could not find '=' or ':'")
	}
	key = strings.TrimRightFunc(line[:i], unicode.IsSpace)
	if !IsValidKey(key) {
		return "", "", fmt.Errorf("invalid key %q", key)
	}
	value = strings.TrimLeftFunc(line[i+1:], unicode.IsSpace)
	return key, value, nil
}

func (f *File) normalize(section, key string) string {
	if f.normalizeKey == nil {
		return key
	}
	return f.normalizeKey(section, key)
}

// UnmarshalText parses the INI data with default options, replacing any
// properties or sections in f.
func (f *File) UnmarshalText(data []byte) error {
	parsed, err := Parse(bytes.NewReader(data), nil)
	if err != nil {
		return err
	}
	*f = *parsed
	return nil
}

// IsValidSection reports whether a string can be used as a section name in
// an INI file.
func IsValidSection(name string) bool {
	if name == "" {
		// Special case: global section.
		return true
	}
	first, _ := utf8.DecodeRuneInString(name)
	last, _ := utf8.DecodeLastRuneInString(name)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return false
	}
	return !strings.ContainsAny(name, "[]\n")
}

// IsValidKey reports whether a string can be used as a property key in
// an INI file.
func IsValidKey(key string) bool {
	if key == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(key)
	last, _ := utf8.DecodeLastRuneInString(key)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return false
	}
	if first == '[' || first == ']' {
		return false
	}
	return !strings.ContainsAny(key, ";#=:\n")
}

// IsValidValue reports whether a string can be stored as a property value
// and read back unchanged.
func IsValidValue(value string) bool {
	if strings.ContainsAny(value, "\r\n") {
		return false
	}
	return strings.TrimSpace(value) == value
}
