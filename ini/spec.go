// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"fmt"
	"strings"
)

// A Spec is a property reference given on a command line, either
// "section.key" to read the property or "section.key=value" to write it.
type Spec struct {
	Section string
	Key     string
	// Write is true if the reference included an equals sign.
	// A write with an empty Value deletes the property.
	Write bool
	Value string
}

// ParseSpec parses a property reference. The argument is split at the first
// equals sign and the part before it at the first dot, so keys may contain
// dots but section names may not.
func ParseSpec(arg string) (Spec, error) {
	ref, value, write := strings.Cut(arg, "=")
	section, key, ok := strings.Cut(ref, ".")
	if !ok {
		return Spec{}, fmt.Errorf("parse %q: missing '.' between section and key", arg)
	}
	section = strings.TrimSpace(section)
	key = strings.TrimSpace(key)
	if section == "" {
		return Spec{}, fmt.Errorf("parse %q: empty section name", arg)
	}
	if !IsValidSection(section) {
		return Spec{}, fmt.Errorf("parse %q: invalid section name %q", arg, section)
	}
	if !IsValidKey(key) {
		return Spec{}, fmt.Errorf("parse %q: invalid key %q", arg, key)
	}
	spec := Spec{
		Section: section,
		Key:     key,
		Write:   write,
	}
	if write {
		spec.Value = strings.TrimSpace(value)
		if !IsValidValue(spec.Value) {
			return Spec{}, fmt.Errorf("parse %q: invalid value", arg)
		}
	}
	return spec, nil
}

// String returns the spec in command-line form.
func (spec Spec) String() string {
	s := spec.Section + "." + spec.Key
	if spec.Write {
		s += "=" + spec.Value
	}
	return s
}
