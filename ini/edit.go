// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrNoSection is returned by Set when the named section does not exist.
var ErrNoSection = errors.New("no such section")

// Get returns the last value associated with the given key in the given
// section. Passing an empty section name searches for properties outside
// any section. If there are no values associated with the key, Get returns
// the empty string.
func (f *File) Get(section, key string) string {
	v, _ := f.Lookup(section, key)
	return v
}

// Lookup returns the last value associated with the given key in the given
// section and reports whether one was found. If the file was parsed with a
// default section, keys missing from an existing named section are looked up
// there. A section that does not exist has no keys, even if the default
// section does.
func (f *File) Lookup(section, key string) (_ string, ok bool) {
	if f == nil {
		return "", false
	}
	key = f.normalize(section, key)
	if v, ok := f.get(section, key); ok {
		return v, true
	}
	if f.defaultSection == "" || section == "" || section == f.defaultSection || !f.HasSection(section) {
		return "", false
	}
	return f.get(f.defaultSection, f.normalize(f.defaultSection, key))
}

func (f *File) get(section, key string) (_ string, ok bool) {
	for i := len(f.sections) - 1; i >= 0; i-- {
		currSection := &f.sections[i]
		if currSection.name != section {
			continue
		}
		for j := len(currSection.properties) - 1; j >= 0; j-- {
			currProperty := &currSection.properties[j]
			if currProperty.key == key {
				return currProperty.value, true
			}
		}
	}
	return "", false
}

// HasSection reports whether the file has a section with the given name. The
// global section and the default section always exist.
func (f *File) HasSection(name string) bool {
	if name == "" {
		return true
	}
	if f == nil {
		return false
	}
	if name == f.defaultSection {
		return true
	}
	return f.indexOf(name) >= 0
}

// indexOf returns the index of the last section with the given name or -1.
func (f *File) indexOf(name string) int {
	for i := len(f.sections) - 1; i >= 0; i-- {
		if f.sections[i].name == name {
			return i
		}
	}
	return -1
}

// Sections returns the names of the sections in the file in the order they
// first appear. The global section and the default section are not included.
func (f *File) Sections() []string {
	if f == nil {
		return nil
	}
	var names []string
	seen := make(map[string]struct{}, len(f.sections))
	for _, s := range f.sections {
		if s.name == "" || s.name == f.defaultSection {
			continue
		}
		if _, dup := seen[s.name]; dup {
			continue
		}
		seen[s.name] = struct{}{}
		names = append(names, s.name)
	}
	return names
}

// AddSection appends an empty section with the given name to the end of the
// file. It does nothing if the section already exists. AddSection will panic
// if IsValidSection(name) reports false.
func (f *File) AddSection(name string) {
	if !IsValidSection(name) {
		panic("File.AddSection invalid section: " + name)
	}
	if name == "" || f.indexOf(name) >= 0 {
		return
	}
	if len(f.sections) == 0 {
		f.sections = append(f.sections, section{})
	}
	// Comments at the end of the file stay at the end of the file.
	f.sections = append(f.sections, section{name: name, lead: f.trailing})
	f.trailing = nil
}

// Set sets the property to the given value. If the section name is empty, the
// property is set outside any section. Set returns an error wrapping
// ErrNoSection if the section does not exist; call AddSection first to
// create it. Set will panic if IsValidSection(sectionName), IsValidKey(key),
// or IsValidValue(value) report false.
//
// If the file already had at least one property in the given section with the
// given key, then the last one will be set to value and the properties defined
// earlier in the file will be removed. Otherwise, the property will be appended
// to the last section with the given name.
func (f *File) Set(sectionName, key, value string) error {
	if !IsValidSection(sectionName) {
		panic("File.Set invalid section: " + sectionName)
	}
	if !IsValidKey(key) {
		panic("File.Set invalid key: " + key)
	}
	if !IsValidValue(value) {
		panic(fmt.Sprintf("File.Set invalid value: %q", value))
	}
	if len(f.sections) == 0 {
		f.sections = append(f.sections, section{})
	}
	name := key
	key = f.normalize(sectionName, key)
	var addToSection *section
	wrote := false
	for i := len(f.sections) - 1; i >= 0; i-- {
		currSection := &f.sections[i]
		if currSection.name != sectionName {
			continue
		}
		if addToSection == nil {
			addToSection = currSection
		}
		for j := len(currSection.properties) - 1; j >= 0; j-- {
			prop := &currSection.properties[j]
			if prop.key != key {
				continue
			}
			if wrote {
				// Delete any previous properties with the same section/key.
				copy(currSection.properties[j:], currSection.properties[j+1:])
				// Zero out truncated element for garbage collection.
				currSection.properties[len(currSection.properties)-1] = property{}
				currSection.properties = currSection.properties[:len(currSection.properties)-1]
			} else {
				if prop.value != value {
					prop.value = value
					prop.line = ""
				}
				wrote = true
			}
		}
	}
	if wrote {
		return nil
	}
	if addToSection == nil {
		if sectionName == "" || sectionName != f.defaultSection {
			return fmt.Errorf("set %s.%s: %w", sectionName, name, ErrNoSection)
		}
		// The default section exists implicitly. Add it right after the
		// global section.
		f.sections = append(f.sections, section{})
		copy(f.sections[2:], f.sections[1:])
		f.sections[1] = section{name: sectionName}
		addToSection = &f.sections[1]
	}
	addToSection.properties = append(addToSection.properties, property{
		key:   key,
		name:  name,
		value: value,
	})
	return nil
}

// Delete deletes any property with the given key in sections with the
// given name, along with the comments directly above it. Sections are never
// removed. Delete reports whether any property was deleted.
func (f *File) Delete(sectionName, key string) bool {
	if f == nil {
		return false
	}
	key = f.normalize(sectionName, key)
	deleted := false
	for i := range f.sections {
		s := &f.sections[i]
		if s.name != sectionName {
			continue
		}
		propertyCount := 0
		for j := range s.properties {
			if s.properties[j].key != key {
				s.properties[propertyCount] = s.properties[j]
				propertyCount++
			}
		}
		for j := propertyCount; j < len(s.properties); j++ {
			// Zero out for garbage collection.
			s.properties[j] = property{}
			deleted = true
		}
		s.properties = s.properties[:propertyCount]
	}
	return deleted
}

// MarshalText serializes the file in INI format. Lines that were read by Parse
// and not modified since are written verbatim. Other properties are written
// as "key = value".
func (f *File) MarshalText() ([]byte, error) {
	if f == nil {
		return nil, nil
	}
	var buf []byte
	for _, s := range f.sections {
		buf = appendLines(buf, s.lead)
		if s.name != "" {
			if s.header != "" {
				buf = append(buf, s.header...)
			} else {
				if len(s.lead) == 0 && len(buf) > 0 && !bytes.HasSuffix(buf, []byte("\n\n")) {
					// Separate new sections from the previous one.
					buf = append(buf, '\n')
				}
				buf = append(buf, '[')
				buf = append(buf, s.name...)
				buf = append(buf, ']')
			}
			buf = append(buf, '\n')
		}
		for _, prop := range s.properties {
			buf = appendLines(buf, prop.lead)
			if prop.line != "" {
				buf = append(buf, prop.line...)
			} else {
				buf = append(buf, prop.name...)
				buf = append(buf, " = "...)
				buf = append(buf, prop.value...)
			}
			buf = append(buf, '\n')
		}
	}
	buf = appendLines(buf, f.trailing)
	return buf, nil
}

func appendLines(dst []byte, lines []string) []byte {
	for _, line := range lines {
		dst = append(dst, line...)
		dst = append(dst, '\n')
	}
	return dst
}
