// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

/*
Package ini provides a parser and editor for INI configuration files.
See https://en.wikipedia.org/wiki/INI_file.

This package is specifically designed for editing files in place: lines that
are not modified, including comments and blank lines, are written back exactly
as they were read. It accepts the subset of Python's configparser syntax used
by most daemons that read INI files.

Syntax

An INI file is Unicode text encoded in UTF-8. The text is not canonicalized.

An INI file consists of zero or more properties. A property is a key and
value written on a single line, separated by an equals sign ('=') or a colon
(':'), whichever comes first:

	key = value
	other: value

Keys are not allowed to contain semicolons (';'), hashes ('#'), equals signs
('='), or colons (':'), or start with a square bracket ('[' or ']'). Values
are taken literally: quotes are not interpreted and inline comments are not
recognized. An empty value is permitted.

Properties are grouped into sections. A section is started by writing its name
in square brackets ('[' and ']') on its own line and ends at the next section
name or the end of file:

	[section]
	key1 = value1
	key2 = value2

Properties encountered before a section name are permitted. They are considered
part of the global section, identified by the empty string ("").

Whitespace at the beginning or end of lines, around section names, around
property keys, and around property values is ignored. If the first
non-whitespace character in a line is a semicolon (';') or a hash ('#'), then
the line is treated as a comment.

Defaults

If ParseOptions.DefaultSection is set, properties in the section with that name
are visible from every other section when looking up a key, like the DEFAULT
section of configparser.

Repeated names

Multiple properties in the same section may have the same key. Lookups use
the last value, and Set collapses them into a single property.

Multiple sections may have the same name. These are treated as if their
properties were presented contiguously in the same section.
*/
package ini
