// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

/*
Package libconfig provides a parser and serializer for the libconfig
structured configuration format.
See https://hyperrealm.github.io/libconfig/libconfig_manual.html.

The package keeps settings in the order they appear in the source, so a
parse-then-marshal cycle produces a file that reads the same way as the
original, minus comments.

Syntax

A configuration is a sequence of settings. A setting is a name and a value
separated by an equals sign ('=') or a colon (':') and optionally terminated by
a semicolon (';') or a comma (','):

	name = value;

Names start with a letter or an asterisk and continue with letters, digits,
dashes ('-'), underscores ('_') or asterisks ('*').

Values are one of:

	{ settings }       group: named settings, names unique within the group
	[ v1, v2, ... ]    array: scalars that all have the same type
	( v1, v2, ... )    list: values of any type, including groups and lists
	42, 0x2A, 42L      integer (a trailing L marks a 64-bit integer)
	3.14, 1e-3         float
	true, FALSE        boolean (case-insensitive)
	"text"             string

Decimal integers may not have leading zeros; FixLeadingZeros rewrites such
literals before parsing. Strings support the escapes \\, \", \f, \n, \r, \t and
\xFF. Adjacent string literals are concatenated.

Comments start with '#' or '//' and run to the end of the line, or are
C-style block comments.

A line of the form

	@include "path"

is replaced with the settings of the named file. Relative paths are resolved
against ParseOptions.IncludeDir.
*/
package libconfig
