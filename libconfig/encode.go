// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package libconfig

import (
	"bytes"
	"fmt"
	"io"
	"math"
)

const indentWidth = 4

// Marshal serializes the group as a libconfig document. Marshal returns an
// error if a setting name is invalid, an array does not hold scalars of a
// single type, or a float is not finite.
func Marshal(g *Group) ([]byte, error) {
	buf, err := appendSettings(nil, g, 0)
	if err != nil {
		return nil, fmt.Errorf("marshal libconfig: %w", err)
	}
	return buf, nil
}

// Encode writes the libconfig serialization of g to w.
func Encode(w io.Writer, g *Group) error {
	buf, err := Marshal(g)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

// MarshalText serializes the group as a libconfig document.
func (g *Group) MarshalText() ([]byte, error) {
	return Marshal(g)
}

// UnmarshalText parses the libconfig data with default options, replacing any
// settings in g.
func (g *Group) UnmarshalText(data []byte) error {
	parsed, err := Parse(bytes.NewReader(data), nil)
	if err != nil {
		return err
	}
	*g = *parsed
	return nil
}

func appendSettings(buf []byte, g *Group, indent int) ([]byte, error) {
	if g == nil {
		return buf, nil
	}
	for _, s := range g.Settings {
		if !IsValidName(s.Name) {
			return buf, fmt.Errorf("invalid setting name %q", s.Name)
		}
		var err error
		buf, err = appendValue(buf, s.Name, s.Value, indent)
		if err != nil {
			return buf, fmt.Errorf("%s: %w", s.Name, err)
		}
		buf = append(buf, ";\n"...)
	}
	return buf, nil
}

// appendValue writes v at the given indentation. Collections are opened on
// their own line beneath "name =". An empty name writes a bare value, as
// inside arrays and lists.
func appendValue(buf []byte, name string, v Value, indent int) ([]byte, error) {
	buf = appendIndent(buf, indent)
	if name != "" {
		buf = append(buf, name...)
		buf = append(buf, " ="...)
	}
	switch v := v.(type) {
	case *Group:
		if v.Len() == 0 {
			return appendInline(buf, name, "{}"), nil
		}
		buf = openCollection(buf, name, '{', indent)
		var err error
		buf, err = appendSettings(buf, v, indent+indentWidth)
		if err != nil {
			return buf, err
		}
		buf = appendIndent(buf, indent)
		return append(buf, '}'), nil
	case Array:
		if err := checkArray(v); err != nil {
			return buf, err
		}
		return appendElements(buf, name, '[', ']', v, indent)
	case List:
		return appendElements(buf, name, '(', ')', v, indent)
	case nil:
		return buf, fmt.Errorf("nil value")
	default:
		if name != "" {
			buf = append(buf, ' ')
		}
		return appendScalar(buf, v)
	}
}

func appendInline(buf []byte, name string, s string) []byte {
	if name != "" {
		buf = append(buf, ' ')
	}
	return append(buf, s...)
}

func openCollection(buf []byte, name string, open byte, indent int) []byte {
	if name != "" {
		buf = append(buf, '\n')
		buf = appendIndent(buf, indent)
	}
	return append(buf, open, '\n')
}

func appendElements(buf []byte, name string, open, close byte, elems []Value, indent int) ([]byte, error) {
	if len(elems) == 0 {
		return appendInline(buf, name, string([]byte{open, close})), nil
	}
	buf = openCollection(buf, name, open, indent)
	for i, elem := range elems {
		var err error
		buf, err = appendValue(buf, "", elem, indent+indentWidth)
		if err != nil {
			return buf, fmt.Errorf("index %d: %w", i, err)
		}
		if i < len(elems)-1 {
			buf = append(buf, ',')
		}
		buf = append(buf, '\n')
	}
	buf = appendIndent(buf, indent)
	return append(buf, close), nil
}

func appendScalar(buf []byte, v Value) ([]byte, error) {
	switch v := v.(type) {
	case Int:
		return append(buf, v.String()...), nil
	case Int64:
		return append(buf, v.String()...), nil
	case Float:
		if math.IsInf(float64(v), 0) || math.IsNaN(float64(v)) {
			return buf, fmt.Errorf("float %v cannot be represented", float64(v))
		}
		return append(buf, v.String()...), nil
	case Bool:
		return append(buf, v.String()...), nil
	case String:
		return appendQuotedString(buf, string(v)), nil
	default:
		return buf, fmt.Errorf("unsupported value type %T", v)
	}
}

func appendIndent(buf []byte, n int) []byte {
	for i := 0; i < n; i++ {
		buf = append(buf, ' ')
	}
	return buf
}

func appendQuotedString(dst []byte, v string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(v); i++ {
		switch c := v[i]; {
		case c == '\f':
			dst = append(dst, '\\', 'f')
		case c == '\n':
			dst = append(dst, '\\', 'n')
		case c == '\r':
			dst = append(dst, '\\', 'r')
		case c == '\t':
			dst = append(dst, '\\', 't')
		case c == '\\':
			dst = append(dst, '\\', '\\')
		case c == '"':
			dst = append(dst, '\\', '"')
		case c < ' ' || c == del:
			const hexDigits = "0123456789abcdef"
			dst = append(dst, '\\', 'x', hexDigits[c>>4], hexDigits[c&0xf])
		default:
			dst = append(dst, c)
		}
	}
	dst = append(dst, '"')
	return dst
}

const del = '\x7f'
