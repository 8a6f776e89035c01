// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package jsondoc provides an order-preserving JSON document model.
//
// Unlike decoding into map[string]interface{}, objects keep their members in
// document order and numbers keep their source text, so an integer stays
// distinguishable from a float with the same value.
package jsondoc

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/pretty"
)

// A Value is one of: nil (JSON null), bool, string, Number, Array or *Object.
type Value interface{}

// Number is the text of a JSON number, like "42" or "1.5e3".
type Number string

// IsInteger reports whether the number has neither a fraction nor an
// exponent.
func (n Number) IsInteger() bool {
	return !strings.ContainsAny(string(n), ".eE")
}

// Array is a JSON array.
type Array []Value

// An Object is a JSON object whose members are kept in order.
// The zero value is an empty object.
type Object struct {
	Members []Member
}

// A Member is a named value within an object.
type Member struct {
	Name  string
	Value Value
}

// Len returns the number of members in the object.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Members)
}

// Lookup returns the value of the named member.
func (o *Object) Lookup(name string) (_ Value, ok bool) {
	if o == nil {
		return nil, false
	}
	for _, m := range o.Members {
		if m.Name == name {
			return m.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of the named member in place or appends a new member
// to the end of the object.
func (o *Object) Set(name string, v Value) {
	for i := range o.Members {
		if o.Members[i].Name == name {
			o.Members[i].Value = v
			return
		}
	}
	o.Members = append(o.Members, Member{Name: name, Value: v})
}

// Parse parses a JSON document. Comments and trailing commas are permitted.
// When an object has repeated member names, the last value wins and keeps the
// position of the first.
func Parse(data []byte) (Value, error) {
	data = jsonc.ToJSON(data)
	if !gjson.ValidBytes(data) {
		return nil, errors.New("parse json: invalid document")
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return Number(strings.TrimSpace(r.Raw))
	case gjson.String:
		return r.Str
	}
	if r.IsArray() {
		arr := Array{}
		r.ForEach(func(_, elem gjson.Result) bool {
			arr = append(arr, fromResult(elem))
			return true
		})
		return arr
	}
	obj := new(Object)
	r.ForEach(func(key, member gjson.Result) bool {
		obj.Set(key.Str, fromResult(member))
		return true
	})
	return obj
}

// Marshal returns the compact JSON encoding of v with object members in
// order.
func Marshal(v Value) ([]byte, error) {
	buf, err := appendValue(nil, v)
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return buf, nil
}

// MarshalIndent returns the JSON encoding of v indented by two spaces, one
// array element per line, with object members sorted by name.
func MarshalIndent(v Value) ([]byte, error) {
	buf, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(buf, &pretty.Options{
		Indent:   "  ",
		SortKeys: true,
	}), nil
}

// MarshalJSON returns the compact encoding of the object.
func (o *Object) MarshalJSON() ([]byte, error) {
	return Marshal(o)
}

func appendValue(buf []byte, v Value) ([]byte, error) {
	switch v := v.(type) {
	case nil:
		return append(buf, "null"...), nil
	case bool:
		if v {
			return append(buf, "true"...), nil
		}
		return append(buf, "false"...), nil
	case string:
		return appendString(buf, v), nil
	case Number:
		if s := string(v); !gjson.Valid(s) || gjson.Parse(s).Type != gjson.Number || strings.TrimSpace(s) != s {
			return buf, fmt.Errorf("invalid number %q", string(v))
		}
		return append(buf, v...), nil
	case Array:
		buf = append(buf, '[')
		for i, elem := range v {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			buf, err = appendValue(buf, elem)
			if err != nil {
				return buf, err
			}
		}
		return append(buf, ']'), nil
	case *Object:
		buf = append(buf, '{')
		if v != nil {
			for i, m := range v.Members {
				if i > 0 {
					buf = append(buf, ',')
				}
				buf = appendString(buf, m.Name)
				buf = append(buf, ':')
				var err error
				buf, err = appendValue(buf, m.Value)
				if err != nil {
					return buf, fmt.Errorf("%s: %w", m.Name, err)
				}
			}
		}
		return append(buf, '}'), nil
	default:
		return buf, fmt.Errorf("unsupported type %T", v)
	}
}

// appendString appends v as a JSON string. Invalid UTF-8 is replaced with
// U+FFFD.
func appendString(dst []byte, v string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(v); i++ {
		if c := v[i]; c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(v[i:])
			if r == utf8.RuneError && size == 1 {
				dst = append(dst, `\ufffd`...)
			} else {
				dst = append(dst, v[i:i+size]...)
			}
			i += size - 1
			continue
		}
		switch c := v[i]; {
		case c == '\b':
			dst = append(dst, '\\', 'b')
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
		case c < ' ':
			const hexDigits = "0123456789abcdef"
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		default:
			dst = append(dst, c)
		}
	}
	return append(dst, '"')
}
