// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

/*
Package dtype converts libconfig settings to JSON and back without losing the
distinction between arrays and lists.

libconfig has two sequence types: an array ([scalar, scalar]) holds scalars of
a single type and a list ((value, value)) holds values of any type. Both become
JSON arrays, so Tag records the original type of each sequence in a sibling
member of the enclosing object whose name is the setting name followed by
":dtype":

	{"a": [1, 2, 3], "a:dtype": "array", "b": [1, "x", true], "b:dtype": "list"}

Recover reads those members back and drops them from the result. Setting names
cannot contain a colon, so a discriminator never collides with a setting.

Only sequences that are the value of a named setting carry a discriminator. A
sequence nested directly inside a list has no name to attach one to: Tag
converts it without a discriminator and Recover rejects it.
*/
package dtype

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yourbase/conftools/jsondoc"
	"github.com/yourbase/conftools/libconfig"
)

// Suffix is appended to a setting name to form the name of its discriminator.
const Suffix = ":dtype"

// Kind is the value of a discriminator.
type Kind string

// Discriminator values.
const (
	Array Kind = "array"
	List  Kind = "list"
)

// kindOf parses a discriminator value. The single-letter forms were written
// by earlier versions of the converter.
func kindOf(v jsondoc.Value) (Kind, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	switch s {
	case string(Array), "a":
		return Array, true
	case string(List), "l":
		return List, true
	default:
		return "", false
	}
}

// A DataError is returned by Recover when a JSON value has no libconfig
// equivalent.
type DataError struct {
	// Key is the name of the member holding Value, or empty for a top-level
	// value or a list element.
	Key string
	// Tag is the discriminator found for Key, or nil if there was none.
	Tag   jsondoc.Value
	Value jsondoc.Value
	Msg   string
}

func (e *DataError) Error() string {
	key := e.Key
	if key == "" {
		key = "<unnamed>"
	}
	msg := fmt.Sprintf("%s = %s: %s", key, abbrev(e.Value), e.Msg)
	if e.Tag != nil {
		msg += fmt.Sprintf(" (found %s%s = %s)", e.Key, Suffix, abbrev(e.Tag))
	}
	return msg
}

// abbrev returns the JSON text of v, shortened for error messages.
func abbrev(v jsondoc.Value) string {
	const max = 64
	text, err := jsondoc.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	if len(text) > max {
		return string(text[:max-3]) + "..."
	}
	return string(text)
}

// Tag converts a libconfig value to JSON, adding a discriminator next to every
// sequence that is the value of a setting.
func Tag(v libconfig.Value) jsondoc.Value {
	out, _, _ := tag(v)
	return out
}

// tag returns the JSON form of v. If v is a sequence, tag also returns its
// discriminator and true; the caller decides where the discriminator goes.
func tag(v libconfig.Value) (jsondoc.Value, Kind, bool) {
	switch v := v.(type) {
	case *libconfig.Group:
		obj := &jsondoc.Object{Members: make([]jsondoc.Member, 0, v.Len())}
		for _, s := range v.Settings {
			out, kind, isSeq := tag(s.Value)
			obj.Members = append(obj.Members, jsondoc.Member{Name: s.Name, Value: out})
			if isSeq {
				obj.Members = append(obj.Members, jsondoc.Member{Name: s.Name + Suffix, Value: string(kind)})
			}
		}
		return obj, "", false
	case libconfig.List:
		arr := make(jsondoc.Array, 0, len(v))
		for _, elem := range v {
			// Any discriminator of elem is lost: it has no name.
			out, _, _ := tag(elem)
			arr = append(arr, out)
		}
		return arr, List, true
	case libconfig.Array:
		arr := make(jsondoc.Array, 0, len(v))
		for _, elem := range v {
			arr = append(arr, scalarToJSON(elem))
		}
		return arr, Array, true
	default:
		return scalarToJSON(v), "", false
	}
}

func scalarToJSON(v libconfig.Value) jsondoc.Value {
	switch v := v.(type) {
	case libconfig.Int:
		return jsondoc.Number(strconv.FormatInt(int64(v), 10))
	case libconfig.Int64:
		return jsondoc.Number(strconv.FormatInt(int64(v), 10))
	case libconfig.Float:
		return jsondoc.Number(v.String())
	case libconfig.Bool:
		return bool(v)
	case libconfig.String:
		return string(v)
	case nil:
		return nil
	default:
		// Array elements are expected to be scalars and are not descended
		// into. Anything else is tagged in place without a discriminator.
		out, _, _ := tag(v)
		return out
	}
}

// Recover converts tagged JSON back to a libconfig value, using the
// discriminators that Tag added to decide between arrays and lists. The
// discriminators are not copied to the result.
//
// Recover returns a *DataError if a JSON array has no valid discriminator or a
// value has no libconfig equivalent.
//
// JSON does not distinguish 32-bit from 64-bit integers, so every integer is
// recovered as an Int. A setting written as 5L comes back as 5; values
// outside the 32-bit range still encode with the L suffix.
func Recover(v jsondoc.Value) (libconfig.Value, error) {
	return recoverValue(nil, "", v)
}

// recoverValue converts v, the value of member key in parent. parent is the
// tagged object, so the discriminator for key can still be found in it.
func recoverValue(parent *jsondoc.Object, key string, v jsondoc.Value) (libconfig.Value, error) {
	switch v := v.(type) {
	case *jsondoc.Object:
		g := &libconfig.Group{Settings: make([]libconfig.Setting, 0, v.Len())}
		if v == nil {
			return g, nil
		}
		for _, m := range v.Members {
			if strings.HasSuffix(m.Name, Suffix) {
				continue
			}
			val, err := recoverValue(v, m.Name, m.Value)
			if err != nil {
				return nil, err
			}
			g.Settings = append(g.Settings, libconfig.Setting{Name: m.Name, Value: val})
		}
		return g, nil
	case jsondoc.Array:
		var tagValue jsondoc.Value
		if parent != nil {
			tagValue, _ = parent.Lookup(key + Suffix)
		}
		kind, ok := kindOf(tagValue)
		if !ok {
			return nil, &DataError{
				Key:   key,
				Tag:   tagValue,
				Value: v,
				Msg:   "missing or invalid discriminator",
			}
		}
		if kind == List {
			l := make(libconfig.List, 0, len(v))
			for _, elem := range v {
				val, err := recoverValue(nil, "", elem)
				if err != nil {
					return nil, err
				}
				l = append(l, val)
			}
			return l, nil
		}
		a := make(libconfig.Array, 0, len(v))
		for _, elem := range v {
			switch elem.(type) {
			case jsondoc.Array, *jsondoc.Object:
				return nil, &DataError{Key: key, Tag: tagValue, Value: v, Msg: "array elements must be scalars"}
			}
			val, err := scalarFromJSON(key, elem)
			if err != nil {
				return nil, err
			}
			a = append(a, val)
		}
		return a, nil
	default:
		return scalarFromJSON(key, v)
	}
}

func scalarFromJSON(key string, v jsondoc.Value) (libconfig.Value, error) {
	switch v := v.(type) {
	case bool:
		return libconfig.Bool(v), nil
	case string:
		return libconfig.String(v), nil
	case jsondoc.Number:
		if v.IsInteger() {
			i, err := strconv.ParseInt(string(v), 10, 64)
			if err != nil {
				return nil, &DataError{Key: key, Value: v, Msg: "integer out of range"}
			}
			return libconfig.Int(i), nil
		}
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil || math.IsInf(f, 0) {
			return nil, &DataError{Key: key, Value: v, Msg: "float out of range"}
		}
		return libconfig.Float(f), nil
	case nil:
		return nil, &DataError{Key: key, Value: v, Msg: "null has no libconfig equivalent"}
	default:
		return nil, &DataError{Key: key, Value: v, Msg: "unsupported value"}
	}
}
