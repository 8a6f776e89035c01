// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package libconfig

import (
	"math"
	"strconv"
)

// Kind identifies the type of a Value.
type Kind int

// Value kinds.
const (
	InvalidKind Kind = iota
	IntKind
	Int64Kind
	FloatKind
	BoolKind
	StringKind
	GroupKind
	ArrayKind
	ListKind
)

var kindNames = [...]string{
	InvalidKind: "invalid",
	IntKind:     "int",
	Int64Kind:   "int64",
	FloatKind:   "float",
	BoolKind:    "bool",
	StringKind:  "string",
	GroupKind:   "group",
	ArrayKind:   "array",
	ListKind:    "list",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// A Value is a setting value: one of Int, Int64, Float, Bool, String, *Group,
// Array, or List.
type Value interface {
	Kind() Kind
	libconfigValue()
}

// Int is an integer written without a 64-bit suffix. Values outside the
// 32-bit range are written with one anyway.
type Int int64

// Int64 is an integer written with the L suffix.
type Int64 int64

// Float is a floating-point number.
type Float float64

// Bool is a boolean.
type Bool bool

// String is a string.
type String string

// Array is a sequence of scalars that all have the same type.
type Array []Value

// List is a sequence of values of any type.
type List []Value

// A Group is an ordered collection of uniquely named settings.
// The zero value is an empty group.
type Group struct {
	Settings []Setting
}

// A Setting is a named value within a group.
type Setting struct {
	Name  string
	Value Value
}

func (Int) Kind() Kind    { return IntKind }
func (Int64) Kind() Kind  { return Int64Kind }
func (Float) Kind() Kind  { return FloatKind }
func (Bool) Kind() Kind   { return BoolKind }
func (String) Kind() Kind { return StringKind }
func (*Group) Kind() Kind { return GroupKind }
func (Array) Kind() Kind  { return ArrayKind }
func (List) Kind() Kind   { return ListKind }

func (Int) libconfigValue()    {}
func (Int64) libconfigValue()  {}
func (Float) libconfigValue()  {}
func (Bool) libconfigValue()   {}
func (String) libconfigValue() {}
func (*Group) libconfigValue() {}
func (Array) libconfigValue()  {}
func (List) libconfigValue()   {}

// String returns the integer as a libconfig literal.
func (i Int) String() string {
	s := strconv.FormatInt(int64(i), 10)
	if i < math.MinInt32 || i > math.MaxInt32 {
		s += "L"
	}
	return s
}

// String returns the integer as a libconfig literal.
func (i Int64) String() string {
	return strconv.FormatInt(int64(i), 10) + "L"
}

// String returns the number as a libconfig literal. The result always has a
// decimal point or an exponent so that it reads back as a float.
func (f Float) String() string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 64)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', 'e', 'n', 'N', 'I':
			// Has a fraction, an exponent, or is NaN/Inf.
			return s
		}
	}
	return s + ".0"
}

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Len returns the number of settings in the group.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Settings)
}

// Lookup returns the value of the named setting.
func (g *Group) Lookup(name string) (_ Value, ok bool) {
	if g == nil {
		return nil, false
	}
	for _, s := range g.Settings {
		if s.Name == name {
			return s.Value, true
		}
	}
	return nil, false
}

// Get returns the value of the named setting or nil if the group has no such
// setting.
func (g *Group) Get(name string) Value {
	v, _ := g.Lookup(name)
	return v
}

// Set replaces the value of the named setting or appends a new setting to the
// end of the group. Set will panic if IsValidName(name) reports false or v is
// nil.
func (g *Group) Set(name string, v Value) {
	if !IsValidName(name) {
		panic("Group.Set invalid name: " + name)
	}
	if v == nil {
		panic("Group.Set nil value for " + name)
	}
	for i := range g.Settings {
		if g.Settings[i].Name == name {
			g.Settings[i].Value = v
			return
		}
	}
	g.Settings = append(g.Settings, Setting{Name: name, Value: v})
}

// Names returns the setting names in order.
func (g *Group) Names() []string {
	if g == nil {
		return nil
	}
	names := make([]string, len(g.Settings))
	for i, s := range g.Settings {
		names[i] = s.Name
	}
	return names
}

// IsScalar reports whether v is an integer, float, boolean or string.
func IsScalar(v Value) bool {
	switch v.(type) {
	case Int, Int64, Float, Bool, String:
		return true
	default:
		return false
	}
}

// IsValidName reports whether a string can be used as a setting name.
func IsValidName(name string) bool {
	if name == "" {
		return false
	}
	if !isNameStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isNameChar(name[i]) {
			return false
		}
	}
	return true
}

func isNameStart(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '*'
}

func isNameChar(c byte) bool {
	return isNameStart(c) || '0' <= c && c <= '9' || c == '-' || c == '_'
}

// scalarFamily groups the scalar kinds that may share an array.
func scalarFamily(v Value) Kind {
	switch v.(type) {
	case Int, Int64:
		return IntKind
	case Float:
		return FloatKind
	case Bool:
		return BoolKind
	case String:
		return StringKind
	default:
		return InvalidKind
	}
}

// checkArray verifies that every element of a is a scalar of the same type.
func checkArray(a Array) error {
	if len(a) == 0 {
		return nil
	}
	want := scalarFamily(a[0])
	for i, elem := range a {
		got := scalarFamily(elem)
		if got == InvalidKind {
			return &arrayError{index: i, msg: "element is a " + kindOf(elem).String() + ", not a scalar"}
		}
		if got != want {
			return &arrayError{index: i, msg: "element is a " + got.String() + " in an array of " + want.String()}
		}
	}
	return nil
}

type arrayError struct {
	index int
	msg   string
}

func (e *arrayError) Error() string {
	return "array index " + strconv.Itoa(e.index) + ": " + e.msg
}

func kindOf(v Value) Kind {
	if v == nil {
		return InvalidKind
	}
	return v.Kind()
}
