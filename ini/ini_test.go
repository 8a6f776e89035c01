// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini

import (
	"encoding"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Ensure File satisfies the encoding.Text* interfaces.
var _ interface {
	encoding.TextMarshaler
	encoding.TextUnmarshaler
} = new(File)

// properties returns every property in f, grouped by section.
func properties(f *File) map[string]map[string][]string {
	result := make(map[string]map[string][]string)
	for _, s := range f.sections {
		for _, p := range s.properties {
			if result[s.name] == nil {
				result[s.name] = make(map[string][]string)
			}
			result[s.name][p.key] = append(result[s.name][p.key], p.value)
		}
	}
	return result
}

func TestNil(t *testing.T) {
	f := (*File)(nil)
	if got := f.Get("foo", "bar"); got != "" {
		t.Errorf("Get(...) = %q; want empty", got)
	}
	if got, ok := f.Lookup("foo", "bar"); ok {
		t.Errorf("Lookup(...) = %q, true; want false", got)
	}
	if got := f.Sections(); len(got) > 0 {
		t.Errorf("Sections(...) = %q; want empty", got)
	}
	if f.HasSection("foo") {
		t.Error("HasSection(\"foo\") = true; want false")
	}
	if f.Delete("foo", "bar") {
		t.Error("Delete(...) = true; want false")
	}
	if got, err := f.MarshalText(); err != nil {
		t.Errorf("MarshalText(): %v", err)
	} else if len(got) > 0 {
		t.Errorf("MarshalText() = %q; want empty", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		options  *ParseOptions
		want     map[string]map[string][]string
		wantErr  bool
		sections []string
		// output is the result of MarshalText. If empty, it must equal source.
		output string
	}{
		{
			name: "Empty",
		},
		{
			name:   "EmptyWithNewline",
			source: "\n",
		},
		{
			name:   "Single",
			source: "FOO=bar\n",
			want: map[string]map[string][]string{
				"": {"FOO": {"bar"}},
			},
		},
		{
			name:    "NoDelimiter",
			source:  "FOO\n",
			wantErr: true,
		},
		{
			name:   "Colon",
			source: "FOO: bar\n",
			want: map[string]map[string][]string{
				"": {"FOO": {"bar"}},
			},
		},
		{
			name:   "FirstDelimiterWins",
			source: "url = http://example.com/?a=b\ntime: 12:00=noon\n",
			want: map[string]map[string][]string{
				"": {
					"url":  {"http://example.com/?a=b"},
					"time": {"12:00=noon"},
				},
			},
		},
		{
			name:   "EmptyValue",
			source: "FOO =\n",
			want: map[string]map[string][]string{
				"": {"FOO": {""}},
			},
		},
		{
			name:   "SpaceSurroundingBoth",
			source: " FOO = bar \n",
			want: map[string]map[string][]string{
				"": {"FOO": {"bar"}},
			},
		},
		{
			name:   "NoNewline",
			source: "FOO=bar",
			want: map[string]map[string][]string{
				"": {"FOO": {"bar"}},
			},
			output: "FOO=bar\n",
		},
		{
			name:    "SemicolonKey",
			source:  "FOO;Bar=bar\n",
			wantErr: true,
		},
		{
			name:   "MultipleValues",
			source: "FOO=bar\nFOO=baz\n",
			want: map[string]map[string][]string{
				"": {"FOO": {"bar", "baz"}},
			},
		},
		{
			name:   "BlankLine",
			source: "FOO=bar\n\nBAZ=quux\n",
			want: map[string]map[string][]string{
				"": {
					"FOO": {"bar"},
					"BAZ": {"quux"},
				},
			},
		},
		{
			name:   "CRLF",
			source: "FOO=bar\r\n\r\nBAZ=quux\r\n",
			want: map[string]map[string][]string{
				"": {
					"FOO": {"bar"},
					"BAZ": {"quux"},
				},
			},
			output: "FOO=bar\n\nBAZ=quux\n",
		},
		{
			name:   "QuotesAreLiteral",
			source: `foo = "hello world"` + "\n" + `bar = \x00` + "\n",
			want: map[string]map[string][]string{
				"": {
					"foo": {`"hello world"`},
					"bar": {`\x00`},
				},
			},
		},
		{
			name:   "InlineSemicolonIsValue",
			source: "opts = a;b ; c\n",
			want: map[string]map[string][]string{
				"": {"opts": {"a;b ; c"}},
			},
		},
		{
			name:   "Section",
			source: "[foo]\nbar=baz\n",
			want: map[string]map[string][]string{
				"foo": {"bar": {"baz"}},
			},
			sections: []string{"foo"},
		},
		{
			name:    "MissingSectionName",
			source:  "[]\nbar=baz\n",
			wantErr: true,
		},
		{
			name:    "MissingSectionBracket",
			source:  "[foo\nbar=baz\n",
			wantErr: true,
		},
		{
			name:    "MismatchedSectionBracket",
			source:  "[foo]]\nbar=baz\n",
			wantErr: true,
		},
		{
			name:   "SectionWhitespace",
			source: "  [  foo  ] \nbar=baz\n",
			want: map[string]map[string][]string{
				"foo": {"bar": {"baz"}},
			},
			sections: []string{"foo"},
		},
		{
			name:     "EmptySection",
			source:   "[foo]\n[bar]\n",
			sections: []string{"foo", "bar"},
		},
		{
			name: "RepeatedSection",
			source: "[foo]\nbar=baz\n\n" +
				"[python]\nspam=eggs\n\n" +
				"[foo]\nbar=quux\n",
			want: map[string]map[string][]string{
				"foo":    {"bar": {"baz", "quux"}},
				"python": {"spam": {"eggs"}},
			},
			sections: []string{"foo", "python"},
		},
		{
			name: "Comments",
			source: "; This explains everything!\n" +
				"# ... 42\n" +
				"\n" +
				"  ; indented\n" +
				"[foo]\n" +
				"bar = baz\n" +
				"; P.S.: You're awesome!\n",
			want: map[string]map[string][]string{
				"foo": {"bar": {"baz"}},
			},
			sections: []string{"foo"},
		},
		{
			name:   "NormalizeKey",
			source: "[foo]\nBar=baz\n",
			options: &ParseOptions{
				NormalizeKey: func(section, key string) string {
					return strings.ToLower(key)
				},
			},
			want: map[string]map[string][]string{
				"foo": {"bar": {"baz"}},
			},
			sections: []string{"foo"},
		},
		{
			name:   "DefaultSectionNotListed",
			source: "[DEFAULT]\na=1\n[foo]\n",
			options: &ParseOptions{
				DefaultSection: "DEFAULT",
			},
			want: map[string]map[string][]string{
				"DEFAULT": {"a": {"1"}},
			},
			sections: []string{"foo"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f, err := Parse(strings.NewReader(test.source), test.options)
			if err != nil {
				t.Logf("Parse: %v", err)
				if !test.wantErr {
					t.Fail()
				}
				return
			}
			if test.wantErr {
				t.Fatal("Parse did not return an error")
			}
			if diff := cmp.Diff(test.want, properties(f), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("properties (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.sections, f.Sections(), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("f.Sections() (-want +got):\n%s", diff)
			}
			wantOutput := test.output
			if wantOutput == "" {
				wantOutput = test.source
			}
			got, err := f.MarshalText()
			if err != nil {
				t.Fatal("MarshalText:", err)
			}
			if diff := cmp.Diff(wantOutput, string(got)); diff != "" {
				t.Errorf("MarshalText() (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	const source = "top = 1\n" +
		"[DEFAULT]\n" +
		"level = info\n" +
		"[enb]\n" +
		"mcc = 001\n" +
		"level = debug\n" +
		"[rf]\n" +
		"dl_earfcn = 3350\n"
	f, err := Parse(strings.NewReader(source), &ParseOptions{
		NormalizeKey: func(section, key string) string {
			return strings.ToLower(key)
		},
		DefaultSection: "DEFAULT",
	})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		section string
		key     string
		want    string
		wantOK  bool
	}{
		{section: "", key: "top", want: "1", wantOK: true},
		{section: "enb", key: "mcc", want: "001", wantOK: true},
		{section: "enb", key: "MCC", want: "001", wantOK: true},
		{section: "enb", key: "level", want: "debug", wantOK: true},
		{section: "rf", key: "level", want: "info", wantOK: true},
		{section: "rf", key: "dl_earfcn", want: "3350", wantOK: true},
		{section: "DEFAULT", key: "level", want: "info", wantOK: true},
		{section: "rf", key: "mcc", want: "", wantOK: false},
		{section: "missing", key: "level", want: "", wantOK: false},
		{section: "", key: "level", want: "", wantOK: false},
	}
	for _, test := range tests {
		got, ok := f.Lookup(test.section, test.key)
		if got != test.want || ok != test.wantOK {
			t.Errorf("Lookup(%q, %q) = %q, %t; want %q, %t", test.section, test.key, got, ok, test.want, test.wantOK)
		}
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		options *ParseOptions

		section string
		key     string
		value   string

		want    string
		wantErr error
	}{
		{
			name:    "Replace",
			source:  "[foo]\n; the answer\nbar = baz\nkeep : this\n",
			section: "foo",
			key:     "bar",
			value:   "42",
			want:    "[foo]\n; the answer\nbar = 42\nkeep : this\n",
		},
		{
			name:    "SameValue",
			source:  "[foo]\nbar:baz\n",
			section: "foo",
			key:     "bar",
			value:   "baz",
			want:    "[foo]\nbar:baz\n",
		},
		{
			name:    "Append",
			source:  "[foo]\nbar = baz\n\n[other]\nx = y\n",
			section: "foo",
			key:     "new",
			value:   "1",
			want:    "[foo]\nbar = baz\nnew = 1\n\n[other]\nx = y\n",
		},
		{
			name:    "AppendToEmptySection",
			source:  "[foo]\n# the end\n",
			section: "foo",
			key:     "new",
			value:   "1",
			want:    "[foo]\nnew = 1\n# the end\n",
		},
		{
			name:    "CollapseRepeated",
			source:  "[foo]\nbar = 1\n[foo]\nbar = 2\n",
			section: "foo",
			key:     "bar",
			value:   "3",
			want:    "[foo]\n[foo]\nbar = 3\n",
		},
		{
			name:    "Global",
			source:  "[foo]\nbar = baz\n",
			section: "",
			key:     "top",
			value:   "1",
			want:    "top = 1\n[foo]\nbar = baz\n",
		},
		{
			name:    "MissingSection",
			source:  "[foo]\nbar = baz\n",
			section: "nope",
			key:     "bar",
			value:   "1",
			want:    "[foo]\nbar = baz\n",
			wantErr: ErrNoSection,
		},
		{
			name:   "NormalizedKeyKeepsLine",
			source: "[foo]\nBar = baz\n",
			options: &ParseOptions{
				NormalizeKey: func(section, key string) string {
					return strings.ToLower(key)
				},
			},
			section: "foo",
			key:     "bar",
			value:   "quux",
			want:    "[foo]\nBar = quux\n",
		},
		{
			name:    "ImplicitDefaultSection",
			source:  "top = 1\n[foo]\nbar = baz\n",
			options: &ParseOptions{DefaultSection: "DEFAULT"},
			section: "DEFAULT",
			key:     "level",
			value:   "info",
			want:    "top = 1\n\n[DEFAULT]\nlevel = info\n[foo]\nbar = baz\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f, err := Parse(strings.NewReader(test.source), test.options)
			if err != nil {
				t.Fatal(err)
			}
			err = f.Set(test.section, test.key, test.value)
			if !errors.Is(err, test.wantErr) {
				t.Errorf("Set(%q, %q, %q) = %v; want %v", test.section, test.key, test.value, err, test.wantErr)
			}
			if err == nil {
				if got := f.Get(test.section, test.key); got != test.value {
					t.Errorf("after Set, Get(%q, %q) = %q; want %q", test.section, test.key, got, test.value)
				}
			}
			got, err := f.MarshalText()
			if err != nil {
				t.Fatal("MarshalText:", err)
			}
			if diff := cmp.Diff(test.want, string(got)); diff != "" {
				t.Errorf("MarshalText() (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetZeroFile(t *testing.T) {
	f := new(File)
	if err := f.Set("", "foo", "bar"); err != nil {
		t.Fatal(err)
	}
	f.AddSection("sec")
	if err := f.Set("sec", "a", "b"); err != nil {
		t.Fatal(err)
	}
	got, err := f.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	const want = "foo = bar\n\n[sec]\na = b\n"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("MarshalText() (-want +got):\n%s", diff)
	}
}

func TestAddSection(t *testing.T) {
	f, err := Parse(strings.NewReader("[foo]\nbar = baz\n\n# trailer\n"), nil)
	if err != nil {
		t.Fatal(err)
	}
	f.AddSection("foo")
	f.AddSection("new")
	if err := f.Set("new", "key", "value"); err != nil {
		t.Fatal(err)
	}
	got, err := f.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	const want = "[foo]\nbar = baz\n\n# trailer\n[new]\nkey = value\n"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("MarshalText() (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"foo", "new"}, f.Sections()); diff != "" {
		t.Errorf("f.Sections() (-want +got):\n%s", diff)
	}
}

func TestDelete(t *testing.T) {
	const source = "[foo]\n" +
		"keep = 1\n" +
		"; about bar\n" +
		"bar = 2\n" +
		"\n" +
		"[foo]\n" +
		"bar = 3\n"
	f, err := Parse(strings.NewReader(source), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !f.Delete("foo", "bar") {
		t.Error("Delete(\"foo\", \"bar\") = false; want true")
	}
	if f.Delete("foo", "bar") {
		t.Error("second Delete(\"foo\", \"bar\") = true; want false")
	}
	if f.Delete("nope", "bar") {
		t.Error("Delete(\"nope\", \"bar\") = true; want false")
	}
	got, err := f.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	const want = "[foo]\nkeep = 1\n\n[foo]\n"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("MarshalText() (-want +got):\n%s", diff)
	}
}

func TestIsValidKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"", false},
		{"foo", true},
		{"foo.bar", true},
		{"foo bar", true},
		{" foo", false},
		{"foo ", false},
		{"[foo", false},
		{"foo;bar", false},
		{"foo#bar", false},
		{"foo=bar", false},
		{"foo:bar", false},
	}
	for _, test := range tests {
		if got := IsValidKey(test.key); got != test.want {
			t.Errorf("IsValidKey(%q) = %t; want %t", test.key, got, test.want)
		}
	}
}

func TestIsValidValue(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"foo", true},
		{`"quoted; value"`, true},
		{" foo", false},
		{"foo ", false},
		{"foo\nbar", false},
	}
	for _, test := range tests {
		if got := IsValidValue(test.value); got != test.want {
			t.Errorf("IsValidValue(%q) = %t; want %t", test.value, got, test.want)
		}
	}
}
