// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package libconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// maxIncludeDepth matches the limit of the reference C library.
const maxIncludeDepth = 10

// ParseOptions holds optional parameters for Parse.
type ParseOptions struct {
	// Filename is the name reported in syntax errors.
	Filename string

	// IncludeDir is the directory that relative @include paths are resolved
	// against. If empty, they are resolved against the working directory.
	IncludeDir string

	// Open opens included files. If nil, os.Open is used.
	Open func(path string) (io.ReadCloser, error)
}

// A SyntaxError describes malformed libconfig input.
type SyntaxError struct {
	File string
	Line int
	Msg  string
	Err  error // underlying cause, if any
}

func (e *SyntaxError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Parse parses a libconfig document. Nil options are treated identically as
// passing the zero value.
//
// See the Syntax section in the package documentation for the format
// recognized by Parse.
func Parse(r io.Reader, opts *ParseOptions) (*Group, error) {
	if opts == nil {
		opts = new(ParseOptions)
	}
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("parse libconfig: %w", err)
	}
	p := &parser{
		opts: opts,
		file: opts.Filename,
		src:  src,
		line: 1,
	}
	g := new(Group)
	if err := p.settings(g, 0); err != nil {
		return nil, fmt.Errorf("parse libconfig: %w", err)
	}
	return g, nil
}

// ParseFile parses the libconfig file at the given path. If opts.IncludeDir
// is empty, included files are resolved relative to the file's directory.
func ParseFile(path string, opts *ParseOptions) (*Group, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parse libconfig: %w", err)
	}
	defer f.Close()
	o := ParseOptions{}
	if opts != nil {
		o = *opts
	}
	if o.Filename == "" {
		o.Filename = path
	}
	if o.IncludeDir == "" {
		o.IncludeDir = filepath.Dir(path)
	}
	return Parse(f, &o)
}

type parser struct {
	opts  *ParseOptions
	file  string
	src   []byte
	pos   int
	line  int
	depth int
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &SyntaxError{
		File: p.file,
		Line: p.line,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

// skipSpace advances past whitespace and comments.
func (p *parser) skipSpace() error {
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == '\n':
			p.line++
			p.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			p.pos++
		case c == '#':
			p.skipLine()
		case c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '/':
			p.skipLine()
		case c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '*':
			start := p.line
			p.pos += 2
			for {
				if p.eof() {
					p.line = start
					return p.errorf("unterminated comment")
				}
				if p.src[p.pos] == '*' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '/' {
					p.pos += 2
					break
				}
				if p.src[p.pos] == '\n' {
					p.line++
				}
				p.pos++
			}
		default:
			return nil
		}
	}
	return nil
}

func (p *parser) skipLine() {
	for !p.eof() && p.src[p.pos] != '\n' {
		p.pos++
	}
}

// settings parses settings into g until it reaches the end byte (which it
// does not consume) or the end of input when end is zero.
func (p *parser) settings(g *Group, end byte) error {
	for {
		if err := p.skipSpace(); err != nil {
			return err
		}
		if p.eof() {
			if end != 0 {
				return p.errorf("unexpected end of input, expecting %q", end)
			}
			return nil
		}
		switch c := p.peek(); {
		case end != 0 && c == end:
			return nil
		case c == '@':
			if err := p.include(g); err != nil {
				return err
			}
		default:
			if err := p.setting(g); err != nil {
				return err
			}
		}
	}
}

func (p *parser) setting(g *Group) error {
	name := p.name()
	if name == "" {
		return p.errorf("unexpected %q, expecting setting name", p.peek())
	}
	if _, dup := g.Lookup(name); dup {
		return p.errorf("duplicate setting %q", name)
	}
	if err := p.skipSpace(); err != nil {
		return err
	}
	if c := p.peek(); c != '=' && c != ':' {
		return p.errorf("missing '=' after %q", name)
	}
	p.pos++
	if err := p.skipSpace(); err != nil {
		return err
	}
	v, err := p.value()
	if err != nil {
		return err
	}
	g.Settings = append(g.Settings, Setting{Name: name, Value: v})
	if err := p.skipSpace(); err != nil {
		return err
	}
	if c := p.peek(); c == ';' || c == ',' {
		p.pos++
	}
	return nil
}

func (p *parser) name() string {
	if p.eof() || !isNameStart(p.src[p.pos]) {
		return ""
	}
	start := p.pos
	for p.pos++; !p.eof() && isNameChar(p.src[p.pos]); p.pos++ {
	}
	return string(p.src[start:p.pos])
}

func (p *parser) include(g *Group) error {
	const directive = "@include"
	if !bytes.HasPrefix(p.src[p.pos:], []byte(directive)) {
		return p.errorf("unknown directive")
	}
	p.pos += len(directive)
	if err := p.skipSpace(); err != nil {
		return err
	}
	if p.peek() != '"' {
		return p.errorf("@include requires a quoted path")
	}
	s, err := p.str()
	if err != nil {
		return err
	}
	if p.depth+1 > maxIncludeDepth {
		return p.errorf("@include %q: nested too deeply", string(s))
	}
	path := string(s)
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.opts.IncludeDir, path)
	}
	open := p.opts.Open
	if open == nil {
		open = func(path string) (io.ReadCloser, error) { return os.Open(path) }
	}
	f, err := open(path)
	if err != nil {
		return p.errorf("@include: %v", err)
	}
	src, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return p.errorf("@include: %v", err)
	}
	sub := &parser{
		opts:  p.opts,
		file:  path,
		src:   src,
		line:  1,
		depth: p.depth + 1,
	}
	return sub.settings(g, 0)
}

func (p *parser) value() (Value, error) {
	switch c := p.peek(); c {
	case 0:
		if p.eof() {
			return nil, p.errorf("unexpected end of input, expecting value")
		}
		return nil, p.errorf("unexpected NUL byte")
	case '{':
		p.pos++
		g := new(Group)
		if err := p.settings(g, '}'); err != nil {
			return nil, err
		}
		p.pos++
		return g, nil
	case '[':
		line := p.line
		p.pos++
		elems, err := p.elements(']')
		if err != nil {
			return nil, err
		}
		a := Array(elems)
		if err := checkArray(a); err != nil {
			return nil, &SyntaxError{File: p.file, Line: line, Msg: err.Error()}
		}
		return a, nil
	case '(':
		p.pos++
		elems, err := p.elements(')')
		if err != nil {
			return nil, err
		}
		return List(elems), nil
	case '"':
		s, err := p.str()
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return p.scalar()
	}
}

// elements parses comma-separated values up to and including the end byte.
// A trailing comma is permitted.
func (p *parser) elements(end byte) ([]Value, error) {
	var elems []Value
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.eof() {
			return nil, p.errorf("unexpected end of input, expecting %q", end)
		}
		if p.peek() == end {
			p.pos++
			return elems, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		switch p.peek() {
		case ',':
			p.pos++
		case end:
		default:
			if p.eof() {
				return nil, p.errorf("unexpected end of input, expecting %q", end)
			}
			return nil, p.errorf("unexpected %q, expecting ',' or %q", p.peek(), end)
		}
	}
}

// str parses one or more adjacent string literals.
func (p *parser) str() (String, error) {
	sb := new(strings.Builder)
	for {
		if err := p.quoted(sb); err != nil {
			return "", err
		}
		save, saveLine := p.pos, p.line
		if err := p.skipSpace(); err != nil {
			return "", err
		}
		if p.peek() != '"' {
			p.pos, p.line = save, saveLine
			return String(sb.String()), nil
		}
	}
}

func (p *parser) quoted(sb *strings.Builder) error {
	p.pos++ // opening quote
	for {
		if p.eof() {
			return p.errorf("unterminated string")
		}
		c := p.src[p.pos]
		switch c {
		case '"':
			p.pos++
			return nil
		case '\n':
			return p.errorf("newline in string")
		case '\\':
			if p.pos+1 >= len(p.src) {
				return p.errorf("unterminated string")
			}
			p.pos++
			switch e := p.src[p.pos]; e {
			case '\\', '"':
				sb.WriteByte(e)
			case 'f':
				sb.WriteByte('\f')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'x':
				if p.pos+2 >= len(p.src) || !isHexDigit(p.src[p.pos+1]) || !isHexDigit(p.src[p.pos+2]) {
					return p.errorf("bad hex escape")
				}
				sb.WriteByte(fromHex(p.src[p.pos+1])<<4 | fromHex(p.src[p.pos+2]))
				p.pos += 2
			default:
				return p.errorf("unknown escape %q", e)
			}
			p.pos++
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
}

func isScalarChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
		c == '+' || c == '-' || c == '.'
}

func (p *parser) scalar() (Value, error) {
	start := p.pos
	for !p.eof() && isScalarChar(p.src[p.pos]) {
		p.pos++
	}
	tok := string(p.src[start:p.pos])
	if tok == "" {
		return nil, p.errorf("unexpected %q, expecting value", p.peek())
	}
	v, err := parseScalar(tok)
	if err != nil {
		return nil, &SyntaxError{File: p.file, Line: p.line, Msg: err.Error(), Err: err}
	}
	return v, nil
}

// ErrLeadingZero is wrapped by the error returned for decimal integers
// written with leading zeros, such as 001.
var ErrLeadingZero = errors.New("leading zero in decimal integer")

func parseScalar(tok string) (Value, error) {
	switch {
	case strings.EqualFold(tok, "true"):
		return Bool(true), nil
	case strings.EqualFold(tok, "false"):
		return Bool(false), nil
	}

	digits := strings.TrimLeft(tok, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return parseHex(tok)
	}
	if strings.ContainsAny(digits, ".eE") {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q", tok)
		}
		return Float(f), nil
	}

	long := false
	if t := strings.TrimRight(tok, "lL"); len(tok)-len(t) <= 2 && t != tok {
		long = true
		tok = t
		digits = strings.TrimLeft(tok, "+-")
	}
	if len(digits) > 1 && digits[0] == '0' {
		return nil, fmt.Errorf("invalid integer %q: %w", tok, ErrLeadingZero)
	}
	i, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q", tok)
	}
	if long {
		return Int64(i), nil
	}
	return Int(i), nil
}

func parseHex(tok string) (Value, error) {
	neg := strings.HasPrefix(tok, "-")
	digits := strings.TrimLeft(tok, "+-")[2:]
	long := false
	if t := strings.TrimRight(digits, "lL"); len(digits)-len(t) <= 2 && t != digits {
		long = true
		digits = t
	}
	u, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid hex integer %q", tok)
	}
	i := int64(u)
	if neg {
		i = -i
	}
	if long {
		return Int64(i), nil
	}
	return Int(i), nil
}

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' ||
		'a' <= c && c <= 'f' ||
		'A' <= c && c <= 'F'
}

func fromHex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 0xa
	case 'A' <= c && c <= 'F':
		return c - 'A' + 0xa
	default:
		panic("invalid hex digit")
	}
}
