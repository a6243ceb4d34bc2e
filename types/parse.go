package types

import (
	"fmt"
	"strings"
	"unicode"
)

var named = map[string]func() Type{
	"string":            String,
	"integer":           Integer,
	"int":               Integer,
	"float":             Float,
	"number":            Float,
	"bool":              Bool,
	"boolean":           Bool,
	"hash":              Hash,
	"object":            Hash,
	"array":             Array,
	"nil":               Nil,
	"null":              Nil,
	"any":               Any,
	"uuid":              UUID,
	"time":              Time,
	"coercible.string":  CoercibleString,
	"coercible.integer": CoercibleInteger,
	"coercible.float":   CoercibleFloat,
	"coercible.bool":    CoercibleBool,
}

// Parse reads a textual type expression as used in declarative schema files:
//
//	string
//	nil | string       (same as "string?")
//	integer | string
//	array<coercible.integer>
//
// Names are case-insensitive. A nil alternative makes the whole expression optional.
func Parse(expr string) (Type, error) {
	p := &parser{in: expr}
	t, err := p.union()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.in) {
		return nil, fmt.Errorf("types: unexpected %q at offset %d in %q", p.in[p.pos:], p.pos, expr)
	}
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) Type {
	t, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	in  string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.in) && unicode.IsSpace(rune(p.in[p.pos])) {
		p.pos++
	}
}

func (p *parser) accept(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.in) && p.in[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) union() (Type, error) {
	var (
		alts     []Type
		nullable bool
	)
	for {
		t, isNil, err := p.term()
		if err != nil {
			return nil, err
		}
		if isNil {
			nullable = true
		} else {
			alts = append(alts, t)
		}
		if !p.accept('|') {
			break
		}
	}
	switch {
	case len(alts) == 0:
		return Nil(), nil
	case nullable:
		return Optional(Union(alts...)), nil
	}
	return Union(alts...), nil
}

func (p *parser) term() (Type, bool, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.in) {
		c := rune(p.in[p.pos])
		if !(unicode.IsLetter(c) || unicode.IsDigit(c) || c == '.' || c == '_') {
			break
		}
		p.pos++
	}
	name := strings.ToLower(p.in[start:p.pos])
	if name == "" {
		return nil, false, fmt.Errorf("types: expected a type name at offset %d in %q", start, p.in)
	}
	var t Type
	if name == "array" && p.accept('<') {
		elem, err := p.union()
		if err != nil {
			return nil, false, err
		}
		if !p.accept('>') {
			return nil, false, fmt.Errorf("types: missing '>' in %q", p.in)
		}
		t = ArrayOf(elem)
	} else {
		ctor, ok := named[name]
		if !ok {
			return nil, false, fmt.Errorf("types: unknown type %q", name)
		}
		if name == "nil" || name == "null" {
			return nil, true, nil
		}
		t = ctor()
	}
	if p.accept('?') {
		t = Optional(t)
	}
	return t, false, nil
}
