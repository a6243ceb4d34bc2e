package dsl

import (
	sp "github.com/reoring/smartparams"
	"github.com/reoring/smartparams/types"
)

// Builder collects namespace declarations.
type Builder struct {
	namespaces []*nsDecl
}

type nsDecl struct {
	name string
	typ  types.Type
	body *Block
}

// New creates an empty builder.
func New() *Builder { return &Builder{} }

// Schema declares a namespace whose fields are declared by fn.
// An empty name declares the default namespace.
func (b *Builder) Schema(name string, fn func(*Block)) *Builder {
	body := &Block{}
	if fn != nil {
		fn(body)
	}
	b.namespaces = append(b.namespaces, &nsDecl{name: name, body: body})
	return b
}

// Root sets the root type of the most recently declared namespace.
func (b *Builder) Root(t types.Type) *Builder {
	if n := len(b.namespaces); n > 0 {
		b.namespaces[n-1].typ = t
	}
	return b
}

// Build validates the declarations and returns the immutable schema.
func (b *Builder) Build() (*sp.Schema, error) {
	defs := make([]sp.NamespaceDef, len(b.namespaces))
	for i, n := range b.namespaces {
		defs[i] = sp.NamespaceDef{Name: n.name, Type: n.typ, Fields: n.body.defs()}
	}
	return sp.NewSchema(defs...)
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *sp.Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Block declares the fields of one object level.
type Block struct {
	fields []*fieldDecl
}

type fieldDecl struct {
	key      string
	typ      types.Type
	nullable bool
	enum     []any
	hasEnum  bool
	def      func() types.Type
	nested   *Block
}

// FieldStep refines the field just declared.
type FieldStep struct {
	d *fieldDecl
}

// Field declares a field with a type. Chain Nested to give it subfields.
func (b *Block) Field(key string, t types.Type) *FieldStep {
	d := &fieldDecl{key: key, typ: t}
	b.fields = append(b.fields, d)
	return &FieldStep{d: d}
}

// Object declares a plain object container with subfields declared by fn.
func (b *Block) Object(key string, fn func(*Block)) *FieldStep {
	return b.Field(key, nil).Nested(fn)
}

// Nullable lets the field be absent or null without checking its subfields.
func (s *FieldStep) Nullable() *FieldStep {
	s.d.nullable = true
	return s
}

// Default supplies v when the field is absent.
func (s *FieldStep) Default(v any) *FieldStep {
	s.d.def = func() types.Type { return types.Default(s.d.baseType(), v) }
	return s
}

// DefaultFunc supplies fn() when the field is absent; fn runs per validation.
func (s *FieldStep) DefaultFunc(fn func() any) *FieldStep {
	s.d.def = func() types.Type { return types.WithDefault(s.d.baseType(), fn) }
	return s
}

// Enum restricts the field to the given values.
func (s *FieldStep) Enum(values ...any) *FieldStep {
	s.d.enum, s.d.hasEnum = values, true
	return s
}

// Nested declares subfields.
func (s *FieldStep) Nested(fn func(*Block)) *FieldStep {
	if s.d.nested == nil {
		s.d.nested = &Block{}
	}
	if fn != nil {
		fn(s.d.nested)
	}
	return s
}

// baseType is the declared type with Enum applied. A container without a
// type is an object.
func (d *fieldDecl) baseType() types.Type {
	t := d.typ
	if t == nil {
		t = types.Hash()
	}
	if d.hasEnum {
		t = types.Enum(t, d.enum...)
	}
	return t
}

func (d *fieldDecl) fieldDef() sp.FieldDef {
	fd := sp.FieldDef{Key: d.key, Type: d.typ, Nullable: d.nullable}
	switch {
	case d.def != nil:
		fd.Type = d.def()
	case d.hasEnum:
		fd.Type = d.baseType()
	}
	if d.nested != nil {
		fd.Fields = d.nested.defs()
		if fd.Type == nil {
			fd.Type = types.Hash()
		}
	}
	return fd
}

func (b *Block) defs() []sp.FieldDef {
	if b == nil {
		return nil
	}
	out := make([]sp.FieldDef, len(b.fields))
	for i, d := range b.fields {
		out[i] = d.fieldDef()
	}
	return out
}
