package smartparams

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	js "github.com/reoring/smartparams/jsonschema"
	"github.com/reoring/smartparams/types"
)

// DefaultNamespace is used when no namespace is named.
const DefaultNamespace = "default"

// FieldDef declares one field. A nil Type with nested Fields means a plain
// object container.
type FieldDef struct {
	Key      string
	Type     types.Type
	Nullable bool
	Fields   []FieldDef
}

// NamespaceDef declares one named root. A nil Type means an object root.
type NamespaceDef struct {
	Name   string
	Type   types.Type
	Fields []FieldDef
}

// Namespace is one named field tree together with its processing plan.
type Namespace struct {
	name string
	root *Field
	// plan holds every non-root field, shallowest first then lexicographic.
	plan []*Field
}

// Name returns the namespace name.
func (n *Namespace) Name() string { return n.name }

// Root returns the root field.
func (n *Namespace) Root() *Field { return n.root }

// Fields returns every non-root field in processing order.
func (n *Namespace) Fields() []*Field { return append([]*Field(nil), n.plan...) }

// Lookup finds a field by path.
func (n *Namespace) Lookup(p Path) (*Field, bool) {
	f := n.root
	for _, k := range p {
		c, ok := f.Child(k)
		if !ok {
			return nil, false
		}
		f = c
	}
	return f, true
}

// Schema is an immutable set of namespaces. It is safe for concurrent use.
type Schema struct {
	namespaces map[string]*Namespace
	names      []string
}

// NewSchema builds a schema. Duplicate namespaces, duplicate paths and fields
// with neither a type nor nested fields are reported as typed errors.
func NewSchema(defs ...NamespaceDef) (*Schema, error) {
	s := &Schema{namespaces: make(map[string]*Namespace, len(defs))}
	for _, d := range defs {
		name := d.Name
		if name == "" {
			name = DefaultNamespace
		}
		if _, dup := s.namespaces[name]; dup {
			return nil, &NamespaceAlreadyDefinedError{Namespace: name}
		}
		ns, err := buildNamespace(name, d)
		if err != nil {
			return nil, err
		}
		s.namespaces[name] = ns
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)
	return s, nil
}

// MustSchema is like NewSchema but panics on error. It suits package-level
// schema variables.
func MustSchema(defs ...NamespaceDef) *Schema {
	s, err := NewSchema(defs...)
	if err != nil {
		panic(err)
	}
	return s
}

func buildNamespace(name string, d NamespaceDef) (*Namespace, error) {
	rt := d.Type
	if rt == nil {
		rt = types.Hash()
	}
	root := &Field{path: Path{}, typ: rt}
	if err := buildChildren(name, root, d.Fields); err != nil {
		return nil, err
	}
	ns := &Namespace{name: name, root: root}
	root.walk(func(f *Field) {
		if !f.IsRoot() {
			ns.plan = append(ns.plan, f)
		}
	})
	sort.SliceStable(ns.plan, func(i, j int) bool { return ns.plan[i].path.Less(ns.plan[j].path) })
	return ns, nil
}

func buildChildren(ns string, parent *Field, defs []FieldDef) error {
	seen := make(map[string]struct{}, len(defs))
	for _, d := range defs {
		p := parent.path.Child(d.Key)
		if _, dup := seen[d.Key]; dup {
			return &PathAlreadyDefinedError{Namespace: ns, Path: p}
		}
		seen[d.Key] = struct{}{}

		t := d.Type
		if t == nil {
			if len(d.Fields) == 0 {
				return &MissingTypeAnnotationError{Namespace: ns, Path: p}
			}
			t = types.Hash()
		}
		if d.Nullable {
			t = types.Optional(t)
		}
		f := &Field{path: p, typ: t, nullable: d.Nullable, parent: parent}
		if err := buildChildren(ns, f, d.Fields); err != nil {
			return err
		}
		parent.children = append(parent.children, f)
	}
	sort.Slice(parent.children, func(i, j int) bool { return parent.children[i].Key() < parent.children[j].Key() })
	return nil
}

// Namespace returns the named namespace, or *NoMatchingNamespaceError.
func (s *Schema) Namespace(name string) (*Namespace, error) {
	if name == "" {
		name = DefaultNamespace
	}
	if ns, ok := s.namespaces[name]; ok {
		return ns, nil
	}
	return nil, &NoMatchingNamespaceError{Namespace: name, Available: s.Namespaces()}
}

// Namespaces lists namespace names in sorted order.
func (s *Schema) Namespaces() []string { return append([]string(nil), s.names...) }

// JSONSchema exports a namespace as a JSON Schema document. Containers become
// objects with their children as properties; a child is required when its
// type does not accept absence.
func (s *Schema) JSONSchema(namespace string) (*js.Schema, error) {
	ns, err := s.Namespace(namespace)
	if err != nil {
		return nil, err
	}
	return fieldJSONSchema(ns.root)
}

func fieldJSONSchema(f *Field) (*js.Schema, error) {
	out, err := f.typ.JSONSchema()
	if err != nil {
		return nil, errors.Wrapf(err, "json schema for %s", f.Pointer())
	}
	if !f.hasChildren() {
		return out, nil
	}
	out = out.Clone()
	out.Type = "object"
	out.Properties = make(map[string]*js.Schema, len(f.children))
	out.Required = nil
	ctx := context.Background()
	for _, c := range f.children {
		cs, err := fieldJSONSchema(c)
		if err != nil {
			return nil, err
		}
		out.Properties[c.Key()] = cs
		if !types.AcceptsMissing(ctx, c.typ) {
			out.Required = append(out.Required, c.Key())
		}
	}
	return out, nil
}
