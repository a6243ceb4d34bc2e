package smartparams

import (
	"sort"

	"github.com/reoring/smartparams/types"
)

// Field is one immutable node of a schema tree.
type Field struct {
	path     Path
	typ      types.Type
	nullable bool
	parent   *Field
	children []*Field // sorted by key
}

// Path returns a copy of the field's path.
func (f *Field) Path() Path { return append(Path(nil), f.path...) }

// Pointer renders the field's path as a JSON Pointer.
func (f *Field) Pointer() string { return f.path.Pointer() }

// Key is the last path key, or "" for the root.
func (f *Field) Key() string { return f.path.Key() }

// Type is the field's coercion capability. Nullable fields carry it wrapped
// in types.Optional.
func (f *Field) Type() types.Type { return f.typ }

// Nullable reports whether an explicit null is kept without checking subfields.
func (f *Field) Nullable() bool { return f.nullable }

// IsRoot reports whether f is a namespace root.
func (f *Field) IsRoot() bool { return len(f.path) == 0 }

// Parent returns the enclosing field, nil for the root.
func (f *Field) Parent() *Field { return f.parent }

// Children returns the declared subfields ordered by key.
func (f *Field) Children() []*Field { return append([]*Field(nil), f.children...) }

// Child looks up a direct subfield by key.
func (f *Field) Child(key string) (*Field, bool) {
	i := sort.Search(len(f.children), func(i int) bool { return f.children[i].Key() >= key })
	if i < len(f.children) && f.children[i].Key() == key {
		return f.children[i], true
	}
	return nil, false
}

func (f *Field) hasChildren() bool { return len(f.children) > 0 }

// walk visits f and every descendant, parents first.
func (f *Field) walk(fn func(*Field)) {
	fn(f)
	for _, c := range f.children {
		c.walk(fn)
	}
}

// foreignKey reports whether m holds a key that is not a declared child.
func (f *Field) foreignKey(m map[string]any) bool {
	for k := range m {
		if _, ok := f.Child(k); !ok {
			return true
		}
	}
	return false
}
