package smartparams

import (
	"strings"

	"github.com/reoring/smartparams/types"
)

// Path is the ordered key sequence from the schema root to a field.
// The root field has an empty path.
type Path []string

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Pointer renders the path as a JSON Pointer ("/data/attributes/email").
// The root renders as "/".
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, k := range p {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(k))
	}
	return b.String()
}

func (p Path) String() string { return p.Pointer() }

// Child returns a new path extended by key. p is never aliased.
func (p Path) Child(key string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = key
	return out
}

// Parent returns the path without its last key. The root is its own parent.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[: len(p)-1 : len(p)-1]
}

// Key returns the last key, or "" for the root.
func (p Path) Key() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Depth is the number of keys in the path.
func (p Path) Depth() int { return len(p) }

// Equal reports whether both paths hold the same keys.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Less orders paths shallowest first, then lexicographically by keys.
func (p Path) Less(o Path) bool {
	if len(p) != len(o) {
		return len(p) < len(o)
	}
	for i := range p {
		if p[i] != o[i] {
			return p[i] < o[i]
		}
	}
	return false
}

// HasPrefix reports whether p starts with prefix.
func (p Path) HasPrefix(prefix Path) bool {
	return len(p) >= len(prefix) && Path(p[:len(prefix)]).Equal(prefix)
}

// Dig walks raw along the path using key containment, so an explicit null
// counts as found. When a key is absent, or an intermediate node is not an
// object, value is types.Missing, found is false and last is the deepest
// node reached.
func (p Path) Dig(raw any) (value any, found bool, last any) {
	at := raw
	for _, k := range p {
		m, ok := at.(map[string]any)
		if !ok {
			return types.Missing, false, at
		}
		next, ok := m[k]
		if !ok {
			return types.Missing, false, at
		}
		at = next
	}
	return at, true, at
}
