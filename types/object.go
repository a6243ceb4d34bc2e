package types

import (
	"context"
	"errors"
	"sort"
	"strconv"

	js "github.com/reoring/smartparams/jsonschema"
)

// KeyDef declares one key of an Object type.
type KeyDef struct {
	Name     string
	Type     Type
	Optional bool
}

// Key declares a required key.
func Key(name string, t Type) KeyDef { return KeyDef{Name: name, Type: t} }

// OptionalKey declares a key that may be absent.
func OptionalKey(name string, t Type) KeyDef { return KeyDef{Name: name, Type: t, Optional: true} }

type object struct{ keys []KeyDef }

// Object is a typed sub-schema: an object with known keys. Unknown keys are
// dropped from the coerced value.
func Object(keys ...KeyDef) Type {
	ks := append([]KeyDef(nil), keys...)
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].Name < ks[j].Name })
	return object{keys: ks}
}

func (o object) Name() string { return "Hash" }

func (o object) Coerce(ctx context.Context, v any) (any, error) {
	if IsMissing(v) {
		return nil, ErrMissing
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, mismatch(v, "type?(Hash) failed")
	}
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		raw, present := m[k.Name]
		if !present {
			raw = Missing
		}
		cv, err := k.Type.Coerce(ctx, raw)
		if err != nil {
			if !present && k.Optional && errors.Is(err, ErrMissing) {
				continue
			}
			return nil, prefixed(k.Name, v, o.Name(), err)
		}
		if !IsMissing(cv) {
			out[k.Name] = cv
		}
	}
	return out, nil
}

func (o object) JSONSchema() (*js.Schema, error) {
	s := &js.Schema{Type: "object", Properties: make(map[string]*js.Schema, len(o.keys))}
	for _, k := range o.keys {
		ks, err := k.Type.JSONSchema()
		if err != nil {
			return nil, err
		}
		s.Properties[k.Name] = ks
		if !k.Optional && !AcceptsMissing(context.Background(), k.Type) {
			s.Required = append(s.Required, k.Name)
		}
	}
	return s, nil
}

type arrayOf struct{ elem Type }

// ArrayOf accepts arrays whose every element satisfies elem.
func ArrayOf(elem Type) Type { return arrayOf{elem: elem} }

func (a arrayOf) Name() string { return "Array<" + a.elem.Name() + ">" }

func (a arrayOf) Coerce(ctx context.Context, v any) (any, error) {
	if IsMissing(v) {
		return nil, ErrMissing
	}
	in, ok := v.([]any)
	if !ok {
		return nil, mismatch(v, "type?(Array) failed")
	}
	out := make([]any, 0, len(in))
	for i, e := range in {
		cv, err := a.elem.Coerce(ctx, e)
		if err != nil {
			return nil, prefixed(strconv.Itoa(i), v, a.Name(), err)
		}
		out = append(out, cv)
	}
	return out, nil
}

func (a arrayOf) JSONSchema() (*js.Schema, error) {
	es, err := a.elem.JSONSchema()
	if err != nil {
		return nil, err
	}
	return &js.Schema{Type: "array", Items: es}, nil
}
