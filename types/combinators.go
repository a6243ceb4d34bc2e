package types

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	js "github.com/reoring/smartparams/jsonschema"
)

type optional struct{ inner Type }

// Optional accepts null and absence in addition to what t accepts.
// Absence still reaches t first so a default inside t is applied.
func Optional(t Type) Type {
	if o, ok := t.(optional); ok {
		return o
	}
	return optional{inner: t}
}

func (o optional) Name() string { return "Nil | " + o.inner.Name() }

func (o optional) Coerce(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if IsMissing(v) {
		out, err := o.inner.Coerce(ctx, v)
		if errors.Is(err, ErrMissing) {
			return Missing, nil
		}
		return out, err
	}
	return o.inner.Coerce(ctx, v)
}

func (o optional) JSONSchema() (*js.Schema, error) {
	s, err := o.inner.JSONSchema()
	if err != nil {
		return nil, err
	}
	s = s.Clone()
	s.Nullable = true
	return s, nil
}

// Unwrap returns the wrapped type.
func (o optional) Unwrap() Type { return o.inner }

type union struct{ alts []Type }

// Union accepts a value if any alternative does; the first match wins.
func Union(alts ...Type) Type {
	if len(alts) == 1 {
		return alts[0]
	}
	return union{alts: alts}
}

func (u union) Name() string {
	names := make([]string, len(u.alts))
	for i, a := range u.alts {
		names[i] = a.Name()
	}
	return strings.Join(names, " | ")
}

func (u union) Coerce(ctx context.Context, v any) (any, error) {
	var reasons []string
	missing := 0
	for _, a := range u.alts {
		out, err := a.Coerce(ctx, v)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, ErrMissing) {
			missing++
			continue
		}
		reasons = append(reasons, err.Error())
	}
	if missing == len(u.alts) {
		return nil, ErrMissing
	}
	return nil, &ConstraintError{Input: v, Reason: strings.Join(reasons, "; ")}
}

func (u union) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{}
	for _, a := range u.alts {
		s, err := a.JSONSchema()
		if err != nil {
			return nil, err
		}
		out.AnyOf = append(out.AnyOf, s)
	}
	return out, nil
}

type defaulted struct {
	inner     Type
	supply    func() any
	static    any
	hasStatic bool
}

// WithDefault supplies a value from fn when the input is absent. fn runs
// once per validation run that needs it; its result is coerced by t.
func WithDefault(t Type, fn func() any) Type {
	return defaulted{inner: t, supply: fn}
}

// Default supplies a fixed value when the input is absent.
func Default(t Type, v any) Type {
	return defaulted{inner: t, supply: func() any { return CloneValue(v) }, static: v, hasStatic: true}
}

func (d defaulted) Name() string { return d.inner.Name() }

func (d defaulted) Coerce(ctx context.Context, v any) (any, error) {
	if IsMissing(v) {
		v = d.supply()
	}
	return d.inner.Coerce(ctx, v)
}

func (d defaulted) JSONSchema() (*js.Schema, error) {
	s, err := d.inner.JSONSchema()
	if err != nil {
		return nil, err
	}
	if d.hasStatic {
		s = s.Clone()
		s.Default = d.static
	}
	return s, nil
}

type enum struct {
	inner  Type
	values []any
}

// Enum restricts t to the given values. Values are coerced by t up front so
// that, for example, an int listed for an Integer type compares as int64.
func Enum(t Type, values ...any) Type {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
		if cv, err := t.Coerce(context.Background(), v); err == nil {
			vs[i] = cv
		}
	}
	return enum{inner: t, values: vs}
}

func (e enum) Name() string { return e.inner.Name() }

func (e enum) Coerce(ctx context.Context, v any) (any, error) {
	out, err := e.inner.Coerce(ctx, v)
	if err != nil || IsMissing(out) {
		return out, err
	}
	for _, want := range e.values {
		if reflect.DeepEqual(out, want) {
			return out, nil
		}
	}
	return nil, mismatch(v, "included_in?("+e.list()+") failed")
}

func (e enum) list() string {
	parts := make([]string, len(e.values))
	for i, v := range e.values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

func (e enum) JSONSchema() (*js.Schema, error) {
	s, err := e.inner.JSONSchema()
	if err != nil {
		return nil, err
	}
	s = s.Clone()
	s.Enum = append([]any(nil), e.values...)
	return s, nil
}

type refined struct {
	inner  Type
	reason string
	ok     func(any) bool
}

// Refine adds a predicate over the coerced value; reason is reported on failure.
func Refine(t Type, reason string, ok func(any) bool) Type {
	return refined{inner: t, reason: reason, ok: ok}
}

func (r refined) Name() string { return r.inner.Name() }

func (r refined) Coerce(ctx context.Context, v any) (any, error) {
	out, err := r.inner.Coerce(ctx, v)
	if err != nil || IsMissing(out) || out == nil {
		return out, err
	}
	if !r.ok(out) {
		return nil, mismatch(v, r.reason)
	}
	return out, nil
}

func (r refined) JSONSchema() (*js.Schema, error) { return r.inner.JSONSchema() }

type bound struct {
	inner Type
	limit float64
	min   bool
}

// Min requires numbers to be >= n, and strings and arrays to have at least n elements.
func Min(t Type, n float64) Type { return bound{inner: t, limit: n, min: true} }

// Max requires numbers to be <= n, and strings and arrays to have at most n elements.
func Max(t Type, n float64) Type { return bound{inner: t, limit: n} }

func (b bound) Name() string { return b.inner.Name() }

func (b bound) Coerce(ctx context.Context, v any) (any, error) {
	out, err := b.inner.Coerce(ctx, v)
	if err != nil || IsMissing(out) || out == nil {
		return out, err
	}
	var got float64
	sized := true
	switch x := out.(type) {
	case string:
		got = float64(len([]rune(x)))
	case []any:
		got = float64(len(x))
	case map[string]any:
		got = float64(len(x))
	default:
		f, ok := toFloat64(out)
		if !ok {
			return nil, mismatch(v, "not comparable")
		}
		got, sized = f, false
	}
	if (b.min && got < b.limit) || (!b.min && got > b.limit) {
		return nil, mismatch(v, fmt.Sprintf("%s?(%g) failed", b.predicate(sized), b.limit))
	}
	return out, nil
}

func (b bound) predicate(sized bool) string {
	switch {
	case sized && b.min:
		return "min_size"
	case sized:
		return "max_size"
	case b.min:
		return "gteq"
	}
	return "lteq"
}

func (b bound) JSONSchema() (*js.Schema, error) {
	s, err := b.inner.JSONSchema()
	if err != nil {
		return nil, err
	}
	s = s.Clone()
	n := int(b.limit)
	lim := b.limit
	switch s.Type {
	case "string":
		if b.min {
			s.MinLength = &n
		} else {
			s.MaxLength = &n
		}
	case "array":
		if b.min {
			s.MinItems = &n
		} else {
			s.MaxItems = &n
		}
	case "integer", "number":
		if b.min {
			s.Minimum = &lim
		} else {
			s.Maximum = &lim
		}
	}
	return s, nil
}
