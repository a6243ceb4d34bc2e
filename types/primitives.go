package types

import (
	"context"
	"encoding/json"
	"math"
	"strconv"

	js "github.com/reoring/smartparams/jsonschema"
)

type primitive struct {
	name   string
	schema js.Schema
	coerce func(v any) (any, error)
}

func (p primitive) Name() string { return p.name }

func (p primitive) Coerce(_ context.Context, v any) (any, error) {
	if IsMissing(v) {
		return nil, ErrMissing
	}
	return p.coerce(v)
}

func (p primitive) JSONSchema() (*js.Schema, error) { return p.schema.Clone(), nil }

// String accepts strings only.
func String() Type {
	return primitive{name: "String", schema: js.Schema{Type: "string"}, coerce: func(v any) (any, error) {
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, mismatch(v, "type?(String) failed")
	}}
}

// Integer accepts integral numbers and returns int64.
func Integer() Type {
	return primitive{name: "Integer", schema: js.Schema{Type: "integer"}, coerce: func(v any) (any, error) {
		if n, ok := toInt64(v); ok {
			return n, nil
		}
		return nil, mismatch(v, "type?(Integer) failed")
	}}
}

// Float accepts any number and returns float64.
func Float() Type {
	return primitive{name: "Float", schema: js.Schema{Type: "number"}, coerce: func(v any) (any, error) {
		if f, ok := toFloat64(v); ok {
			return f, nil
		}
		return nil, mismatch(v, "type?(Float) failed")
	}}
}

// Bool accepts true and false.
func Bool() Type {
	return primitive{name: "Bool", schema: js.Schema{Type: "boolean"}, coerce: func(v any) (any, error) {
		if b, ok := v.(bool); ok {
			return b, nil
		}
		return nil, mismatch(v, "type?(Bool) failed")
	}}
}

// Hash accepts any object and returns a deep copy of it.
func Hash() Type {
	return primitive{name: "Hash", schema: js.Schema{Type: "object"}, coerce: func(v any) (any, error) {
		if m, ok := v.(map[string]any); ok {
			return CloneValue(m), nil
		}
		return nil, mismatch(v, "type?(Hash) failed")
	}}
}

// Array accepts any array and returns a deep copy of it.
func Array() Type {
	return primitive{name: "Array", schema: js.Schema{Type: "array"}, coerce: func(v any) (any, error) {
		if a, ok := v.([]any); ok {
			return CloneValue(a), nil
		}
		return nil, mismatch(v, "type?(Array) failed")
	}}
}

// Nil accepts only an explicit null.
func Nil() Type {
	return primitive{name: "Nil", schema: js.Schema{Type: "null"}, coerce: func(v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		return nil, mismatch(v, "type?(Nil) failed")
	}}
}

// Any accepts every present value, including null.
func Any() Type {
	return primitive{name: "Any", coerce: func(v any) (any, error) { return CloneValue(v), nil }}
}

// CloneValue deep-copies maps and slices of a decoded tree.
func CloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = CloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = CloneValue(e)
		}
		return out
	}
	return v
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), n <= math.MaxInt64
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return floatToInt(f)
		}
	}
	return 0, false
}

// floatToInt rejects 2^63 and above: float64(math.MaxInt64) rounds up to 2^63.
func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f >= 1<<63 || f < -(1<<63) {
		return 0, false
	}
	return int64(f), true
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}

func formatNumber(v any) (string, bool) {
	switch n := v.(type) {
	case json.Number:
		return string(n), true
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(n), 'g', -1, 32), true
	}
	if i, ok := toInt64(v); ok {
		return strconv.FormatInt(i, 10), true
	}
	return "", false
}
