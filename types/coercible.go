package types

import (
	"strconv"
	"strings"

	js "github.com/reoring/smartparams/jsonschema"
)

// CoercibleString converts scalars to their string form.
func CoercibleString() Type {
	return primitive{name: "String", schema: js.Schema{Type: "string"}, coerce: func(v any) (any, error) {
		switch x := v.(type) {
		case string:
			return x, nil
		case bool:
			return strconv.FormatBool(x), nil
		}
		if s, ok := formatNumber(v); ok {
			return s, nil
		}
		return nil, mismatch(v, "can't convert into String")
	}}
}

// CoercibleInteger parses numeric strings and truncates nothing: "1.5" fails.
func CoercibleInteger() Type {
	return primitive{name: "Integer", schema: js.Schema{Type: "integer"}, coerce: func(v any) (any, error) {
		if s, ok := v.(string); ok {
			i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return nil, mismatch(v, "invalid value for Integer(): "+strconv.Quote(s))
			}
			return i, nil
		}
		if n, ok := toInt64(v); ok {
			return n, nil
		}
		return nil, mismatch(v, "can't convert into Integer")
	}}
}

// CoercibleFloat parses numeric strings into float64.
func CoercibleFloat() Type {
	return primitive{name: "Float", schema: js.Schema{Type: "number"}, coerce: func(v any) (any, error) {
		if s, ok := v.(string); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, mismatch(v, "invalid value for Float(): "+strconv.Quote(s))
			}
			return f, nil
		}
		if f, ok := toFloat64(v); ok {
			return f, nil
		}
		return nil, mismatch(v, "can't convert into Float")
	}}
}

// CoercibleBool accepts booleans and the usual textual spellings.
func CoercibleBool() Type {
	return primitive{name: "Bool", schema: js.Schema{Type: "boolean"}, coerce: func(v any) (any, error) {
		switch x := v.(type) {
		case bool:
			return x, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(x)) {
			case "true", "t", "yes", "y", "on", "1":
				return true, nil
			case "false", "f", "no", "n", "off", "0":
				return false, nil
			}
		}
		if n, ok := toInt64(v); ok && (n == 0 || n == 1) {
			return n == 1, nil
		}
		return nil, mismatch(v, "can't convert into Bool")
	}}
}
