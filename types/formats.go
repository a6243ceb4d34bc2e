package types

import (
	"context"
	"time"

	"github.com/google/uuid"

	js "github.com/reoring/smartparams/jsonschema"
)

// UUID accepts a textual UUID and returns its canonical lower-case form.
func UUID() Type {
	return primitive{name: "UUID", schema: js.Schema{Type: "string", Format: "uuid"}, coerce: func(v any) (any, error) {
		s, ok := v.(string)
		if !ok {
			return nil, mismatch(v, "type?(String) failed")
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, mismatch(v, "uuid?: "+err.Error())
		}
		return id.String(), nil
	}}
}

// NewUUID is a default supplier producing a random UUID string.
func NewUUID() any { return uuid.NewString() }

type timeType struct{}

// Time accepts RFC3339 strings (fractional seconds optional) and time.Time
// values, returning time.Time.
func Time() Type { return timeType{} }

func (timeType) Name() string { return "Time" }

func (timeType) Coerce(_ context.Context, v any) (any, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		t, err := parseRFC3339(x)
		if err != nil {
			return nil, mismatch(v, "invalid RFC3339 time")
		}
		return t, nil
	}
	if IsMissing(v) {
		return nil, ErrMissing
	}
	return nil, mismatch(v, "type?(Time) failed")
}

func (timeType) JSONSchema() (*js.Schema, error) {
	return &js.Schema{Type: "string", Format: "date-time"}, nil
}

func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}
