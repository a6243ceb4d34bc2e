// Package types provides the coercion capability used by field trees.
//
// A Type turns a raw input value into a coerced value or reports why it
// cannot. Absence is passed as Missing, which is distinct from nil (an
// explicit null). Types compose through Optional, Union, WithDefault, Enum,
// Object, ArrayOf, Min, Max and Refine.
package types

import (
	"context"
	"errors"
	"fmt"
	"strings"

	js "github.com/reoring/smartparams/jsonschema"
)

// Type is the coercion capability of a field.
type Type interface {
	// Name is the display name used in failure messages ("String", "Nil | String").
	Name() string
	// Coerce converts v. It returns ErrMissing when v is Missing and the
	// type does not accept absence, and a *ConstraintError on a mismatch.
	// Returning Missing means "no value".
	Coerce(ctx context.Context, v any) (any, error)
	// JSONSchema renders the type for export.
	JSONSchema() (*js.Schema, error)
}

type missing struct{}

func (missing) String() string { return "<missing>" }

// Missing stands for an absent key.
var Missing any = missing{}

// IsMissing reports whether v is the Missing sentinel.
func IsMissing(v any) bool {
	_, ok := v.(missing)
	return ok
}

// ErrMissing is returned by types that require a value and were given Missing.
var ErrMissing = errors.New("types: value is missing")

// ConstraintError describes a value that failed coercion or a constraint.
type ConstraintError struct {
	// Path is the offending sub-path inside a composite value, if any.
	Path []string
	// Input is the raw value that failed.
	Input any
	// Wanted overrides the display name of the expected type, if set.
	Wanted string
	// Reason is a human readable explanation.
	Reason string
}

func (e *ConstraintError) Error() string {
	var b strings.Builder
	if len(e.Path) > 0 {
		b.WriteString(strings.Join(e.Path, "."))
		b.WriteString(": ")
	}
	if e.Wanted != "" {
		fmt.Fprintf(&b, "expected %s", e.Wanted)
		if e.Reason != "" {
			b.WriteString(": ")
		}
	}
	b.WriteString(e.Reason)
	return b.String()
}

// AsConstraintError extracts a *ConstraintError from err.
func AsConstraintError(err error) (*ConstraintError, bool) {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// AcceptsMissing reports whether t tolerates absence (optional or defaulted).
func AcceptsMissing(ctx context.Context, t Type) bool {
	_, err := t.Coerce(ctx, Missing)
	return err == nil
}

// AcceptsNull reports whether t tolerates an explicit null.
func AcceptsNull(ctx context.Context, t Type) bool {
	_, err := t.Coerce(ctx, nil)
	return err == nil
}

func mismatch(v any, reason string) error {
	return &ConstraintError{Input: v, Reason: reason}
}

// prefixed re-roots a nested type error under key.
func prefixed(key string, v any, wanted string, err error) error {
	if errors.Is(err, ErrMissing) {
		return &ConstraintError{Input: v, Wanted: wanted + " with key " + key}
	}
	if ce, ok := AsConstraintError(err); ok {
		c := *ce
		c.Path = append([]string{key}, ce.Path...)
		return &c
	}
	return &ConstraintError{Path: []string{key}, Input: v, Reason: err.Error()}
}
