package smartparams

import (
	"errors"
	"fmt"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"

	"github.com/reoring/smartparams/i18n"
	"github.com/reoring/smartparams/types"
)

// Failure codes.
const (
	CodeMissingProperty     = "missing_property"
	CodeInvalidPropertyType = "invalid_property_type"
	CodeParseError          = "parse_error"
	CodeDuplicateKey        = "duplicate_key"
	CodeTruncated           = "truncated"
)

// Failure is one validation problem found while claiming a field.
type Failure interface {
	error
	Code() string
	// Pointer is the JSON Pointer of the failing field.
	Pointer() string
	// AsJSON is the serializable form used in error payloads.
	AsJSON() map[string]any
}

// MissingProperty reports a required path that could not be traversed.
// Last is the deepest node reached before traversal stopped.
type MissingProperty struct {
	Path Path
	Last any
}

func (e *MissingProperty) Code() string    { return CodeMissingProperty }
func (e *MissingProperty) Pointer() string { return e.Path.Pointer() }

func (e *MissingProperty) Error() string {
	return i18n.T(CodeMissingProperty, map[string]string{
		"path": e.Path.Pointer(),
		"last": inspect(e.Last),
	})
}

func (e *MissingProperty) AsJSON() map[string]any {
	return map[string]any{
		"code": CodeMissingProperty,
		"path": []string(e.Path),
		"last": plain(e.Last),
	}
}

// InvalidPropertyType reports a present value that failed coercion or a constraint.
type InvalidPropertyType struct {
	Path   Path
	Wanted string
	Raw    any
	Reason string
}

func (e *InvalidPropertyType) Code() string    { return CodeInvalidPropertyType }
func (e *InvalidPropertyType) Pointer() string { return e.Path.Pointer() }

func (e *InvalidPropertyType) Error() string {
	data := map[string]string{
		"path":   e.Path.Pointer(),
		"wanted": e.Wanted,
		"raw":    inspect(e.Raw),
	}
	if e.Reason == "" {
		return i18n.T(CodeInvalidPropertyType, data)
	}
	data["reason"] = e.Reason
	return i18n.T(CodeInvalidPropertyType+"_reason", data)
}

func (e *InvalidPropertyType) AsJSON() map[string]any {
	out := map[string]any{
		"code":   CodeInvalidPropertyType,
		"path":   []string(e.Path),
		"wanted": e.Wanted,
		"raw":    plain(e.Raw),
	}
	if e.Reason != "" {
		out["reason"] = e.Reason
	}
	return out
}

// Failures is an ordered collection of failures that implements error.
type Failures []Failure

// Error summarizes the first few failures.
func (fs Failures) Error() string {
	if len(fs) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(fs)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", fs[i].Code(), fs[i].Pointer())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Pointers lists the JSON Pointer of every failure, in order.
func (fs Failures) Pointers() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Pointer()
	}
	return out
}

// AsJSON renders every failure in its serializable form.
func (fs Failures) AsJSON() []map[string]any {
	out := make([]map[string]any, len(fs))
	for i, f := range fs {
		out[i] = f.AsJSON()
	}
	return out
}

// AsFailures extracts Failures from an error using errors.As internally.
func AsFailures(err error) (Failures, bool) {
	if err == nil {
		return nil, false
	}
	var fs Failures
	if errors.As(err, &fs) {
		return fs, true
	}
	return nil, false
}

// InvalidPayloadError is returned by Validate when any failure was found.
// Its message lists every failure on its own line in discovery order.
type InvalidPayloadError struct {
	Failures Failures
	merr     *multierror.Error
}

func newInvalidPayloadError(fs Failures) *InvalidPayloadError {
	var merr *multierror.Error
	for _, f := range fs {
		merr = multierror.Append(merr, f)
	}
	merr.ErrorFormat = formatFailureList
	return &InvalidPayloadError{Failures: fs, merr: merr}
}

func formatFailureList(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return i18n.T("structure_invalid", nil) + "\n\t" + strings.Join(msgs, "\n\t")
}

func (e *InvalidPayloadError) Error() string { return e.merr.Error() }

// Unwrap exposes the failures to errors.As.
func (e *InvalidPayloadError) Unwrap() error { return e.Failures }

// PathAlreadyDefinedError is a definition-time error for a duplicate field path.
type PathAlreadyDefinedError struct {
	Namespace string
	Path      Path
}

func (e *PathAlreadyDefinedError) Error() string {
	return e.Path.Pointer() + " was already taken as a field path"
}

// NamespaceAlreadyDefinedError is a definition-time error for a duplicate namespace.
type NamespaceAlreadyDefinedError struct {
	Namespace string
}

func (e *NamespaceAlreadyDefinedError) Error() string {
	return e.Namespace + " was already taken as a schema namespace"
}

// MissingTypeAnnotationError is a definition-time error for a field that
// declares neither a type nor nested fields.
type MissingTypeAnnotationError struct {
	Namespace string
	Path      Path
}

func (e *MissingTypeAnnotationError) Error() string {
	return e.Path.Pointer() + " was expected to define a type or a block, but did neither"
}

// NoMatchingNamespaceError is returned when validating against an unknown namespace.
type NoMatchingNamespaceError struct {
	Namespace string
	Available []string
}

func (e *NoMatchingNamespaceError) Error() string {
	return e.Namespace + " does not exist, only [" + strings.Join(e.Available, ", ") + "]"
}

// DecodeError reports input that could not be turned into a tree, including
// enforcement violations (duplicate keys, depth, size).
type DecodeError struct {
	Code    string
	Pointer string
	Message string
	Offset  int64
}

func (e *DecodeError) Error() string {
	label := i18n.T(e.Code, nil)
	if e.Pointer != "" && e.Pointer != "/" {
		return fmt.Sprintf("%s at %s: %s", label, e.Pointer, e.Message)
	}
	return label + ": " + e.Message
}

const maxInspect = 128

// inspect renders a raw value for messages: JSON where possible, truncated.
func inspect(v any) string {
	if types.IsMissing(v) {
		return "<missing>"
	}
	var s string
	if b, err := gojson.Marshal(plain(v)); err == nil {
		s = string(b)
	} else {
		s = fmt.Sprintf("%v", v)
	}
	if r := []rune(s); len(r) > maxInspect {
		s = string(r[:maxInspect]) + "..."
	}
	return s
}

// plain maps the Missing sentinel to nil so values serialize cleanly.
func plain(v any) any {
	if types.IsMissing(v) {
		return nil
	}
	return v
}
