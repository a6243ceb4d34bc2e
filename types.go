package smartparams

import "github.com/sirupsen/logrus"

// NumberMode dictates how numbers decoded from a Source are represented.
type NumberMode int

const (
	NumberJSONNumber NumberMode = iota // Preserve json.Number (default).
	NumberFloat64                      // Round to float64.
)

// Severity expresses the severity level for input issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement applied while decoding a Source.
type Strictness struct {
	OnDuplicateKey Severity // Warn logs, Error rejects duplicate object keys.
}

// PresenceOpt configures collection of the presence side table.
type PresenceOpt struct {
	Collect bool
	Include []string // JSON Pointer prefixes to keep; empty keeps all.
	Exclude []string // JSON Pointer prefixes to drop.
}

// ValidateOpt bundles validation options. APIs take them variadically and
// use the last one.
type ValidateOpt struct {
	// Namespace selects the schema namespace; empty means DefaultNamespace.
	Namespace string
	// Logger overrides the package logger for this call.
	Logger logrus.FieldLogger

	// Source decoding.
	Strictness Strictness
	MaxDepth   int
	MaxBytes   int64
	NumberMode NumberMode

	Presence PresenceOpt
}

func lastOpt(opts []ValidateOpt) ValidateOpt {
	var opt ValidateOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.Namespace == "" {
		opt.Namespace = DefaultNamespace
	}
	if opt.Logger == nil {
		opt.Logger = logger()
	}
	return opt
}
