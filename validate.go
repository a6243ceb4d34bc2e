package smartparams

import (
	"context"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of From. Exactly one of Value and Failures is set.
type Result struct {
	Value    *Payload
	Failures Failures
	// Presence is collected when ValidateOpt.Presence.Collect is set.
	Presence PresenceMap
}

// Valid reports whether the input passed validation.
func (r Result) Valid() bool { return len(r.Failures) == 0 }

// Validate claims raw against the schema and returns the cleaned payload.
// Any failure is returned as *InvalidPayloadError listing every failure.
func Validate(ctx context.Context, s *Schema, raw any, opts ...ValidateOpt) (*Payload, error) {
	res, err := From(ctx, s, raw, opts...)
	if err != nil {
		return nil, err
	}
	if !res.Valid() {
		return nil, newInvalidPayloadError(res.Failures)
	}
	return res.Value, nil
}

// From claims raw against the schema. Validation problems are returned in
// Result.Failures; the error is reserved for problems such as an unknown
// namespace.
func From(ctx context.Context, s *Schema, raw any, opts ...ValidateOpt) (Result, error) {
	if s == nil {
		return Result{}, errors.New("smartparams: nil schema")
	}
	opt := lastOpt(opts)
	ns, err := s.Namespace(opt.Namespace)
	if err != nil {
		return Result{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	r := newRun(ctx, ns, normalizeValue(raw), opt.Logger)
	r.claimAll()
	r.log.WithFields(logrus.Fields{
		"namespace": ns.name,
		"fields":    len(r.order),
		"failures":  len(r.failures),
	}).Debug("validated payload")

	var res Result
	if opt.Presence.Collect {
		res.Presence = applyPresenceOptions(r.presence(), opt.Presence)
	}
	if len(r.failures) > 0 {
		res.Failures = r.failures
		return res, nil
	}
	out, err := r.reconstruct()
	if err != nil {
		return Result{}, err
	}
	res.Value = &Payload{m: out}
	return res, nil
}

// ValidateSource decodes src and validates the resulting tree.
func ValidateSource(ctx context.Context, s *Schema, src Source, opts ...ValidateOpt) (*Payload, error) {
	raw, err := decodeSource(src, lastOpt(opts))
	if err != nil {
		return nil, err
	}
	return Validate(ctx, s, raw, opts...)
}

// FromSource decodes src and claims the resulting tree. Decode problems are
// returned as an error wrapping *DecodeError.
func FromSource(ctx context.Context, s *Schema, src Source, opts ...ValidateOpt) (Result, error) {
	raw, err := decodeSource(src, lastOpt(opts))
	if err != nil {
		return Result{}, err
	}
	return From(ctx, s, raw, opts...)
}

// reconstruct merges one nested fragment per surviving field onto the
// root's base object, in processing order.
func (r *run) reconstruct() (map[string]any, error) {
	out := map[string]any{}
	root := r.ns.root
	if st := r.states[root]; !st.deep && st.hasValue {
		if m, ok := r.contribution(root).(map[string]any); ok {
			out = m
		}
	}
	for _, f := range r.order {
		if f.IsRoot() || r.removable(f) {
			continue
		}
		if err := mergo.Merge(&out, nest(f.path, r.contribution(f)), mergo.WithOverride); err != nil {
			return nil, errors.Wrapf(err, "merge %s", f.Pointer())
		}
	}
	return out, nil
}

// nest builds {p0: {p1: ... {pn: v}}}.
func nest(p Path, v any) map[string]any {
	var acc any = v
	for i := len(p) - 1; i > 0; i-- {
		acc = map[string]any{p[i]: acc}
	}
	return map[string]any{p[0]: acc}
}
