package smartparams

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/reoring/smartparams/types"
)

// claimState is the per-run state of one field. It lives in a side table
// owned by the run, never on the shared Field.
type claimState struct {
	specified bool // every key of the path exists in the input
	null      bool // the input holds an explicit null at the path
	dirty     bool // nullable object with undeclared keys
	deep      bool // subfields are claimed
	value     any
	hasValue  bool
	defaulted bool
	last      any
}

func (st *claimState) empty() bool { return !st.hasValue || st.value == nil }

// run claims one raw input against one namespace.
type run struct {
	ctx      context.Context
	ns       *Namespace
	raw      any
	states   map[*Field]*claimState
	order    []*Field
	failures Failures
	log      logrus.FieldLogger
}

func newRun(ctx context.Context, ns *Namespace, raw any, log logrus.FieldLogger) *run {
	return &run{
		ctx:    ctx,
		ns:     ns,
		raw:    raw,
		states: make(map[*Field]*claimState, len(ns.plan)+1),
		log:    log,
	}
}

// claimAll claims the root, then every field whose parent was descended
// into, shallowest first.
func (r *run) claimAll() {
	r.claim(r.ns.root)
	for _, f := range r.ns.plan {
		if ps, ok := r.states[f.parent]; !ok || !ps.deep {
			continue
		}
		r.claim(f)
	}
}

func (r *run) claim(f *Field) {
	dug, found, last := f.path.Dig(r.raw)
	st := &claimState{specified: found, null: found && dug == nil, last: last}
	r.states[f] = st
	r.order = append(r.order, f)
	defer r.trace(f, st)

	if m, ok := dug.(map[string]any); ok && f.nullable {
		st.dirty = f.foreignKey(m)
	}

	if f.hasChildren() {
		// An absent or null container whose type tolerates that is settled
		// here and its subfields are not looked at.
		if !found || dug == nil {
			if v, err := f.typ.Coerce(r.ctx, dug); err == nil {
				r.store(st, v)
				return
			}
		}
		st.deep = true
		if !found {
			r.fail(&MissingProperty{Path: f.path, Last: last})
		}
		return
	}

	v, err := f.typ.Coerce(r.ctx, dug)
	if err != nil {
		r.fail(r.typeFailure(f, dug, last, err))
		return
	}
	r.store(st, v)
}

func (r *run) store(st *claimState, v any) {
	if types.IsMissing(v) {
		return
	}
	st.value, st.hasValue = v, true
	st.defaulted = !st.specified
}

func (r *run) typeFailure(f *Field, dug, last any, err error) Failure {
	if errors.Is(err, types.ErrMissing) {
		return &MissingProperty{Path: f.path, Last: last}
	}
	ce, ok := types.AsConstraintError(err)
	if !ok {
		return &InvalidPropertyType{Path: f.path, Wanted: f.typ.Name(), Raw: dug, Reason: err.Error()}
	}
	p := f.path
	for _, k := range ce.Path {
		p = p.Child(k)
	}
	wanted := ce.Wanted
	if wanted == "" {
		wanted = f.typ.Name()
	}
	raw := ce.Input
	if len(ce.Path) == 0 && ce.Wanted == "" {
		raw = dug
	}
	return &InvalidPropertyType{Path: p, Wanted: wanted, Raw: raw, Reason: ce.Reason}
}

func (r *run) fail(f Failure) { r.failures = append(r.failures, f) }

func (r *run) trace(f *Field, st *claimState) {
	r.log.WithFields(logrus.Fields{
		"path":      f.Pointer(),
		"specified": st.specified,
		"null":      st.null,
		"dirty":     st.dirty,
		"deep":      st.deep,
		"defaulted": st.defaulted,
	}).Debug("claimed field")
}

// allowEmpty holds for a clean, explicitly specified nullable field, or when
// any claimed subfield allows it.
func (r *run) allowEmpty(f *Field) bool {
	st, ok := r.states[f]
	if !ok {
		return false
	}
	if f.nullable && st.specified && !st.dirty {
		return true
	}
	if !st.deep {
		return false
	}
	for _, c := range f.children {
		if r.allowEmpty(c) {
			return true
		}
	}
	return false
}

func (r *run) removable(f *Field) bool {
	return r.states[f].empty() && !r.allowEmpty(f)
}

// contribution is what a surviving field adds to the output: its value, or
// an empty object for a container whose subfields were claimed.
func (r *run) contribution(f *Field) any {
	st := r.states[f]
	if st.deep {
		return map[string]any{}
	}
	return types.CloneValue(st.value)
}

func (r *run) presence() PresenceMap {
	pm := make(PresenceMap, len(r.order))
	for _, f := range r.order {
		st := r.states[f]
		var p Presence
		if st.specified {
			p |= PresenceSeen
		}
		if st.null {
			p |= PresenceWasNull
		}
		if st.defaulted {
			p |= PresenceDefaultApplied
		}
		if st.dirty {
			p |= PresenceDirty
		}
		pm[f.Pointer()] = p
	}
	return pm
}
