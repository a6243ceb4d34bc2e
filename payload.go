package smartparams

import (
	"bytes"
	"sort"

	gojson "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/reoring/smartparams/types"
)

// Payload is the cleaned output of a successful validation. It holds only
// declared, surviving fields.
type Payload struct {
	m map[string]any
}

// Get returns the value stored under key.
func (p *Payload) Get(key string) (any, bool) {
	v, ok := p.m[key]
	return v, ok
}

// Fetch returns the value under key, or def when the key is absent.
// An explicit null is returned as nil, not def.
func (p *Payload) Fetch(key string, def any) any {
	if v, ok := p.m[key]; ok {
		return v
	}
	return def
}

// Has reports whether key survived validation.
func (p *Payload) Has(key string) bool {
	_, ok := p.m[key]
	return ok
}

// Keys lists the top-level keys in sorted order.
func (p *Payload) Keys() []string {
	keys := make([]string, 0, len(p.m))
	for k := range p.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values lists the top-level values in key order.
func (p *Payload) Values() []any {
	keys := p.Keys()
	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = p.m[k]
	}
	return out
}

// Len is the number of top-level keys.
func (p *Payload) Len() int { return len(p.m) }

// Dig looks up a nested value by keys.
func (p *Payload) Dig(keys ...string) (any, bool) {
	v, found, _ := Path(keys).Dig(p.m)
	if !found {
		return nil, false
	}
	return v, true
}

// Sub returns the object under keys as a Payload.
func (p *Payload) Sub(keys ...string) (*Payload, bool) {
	v, ok := p.Dig(keys...)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return &Payload{m: m}, true
}

// Map returns a deep copy of the payload as nested maps.
func (p *Payload) Map() map[string]any {
	return types.CloneValue(p.m).(map[string]any)
}

// MarshalJSON implements json.Marshaler.
func (p *Payload) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(p.m)
}

// AsJSON converts the payload to plain JSON primitives: maps, slices,
// strings, json.Number, bool and nil. Numbers keep their exact text, so
// feeding the result back through Validate yields the same payload.
func (p *Payload) AsJSON() (map[string]any, error) {
	b, err := p.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload")
	}
	var out map[string]any
	if err := unmarshalExact(b, &out); err != nil {
		return nil, errors.Wrap(err, "unmarshal payload")
	}
	return out, nil
}

// unmarshalExact decodes JSON keeping numbers as json.Number.
func unmarshalExact(b []byte, v any) error {
	dec := gojson.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(v)
}
