package jsonschema

// Schema is a minimal JSON Schema representation used for export.
// Only the keywords a field tree can produce are modelled.
type Schema struct {
	// Core
	Type        string `json:"type,omitempty"`
	Format      string `json:"format,omitempty"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	// Nullable follows the OpenAPI 3.0 keyword; null is also accepted.
	Nullable bool `json:"nullable,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`

	// Number / string bounds
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`
}

// Clone returns a deep copy of s so wrappers can decorate a shared schema.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	if s.Enum != nil {
		c.Enum = append([]any(nil), s.Enum...)
	}
	if s.Properties != nil {
		c.Properties = make(map[string]*Schema, len(s.Properties))
		for k, v := range s.Properties {
			c.Properties[k] = v.Clone()
		}
	}
	if s.Required != nil {
		c.Required = append([]string(nil), s.Required...)
	}
	c.Items = s.Items.Clone()
	c.OneOf = cloneAll(s.OneOf)
	c.AnyOf = cloneAll(s.AnyOf)
	return &c
}

func cloneAll(in []*Schema) []*Schema {
	if in == nil {
		return nil
	}
	out := make([]*Schema, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
