package dsl

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	sp "github.com/reoring/smartparams"
	"github.com/reoring/smartparams/types"
)

// Document is the declarative schema file layout shared by YAML and TOML.
type Document struct {
	Namespaces map[string]NamespaceDoc `yaml:"namespaces" toml:"namespaces"`
}

// NamespaceDoc declares one namespace. Type defaults to "hash".
type NamespaceDoc struct {
	Type   string              `yaml:"type" toml:"type"`
	Fields map[string]FieldDoc `yaml:"fields" toml:"fields"`
}

// FieldDoc declares one field.
type FieldDoc struct {
	// Type is a types.Parse expression. It may be empty when Fields is set.
	Type     string `yaml:"type" toml:"type"`
	Nullable bool   `yaml:"nullable" toml:"nullable"`
	// Default is supplied when the field is absent. A null default reads the
	// same as no default: an absent field with a null value is dropped from
	// the payload either way, so declare the field nullable instead.
	Default any `yaml:"default" toml:"default"`
	// Generate names a default supplier run per validation ("uuid").
	Generate string              `yaml:"generate" toml:"generate"`
	Enum     []any               `yaml:"enum" toml:"enum"`
	Min      *float64            `yaml:"min" toml:"min"`
	Max      *float64            `yaml:"max" toml:"max"`
	Fields   map[string]FieldDoc `yaml:"fields" toml:"fields"`
}

var generators = map[string]func() any{
	"uuid": types.NewUUID,
}

// LoadYAML builds a schema from a YAML document.
func LoadYAML(b []byte) (*sp.Schema, error) {
	var doc Document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, errors.Wrap(err, "parse yaml schema")
	}
	return doc.Build()
}

// LoadTOML builds a schema from a TOML document.
func LoadTOML(b []byte) (*sp.Schema, error) {
	var doc Document
	if _, err := toml.Decode(string(b), &doc); err != nil {
		return nil, errors.Wrap(err, "parse toml schema")
	}
	return doc.Build()
}

// LoadFile reads a schema file, choosing the format by extension
// (.yaml, .yml or .toml).
func LoadFile(path string) (*sp.Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read schema file")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return LoadTOML(b)
	case ".yaml", ".yml":
		return LoadYAML(b)
	}
	return nil, errors.Errorf("unsupported schema file extension %q", filepath.Ext(path))
}

// Build turns the document into a schema.
func (d Document) Build() (*sp.Schema, error) {
	names := make([]string, 0, len(d.Namespaces))
	for name := range d.Namespaces {
		names = append(names, name)
	}
	sort.Strings(names)

	b := New()
	for _, name := range names {
		nd := d.Namespaces[name]
		var root types.Type
		if nd.Type != "" {
			t, err := types.Parse(nd.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "namespace %s", name)
			}
			root = t
		}
		var buildErr error
		b.Schema(name, func(blk *Block) { buildErr = declareFields(blk, nd.Fields, sp.Path{}) }).Root(root)
		if buildErr != nil {
			return nil, errors.Wrapf(buildErr, "namespace %s", name)
		}
	}
	return b.Build()
}

func declareFields(blk *Block, fields map[string]FieldDoc, parent sp.Path) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fd := fields[k]
		p := parent.Child(k)
		var t types.Type
		if fd.Type != "" {
			parsed, err := types.Parse(fd.Type)
			if err != nil {
				return errors.Wrapf(err, "field %s", p.Pointer())
			}
			t = parsed
		}
		if t != nil && (fd.Min != nil || fd.Max != nil) {
			if fd.Min != nil {
				t = types.Min(t, *fd.Min)
			}
			if fd.Max != nil {
				t = types.Max(t, *fd.Max)
			}
		}
		step := blk.Field(k, t)
		if fd.Nullable {
			step.Nullable()
		}
		if len(fd.Enum) > 0 {
			step.Enum(fd.Enum...)
		}
		switch {
		case fd.Generate != "":
			gen, ok := generators[fd.Generate]
			if !ok {
				return errors.Errorf("field %s: unknown generator %q", p.Pointer(), fd.Generate)
			}
			step.DefaultFunc(gen)
		case fd.Default != nil:
			step.Default(normalizeDefault(fd.Default))
		}
		if len(fd.Fields) > 0 {
			var err error
			step.Nested(func(nb *Block) { err = declareFields(nb, fd.Fields, p) })
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// normalizeDefault maps decoder-specific containers to map[string]any/[]any.
func normalizeDefault(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalizeDefault(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			if ks, ok := k.(string); ok {
				out[ks] = normalizeDefault(e)
			}
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeDefault(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeDefault(e)
		}
		return out
	}
	return v
}
