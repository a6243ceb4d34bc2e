package jsonschema_test

import (
	"testing"

	js "github.com/reoring/smartparams/jsonschema"
)

func TestClone_IsDeep(t *testing.T) {
	orig := &js.Schema{
		Type:       "object",
		Properties: map[string]*js.Schema{"a": {Type: "string"}},
		Required:   []string{"a"},
		AnyOf:      []*js.Schema{{Type: "null"}},
	}
	c := orig.Clone()
	c.Properties["a"].Type = "integer"
	c.Required[0] = "b"
	c.AnyOf[0].Type = "string"

	if orig.Properties["a"].Type != "string" {
		t.Fatalf("properties shared: %q", orig.Properties["a"].Type)
	}
	if orig.Required[0] != "a" {
		t.Fatalf("required shared: %v", orig.Required)
	}
	if orig.AnyOf[0].Type != "null" {
		t.Fatalf("anyOf shared: %q", orig.AnyOf[0].Type)
	}
	if (*js.Schema)(nil).Clone() != nil {
		t.Fatalf("nil clone should be nil")
	}
}
