package smartparams_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sp "github.com/reoring/smartparams"
	"github.com/reoring/smartparams/i18n"
	"github.com/reoring/smartparams/types"
)

func TestDefinitionErrors(t *testing.T) {
	_, err := sp.NewSchema(sp.NamespaceDef{Name: "a"}, sp.NamespaceDef{Name: "a"})
	var nad *sp.NamespaceAlreadyDefinedError
	require.True(t, errors.As(err, &nad))
	assert.Equal(t, "a was already taken as a schema namespace", err.Error())

	_, err = sp.NewSchema(sp.NamespaceDef{}, sp.NamespaceDef{Name: sp.DefaultNamespace})
	require.True(t, errors.As(err, &nad), "empty name is the default namespace")

	_, err = sp.NewSchema(sp.NamespaceDef{Fields: []sp.FieldDef{
		{Key: "a", Fields: []sp.FieldDef{{Key: "b", Type: types.String()}, {Key: "b", Type: types.Integer()}}},
	}})
	var pad *sp.PathAlreadyDefinedError
	require.True(t, errors.As(err, &pad))
	assert.Equal(t, "/a/b was already taken as a field path", err.Error())

	_, err = sp.NewSchema(sp.NamespaceDef{Fields: []sp.FieldDef{{Key: "a"}}})
	var mta *sp.MissingTypeAnnotationError
	require.True(t, errors.As(err, &mta))
	assert.Equal(t, "/a was expected to define a type or a block, but did neither", err.Error())
}

func TestFailures_SummaryAndUnwrap(t *testing.T) {
	fs := sp.Failures{
		&sp.MissingProperty{Path: sp.Path{"a"}, Last: map[string]any{}},
		&sp.MissingProperty{Path: sp.Path{"a", "b"}, Last: map[string]any{}},
		&sp.InvalidPropertyType{Path: sp.Path{"c"}, Wanted: "String", Raw: 1},
		&sp.MissingProperty{Path: sp.Path{"d"}, Last: nil},
	}
	assert.Equal(t, "missing_property at /a; missing_property at /a/b; invalid_property_type at /c; ... (total 4)", fs.Error())

	s := sp.MustSchema(sp.NamespaceDef{Fields: []sp.FieldDef{{Key: "a", Type: types.String()}}})
	_, err := sp.Validate(context.Background(), s, map[string]any{})
	got, ok := sp.AsFailures(err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, sp.CodeMissingProperty, got[0].Code())

	_, ok = sp.AsFailures(nil)
	assert.False(t, ok)
}

func TestMissingProperty_AsJSON(t *testing.T) {
	mp := &sp.MissingProperty{Path: sp.Path{"data", "id"}, Last: map[string]any{"is": "garbage"}}
	assert.Equal(t, map[string]any{
		"code": sp.CodeMissingProperty,
		"path": []string{"data", "id"},
		"last": map[string]any{"is": "garbage"},
	}, mp.AsJSON())
	assert.Equal(t, `/data/id is missing from the structure, last node was {"is":"garbage"}`, mp.Error())
}

func TestInvalidPropertyType_TruncatesRaw(t *testing.T) {
	ipt := &sp.InvalidPropertyType{Path: sp.Path{"a"}, Wanted: "Integer", Raw: strings.Repeat("x", 500)}
	msg := ipt.Error()
	assert.True(t, strings.HasSuffix(msg, "..."), msg)
	assert.Less(t, len(msg), 200)
}

func TestFailureMessages_Localized(t *testing.T) {
	i18n.SetLanguage("ja")
	defer i18n.SetLanguage("en")
	mp := &sp.MissingProperty{Path: sp.Path{"a"}, Last: map[string]any{}}
	assert.NotContains(t, mp.Error(), "is missing from the structure")
	assert.Contains(t, mp.Error(), "/a")
}

func TestPointerEscaping(t *testing.T) {
	mp := &sp.MissingProperty{Path: sp.Path{"a/b", "c~d"}}
	assert.Equal(t, "/a~1b/c~0d", mp.Pointer())
}
