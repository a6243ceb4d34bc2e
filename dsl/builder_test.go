package dsl_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sp "github.com/reoring/smartparams"
	"github.com/reoring/smartparams/dsl"
	"github.com/reoring/smartparams/types"
)

func pagedSchema(t *testing.T) *sp.Schema {
	t.Helper()
	s, err := dsl.New().
		Schema("", func(b *dsl.Block) {
			b.Field("page", types.Integer()).Default(1)
			b.Field("sort", types.String()).Enum("asc", "desc").Default("asc")
			b.Object("filter", func(b *dsl.Block) {
				b.Field("kind", types.String()).Enum("user", "bot")
			}).Nullable()
		}).
		Build()
	require.NoError(t, err)
	return s
}

func TestBuilder_DefaultsApplyWhenAbsent(t *testing.T) {
	p, err := sp.Validate(context.Background(), pagedSchema(t), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"page": int64(1), "sort": "asc"}, p.Map())
}

func TestBuilder_DefaultDoesNotReplaceGivenValue(t *testing.T) {
	p, err := sp.Validate(context.Background(), pagedSchema(t), map[string]any{"page": 3, "sort": "desc"})
	require.NoError(t, err)
	page, _ := p.Get("page")
	sort, _ := p.Get("sort")
	assert.Equal(t, int64(3), page)
	assert.Equal(t, "desc", sort)
}

func TestBuilder_EnumRejectsOtherValues(t *testing.T) {
	raw := map[string]any{"filter": map[string]any{"kind": "alien"}}
	res, err := sp.From(context.Background(), pagedSchema(t), raw)
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)

	ipt, ok := res.Failures[0].(*sp.InvalidPropertyType)
	require.True(t, ok, "%T", res.Failures[0])
	assert.Equal(t, "/filter/kind", ipt.Pointer())
	assert.Equal(t, "alien", ipt.Raw)
	assert.Equal(t, "included_in?(user, bot) failed", ipt.Reason)
}

func TestBuilder_NullableObjectSkipsSubfieldsWhenNull(t *testing.T) {
	p, err := sp.Validate(context.Background(), pagedSchema(t), map[string]any{"filter": nil})
	require.NoError(t, err)
	v, ok := p.Get("filter")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestBuilder_FieldWithoutTypeOrBlock(t *testing.T) {
	_, err := dsl.New().
		Schema("", func(b *dsl.Block) { b.Field("ghost", nil) }).
		Build()
	var mta *sp.MissingTypeAnnotationError
	require.True(t, errors.As(err, &mta), "got %v", err)
	assert.Equal(t, "/ghost was expected to define a type or a block, but did neither", err.Error())
}

func TestBuilder_DuplicatePathAndNamespace(t *testing.T) {
	_, err := dsl.New().
		Schema("", func(b *dsl.Block) {
			b.Field("a", types.String())
			b.Field("a", types.Integer())
		}).
		Build()
	var pad *sp.PathAlreadyDefinedError
	require.True(t, errors.As(err, &pad), "got %v", err)
	assert.Equal(t, "/a", pad.Path.Pointer())

	_, err = dsl.New().
		Schema("create", nil).
		Schema("create", nil).
		Build()
	var nad *sp.NamespaceAlreadyDefinedError
	require.True(t, errors.As(err, &nad), "got %v", err)
	assert.Equal(t, "create was already taken as a schema namespace", err.Error())
}

func TestBuilder_RootType(t *testing.T) {
	s := dsl.New().Schema("list", nil).Root(types.Optional(types.Array())).MustBuild()

	// payloads are objects, so a non-object root contributes nothing
	p, err := sp.Validate(context.Background(), s, []any{1}, sp.ValidateOpt{Namespace: "list"})
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())

	_, err = sp.Validate(context.Background(), s, "nope", sp.ValidateOpt{Namespace: "list"})
	require.Error(t, err)
}

func TestBuilder_MustBuildPanics(t *testing.T) {
	assert.Panics(t, func() {
		dsl.New().Schema("", func(b *dsl.Block) { b.Field("x", nil) }).MustBuild()
	})
}
