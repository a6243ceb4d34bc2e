package smartparams_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sp "github.com/reoring/smartparams"
	"github.com/reoring/smartparams/dsl"
	"github.com/reoring/smartparams/types"
)

func TestValidate_EmptyInputReportsEveryMissingLevel(t *testing.T) {
	s := accountSchema(t)
	_, err := sp.Validate(context.Background(), s, map[string]any{}, create())
	require.Error(t, err)

	var ipe *sp.InvalidPayloadError
	require.True(t, errors.As(err, &ipe))
	assert.Equal(t,
		"structure failed to validate: \n"+
			"\t/data is missing from the structure, last node was {}\n"+
			"\t/data/attributes is missing from the structure, last node was {}\n"+
			"\t/data/type is missing from the structure, last node was {}\n"+
			"\t/data/attributes/email is missing from the structure, last node was {}",
		err.Error())

	fs, ok := sp.AsFailures(err)
	require.True(t, ok)
	assert.Equal(t, []string{"/data", "/data/attributes", "/data/type", "/data/attributes/email"}, fs.Pointers())
}

func TestFrom_ScalarContainerMakesDescendantsMissing(t *testing.T) {
	s := accountSchema(t)
	res, err := sp.From(context.Background(), s, map[string]any{"data": ""}, create())
	require.NoError(t, err)
	require.False(t, res.Valid())
	assert.Nil(t, res.Value)

	assert.Equal(t, []string{"/data/attributes", "/data/type", "/data/attributes/email"}, res.Failures.Pointers())
	for _, f := range res.Failures {
		mp, ok := f.(*sp.MissingProperty)
		require.True(t, ok, "%T", f)
		assert.Equal(t, "", mp.Last)
	}
}

func TestFrom_InvalidPropertyTypeCarriesReason(t *testing.T) {
	s := accountSchema(t)
	raw := map[string]any{
		"data": map[string]any{
			"type":       "accounts",
			"attributes": map[string]any{"email": "a@example.com", "password": 1},
		},
	}
	res, err := sp.From(context.Background(), s, raw, create())
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)

	ipt, ok := res.Failures[0].(*sp.InvalidPropertyType)
	require.True(t, ok)
	assert.Equal(t, sp.Path{"data", "attributes", "password"}, ipt.Path)
	assert.Equal(t, "Nil | String", ipt.Wanted)
	assert.Equal(t, 1, ipt.Raw)
	assert.Equal(t,
		"expected /data/attributes/password to be Nil | String, but is 1 and type?(String) failed",
		ipt.Error())
	assert.Equal(t, map[string]any{
		"code":   sp.CodeInvalidPropertyType,
		"path":   []string{"data", "attributes", "password"},
		"wanted": "Nil | String",
		"raw":    1,
		"reason": "type?(String) failed",
	}, ipt.AsJSON())
}

func TestValidate_AccountCreate(t *testing.T) {
	s := accountSchema(t)
	raw := map[string]any{
		"data": map[string]any{
			"id":   42,
			"type": "accounts",
			"attributes": map[string]any{
				"email":    "a@example.com",
				"password": "secret",
				"admin":    true,
			},
			"relationships": map[string]any{},
		},
		"meta": map[string]any{"trace": "x"},
		"junk": 1,
	}
	p, err := sp.Validate(context.Background(), s, raw, create())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"data": map[string]any{
			"id":   "42",
			"type": "accounts",
			"attributes": map[string]any{
				"email":    "a@example.com",
				"password": "secret",
			},
		},
		"meta": map[string]any{"trace": "x"},
	}, p.Map())

	assert.Equal(t, []string{"data", "meta"}, p.Keys())
	email, ok := p.Dig("data", "attributes", "email")
	require.True(t, ok)
	assert.Equal(t, "a@example.com", email)
	assert.Nil(t, p.Fetch("included", nil))
	assert.Equal(t, "fallback", p.Fetch("included", "fallback"))
}

func TestValidate_DefaultSupplied(t *testing.T) {
	s := accountSchema(t)
	raw := map[string]any{"data": map[string]any{"type": "accounts", "attributes": map[string]any{"email": "e"}}}
	p, err := sp.Validate(context.Background(), s, raw, create())
	require.NoError(t, err)

	pw, ok := p.Dig("data", "attributes", "password")
	require.True(t, ok)
	require.IsType(t, "", pw)
	assert.Len(t, pw.(string), 36)

	_, ok = p.Dig("data", "attributes", "username")
	assert.False(t, ok, "unspecified optional leaf must be dropped")
}

func TestValidate_RoundTripIsIdempotent(t *testing.T) {
	s := accountSchema(t)
	raw := map[string]any{"data": map[string]any{"type": "accounts", "attributes": map[string]any{"email": "e"}}}
	first, err := sp.Validate(context.Background(), s, raw, create())
	require.NoError(t, err)

	plain, err := first.AsJSON()
	require.NoError(t, err)
	second, err := sp.Validate(context.Background(), s, plain, create())
	require.NoError(t, err)

	assert.Equal(t, first.Map(), second.Map())
}

func TestValidate_RoundTripKeepsLargeIntegers(t *testing.T) {
	s := dsl.New().Schema("", func(b *dsl.Block) {
		b.Field("n", types.Integer())
		b.Field("ratio", types.Optional(types.Float()))
	}).MustBuild()
	ctx := context.Background()

	first, err := sp.Validate(ctx, s, map[string]any{"n": int64(9007199254740993), "ratio": 0.25})
	require.NoError(t, err)
	plain, err := first.AsJSON()
	require.NoError(t, err)
	second, err := sp.Validate(ctx, s, plain)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"n": int64(9007199254740993), "ratio": 0.25}, second.Map())
	assert.Equal(t, first.Map(), second.Map())
}

func TestValidate_ZeroValuesAndNestedNullSurviveReconstruction(t *testing.T) {
	s := dsl.New().Schema("", func(b *dsl.Block) {
		b.Field("count", types.Integer())
		b.Field("flag", types.Bool())
		b.Field("name", types.String())
		b.Object("user", func(b *dsl.Block) {
			b.Field("active", types.Bool())
			b.Object("rel", func(b *dsl.Block) {
				b.Field("id", types.String())
			}).Nullable()
		})
	}).MustBuild()

	raw := map[string]any{
		"count": 0,
		"flag":  false,
		"name":  "",
		"user":  map[string]any{"active": false, "rel": nil},
	}
	p, err := sp.Validate(context.Background(), s, raw)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"count": int64(0),
		"flag":  false,
		"name":  "",
		"user":  map[string]any{"active": false, "rel": nil},
	}, p.Map())
}

func TestValidate_TypedGoContainers(t *testing.T) {
	s := dsl.New().Schema("", func(b *dsl.Block) {
		b.Object("user", func(b *dsl.Block) {
			b.Field("name", types.String())
			b.Field("age", types.Integer())
		})
		b.Field("tags", types.Optional(types.ArrayOf(types.String())))
	}).MustBuild()
	ctx := context.Background()

	p, err := sp.Validate(ctx, s, map[string]map[string]any{"user": {"name": "ada", "age": 36}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"user": map[string]any{"name": "ada", "age": int64(36)}}, p.Map())

	raw := map[string]any{
		"user": map[string]string{"name": "ada"},
		"tags": []string{"a", "b"},
	}
	res, err := sp.From(ctx, s, raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"/user/age"}, res.Failures.Pointers())

	raw["user"] = map[string]int{"age": 1}
	res, err = sp.From(ctx, s, raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"/user/name"}, res.Failures.Pointers())
}

func TestValidate_NamespaceSelection(t *testing.T) {
	s := accountSchema(t)
	p, err := sp.Validate(context.Background(), s, map[string]any{"included": []any{}, "data": 1}, sp.ValidateOpt{Namespace: "index"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"included": []any{}}, p.Map())

	_, err = sp.Validate(context.Background(), s, map[string]any{})
	var nm *sp.NoMatchingNamespaceError
	require.True(t, errors.As(err, &nm))
	assert.Equal(t, "default does not exist, only [create, index]", nm.Error())
}

func TestNullableRequiredSubfield(t *testing.T) {
	s := nullableRequiredSubfieldSchema(t)
	ctx := context.Background()

	t.Run("dirty branch is validated", func(t *testing.T) {
		res, err := sp.From(ctx, s, map[string]any{"data": map[string]any{"is": "garbage"}})
		require.NoError(t, err)
		require.Len(t, res.Failures, 1)
		mp, ok := res.Failures[0].(*sp.MissingProperty)
		require.True(t, ok)
		assert.Equal(t, sp.Path{"data", "id"}, mp.Path)
		assert.Equal(t, map[string]any{"is": "garbage"}, mp.Last)
	})

	t.Run("explicit null skips subfields", func(t *testing.T) {
		p, err := sp.Validate(ctx, s, map[string]any{"data": nil})
		require.NoError(t, err)
		v, ok := p.Get("data")
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("absent skips subfields", func(t *testing.T) {
		p, err := sp.Validate(ctx, s, map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, 0, p.Len())
	})

	t.Run("clean branch keeps value", func(t *testing.T) {
		p, err := sp.Validate(ctx, s, map[string]any{"data": map[string]any{"id": "1"}})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"data": map[string]any{"id": "1"}}, p.Map())
	})
}

func TestNullable(t *testing.T) {
	s := nullableSchema(t)
	ctx := context.Background()

	p, err := sp.Validate(ctx, s, map[string]any{"data": nil, "garbage": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"data": nil}, p.Map())

	p, err = sp.Validate(ctx, s, map[string]any{"garbage": 1})
	require.NoError(t, err)
	assert.False(t, p.Has("data"))

	p, err = sp.Validate(ctx, s, map[string]any{"data": map[string]any{}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"data": map[string]any{}}, p.Map(), "clean empty object is kept")

	p, err = sp.Validate(ctx, s, map[string]any{"data": map[string]any{"other": 1}})
	require.NoError(t, err)
	assert.False(t, p.Has("data"), "dirty empty object is dropped")

	p, err = sp.Validate(ctx, s, map[string]any{"data": map[string]any{"id": "1", "garbage": "x"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"data": map[string]any{"id": "1"}}, p.Map(), "undeclared subfield is dropped")
}

func TestExhaustiveFailuresOuterToInner(t *testing.T) {
	s := dsl.New().Schema("", func(b *dsl.Block) {
		b.Object("a", func(b *dsl.Block) {
			b.Object("b", func(b *dsl.Block) {
				b.Object("c", func(b *dsl.Block) {
					b.Field("d", types.Integer())
				})
			})
		})
	}).MustBuild()

	res, err := sp.From(context.Background(), s, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/a/b", "/a/b/c", "/a/b/c/d"}, res.Failures.Pointers())
}

func TestDeepMergeOfSiblings(t *testing.T) {
	s := dsl.New().Schema("", func(b *dsl.Block) {
		b.Object("user", func(b *dsl.Block) {
			b.Object("name", func(b *dsl.Block) {
				b.Field("first", types.String())
				b.Field("last", types.String())
			})
			b.Field("age", types.Integer())
		})
	}).MustBuild()

	raw := map[string]any{"user": map[string]any{"name": map[string]any{"first": "Ada", "last": "L"}, "age": 36}}
	p, err := sp.Validate(context.Background(), s, raw)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"user": map[string]any{
			"name": map[string]any{"first": "Ada", "last": "L"},
			"age":  int64(36),
		},
	}, p.Map())
}

func TestComposedTypeSubPath(t *testing.T) {
	s := dsl.New().Schema("", func(b *dsl.Block) {
		b.Field("point", types.Object(types.Key("x", types.Integer()), types.Key("y", types.Integer())))
		b.Field("tags", types.Optional(types.ArrayOf(types.String())))
	}).MustBuild()

	res, err := sp.From(context.Background(), s, map[string]any{
		"point": map[string]any{"x": "no"},
		"tags":  []any{"a", 2},
	})
	require.NoError(t, err)
	require.Len(t, res.Failures, 2)
	assert.Equal(t, []string{"/point/x", "/tags/1"}, res.Failures.Pointers())

	res, err = sp.From(context.Background(), s, map[string]any{"point": map[string]any{"x": 1}})
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "expected /point to be Hash with key y, but is {\"x\":1}", res.Failures[0].Error())
}

func TestFrom_PresenceSideTable(t *testing.T) {
	s := accountSchema(t)
	raw := map[string]any{
		"data": map[string]any{"type": "accounts", "attributes": map[string]any{"email": "e"}},
		"meta": nil,
	}
	res, err := sp.From(context.Background(), s, raw, sp.ValidateOpt{Namespace: "create", Presence: sp.PresenceOpt{Collect: true}})
	require.NoError(t, err)
	require.True(t, res.Valid())

	pm := res.Presence
	assert.True(t, pm.Has("/data", sp.PresenceSeen))
	assert.True(t, pm.Has("/meta", sp.PresenceSeen|sp.PresenceWasNull))
	assert.True(t, pm.Has("/data/attributes/password", sp.PresenceDefaultApplied))
	assert.False(t, pm.Has("/data/attributes/password", sp.PresenceSeen))
	assert.Equal(t, sp.Presence(0), pm["/included"])

	res, err = sp.From(context.Background(), s, raw, sp.ValidateOpt{Namespace: "create", Presence: sp.PresenceOpt{Collect: true, Include: []string{"/data/attributes"}}})
	require.NoError(t, err)
	for ptr := range res.Presence {
		assert.Contains(t, ptr, "/data/attributes")
	}

	res, err = sp.From(context.Background(), s, raw, create())
	require.NoError(t, err)
	assert.Nil(t, res.Presence)
}

func TestFrom_DirtyPresence(t *testing.T) {
	s := nullableRequiredSubfieldSchema(t)
	res, err := sp.From(context.Background(), s, map[string]any{"data": map[string]any{"id": "1", "x": 2}}, sp.ValidateOpt{Presence: sp.PresenceOpt{Collect: true}})
	require.NoError(t, err)
	assert.True(t, res.Presence.Has("/data", sp.PresenceDirty))
}

func TestValidate_ConcurrentRunsDoNotShareState(t *testing.T) {
	s := nullableRequiredSubfieldSchema(t)
	inputs := []map[string]any{
		{"data": nil},
		{"data": map[string]any{"is": "garbage"}},
		{"data": map[string]any{"id": "7"}},
		{},
	}
	wantValid := []bool{true, false, true, true}

	var wg sync.WaitGroup
	errs := make(chan error, 400)
	for i := 0; i < 400; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			k := i % len(inputs)
			res, err := sp.From(context.Background(), s, inputs[k])
			if err != nil {
				errs <- err
				return
			}
			if res.Valid() != wantValid[k] {
				errs <- fmt.Errorf("input %d: valid=%v", k, res.Valid())
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestValidate_NilSchema(t *testing.T) {
	_, err := sp.Validate(context.Background(), nil, map[string]any{})
	require.Error(t, err)
}
