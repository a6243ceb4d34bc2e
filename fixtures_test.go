package smartparams_test

import (
	"testing"

	sp "github.com/reoring/smartparams"
	"github.com/reoring/smartparams/dsl"
	"github.com/reoring/smartparams/types"
)

// accountSchema mirrors a JSON:API style account resource with a create
// and an index namespace.
func accountSchema(t testing.TB) *sp.Schema {
	t.Helper()
	s, err := dsl.New().
		Schema("create", func(b *dsl.Block) {
			b.Object("data", func(b *dsl.Block) {
				b.Field("id", types.Optional(types.CoercibleString()))
				b.Field("type", types.String())
				b.Object("attributes", func(b *dsl.Block) {
					b.Field("email", types.String())
					b.Field("username", types.Optional(types.String()))
					b.Field("full-name", types.Optional(types.String()))
					b.Field("password", types.Optional(types.String())).DefaultFunc(types.NewUUID)
				})
			})
			b.Field("meta", types.Optional(types.Hash()))
			b.Field("included", types.Optional(types.Array()))
		}).
		Schema("index", func(b *dsl.Block) {
			b.Field("meta", types.Optional(types.Hash()))
			b.Field("included", types.Optional(types.Array()))
		}).
		Build()
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return s
}

// nullableRequiredSubfieldSchema: a nullable object whose only subfield is required.
func nullableRequiredSubfieldSchema(t testing.TB) *sp.Schema {
	t.Helper()
	return dsl.New().
		Schema("", func(b *dsl.Block) {
			b.Object("data", func(b *dsl.Block) {
				b.Field("id", types.String())
			}).Nullable()
		}).
		MustBuild()
}

// nullableSchema: a nullable object with optional subfields.
func nullableSchema(t testing.TB) *sp.Schema {
	t.Helper()
	return dsl.New().
		Schema("", func(b *dsl.Block) {
			b.Object("data", func(b *dsl.Block) {
				b.Field("id", types.Optional(types.String()))
				b.Field("name", types.Optional(types.String()))
			}).Nullable()
		}).
		MustBuild()
}

func create() sp.ValidateOpt { return sp.ValidateOpt{Namespace: "create"} }
