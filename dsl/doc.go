// Package dsl declares smartparams schemas.
//
// Overview
//   - Fluent API: New().Schema(name, func(*Block)) declares a namespace;
//     Block.Field(key, type) and Block.Object(key, fn) declare fields, chained
//     with Nullable()/Default()/DefaultFunc()/Enum()/Nested().
//   - Declarative files: LoadYAML/LoadTOML/LoadFile read a document listing
//     namespaces and their fields, with types written as expressions
//     understood by types.Parse ("string", "nil | string", "array<integer>").
//
// Example (fluent)
//
//	schema := dsl.New().
//		Schema("create", func(b *dsl.Block) {
//			b.Object("data", func(b *dsl.Block) {
//				b.Field("id", types.CoercibleString()).Nullable()
//				b.Field("type", types.String())
//				b.Object("attributes", func(b *dsl.Block) {
//					b.Field("email", types.String())
//					b.Field("password", types.String()).Nullable().DefaultFunc(types.NewUUID)
//				})
//			})
//			b.Field("meta", types.Hash()).Nullable()
//		}).
//		MustBuild()
//
// Example (YAML)
//
//	namespaces:
//	  create:
//	    fields:
//	      data:
//	        fields:
//	          type: {type: string, enum: [accounts]}
//	          attributes:
//	            fields:
//	              email: {type: string}
//	      meta: {type: hash, nullable: true}
package dsl
