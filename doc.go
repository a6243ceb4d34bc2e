// Package smartparams validates untyped, nested request parameters against a
// declarative field tree.
//
//   - A Schema holds one or more named field trees (namespaces), built once and
//     safe for concurrent use.
//   - Validate returns the cleaned Payload or an *InvalidPayloadError listing
//     every failure; From returns the failures as data instead.
//   - Unknown keys are dropped from the output, never reported.
//   - Nullable branches that are absent or explicitly null skip their
//     subfields; a nullable object carrying undeclared keys is "dirty" and
//     loses the explicit-null keep rule.
//   - Inputs come from decoded trees or from Sources (JSON, YAML, values) with
//     duplicate-key/depth/size enforcement.
//
// Design policy:
//   - Coercion lives in types/, the fluent and file-based schema DSL in dsl/,
//     host adapters in middleware/, and the CLI under cmd/smartparams.
//   - Per-run claim state is kept in a side table, never on the shared Field.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	schema := dsl.New().
//		Schema("create", func(b *dsl.Block) {
//			b.Object("data", func(b *dsl.Block) {
//				b.Field("type", types.String())
//				b.Field("id", types.CoercibleString()).Nullable()
//			})
//		}).
//		MustBuild()
//
//	payload, err := smartparams.ValidateSource(ctx, schema, smartparams.JSONBytes(body),
//		smartparams.ValidateOpt{Namespace: "create"})
//	res, err := smartparams.From(ctx, schema, raw, smartparams.ValidateOpt{Namespace: "create"})
package smartparams
