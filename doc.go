// Package rowskema binds tabular rows (delimited or fixed-width text) to
// typed records and back.
//
// Each mapped field gets a read pipeline (conversions, then the formatter,
// then constraints) and a write pipeline (constraints, then the formatter,
// then conversions). Pipelines are compiled once into a SchemaCache, which
// is immutable and may be shared by any number of readers and writers.
//
// Design policy:
//   - Keep the core types and error model in the root package; declarations
//     live in dsl/, formatters in format/, constraints in constraint/,
//     conversions in convert/ and row processing in engine/.
//   - Errors found in one row are collected into a RowError rather than
//     stopping at the first failure. Structure errors (column count,
//     fixed-width overflow) and binding errors are reported on their own.
//   - Uniqueness bookkeeping belongs to each reader or writer, never to the
//     cache.
//
// Typical usage:
//
//	b := dsl.Record()
//	b.Field("id").Position(1).Required().Unique()
//	b.Field("name").Position(2).Trim().LengthMax(20)
//	cache, err := dsl.Compile[Product](b)
//
//	r := engine.NewReader[Product](cache)
//	recs, skipped, err := r.ReadAll(rows, true)
package rowskema
