// Package dsl declares record schemas and compiles them into a
// rowskema.SchemaCache.
//
// Overview
//   - Builder API: declare columns with Record().Field(name) and chain
//     Label/Position/Format/Required plus conversions and constraints.
//   - Binding: Bind[T] resolves struct accessors once by csv tag or field
//     name; BindMap targets map[string]any records; Infer[T] derives a
//     builder from struct tags alone.
//   - Compile: Compile resolves declared positions; CompileLazy resolves
//     them from an observed header row.
//
// Quickstart
//
//	type User struct {
//		ID   int    `csv:"id"`
//		Name string `csv:"name"`
//	}
//
//	b := dsl.Record()
//	b.Field("id").Position(1).Required().Unique()
//	b.Field("name").Position(2).LengthMax(20)
//	cache, err := dsl.Compile[User](b)
//
// # Pipelines
//
// Each column is compiled into a read pipeline (read conversions, format,
// Required, constraints) and a write pipeline (constraints, format, write
// conversions). Constraint bounds are declared as text and parsed through
// the column formatter at compile time, so a bound is always in the same
// type as the values it is compared with.
//
// # Errors
//
// Compile aggregates every problem into rowskema.SchemaErrors instead of
// stopping at the first one.
package dsl
