// Package engine runs compiled schemas over rows.
//
// A Reader turns column texts into records and a Writer turns records into
// column texts. Each instance owns its uniqueness bookkeeping and must be
// used from one goroutine; any number of instances may share one
// rowskema.SchemaCache.
//
// Per row, every column is processed before any error is returned, so a
// single *rowskema.RowError lists every problem in the row. Structural
// problems (column count, fixed-width widths) are reported as
// *rowskema.RowStructureError before any column runs, and accessor failures
// as *rowskema.BindingError; neither is aggregated.
package engine
