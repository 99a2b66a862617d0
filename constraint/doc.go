// Package constraint holds the validators attached to pipelines after the
// format step. Each one checks a typed value and reports a
// *rowskema.ConstraintViolation carrying a message code and variables.
//
// Constraints are immutable; per-stream bookkeeping such as uniqueness lives
// in the rowskema.UniquenessState reached through the cell context.
package constraint
