// Package format provides the bidirectional text <-> value converters bound
// into pipelines as their format step.
//
// Every formatter is immutable after construction and may be shared by
// readers and writers running on different goroutines.
package format
