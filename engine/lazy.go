package engine

import (
	"github.com/reoring/rowskema"
	"github.com/reoring/rowskema/dsl"
	"github.com/reoring/rowskema/source"
)

// LazyReader is a Reader whose column positions are taken from the header
// row observed at run time.
type LazyReader[T any] struct {
	bd          *dsl.Binding[T]
	compileOpts []dsl.Option
	opts        []Option
	reader      *Reader[T]
}

// NewLazyReader returns an uninitialized reader; call Init or InitFrom
// before reading.
func NewLazyReader[T any](bd *dsl.Binding[T], compileOpts []dsl.Option, opts ...Option) *LazyReader[T] {
	return &LazyReader[T]{bd: bd, compileOpts: compileOpts, opts: opts}
}

// Init resolves positions against headers and compiles the schema. The
// header must have exactly as many columns as the resolved schema.
func (l *LazyReader[T]) Init(headers []string) error {
	if headers == nil {
		headers = []string{}
	}
	cache, err := l.bd.CompileLazy(headers, l.compileOpts...)
	if err != nil {
		return err
	}
	if cache.Len() != len(headers) {
		return &rowskema.HeaderMismatchError{Code: rowskema.CodeHeaderSize, Expected: cache.Headers(), Actual: headers}
	}
	l.reader = NewReader[T](cache, l.opts...)
	l.reader.row = 1
	return nil
}

// InitFrom reads the header row from src and calls Init.
func (l *LazyReader[T]) InitFrom(src source.Rows) error {
	row, err := src.Next()
	if err != nil {
		return err
	}
	if l.bd.FixedWidth() {
		return rowskema.SchemaError{Code: rowskema.CodeSchemaInvalid, Message: "fixed-width records need declared positions"}
	}
	if err := l.Init(row.Cols); err != nil {
		if hm, ok := err.(*rowskema.HeaderMismatchError); ok {
			hm.Line = row.Line
		}
		return err
	}
	return nil
}

// Initialized reports whether the header has been resolved.
func (l *LazyReader[T]) Initialized() bool { return l.reader != nil }

// Cache returns the compiled schema, or nil before Init.
func (l *LazyReader[T]) Cache() *rowskema.SchemaCache {
	if l.reader == nil {
		return nil
	}
	return l.reader.Cache()
}

// Read processes one row of column texts.
func (l *LazyReader[T]) Read(cols []string, line int) (T, error) {
	if l.reader == nil {
		var zero T
		return zero, rowskema.ErrNotInitialized
	}
	return l.reader.Read(cols, line)
}

// Next reads one row from src.
func (l *LazyReader[T]) Next(src source.Rows) (T, rowskema.Status, error) {
	if l.reader == nil {
		var zero T
		return zero, rowskema.StatusError, rowskema.ErrNotInitialized
	}
	return l.reader.Next(src)
}

// ReadAll reads every remaining row; see Reader.ReadAll.
func (l *LazyReader[T]) ReadAll(src source.Rows, continueOnError bool) ([]T, []error, error) {
	if l.reader == nil {
		return nil, nil, rowskema.ErrNotInitialized
	}
	return l.reader.ReadAll(src, continueOnError)
}
