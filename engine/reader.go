package engine

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/reoring/rowskema"
	"github.com/reoring/rowskema/fixedwidth"
	"github.com/reoring/rowskema/source"
)

// Reader converts rows into records of type T.
type Reader[T any] struct {
	cache *rowskema.SchemaCache
	fixed []fixedwidth.Column
	state *rowskema.UniquenessState
	cfg   config
	row   int
	phase Phase
}

// NewReader returns a reader over cache with its own uniqueness state.
func NewReader[T any](cache *rowskema.SchemaCache, opts ...Option) *Reader[T] {
	return &Reader[T]{
		cache: cache,
		fixed: cache.FixedColumns(),
		state: rowskema.NewUniquenessState(),
		cfg:   newConfig(opts),
	}
}

// Cache returns the schema cache.
func (r *Reader[T]) Cache() *rowskema.SchemaCache { return r.cache }

// Phase reports the stage of the last row processed.
func (r *Reader[T]) Phase() Phase { return r.phase }

// RowNumber returns the number of rows consumed, header included.
func (r *Reader[T]) RowNumber() int { return r.row }

// Read processes one row of column texts read from the given physical line.
// Empty text is treated as a null cell.
func (r *Reader[T]) Read(cols []string, line int) (T, error) {
	r.row++
	rc := &rowskema.RowContext{Line: line, Row: r.row, Raw: slices.Clone(cols)}
	return r.read(rc)
}

// ReadRow is Read for a source row; fixed-width rows are tokenized first.
func (r *Reader[T]) ReadRow(row source.Row) (T, error) {
	r.row++
	rc := &rowskema.RowContext{Line: row.Line, Row: r.row, Raw: row.Cols}
	if r.cache.FixedWidth() {
		cols, err := fixedwidth.Tokenize(row.Text, r.fixed)
		if err != nil {
			r.phase = PhaseFailed
			var zero T
			return zero, fixedError(rc, err)
		}
		rc.Raw = cols
	}
	return r.read(rc)
}

func (r *Reader[T]) read(rc *rowskema.RowContext) (T, error) {
	var zero T
	r.phase = PhaseColumns
	if len(rc.Raw) != r.cache.Len() {
		r.phase = PhaseFailed
		return zero, columnSizeError(rc, r.cache.Len(), len(rc.Raw))
	}

	rec := new(T)
	if cb, ok := any(rec).(BeforeReader); ok {
		cb.BeforeRead()
	}

	rowErr := &rowskema.RowError{Line: rc.Line, Row: rc.Row}
	values := make(map[string]any, r.cache.Len())
	parsed := make([]any, r.cache.Len())
	ok := make([]bool, r.cache.Len())
	for i := 0; i < r.cache.Len(); i++ {
		col := r.cache.Column(i)
		if col.SkipRead {
			continue
		}
		rc.Column = col.Mapping.Position
		raw := rc.Raw[i]
		cell := rowskema.Text(raw)
		if raw == "" {
			cell = rowskema.Null
		}
		cc := &rowskema.CellContext{
			Row:       rc,
			Field:     col.Mapping.Name,
			Label:     col.Mapping.Label,
			Formatter: col.Read.Formatter(),
			State:     r.state,
		}
		v, err := col.Read.Read(cc, cell)
		if err != nil {
			ve, recoverable := cellError(rc, col, col.Read, raw, err)
			if !recoverable {
				r.phase = PhaseFailed
				return zero, fmt.Errorf("row %d column %d: %w", rc.Row, rc.Column, err)
			}
			rowErr.Add(ve)
			values[col.Mapping.Name] = raw
			continue
		}
		values[col.Mapping.Name] = v
		parsed[i], ok[i] = v, true
	}
	rc.Column = 0

	r.phase = PhaseBinding
	for i := 0; i < r.cache.Len(); i++ {
		if !ok[i] {
			continue
		}
		col := r.cache.Column(i)
		if err := col.Accessor.Set(rec, parsed[i]); err != nil {
			r.phase = PhaseFailed
			return zero, &rowskema.BindingError{Field: col.Mapping.Name, Cause: err}
		}
	}

	r.phase = PhaseValidating
	validateRow(r.cache, rowskema.RowView{Context: *rc, Record: rec, Values: values, Errors: rowErr}, rowErr)

	if cb, ok := any(rec).(AfterReader); ok {
		cb.AfterRead(rowErr)
	}
	if rowErr.HasErrors() {
		r.phase = PhaseFailed
		return zero, rowErr
	}
	r.phase = PhaseDone
	return *rec, nil
}

// ReadHeader consumes the header row. With validate set, its size and
// labels must equal the schema headers.
func (r *Reader[T]) ReadHeader(src source.Rows, validate bool) ([]string, error) {
	row, err := src.Next()
	if err != nil {
		return nil, err
	}
	r.row++
	headers, err := headerCols(r.cache, row, r.row)
	if err != nil {
		return nil, err
	}
	if validate {
		if err := CheckHeader(r.cache.Headers(), headers, row.Line); err != nil {
			return headers, err
		}
	}
	return headers, nil
}

func headerCols(cache *rowskema.SchemaCache, row source.Row, rowNo int) ([]string, error) {
	if !cache.FixedWidth() {
		return row.Cols, nil
	}
	cols, err := fixedwidth.Tokenize(row.Text, cache.FixedColumns())
	if err != nil {
		return nil, fixedError(&rowskema.RowContext{Line: row.Line, Row: rowNo}, err)
	}
	for i, c := range cols {
		if i < len(cache.FixedColumns()) {
			f := cache.FixedColumns()[i]
			cols[i] = fixedwidth.Trim(c, f.PadChar, f.RightAlign)
		}
	}
	return cols, nil
}

// CheckHeader compares an observed header with the expected labels.
func CheckHeader(expected, actual []string, line int) error {
	if len(expected) != len(actual) {
		return &rowskema.HeaderMismatchError{Line: line, Code: rowskema.CodeHeaderSize, Expected: expected, Actual: actual}
	}
	if !slices.Equal(expected, actual) {
		return &rowskema.HeaderMismatchError{Line: line, Code: rowskema.CodeHeaderMismatch, Expected: expected, Actual: actual}
	}
	return nil
}

// Next reads one row from src.
func (r *Reader[T]) Next(src source.Rows) (T, rowskema.Status, error) {
	var zero T
	row, err := src.Next()
	if errors.Is(err, io.EOF) {
		return zero, rowskema.StatusEOF, nil
	}
	if err != nil {
		return zero, rowskema.StatusError, err
	}
	rec, err := r.ReadRow(row)
	if err != nil {
		return zero, rowskema.StatusError, err
	}
	return rec, rowskema.StatusSuccess, nil
}

// ReadAll reads every remaining row. With continueOnError, rows failing
// with a RowError or RowStructureError are skipped and their errors returned
// in order; otherwise the first failure aborts and no records are returned.
func (r *Reader[T]) ReadAll(src source.Rows, continueOnError bool) ([]T, []error, error) {
	var (
		out     []T
		skipped []error
	)
	for {
		rec, st, err := r.Next(src)
		switch st {
		case rowskema.StatusEOF:
			return out, skipped, nil
		case rowskema.StatusSuccess:
			out = append(out, rec)
			continue
		}
		if !continueOnError || !rowskema.IsRecoverable(err) {
			return nil, skipped, err
		}
		r.cfg.log.Debug().Err(err).Int("row", r.row).Msg("skipping row")
		skipped = append(skipped, err)
	}
}

// Each reads every remaining row, handing records to onSuccess and
// recoverable row errors to onError. A non-nil return from either handler
// stops the loop and is returned; other errors stop it too.
func (r *Reader[T]) Each(src source.Rows, onSuccess func(T) error, onError func(error) error) error {
	for {
		rec, st, err := r.Next(src)
		switch st {
		case rowskema.StatusEOF:
			return nil
		case rowskema.StatusSuccess:
			if onSuccess != nil {
				if err := onSuccess(rec); err != nil {
					return err
				}
			}
			continue
		}
		if !rowskema.IsRecoverable(err) || onError == nil {
			return err
		}
		if err := onError(err); err != nil {
			return err
		}
	}
}
