package engine

import (
	"fmt"

	"github.com/reoring/rowskema"
	"github.com/reoring/rowskema/fixedwidth"
	"github.com/reoring/rowskema/source"
)

// Writer converts records of type T into rows.
type Writer[T any] struct {
	cache *rowskema.SchemaCache
	fixed []fixedwidth.Column
	state *rowskema.UniquenessState
	cfg   config
	row   int
	phase Phase
}

// NewWriter returns a writer over cache with its own uniqueness state.
func NewWriter[T any](cache *rowskema.SchemaCache, opts ...Option) *Writer[T] {
	return &Writer[T]{
		cache: cache,
		fixed: cache.FixedColumns(),
		state: rowskema.NewUniquenessState(),
		cfg:   newConfig(opts),
	}
}

// Cache returns the schema cache.
func (w *Writer[T]) Cache() *rowskema.SchemaCache { return w.cache }

// Phase reports the stage of the last record processed.
func (w *Writer[T]) Phase() Phase { return w.phase }

// Header returns the header row. Fixed-width labels are padded to their
// columns.
func (w *Writer[T]) Header() (source.Row, error) {
	w.row++
	cols := w.cache.Headers()
	row := source.Row{Line: w.row, Cols: cols}
	if !w.cache.FixedWidth() {
		return row, nil
	}
	padded := make([]string, len(cols))
	for i, c := range cols {
		padded[i] = fixedwidth.Pad(c, w.fixed[i])
	}
	text, err := fixedwidth.Encode(w.fixed, padded)
	if err != nil {
		return source.Row{}, fixedError(&rowskema.RowContext{Line: w.row, Row: w.row}, err)
	}
	row.Cols, row.Text = padded, text
	return row, nil
}

// WriteHeader writes the header row to sink.
func (w *Writer[T]) WriteHeader(sink source.Sink) error {
	row, err := w.Header()
	if err != nil {
		return err
	}
	return sink.WriteRow(row)
}

// Write converts one record into a row. Column failures are collected into a
// *rowskema.RowError; a fixed-width overflow is a *rowskema.RowStructureError.
func (w *Writer[T]) Write(rec T) (source.Row, error) {
	w.row++
	rc := &rowskema.RowContext{Line: w.row, Row: w.row}
	p := &rec
	if cb, ok := any(p).(BeforeWriter); ok {
		cb.BeforeWrite()
	}

	w.phase = PhaseColumns
	rowErr := &rowskema.RowError{Line: rc.Line, Row: rc.Row}
	cols := make([]string, w.cache.Len())
	values := make(map[string]any, w.cache.Len())
	for i := 0; i < w.cache.Len(); i++ {
		col := w.cache.Column(i)
		rc.Column = col.Mapping.Position
		if col.SkipWrite {
			cols[i] = w.blank(i)
			continue
		}
		v, err := col.Accessor.Get(p)
		if err != nil {
			w.phase = PhaseFailed
			return source.Row{}, &rowskema.BindingError{Field: col.Mapping.Name, Cause: err}
		}
		values[col.Mapping.Name] = v
		cc := &rowskema.CellContext{
			Row:       rc,
			Field:     col.Mapping.Name,
			Label:     col.Mapping.Label,
			Formatter: col.Write.Formatter(),
			State:     w.state,
		}
		out, err := col.Write.Write(cc, v)
		if err != nil {
			ve, recoverable := cellError(rc, col, col.Write, v, err)
			if !recoverable {
				w.phase = PhaseFailed
				return source.Row{}, fmt.Errorf("row %d column %d: %w", rc.Row, rc.Column, err)
			}
			rowErr.Add(ve)
			continue
		}
		cols[i] = out.String
	}
	rc.Column = 0
	rc.Raw = cols

	w.phase = PhaseValidating
	validateRow(w.cache, rowskema.RowView{Context: *rc, Record: p, Values: values, Errors: rowErr}, rowErr)
	if cb, ok := any(p).(AfterWriter); ok {
		cb.AfterWrite(rowErr)
	}
	if rowErr.HasErrors() {
		w.phase = PhaseFailed
		return source.Row{}, rowErr
	}

	row := source.Row{Line: rc.Line, Cols: cols}
	if w.cache.FixedWidth() {
		text, err := fixedwidth.Encode(w.fixed, cols)
		if err != nil {
			w.phase = PhaseFailed
			return source.Row{}, fixedError(rc, err)
		}
		row.Text = text
	}
	w.phase = PhaseDone
	return row, nil
}

func (w *Writer[T]) blank(i int) string {
	if !w.cache.FixedWidth() {
		return ""
	}
	return fixedwidth.Pad("", w.fixed[i])
}

// WriteAll writes every record to sink and flushes it. With continueOnError,
// records failing with a row error are skipped and their errors returned in
// order; otherwise the first failure stops the batch. Rows already handed to
// the sink stay written.
func (w *Writer[T]) WriteAll(sink source.Sink, recs []T, continueOnError bool) ([]error, error) {
	var skipped []error
	for _, rec := range recs {
		row, err := w.Write(rec)
		if err != nil {
			if !continueOnError || !rowskema.IsRecoverable(err) {
				return skipped, err
			}
			w.cfg.log.Debug().Err(err).Int("row", w.row).Msg("skipping record")
			skipped = append(skipped, err)
			continue
		}
		if err := sink.WriteRow(row); err != nil {
			return skipped, err
		}
	}
	return skipped, sink.Flush()
}
