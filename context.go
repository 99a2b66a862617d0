package rowskema

// RowContext describes the row being processed. It is created per row and
// discarded when the row completes.
type RowContext struct {
	Line   int      // Physical line number of the row.
	Row    int      // Logical row number (header included).
	Column int      // Column currently processed (1-based).
	Raw    []string // Raw column snapshot.
}

// Position returns the row position for uniqueness bookkeeping.
func (rc *RowContext) Position() Position {
	if rc == nil {
		return Position{}
	}
	return Position{Line: rc.Line, Row: rc.Row}
}

// CellContext is handed to each constraint.
type CellContext struct {
	Row       *RowContext
	Field     string
	Label     string
	Formatter Formatter
	// State is owned by the reader or writer instance; nil disables uniqueness checks.
	State *UniquenessState
}

// RowView is what row validators see.
type RowView struct {
	Context RowContext
	// Record is a pointer to the record being populated.
	Record any
	// Values holds each field's typed value, or the raw text for failed columns.
	Values map[string]any
	Errors *RowError
}

// Value returns the processed value of a field.
func (v RowView) Value(field string) (any, bool) {
	x, ok := v.Values[field]
	return x, ok
}

// HasFieldErrors reports whether a column error was recorded for field.
func (v RowView) HasFieldErrors(field string) bool { return v.Errors.HasFieldErrors(field) }
