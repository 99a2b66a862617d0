package fixedwidth

import "fmt"

// InsufficientWidthError reports a line that ended before a column reached
// its declared size.
type InsufficientWidthError struct {
	Column       int // 1-based
	DeclaredSize int
	ActualSize   int
}

func (e *InsufficientWidthError) Error() string {
	return fmt.Sprintf("fixedwidth: column %d needs width %d, line provides %d", e.Column, e.DeclaredSize, e.ActualSize)
}

// OverflowError reports a value wider than its column.
type OverflowError struct {
	Column       int
	DeclaredSize int
	ActualSize   int
	Value        string
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("fixedwidth: column %d value width %d exceeds %d", e.Column, e.ActualSize, e.DeclaredSize)
}

// LineBreakError reports a value containing CR or LF.
type LineBreakError struct {
	Column int
	Value  string
}

func (e *LineBreakError) Error() string {
	return fmt.Sprintf("fixedwidth: column %d value contains a line break", e.Column)
}
