package rowskema

import "github.com/reoring/rowskema/fixedwidth"

// Direction selects the pipeline flavour.
type Direction uint8

const (
	Read  Direction = iota // Text to typed value.
	Write                  // Typed value to text.
)

func (d Direction) String() string {
	if d == Write {
		return "write"
	}
	return "read"
}

// Status is the outcome of pulling one row from a stream.
type Status int

const (
	StatusEOF     Status = iota // No more rows.
	StatusSuccess               // A record was produced.
	StatusError                 // The row failed; the error describes why.
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "eof"
	}
}

// PartialPolicy controls how gaps between mapped positions are handled.
type PartialPolicy int

const (
	PartialNone      PartialPolicy = iota // Gaps are a schema error.
	PartialAnonymous                      // Gaps become anonymous text columns.
)

// Partial configures partial mapping. Size, when positive, pads the schema
// with anonymous columns up to that many columns.
type Partial struct {
	Policy PartialPolicy
	Size   int
	// Labels optionally names anonymous columns by position.
	Labels map[int]string
	// Columns declares the width of anonymous columns in fixed-width
	// schemas, by position.
	Columns map[int]fixedwidth.Column
}
