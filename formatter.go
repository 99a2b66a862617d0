package rowskema

import "reflect"

// Formatter converts between cell text and a typed value.
// Implementations must be immutable and safe for concurrent use.
type Formatter interface {
	// Parse converts text. Malformed text yields a *ParseError, never a default.
	Parse(text string) (any, error)
	// Print converts a value back to text. A nil value yields ErrNilValue.
	Print(v any) (string, error)
	// Type reports the Go type produced by Parse.
	Type() reflect.Type
}

// Constraint accepts or rejects a typed value. A rejection is returned as a
// *ConstraintViolation.
type Constraint interface {
	Check(cc *CellContext, v any) error
}

// NilChecker is implemented by constraints that must see nil values.
// Every other constraint is skipped when the value is nil.
type NilChecker interface {
	CheckNil() bool
}

// Conversion rewrites cell text. Read-side conversions run before parsing,
// write-side conversions after printing.
type Conversion interface {
	Convert(v NullString) NullString
}

// ConversionFunc adapts a function to Conversion.
type ConversionFunc func(v NullString) NullString

func (f ConversionFunc) Convert(v NullString) NullString { return f(v) }

// NullString is cell text that may be null.
type NullString struct {
	String string
	Valid  bool // Valid is true if String is not null.
}

// Text returns a valid NullString.
func Text(s string) NullString { return NullString{String: s, Valid: true} }

// Null is the null cell.
var Null = NullString{}

// RowValidator checks a whole row after its columns were processed. It runs
// even when columns already failed.
type RowValidator interface {
	ValidateRow(view RowView) []ValidationError
}

// RowValidatorFunc adapts a function to RowValidator.
type RowValidatorFunc func(view RowView) []ValidationError

func (f RowValidatorFunc) ValidateRow(view RowView) []ValidationError { return f(view) }

// MessageResolver renders a message code with substitution variables.
type MessageResolver interface {
	Resolve(code string, vars map[string]any) string
}
