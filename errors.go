package rowskema

import (
	"errors"
	"fmt"
	"strings"
)

// Message codes carried by validation errors and structure errors.
const (
	CodeRequired      = "required"
	CodeTypeMismatch  = "type_mismatch"
	CodeUnique        = "unique"
	CodeUniqueHash    = "unique_hash"
	CodeEquals        = "equals"
	CodePattern       = "pattern"
	CodeLengthMin     = "length_min"
	CodeLengthMax     = "length_max"
	CodeLengthBetween = "length_between"
	CodeLengthExact   = "length_exact"
	CodeNumberMin     = "number_min"
	CodeNumberMax     = "number_max"
	CodeNumberRange   = "number_range"
	CodeDateTimeMin   = "datetime_min"
	CodeDateTimeMax   = "datetime_max"
	CodeDateTimeRange = "datetime_range"
	CodeWordForbid    = "word_forbid"
	CodeWordRequire   = "word_require"
	CodeRowRule       = "row_rule"
	// Row structure (fatal for the row, never aggregated)
	CodeColumnSize            = "column_size"
	CodeFixedSizeInsufficient = "fixed_size_insufficient"
	CodeFixedSizeOver         = "fixed_size_over"
	CodeFixedSizeLineBreak    = "fixed_size_line_break"
	// Header
	CodeHeaderSize     = "header_size"
	CodeHeaderMismatch = "header_mismatch"
	// Schema build
	CodeSchemaInvalid     = "schema_invalid"
	CodeDuplicatePosition = "duplicate_position"
	CodeMissingPosition   = "missing_position"
	CodeProviderMissing   = "provider_missing"
	CodeBinding           = "binding"
)

var (
	// ErrNilValue is returned by Formatter.Print for a nil value.
	ErrNilValue = errors.New("rowskema: cannot print a nil value")
	// ErrNotInitialized is returned when a lazy reader is used before its header is known.
	ErrNotInitialized = errors.New("rowskema: reader is not initialized with a header")
)

// ValidationError is a single positioned problem found while processing a row.
type ValidationError struct {
	Line   int    // Physical line number (1-based, 0 when unknown).
	Row    int    // Logical row number (1-based, header included).
	Column int    // 1-based column; 0 for row-level errors.
	Label  string // Column label (header text).
	Field  string // Field name; empty for row-level errors not tied to a field.
	Code   string // One of the codes listed above, or a caller-defined code.
	// Vars carries substitution variables for message rendering
	// (e.g., {"min":1, "max":10}).
	Vars map[string]any
	// Rejected is the raw value that failed.
	Rejected any
	// Printer optionally formats typed vars (bounds) the way the field prints them.
	Printer Formatter
	// Message overrides catalogue lookup when non-empty.
	Message string
	Cause   error
}

func (e ValidationError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("%s at %d:%d", e.Code, e.Line, e.Column)
	}
	return fmt.Sprintf("%s at %d", e.Code, e.Line)
}

// RowError aggregates every ValidationError found in one row.
type RowError struct {
	Line   int
	Row    int
	Errors []ValidationError
}

// Error summarizes the first few errors.
func (e *RowError) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(e.Errors)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.Errors[i].Error())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Add appends errors, filling in the row position when missing.
func (e *RowError) Add(errs ...ValidationError) {
	for _, ve := range errs {
		if ve.Line == 0 {
			ve.Line = e.Line
		}
		if ve.Row == 0 {
			ve.Row = e.Row
		}
		e.Errors = append(e.Errors, ve)
	}
}

// HasErrors reports whether any error was recorded.
func (e *RowError) HasErrors() bool { return e != nil && len(e.Errors) > 0 }

// HasFieldErrors reports whether the named field has a recorded error.
func (e *RowError) HasFieldErrors(field string) bool {
	if e == nil {
		return false
	}
	for _, ve := range e.Errors {
		if ve.Field == field && ve.Column > 0 {
			return true
		}
	}
	return false
}

// FieldErrors returns the errors recorded for the named field.
func (e *RowError) FieldErrors(field string) []ValidationError {
	if e == nil {
		return nil
	}
	var out []ValidationError
	for _, ve := range e.Errors {
		if ve.Field == field {
			out = append(out, ve)
		}
	}
	return out
}

// ParseError reports text that a Formatter could not convert.
type ParseError struct {
	Text  string
	Type  string // Target type name.
	Vars  map[string]any
	Cause error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot parse %q as %s: %v", e.Text, e.Type, e.Cause)
	}
	return fmt.Sprintf("cannot parse %q as %s", e.Text, e.Type)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// ConstraintViolation reports a value that converted but failed a rule.
type ConstraintViolation struct {
	Code string
	Vars map[string]any
}

func (e *ConstraintViolation) Error() string { return "constraint violated: " + e.Code }

// Violation builds a ConstraintViolation from alternating key/value pairs.
func Violation(code string, kv ...any) *ConstraintViolation {
	vars := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			vars[k] = kv[i+1]
		}
	}
	return &ConstraintViolation{Code: code, Vars: vars}
}

// RowStructureError reports a row whose shape is wrong (column count,
// fixed-width under/overflow, embedded line break). It is fatal for the row.
type RowStructureError struct {
	Line   int
	Row    int
	Column int // 0 when the whole row is affected.
	Code   string
	Vars   map[string]any
	Cause  error
}

func (e *RowStructureError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("row structure: %s at %d:%d", e.Code, e.Line, e.Column)
	}
	return fmt.Sprintf("row structure: %s at %d", e.Code, e.Line)
}

func (e *RowStructureError) Unwrap() error { return e.Cause }

// HeaderMismatchError reports a header row that does not match the schema.
type HeaderMismatchError struct {
	Line     int
	Code     string
	Expected []string
	Actual   []string
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("header: %s (expected [%s], got [%s])", e.Code,
		strings.Join(e.Expected, ", "), strings.Join(e.Actual, ", "))
}

// Vars returns the substitution variables used by message rendering.
func (e *HeaderMismatchError) Vars() map[string]any {
	return map[string]any{
		"lineNumber":            e.Line,
		"expectedHeaders":       e.Expected,
		"actualHeaders":         e.Actual,
		"expectedSize":          len(e.Expected),
		"actualSize":            len(e.Actual),
		"joinedExpectedHeaders": strings.Join(e.Expected, ", "),
		"joinedActualHeaders":   strings.Join(e.Actual, ", "),
	}
}

// BindingError reports a record field that cannot be read or written. It
// indicates a schema or caller bug and is never continuable.
type BindingError struct {
	Field string
	Cause error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("binding field %q: %v", e.Field, e.Cause)
}

func (e *BindingError) Unwrap() error { return e.Cause }

// SchemaError reports a contradictory or invalid declaration.
type SchemaError struct {
	Field   string
	Code    string
	Message string
	Cause   error
}

func (e SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("schema: field %q: %s: %s", e.Field, e.Code, e.Message)
}

func (e SchemaError) Unwrap() error { return e.Cause }

// SchemaErrors is a collection of build-time errors that implements error.
type SchemaErrors []SchemaError

func (es SchemaErrors) Error() string {
	if len(es) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(es), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(es[i].Error())
	}
	if len(es) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(es))
	}
	return b.String()
}

// AppendSchemaErrors appends errors, flattening nested SchemaErrors.
func AppendSchemaErrors(dst SchemaErrors, errs ...error) SchemaErrors {
	for _, err := range errs {
		if err == nil {
			continue
		}
		var many SchemaErrors
		if errors.As(err, &many) {
			dst = append(dst, many...)
			continue
		}
		var one SchemaError
		if errors.As(err, &one) {
			dst = append(dst, one)
			continue
		}
		dst = append(dst, SchemaError{Code: CodeSchemaInvalid, Message: err.Error(), Cause: err})
	}
	return dst
}

// ErrOrNil returns nil for an empty collection.
func (es SchemaErrors) ErrOrNil() error {
	if len(es) == 0 {
		return nil
	}
	return es
}

// AsRowError extracts a RowError using errors.As.
func AsRowError(err error) (*RowError, bool) {
	var re *RowError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// AsRowStructureError extracts a RowStructureError using errors.As.
func AsRowStructureError(err error) (*RowStructureError, bool) {
	var se *RowStructureError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AsSchemaErrors extracts SchemaErrors (a single SchemaError is wrapped).
func AsSchemaErrors(err error) (SchemaErrors, bool) {
	if err == nil {
		return nil, false
	}
	var many SchemaErrors
	if errors.As(err, &many) {
		return many, true
	}
	var one SchemaError
	if errors.As(err, &one) {
		return SchemaErrors{one}, true
	}
	return nil, false
}

// IsRecoverable reports whether err is a per-row error that a batch running
// with continue-on-error may skip.
func IsRecoverable(err error) bool {
	var re *RowError
	if errors.As(err, &re) {
		return true
	}
	var se *RowStructureError
	return errors.As(err, &se)
}
