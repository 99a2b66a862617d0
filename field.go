package rowskema

import "github.com/reoring/rowskema/fixedwidth"

// FieldSpec is the resolved declaration of one mapped record field.
// It is immutable once a SchemaCache has been built from it.
type FieldSpec struct {
	Name     string
	Label    string
	Position int // 1-based; 0 while undetermined.
	Required bool
	// ReadOnly fields are bound on read and written as empty cells.
	// WriteOnly fields are written but never bound on read.
	ReadOnly  bool
	WriteOnly bool
	// Formatter converts between cell text and the field type.
	Formatter Formatter
	// Constraints in declaration order.
	Constraints []NamedConstraint
	// ReadConversions run before parsing, WriteConversions after printing.
	ReadConversions  []NamedConversion
	WriteConversions []NamedConversion
	// Fixed is set for fixed-width columns.
	Fixed *fixedwidth.Column
	// Accessor reads and writes the field on a record pointer.
	Accessor Accessor
}

// DisplayLabel returns Label, or Name when no label was declared.
func (f *FieldSpec) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// NamedConstraint is a constraint with the name used in step listings.
type NamedConstraint struct {
	Name       string
	Constraint Constraint
}

// NamedConversion is a conversion with the name used in step listings.
type NamedConversion struct {
	Name       string
	Conversion Conversion
}

// Accessor gets and sets one field on a record pointer. Both are resolved
// once when the schema is bound, never per row.
type Accessor struct {
	Get func(rec any) (any, error)
	Set func(rec any, v any) error
}

// ColumnMapping is the resolved position of one column.
type ColumnMapping struct {
	Position int
	Name     string // Field name; empty for anonymous partial columns.
	Label    string
	Fixed    *fixedwidth.Column
	// Field indexes the FieldSpec slice the cache was built from; -1 for
	// anonymous partial columns.
	Field int
}

// Anonymous reports whether the column is an unmapped partial column.
func (c ColumnMapping) Anonymous() bool { return c.Field < 0 }
