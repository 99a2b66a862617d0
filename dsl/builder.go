package dsl

import (
	"fmt"

	"github.com/reoring/rowskema"
	"github.com/reoring/rowskema/constraint"
	"github.com/reoring/rowskema/convert"
	"github.com/reoring/rowskema/fixedwidth"
)

// RecordBuilder collects field declarations for one record type.
type RecordBuilder struct {
	fields     []*FieldStep
	byName     map[string]*FieldStep
	validators []rowskema.RowValidator
	fixed      bool
	partial    rowskema.Partial
	errs       []error
}

// FieldStep declares one field. Its methods chain, and Field moves on to
// the next field.
type FieldStep struct {
	b           *RecordBuilder
	name        string
	label       string
	position    int
	formatter   rowskema.Formatter
	require     *constraint.Require
	constraints []constraintDecl
	readConv    []rowskema.NamedConversion
	writeConv   []rowskema.NamedConversion
	defaults    []string
	fixed       *fixedwidth.Column
	readOnly    bool
	writeOnly   bool
}

// constraintDecl defers constraint construction to compile time, when the
// field formatter and the providers are known.
type constraintDecl struct {
	name  string
	build func(bc buildContext) (rowskema.Constraint, error)
}

type buildContext struct {
	field     string
	formatter rowskema.Formatter
	providers *rowskema.Providers
}

// Record creates an empty record schema builder.
func Record() *RecordBuilder {
	return &RecordBuilder{byName: map[string]*FieldStep{}}
}

// Field declares a column bound to the named record field, or returns the
// existing declaration.
func (b *RecordBuilder) Field(name string) *FieldStep {
	if f, ok := b.byName[name]; ok {
		return f
	}
	f := &FieldStep{b: b, name: name}
	b.fields = append(b.fields, f)
	b.byName[name] = f
	return f
}

// FieldNames lists declared fields in declaration order.
func (b *RecordBuilder) FieldNames() []string {
	out := make([]string, len(b.fields))
	for i, f := range b.fields {
		out[i] = f.name
	}
	return out
}

// Fixed marks the schema as fixed-width. Every column then needs a size.
func (b *RecordBuilder) Fixed() *RecordBuilder {
	b.fixed = true
	return b
}

// Partial sets the gap policy for unmapped positions.
func (b *RecordBuilder) Partial(p rowskema.Partial) *RecordBuilder {
	b.partial = p
	return b
}

// Validate adds row validators. They run after every column, in order.
func (b *RecordBuilder) Validate(vs ...rowskema.RowValidator) *RecordBuilder {
	for _, v := range vs {
		if v != nil {
			b.validators = append(b.validators, v)
		}
	}
	return b
}

func (b *RecordBuilder) fail(field, format string, args ...any) {
	b.errs = append(b.errs, rowskema.SchemaError{Field: field, Code: rowskema.CodeSchemaInvalid, Message: fmt.Sprintf(format, args...)})
}

// Field continues with another field declaration.
func (f *FieldStep) Field(name string) *FieldStep { return f.b.Field(name) }

// Label sets the header text. It defaults to the field name.
func (f *FieldStep) Label(label string) *FieldStep {
	f.label = label
	return f
}

// Position sets the 1-based column position. Zero leaves it undetermined
// for header resolution.
func (f *FieldStep) Position(n int) *FieldStep {
	if n < 0 {
		f.b.fail(f.name, "position %d is negative", n)
		return f
	}
	f.position = n
	return f
}

// Format sets the formatter. Bind infers one from the field type otherwise.
func (f *FieldStep) Format(fm rowskema.Formatter) *FieldStep {
	f.formatter = fm
	return f
}

// Required rejects null cells and values. It always runs before any other
// constraint.
func (f *FieldStep) Required() *FieldStep {
	f.require = &constraint.Require{}
	return f
}

// RequiredText is Required that also rejects empty or blank text.
func (f *FieldStep) RequiredText(considerEmpty, considerBlank bool) *FieldStep {
	f.require = &constraint.Require{ConsiderEmpty: considerEmpty, ConsiderBlank: considerBlank}
	return f
}

// ReadOnly binds the field on read and writes an empty cell.
func (f *FieldStep) ReadOnly() *FieldStep {
	f.readOnly, f.writeOnly = true, false
	return f
}

// WriteOnly writes the field and ignores its column on read.
func (f *FieldStep) WriteOnly() *FieldStep {
	f.writeOnly, f.readOnly = true, false
	return f
}

// OnRead appends a conversion applied to raw text before parsing.
func (f *FieldStep) OnRead(name string, c rowskema.Conversion) *FieldStep {
	if c == nil {
		f.b.fail(f.name, "read conversion %q is nil", name)
		return f
	}
	f.readConv = append(f.readConv, rowskema.NamedConversion{Name: name, Conversion: c})
	return f
}

// OnWrite appends a conversion applied to printed text.
func (f *FieldStep) OnWrite(name string, c rowskema.Conversion) *FieldStep {
	if c == nil {
		f.b.fail(f.name, "write conversion %q is nil", name)
		return f
	}
	f.writeConv = append(f.writeConv, rowskema.NamedConversion{Name: name, Conversion: c})
	return f
}

// Convert appends a conversion on both sides.
func (f *FieldStep) Convert(name string, c rowskema.Conversion) *FieldStep {
	return f.OnRead(name, c).OnWrite(name, c)
}

// convertErr is Convert for constructors that validate their arguments.
func (f *FieldStep) convertErr(name string, c rowskema.Conversion, err error) *FieldStep {
	if err != nil {
		f.b.errs = append(f.b.errs, rowskema.SchemaError{Field: f.name, Code: rowskema.CodeSchemaInvalid, Message: name, Cause: err})
		return f
	}
	return f.Convert(name, c)
}

// Trim strips surrounding white space on read and write.
func (f *FieldStep) Trim() *FieldStep { return f.Convert("trim", convert.Trim()) }

// NullIf reads and writes any of words as null.
func (f *FieldStep) NullIf(ignoreCase bool, words ...string) *FieldStep {
	c, err := convert.NullConvert(ignoreCase, words...)
	return f.convertErr("null_convert", c, err)
}

// Default substitutes text for null cells. Compile rejects text the field
// formatter cannot parse.
func (f *FieldStep) Default(text string) *FieldStep {
	f.defaults = append(f.defaults, text)
	return f.Convert("default", convert.Default(text))
}

// FixedSize declares the fixed-width column. Writes are padded to the
// column size after every other write conversion; reads are trimmed of the
// pad character before every other read conversion, and a cell that is all
// padding reads as null.
func (f *FieldStep) FixedSize(col fixedwidth.Column) *FieldStep {
	if col.Size <= 0 {
		f.b.fail(f.name, "fixed size %d should be > 0", col.Size)
		return f
	}
	c := col
	f.fixed = &c
	return f
}

// fixedTrim strips padding and maps an all-padding cell to null.
func fixedTrim(col fixedwidth.Column) rowskema.Conversion {
	trim := convert.OneSideTrim(col.PadChar, col.RightAlign)
	return rowskema.ConversionFunc(func(v rowskema.NullString) rowskema.NullString {
		v = trim.Convert(v)
		if v.Valid && v.String == "" {
			return rowskema.Null
		}
		return v
	})
}
