package dsl

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/reoring/rowskema"
	"github.com/reoring/rowskema/convert"
	"github.com/reoring/rowskema/format"
	"github.com/reoring/rowskema/internal/mapping"
)

// Options configures compilation.
type Options struct {
	// SkipValidationOnWrite drops constraints from write pipelines.
	SkipValidationOnWrite bool
	// AssignUnmatched gives fields that a header did not resolve the lowest
	// unused positions. It is implied when resolving without a header.
	AssignUnmatched bool
	Providers       *rowskema.Providers
	Logger          zerolog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithProviders supplies the registry consulted by *From constraints.
func WithProviders(p *rowskema.Providers) Option { return func(o *Options) { o.Providers = p } }

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option { return func(o *Options) { o.Logger = l } }

// SkipValidationOnWrite compiles write pipelines without constraints.
func SkipValidationOnWrite() Option { return func(o *Options) { o.SkipValidationOnWrite = true } }

// AssignUnmatched lets CompileLazy place fields missing from the header.
func AssignUnmatched() Option { return func(o *Options) { o.AssignUnmatched = true } }

func newOptions(opts []Option) Options {
	o := Options{Logger: zerolog.Nop()}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// Compile binds b to T and compiles it with declared positions.
func Compile[T any](b *RecordBuilder, opts ...Option) (*rowskema.SchemaCache, error) {
	bd, err := Bind[T](b)
	if err != nil {
		return nil, err
	}
	return bd.Compile(opts...)
}

// CompileLazy binds b to T and compiles it against an observed header.
func CompileLazy[T any](b *RecordBuilder, headers []string, opts ...Option) (*rowskema.SchemaCache, error) {
	bd, err := Bind[T](b)
	if err != nil {
		return nil, err
	}
	return bd.CompileLazy(headers, opts...)
}

// Compile builds the schema cache from declared positions. Every field must
// have one.
func (bd *Binding[T]) Compile(opts ...Option) (*rowskema.SchemaCache, error) {
	o := newOptions(opts)
	return bd.compile(nil, mapping.Options{Partial: bd.partial, AssignUnmatched: o.AssignUnmatched}, o)
}

// CompileLazy builds the schema cache, taking undetermined positions from
// headers. With nil headers, undetermined fields take the lowest unused
// positions in declaration order.
func (bd *Binding[T]) CompileLazy(headers []string, opts ...Option) (*rowskema.SchemaCache, error) {
	o := newOptions(opts)
	mo := mapping.Options{Partial: bd.partial, AssignUnmatched: o.AssignUnmatched || headers == nil}
	cache, err := bd.compile(headers, mo, o)
	if err != nil {
		return nil, err
	}
	o.Logger.Debug().
		Strs("headers", headers).
		Strs("columns", cache.Headers()).
		Msg("resolved column positions")
	return cache, nil
}

func (bd *Binding[T]) compile(headers []string, mo mapping.Options, o Options) (*rowskema.SchemaCache, error) {
	var errs rowskema.SchemaErrors
	specs := make([]rowskema.FieldSpec, len(bd.specs))
	for i, spec := range bd.specs {
		st := bd.steps[i]
		spec.Constraints = nil
		if st.require != nil {
			spec.Constraints = append(spec.Constraints, rowskema.NamedConstraint{Name: "required", Constraint: *st.require})
		}
		for _, text := range st.defaults {
			if _, err := spec.Formatter.Parse(text); err != nil {
				errs = append(errs, rowskema.SchemaError{
					Field:   spec.Name,
					Code:    rowskema.CodeSchemaInvalid,
					Message: fmt.Sprintf("default %q does not parse as %s", text, spec.Formatter.Type()),
					Cause:   err,
				})
			}
		}
		bc := buildContext{field: spec.Name, formatter: spec.Formatter, providers: o.Providers}
		for _, d := range st.constraints {
			c, err := d.build(bc)
			if err != nil {
				errs = append(errs, constraintError(spec.Name, d.name, err))
				continue
			}
			spec.Constraints = append(spec.Constraints, rowskema.NamedConstraint{Name: d.name, Constraint: c})
		}
		spec.ReadConversions = append([]rowskema.NamedConversion(nil), st.readConv...)
		spec.WriteConversions = append([]rowskema.NamedConversion(nil), st.writeConv...)
		specs[i] = spec
	}

	cols, err := mapping.Resolve(specs, headers, mo)
	if err != nil {
		errs = rowskema.AppendSchemaErrors(errs, err)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	compiled := make([]rowskema.CompiledColumn, 0, len(cols))
	for _, m := range cols {
		if bd.fixed && m.Fixed == nil {
			errs = append(errs, rowskema.SchemaError{
				Field:   m.Name,
				Code:    rowskema.CodeSchemaInvalid,
				Message: fmt.Sprintf("fixed-width column %d (%s) has no size", m.Position, m.Label),
			})
			continue
		}
		var spec rowskema.FieldSpec
		if m.Anonymous() {
			spec = rowskema.FieldSpec{Label: m.Label, Formatter: format.Text{}, Fixed: m.Fixed}
		} else {
			spec = specs[m.Field]
		}
		col, err := compileColumn(m, spec, o)
		if err != nil {
			errs = rowskema.AppendSchemaErrors(errs, err)
			continue
		}
		compiled = append(compiled, col)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return rowskema.NewSchemaCache(compiled, rowskema.CacheOptions{
		FixedWidth:    bd.fixed,
		RowValidators: bd.validators,
	}), nil
}

func compileColumn(m rowskema.ColumnMapping, spec rowskema.FieldSpec, o Options) (rowskema.CompiledColumn, error) {
	var read, write []rowskema.Step
	if spec.Fixed != nil {
		read = append(read, rowskema.ConvertStep("fixed_trim", fixedTrim(*spec.Fixed)))
	}
	for _, c := range spec.ReadConversions {
		read = append(read, rowskema.ConvertStep(c.Name, c.Conversion))
	}
	read = append(read, rowskema.FormatStep(spec.Formatter))
	for _, c := range spec.Constraints {
		read = append(read, rowskema.ConstraintStep(c.Name, c.Constraint))
	}

	if !o.SkipValidationOnWrite {
		for _, c := range spec.Constraints {
			write = append(write, rowskema.ConstraintStep(c.Name, c.Constraint))
		}
	}
	write = append(write, rowskema.FormatStep(spec.Formatter))
	for _, c := range spec.WriteConversions {
		write = append(write, rowskema.ConvertStep(c.Name, c.Conversion))
	}
	if spec.Fixed != nil {
		pad, err := convert.MultiPad(*spec.Fixed)
		if err != nil {
			return rowskema.CompiledColumn{}, rowskema.SchemaError{Field: spec.Name, Code: rowskema.CodeSchemaInvalid, Message: "fixed size", Cause: err}
		}
		write = append(write, rowskema.ConvertStep("fixed_pad", pad))
	}

	rp, err := rowskema.NewPipeline(rowskema.Read, read...)
	if err != nil {
		return rowskema.CompiledColumn{}, withField(err, spec.Name)
	}
	wp, err := rowskema.NewPipeline(rowskema.Write, write...)
	if err != nil {
		return rowskema.CompiledColumn{}, withField(err, spec.Name)
	}
	return rowskema.CompiledColumn{
		Mapping:   m,
		Read:      rp,
		Write:     wp,
		Accessor:  spec.Accessor,
		SkipRead:  m.Anonymous() || spec.WriteOnly,
		SkipWrite: m.Anonymous() || spec.ReadOnly,
	}, nil
}

func constraintError(field, name string, err error) rowskema.SchemaError {
	var se rowskema.SchemaError
	if errors.As(err, &se) {
		if se.Field == "" {
			se.Field = field
		}
		return se
	}
	return rowskema.SchemaError{Field: field, Code: rowskema.CodeSchemaInvalid, Message: fmt.Sprintf("constraint %s: %v", name, err), Cause: err}
}

func withField(err error, field string) error {
	var se rowskema.SchemaError
	if errors.As(err, &se) {
		se.Field = field
		return se
	}
	return err
}
