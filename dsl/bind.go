package dsl

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"

	"github.com/reoring/rowskema"
	"github.com/reoring/rowskema/format"
)

// Binding is a record schema bound to the record type T. Accessors and
// formatters are resolved once here; Compile only assembles pipelines.
type Binding[T any] struct {
	specs      []rowskema.FieldSpec
	steps      []*FieldStep
	fixed      bool
	partial    rowskema.Partial
	validators []rowskema.RowValidator
}

var mapType = reflect.TypeFor[map[string]any]()

// Bind resolves every declared field against T. T is a struct, matched by
// csv tag label or Go field name, or map[string]any.
func Bind[T any](b *RecordBuilder) (*Binding[T], error) {
	errs := rowskema.AppendSchemaErrors(nil, b.errs...)
	rt := reflect.TypeFor[T]()
	var resolve func(f *FieldStep) (rowskema.FieldSpec, error)
	switch {
	case rt == mapType:
		resolve = mapField
	case rt.Kind() == reflect.Struct:
		idx := indexStruct(rt)
		resolve = func(f *FieldStep) (rowskema.FieldSpec, error) { return structField(rt, idx, f) }
	default:
		return nil, append(errs, rowskema.SchemaError{Code: rowskema.CodeBinding, Message: fmt.Sprintf("cannot bind %s: need a struct or map[string]any", rt)})
	}
	bd := &Binding[T]{
		fixed:      b.fixed,
		partial:    b.partial,
		validators: append([]rowskema.RowValidator(nil), b.validators...),
	}
	for _, f := range b.fields {
		spec, err := resolve(f)
		if err != nil {
			errs = rowskema.AppendSchemaErrors(errs, err)
			continue
		}
		bd.specs = append(bd.specs, spec)
		bd.steps = append(bd.steps, f)
	}
	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return bd, nil
}

// MustBind is like Bind but panics on error.
func MustBind[T any](b *RecordBuilder) *Binding[T] {
	bd, err := Bind[T](b)
	if err != nil {
		panic(err)
	}
	return bd
}

// BindMap binds to map[string]any records keyed by field name.
func BindMap(b *RecordBuilder) (*Binding[map[string]any], error) {
	return Bind[map[string]any](b)
}

// Fields returns the resolved field declarations, without pipelines.
func (bd *Binding[T]) Fields() []rowskema.FieldSpec {
	return append([]rowskema.FieldSpec(nil), bd.specs...)
}

// FixedWidth reports whether the record maps fixed-width lines.
func (bd *Binding[T]) FixedWidth() bool { return bd.fixed }

// Infer derives a builder from struct T: one column per exported field not
// tagged csv:"-". Positions come from pos=N tag options; fields without one
// are resolved from a header.
func Infer[T any]() *RecordBuilder {
	b := Record()
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		b.errs = append(b.errs, rowskema.SchemaError{Code: rowskema.CodeBinding, Message: fmt.Sprintf("cannot infer columns from %s", rt)})
		return b
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		label, pos := rowskema.ResolveColumnKey(sf)
		if label == "-" {
			continue
		}
		b.Field(label).Position(pos)
	}
	return b
}

type structIndex struct {
	byLabel map[string]int
	byName  map[string]int
}

func indexStruct(rt reflect.Type) structIndex {
	idx := structIndex{byLabel: map[string]int{}, byName: map[string]int{}}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		label, _ := rowskema.ResolveColumnKey(sf)
		if label == "-" {
			continue
		}
		idx.byLabel[label] = i
		idx.byName[sf.Name] = i
	}
	return idx
}

func structField(rt reflect.Type, idx structIndex, f *FieldStep) (rowskema.FieldSpec, error) {
	i, ok := idx.byLabel[f.name]
	if !ok {
		i, ok = idx.byName[f.name]
	}
	if !ok {
		return rowskema.FieldSpec{}, rowskema.SchemaError{Field: f.name, Code: rowskema.CodeBinding, Message: fmt.Sprintf("%s has no field for column %q", rt, f.name)}
	}
	sf := rt.Field(i)
	_, tagPos := rowskema.ResolveColumnKey(sf)
	ft := sf.Type
	ptr := ft.Kind() == reflect.Pointer
	if ptr {
		ft = ft.Elem()
	}
	fm := f.formatter
	if fm == nil {
		fm = inferFormatter(ft)
		if fm == nil {
			return rowskema.FieldSpec{}, rowskema.SchemaError{Field: f.name, Code: rowskema.CodeBinding, Message: fmt.Sprintf("no default formatter for %s", ft)}
		}
	}
	vt := fm.Type()
	if !compatible(vt, ft) {
		return rowskema.FieldSpec{}, rowskema.SchemaError{Field: f.name, Code: rowskema.CodeBinding, Message: fmt.Sprintf("formatter produces %s, field %s is %s", vt, sf.Name, sf.Type)}
	}
	spec := f.spec(fm)
	if spec.Position == 0 {
		spec.Position = tagPos
	}
	spec.Accessor = structAccessor(rt, i, ft, vt, ptr)
	return spec, nil
}

func mapField(f *FieldStep) (rowskema.FieldSpec, error) {
	fm := f.formatter
	if fm == nil {
		fm = format.Text{}
	}
	spec := f.spec(fm)
	name := f.name
	spec.Accessor = rowskema.Accessor{
		Get: func(rec any) (any, error) {
			p, ok := rec.(*map[string]any)
			if !ok || p == nil {
				return nil, fmt.Errorf("record is %T, want *map[string]any", rec)
			}
			return (*p)[name], nil
		},
		Set: func(rec any, v any) error {
			p, ok := rec.(*map[string]any)
			if !ok || p == nil {
				return fmt.Errorf("record is %T, want *map[string]any", rec)
			}
			if *p == nil {
				*p = map[string]any{}
			}
			(*p)[name] = v
			return nil
		},
	}
	return spec, nil
}

func (f *FieldStep) spec(fm rowskema.Formatter) rowskema.FieldSpec {
	return rowskema.FieldSpec{
		Name:      f.name,
		Label:     f.label,
		Position:  f.position,
		Required:  f.require != nil,
		ReadOnly:  f.readOnly,
		WriteOnly: f.writeOnly,
		Formatter: fm,
		Fixed:     f.fixed,
	}
}

// compatible reports whether values of vt can be stored in a field of ft.
// Conversions are limited to the same kind so that, for example, an int
// never becomes a one-rune string.
func compatible(vt, ft reflect.Type) bool {
	if vt.AssignableTo(ft) {
		return true
	}
	return vt.Kind() == ft.Kind() && vt.ConvertibleTo(ft) && ft.ConvertibleTo(vt)
}

var errNotRecord = errors.New("record is not a non-nil pointer to the bound type")

func structAccessor(rt reflect.Type, i int, ft, vt reflect.Type, ptr bool) rowskema.Accessor {
	elem := func(rec any) (reflect.Value, error) {
		rv := reflect.ValueOf(rec)
		if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Type() != rt {
			return reflect.Value{}, fmt.Errorf("%w: got %T", errNotRecord, rec)
		}
		return rv.Elem().Field(i), nil
	}
	return rowskema.Accessor{
		Get: func(rec any) (any, error) {
			fv, err := elem(rec)
			if err != nil {
				return nil, err
			}
			if ptr {
				if fv.IsNil() {
					return nil, nil
				}
				fv = fv.Elem()
			}
			if fv.Type() != vt {
				fv = fv.Convert(vt)
			}
			return fv.Interface(), nil
		},
		Set: func(rec any, v any) error {
			fv, err := elem(rec)
			if err != nil {
				return err
			}
			if v == nil {
				fv.SetZero()
				return nil
			}
			val := reflect.ValueOf(v)
			switch {
			case val.Type().AssignableTo(ft):
			case compatible(val.Type(), ft):
				val = val.Convert(ft)
			default:
				return fmt.Errorf("cannot assign %T to %s", v, ft)
			}
			if ptr {
				p := reflect.New(ft)
				p.Elem().Set(val)
				val = p
			}
			fv.Set(val)
			return nil
		},
	}
}

var decimalType = reflect.TypeFor[decimal.Decimal]()

// inferFormatter picks the plain formatter for a field type.
func inferFormatter(t reflect.Type) rowskema.Formatter {
	switch t {
	case timeType:
		f, _ := format.NewDateTime(format.DateTimeOptions{})
		return f
	case decimalType:
		return format.NewDecimal(format.NumberOptions{})
	}
	switch t.Kind() {
	case reflect.String:
		return format.Text{}
	case reflect.Bool:
		return format.NewBool(format.BoolOptions{})
	case reflect.Int:
		return format.NewNumber[int](format.NumberOptions{})
	case reflect.Int8:
		return format.NewNumber[int8](format.NumberOptions{})
	case reflect.Int16:
		return format.NewNumber[int16](format.NumberOptions{})
	case reflect.Int32:
		return format.NewNumber[int32](format.NumberOptions{})
	case reflect.Int64:
		return format.NewNumber[int64](format.NumberOptions{})
	case reflect.Uint:
		return format.NewNumber[uint](format.NumberOptions{})
	case reflect.Uint8:
		return format.NewNumber[uint8](format.NumberOptions{})
	case reflect.Uint16:
		return format.NewNumber[uint16](format.NumberOptions{})
	case reflect.Uint32:
		return format.NewNumber[uint32](format.NumberOptions{})
	case reflect.Uint64:
		return format.NewNumber[uint64](format.NumberOptions{})
	case reflect.Float32:
		return format.NewNumber[float32](format.NumberOptions{})
	case reflect.Float64:
		return format.NewNumber[float64](format.NumberOptions{})
	}
	return nil
}
