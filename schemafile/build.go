package schemafile

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/language"

	"github.com/reoring/rowskema"
	"github.com/reoring/rowskema/convert"
	"github.com/reoring/rowskema/dsl"
	"github.com/reoring/rowskema/fixedwidth"
	"github.com/reoring/rowskema/format"
	"github.com/reoring/rowskema/rules"
)

// Builder translates the file into a record builder. Declaration problems
// are aggregated into rowskema.SchemaErrors.
func (f *File) Builder() (*dsl.RecordBuilder, error) {
	b := dsl.Record()
	var errs rowskema.SchemaErrors
	if f.Fixed {
		b.Fixed()
	}
	partial := rowskema.Partial{Size: f.PartialSize}
	switch f.Partial {
	case "", "none":
	case "anonymous":
		partial.Policy = rowskema.PartialAnonymous
	default:
		errs = append(errs, rowskema.SchemaError{Code: rowskema.CodeSchemaInvalid, Message: fmt.Sprintf("unknown partial policy %q", f.Partial)})
	}
	for _, pc := range f.PartialColumns {
		if pc.Position < 1 {
			errs = append(errs, rowskema.SchemaError{Code: rowskema.CodeSchemaInvalid, Message: fmt.Sprintf("partial column position %d is less than 1", pc.Position)})
			continue
		}
		if pc.Label != "" {
			if partial.Labels == nil {
				partial.Labels = map[int]string{}
			}
			partial.Labels[pc.Position] = pc.Label
		}
		if pc.Size > 0 {
			col, problems := fixedColumn(pc.Size, pc.PadChar, pc.RightAlign, pc.Chopped, pc.Counter)
			for _, p := range problems {
				errs = append(errs, rowskema.SchemaError{Code: rowskema.CodeSchemaInvalid, Message: fmt.Sprintf("partial column %d: %s", pc.Position, p)})
			}
			if len(problems) > 0 {
				continue
			}
			if partial.Columns == nil {
				partial.Columns = map[int]fixedwidth.Column{}
			}
			partial.Columns[pc.Position] = col
		}
	}
	b.Partial(partial)

	for _, fd := range f.Fields {
		if fd.Name == "" {
			errs = append(errs, rowskema.SchemaError{Code: rowskema.CodeSchemaInvalid, Message: "field without a name"})
			continue
		}
		errs = rowskema.AppendSchemaErrors(errs, declareField(b.Field(fd.Name), fd))
	}

	for _, rd := range f.RowRules {
		code := rd.Code
		if code == "" {
			code = rowskema.CodeRowRule
		}
		var opts []rules.Option
		if rd.Field != "" {
			opts = append(opts, rules.OnField(rd.Field))
		}
		if rd.Message != "" {
			opts = append(opts, rules.Message(rd.Message))
		}
		r, err := rules.Expr(rd.Expr, code, opts...)
		if err != nil {
			errs = rowskema.AppendSchemaErrors(errs, err)
			continue
		}
		b.Validate(r)
	}
	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return b, nil
}

// BindMap builds and binds the schema to map records.
func (f *File) BindMap() (*dsl.Binding[map[string]any], error) {
	b, err := f.Builder()
	if err != nil {
		return nil, err
	}
	return dsl.BindMap(b)
}

// Compile builds, binds and compiles the schema for map records.
func (f *File) Compile(opts ...dsl.Option) (*rowskema.SchemaCache, error) {
	bd, err := f.BindMap()
	if err != nil {
		return nil, err
	}
	return bd.Compile(opts...)
}

// Bind builds the schema and binds it to record type T.
func Bind[T any](f *File) (*dsl.Binding[T], error) {
	b, err := f.Builder()
	if err != nil {
		return nil, err
	}
	return dsl.Bind[T](b)
}

func declareField(s *dsl.FieldStep, fd FieldDecl) error {
	var errs rowskema.SchemaErrors
	fail := func(format string, args ...any) {
		errs = append(errs, rowskema.SchemaError{Field: fd.Name, Code: rowskema.CodeSchemaInvalid, Message: fmt.Sprintf(format, args...)})
	}

	if fd.Label != "" {
		s.Label(fd.Label)
	}
	if fd.Position != 0 {
		s.Position(fd.Position)
	}
	fm, err := formatter(fd)
	if err != nil {
		fail("%v", err)
	} else if fm != nil {
		s.Format(fm)
	}
	if fd.Required {
		s.RequiredText(true, false)
	}
	switch {
	case fd.ReadOnly && fd.WriteOnly:
		fail("readOnly and writeOnly are exclusive")
	case fd.ReadOnly:
		s.ReadOnly()
	case fd.WriteOnly:
		s.WriteOnly()
	}

	if fd.Size > 0 {
		col, problems := fixedColumn(fd.Size, fd.PadChar, fd.RightAlign, fd.Chopped, fd.Counter)
		for _, p := range problems {
			fail("%s", p)
		}
		if len(problems) == 0 {
			s.FixedSize(col)
		}
	}

	if fd.Trim {
		s.Trim()
	}
	if len(fd.NullIf) > 0 {
		s.NullIf(false, fd.NullIf...)
	}
	if fd.Default != nil {
		s.Default(*fd.Default)
	}
	for _, cd := range fd.Conversions {
		if err := declareConversion(s, cd); err != nil {
			fail("conversion %s: %v", cd.Kind, err)
		}
	}
	for _, cd := range fd.Constraints {
		if err := declareConstraint(s, cd); err != nil {
			fail("constraint %s: %v", cd.Kind, err)
		}
	}
	return errs.ErrOrNil()
}

func formatter(fd FieldDecl) (rowskema.Formatter, error) {
	nopts := format.NumberOptions{Lenient: fd.Lenient}
	dopts := format.DateTimeOptions{Pattern: fd.Pattern, Lenient: fd.Lenient}
	switch fd.Type {
	case "", "string":
		return format.Text{}, nil
	case "int":
		if fd.Pattern != "" {
			return format.NewNumberPattern[int](fd.Pattern, format.PatternOptions{NumberOptions: nopts})
		}
		return format.NewNumber[int](nopts), nil
	case "int64":
		if fd.Pattern != "" {
			return format.NewNumberPattern[int64](fd.Pattern, format.PatternOptions{NumberOptions: nopts})
		}
		return format.NewNumber[int64](nopts), nil
	case "float64":
		if fd.Pattern != "" {
			return format.NewNumberPattern[float64](fd.Pattern, format.PatternOptions{NumberOptions: nopts})
		}
		return format.NewNumber[float64](nopts), nil
	case "decimal":
		if fd.Pattern != "" {
			return format.NewDecimalPattern(fd.Pattern, format.PatternOptions{NumberOptions: nopts})
		}
		return format.NewDecimal(nopts), nil
	case "bool":
		return format.NewBool(format.BoolOptions{TrueValues: fd.TrueValues, FalseValues: fd.FalseValues, IgnoreCase: true}), nil
	case "date":
		return format.NewDate(dopts)
	case "datetime":
		return format.NewDateTime(dopts)
	case "time":
		return format.NewTime(dopts)
	}
	return nil, fmt.Errorf("unknown type %q", fd.Type)
}

// fixedColumn builds a width declaration and lists every problem found.
func fixedColumn(size int, padChar string, rightAlign, chopped bool, counter string) (fixedwidth.Column, []string) {
	col := fixedwidth.Column{Size: size, RightAlign: rightAlign, Chopped: chopped}
	var problems []string
	if padChar != "" {
		if utf8.RuneCountInString(padChar) != 1 {
			problems = append(problems, fmt.Sprintf("padChar %q should be one character", padChar))
		}
		col.PadChar, _ = utf8.DecodeRuneInString(padChar)
	}
	c, ok := fixedwidth.CounterByName(counter)
	if !ok {
		problems = append(problems, fmt.Sprintf("unknown counter %q", counter))
	}
	col.Counter = c
	return col, problems
}

func declareConversion(s *dsl.FieldStep, cd ConversionDecl) error {
	var (
		c   rowskema.Conversion
		err error
	)
	switch cd.Kind {
	case "upper":
		c = convert.Upper(language.Und)
	case "lower":
		c = convert.Lower(language.Und)
	case "fullWidth":
		c = convert.FullWidth()
	case "halfWidth":
		c = convert.HalfWidth()
	case "regexReplace":
		c, err = convert.RegexReplace(cd.Regex, cd.Replace, cd.Partial)
	case "wordReplace":
		pairs := make([]convert.Replacement, 0, len(cd.Words))
		for w, with := range cd.Words {
			pairs = append(pairs, convert.Replacement{Word: w, With: with})
		}
		c, err = convert.WordReplace(pairs...)
	case "truncate":
		c, err = convert.Truncate(cd.Size, cd.Suffix)
	default:
		return errors.New("unknown kind")
	}
	if err != nil {
		return err
	}
	s.Convert(cd.Kind, c)
	return nil
}

func declareConstraint(s *dsl.FieldStep, cd ConstraintDecl) error {
	inclusive := !cd.Exclusive
	switch cd.Kind {
	case "unique":
		s.Unique()
	case "uniqueHash":
		s.UniqueHash(nil)
	case "equals":
		if cd.Provider != "" {
			s.EqualsFrom(cd.Provider)
		} else {
			s.Equals(cd.Values...)
		}
	case "pattern":
		s.Pattern(cd.Regex, cd.Description)
	case "lengthMin":
		s.LengthMin(cd.Length)
	case "lengthMax":
		s.LengthMax(cd.Length)
	case "lengthBetween":
		if len(cd.Lengths) != 2 {
			return errors.New("lengths should hold min and max")
		}
		s.LengthBetween(cd.Lengths[0], cd.Lengths[1])
	case "lengthExact":
		s.LengthExact(cd.Lengths...)
	case "min":
		s.Min(cd.Min, inclusive)
	case "max":
		s.Max(cd.Max, inclusive)
	case "range":
		s.Range(cd.Min, cd.Max, inclusive)
	case "wordForbid":
		if cd.Provider != "" {
			s.WordForbidFrom(cd.Provider)
		} else {
			s.WordForbid(cd.Words...)
		}
	case "wordRequire":
		if cd.Provider != "" {
			s.WordRequireFrom(cd.Provider)
		} else {
			s.WordRequire(cd.Words...)
		}
	default:
		return errors.New("unknown kind")
	}
	return nil
}
