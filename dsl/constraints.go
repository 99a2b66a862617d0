package dsl

import (
	"fmt"
	"reflect"
	"time"

	"github.com/reoring/rowskema"
	"github.com/reoring/rowskema/constraint"
)

var timeType = reflect.TypeFor[time.Time]()

func (f *FieldStep) add(name string, build func(bc buildContext) (rowskema.Constraint, error)) *FieldStep {
	f.constraints = append(f.constraints, constraintDecl{name: name, build: build})
	return f
}

// Check appends a ready-made constraint.
func (f *FieldStep) Check(name string, c rowskema.Constraint) *FieldStep {
	return f.add(name, func(buildContext) (rowskema.Constraint, error) {
		if c == nil {
			return nil, fmt.Errorf("constraint %q is nil", name)
		}
		return c, nil
	})
}

// Unique rejects values seen earlier in the same stream.
func (f *FieldStep) Unique() *FieldStep {
	return f.add("unique", func(bc buildContext) (rowskema.Constraint, error) {
		return constraint.NewUnique(bc.field), nil
	})
}

// UniqueHash rejects values whose hash was seen earlier in the same stream.
// A nil hasher selects xxh3.
func (f *FieldStep) UniqueHash(h constraint.Hasher) *FieldStep {
	return f.add("unique_hash", func(bc buildContext) (rowskema.Constraint, error) {
		return constraint.NewUniqueHash(bc.field, h), nil
	})
}

// Equals accepts only the listed values, given as text in field format.
func (f *FieldStep) Equals(values ...string) *FieldStep {
	return f.add("equals", func(bc buildContext) (rowskema.Constraint, error) {
		vals := make(constraint.Values, 0, len(values))
		for _, s := range values {
			v, err := bc.parse(s)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		return constraint.NewEquals(vals)
	})
}

// EqualsFrom accepts only values listed by a registered constraint.ValueSource.
func (f *FieldStep) EqualsFrom(provider string) *FieldStep {
	return f.add("equals", func(bc buildContext) (rowskema.Constraint, error) {
		src, err := rowskema.RequireProvider[constraint.ValueSource](bc.providers, bc.field, provider)
		if err != nil {
			return nil, err
		}
		return constraint.NewEquals(src)
	})
}

// Pattern requires the printed text to match expr entirely.
func (f *FieldStep) Pattern(expr, description string) *FieldStep {
	return f.add("pattern", func(buildContext) (rowskema.Constraint, error) {
		return constraint.NewPattern(expr, description)
	})
}

// LengthMin requires at least n characters.
func (f *FieldStep) LengthMin(n int) *FieldStep {
	return f.add("length_min", func(buildContext) (rowskema.Constraint, error) { return constraint.NewLengthMin(n) })
}

// LengthMax allows at most n characters.
func (f *FieldStep) LengthMax(n int) *FieldStep {
	return f.add("length_max", func(buildContext) (rowskema.Constraint, error) { return constraint.NewLengthMax(n) })
}

// LengthBetween requires min to max characters.
func (f *FieldStep) LengthBetween(min, max int) *FieldStep {
	return f.add("length_between", func(buildContext) (rowskema.Constraint, error) {
		return constraint.NewLengthBetween(min, max)
	})
}

// LengthExact requires one of the given lengths.
func (f *FieldStep) LengthExact(lengths ...int) *FieldStep {
	return f.add("length_exact", func(buildContext) (rowskema.Constraint, error) {
		return constraint.NewLengthExact(lengths...)
	})
}

// Min rejects values below the bound, given as text in field format.
// Date/time fields report datetime_min, others number_min.
func (f *FieldStep) Min(bound string, inclusive bool) *FieldStep {
	return f.add("min", func(bc buildContext) (rowskema.Constraint, error) {
		v, err := bc.parse(bound)
		if err != nil {
			return nil, err
		}
		if bc.temporal() {
			return constraint.NewDateTimeMin(v, inclusive)
		}
		return constraint.NewNumberMin(v, inclusive)
	})
}

// Max rejects values above the bound.
func (f *FieldStep) Max(bound string, inclusive bool) *FieldStep {
	return f.add("max", func(bc buildContext) (rowskema.Constraint, error) {
		v, err := bc.parse(bound)
		if err != nil {
			return nil, err
		}
		if bc.temporal() {
			return constraint.NewDateTimeMax(v, inclusive)
		}
		return constraint.NewNumberMax(v, inclusive)
	})
}

// Range rejects values outside [min, max].
func (f *FieldStep) Range(min, max string, inclusive bool) *FieldStep {
	return f.add("range", func(bc buildContext) (rowskema.Constraint, error) {
		lo, err := bc.parse(min)
		if err != nil {
			return nil, err
		}
		hi, err := bc.parse(max)
		if err != nil {
			return nil, err
		}
		if bc.temporal() {
			return constraint.NewDateTimeRange(lo, hi, inclusive)
		}
		return constraint.NewNumberRange(lo, hi, inclusive)
	})
}

// WordForbid rejects text containing any of words.
func (f *FieldStep) WordForbid(words ...string) *FieldStep {
	return f.add("word_forbid", func(buildContext) (rowskema.Constraint, error) {
		return constraint.NewWordForbid(constraint.Words(words))
	})
}

// WordForbidFrom is WordForbid over a registered constraint.WordSource.
func (f *FieldStep) WordForbidFrom(provider string) *FieldStep {
	return f.add("word_forbid", func(bc buildContext) (rowskema.Constraint, error) {
		src, err := rowskema.RequireProvider[constraint.WordSource](bc.providers, bc.field, provider)
		if err != nil {
			return nil, err
		}
		return constraint.NewWordForbid(src)
	})
}

// WordRequire rejects text missing any of words.
func (f *FieldStep) WordRequire(words ...string) *FieldStep {
	return f.add("word_require", func(buildContext) (rowskema.Constraint, error) {
		return constraint.NewWordRequire(constraint.Words(words))
	})
}

// WordRequireFrom is WordRequire over a registered constraint.WordSource.
func (f *FieldStep) WordRequireFrom(provider string) *FieldStep {
	return f.add("word_require", func(bc buildContext) (rowskema.Constraint, error) {
		src, err := rowskema.RequireProvider[constraint.WordSource](bc.providers, bc.field, provider)
		if err != nil {
			return nil, err
		}
		return constraint.NewWordRequire(src)
	})
}

func (bc buildContext) parse(text string) (any, error) {
	v, err := bc.formatter.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("bound %q: %w", text, err)
	}
	return v, nil
}

func (bc buildContext) temporal() bool {
	return bc.formatter.Type() == timeType
}
