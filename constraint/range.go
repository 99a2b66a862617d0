package constraint

import (
	"fmt"

	"github.com/reoring/rowskema"
)

// bound describes one side of a range check.
type bound struct {
	value     any
	inclusive bool
}

// above reports whether v satisfies v > b (or v >= b when inclusive).
func (b bound) above(v any) (bool, error) {
	c, err := Compare(v, b.value)
	if err != nil {
		return false, err
	}
	return c > 0 || (b.inclusive && c == 0), nil
}

// below reports whether v satisfies v < b (or v <= b when inclusive).
func (b bound) below(v any) (bool, error) {
	c, err := Compare(v, b.value)
	if err != nil {
		return false, err
	}
	return c < 0 || (b.inclusive && c == 0), nil
}

// Min rejects values under a lower bound. It serves both numbers
// (number_min) and date/times (datetime_min).
type Min struct {
	code string
	min  bound
}

// Max rejects values over an upper bound.
type Max struct {
	code string
	max  bound
}

// Range rejects values outside [min, max]; with Inclusive false the bounds
// themselves are rejected too.
type Range struct {
	code     string
	min, max bound
}

// NewNumberMin returns a lower bound check for numbers.
func NewNumberMin(min any, inclusive bool) (*Min, error) {
	return newMin(rowskema.CodeNumberMin, min, inclusive)
}

// NewNumberMax returns an upper bound check for numbers.
func NewNumberMax(max any, inclusive bool) (*Max, error) {
	return newMax(rowskema.CodeNumberMax, max, inclusive)
}

// NewNumberRange returns a two-sided check for numbers.
func NewNumberRange(min, max any, inclusive bool) (*Range, error) {
	return newRange(rowskema.CodeNumberRange, min, max, inclusive)
}

// NewDateTimeMin returns a lower bound check for time.Time values.
func NewDateTimeMin(min any, inclusive bool) (*Min, error) {
	return newMin(rowskema.CodeDateTimeMin, min, inclusive)
}

// NewDateTimeMax returns an upper bound check for time.Time values.
func NewDateTimeMax(max any, inclusive bool) (*Max, error) {
	return newMax(rowskema.CodeDateTimeMax, max, inclusive)
}

// NewDateTimeRange returns a two-sided check for time.Time values.
func NewDateTimeRange(min, max any, inclusive bool) (*Range, error) {
	return newRange(rowskema.CodeDateTimeRange, min, max, inclusive)
}

func newMin(code string, min any, inclusive bool) (*Min, error) {
	if _, err := Compare(min, min); err != nil {
		return nil, err
	}
	return &Min{code: code, min: bound{value: min, inclusive: inclusive}}, nil
}

func newMax(code string, max any, inclusive bool) (*Max, error) {
	if _, err := Compare(max, max); err != nil {
		return nil, err
	}
	return &Max{code: code, max: bound{value: max, inclusive: inclusive}}, nil
}

func newRange(code string, min, max any, inclusive bool) (*Range, error) {
	c, err := Compare(min, max)
	if err != nil {
		return nil, err
	}
	if c > 0 {
		return nil, fmt.Errorf("constraint: min %v exceeds max %v", min, max)
	}
	return &Range{code: code, min: bound{min, inclusive}, max: bound{max, inclusive}}, nil
}

func (c *Min) Check(_ *rowskema.CellContext, v any) error {
	ok, err := c.min.above(v)
	if err != nil {
		return err
	}
	if !ok {
		return rowskema.Violation(c.code, "min", c.min.value, "inclusive", c.min.inclusive)
	}
	return nil
}

func (c *Max) Check(_ *rowskema.CellContext, v any) error {
	ok, err := c.max.below(v)
	if err != nil {
		return err
	}
	if !ok {
		return rowskema.Violation(c.code, "max", c.max.value, "inclusive", c.max.inclusive)
	}
	return nil
}

func (c *Range) Check(_ *rowskema.CellContext, v any) error {
	lo, err := c.min.above(v)
	if err != nil {
		return err
	}
	hi, err := c.max.below(v)
	if err != nil {
		return err
	}
	if !lo || !hi {
		return rowskema.Violation(c.code, "min", c.min.value, "max", c.max.value, "inclusive", c.min.inclusive)
	}
	return nil
}
