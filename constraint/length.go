package constraint

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/reoring/rowskema"
)

func textLength(v any) int {
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return utf8.RuneCountInString(s)
}

// LengthMin requires at least Min code points.
type LengthMin struct{ Min int }

// NewLengthMin validates the bound.
func NewLengthMin(min int) (*LengthMin, error) {
	if min < 0 {
		return nil, fmt.Errorf("constraint: length min %d is negative", min)
	}
	return &LengthMin{Min: min}, nil
}

func (c *LengthMin) Check(_ *rowskema.CellContext, v any) error {
	if n := textLength(v); n < c.Min {
		return rowskema.Violation(rowskema.CodeLengthMin, "min", c.Min, "length", n)
	}
	return nil
}

// LengthMax allows at most Max code points.
type LengthMax struct{ Max int }

// NewLengthMax validates the bound.
func NewLengthMax(max int) (*LengthMax, error) {
	if max < 0 {
		return nil, fmt.Errorf("constraint: length max %d is negative", max)
	}
	return &LengthMax{Max: max}, nil
}

func (c *LengthMax) Check(_ *rowskema.CellContext, v any) error {
	if n := textLength(v); n > c.Max {
		return rowskema.Violation(rowskema.CodeLengthMax, "max", c.Max, "length", n)
	}
	return nil
}

// LengthBetween requires Min to Max code points, both inclusive.
type LengthBetween struct{ Min, Max int }

// NewLengthBetween rejects negative or inverted bounds.
func NewLengthBetween(min, max int) (*LengthBetween, error) {
	if min < 0 {
		return nil, fmt.Errorf("constraint: length min %d is negative", min)
	}
	if min > max {
		return nil, fmt.Errorf("constraint: length min %d exceeds max %d", min, max)
	}
	return &LengthBetween{Min: min, Max: max}, nil
}

func (c *LengthBetween) Check(_ *rowskema.CellContext, v any) error {
	if n := textLength(v); n < c.Min || n > c.Max {
		return rowskema.Violation(rowskema.CodeLengthBetween, "min", c.Min, "max", c.Max, "length", n)
	}
	return nil
}

// LengthExact requires the length to be one of Lengths.
type LengthExact struct{ Lengths []int }

// NewLengthExact requires at least one non-negative length.
func NewLengthExact(lengths ...int) (*LengthExact, error) {
	if len(lengths) == 0 {
		return nil, fmt.Errorf("constraint: exact length without values")
	}
	for _, l := range lengths {
		if l < 0 {
			return nil, fmt.Errorf("constraint: exact length %d is negative", l)
		}
	}
	ls := slices.Clone(lengths)
	slices.Sort(ls)
	return &LengthExact{Lengths: slices.Compact(ls)}, nil
}

func (c *LengthExact) Check(_ *rowskema.CellContext, v any) error {
	n := textLength(v)
	if slices.Contains(c.Lengths, n) {
		return nil
	}
	parts := make([]string, len(c.Lengths))
	for i, l := range c.Lengths {
		parts[i] = strconv.Itoa(l)
	}
	return rowskema.Violation(rowskema.CodeLengthExact, "lengths", strings.Join(parts, ", "), "length", n)
}
