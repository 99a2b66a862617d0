package constraint

import "github.com/reoring/rowskema"

// ValueSource supplies the accepted values of an Equals constraint.
type ValueSource interface {
	Values() ([]any, error)
}

// Values is a static ValueSource.
type Values []any

func (v Values) Values() ([]any, error) { return v, nil }

// Equals accepts only members of a value set. An empty set accepts everything.
type Equals struct {
	values []any
}

// NewEquals loads the accepted values once.
func NewEquals(src ValueSource) (*Equals, error) {
	vals, err := src.Values()
	if err != nil {
		return nil, err
	}
	return &Equals{values: append([]any(nil), vals...)}, nil
}

func (c *Equals) Check(_ *rowskema.CellContext, v any) error {
	if len(c.values) == 0 {
		return nil
	}
	for _, x := range c.values {
		if Equal(v, x) {
			return nil
		}
	}
	return rowskema.Violation(rowskema.CodeEquals, "equalsValues", c.values)
}
