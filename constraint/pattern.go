package constraint

import (
	"fmt"
	"regexp"

	"github.com/reoring/rowskema"
)

// Pattern requires the whole text to match a regular expression.
type Pattern struct {
	re          *regexp.Regexp
	expr        string
	description string
}

// NewPattern compiles expr anchored at both ends.
func NewPattern(expr, description string) (*Pattern, error) {
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return nil, fmt.Errorf("constraint: pattern %q: %w", expr, err)
	}
	return &Pattern{re: re, expr: expr, description: description}, nil
}

func (c *Pattern) Check(_ *rowskema.CellContext, v any) error {
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	if c.re.MatchString(s) {
		return nil
	}
	return rowskema.Violation(rowskema.CodePattern, "regex", c.expr, "description", c.description)
}
