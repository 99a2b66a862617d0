package constraint

import (
	"strings"

	"github.com/reoring/rowskema"
)

// Require rejects nil values. It is the only constraint that sees nil.
type Require struct {
	ConsiderEmpty bool // Also reject "".
	ConsiderBlank bool // Also reject whitespace-only text.
}

func (Require) CheckNil() bool { return true }

func (c Require) Check(_ *rowskema.CellContext, v any) error {
	fail := rowskema.IsNil(v)
	if s, ok := v.(string); ok {
		fail = (c.ConsiderEmpty && s == "") || (c.ConsiderBlank && strings.TrimSpace(s) == "")
	}
	if fail {
		return rowskema.Violation(rowskema.CodeRequired, "considerEmpty", c.ConsiderEmpty, "considerBlank", c.ConsiderBlank)
	}
	return nil
}
