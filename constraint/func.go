package constraint

import "github.com/reoring/rowskema"

// Func adapts a predicate into a constraint reporting code on failure.
func Func(code string, ok func(v any) bool, kv ...any) rowskema.Constraint {
	return funcConstraint{code: code, ok: ok, kv: kv}
}

type funcConstraint struct {
	code string
	ok   func(v any) bool
	kv   []any
}

func (c funcConstraint) Check(_ *rowskema.CellContext, v any) error {
	if c.ok(v) {
		return nil
	}
	return rowskema.Violation(c.code, c.kv...)
}
