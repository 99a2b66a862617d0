// Package rules provides row validators: plain functions, expr-lang
// expressions over field values, and conditional composition.
package rules

import (
	"fmt"
	"reflect"
	"time"

	"github.com/reoring/rowskema"
	"github.com/reoring/rowskema/format"
)

// Rule is a row validator.
type Rule = rowskema.RowValidator

// Op defines comparison operators for If(...).Then(...).
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Option configures the error a rule reports.
type Option func(*config)

type config struct {
	field   string
	message string
	vars    map[string]any
	skipOn  []string
}

// OnField ties the reported error to a field; its column is filled in by the
// engine.
func OnField(name string) Option { return func(c *config) { c.field = name } }

// Message overrides catalogue lookup for the reported error.
func Message(msg string) Option { return func(c *config) { c.message = msg } }

// Vars adds substitution variables from alternating key/value pairs.
func Vars(kv ...any) Option {
	return func(c *config) {
		for i := 0; i+1 < len(kv); i += 2 {
			if k, ok := kv[i].(string); ok {
				c.vars[k] = kv[i+1]
			}
		}
	}
}

// SkipOnErrors skips the rule when any of the named fields already failed.
// Without it, a rule is skipped only when its own field failed.
func SkipOnErrors(fields ...string) Option {
	return func(c *config) { c.skipOn = append(c.skipOn, fields...) }
}

func newConfig(opts []Option) config {
	c := config{vars: map[string]any{}}
	for _, fn := range opts {
		if fn != nil {
			fn(&c)
		}
	}
	if c.field != "" {
		c.skipOn = append(c.skipOn, c.field)
	}
	return c
}

func (c config) skip(v rowskema.RowView) bool {
	for _, f := range c.skipOn {
		if v.HasFieldErrors(f) {
			return true
		}
	}
	return false
}

func (c config) issue(code string, extra ...any) rowskema.ValidationError {
	vars := make(map[string]any, len(c.vars)+len(extra)/2)
	for k, v := range c.vars {
		vars[k] = v
	}
	for i := 0; i+1 < len(extra); i += 2 {
		if k, ok := extra[i].(string); ok {
			vars[k] = extra[i+1]
		}
	}
	return rowskema.ValidationError{Field: c.field, Code: code, Vars: vars, Message: c.message}
}

// Func reports code when ok returns false.
func Func(code string, ok func(rowskema.RowView) bool, opts ...Option) Rule {
	c := newConfig(opts)
	return rowskema.RowValidatorFunc(func(v rowskema.RowView) []rowskema.ValidationError {
		if c.skip(v) || ok(v) {
			return nil
		}
		return []rowskema.ValidationError{c.issue(code)}
	})
}

// Conditional gates rules on field values.
type Conditional struct {
	field string
	op    Op
	want  any
	all   []Conditional // composite AND
	any   []Conditional // composite OR
}

// If builds a conditional comparing a field value with want.
func If(field string, op Op, want any) Conditional {
	return Conditional{field: field, op: op, want: want}
}

// IfAll requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Holds evaluates the condition against a row. A condition on a field that
// failed or is absent never holds.
func (c Conditional) Holds(v rowskema.RowView) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.Holds(v) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.Holds(v) {
				return true
			}
		}
		return false
	}
	if v.HasFieldErrors(c.field) {
		return false
	}
	cur, ok := v.Value(c.field)
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

// Then runs rules only on rows where the condition holds.
func (c Conditional) Then(rules ...Rule) Rule {
	return rowskema.RowValidatorFunc(func(v rowskema.RowView) []rowskema.ValidationError {
		if !c.Holds(v) {
			return nil
		}
		return And(rules...).ValidateRow(v)
	})
}

// And runs every rule and concatenates their errors.
func And(rules ...Rule) Rule {
	return rowskema.RowValidatorFunc(func(v rowskema.RowView) []rowskema.ValidationError {
		var out []rowskema.ValidationError
		for _, r := range rules {
			if r == nil {
				continue
			}
			out = append(out, r.ValidateRow(v)...)
		}
		return out
	})
}

// Or passes when any rule passes. When all fail, the branch with the fewest
// errors is reported.
func Or(rules ...Rule) Rule {
	return rowskema.RowValidatorFunc(func(v rowskema.RowView) []rowskema.ValidationError {
		var best []rowskema.ValidationError
		bestSet := false
		for _, r := range rules {
			if r == nil {
				continue
			}
			errs := r.ValidateRow(v)
			if len(errs) == 0 {
				return nil
			}
			if !bestSet || len(errs) < len(best) {
				best, bestSet = errs, true
			}
		}
		return best
	})
}

// AtLeastOne requires at least one of fields to be non-null.
func AtLeastOne(code string, fields ...string) Rule {
	return rowskema.RowValidatorFunc(func(v rowskema.RowView) []rowskema.ValidationError {
		for _, f := range fields {
			if v.HasFieldErrors(f) {
				return nil
			}
			if x, ok := v.Value(f); ok && !rowskema.IsNil(x) {
				if s, isStr := x.(string); !isStr || s != "" {
					return nil
				}
			}
		}
		return []rowskema.ValidationError{{Code: code, Vars: map[string]any{"fields": fields}}}
	})
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		if c, ok := order(cur, want); ok {
			return c == 0
		}
		return reflect.DeepEqual(cur, want)
	case Ne:
		if c, ok := order(cur, want); ok {
			return c != 0
		}
		return !reflect.DeepEqual(cur, want)
	}
	c, ok := order(cur, want)
	if !ok {
		return false
	}
	switch op {
	case Lt:
		return c < 0
	case Le:
		return c <= 0
	case Gt:
		return c > 0
	case Ge:
		return c >= 0
	}
	return false
}

// order compares numbers by value, times by instant and strings lexically.
func order(a, b any) (int, bool) {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return ta.Compare(tb), true
	}
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case sa < sb:
			return -1, true
		case sa > sb:
			return 1, true
		}
		return 0, true
	}
	da, errA := format.ToDecimal(a)
	db, errB := format.ToDecimal(b)
	if errA != nil || errB != nil {
		return 0, false
	}
	return da.Cmp(db), true
}

func (o Op) String() string {
	switch o {
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	}
	return fmt.Sprintf("Op(%d)", int(o))
}
