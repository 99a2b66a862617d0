package rules

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm"
	"github.com/shopspring/decimal"

	"github.com/reoring/rowskema"
)

type identCollector struct{ names []string }

func (c *identCollector) Visit(node *ast.Node) {
	if id, ok := (*node).(*ast.IdentifierNode); ok && !slices.Contains(c.names, id.Value) {
		c.names = append(c.names, id.Value)
	}
}

// ExprRule is a row rule written as a boolean expr-lang expression over
// field values, for example "price >= cost".
type ExprRule struct {
	src    string
	code   string
	fields []string
	prog   *vm.Program
	cfg    config
}

// Expr compiles src. The rule reports code when src evaluates to false. It is
// skipped when a field it references failed or is null.
func Expr(src, code string, opts ...Option) (*ExprRule, error) {
	ids := &identCollector{}
	prog, err := expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables(), expr.Patch(ids))
	if err != nil {
		return nil, rowskema.SchemaError{Code: rowskema.CodeSchemaInvalid, Message: fmt.Sprintf("rule %q", src), Cause: err}
	}
	return &ExprRule{src: src, code: code, fields: ids.names, prog: prog, cfg: newConfig(opts)}, nil
}

// MustExpr is like Expr but panics on error.
func MustExpr(src, code string, opts ...Option) *ExprRule {
	r, err := Expr(src, code, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Fields returns the identifiers the expression references.
func (r *ExprRule) Fields() []string { return slices.Clone(r.fields) }

func (r *ExprRule) String() string { return r.src }

func (r *ExprRule) ValidateRow(v rowskema.RowView) []rowskema.ValidationError {
	if r.cfg.skip(v) {
		return nil
	}
	env := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		x, ok := v.Value(f)
		if !ok {
			continue
		}
		if v.HasFieldErrors(f) || rowskema.IsNil(x) {
			return nil
		}
		env[f] = exprValue(x)
	}
	out, err := expr.Run(r.prog, env)
	if err != nil {
		return []rowskema.ValidationError{r.cfg.issue(r.code, "expression", r.src, "error", err.Error())}
	}
	if ok, _ := out.(bool); ok {
		return nil
	}
	return []rowskema.ValidationError{r.cfg.issue(r.code, "expression", r.src)}
}

// exprValue converts arbitrary-precision numbers to float64, which expr can
// compare.
func exprValue(x any) any {
	switch n := x.(type) {
	case decimal.Decimal:
		return n.InexactFloat64()
	case *big.Int:
		f, _ := new(big.Float).SetInt(n).Float64()
		return f
	}
	return x
}
