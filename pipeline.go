package rowskema

import (
	"fmt"
	"reflect"
)

// StepKind tags a pipeline step.
type StepKind uint8

const (
	StepConvert    StepKind = iota // Text rewrite.
	StepFormat                     // Text <-> typed value.
	StepConstraint                 // Accept or reject; pass-through on success.
)

func (k StepKind) String() string {
	switch k {
	case StepConvert:
		return "convert"
	case StepFormat:
		return "format"
	default:
		return "constraint"
	}
}

// Step is one unit of a Pipeline. Exactly one of Conversion, Formatter or
// Constraint is set, matching Kind.
type Step struct {
	Kind       StepKind
	Name       string
	Conversion Conversion
	Formatter  Formatter
	Constraint Constraint
}

// ConvertStep wraps a Conversion.
func ConvertStep(name string, c Conversion) Step {
	return Step{Kind: StepConvert, Name: name, Conversion: c}
}

// FormatStep wraps a Formatter.
func FormatStep(f Formatter) Step {
	return Step{Kind: StepFormat, Name: "format", Formatter: f}
}

// ConstraintStep wraps a Constraint.
func ConstraintStep(name string, c Constraint) Step {
	return Step{Kind: StepConstraint, Name: name, Constraint: c}
}

// Pipeline is the ordered, immutable list of steps bound to one field for one
// direction. It holds no per-call state and may be shared across goroutines.
//
// Read pipelines run conversions, then the format step, then constraints.
// Write pipelines run constraints, then the format step, then conversions.
type Pipeline struct {
	dir    Direction
	steps  []Step
	format int
}

// NewPipeline validates step ordering for the direction and returns the pipeline.
func NewPipeline(dir Direction, steps ...Step) (*Pipeline, error) {
	p := &Pipeline{dir: dir, steps: append([]Step(nil), steps...), format: -1}
	for i, st := range p.steps {
		switch st.Kind {
		case StepFormat:
			if st.Formatter == nil {
				return nil, SchemaError{Code: CodeSchemaInvalid, Message: "format step without formatter"}
			}
			if p.format >= 0 {
				return nil, SchemaError{Code: CodeSchemaInvalid, Message: "pipeline has more than one format step"}
			}
			p.format = i
		case StepConvert:
			if st.Conversion == nil {
				return nil, SchemaError{Code: CodeSchemaInvalid, Message: fmt.Sprintf("step %q without conversion", st.Name)}
			}
			if (dir == Read) != (p.format < 0) {
				return nil, SchemaError{Code: CodeSchemaInvalid, Message: fmt.Sprintf("conversion %q on the wrong side of the format step", st.Name)}
			}
		case StepConstraint:
			if st.Constraint == nil {
				return nil, SchemaError{Code: CodeSchemaInvalid, Message: fmt.Sprintf("step %q without constraint", st.Name)}
			}
			if (dir == Read) == (p.format < 0) {
				return nil, SchemaError{Code: CodeSchemaInvalid, Message: fmt.Sprintf("constraint %q on the wrong side of the format step", st.Name)}
			}
		}
	}
	if p.format < 0 {
		return nil, SchemaError{Code: CodeSchemaInvalid, Message: "pipeline has no format step"}
	}
	return p, nil
}

// Direction returns the pipeline direction.
func (p *Pipeline) Direction() Direction { return p.dir }

// Formatter returns the pipeline's formatter.
func (p *Pipeline) Formatter() Formatter { return p.steps[p.format].Formatter }

// Steps returns a copy of the steps.
func (p *Pipeline) Steps() []Step { return append([]Step(nil), p.steps...) }

// Read runs a read pipeline over raw cell text. The first failing step stops
// the pipeline; its error is a *ParseError or *ConstraintViolation.
func (p *Pipeline) Read(cc *CellContext, raw NullString) (any, error) {
	text := raw
	var v any
	for _, st := range p.steps {
		switch st.Kind {
		case StepConvert:
			text = st.Conversion.Convert(text)
		case StepFormat:
			if !text.Valid {
				v = nil
				continue
			}
			parsed, err := st.Formatter.Parse(text.String)
			if err != nil {
				return nil, err
			}
			v = parsed
		case StepConstraint:
			if err := check(st.Constraint, cc, v); err != nil {
				return nil, err
			}
		}
	}
	return v, nil
}

// Write runs a write pipeline over a typed value.
func (p *Pipeline) Write(cc *CellContext, v any) (NullString, error) {
	out := Null
	for _, st := range p.steps {
		switch st.Kind {
		case StepConstraint:
			if err := check(st.Constraint, cc, v); err != nil {
				return Null, err
			}
		case StepFormat:
			if IsNil(v) {
				out = Null
				continue
			}
			s, err := st.Formatter.Print(v)
			if err != nil {
				return Null, err
			}
			out = Text(s)
		case StepConvert:
			out = st.Conversion.Convert(out)
		}
	}
	return out, nil
}

func check(c Constraint, cc *CellContext, v any) error {
	if IsNil(v) {
		if nc, ok := c.(NilChecker); !ok || !nc.CheckNil() {
			return nil
		}
		v = nil
	}
	return c.Check(cc, v)
}

// IsNil reports whether v is nil or a nil pointer, map, slice or interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
