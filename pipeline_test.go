package rowskema_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/rowskema"
	"github.com/reoring/rowskema/constraint"
	"github.com/reoring/rowskema/convert"
	"github.com/reoring/rowskema/format"
)

func readPipeline(t *testing.T, steps ...rowskema.Step) *rowskema.Pipeline {
	t.Helper()
	p, err := rowskema.NewPipeline(rowskema.Read, steps...)
	require.NoError(t, err)
	return p
}

func TestPipeline_ReadOrder(t *testing.T) {
	min, err := constraint.NewNumberMin(10, true)
	require.NoError(t, err)
	p := readPipeline(t,
		rowskema.ConvertStep("trim", convert.Trim()),
		rowskema.FormatStep(format.NewNumber[int](format.NumberOptions{})),
		rowskema.ConstraintStep("min", min),
	)

	v, err := p.Read(&rowskema.CellContext{}, rowskema.Text("  12 "))
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	_, err = p.Read(&rowskema.CellContext{}, rowskema.Text("9"))
	var cv *rowskema.ConstraintViolation
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, rowskema.CodeNumberMin, cv.Code)
	assert.Equal(t, 10, cv.Vars["min"])

	_, err = p.Read(&rowskema.CellContext{}, rowskema.Text("x"))
	var pe *rowskema.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "x", pe.Text)
}

func TestPipeline_NilSkipsConstraintsExceptRequire(t *testing.T) {
	min, err := constraint.NewNumberMin(10, true)
	require.NoError(t, err)
	p := readPipeline(t,
		rowskema.FormatStep(format.NewNumber[int](format.NumberOptions{})),
		rowskema.ConstraintStep("min", min),
	)
	v, err := p.Read(&rowskema.CellContext{}, rowskema.Null)
	require.NoError(t, err)
	assert.Nil(t, v)

	req := readPipeline(t,
		rowskema.FormatStep(format.NewNumber[int](format.NumberOptions{})),
		rowskema.ConstraintStep("required", constraint.Require{}),
		rowskema.ConstraintStep("min", min),
	)
	_, err = req.Read(&rowskema.CellContext{}, rowskema.Null)
	var cv *rowskema.ConstraintViolation
	require.ErrorAs(t, err, &cv)
	assert.Equal(t, rowskema.CodeRequired, cv.Code)
}

func TestPipeline_WriteOrder(t *testing.T) {
	p, err := rowskema.NewPipeline(rowskema.Write,
		rowskema.ConstraintStep("required", constraint.Require{}),
		rowskema.FormatStep(format.NewNumber[int](format.NumberOptions{})),
		rowskema.ConvertStep("default", convert.Default("0")),
	)
	require.NoError(t, err)

	out, err := p.Write(&rowskema.CellContext{}, 42)
	require.NoError(t, err)
	assert.Equal(t, rowskema.Text("42"), out)

	_, err = p.Write(&rowskema.CellContext{}, nil)
	var cv *rowskema.ConstraintViolation
	require.ErrorAs(t, err, &cv)
}

func TestNewPipeline_Ordering(t *testing.T) {
	num := rowskema.FormatStep(format.NewNumber[int](format.NumberOptions{}))
	cases := []struct {
		name  string
		dir   rowskema.Direction
		steps []rowskema.Step
	}{
		{"no format", rowskema.Read, []rowskema.Step{rowskema.ConvertStep("trim", convert.Trim())}},
		{"two formats", rowskema.Read, []rowskema.Step{num, num}},
		{"read conversion after format", rowskema.Read, []rowskema.Step{num, rowskema.ConvertStep("trim", convert.Trim())}},
		{"read constraint before format", rowskema.Read, []rowskema.Step{rowskema.ConstraintStep("required", constraint.Require{}), num}},
		{"write conversion before format", rowskema.Write, []rowskema.Step{rowskema.ConvertStep("trim", convert.Trim()), num}},
		{"nil formatter", rowskema.Read, []rowskema.Step{{Kind: rowskema.StepFormat}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rowskema.NewPipeline(tc.dir, tc.steps...)
			var se rowskema.SchemaError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, rowskema.CodeSchemaInvalid, se.Code)
		})
	}
}

func TestUniquenessState(t *testing.T) {
	st := rowskema.NewUniquenessState()
	owner := "id"
	_, dup := st.Remember(owner, 1, rowskema.Position{Line: 2, Row: 2})
	assert.False(t, dup)
	first, dup := st.Remember(owner, 1, rowskema.Position{Line: 5, Row: 5})
	assert.True(t, dup)
	assert.Equal(t, 2, first.Line)

	// equal instants in different zones collide
	at := time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
	_, dup = st.Remember(owner, at, rowskema.Position{Line: 6})
	assert.False(t, dup)
	_, dup = st.Remember(owner, at.In(time.FixedZone("JST", 9*3600)), rowskema.Position{Line: 7})
	assert.True(t, dup)

	_, dup = st.Remember("other", 1, rowskema.Position{Line: 8})
	assert.False(t, dup)
	assert.Equal(t, 2, st.Len(owner))

	st.Reset()
	assert.Equal(t, 0, st.Len(owner))
}

func TestRowError(t *testing.T) {
	re := &rowskema.RowError{Line: 4, Row: 3}
	re.Add(
		rowskema.ValidationError{Column: 1, Field: "id", Code: rowskema.CodeRequired},
		rowskema.ValidationError{Column: 2, Field: "name", Code: rowskema.CodeLengthMax},
		rowskema.ValidationError{Code: rowskema.CodeRowRule},
		rowskema.ValidationError{Column: 3, Field: "price", Code: rowskema.CodeNumberMin},
	)
	require.True(t, re.HasErrors())
	assert.Equal(t, 4, re.Errors[0].Line)
	assert.Equal(t, 3, re.Errors[2].Row)
	assert.True(t, re.HasFieldErrors("name"))
	assert.False(t, re.HasFieldErrors("other"))
	assert.Len(t, re.FieldErrors("price"), 1)
	assert.Equal(t, "required at 4:1; length_max at 4:2; row_rule at 4; ... (total 4)", re.Error())

	wrapped := errors.Join(errors.New("ctx"), re)
	got, ok := rowskema.AsRowError(wrapped)
	require.True(t, ok)
	assert.Same(t, re, got)
	assert.True(t, rowskema.IsRecoverable(wrapped))
	assert.True(t, rowskema.IsRecoverable(&rowskema.RowStructureError{Code: rowskema.CodeColumnSize}))
	assert.False(t, rowskema.IsRecoverable(&rowskema.BindingError{Field: "id", Cause: errors.New("x")}))
}

func TestSchemaErrors(t *testing.T) {
	var errs rowskema.SchemaErrors
	assert.NoError(t, errs.ErrOrNil())
	errs = rowskema.AppendSchemaErrors(errs,
		nil,
		rowskema.SchemaError{Field: "a", Code: rowskema.CodeDuplicatePosition, Message: "dup"},
		rowskema.SchemaErrors{{Code: rowskema.CodeMissingPosition, Message: "gap"}},
		errors.New("plain"),
	)
	require.Len(t, errs, 3)
	assert.Equal(t, rowskema.CodeSchemaInvalid, errs[2].Code)

	got, ok := rowskema.AsSchemaErrors(errs.ErrOrNil())
	require.True(t, ok)
	assert.Len(t, got, 3)

	one, ok := rowskema.AsSchemaErrors(rowskema.SchemaError{Code: rowskema.CodeBinding})
	require.True(t, ok)
	assert.Len(t, one, 1)
}

func TestProviders(t *testing.T) {
	p := rowskema.NewProviders().Register("words", []string{"a"})
	v, ok := rowskema.Provide[[]string](p, "words")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, v)

	_, ok = rowskema.Provide[int](p, "words")
	assert.False(t, ok)

	_, err := rowskema.RequireProvider[int](p, "f", "missing")
	var se rowskema.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, rowskema.CodeProviderMissing, se.Code)
	assert.Equal(t, "f", se.Field)
}
