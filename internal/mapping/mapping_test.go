package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/rowskema"
	"github.com/reoring/rowskema/fixedwidth"
	"github.com/reoring/rowskema/internal/mapping"
)

func fields(specs ...rowskema.FieldSpec) []rowskema.FieldSpec { return specs }

func positions(cols []rowskema.ColumnMapping) map[string]int {
	out := map[string]int{}
	for _, c := range cols {
		out[c.Label] = c.Position
	}
	return out
}

func schemaCode(t *testing.T, err error) string {
	t.Helper()
	es, ok := rowskema.AsSchemaErrors(err)
	require.True(t, ok, "expected schema errors, got %v", err)
	return es[0].Code
}

func TestResolve_HeaderAssignsPositions(t *testing.T) {
	cols, err := mapping.Resolve(fields(
		rowskema.FieldSpec{Name: "name"},
		rowskema.FieldSpec{Name: "age"},
	), []string{"name", "age"}, mapping.Options{})
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, 1, cols[0].Position)
	assert.Equal(t, "name", cols[0].Name)
	assert.Equal(t, 2, cols[1].Position)
	assert.Equal(t, "age", cols[1].Name)
}

func TestResolve_FirstUndeterminedFieldWins(t *testing.T) {
	cols, err := mapping.Resolve(fields(
		rowskema.FieldSpec{Name: "a", Label: "x"},
		rowskema.FieldSpec{Name: "b", Label: "x"},
	), []string{"x", "x"}, mapping.Options{})
	require.NoError(t, err)
	assert.Equal(t, "a", cols[0].Name)
	assert.Equal(t, "b", cols[1].Name)
}

func TestResolve_DeclaredPositionUntouched(t *testing.T) {
	cols, err := mapping.Resolve(fields(
		rowskema.FieldSpec{Name: "id", Position: 3},
		rowskema.FieldSpec{Name: "name"},
		rowskema.FieldSpec{Name: "age"},
	), []string{"age", "name", "id"}, mapping.Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"age": 1, "name": 2, "id": 3}, positions(cols))
}

func TestResolve_UnmatchedFieldIsMissingForReaders(t *testing.T) {
	_, err := mapping.Resolve(fields(
		rowskema.FieldSpec{Name: "name"},
		rowskema.FieldSpec{Name: "email"},
	), []string{"name", "age"}, mapping.Options{})
	require.Error(t, err)
	assert.Equal(t, rowskema.CodeMissingPosition, schemaCode(t, err))
}

func TestResolve_WriterAssignsLowestUnused(t *testing.T) {
	cols, err := mapping.Resolve(fields(
		rowskema.FieldSpec{Name: "a"},
		rowskema.FieldSpec{Name: "b", Position: 1},
		rowskema.FieldSpec{Name: "c"},
	), nil, mapping.Options{AssignUnmatched: true})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"b": 1, "a": 2, "c": 3}, positions(cols))
}

func TestResolve_DuplicatePositionIsFatal(t *testing.T) {
	_, err := mapping.Resolve(fields(
		rowskema.FieldSpec{Name: "a", Position: 1},
		rowskema.FieldSpec{Name: "b", Position: 1},
	), nil, mapping.Options{})
	require.Error(t, err)
	assert.Equal(t, rowskema.CodeDuplicatePosition, schemaCode(t, err))
}

func TestResolve_PositionBelowOne(t *testing.T) {
	_, err := mapping.Resolve(fields(rowskema.FieldSpec{Name: "a", Position: -1}), nil, mapping.Options{})
	require.Error(t, err)
	assert.Equal(t, rowskema.CodeSchemaInvalid, schemaCode(t, err))
}

func TestResolve_GapPolicies(t *testing.T) {
	fs := fields(
		rowskema.FieldSpec{Name: "a", Position: 1},
		rowskema.FieldSpec{Name: "c", Position: 3},
	)

	_, err := mapping.Resolve(fs, nil, mapping.Options{})
	require.Error(t, err)
	assert.Equal(t, rowskema.CodeMissingPosition, schemaCode(t, err))

	cols, err := mapping.Resolve(fs, nil, mapping.Options{Partial: rowskema.Partial{
		Policy: rowskema.PartialAnonymous,
		Size:   5,
		Labels: map[int]string{5: "memo"},
	}})
	require.NoError(t, err)
	require.Len(t, cols, 5)
	assert.True(t, cols[1].Anonymous())
	assert.Equal(t, "column2", cols[1].Label)
	assert.Equal(t, "column4", cols[3].Label)
	assert.Equal(t, "memo", cols[4].Label)
	assert.False(t, cols[2].Anonymous())
}

func TestResolve_AnonymousTakesHeaderLabel(t *testing.T) {
	cols, err := mapping.Resolve(fields(
		rowskema.FieldSpec{Name: "name"},
	), []string{"id", "name"}, mapping.Options{Partial: rowskema.Partial{Policy: rowskema.PartialAnonymous}})
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.True(t, cols[0].Anonymous())
	assert.Equal(t, "id", cols[0].Label)
	assert.Equal(t, 2, cols[1].Position)
}

func TestResolve_PartialSizeBelowLargestPosition(t *testing.T) {
	_, err := mapping.Resolve(fields(rowskema.FieldSpec{Name: "a", Position: 4}), nil, mapping.Options{
		Partial: rowskema.Partial{Policy: rowskema.PartialAnonymous, Size: 2},
	})
	require.Error(t, err)
}

func TestResolve_AnonymousFixedColumns(t *testing.T) {
	cols, err := mapping.Resolve(fields(
		rowskema.FieldSpec{Name: "a", Position: 1, Fixed: &fixedwidth.Column{Size: 2}},
		rowskema.FieldSpec{Name: "b", Position: 3, Fixed: &fixedwidth.Column{Size: 4}},
	), nil, mapping.Options{Partial: rowskema.Partial{
		Policy:  rowskema.PartialAnonymous,
		Size:    4,
		Columns: map[int]fixedwidth.Column{2: {Size: 10}},
	}})
	require.NoError(t, err)
	require.Len(t, cols, 4)
	require.NotNil(t, cols[1].Fixed)
	assert.Equal(t, 10, cols[1].Fixed.Size)
	assert.Nil(t, cols[3].Fixed, "no declaration for position 4")
}
