package constraint_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/rowskema"
	"github.com/reoring/rowskema/constraint"
)

func cell(state *rowskema.UniquenessState, line, row int) *rowskema.CellContext {
	return &rowskema.CellContext{Row: &rowskema.RowContext{Line: line, Row: row, Column: 1}, Field: "f", State: state}
}

func violation(t *testing.T, err error) *rowskema.ConstraintViolation {
	t.Helper()
	var cv *rowskema.ConstraintViolation
	require.ErrorAs(t, err, &cv)
	return cv
}

func TestNumberRange_Inclusivity(t *testing.T) {
	incl, err := constraint.NewNumberRange(10, 20, true)
	require.NoError(t, err)
	excl, err := constraint.NewNumberRange(10, 20, false)
	require.NoError(t, err)

	for _, v := range []int{10, 20, 15} {
		assert.NoError(t, incl.Check(nil, v), "inclusive accepts %d", v)
	}
	for _, v := range []int{9, 21} {
		assert.Error(t, incl.Check(nil, v), "inclusive rejects %d", v)
	}
	for _, v := range []int{10, 20, 9, 21} {
		assert.Error(t, excl.Check(nil, v), "exclusive rejects %d", v)
	}
	assert.NoError(t, excl.Check(nil, 15))

	cv := violation(t, incl.Check(nil, 21))
	assert.Equal(t, rowskema.CodeNumberRange, cv.Code)
	assert.Equal(t, 10, cv.Vars["min"])
	assert.Equal(t, 20, cv.Vars["max"])
}

func TestNumberRange_MixedNumericTypes(t *testing.T) {
	c, err := constraint.NewNumberMin(decimal.RequireFromString("0.5"), true)
	require.NoError(t, err)
	assert.NoError(t, c.Check(nil, 1))
	assert.NoError(t, c.Check(nil, 0.5))
	assert.Error(t, c.Check(nil, int64(0)))

	m, err := constraint.NewNumberMax(100, false)
	require.NoError(t, err)
	assert.Error(t, m.Check(nil, uint8(100)))
	assert.NoError(t, m.Check(nil, 99.9))
}

func TestNumberRange_InvertedBoundsRejected(t *testing.T) {
	_, err := constraint.NewNumberRange(20, 10, true)
	require.Error(t, err)
}

func TestDateTimeRange(t *testing.T) {
	lo := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	hi := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	c, err := constraint.NewDateTimeRange(lo, hi, true)
	require.NoError(t, err)
	assert.NoError(t, c.Check(nil, lo))
	assert.NoError(t, c.Check(nil, hi))
	cv := violation(t, c.Check(nil, hi.Add(time.Second)))
	assert.Equal(t, rowskema.CodeDateTimeRange, cv.Code)
}

func TestUnique_Exact(t *testing.T) {
	state := rowskema.NewUniquenessState()
	c := constraint.NewUnique("id")

	require.NoError(t, c.Check(cell(state, 2, 2), "X"))
	require.NoError(t, c.Check(cell(state, 3, 3), "Y"))
	cv := violation(t, c.Check(cell(state, 5, 5), "X"))
	assert.Equal(t, rowskema.CodeUnique, cv.Code)
	assert.Equal(t, 2, cv.Vars["duplicatedLineNumber"])
	assert.Equal(t, 2, cv.Vars["duplicatedRowNumber"])
}

func TestUnique_StateIsPerInstance(t *testing.T) {
	c := constraint.NewUnique("id")
	require.NoError(t, c.Check(cell(rowskema.NewUniquenessState(), 1, 1), "X"))
	require.NoError(t, c.Check(cell(rowskema.NewUniquenessState(), 1, 1), "X"))
}

func TestUnique_DecimalsCompareByValue(t *testing.T) {
	state := rowskema.NewUniquenessState()
	c := constraint.NewUnique("amount")
	require.NoError(t, c.Check(cell(state, 1, 1), decimal.RequireFromString("1.50")))
	require.Error(t, c.Check(cell(state, 2, 2), decimal.RequireFromString("1.5")))
}

func TestUniqueHash_CollisionIsReported(t *testing.T) {
	state := rowskema.NewUniquenessState()
	c := constraint.NewUniqueHash("name", func(any) uint64 { return 42 })
	require.NoError(t, c.Check(cell(state, 1, 1), "alice"))
	cv := violation(t, c.Check(cell(state, 2, 2), "bob"))
	assert.Equal(t, rowskema.CodeUniqueHash, cv.Code)
	assert.Equal(t, 1, cv.Vars["duplicatedLineNumber"])
}

func TestUniqueHash_DefaultHasher(t *testing.T) {
	state := rowskema.NewUniquenessState()
	c := constraint.NewUniqueHash("name", nil)
	require.NoError(t, c.Check(cell(state, 1, 1), "alice"))
	require.NoError(t, c.Check(cell(state, 2, 2), "bob"))
	require.Error(t, c.Check(cell(state, 3, 3), "alice"))
}

func TestRequire(t *testing.T) {
	r := constraint.Require{}
	assert.Error(t, r.Check(nil, nil))
	assert.NoError(t, r.Check(nil, ""))
	assert.NoError(t, r.Check(nil, 0))

	blank := constraint.Require{ConsiderEmpty: true, ConsiderBlank: true}
	assert.Error(t, blank.Check(nil, ""))
	assert.Error(t, blank.Check(nil, "  "))
	assert.NoError(t, blank.Check(nil, " a "))
}

func TestEquals(t *testing.T) {
	empty, err := constraint.NewEquals(constraint.Values{})
	require.NoError(t, err)
	assert.NoError(t, empty.Check(nil, "anything"))

	c, err := constraint.NewEquals(constraint.Values{1, 2, 3})
	require.NoError(t, err)
	assert.NoError(t, c.Check(nil, int64(2)))
	cv := violation(t, c.Check(nil, 4))
	assert.Equal(t, []any{1, 2, 3}, cv.Vars["equalsValues"])
}

func TestPattern_FullMatch(t *testing.T) {
	c, err := constraint.NewPattern(`[a-z]+`, "lower case letters")
	require.NoError(t, err)
	assert.NoError(t, c.Check(nil, "abc"))
	cv := violation(t, c.Check(nil, "abc1"))
	assert.Equal(t, "[a-z]+", cv.Vars["regex"])
	assert.Equal(t, "lower case letters", cv.Vars["description"])

	_, err = constraint.NewPattern(`(`, "")
	require.Error(t, err)
}

func TestLength(t *testing.T) {
	between, err := constraint.NewLengthBetween(2, 3)
	require.NoError(t, err)
	assert.NoError(t, between.Check(nil, "日本"))
	assert.NoError(t, between.Check(nil, "abc"))
	cv := violation(t, between.Check(nil, "abcd"))
	assert.Equal(t, 4, cv.Vars["length"])

	_, err = constraint.NewLengthBetween(3, 2)
	require.Error(t, err)
	_, err = constraint.NewLengthMin(-1)
	require.Error(t, err)

	exact, err := constraint.NewLengthExact(5, 3, 5)
	require.NoError(t, err)
	cv = violation(t, exact.Check(nil, "ab"))
	assert.Equal(t, "3, 5", cv.Vars["lengths"])
}

func TestWordForbid_ReportsEveryHit(t *testing.T) {
	c, err := constraint.NewWordForbid(constraint.Words{"bad", "ugly", "bad", "evil"})
	require.NoError(t, err)
	assert.NoError(t, c.Check(nil, "good"))
	cv := violation(t, c.Check(nil, "bad and evil"))
	assert.Equal(t, []string{"bad", "evil"}, cv.Vars["words"])
}

func TestWordRequire_ReportsEveryMissingWord(t *testing.T) {
	c, err := constraint.NewWordRequire(constraint.Words{"a", "b", "c"})
	require.NoError(t, err)
	cv := violation(t, c.Check(nil, "xbx"))
	assert.Equal(t, []string{"a", "c"}, cv.Vars["words"])
}

func TestWords_EmptySourceRejected(t *testing.T) {
	_, err := constraint.NewWordForbid(constraint.Words{})
	require.Error(t, err)
	_, err = constraint.NewWordRequire(nil)
	require.Error(t, err)
}

func TestFunc(t *testing.T) {
	even := constraint.Func("even", func(v any) bool { return v.(int)%2 == 0 }, "hint", "even numbers only")
	assert.NoError(t, even.Check(nil, 2))
	cv := violation(t, even.Check(nil, 3))
	assert.Equal(t, "even", cv.Code)
	assert.Equal(t, "even numbers only", cv.Vars["hint"])
}
