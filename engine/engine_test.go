package engine_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/rowskema"
	"github.com/reoring/rowskema/dsl"
	"github.com/reoring/rowskema/engine"
	"github.com/reoring/rowskema/fixedwidth"
	"github.com/reoring/rowskema/source"
)

type item struct {
	ID    int    `csv:"id"`
	Name  string `csv:"name"`
	Price int    `csv:"price"`
	trace []string
}

func (i *item) BeforeRead()                       { i.trace = append(i.trace, "before") }
func (i *item) AfterRead(errs *rowskema.RowError) { i.trace = append(i.trace, "after") }

func itemSchema(t *testing.T) *rowskema.SchemaCache {
	t.Helper()
	b := dsl.Record()
	b.Field("id").Position(1).Required().Unique()
	b.Field("name").Position(2).RequiredText(true, false)
	b.Field("price").Position(3).Min("0", true)
	cache, err := dsl.Compile[item](b)
	require.NoError(t, err)
	return cache
}

func codes(re *rowskema.RowError) []string {
	var out []string
	for _, ve := range re.Errors {
		out = append(out, ve.Code)
	}
	return out
}

func TestReader_Read(t *testing.T) {
	r := engine.NewReader[item](itemSchema(t))
	rec, err := r.Read([]string{"7", "apple", "120"}, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, rec.ID)
	assert.Equal(t, "apple", rec.Name)
	assert.Equal(t, 120, rec.Price)
	assert.Equal(t, []string{"before", "after"}, rec.trace)
	assert.Equal(t, engine.PhaseDone, r.Phase())
}

func TestReader_AggregatesColumnErrors(t *testing.T) {
	r := engine.NewReader[item](itemSchema(t))
	_, err := r.Read([]string{"x", "", "-5"}, 3)
	re, ok := rowskema.AsRowError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, []string{rowskema.CodeTypeMismatch, rowskema.CodeRequired, rowskema.CodeNumberMin}, codes(re))
	for i, ve := range re.Errors {
		assert.Equal(t, 3, ve.Line)
		assert.Equal(t, 1, ve.Row)
		assert.Equal(t, i+1, ve.Column)
		assert.Equal(t, i+1, ve.Vars["columnNumber"])
		assert.Equal(t, 3, ve.Vars["lineNumber"])
	}
	assert.Equal(t, "x", re.Errors[0].Rejected)
	assert.Equal(t, "id", re.Errors[0].Vars["label"])
	assert.Equal(t, engine.PhaseFailed, r.Phase())
}

func TestReader_ColumnSizeBeforePipelines(t *testing.T) {
	r := engine.NewReader[item](itemSchema(t))
	_, err := r.Read([]string{"x", ""}, 1)
	se, ok := rowskema.AsRowStructureError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, rowskema.CodeColumnSize, se.Code)
	assert.Equal(t, 3, se.Vars["expectedSize"])
	assert.Equal(t, 2, se.Vars["actualSize"])
}

func TestReader_UniqueAcrossRows(t *testing.T) {
	cache := itemSchema(t)
	r := engine.NewReader[item](cache)
	_, err := r.Read([]string{"1", "a", "1"}, 1)
	require.NoError(t, err)
	_, err = r.Read([]string{"2", "b", "1"}, 2)
	require.NoError(t, err)
	_, err = r.Read([]string{"1", "c", "1"}, 3)
	re, ok := rowskema.AsRowError(err)
	require.True(t, ok)
	assert.Equal(t, []string{rowskema.CodeUnique}, codes(re))

	// A second reader over the same cache starts with a fresh state.
	other := engine.NewReader[item](cache)
	_, err = other.Read([]string{"1", "a", "1"}, 1)
	require.NoError(t, err)
}

func TestReader_RowValidatorSeesRawForFailedColumns(t *testing.T) {
	var seen map[string]any
	b := dsl.Record()
	b.Field("id").Position(1)
	b.Field("name").Position(2)
	b.Field("price").Position(3)
	b.Validate(rowskema.RowValidatorFunc(func(v rowskema.RowView) []rowskema.ValidationError {
		seen = v.Values
		if v.HasFieldErrors("price") {
			return nil
		}
		return []rowskema.ValidationError{{Code: "cross", Field: "price", Column: 3}}
	}))
	cache, err := dsl.Compile[item](b)
	require.NoError(t, err)

	r := engine.NewReader[item](cache)
	_, err = r.Read([]string{"bad", "a", "10"}, 4)
	re, ok := rowskema.AsRowError(err)
	require.True(t, ok)
	assert.Equal(t, []string{rowskema.CodeTypeMismatch, "cross"}, codes(re))
	assert.Equal(t, "bad", seen["id"])
	assert.Equal(t, 10, seen["price"])
	assert.Equal(t, 4, re.Errors[1].Line)
	assert.Equal(t, 3, re.Errors[1].Vars["columnNumber"])
}

func fiveRows() source.Rows {
	return source.Slice(
		[]string{"1", "a", "10"},
		[]string{"2", "b", "20"},
		[]string{"3", "c"},
		[]string{"4", "d", "40"},
		[]string{"5", "e", "50"},
	)
}

func TestReadAll_ContinueOnError(t *testing.T) {
	r := engine.NewReader[item](itemSchema(t))
	recs, skipped, err := r.ReadAll(fiveRows(), true)
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, []int{1, 2, 4, 5}, []int{recs[0].ID, recs[1].ID, recs[2].ID, recs[3].ID})
	require.Len(t, skipped, 1)
	se, ok := rowskema.AsRowStructureError(skipped[0])
	require.True(t, ok)
	assert.Equal(t, 3, se.Line)
}

func TestReadAll_StopOnError(t *testing.T) {
	r := engine.NewReader[item](itemSchema(t))
	recs, skipped, err := r.ReadAll(fiveRows(), false)
	require.Error(t, err)
	assert.Empty(t, recs)
	assert.Empty(t, skipped)
	_, ok := rowskema.AsRowStructureError(err)
	assert.True(t, ok)
}

func TestNextAndEach(t *testing.T) {
	r := engine.NewReader[item](itemSchema(t))
	src := source.Slice([]string{"1", "a", "1"})
	rec, st, err := r.Next(src)
	require.NoError(t, err)
	assert.Equal(t, rowskema.StatusSuccess, st)
	assert.Equal(t, 1, rec.ID)
	_, st, err = r.Next(src)
	require.NoError(t, err)
	assert.Equal(t, rowskema.StatusEOF, st)

	var ok, bad int
	r = engine.NewReader[item](itemSchema(t))
	err = r.Each(fiveRows(),
		func(item) error { ok++; return nil },
		func(error) error { bad++; return nil })
	require.NoError(t, err)
	assert.Equal(t, 4, ok)
	assert.Equal(t, 1, bad)
}

func TestReadHeader(t *testing.T) {
	cache := itemSchema(t)

	r := engine.NewReader[item](cache)
	h, err := r.ReadHeader(source.Slice([]string{"id", "name", "price"}), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "price"}, h)

	_, err = engine.NewReader[item](cache).ReadHeader(source.Slice([]string{"id", "name"}), true)
	var hm *rowskema.HeaderMismatchError
	require.ErrorAs(t, err, &hm)
	assert.Equal(t, rowskema.CodeHeaderSize, hm.Code)

	_, err = engine.NewReader[item](cache).ReadHeader(source.Slice([]string{"id", "title", "price"}), true)
	require.ErrorAs(t, err, &hm)
	assert.Equal(t, rowskema.CodeHeaderMismatch, hm.Code)

	_, err = engine.NewReader[item](cache).ReadHeader(source.Slice([]string{"id", "title", "price"}), false)
	require.NoError(t, err)
}

func TestWriter_Write(t *testing.T) {
	w := engine.NewWriter[item](itemSchema(t))
	sink := &source.Collector{}
	require.NoError(t, w.WriteHeader(sink))
	skipped, err := w.WriteAll(sink, []item{
		{ID: 1, Name: "a", Price: 5},
		{ID: 2, Name: "", Price: 6},
		{ID: 1, Name: "c", Price: 7},
	}, true)
	require.NoError(t, err)
	require.Len(t, skipped, 2)

	re, ok := rowskema.AsRowError(skipped[0])
	require.True(t, ok)
	assert.Equal(t, []string{rowskema.CodeRequired}, codes(re))
	re, ok = rowskema.AsRowError(skipped[1])
	require.True(t, ok)
	assert.Equal(t, []string{rowskema.CodeUnique}, codes(re))

	require.Len(t, sink.Rows, 2)
	assert.Equal(t, []string{"id", "name", "price"}, sink.Rows[0].Cols)
	assert.Equal(t, []string{"1", "a", "5"}, sink.Rows[1].Cols)
}

func TestWriter_ReadOnlyColumnIsBlank(t *testing.T) {
	b := dsl.Record()
	b.Field("id").Position(1)
	b.Field("name").Position(2).ReadOnly()
	cache, err := dsl.Compile[item](b)
	require.NoError(t, err)

	row, err := engine.NewWriter[item](cache).Write(item{ID: 3, Name: "hidden"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", ""}, row.Cols)
}

func fixedSchema(t *testing.T) *rowskema.SchemaCache {
	t.Helper()
	b := dsl.Record().Fixed()
	b.Field("id").Position(1).FixedSize(fixedwidth.Column{Size: 5, PadChar: '0', RightAlign: true})
	b.Field("name").Position(2).FixedSize(fixedwidth.Column{Size: 6})
	cache, err := dsl.Compile[item](b)
	require.NoError(t, err)
	return cache
}

func TestFixedWidth_RoundTrip(t *testing.T) {
	cache := fixedSchema(t)
	w := engine.NewWriter[item](cache)
	hdr, err := w.Header()
	require.NoError(t, err)
	assert.Equal(t, "000idname  ", hdr.Text)

	row, err := w.Write(item{ID: 42, Name: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "00042abc   ", row.Text)

	r := engine.NewReader[item](cache)
	rec, err := r.ReadRow(source.Row{Line: 2, Text: row.Text})
	require.NoError(t, err)
	assert.Equal(t, 42, rec.ID)
	assert.Equal(t, "abc", rec.Name)
}

func TestFixedWidth_PartialGapColumn(t *testing.T) {
	b := dsl.Record().Fixed().Partial(rowskema.Partial{
		Policy:  rowskema.PartialAnonymous,
		Labels:  map[int]string{2: "tag"},
		Columns: map[int]fixedwidth.Column{2: {Size: 3}},
	})
	b.Field("id").Position(1).FixedSize(fixedwidth.Column{Size: 5, PadChar: '0', RightAlign: true})
	b.Field("name").Position(3).FixedSize(fixedwidth.Column{Size: 6})
	cache, err := dsl.Compile[item](b)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "tag", "name"}, cache.Headers())

	w := engine.NewWriter[item](cache)
	hdr, err := w.Header()
	require.NoError(t, err)
	assert.Equal(t, "000idtagname  ", hdr.Text)
	row, err := w.Write(item{ID: 42, Name: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "00042   abc   ", row.Text)

	rec, err := engine.NewReader[item](cache).ReadRow(source.Row{Line: 2, Text: "00042xyzabc   "})
	require.NoError(t, err)
	assert.Equal(t, 42, rec.ID)
	assert.Equal(t, "abc", rec.Name)
}

func TestFixedWidth_StructureErrors(t *testing.T) {
	cache := fixedSchema(t)

	_, err := engine.NewWriter[item](cache).Write(item{ID: 1, Name: "abcdefgh"})
	se, ok := rowskema.AsRowStructureError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, rowskema.CodeFixedSizeOver, se.Code)
	assert.Equal(t, 2, se.Column)
	assert.Equal(t, 8, se.Vars["actualSize"])

	_, err = engine.NewWriter[item](cache).Write(item{ID: 1, Name: "a\nb"})
	se, ok = rowskema.AsRowStructureError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, rowskema.CodeFixedSizeLineBreak, se.Code)

	_, err = engine.NewReader[item](cache).ReadRow(source.Row{Line: 1, Text: "00042ab"})
	se, ok = rowskema.AsRowStructureError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, rowskema.CodeFixedSizeInsufficient, se.Code)
	assert.Equal(t, 6, se.Vars["declaredSize"])

	_, err = engine.NewReader[item](cache).ReadRow(source.Row{Line: 1, Text: "00042"})
	se, ok = rowskema.AsRowStructureError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, rowskema.CodeColumnSize, se.Code)
}

func TestLazyReader(t *testing.T) {
	b := dsl.Record()
	b.Field("id").Required()
	b.Field("name")
	b.Field("price")
	bd, err := dsl.Bind[item](b)
	require.NoError(t, err)

	lr := engine.NewLazyReader(bd, nil)
	_, err = lr.Read([]string{"1"}, 1)
	require.ErrorIs(t, err, rowskema.ErrNotInitialized)

	src := source.Slice(
		[]string{"price", "id", "name"},
		[]string{"10", "1", "a"},
		[]string{"20", "", "b"},
	)
	require.NoError(t, lr.InitFrom(src))
	assert.Equal(t, []string{"price", "id", "name"}, lr.Cache().Headers())

	recs, skipped, err := lr.ReadAll(src, true)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, item{ID: 1, Name: "a", Price: 10, trace: []string{"before", "after"}}, recs[0])
	require.Len(t, skipped, 1)
	re, _ := rowskema.AsRowError(skipped[0])
	require.NotNil(t, re)
	assert.Equal(t, 3, re.Row)
	assert.Equal(t, 3, re.Line)
	assert.Equal(t, 2, re.Errors[0].Column)
}

func TestLazyReader_UnknownHeader(t *testing.T) {
	b := dsl.Record()
	b.Field("id")
	b.Field("name")
	bd := dsl.MustBind[item](b)

	lr := engine.NewLazyReader(bd, nil)
	err := lr.Init([]string{"id", "title"})
	require.Error(t, err)
	assert.False(t, lr.Initialized())
	assert.True(t, strings.Contains(err.Error(), rowskema.CodeMissingPosition))
}
