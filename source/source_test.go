package source_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"github.com/reoring/rowskema/fixedwidth"
	"github.com/reoring/rowskema/source"
)

func drain(t *testing.T, rows source.Rows) []source.Row {
	t.Helper()
	var out []source.Row
	for {
		r, err := rows.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, r)
	}
}

func TestCSV_TracksPhysicalLines(t *testing.T) {
	in := "id,name\n1,\"multi\nline\"\n2,short,extra\n"
	rows, err := source.CSV(strings.NewReader(in), source.CSVOptions{})
	require.NoError(t, err)

	got := drain(t, rows)
	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].Line)
	assert.Equal(t, 2, got[1].Line)
	assert.Equal(t, []string{"1", "multi\nline"}, got[1].Cols)
	assert.Equal(t, 4, got[2].Line)
	assert.Len(t, got[2].Cols, 3)
}

func TestCSV_StripsBOM(t *testing.T) {
	rows, err := source.CSV(strings.NewReader("\xef\xbb\xbfid\n1\n"), source.CSVOptions{})
	require.NoError(t, err)
	got := drain(t, rows)
	assert.Equal(t, []string{"id"}, got[0].Cols)
}

func TestCSV_ShiftJIS(t *testing.T) {
	encoded, err := japanese.ShiftJIS.NewEncoder().String("名前,年齢\n山田,30\n")
	require.NoError(t, err)
	rows, err := source.CSV(strings.NewReader(encoded), source.CSVOptions{Charset: "windows-31j"})
	require.NoError(t, err)
	got := drain(t, rows)
	assert.Equal(t, []string{"名前", "年齢"}, got[0].Cols)
	assert.Equal(t, []string{"山田", "30"}, got[1].Cols)
}

func TestUnknownCharset(t *testing.T) {
	_, err := source.CSV(strings.NewReader(""), source.CSVOptions{Charset: "klingon"})
	require.Error(t, err)
}

func TestFixedWidth_SkipsCommentsAndEmptyLines(t *testing.T) {
	in := "# header comment\r\nabc1234\r\n\r\nxyz9999\r\n"
	rows, err := source.FixedWidth(strings.NewReader(in), source.FixedOptions{
		ReaderOptions: fixedwidth.ReaderOptions{
			IgnoreEmptyLines: true,
			Comment:          func(s string) bool { return strings.HasPrefix(s, "#") },
		},
	})
	require.NoError(t, err)
	got := drain(t, rows)
	require.Len(t, got, 2)
	assert.Equal(t, source.Row{Line: 2, Text: "abc1234"}, got[0])
	assert.Equal(t, source.Row{Line: 4, Text: "xyz9999"}, got[1])
}

func TestSinks(t *testing.T) {
	var csvOut bytes.Buffer
	cs, err := source.CSVSink(&csvOut, source.CSVWriteOptions{UseCRLF: true})
	require.NoError(t, err)
	require.NoError(t, cs.WriteRow(source.Row{Cols: []string{"a", "b,c"}}))
	require.NoError(t, cs.Flush())
	assert.Equal(t, "a,\"b,c\"\r\n", csvOut.String())

	var fwOut bytes.Buffer
	fs, err := source.FixedWidthSink(&fwOut, "", "shift_jis")
	require.NoError(t, err)
	require.NoError(t, fs.WriteRow(source.Row{Text: "山田"}))
	require.NoError(t, fs.Flush())
	want, err := japanese.ShiftJIS.NewEncoder().String("山田\r\n")
	require.NoError(t, err)
	assert.Equal(t, want, fwOut.String())
}

func TestSliceAndCollector(t *testing.T) {
	got := drain(t, source.Slice([]string{"a"}, []string{"b"}))
	assert.Equal(t, 2, got[1].Line)

	var c source.Collector
	cols := []string{"x"}
	require.NoError(t, c.WriteRow(source.Row{Cols: cols}))
	cols[0] = "changed"
	assert.Equal(t, "x", c.Rows[0].Cols[0])
}
