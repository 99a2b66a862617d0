package fixedwidth_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/rowskema/fixedwidth"
)

func simpleCols(sizes ...int) []fixedwidth.Column {
	cols := make([]fixedwidth.Column, len(sizes))
	for i, s := range sizes {
		cols[i] = fixedwidth.Column{Size: s, Counter: fixedwidth.Simple}
	}
	return cols
}

func TestTokenize_SimpleCounter(t *testing.T) {
	tokens, err := fixedwidth.Tokenize("abcdefg", simpleCols(3, 4))
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "defg"}, tokens)
}

func TestTokenize_Insufficient(t *testing.T) {
	_, err := fixedwidth.Tokenize("ab", simpleCols(3, 4))
	var iw *fixedwidth.InsufficientWidthError
	require.ErrorAs(t, err, &iw)
	assert.Equal(t, 3, iw.DeclaredSize)
	assert.Equal(t, 2, iw.ActualSize)
	assert.Equal(t, 1, iw.Column)
}

func TestTokenize_OverflowBecomesExtraColumn(t *testing.T) {
	tokens, err := fixedwidth.Tokenize("abcdefgXY", simpleCols(3, 4))
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "defg", "XY"}, tokens)
}

func TestTokenize_ShortLineStopsEarly(t *testing.T) {
	tokens, err := fixedwidth.Tokenize("abc", simpleCols(3, 4))
	require.NoError(t, err)
	assert.Equal(t, []string{"abc"}, tokens)
}

func TestTokenize_WideCharacters(t *testing.T) {
	cols := []fixedwidth.Column{{Size: 4, Counter: fixedwidth.CharWidth}, {Size: 2, Counter: fixedwidth.CharWidth}}
	tokens, err := fixedwidth.Tokenize("日本ab", cols)
	require.NoError(t, err)
	assert.Equal(t, []string{"日本", "ab"}, tokens)
}

func TestCharWidth(t *testing.T) {
	assert.Equal(t, 4, fixedwidth.Counter(fixedwidth.CharWidth).Count("日本"))
	assert.Equal(t, 2, fixedwidth.Counter(fixedwidth.CharWidth).Count("ab"))
	// halfwidth katakana
	assert.Equal(t, 2, fixedwidth.Counter(fixedwidth.CharWidth).Count("ｱｲ"))
	assert.Equal(t, 2, fixedwidth.Counter(fixedwidth.CharWidth).Count("Ａ"))
}

func TestByteSize(t *testing.T) {
	assert.Equal(t, 6, fixedwidth.Counter(fixedwidth.UTF8Bytes).Count("日本"))
	assert.Equal(t, 4, fixedwidth.ShiftJISBytes.Count("日本"))
	assert.Equal(t, 4, fixedwidth.EUCJPBytes.Count("日本"))
	assert.Equal(t, 2, fixedwidth.ShiftJISBytes.Count("ab"))
}

func TestEncode(t *testing.T) {
	cols := []fixedwidth.Column{{Size: 4, Counter: fixedwidth.CharWidth}, {Size: 3, Counter: fixedwidth.CharWidth}}

	line, err := fixedwidth.Encode(cols, []string{"日本", "abc"})
	require.NoError(t, err)
	assert.Equal(t, "日本abc", line)

	_, err = fixedwidth.Encode(cols, []string{"日本語", "abc"})
	var over *fixedwidth.OverflowError
	require.ErrorAs(t, err, &over)
	assert.Equal(t, 6, over.ActualSize)
	assert.Equal(t, 4, over.DeclaredSize)

	_, err = fixedwidth.Encode(cols, []string{"a\nb", "abc"})
	var lb *fixedwidth.LineBreakError
	require.ErrorAs(t, err, &lb)
	assert.Equal(t, 1, lb.Column)
}

func TestPad(t *testing.T) {
	tests := []struct {
		name string
		text string
		col  fixedwidth.Column
		want string
	}{
		{"left", "ab", fixedwidth.Column{Size: 5}, "ab   "},
		{"right zero", "12", fixedwidth.Column{Size: 5, PadChar: '0', RightAlign: true}, "00012"},
		{"exact", "abcde", fixedwidth.Column{Size: 5}, "abcde"},
		{"over kept", "abcdef", fixedwidth.Column{Size: 5}, "abcdef"},
		{"over chopped left", "abcdef", fixedwidth.Column{Size: 5, Chopped: true}, "abcde"},
		{"over chopped right", "abcdef", fixedwidth.Column{Size: 5, Chopped: true, RightAlign: true}, "bcdef"},
		{"wide chop repads", "日本語", fixedwidth.Column{Size: 5, Chopped: true}, "日本 "},
		{"wide pad char leaves gap", "a", fixedwidth.Column{Size: 4, PadChar: '　'}, "a　"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fixedwidth.Pad(tt.text, tt.col))
		})
	}
}

func TestPadThenTokenize_RoundTrip(t *testing.T) {
	cols := []fixedwidth.Column{
		{Size: 6, Counter: fixedwidth.CharWidth},
		{Size: 5, Counter: fixedwidth.CharWidth, PadChar: '0', RightAlign: true},
	}
	vals := []string{fixedwidth.Pad("山田", cols[0]), fixedwidth.Pad("42", cols[1])}
	line, err := fixedwidth.Encode(cols, vals)
	require.NoError(t, err)
	assert.Equal(t, "山田  00042", line)

	tokens, err := fixedwidth.Tokenize(line, cols)
	require.NoError(t, err)
	assert.Equal(t, "山田", fixedwidth.Trim(tokens[0], ' ', false))
	assert.Equal(t, "42", fixedwidth.Trim(tokens[1], '0', true))
}

func TestReader_SkipsCommentsAndEmptyLines(t *testing.T) {
	in := "#comment\r\nabc\r\n\r\ndef\n"
	r := fixedwidth.NewReader(strings.NewReader(in), fixedwidth.ReaderOptions{
		IgnoreEmptyLines: true,
		Comment:          func(l string) bool { return strings.HasPrefix(l, "#") },
	})
	line, n, err := r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "abc", line)
	assert.Equal(t, 2, n)
	line, n, err = r.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "def", line)
	assert.Equal(t, 4, n)
	_, _, err = r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestWriter_DefaultEOL(t *testing.T) {
	var b strings.Builder
	w := fixedwidth.NewWriter(&b, "")
	require.NoError(t, w.WriteLine("abc"))
	require.NoError(t, w.Flush())
	assert.Equal(t, "abc\r\n", b.String())
}
