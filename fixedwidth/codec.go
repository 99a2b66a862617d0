package fixedwidth

import (
	"fmt"
	"strings"
)

// Tokenize splits line into columns by counted width. A column may end up
// wider than declared when a multi-width character straddles its boundary.
// Tokenizing stops when the line is exhausted, so a short line yields fewer
// tokens than columns; any text left after the last column becomes one
// extra token.
func Tokenize(line string, cols []Column) ([]string, error) {
	runes := []rune(line)
	tokens := make([]string, 0, len(cols)+1)
	pos := 0
	for i, col := range cols {
		if pos >= len(runes) {
			break
		}
		count := col.counter()
		start, actual := pos, 0
		for actual < col.Size && pos < len(runes) {
			actual += count(runes[pos])
			pos++
		}
		if actual < col.Size {
			return nil, &InsufficientWidthError{Column: i + 1, DeclaredSize: col.Size, ActualSize: actual}
		}
		tokens = append(tokens, string(runes[start:pos]))
	}
	if pos < len(runes) {
		tokens = append(tokens, string(runes[pos:]))
	}
	return tokens, nil
}

// Check validates one value against its column without modifying it.
func Check(col Column, column int, value string) error {
	if actual := col.Width(value); actual > col.Size {
		return &OverflowError{Column: column, DeclaredSize: col.Size, ActualSize: actual, Value: value}
	}
	if strings.ContainsAny(value, "\r\n") {
		return &LineBreakError{Column: column, Value: value}
	}
	return nil
}

// Encode joins values into one line. Values are not padded or cut; callers
// normalize them first (see Pad).
func Encode(cols []Column, values []string) (string, error) {
	if len(values) != len(cols) {
		return "", fmt.Errorf("fixedwidth: %d values for %d columns", len(values), len(cols))
	}
	var b strings.Builder
	for i, v := range values {
		if err := Check(cols[i], i+1, v); err != nil {
			return "", err
		}
		b.WriteString(v)
	}
	return b.String(), nil
}

// Pad fits text to the column size. Left-aligned text is padded on the
// right and right-aligned text on the left. Text wider than the column is
// returned unchanged unless the column is Chopped, in which case it is cut
// from the end (left-aligned) or the start (right-aligned) and padded again.
// A pad character wider than the remaining gap leaves the gap short.
func Pad(text string, col Column) string {
	count := col.counter()
	padChar := col.padChar()
	current := count.Count(text)
	switch {
	case current == col.Size:
		return text
	case current > col.Size:
		if !col.Chopped {
			return text
		}
		return Pad(chop(text, current-col.Size, count, col.RightAlign), col)
	}
	padWidth := count(padChar)
	if padWidth <= 0 {
		padWidth = 1
	}
	fill := strings.Repeat(string(padChar), (col.Size-current)/padWidth)
	if col.RightAlign {
		return fill + text
	}
	return text + fill
}

func chop(text string, over int, count Counter, fromStart bool) string {
	runes := []rune(text)
	cut := 0
	if fromStart {
		for i, r := range runes {
			cut += count(r)
			if cut >= over {
				return string(runes[i+1:])
			}
		}
		return ""
	}
	for i := len(runes) - 1; i >= 0; i-- {
		cut += count(runes[i])
		if cut >= over {
			return string(runes[:i])
		}
	}
	return ""
}

// Trim removes pad characters from one side: the right for left-aligned
// columns, the left for right-aligned ones.
func Trim(text string, padChar rune, rightAlign bool) string {
	if padChar == 0 {
		padChar = ' '
	}
	if rightAlign {
		return strings.TrimLeft(text, string(padChar))
	}
	return strings.TrimRight(text, string(padChar))
}
