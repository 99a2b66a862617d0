package convert

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/reoring/rowskema"
	"github.com/reoring/rowskema/fixedwidth"
)

func checkSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("convert: pad size should be > 0, but was %d", size)
	}
	return nil
}

func simplePad(size int, padChar rune, left bool) rowskema.Conversion {
	return mapText(func(s string) string {
		n := size - utf8.RuneCountInString(s)
		if n <= 0 {
			return s
		}
		fill := strings.Repeat(string(padChar), n)
		if left {
			return fill + s
		}
		return s + fill
	})
}

// LeftPad pads text on the left up to size code points.
func LeftPad(size int, padChar rune) (rowskema.Conversion, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	return simplePad(size, padChar, true), nil
}

// RightPad pads text on the right up to size code points.
func RightPad(size int, padChar rune) (rowskema.Conversion, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	return simplePad(size, padChar, false), nil
}

// MultiPad fits text to a fixed-width column, measuring with the column's
// counter. Null is padded as empty text.
func MultiPad(col fixedwidth.Column) (rowskema.Conversion, error) {
	if err := checkSize(col.Size); err != nil {
		return nil, err
	}
	return rowskema.ConversionFunc(func(v rowskema.NullString) rowskema.NullString {
		return rowskema.Text(fixedwidth.Pad(v.String, col))
	}), nil
}

// OneSideTrim strips pad characters from the side they were added on.
func OneSideTrim(padChar rune, rightAlign bool) rowskema.Conversion {
	return mapText(func(s string) string { return fixedwidth.Trim(s, padChar, rightAlign) })
}
