// Package fixedwidth tokenizes and encodes lines whose columns are defined by
// counted width instead of delimiters.
package fixedwidth

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/width"
)

// Counter maps a code point to its counted width.
type Counter func(r rune) int

// Count sums the width of every code point in s.
func (c Counter) Count(s string) int {
	n := 0
	for _, r := range s {
		n += c(r)
	}
	return n
}

// Simple counts every code point as 1.
func Simple(rune) int { return 1 }

// CharWidth counts East Asian wide and fullwidth characters as 2 and
// everything else (including halfwidth katakana) as 1.
func CharWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// UTF8Bytes counts the UTF-8 encoded length.
func UTF8Bytes(r rune) int {
	if n := utf8.RuneLen(r); n > 0 {
		return n
	}
	return utf8.RuneLen(utf8.RuneError)
}

// ByteSize counts the encoded length under enc. Characters enc cannot
// represent count as one byte, the width of their substitution character.
func ByteSize(enc encoding.Encoding) Counter {
	if enc == nil {
		return UTF8Bytes
	}
	return func(r rune) int {
		b, err := enc.NewEncoder().Bytes([]byte(string(r)))
		if err != nil || len(b) == 0 {
			return 1
		}
		return len(b)
	}
}

var (
	// ShiftJISBytes counts bytes in Windows-31J.
	ShiftJISBytes = ByteSize(japanese.ShiftJIS)
	// EUCJPBytes counts bytes in EUC-JP.
	EUCJPBytes = ByteSize(japanese.EUCJP)
)

// CounterByName resolves the names used in schema files.
func CounterByName(name string) (Counter, bool) {
	switch name {
	case "", "charWidth", "char_width":
		return CharWidth, true
	case "simple":
		return Simple, true
	case "utf8", "utf-8":
		return UTF8Bytes, true
	case "sjis", "shift_jis", "windows-31j":
		return ShiftJISBytes, true
	case "eucjp", "euc-jp":
		return EUCJPBytes, true
	}
	return nil, false
}
