package convert

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"

	"github.com/reoring/rowskema"
)

// mapText applies fn to non-null text.
func mapText(fn func(string) string) rowskema.Conversion {
	return rowskema.ConversionFunc(func(v rowskema.NullString) rowskema.NullString {
		if !v.Valid {
			return v
		}
		return rowskema.Text(fn(v.String))
	})
}

// NullConvert turns any of words into null. An empty word list is an error.
func NullConvert(ignoreCase bool, words ...string) (rowskema.Conversion, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("convert: null words are empty")
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if ignoreCase {
			w = strings.ToLower(w)
		}
		set[w] = struct{}{}
	}
	return rowskema.ConversionFunc(func(v rowskema.NullString) rowskema.NullString {
		if !v.Valid {
			return v
		}
		key := v.String
		if ignoreCase {
			key = strings.ToLower(key)
		}
		if _, ok := set[key]; ok {
			return rowskema.Null
		}
		return v
	}), nil
}

// Default replaces null with text.
func Default(text string) rowskema.Conversion {
	return rowskema.ConversionFunc(func(v rowskema.NullString) rowskema.NullString {
		if v.Valid {
			return v
		}
		return rowskema.Text(text)
	})
}

// Trim removes leading and trailing white space.
func Trim() rowskema.Conversion { return mapText(strings.TrimSpace) }

// Upper maps text to upper case using the rules of tag.
func Upper(tag language.Tag) rowskema.Conversion {
	c := cases.Upper(tag)
	return mapText(func(s string) string { return c.String(s) })
}

// Lower maps text to lower case using the rules of tag.
func Lower(tag language.Tag) rowskema.Conversion {
	c := cases.Lower(tag)
	return mapText(func(s string) string { return c.String(s) })
}

// RegexReplace replaces matches of expr with repl ($1 style references are
// expanded). With partial false the whole text must match first; otherwise
// any match triggers the replacement.
func RegexReplace(expr, repl string, partial bool) (rowskema.Conversion, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("convert: regex %q: %w", expr, err)
	}
	var whole *regexp.Regexp
	if !partial {
		whole = regexp.MustCompile(`^(?:` + expr + `)$`)
	}
	return mapText(func(s string) string {
		if whole != nil && !whole.MatchString(s) {
			return s
		}
		return re.ReplaceAllString(s, repl)
	}), nil
}

// Replacement is one word substitution.
type Replacement struct {
	Word string
	With string
}

// WordReplace substitutes words in a single left-to-right pass. Longer words
// win over shorter ones starting at the same place, and replaced text is
// never scanned again.
func WordReplace(pairs ...Replacement) (rowskema.Conversion, error) {
	seen := map[string]struct{}{}
	words := make([]Replacement, 0, len(pairs))
	for _, p := range pairs {
		if p.Word == "" {
			return nil, fmt.Errorf("convert: empty replacement word")
		}
		if _, dup := seen[p.Word]; dup {
			continue
		}
		seen[p.Word] = struct{}{}
		words = append(words, p)
	}
	slices.SortStableFunc(words, func(a, b Replacement) int {
		if d := len(b.Word) - len(a.Word); d != 0 {
			return d
		}
		return strings.Compare(a.Word, b.Word)
	})
	return mapText(func(s string) string {
		var b strings.Builder
		for i := 0; i < len(s); {
			matched := false
			for _, w := range words {
				if strings.HasPrefix(s[i:], w.Word) {
					b.WriteString(w.With)
					i += len(w.Word)
					matched = true
					break
				}
			}
			if !matched {
				_, size := utf8.DecodeRuneInString(s[i:])
				b.WriteString(s[i : i+size])
				i += size
			}
		}
		return b.String()
	}), nil
}

// FullWidth folds ASCII and half-width katakana to their full-width forms.
func FullWidth() rowskema.Conversion { return mapText(width.Widen.String) }

// HalfWidth folds full-width forms to their half-width or ASCII forms.
func HalfWidth() rowskema.Conversion { return mapText(width.Narrow.String) }

// Truncate cuts text longer than size code points and appends suffix.
func Truncate(size int, suffix string) (rowskema.Conversion, error) {
	if size <= 0 {
		return nil, fmt.Errorf("convert: truncate size should be > 0, but was %d", size)
	}
	return mapText(func(s string) string {
		if utf8.RuneCountInString(s) <= size {
			return s
		}
		return string([]rune(s)[:size]) + suffix
	}), nil
}
