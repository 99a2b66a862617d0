package format

import (
	"fmt"
	"strings"
)

// dtToken is one element of a compiled date/time pattern.
type dtToken struct {
	field   byte // 0 for literals
	width   int
	literal string
}

const dtFields = "yuMdHhmsSaEXZ"

// compileDateTimePattern splits a pattern such as "yyyy/MM/dd HH:mm" into
// tokens. Letters outside the supported set are rejected; quoted text is
// literal and ” is a single quote.
func compileDateTimePattern(p string) ([]dtToken, error) {
	var toks []dtToken
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			toks = append(toks, dtToken{literal: lit.String()})
			lit.Reset()
		}
	}
	rs := []rune(p)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '\'':
			if i+1 < len(rs) && rs[i+1] == '\'' {
				lit.WriteRune('\'')
				i++
				continue
			}
			j := i + 1
			for ; j < len(rs); j++ {
				if rs[j] == '\'' {
					if j+1 < len(rs) && rs[j+1] == '\'' {
						lit.WriteRune('\'')
						j++
						continue
					}
					break
				}
				lit.WriteRune(rs[j])
			}
			if j >= len(rs) {
				return nil, fmt.Errorf("format: unterminated quote in date pattern %q", p)
			}
			i = j
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			if !strings.ContainsRune(dtFields, r) {
				return nil, fmt.Errorf("format: unsupported letter %q in date pattern %q", r, p)
			}
			flush()
			n := 1
			for i+1 < len(rs) && rs[i+1] == r {
				n++
				i++
			}
			field := byte(r)
			if field == 'u' {
				field = 'y'
			}
			toks = append(toks, dtToken{field: field, width: n})
		default:
			lit.WriteRune(r)
		}
	}
	flush()
	if len(toks) == 0 {
		return nil, fmt.Errorf("format: empty date pattern")
	}
	return toks, nil
}

func (t dtToken) numeric() bool {
	switch t.field {
	case 'y', 'd', 'H', 'h', 'm', 's', 'S':
		return true
	case 'M':
		return t.width <= 2
	}
	return false
}

// maxDigits bounds greedy numeric parsing.
func (t dtToken) maxDigits() int {
	switch t.field {
	case 'y':
		if t.width == 2 {
			return 2
		}
		return 9
	case 'S':
		return 9
	}
	return 2
}
