package format

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/reoring/rowskema"
)

// Default patterns.
const (
	DatePattern     = "yyyy-MM-dd"
	TimePattern     = "HH:mm:ss"
	DateTimePattern = "yyyy-MM-dd HH:mm:ss"
)

// DateTimeOptions configures DateTime.
type DateTimeOptions struct {
	// Pattern uses y M d H h m s S a E X Z letters; empty selects DateTimePattern.
	Pattern string
	// Location is used for parsing values without an offset and for
	// printing. Default UTC.
	Location *time.Location
	// Locale selects month, weekday and AM/PM names (English or Japanese).
	Locale language.Tag
	// Lenient resolves out-of-range fields by rolling over, so that
	// 2024-04-31 parses as 2024-05-01. When false such text is rejected.
	Lenient bool
}

// DateTime converts between patterned text and time.Time.
type DateTime struct {
	pattern string
	toks    []dtToken
	loc     *time.Location
	names   *calendarNames
	lenient bool
}

// NewDateTime compiles the pattern.
func NewDateTime(opts DateTimeOptions) (*DateTime, error) {
	if opts.Pattern == "" {
		opts.Pattern = DateTimePattern
	}
	toks, err := compileDateTimePattern(opts.Pattern)
	if err != nil {
		return nil, err
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &DateTime{pattern: opts.Pattern, toks: toks, loc: loc, names: namesFor(opts.Locale), lenient: opts.Lenient}, nil
}

// NewDate is NewDateTime defaulting to DatePattern.
func NewDate(opts DateTimeOptions) (*DateTime, error) {
	if opts.Pattern == "" {
		opts.Pattern = DatePattern
	}
	return NewDateTime(opts)
}

// NewTime is NewDateTime defaulting to TimePattern.
func NewTime(opts DateTimeOptions) (*DateTime, error) {
	if opts.Pattern == "" {
		opts.Pattern = TimePattern
	}
	return NewDateTime(opts)
}

// Pattern returns the source pattern.
func (f *DateTime) Pattern() string { return f.pattern }

func (f *DateTime) Type() reflect.Type { return reflect.TypeFor[time.Time]() }

type dtValues struct {
	year, month, day  int
	hour, minute, sec int
	nsec              int
	hour12            bool
	pm                int // -1 unset, 0 AM, 1 PM
	offset            int
	hasOffset         bool
}

var (
	errLiteral     = errors.New("literal mismatch")
	errName        = errors.New("unknown name")
	errOutOfRange  = errors.New("field out of range")
	errZoneOffset  = errors.New("malformed zone offset")
	errMissingText = errors.New("missing digits")
)

func (f *DateTime) Parse(text string) (any, error) {
	t, err := f.parse(text)
	if err != nil {
		return nil, parseError(text, "time", err, "pattern", f.pattern)
	}
	return t, nil
}

func (f *DateTime) parse(text string) (time.Time, error) {
	v := dtValues{year: 1970, month: 1, day: 1, pm: -1}
	s := text
	for i, tok := range f.toks {
		if tok.field == 0 {
			if !strings.HasPrefix(s, tok.literal) {
				return time.Time{}, errLiteral
			}
			s = s[len(tok.literal):]
			continue
		}
		if tok.numeric() {
			limit := tok.maxDigits()
			if i+1 < len(f.toks) && f.toks[i+1].numeric() {
				limit = tok.width
			}
			n, digits := leadingDigits(s, limit)
			if digits == 0 {
				return time.Time{}, errMissingText
			}
			s = s[digits:]
			switch tok.field {
			case 'y':
				if tok.width == 2 && digits == 2 {
					n += 2000
				}
				v.year = n
			case 'M':
				v.month = n
			case 'd':
				v.day = n
			case 'H':
				v.hour = n
			case 'h':
				v.hour, v.hour12 = n, true
			case 'm':
				v.minute = n
			case 's':
				v.sec = n
			case 'S':
				for k := digits; k < 9; k++ {
					n *= 10
				}
				v.nsec = n
			}
			continue
		}
		var err error
		switch tok.field {
		case 'M':
			var idx int
			idx, s, err = matchName(s, f.names.months(tok.width))
			v.month = idx + 1
		case 'E':
			_, s, err = matchName(s, f.names.weekdays(tok.width))
		case 'a':
			v.pm, s, err = matchName(s, f.names.ampm[:])
		case 'X', 'Z':
			v.offset, s, err = parseOffset(s, tok.field == 'X')
			v.hasOffset = true
		}
		if err != nil {
			return time.Time{}, err
		}
	}
	if s != "" && !f.lenient {
		return time.Time{}, errTrailingText
	}
	if v.hour12 {
		if !f.lenient && (v.hour < 1 || v.hour > 12) {
			return time.Time{}, errOutOfRange
		}
		v.hour %= 12
		if v.pm == 1 {
			v.hour += 12
		}
	} else if v.pm == 1 && v.hour < 12 {
		v.hour += 12
	}
	if !f.lenient && !inRange(v) {
		return time.Time{}, errOutOfRange
	}
	loc := f.loc
	if v.hasOffset {
		loc = time.FixedZone("", v.offset)
	}
	return time.Date(v.year, time.Month(v.month), v.day, v.hour, v.minute, v.sec, v.nsec, loc), nil
}

func inRange(v dtValues) bool {
	if v.month < 1 || v.month > 12 || v.day < 1 {
		return false
	}
	if v.day > time.Date(v.year, time.Month(v.month)+1, 0, 0, 0, 0, 0, time.UTC).Day() {
		return false
	}
	return v.hour >= 0 && v.hour <= 23 && v.minute >= 0 && v.minute <= 59 && v.sec >= 0 && v.sec <= 59
}

func leadingDigits(s string, limit int) (n, digits int) {
	for digits < len(s) && digits < limit && s[digits] >= '0' && s[digits] <= '9' {
		n = n*10 + int(s[digits]-'0')
		digits++
	}
	return n, digits
}

func matchName(s string, names []string) (int, string, error) {
	best, bestLen := -1, 0
	for i, name := range names {
		if len(name) > bestLen && len(s) >= len(name) && strings.EqualFold(s[:len(name)], name) {
			best, bestLen = i, len(name)
		}
	}
	if best < 0 {
		return 0, s, errName
	}
	return best, s[bestLen:], nil
}

func parseOffset(s string, allowZ bool) (int, string, error) {
	if allowZ && strings.HasPrefix(s, "Z") {
		return 0, s[1:], nil
	}
	if s == "" || (s[0] != '+' && s[0] != '-') {
		return 0, s, errZoneOffset
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	s = s[1:]
	hh, d := leadingDigits(s, 2)
	if d != 2 {
		return 0, s, errZoneOffset
	}
	s = s[2:]
	mm := 0
	rest := strings.TrimPrefix(s, ":")
	if m, d := leadingDigits(rest, 2); d == 2 {
		mm, s = m, rest[2:]
	}
	return sign * (hh*3600 + mm*60), s, nil
}

func (f *DateTime) Print(v any) (string, error) {
	var t time.Time
	switch x := v.(type) {
	case nil:
		return "", rowskema.ErrNilValue
	case time.Time:
		t = x
	default:
		return "", typeError(v, "time.Time")
	}
	t = t.In(f.loc)
	var b strings.Builder
	for _, tok := range f.toks {
		switch tok.field {
		case 0:
			b.WriteString(tok.literal)
		case 'y':
			if tok.width == 2 {
				b.WriteString(pad(t.Year()%100, 2))
			} else {
				b.WriteString(pad(t.Year(), tok.width))
			}
		case 'M':
			if tok.numeric() {
				b.WriteString(pad(int(t.Month()), tok.width))
			} else {
				b.WriteString(f.names.months(tok.width)[t.Month()-1])
			}
		case 'd':
			b.WriteString(pad(t.Day(), tok.width))
		case 'H':
			b.WriteString(pad(t.Hour(), tok.width))
		case 'h':
			h := t.Hour() % 12
			if h == 0 {
				h = 12
			}
			b.WriteString(pad(h, tok.width))
		case 'm':
			b.WriteString(pad(t.Minute(), tok.width))
		case 's':
			b.WriteString(pad(t.Second(), tok.width))
		case 'S':
			frac := fmt.Sprintf("%09d", t.Nanosecond())
			if tok.width <= 9 {
				b.WriteString(frac[:tok.width])
			} else {
				b.WriteString(frac + strings.Repeat("0", tok.width-9))
			}
		case 'a':
			if t.Hour() < 12 {
				b.WriteString(f.names.ampm[0])
			} else {
				b.WriteString(f.names.ampm[1])
			}
		case 'E':
			b.WriteString(f.names.weekdays(tok.width)[t.Weekday()])
		case 'X', 'Z':
			_, off := t.Zone()
			b.WriteString(formatOffset(off, tok))
		}
	}
	return b.String(), nil
}

func pad(n, width int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return s
	}
	for len(s) < width {
		s = "0" + s
	}
	return s
}

func formatOffset(off int, tok dtToken) string {
	if off == 0 && tok.field == 'X' {
		return "Z"
	}
	sign := "+"
	if off < 0 {
		sign, off = "-", -off
	}
	hh, mm := off/3600, (off%3600)/60
	switch {
	case tok.field == 'X' && tok.width == 1:
		return sign + pad(hh, 2)
	case tok.field == 'X' && tok.width >= 3:
		return sign + pad(hh, 2) + ":" + pad(mm, 2)
	}
	return sign + pad(hh, 2) + pad(mm, 2)
}
