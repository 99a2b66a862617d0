package format

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/reoring/rowskema"
)

// PatternOptions configures NumberPattern.
type PatternOptions struct {
	NumberOptions
	// Locale selects grouping and decimal symbols (default English).
	Locale language.Tag
	// PrintRounding rounds printed fractions to the pattern's digit count.
	// The default is HalfEven.
	PrintRounding *Rounding
}

// NumberPattern converts using a decimal pattern such as "#,##0.00" or
// "'JPY '#,##0". Supported symbols: 0 # , . and quoted literals; any other
// characters before or after the digits are literal prefix and suffix.
type NumberPattern[T Numeric] struct {
	pattern string
	opts    PatternOptions
	syms    symbols
	layout  numberLayout
	rt      reflect.Type
}

type numberLayout struct {
	prefix, suffix string
	minInt         int
	grouping       int
	minFrac        int
	maxFrac        int
}

type symbols struct {
	decimal rune
	group   rune
}

// NewNumberPattern compiles pattern for T.
func NewNumberPattern[T Numeric](pattern string, opts PatternOptions) (*NumberPattern[T], error) {
	layout, err := compileNumberPattern(pattern)
	if err != nil {
		return nil, err
	}
	return &NumberPattern[T]{pattern: pattern, opts: opts, syms: symbolsFor(opts.Locale), layout: layout, rt: reflect.TypeFor[T]()}, nil
}

// Pattern returns the source pattern.
func (f *NumberPattern[T]) Pattern() string { return f.pattern }

func (f *NumberPattern[T]) Type() reflect.Type { return f.rt }

func (f *NumberPattern[T]) Parse(text string) (any, error) {
	d, err := f.parseDecimal(text)
	if err != nil {
		return nil, parseError(text, f.rt.String(), err, "pattern", f.pattern)
	}
	if d, err = roundSignificant(d, f.opts.Precision, f.opts.Rounding); err != nil {
		return nil, parseError(text, f.rt.String(), err, "pattern", f.pattern)
	}
	v, err := fromDecimal[T](d, f.rt, f.opts.Lenient)
	if err != nil {
		return nil, parseError(text, f.rt.String(), err, "pattern", f.pattern)
	}
	return v, nil
}

func (f *NumberPattern[T]) Print(v any) (string, error) {
	if v == nil {
		return "", rowskema.ErrNilValue
	}
	if _, ok := v.(T); !ok {
		return "", typeError(v, f.rt.String())
	}
	d, err := ToDecimal(v)
	if err != nil {
		return "", err
	}
	return printPattern(d, f.layout, f.syms, f.printRounding()), nil
}

func (f *NumberPattern[T]) printRounding() Rounding {
	if f.opts.PrintRounding != nil {
		return *f.opts.PrintRounding
	}
	return HalfEven
}

// DecimalPattern is NumberPattern for decimal.Decimal values.
type DecimalPattern struct {
	inner *NumberPattern[float64]
}

// NewDecimalPattern compiles pattern for decimal.Decimal.
func NewDecimalPattern(pattern string, opts PatternOptions) (*DecimalPattern, error) {
	inner, err := NewNumberPattern[float64](pattern, opts)
	if err != nil {
		return nil, err
	}
	return &DecimalPattern{inner: inner}, nil
}

func (f *DecimalPattern) Pattern() string { return f.inner.pattern }

func (f *DecimalPattern) Type() reflect.Type { return reflect.TypeFor[decimal.Decimal]() }

func (f *DecimalPattern) Parse(text string) (any, error) {
	d, err := f.inner.parseDecimal(text)
	if err == nil {
		d, err = roundSignificant(d, f.inner.opts.Precision, f.inner.opts.Rounding)
	}
	if err != nil {
		return nil, parseError(text, "decimal", err, "pattern", f.inner.pattern)
	}
	return d, nil
}

func (f *DecimalPattern) Print(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", rowskema.ErrNilValue
	case decimal.Decimal:
		return printPattern(x, f.inner.layout, f.inner.syms, f.inner.printRounding()), nil
	}
	return "", typeError(v, "decimal")
}

var errPrefix = errors.New("missing prefix")

func (f *NumberPattern[T]) parseDecimal(text string) (decimal.Decimal, error) {
	s := text
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if !strings.HasPrefix(s, f.layout.prefix) {
		return decimal.Zero, errPrefix
	}
	s = s[len(f.layout.prefix):]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	digits, seenDecimal := 0, false
	rest := s
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			digits++
			rest = s[i+1:]
			continue
		case r == f.syms.group && !seenDecimal && digits > 0:
			rest = s[i+len(string(r)):]
			continue
		case r == f.syms.decimal && !seenDecimal:
			seenDecimal = true
			b.WriteByte('.')
			rest = s[i+len(string(r)):]
			continue
		}
		break
	}
	if digits == 0 {
		return decimal.Zero, errNoDigits
	}
	if !f.opts.Lenient {
		if rest != f.layout.suffix {
			return decimal.Zero, errTrailingText
		}
	}
	num := strings.TrimSuffix(b.String(), ".")
	return decimal.NewFromString(num)
}

func compileNumberPattern(p string) (numberLayout, error) {
	var l numberLayout
	var prefix, suffix, body strings.Builder
	stage := 0 // 0 prefix, 1 body, 2 suffix
	inQuote := false
	for _, r := range p {
		if r == '\'' {
			inQuote = !inQuote
			continue
		}
		isNum := !inQuote && strings.ContainsRune("0#,.", r)
		switch {
		case stage == 0 && isNum:
			stage = 1
			body.WriteRune(r)
		case stage == 0:
			prefix.WriteRune(r)
		case stage == 1 && isNum:
			body.WriteRune(r)
		default:
			stage = 2
			suffix.WriteRune(r)
		}
	}
	if inQuote {
		return l, fmt.Errorf("format: unterminated quote in number pattern %q", p)
	}
	if body.Len() == 0 {
		return l, fmt.Errorf("format: number pattern %q has no digits", p)
	}
	l.prefix, l.suffix = prefix.String(), suffix.String()
	intPart, fracPart, hasFrac := strings.Cut(body.String(), ".")
	if strings.Contains(fracPart, ".") || strings.Contains(fracPart, ",") {
		return l, fmt.Errorf("format: malformed fraction in number pattern %q", p)
	}
	if i := strings.LastIndexByte(intPart, ','); i >= 0 {
		l.grouping = len(intPart) - i - 1
		if l.grouping == 0 {
			return l, fmt.Errorf("format: empty grouping in number pattern %q", p)
		}
	}
	l.minInt = strings.Count(intPart, "0")
	if hasFrac {
		l.minFrac = strings.Count(fracPart, "0")
		l.maxFrac = len(fracPart)
	}
	return l, nil
}

func printPattern(d decimal.Decimal, l numberLayout, syms symbols, mode Rounding) string {
	r, err := roundPlaces(d, int32(l.maxFrac), mode)
	if err != nil {
		r = d
	}
	neg := r.Sign() < 0
	fixed := r.Abs().StringFixed(int32(l.maxFrac))
	intPart, frac, _ := strings.Cut(fixed, ".")
	for len(frac) > l.minFrac && strings.HasSuffix(frac, "0") {
		frac = frac[:len(frac)-1]
	}
	intPart = strings.TrimLeft(intPart, "0")
	for len(intPart) < l.minInt {
		intPart = "0" + intPart
	}
	if intPart == "" && frac == "" {
		intPart = "0"
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(l.prefix)
	for i, c := range intPart {
		if l.grouping > 0 && i > 0 && (len(intPart)-i)%l.grouping == 0 {
			b.WriteRune(syms.group)
		}
		b.WriteRune(c)
	}
	if frac != "" {
		b.WriteRune(syms.decimal)
		b.WriteString(frac)
	}
	b.WriteString(l.suffix)
	return b.String()
}

var commaDecimal = map[string]symbols{
	"de": {decimal: ',', group: '.'},
	"es": {decimal: ',', group: '.'},
	"it": {decimal: ',', group: '.'},
	"nl": {decimal: ',', group: '.'},
	"pt": {decimal: ',', group: '.'},
	"id": {decimal: ',', group: '.'},
	"tr": {decimal: ',', group: '.'},
	"da": {decimal: ',', group: '.'},
	"fr": {decimal: ',', group: ' '},
	"ru": {decimal: ',', group: ' '},
	"pl": {decimal: ',', group: ' '},
	"cs": {decimal: ',', group: ' '},
	"sv": {decimal: ',', group: ' '},
	"fi": {decimal: ',', group: ' '},
	"nb": {decimal: ',', group: ' '},
}

func symbolsFor(tag language.Tag) symbols {
	base, _ := tag.Base()
	if s, ok := commaDecimal[base.String()]; ok {
		return s
	}
	return symbols{decimal: '.', group: ','}
}
