package format

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/reoring/rowskema"
)

// Numeric is the set of Go types Number can produce.
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// NumberOptions configures numeric parsing.
type NumberOptions struct {
	// Lenient accepts the longest numeric prefix and ignores what follows,
	// and lets integer targets drop a fractional part.
	Lenient bool
	// Precision, when positive, rounds parsed values to that many significant
	// digits using Rounding. Printing never rounds.
	Precision int
	Rounding  Rounding
}

// Number converts between plain decimal text and T.
type Number[T Numeric] struct {
	opts NumberOptions
	rt   reflect.Type
}

// NewNumber returns a Number formatter for T.
func NewNumber[T Numeric](opts NumberOptions) *Number[T] {
	return &Number[T]{opts: opts, rt: reflect.TypeFor[T]()}
}

func (f *Number[T]) Type() reflect.Type { return f.rt }

// Options returns the formatter configuration.
func (f *Number[T]) Options() NumberOptions { return f.opts }

func (f *Number[T]) Parse(text string) (any, error) {
	d, err := parseDecimalText(text, f.opts.Lenient)
	if err != nil {
		return nil, parseError(text, f.rt.String(), err)
	}
	d, err = roundSignificant(d, f.opts.Precision, f.opts.Rounding)
	if err != nil {
		return nil, parseError(text, f.rt.String(), err)
	}
	v, err := fromDecimal[T](d, f.rt, f.opts.Lenient)
	if err != nil {
		return nil, parseError(text, f.rt.String(), err)
	}
	return v, nil
}

func (f *Number[T]) Print(v any) (string, error) {
	if v == nil {
		return "", rowskema.ErrNilValue
	}
	x, ok := v.(T)
	if !ok {
		return "", typeError(v, f.rt.String())
	}
	rv := reflect.ValueOf(x)
	switch f.rt.Kind() {
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	default:
		return strconv.FormatInt(rv.Int(), 10), nil
	}
}

// Decimal converts between plain decimal text and decimal.Decimal.
type Decimal struct {
	opts NumberOptions
}

// NewDecimal returns a decimal.Decimal formatter.
func NewDecimal(opts NumberOptions) *Decimal { return &Decimal{opts: opts} }

func (f *Decimal) Type() reflect.Type { return reflect.TypeFor[decimal.Decimal]() }

func (f *Decimal) Parse(text string) (any, error) {
	d, err := parseDecimalText(text, f.opts.Lenient)
	if err != nil {
		return nil, parseError(text, "decimal", err)
	}
	d, err = roundSignificant(d, f.opts.Precision, f.opts.Rounding)
	if err != nil {
		return nil, parseError(text, "decimal", err)
	}
	return d, nil
}

func (f *Decimal) Print(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", rowskema.ErrNilValue
	case decimal.Decimal:
		return x.String(), nil
	}
	return "", typeError(v, "decimal")
}

var (
	errNoDigits     = errors.New("no digits")
	errTrailingText = errors.New("unexpected trailing text")
	errNotInteger   = errors.New("fractional value for an integer type")
	errOverflow     = errors.New("value out of range")
)

// scanNumber returns the length of the longest numeric prefix of s:
// [+-]digits[.digits][(e|E)[+-]digits].
func scanNumber(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	digits := i - start
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if frac := j - i - 1; frac > 0 || digits > 0 {
			digits += frac
			i = j
		}
	}
	if digits == 0 {
		return 0
	}
	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}
	return end
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func parseDecimalText(text string, lenient bool) (decimal.Decimal, error) {
	n := scanNumber(text)
	if n == 0 {
		return decimal.Zero, errNoDigits
	}
	if n < len(text) && !lenient {
		return decimal.Zero, errTrailingText
	}
	num := strings.TrimPrefix(text[:n], "+")
	if strings.HasPrefix(num, ".") {
		num = "0" + num
	} else if strings.HasPrefix(num, "-.") {
		num = "-0" + num[1:]
	}
	num = strings.TrimSuffix(num, ".")
	return decimal.NewFromString(num)
}

func fromDecimal[T Numeric](d decimal.Decimal, rt reflect.Type, lenient bool) (T, error) {
	var zero T
	out := reflect.New(rt).Elem()
	switch rt.Kind() {
	case reflect.Float32, reflect.Float64:
		f, _ := d.Float64()
		if math.IsInf(f, 0) || (rt.Kind() == reflect.Float32 && math.Abs(f) > math.MaxFloat32) {
			return zero, errOverflow
		}
		out.SetFloat(f)
		return out.Interface().(T), nil
	}
	whole := d.Truncate(0)
	if !whole.Equal(d) && !lenient {
		return zero, errNotInteger
	}
	bi := whole.BigInt()
	switch rt.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if bi.Sign() < 0 || !bi.IsUint64() || out.OverflowUint(bi.Uint64()) {
			return zero, errOverflow
		}
		out.SetUint(bi.Uint64())
	default:
		if !bi.IsInt64() || out.OverflowInt(bi.Int64()) {
			return zero, errOverflow
		}
		out.SetInt(bi.Int64())
	}
	return out.Interface().(T), nil
}

// ToDecimal converts any supported numeric value to a decimal for comparison.
func ToDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case *big.Int:
		return decimal.NewFromBigInt(x, 0), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(rv.Uint()), 0), nil
	case reflect.Float32:
		return decimal.NewFromFloat32(float32(rv.Float())), nil
	case reflect.Float64:
		return decimal.NewFromFloat(rv.Float()), nil
	}
	return decimal.Zero, fmt.Errorf("format: %T is not numeric", v)
}
