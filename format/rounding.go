package format

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Rounding selects how excess digits are dropped.
type Rounding int

const (
	HalfUp      Rounding = iota // Ties away from zero.
	HalfEven                    // Ties to the even neighbour.
	HalfDown                    // Ties toward zero.
	Up                          // Away from zero.
	Down                        // Toward zero.
	Ceiling                     // Toward positive infinity.
	Floor                       // Toward negative infinity.
	Unnecessary                 // Fail if rounding is needed.
)

var errRoundingNecessary = errors.New("rounding necessary")

// RoundingByName resolves the names used in schema files.
func RoundingByName(name string) (Rounding, bool) {
	switch name {
	case "", "halfUp", "HALF_UP":
		return HalfUp, true
	case "halfEven", "HALF_EVEN":
		return HalfEven, true
	case "halfDown", "HALF_DOWN":
		return HalfDown, true
	case "up", "UP":
		return Up, true
	case "down", "DOWN":
		return Down, true
	case "ceiling", "CEILING":
		return Ceiling, true
	case "floor", "FLOOR":
		return Floor, true
	case "unnecessary", "UNNECESSARY":
		return Unnecessary, true
	}
	return HalfUp, false
}

// roundPlaces rounds d to places digits after the point; places may be
// negative.
func roundPlaces(d decimal.Decimal, places int32, mode Rounding) (decimal.Decimal, error) {
	scaled := d.Shift(places)
	trunc := scaled.Truncate(0)
	if trunc.Equal(scaled) {
		return d, nil
	}
	away := trunc.Add(decimal.New(int64(scaled.Sign()), 0))
	var r decimal.Decimal
	switch mode {
	case HalfUp:
		r = scaled.Round(0)
	case HalfEven:
		r = scaled.RoundBank(0)
	case HalfDown:
		if scaled.Sub(trunc).Abs().GreaterThan(decimal.New(5, -1)) {
			r = away
		} else {
			r = trunc
		}
	case Up:
		r = away
	case Down:
		r = trunc
	case Ceiling:
		if scaled.Sign() > 0 {
			r = away
		} else {
			r = trunc
		}
	case Floor:
		if scaled.Sign() < 0 {
			r = away
		} else {
			r = trunc
		}
	default:
		return d, errRoundingNecessary
	}
	return r.Shift(-places), nil
}

// roundSignificant keeps precision significant digits.
func roundSignificant(d decimal.Decimal, precision int, mode Rounding) (decimal.Decimal, error) {
	if precision <= 0 || d.IsZero() {
		return d, nil
	}
	coeff := d.Coefficient()
	digits := len(coeff.Abs(coeff).String())
	intDigits := digits + int(d.Exponent())
	return roundPlaces(d, int32(precision-intDigits), mode)
}
