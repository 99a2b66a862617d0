package constraint

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/reoring/rowskema/format"
)

// Compare orders two values of the same family: numbers (any Go numeric
// type or decimal.Decimal), time.Time, or strings.
func Compare(a, b any) (int, error) {
	switch x := a.(type) {
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			return 0, fmt.Errorf("constraint: cannot compare %T with %T", a, b)
		}
		return x.Compare(y), nil
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, fmt.Errorf("constraint: cannot compare %T with %T", a, b)
		}
		return strings.Compare(x, y), nil
	}
	da, err := format.ToDecimal(a)
	if err != nil {
		return 0, err
	}
	db, err := format.ToDecimal(b)
	if err != nil {
		return 0, err
	}
	return da.Cmp(db), nil
}

// Equal reports whether two values are the same, comparing numbers by value
// and times by instant.
func Equal(a, b any) bool {
	if c, err := Compare(a, b); err == nil {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}
