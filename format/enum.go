package format

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/reoring/rowskema"
)

// EnumValue names one enum constant. Aliases are accepted on parse only.
type EnumValue[T comparable] struct {
	Name    string
	Value   T
	Aliases []string
}

// Enum converts between names and a fixed set of values.
type Enum[T comparable] struct {
	values     []EnumValue[T]
	byName     map[string]T
	ignoreCase bool
	names      []string
}

// NewEnum builds an Enum. Duplicate names or aliases are an error.
func NewEnum[T comparable](values []EnumValue[T], ignoreCase bool) (*Enum[T], error) {
	if len(values) == 0 {
		return nil, errors.New("format: enum without values")
	}
	e := &Enum[T]{values: append([]EnumValue[T](nil), values...), byName: map[string]T{}, ignoreCase: ignoreCase}
	for _, v := range values {
		for _, name := range append([]string{v.Name}, v.Aliases...) {
			key := e.key(name)
			if _, dup := e.byName[key]; dup {
				return nil, fmt.Errorf("format: duplicate enum name %q", name)
			}
			e.byName[key] = v.Value
		}
		e.names = append(e.names, v.Name)
	}
	return e, nil
}

// MustEnum is like NewEnum but panics on error.
func MustEnum[T comparable](values []EnumValue[T], ignoreCase bool) *Enum[T] {
	e, err := NewEnum(values, ignoreCase)
	if err != nil {
		panic(err)
	}
	return e
}

// Names returns the declared names in order.
func (e *Enum[T]) Names() []string { return append([]string(nil), e.names...) }

func (e *Enum[T]) key(s string) string {
	if e.ignoreCase {
		return strings.ToLower(s)
	}
	return s
}

var errEnumName = errors.New("unknown enum name")

func (e *Enum[T]) Type() reflect.Type { return reflect.TypeFor[T]() }

func (e *Enum[T]) Parse(text string) (any, error) {
	if v, ok := e.byName[e.key(text)]; ok {
		return v, nil
	}
	return nil, parseError(text, e.Type().String(), errEnumName, "enums", strings.Join(e.names, ", "))
}

func (e *Enum[T]) Print(v any) (string, error) {
	if v == nil {
		return "", rowskema.ErrNilValue
	}
	x, ok := v.(T)
	if !ok {
		return "", typeError(v, e.Type().String())
	}
	for _, ev := range e.values {
		if ev.Value == x {
			return ev.Name, nil
		}
	}
	return "", fmt.Errorf("format: %v is not a declared enum value", v)
}
