package format

import (
	"fmt"
	"reflect"

	"github.com/reoring/rowskema"
)

// Text is the identity formatter for string fields.
type Text struct{}

func (Text) Parse(text string) (any, error) { return text, nil }

func (Text) Print(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", rowskema.ErrNilValue
	case string:
		return x, nil
	case fmt.Stringer:
		return x.String(), nil
	}
	return "", typeError(v, "string")
}

func (Text) Type() reflect.Type { return reflect.TypeFor[string]() }

func parseError(text, typ string, cause error, kv ...any) *rowskema.ParseError {
	vars := map[string]any{"type": typ}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			vars[k] = kv[i+1]
		}
	}
	return &rowskema.ParseError{Text: text, Type: typ, Vars: vars, Cause: cause}
}

func typeError(v any, want string) error {
	return fmt.Errorf("format: cannot print %T as %s", v, want)
}
