package format

import (
	"errors"
	"reflect"
	"strings"

	"github.com/reoring/rowskema"
)

// BoolOptions configures Bool. Empty slices and strings select the defaults.
type BoolOptions struct {
	TrueValues  []string // default: true 1 yes on y t
	FalseValues []string // default: false 0 no off f n
	WriteTrue   string   // default: true
	WriteFalse  string   // default: false
	IgnoreCase  bool
	// FailToFalse parses unknown text as false instead of failing.
	FailToFalse bool
}

var (
	defaultTrueValues  = []string{"true", "1", "yes", "on", "y", "t"}
	defaultFalseValues = []string{"false", "0", "no", "off", "f", "n"}
)

// Bool converts between vocabulary text and bool.
type Bool struct {
	opts BoolOptions
}

// NewBool returns a Bool formatter.
func NewBool(opts BoolOptions) *Bool {
	if len(opts.TrueValues) == 0 {
		opts.TrueValues = defaultTrueValues
	}
	if len(opts.FalseValues) == 0 {
		opts.FalseValues = defaultFalseValues
	}
	if opts.WriteTrue == "" {
		opts.WriteTrue = "true"
	}
	if opts.WriteFalse == "" {
		opts.WriteFalse = "false"
	}
	opts.TrueValues = append([]string(nil), opts.TrueValues...)
	opts.FalseValues = append([]string(nil), opts.FalseValues...)
	return &Bool{opts: opts}
}

var errBoolWord = errors.New("not a boolean word")

func (f *Bool) Type() reflect.Type { return reflect.TypeFor[bool]() }

func (f *Bool) Parse(text string) (any, error) {
	if f.contains(f.opts.TrueValues, text) {
		return true, nil
	}
	if f.contains(f.opts.FalseValues, text) || f.opts.FailToFalse {
		return false, nil
	}
	return nil, parseError(text, "bool", errBoolWord,
		"trueValues", f.opts.TrueValues, "falseValues", f.opts.FalseValues)
}

func (f *Bool) contains(words []string, text string) bool {
	for _, w := range words {
		if w == text || (f.opts.IgnoreCase && strings.EqualFold(w, text)) {
			return true
		}
	}
	return false
}

func (f *Bool) Print(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", rowskema.ErrNilValue
	case bool:
		if x {
			return f.opts.WriteTrue, nil
		}
		return f.opts.WriteFalse, nil
	}
	return "", typeError(v, "bool")
}
