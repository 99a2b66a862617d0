package i18n

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/reoring/rowskema"
)

var (
	supported = []language.Tag{language.English, language.Japanese}
	matcher   = language.NewMatcher(supported)
	builtin   = map[language.Tag]Catalog{language.English: English, language.Japanese: Japanese}
)

// Renderer turns error codes into messages in one language. It is safe for
// concurrent use once built.
type Renderer struct {
	lang    language.Tag
	catalog Catalog
	log     zerolog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger used to warn about unknown codes.
func WithLogger(l zerolog.Logger) Option { return func(r *Renderer) { r.log = l } }

// WithMessages overrides or adds templates on top of the built-in catalogue.
func WithMessages(c Catalog) Option {
	return func(r *Renderer) { maps.Copy(r.catalog, c) }
}

// NewRenderer returns a renderer for the best match of lang among the
// built-in languages. English is the fallback.
func NewRenderer(lang string, opts ...Option) *Renderer {
	_, idx := language.MatchStrings(matcher, lang)
	tag := supported[idx]
	r := &Renderer{lang: tag, catalog: maps.Clone(builtin[tag]), log: zerolog.Nop()}
	for _, fn := range opts {
		if fn != nil {
			fn(r)
		}
	}
	return r
}

// Language returns the matched language.
func (r *Renderer) Language() language.Tag { return r.lang }

// Resolve renders code with vars. Unknown codes fall back to English, then to
// the code itself.
func (r *Renderer) Resolve(code string, vars map[string]any) string {
	return r.resolve(code, vars, nil)
}

func (r *Renderer) resolve(code string, vars map[string]any, printer rowskema.Formatter) string {
	tmpl, ok := r.catalog[code]
	if !ok {
		tmpl, ok = English[code]
	}
	if !ok {
		r.log.Warn().Str("code", code).Msg("no message for code")
		return code
	}
	return Interpolate(tmpl, vars, printer)
}

// Interpolate substitutes {var} and ${expr} in tmpl. Unknown variables and
// failing expressions are left as written. Typed values are printed with
// printer when it accepts them.
func Interpolate(tmpl string, vars map[string]any, printer rowskema.Formatter) string {
	var b strings.Builder
	for i := 0; i < len(tmpl); {
		expression := strings.HasPrefix(tmpl[i:], "${")
		if tmpl[i] != '{' && !expression {
			b.WriteByte(tmpl[i])
			i++
			continue
		}
		start := i + 1
		if expression {
			start++
		}
		end := strings.IndexByte(tmpl[start:], '}')
		if end < 0 {
			b.WriteString(tmpl[i:])
			break
		}
		body := tmpl[start : start+end]
		next := start + end + 1
		if expression {
			out, err := expr.Eval(body, env(vars))
			if err != nil {
				b.WriteString(tmpl[i:next])
			} else {
				b.WriteString(display(out, nil))
			}
		} else if v, ok := vars[body]; ok {
			b.WriteString(display(v, printer))
		} else {
			b.WriteString(tmpl[i:next])
		}
		i = next
	}
	return b.String()
}

func env(vars map[string]any) map[string]any {
	if vars == nil {
		return map[string]any{}
	}
	return vars
}

func display(v any, printer rowskema.Formatter) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		return strings.Join(x, ", ")
	case bool, int, int64:
		return fmt.Sprint(x)
	}
	if printer != nil {
		if s, err := printer.Print(v); err == nil {
			return s
		}
	}
	if t, ok := v.(time.Time); ok {
		return t.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}

// Message renders one validation error without its position.
func (r *Renderer) Message(ve rowskema.ValidationError) string {
	if ve.Message != "" {
		return Interpolate(ve.Message, ve.Vars, ve.Printer)
	}
	return r.resolve(ve.Code, ve.Vars, ve.Printer)
}

// Format renders one validation error as "[line:L, column:C] label: message".
// Row-level errors omit the column.
func (r *Renderer) Format(ve rowskema.ValidationError) string {
	var b strings.Builder
	if ve.Column > 0 {
		fmt.Fprintf(&b, "[line:%d, column:%d] ", ve.Line, ve.Column)
	} else {
		fmt.Fprintf(&b, "[line:%d] ", ve.Line)
	}
	if ve.Label != "" {
		b.WriteString(ve.Label)
		b.WriteString(": ")
	}
	b.WriteString(r.Message(ve))
	return b.String()
}

// Lines renders any error produced while reading or writing rows, one line
// per problem. Errors the renderer does not know are printed as is.
func (r *Renderer) Lines(err error) []string {
	if err == nil {
		return nil
	}
	if re, ok := rowskema.AsRowError(err); ok {
		out := make([]string, 0, len(re.Errors))
		for _, ve := range re.Errors {
			out = append(out, r.Format(ve))
		}
		return out
	}
	if se, ok := rowskema.AsRowStructureError(err); ok {
		msg := r.Resolve(se.Code, se.Vars)
		if se.Column > 0 {
			return []string{fmt.Sprintf("[line:%d, column:%d] %s", se.Line, se.Column, msg)}
		}
		return []string{fmt.Sprintf("[line:%d] %s", se.Line, msg)}
	}
	var hm *rowskema.HeaderMismatchError
	if errors.As(err, &hm) {
		return []string{fmt.Sprintf("[line:%d] %s", hm.Line, r.Resolve(hm.Code, hm.Vars()))}
	}
	return []string{err.Error()}
}

var current = NewRenderer("en")

// SetLanguage switches the package renderer to the best match of lang.
func SetLanguage(lang string) { current = NewRenderer(lang) }

// SetRenderer replaces the package renderer; nil restores English.
func SetRenderer(r *Renderer) {
	if r == nil {
		r = NewRenderer("en")
	}
	current = r
}

// T renders code with the package renderer.
func T(code string, vars map[string]any) string { return current.Resolve(code, vars) }
