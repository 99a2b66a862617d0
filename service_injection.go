package rowskema

import "fmt"

// Providers is the explicit registry of pluggable value sources (word lists,
// equality sets) handed to the pipeline builder. Lookups happen once at
// schema build time.
type Providers struct {
	byName map[string]any
}

// NewProviders returns an empty registry.
func NewProviders() *Providers { return &Providers{byName: map[string]any{}} }

// Register stores a provider under name, replacing any previous one.
func (p *Providers) Register(name string, v any) *Providers {
	p.byName[name] = v
	return p
}

// Provide retrieves a typed provider by name.
func Provide[T any](p *Providers, name string) (T, bool) {
	var zero T
	if p == nil {
		return zero, false
	}
	v, ok := p.byName[name]
	if !ok {
		return zero, false
	}
	tv, ok := v.(T)
	return tv, ok
}

// RequireProvider returns the provider or a SchemaError suitable for
// aggregation by the builder.
func RequireProvider[T any](p *Providers, field, name string) (T, error) {
	if v, ok := Provide[T](p, name); ok {
		return v, nil
	}
	var zero T
	return zero, SchemaError{
		Field:   field,
		Code:    CodeProviderMissing,
		Message: fmt.Sprintf("provider %q (%T) not registered", name, zero),
	}
}
