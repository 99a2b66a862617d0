package engine

import (
	"github.com/rs/zerolog"

	"github.com/reoring/rowskema"
)

// Option configures readers and writers.
type Option func(*config)

type config struct {
	log zerolog.Logger
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option { return func(c *config) { c.log = l } }

func newConfig(opts []Option) config {
	c := config{log: zerolog.Nop()}
	for _, fn := range opts {
		if fn != nil {
			fn(&c)
		}
	}
	return c
}

// Callbacks implemented by the record pointer type are invoked around each
// row.
type (
	BeforeReader interface{ BeforeRead() }
	AfterReader  interface{ AfterRead(errs *rowskema.RowError) }
	BeforeWriter interface{ BeforeWrite() }
	AfterWriter  interface{ AfterWrite(errs *rowskema.RowError) }
)

// Phase is the processing stage of the row in flight.
type Phase int

const (
	PhaseIdle       Phase = iota
	PhaseColumns          // Running column pipelines.
	PhaseBinding          // Assigning values to the record.
	PhaseValidating       // Running row validators.
	PhaseDone
	PhaseFailed
)
