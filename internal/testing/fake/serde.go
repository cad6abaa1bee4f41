package fake

import (
	"encoding/json"

	"github.com/calldera/callop/serde"
)

// ContextEngine is a fake implementation of a serde context engine. The
// format can be overridden so that a message looks up an unknown format
// engine, and the marshaling can be made to fail after a number of calls.
//
// - implements serde.ContextEngine
type ContextEngine struct {
	Format serde.Format

	delay *int
	err   error
}

// NewContext returns a fake JSON context.
func NewContext() serde.Context {
	return serde.NewContext(ContextEngine{Format: serde.FormatJSON})
}

// NewBadContext returns a fake context that always fails to look up a
// format engine.
func NewBadContext() serde.Context {
	return serde.NewContext(ContextEngine{Format: "BAD"})
}

// NewBadContextWithDelay returns a fake context that fails to marshal or
// unmarshal after the given number of calls.
func NewBadContextWithDelay(delay int) serde.Context {
	return serde.NewContext(ContextEngine{
		Format: serde.FormatJSON,
		delay:  &delay,
		err:    fakeErr,
	})
}

// GetFormat implements serde.ContextEngine.
func (ctx ContextEngine) GetFormat() serde.Format {
	return ctx.Format
}

// Marshal implements serde.ContextEngine.
func (ctx ContextEngine) Marshal(m interface{}) ([]byte, error) {
	if ctx.expired() {
		return nil, ctx.err
	}

	return json.Marshal(m)
}

// Unmarshal implements serde.ContextEngine.
func (ctx ContextEngine) Unmarshal(data []byte, m interface{}) error {
	if ctx.expired() {
		return ctx.err
	}

	return json.Unmarshal(data, m)
}

func (ctx ContextEngine) expired() bool {
	if ctx.err == nil {
		return false
	}

	if *ctx.delay > 0 {
		*ctx.delay--
		return false
	}

	return true
}
