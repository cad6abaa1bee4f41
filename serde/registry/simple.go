//
// This file contains the implementation of a format registry.
//

package registry

import (
	"github.com/calldera/callop/serde"
	"golang.org/x/xerrors"
)

// SimpleRegistry is a default implementation of the Registry interface.
// It always returns an engine, which means an empty one is returned when
// the format is unknown.
//
// - implements registry.Registry
type SimpleRegistry struct {
	store map[serde.Format]serde.FormatEngine
}

// NewSimpleRegistry returns a new empty registry.
func NewSimpleRegistry() *SimpleRegistry {
	return &SimpleRegistry{
		store: make(map[serde.Format]serde.FormatEngine),
	}
}

// Register implements registry.Registry. It registers the engine for the
// given format.
func (r *SimpleRegistry) Register(name serde.Format, f serde.FormatEngine) {
	r.store[name] = f
}

// Get implements registry.Registry. It returns the format engine
// associated with the format if it exists, otherwise an empty engine.
func (r *SimpleRegistry) Get(name serde.Format) serde.FormatEngine {
	fmt := r.store[name]
	if fmt == nil {
		return emptyFormat{name: name}
	}

	return fmt
}

// emptyFormat is a format engine that always returns an error, so that
// requests for an unknown format fail without a nil check at every call
// site.
//
// - implements serde.FormatEngine
type emptyFormat struct {
	serde.FormatEngine
	name serde.Format
}

// Encode implements serde.FormatEngine. It always returns an error.
func (f emptyFormat) Encode(serde.Context, serde.Message) ([]byte, error) {
	return nil, xerrors.Errorf("format '%s' is not implemented", f.name)
}

// Decode implements serde.FormatEngine. It always returns an error.
func (f emptyFormat) Decode(serde.Context, []byte) (serde.Message, error) {
	return nil, xerrors.Errorf("format '%s' is not implemented", f.name)
}
