// Package registry defines the format registry mechanism.
//
// It also provides a default implementation that always returns an
// engine: an empty one is returned when the format is unknown, so that
// serialization requests fail with a meaningful error.
package registry

import (
	"github.com/calldera/callop/serde"
)

// Registry is an interface to register and look up format engines.
type Registry interface {
	// Register takes a format and its engine and registers them so that
	// the engine can be looked up later.
	Register(serde.Format, serde.FormatEngine)

	// Get returns the engine associated with the format.
	Get(serde.Format) serde.FormatEngine
}
