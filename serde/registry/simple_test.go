package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/calldera/callop/serde"
)

func TestSimpleRegistry_Register(t *testing.T) {
	registry := NewSimpleRegistry()

	registry.Register(serde.FormatJSON, fakeFormat{})
	require.Len(t, registry.store, 1)

	registry.Register(serde.FormatJSON, fakeFormat{})
	require.Len(t, registry.store, 1)
}

func TestSimpleRegistry_Get(t *testing.T) {
	registry := NewSimpleRegistry()
	registry.Register(serde.FormatJSON, fakeFormat{})

	require.NotNil(t, registry.Get(serde.FormatJSON))

	format := registry.Get("unknown")

	_, err := format.Encode(serde.Context{}, nil)
	require.EqualError(t, err, "format 'unknown' is not implemented")

	_, err = format.Decode(serde.Context{}, nil)
	require.EqualError(t, err, "format 'unknown' is not implemented")
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeFormat struct {
	serde.FormatEngine
}
