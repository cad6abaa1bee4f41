package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashFactory_New(t *testing.T) {
	h := NewHashFactory(Sha256).New()
	require.Equal(t, 32, h.Size())

	h = NewHashFactory(Sha3_224).New()
	require.Equal(t, 28, h.Size())

	require.Panics(t, func() {
		NewHashFactory(HashAlgorithm(-1)).New()
	})
}

func TestHashFactory_Deterministic(t *testing.T) {
	factory := NewHashFactory(Sha256)

	h1 := factory.New()
	h1.Write([]byte("deadbeef"))

	h2 := factory.New()
	h2.Write([]byte("deadbeef"))

	require.Equal(t, h1.Sum(nil), h2.Sum(nil))
}
