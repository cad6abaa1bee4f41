// Package prefixed implements snapshots that isolate their keys with a
// prefix, so that several modules can share one snapshot without
// colliding.
package prefixed

import (
	"encoding/binary"

	"github.com/calldera/callop/core/store"
	"github.com/calldera/callop/crypto"
)

type readable struct {
	store.Readable
	prefix []byte
}

type writable struct {
	store.Writable
	prefix []byte
}

type snapshot struct {
	*writable
	*readable
}

// NewSnapshot creates a new prefixed snapshot.
func NewSnapshot(prefix string, snap store.Snapshot) store.Snapshot {
	p := []byte(prefix)

	return &snapshot{
		&writable{snap, p},
		&readable{snap, p},
	}
}

// NewReadable creates a new prefixed readable store.
func NewReadable(prefix string, r store.Readable) store.Readable {
	return &readable{r, []byte(prefix)}
}

// Get implements store.Readable.
func (s *readable) Get(key []byte) ([]byte, error) {
	return s.Readable.Get(NewPrefixedKey(s.prefix, key))
}

// Set implements store.Writable.
func (s *writable) Set(key []byte, value []byte) error {
	return s.Writable.Set(NewPrefixedKey(s.prefix, key), value)
}

// Delete implements store.Writable.
func (s *writable) Delete(key []byte) error {
	return s.Writable.Delete(NewPrefixedKey(s.prefix, key))
}

// NewPrefixedKey creates a 256-bit key from a prefix and a base key. The
// lengths are hashed along with the data so that distinct (prefix, key)
// pairs can never produce the same result.
func NewPrefixedKey(prefix, key []byte) []byte {
	h := crypto.NewHashFactory(crypto.Sha256).New()

	length := []byte{0, 0}
	binary.LittleEndian.PutUint16(length, uint16(len(prefix)))

	h.Write(length)
	h.Write(prefix)

	length = []byte{0, 0}
	binary.LittleEndian.PutUint16(length, uint16(len(key)))

	h.Write(length)
	h.Write(key)

	return h.Sum(nil)
}
