// Package crypto defines the hashing primitives used in the repository.
//
// Transactions are uniquely identified by the digest of their
// fingerprint, and the prefixed stores derive their keys from a digest of
// the prefix and the base key.
package crypto

import (
	"crypto/sha256"
	"hash"

	"golang.org/x/crypto/sha3"
)

// HashAlgorithm is the type of supported hash algorithms.
type HashAlgorithm int

const (
	// Sha256 identifies the SHA-256 algorithm.
	Sha256 HashAlgorithm = iota

	// Sha3_224 identifies the SHA3-224 algorithm.
	Sha3_224
)

// HashFactory is an interface to produce a hash digest.
type HashFactory interface {
	New() hash.Hash
}

// hashFactory is a hash factory using the SHA family.
//
// - implements crypto.HashFactory
type hashFactory struct {
	algorithm HashAlgorithm
}

// NewHashFactory returns a new instance of the factory.
func NewHashFactory(a HashAlgorithm) HashFactory {
	return hashFactory{algorithm: a}
}

// New implements crypto.HashFactory. It returns a new hash instance.
func (f hashFactory) New() hash.Hash {
	switch f.algorithm {
	case Sha256:
		return sha256.New()
	case Sha3_224:
		return sha3.New224()
	default:
		panic("unknown hash algorithm")
	}
}
