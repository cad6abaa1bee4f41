//
// This file contains an adapter to expose a bucket as a store.Snapshot,
// which is what the execution service expects.
//

package kv

import "github.com/calldera/callop/core/store"

// bucketSnapshot is a snapshot of the store backed by a database bucket.
// It is only valid for the lifetime of the enclosing transaction.
//
// - implements store.Snapshot
type bucketSnapshot struct {
	bucket Bucket
}

// NewSnapshot returns a snapshot backed by the bucket.
func NewSnapshot(bucket Bucket) store.Snapshot {
	return bucketSnapshot{bucket: bucket}
}

// Get implements store.Readable. It returns a copy of the value so that
// it stays valid after the transaction.
func (snap bucketSnapshot) Get(key []byte) ([]byte, error) {
	value := snap.bucket.Get(key)
	if value == nil {
		return nil, nil
	}

	return append([]byte{}, value...), nil
}

// Set implements store.Writable.
func (snap bucketSnapshot) Set(key, value []byte) error {
	return snap.bucket.Set(key, value)
}

// Delete implements store.Writable.
func (snap bucketSnapshot) Delete(key []byte) error {
	return snap.bucket.Delete(key)
}
