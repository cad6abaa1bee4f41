//
// This file contains the implementation of the database using bbolt as
// the engine.
//

package kv

import (
	"bytes"

	"go.etcd.io/bbolt"
	"golang.org/x/xerrors"
)

// boltDB is an adapter of the KV database using bbolt.
//
// - implements kv.DB
type boltDB struct {
	bolt *bbolt.DB
}

// New opens a new database to the given file.
func New(path string) (DB, error) {
	db, err := bbolt.Open(path, 0666, &bbolt.Options{})
	if err != nil {
		return nil, xerrors.Errorf("failed to open db: %v", err)
	}

	return boltDB{bolt: db}, nil
}

// View implements kv.DB. It executes the read-only transaction in the
// context of the database.
func (db boltDB) View(fn func(ReadableTx) error) error {
	return db.bolt.View(func(txn *bbolt.Tx) error {
		return fn(boltTx{txn: txn})
	})
}

// Update implements kv.DB. It executes the writable transaction in the
// context of the database.
func (db boltDB) Update(fn func(WritableTx) error) error {
	return db.bolt.Update(func(txn *bbolt.Tx) error {
		return fn(boltTx{txn: txn})
	})
}

// Close implements kv.DB. It closes the database. Any view or update call
// will result in an error after this function is called.
func (db boltDB) Close() error {
	return db.bolt.Close()
}

// boltTx is the adapter of a bbolt transaction to the kv.WritableTx
// interface.
//
// - implements kv.ReadableTx, kv.WritableTx
type boltTx struct {
	txn *bbolt.Tx
}

// GetBucket implements kv.ReadableTx. It returns the bucket with the
// given name, or nil if it does not exist.
func (tx boltTx) GetBucket(name []byte) Bucket {
	bucket := tx.txn.Bucket(name)
	if bucket == nil {
		return nil
	}

	return boltBucket{bucket: bucket}
}

// GetBucketOrCreate implements kv.WritableTx. It returns the bucket with
// the given name, creating it if necessary.
func (tx boltTx) GetBucketOrCreate(name []byte) (Bucket, error) {
	bucket, err := tx.txn.CreateBucketIfNotExists(name)
	if err != nil {
		return nil, xerrors.Errorf("failed to create bucket: %v", err)
	}

	return boltBucket{bucket: bucket}, nil
}

// OnCommit implements store.Transaction. It registers the callback to be
// called after the transaction is successful.
func (tx boltTx) OnCommit(fn func()) {
	tx.txn.OnCommit(fn)
}

// boltBucket is the adapter of a bbolt bucket to the kv.Bucket interface.
//
// - implements kv.Bucket
type boltBucket struct {
	bucket *bbolt.Bucket
}

// Get implements kv.Bucket. It returns the value associated to the key.
func (txn boltBucket) Get(key []byte) []byte {
	return txn.bucket.Get(key)
}

// Set implements kv.Bucket. It sets the provided key to the value.
func (txn boltBucket) Set(key, value []byte) error {
	return txn.bucket.Put(key, value)
}

// Delete implements kv.Bucket. It deletes the key from the bucket.
func (txn boltBucket) Delete(key []byte) error {
	return txn.bucket.Delete(key)
}

// ForEach implements kv.Bucket. It iterates over the whole bucket.
func (txn boltBucket) ForEach(fn func(k, v []byte) error) error {
	return txn.bucket.ForEach(fn)
}

// Scan implements kv.Bucket. It iterates over the keys matching the
// prefix, in their natural order.
func (txn boltBucket) Scan(prefix []byte, fn func(k, v []byte) error) error {
	cursor := txn.bucket.Cursor()

	for k, v := cursor.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = cursor.Next() {
		err := fn(k, v)
		if err != nil {
			return xerrors.Errorf("callback failed: %v", err)
		}
	}

	return nil
}
