// Package kvstore provides the flat key-value document backend: four named
// buckets of JSON documents keyed by record id, with an atomic multi-write
// boundary. It deliberately knows nothing about query semantics — filtering
// and sorting live in the repository layer so both storage backends share one
// definition.
package kvstore

import (
	"context"
	"errors"
)

// Bucket names, one per persisted collection.
const (
	BucketUsers        = "users"
	BucketCategories   = "categories"
	BucketItems        = "items"
	BucketTransactions = "transactions"
)

// Buckets lists every collection the store must host.
var Buckets = []string{BucketUsers, BucketCategories, BucketItems, BucketTransactions}

// ErrKeyNotFound is returned by Get for an absent key.
var ErrKeyNotFound = errors.New("kvstore: key not found")

// Store is the flat-store port. Implementations: file-backed JSON store
// (default, no external process) and Redis hashes.
type Store interface {
	// Get returns the document stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	// List returns every document in the bucket, in unspecified order.
	List(ctx context.Context, bucket string) ([][]byte, error)
	// Update runs fn against a write buffer and applies all buffered writes
	// atomically: either every Put/Delete lands or none does. Returning an
	// error from fn discards the buffer.
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// Tx buffers writes inside one atomic Update.
type Tx interface {
	Put(bucket, key string, doc []byte)
	Delete(bucket, key string)
}

// writeOp is the buffered form of a Put or Delete shared by implementations.
type writeOp struct {
	bucket string
	key    string
	doc    []byte // nil means delete
}

type writeBuffer struct {
	ops []writeOp
}

func (b *writeBuffer) Put(bucket, key string, doc []byte) {
	cp := make([]byte, len(doc))
	copy(cp, doc)
	b.ops = append(b.ops, writeOp{bucket: bucket, key: key, doc: cp})
}

func (b *writeBuffer) Delete(bucket, key string) {
	b.ops = append(b.ops, writeOp{bucket: bucket, key: key})
}
