// Package kvstore provides the flat key-value persistence layer backing the
// store. Values are serialized as JSON text under fixed keys; there are no
// transactions and no indexing, so two logically related writes are two
// independent persist calls.
package kvstore

import "errors"

// ErrKeyNotFound is returned by Get when the key has never been set or has
// been removed.
var ErrKeyNotFound = errors.New("key not found")

// Store is a persistent mapping from string keys to JSON-serializable
// values. Implementations must be safe for concurrent use.
type Store interface {
	// Get unmarshals the value stored under key into out, which must be a
	// non-nil pointer. Returns ErrKeyNotFound if the key is absent.
	Get(key string, out interface{}) error
	// Set marshals value to JSON and stores it under key, replacing any
	// previous value.
	Set(key string, value interface{}) error
	// Remove deletes the key. Removing an absent key is a no-op.
	Remove(key string) error
}
