package interfaces

import "context"

// KVStore is the persistence backend. Values are opaque JSON documents
// addressed by a fixed key name.
type KVStore interface {
	// Get returns the stored value, or nil without error when the key does not exist
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value of key
	Put(ctx context.Context, key string, value []byte) error
}
