// Package kv provides the durable key-value storage the workspace stores
// read at startup and rewrite on every mutation.
package kv

// Store is the persistence adapter contract. Values are opaque byte slices;
// the stores put JSON in them.
type Store interface {
	// Get returns the stored value for key. The second result reports whether
	// the key exists; a missing key is not an error.
	Get(key string) ([]byte, bool, error)
	// Put stores value under key, replacing any previous value.
	Put(key string, value []byte) error
}
