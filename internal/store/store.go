// Package store provides the durable key-value state layer.
package store

// KV defines the interface for the durable key-value store.
type KV interface {
	// Get retrieves the value stored under key.
	// Returns the value and true if present, otherwise nil and false.
	Get(key string) ([]byte, bool)

	// Set stores a value under key, fully overwriting any previous entry.
	Set(key string, value []byte) error

	// Delete removes the entry stored under key, if any.
	Delete(key string) error

	// Close closes the store and releases resources.
	Close() error
}
