// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
package ports

import (
	"context"
)

// KeyValueStore is the string key/value primitive every store persists into.
// Values are opaque text; the application layer owns the JSON encoding.
//
// Implementations:
//   - storage/memory: process-local map
//   - storage/sqlite: single kv table on disk
//   - storage/remote: HTTP key-value service
type KeyValueStore interface {
	// Get returns the stored value. found is false when the key is absent,
	// which is not an error.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set overwrites the value stored under key.
	// Returns domain.ErrUnavailable when the backend cannot be reached.
	Set(ctx context.Context, key, value string) error

	// Clear removes key. Clearing an absent key is not an error.
	Clear(ctx context.Context, key string) error
}

// StorageBackend is a KeyValueStore that owns resources and reports health.
type StorageBackend interface {
	KeyValueStore
	HealthChecker

	// Close releases the backend's resources.
	Close() error
}
