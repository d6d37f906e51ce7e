// Package memory provides a process-local key-value backend.
package memory

import (
	"context"
	"maps"
	"sync"
)

// Store keeps values in a map guarded by a RWMutex.
// The zero value is not usable; call New.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

// New creates an empty store, optionally pre-populated with initial.
func New(initial map[string]string) *Store {
	values := make(map[string]string, len(initial))
	maps.Copy(values, initial)

	return &Store{values: values}
}

// Get returns the value stored under key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]

	return v, ok, nil
}

// Set overwrites the value stored under key.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value

	return nil
}

// Clear removes key.
func (s *Store) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)

	return nil
}

// Snapshot returns a copy of every stored pair.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.values)
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "storage-memory" }

// Check implements ports.HealthChecker. Memory is always available.
func (s *Store) Check(context.Context) error { return nil }

// Close implements ports.StorageBackend.
func (s *Store) Close() error { return nil }
