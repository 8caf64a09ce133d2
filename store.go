// File: themekit/store.go
package themekit

import (
	"sort"
	"sync"
)

// Store supplies raw setting values. Implementations report absence with
// Undefined; a stored falsy value (empty string, zero, false) is defined and
// must be returned as Some.
type Store interface {
	// Read returns the stored value for key, or Undefined.
	Read(key string) Value

	// Write persists a value for key and reports success.
	Write(key string, value any) bool

	// Delete removes the stored value for key, reporting false if absent.
	Delete(key string) bool

	// Keys returns all stored keys, sorted.
	Keys() []string
}

// MemoryStore is an in-process Store, useful for tests and previews.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]any)}
}

// Read returns the stored value for key, or Undefined.
func (m *MemoryStore) Read(key string) Value {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return Some(v)
	}
	return Undefined
}

// Write stores value under key.
func (m *MemoryStore) Write(key string, value any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return true
}

// Delete removes key, reporting false if it was not stored.
func (m *MemoryStore) Delete(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[key]; !ok {
		return false
	}
	delete(m.values, key)
	return true
}

// Keys returns all stored keys, sorted.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
