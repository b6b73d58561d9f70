// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used for ephemeral player sessions in development/testing, or when
// durability is not required.
//
// Characteristics:
//   - Stores Values keyed by session ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Values are copied on the way in and out so callers can't alias stored state.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"maps"
	"sync"
)

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex      // guards sessions map
	sessions map[string]Values // keyed by session ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]Values)}
}

// Load returns a copy of the session's values or ErrNotFound.
func (m *memory) Load(_ context.Context, id string) (Values, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.sessions[id]; ok {
		return maps.Clone(v), nil
	}
	return nil, ErrNotFound
}

// Save adds or replaces the session's values.
func (m *memory) Save(_ context.Context, id string, v Values) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = maps.Clone(v)
	return nil
}

// Delete removes the session; missing IDs are not an error.
func (m *memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Close() error { return nil }
