package store

import (
	"encoding/json"
	"fmt"
)

// Session is a typed view over one player's Values. It satisfies the
// game.Session interface. It is not safe for concurrent use; one request owns
// it at a time.
type Session struct {
	ID     string
	values Values
	dirty  bool
}

// NewSession wraps v (nil for a fresh session).
func NewSession(id string, v Values) *Session {
	if v == nil {
		v = Values{}
	}
	return &Session{ID: id, values: v}
}

// Get decodes key into dst. A missing key or an undecodable value reports false.
func (s *Session) Get(key string, dst any) bool {
	raw, ok := s.values[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// Set encodes v under key.
func (s *Session) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session set %q: %w", key, err)
	}
	s.values[key] = raw
	s.dirty = true
	return nil
}

func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.dirty = true
	}
}

// Dirty reports whether the session changed since it was loaded.
func (s *Session) Dirty() bool { return s.dirty }

// Values returns the underlying map for saving.
func (s *Session) Values() Values { return s.values }
