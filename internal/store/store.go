// Package store persists player sessions.
//
// A session is a flat map of JSON values keyed by name. Backends only move
// those maps around; the Session type layers typed get/set on top so the game
// engines never see the storage technology.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by Load for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Values is the stored form of one session.
type Values map[string]json.RawMessage

// Store defines the persistence interface for sessions.
// Implementations may be backed by memory or SQLite (this package).
type Store interface {
	// Load retrieves a session by ID.
	// Returns ErrNotFound if the session doesn't exist.
	Load(ctx context.Context, id string) (Values, error)

	// Save persists or replaces a session.
	Save(ctx context.Context, id string, v Values) error

	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}
