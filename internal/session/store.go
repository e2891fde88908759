// Package session persists conversation turns per session id.
package session

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Turn is one stored message of a conversation.
type Turn struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the interface for session history backends.
// Implementations: MemStore (default, testing) and KuzuStore (persistent, cgo).
type Store interface {
	io.Closer

	// Load returns the turns of sessionID, oldest first. An unknown session
	// yields an empty slice.
	Load(ctx context.Context, sessionID string) ([]Turn, error)

	// Save appends a turn to sessionID.
	Save(ctx context.Context, sessionID, role, content string) error

	// Clear removes every turn of sessionID.
	Clear(ctx context.Context, sessionID string) error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendKuzu   = "kuzu"
)

// Open returns the store for backend. path is only used by persistent
// backends; an empty path opens an in-memory database.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemStore(), nil
	case BackendKuzu:
		return openKuzu(path)
	default:
		return nil, fmt.Errorf("session: unknown backend %q", backend)
	}
}
