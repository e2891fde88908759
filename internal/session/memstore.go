package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using Go maps. Thread-safe via sync.RWMutex.
type MemStore struct {
	mu    sync.RWMutex
	turns map[string][]Turn
	now   func() time.Time
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{
		turns: make(map[string][]Turn),
		now:   time.Now,
	}
}

// Load returns a copy of the session's turns.
func (m *MemStore) Load(_ context.Context, sessionID string) ([]Turn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.turns[sessionID]), nil
}

// Save appends a turn.
func (m *MemStore) Save(_ context.Context, sessionID, role, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns[sessionID] = append(m.turns[sessionID], Turn{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: m.now(),
	})
	return nil
}

// Clear drops the session.
func (m *MemStore) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.turns, sessionID)
	return nil
}

// Close is a no-op.
func (m *MemStore) Close() error { return nil }
