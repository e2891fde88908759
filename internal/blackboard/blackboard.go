// Package blackboard provides the shared state that cooperating agents use to
// hand intermediate results to each other during a single orchestration run.
package blackboard

import (
	"maps"
	"slices"
	"sync"
)

// State is a key/value store guarded by a single mutex. Every operation holds
// the lock for its full duration, so no reader observes a partially applied
// write. Mapping values are replaced copy-on-write by MergeMapping, which
// keeps maps handed out by Read and Snapshot stable after the call returns.
type State struct {
	mu    sync.Mutex
	store map[string]any

	// touched records written keys; it is only set on forks.
	touched map[string]struct{}
}

// New returns an empty State.
func New() *State {
	return &State{store: make(map[string]any)}
}

// Read returns the value stored at key, or def if the key is absent.
func (s *State) Read(key string, def any) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.store[key]
	if !ok {
		return def
	}
	return v
}

// ReadField returns the string stored under field of the mapping at key. It
// returns "" when the key is absent, is not a mapping, or the field is not a
// string.
func (s *State) ReadField(key, field string) string {
	m, ok := s.Read(key, nil).(map[string]any)
	if !ok {
		return ""
	}
	str, _ := m[field].(string)
	return str
}

// Write stores value at key, replacing any previous value.
func (s *State) Write(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[key] = value
	s.touch(key)
}

// MergeMapping shallow-merges values into the mapping stored at key. If the
// current value is missing or is not a mapping it is replaced by a copy of
// values.
func (s *State) MergeMapping(key string, values map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make(map[string]any, len(values))
	if cur, ok := s.store[key].(map[string]any); ok {
		maps.Copy(merged, cur)
	}
	maps.Copy(merged, values)
	s.store[key] = merged
	s.touch(key)
}

// Snapshot returns a copy of the whole store.
func (s *State) Snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.store)
}

// Keys returns the sorted list of keys currently present.
func (s *State) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.store))
}

// Clear removes every key.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.store)
}

// Fork returns an isolated copy of s. Reads on the fork see s as it was at
// the time of the call; writes stay on the fork until Commit.
func (s *State) Fork() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &State{store: maps.Clone(s.store), touched: make(map[string]struct{})}
}

// Commit copies the keys written on fork into s, replacing their values.
func (s *State) Commit(fork *State) {
	fork.mu.Lock()
	changed := make(map[string]any, len(fork.touched))
	for k := range fork.touched {
		changed[k] = fork.store[k]
	}
	fork.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	maps.Copy(s.store, changed)
	for k := range changed {
		s.touch(k)
	}
}

func (s *State) touch(key string) {
	if s.touched != nil {
		s.touched[key] = struct{}{}
	}
}
