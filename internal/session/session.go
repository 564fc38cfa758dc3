package session

import (
	"sync"

	"github.com/google/uuid"
)

// Session binds a state to its owner. Each orchestration step runs to
// completion under the session lock, so a single session never has
// overlapping in-flight requests.
type Session struct {
	ID uuid.UUID

	mu    sync.Mutex
	state State
}

// newSession creates a session on the input screen.
func newSession() *Session {
	return &Session{
		ID:    uuid.New(),
		state: NewState(),
	}
}

// Snapshot returns a copy of the current state. The copy shares the
// analysis pointer and results slice, both of which are immutable once
// stored.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
