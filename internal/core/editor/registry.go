package editor

import (
	"errors"
	"sync"
)

// ErrTooManySessions is returned when the registry is at capacity.
var ErrTooManySessions = errors.New("too many editor sessions")

// Registry tracks live editor sessions so the server can cap
// concurrent editors and report how many are open.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	max      int
}

// NewRegistry builds a registry admitting up to max sessions.
func NewRegistry(max int) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		max:      max,
	}
}

// Add registers a session, failing when the registry is full.
func (r *Registry) Add(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.max > 0 && len(r.sessions) >= r.max {
		return ErrTooManySessions
	}
	r.sessions[s.ID()] = s
	return nil
}

// Remove drops a session by ID. Removing an unknown ID is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
