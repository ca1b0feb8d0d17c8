package rubric

import (
	"errors"
	"sync"
)

var ErrSessionNotFound = errors.New("session not found")

// OpenSession pairs a live session with the identifiers the hosting
// service needs to persist its outcome.
type OpenSession struct {
	ID         string
	RubricID   string
	AssessorID string
	Session    *Session
}

// Registry tracks open sessions by assessment id and serializes access
// to them, so each draft keeps its single-owner contract even under
// concurrent HTTP requests.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*OpenSession
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[string]*OpenSession{}}
}

func (r *Registry) Open(os *OpenSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[os.ID] = os
}

// With runs fn against a session while holding the registry lock.
func (r *Registry) With(id string, fn func(*OpenSession) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	os, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	return fn(os)
}

func (r *Registry) Close(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
