package services

import (
	"sync"

	"github.com/vedlearn/session-service/internal/engine"
)

// SessionRegistry holds the live sessions of one process run. Sessions are
// ephemeral: a restart loses in-flight sessions by design, evaluated results
// survive in the results store.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*engine.Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*engine.Session),
	}
}

func (r *SessionRegistry) Put(s *engine.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

func (r *SessionRegistry) Get(id string) (*engine.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *SessionRegistry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
