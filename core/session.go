package core

import (
	"sync"
	"time"
)

// Session pairs a persona with a bound AI backend and accumulates the
// task/response history produced by running tasks against it. It is safe for
// concurrent access; each session carries its own lock so unrelated sessions
// never serialize on each other.
//
// Contract:
//   - History mutations update the Updated timestamp
//   - History returns a defensive copy to avoid external mutation
//   - Context is reserved per-session state, currently opaque to the core
//   - Clone performs deep copies of maps/slices for safe divergence.
type Session struct {
	ID      string
	Persona Persona
	Backend Backend
	Policy  RetryPolicy
	Created time.Time
	Updated time.Time

	mu      sync.RWMutex
	history []string
	context map[string]any
}

// NewSession creates a session binding the persona to the backend under the
// given retry policy. History starts empty.
func NewSession(id string, persona Persona, backend Backend, policy RetryPolicy) *Session {
	now := time.Now()
	return &Session{
		ID:      id,
		Persona: persona,
		Backend: backend,
		Policy:  policy,
		Created: now,
		Updated: now,
		history: []string{},
		context: map[string]any{},
	}
}

// AppendHistory appends an entry (task text or response text) to the history
// log, updating the Updated timestamp.
func (s *Session) AppendHistory(entry string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, entry)
	s.Updated = time.Now()
}

// History returns a snapshot copy of the full history sequence, tasks and
// responses interleaved in the order recorded. A concurrently running task
// batch may still be appending.
func (s *Session) History() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

// SetContext sets a key/value pair in the session's opaque context state.
func (s *Session) SetContext(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context[key] = value
	s.Updated = time.Now()
}

// GetContext returns the value and existence flag for a context key.
func (s *Session) GetContext(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.context[key]
	return v, ok
}

// Clone returns a deep copy of the session safe for independent mutation.
// The backend binding is shared; it is required to be safe for concurrent use.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{
		ID:      s.ID,
		Persona: s.Persona,
		Backend: s.Backend,
		Policy:  s.Policy,
		Created: s.Created,
		Updated: s.Updated,
		history: make([]string, len(s.history)),
		context: make(map[string]any, len(s.context)),
	}
	copy(clone.history, s.history)
	for k, v := range s.context {
		clone.context[k] = v
	}
	return clone
}
