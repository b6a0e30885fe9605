package testutil

import (
	"github.com/crewkit-ai/crewkit/core"
)

// SessionBuilder helps construct sessions with fluent chaining for tests.
// Example:
//
//	sess := NewSessionBuilder("sess-1").Persona(p).Backend(b).History("task", "resp").Build()
type SessionBuilder struct {
	id      string
	persona core.Persona
	backend core.Backend
	policy  core.RetryPolicy
	history []string
	context map[string]any
}

// NewSessionBuilder creates a new builder for a session with the given id.
// Use chainable methods (Persona, Backend, Policy, History, Context) then
// call Build.
func NewSessionBuilder(id string) *SessionBuilder {
	return &SessionBuilder{id: id, context: map[string]any{}}
}

// Persona sets the persona on the resulting session (chainable).
func (b *SessionBuilder) Persona(p core.Persona) *SessionBuilder {
	b.persona = p
	return b
}

// Backend sets the backend binding on the resulting session (chainable).
func (b *SessionBuilder) Backend(be core.Backend) *SessionBuilder {
	b.backend = be
	return b
}

// Policy sets the retry policy on the resulting session (chainable).
func (b *SessionBuilder) Policy(p core.RetryPolicy) *SessionBuilder {
	b.policy = p
	return b
}

// History appends entries to the session history in order (chainable).
func (b *SessionBuilder) History(entries ...string) *SessionBuilder {
	b.history = append(b.history, entries...)
	return b
}

// Context sets or overwrites a context key/value pair (chainable).
func (b *SessionBuilder) Context(key string, val any) *SessionBuilder {
	b.context[key] = val
	return b
}

// Build returns a *core.Session with pre-populated history and context.
func (b *SessionBuilder) Build() *core.Session {
	s := core.NewSession(b.id, b.persona, b.backend, b.policy)

	for _, entry := range b.history {
		s.AppendHistory(entry)
	}

	for k, v := range b.context {
		s.SetContext(k, v)
	}

	return s
}
