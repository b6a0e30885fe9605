package core

import "fmt"

// PersonaNotFoundError indicates a session was requested for a persona name
// that does not exist in the catalog. Caller misuse; never retried.
type PersonaNotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *PersonaNotFoundError) Error() string {
	return fmt.Sprintf("persona %q not found in catalog", e.Name)
}

// SessionNotFoundError indicates an operation referenced an unknown session id.
type SessionNotFoundError struct {
	SessionID string
}

// Error implements the error interface.
func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("session %q not found", e.SessionID)
}

// BindingNotFoundError indicates no backend binding exists for a persona.
// Unresolved bindings fail loudly at session creation rather than silently
// falling back to a default, so misconfiguration surfaces immediately.
type BindingNotFoundError struct {
	PersonaName string
}

// Error implements the error interface.
func (e *BindingNotFoundError) Error() string {
	return fmt.Sprintf("no backend binding for persona %q", e.PersonaName)
}
