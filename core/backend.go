package core

import "context"

// BackendInfo carries identifying metadata about a backend implementation.
type BackendInfo struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Backend is the uniform AI capability a session is bound to. Implementations
// must fail with a typed error (see the backend package) on any backend-side
// problem such as a timeout, auth failure or exhausted quota - never with a
// silent empty string.
type Backend interface {
	// Generate produces a completion for the given prompt text.
	Generate(ctx context.Context, prompt string) (string, error)

	// Info returns metadata about the backend implementation.
	Info() BackendInfo
}
