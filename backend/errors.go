package backend

import "fmt"

// GenerationError is the typed failure every backend surfaces for
// backend-side problems (timeout, auth failure, quota). The orchestrator
// treats it as transient and retries under the session's policy.
type GenerationError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("backend %s: generation failed: %v", e.Provider, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *GenerationError) Unwrap() error { return e.Err }
