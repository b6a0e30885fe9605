package backend

import (
	"context"
	"fmt"
	"sync"

	"github.com/crewkit-ai/crewkit/core"
)

// Mock is a lightweight in-memory core.Backend useful for tests & examples.
// Responses can be canned per prompt and failures scripted per prompt with a
// bounded or unbounded failure count. Safe for concurrent use.
type Mock struct {
	info      core.BackendInfo
	mu        sync.Mutex
	responses map[string]string
	failures  map[string]int // remaining failures per prompt; -1 fails forever
	calls     []string
}

// NewMock constructs a Mock backend with the given name.
func NewMock(name string) *Mock {
	return &Mock{
		info:      core.BackendInfo{Name: name, Provider: "mock"},
		responses: make(map[string]string),
		failures:  make(map[string]int),
	}
}

// AddResponse registers a deterministic canned completion for a prompt.
func (m *Mock) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// FailTimes scripts the next n Generate calls for the prompt to fail with a
// GenerationError before succeeding again.
func (m *Mock) FailTimes(prompt string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[prompt] = n
}

// FailAlways scripts every Generate call for the prompt to fail.
func (m *Mock) FailAlways(prompt string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[prompt] = -1
}

// Calls returns the prompts received so far, one entry per attempt.
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Generate implements core.Backend.
func (m *Mock) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &GenerationError{Provider: "mock", Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, prompt)

	if remaining, ok := m.failures[prompt]; ok && remaining != 0 {
		if remaining > 0 {
			m.failures[prompt] = remaining - 1
		}
		return "", &GenerationError{Provider: "mock", Err: fmt.Errorf("scripted failure for %q", prompt)}
	}

	if resp, ok := m.responses[prompt]; ok {
		return resp, nil
	}
	return fmt.Sprintf("Mock response to: %s", prompt), nil
}

// Info implements core.Backend.
func (m *Mock) Info() core.BackendInfo { return m.info }
