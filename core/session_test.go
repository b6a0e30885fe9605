package core

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticBackend struct{}

func (staticBackend) Generate(context.Context, string) (string, error) { return "ok", nil }

func (staticBackend) Info() BackendInfo {
	return BackendInfo{Name: "static", Provider: "mock"}
}

func newSession() *Session {
	return NewSession("s1", Persona{Name: "Tester"}, staticBackend{}, RetryPolicy{MaxRetries: 1})
}

func TestSession_HistorySnapshot(t *testing.T) {
	s := newSession()
	s.AppendHistory("task")
	s.AppendHistory("response")

	history := s.History()
	require.Equal(t, []string{"task", "response"}, history)

	// Mutating the snapshot must not affect the session.
	history[0] = "tampered"
	assert.Equal(t, []string{"task", "response"}, s.History())
}

func TestSession_Context(t *testing.T) {
	s := newSession()

	_, ok := s.GetContext("key")
	assert.False(t, ok)

	s.SetContext("key", 42)
	v, ok := s.GetContext("key")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestSession_Clone(t *testing.T) {
	s := newSession()
	s.AppendHistory("task")
	s.SetContext("k", "v")

	clone := s.Clone()
	clone.AppendHistory("extra")
	clone.SetContext("k", "changed")

	assert.Len(t, s.History(), 1)
	v, _ := s.GetContext("k")
	assert.Equal(t, "v", v)
}

func TestSession_ConcurrentAppends(t *testing.T) {
	s := newSession()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AppendHistory("entry")
			_ = s.History()
		}()
	}
	wg.Wait()

	assert.Len(t, s.History(), 50)
}
