package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewkit-ai/crewkit/core"
)

// Interface compliance (compile-time assertion)
var _ core.Backend = (*Mock)(nil)

func TestMock_CannedResponse(t *testing.T) {
	m := NewMock("test")
	m.AddResponse("hello", "world")

	resp, err := m.Generate(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "world", resp)
}

func TestMock_DefaultResponse(t *testing.T) {
	m := NewMock("test")

	resp, err := m.Generate(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: anything", resp)
}

func TestMock_FailTimes(t *testing.T) {
	m := NewMock("test")
	m.AddResponse("flaky", "ok")
	m.FailTimes("flaky", 2)

	for range 2 {
		_, err := m.Generate(context.Background(), "flaky")
		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr)
	}

	resp, err := m.Generate(context.Background(), "flaky")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Len(t, m.Calls(), 3)
}

func TestMock_FailAlways(t *testing.T) {
	m := NewMock("test")
	m.FailAlways("doomed")

	for range 5 {
		_, err := m.Generate(context.Background(), "doomed")
		assert.Error(t, err)
	}
}

func TestMock_CancelledContext(t *testing.T) {
	m := NewMock("test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Generate(ctx, "x")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMock_Info(t *testing.T) {
	m := NewMock("test")
	info := m.Info()
	assert.Equal(t, "test", info.Name)
	assert.Equal(t, "mock", info.Provider)
}
