package crewkit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewkit-ai/crewkit/backend"
	"github.com/crewkit-ai/crewkit/core"
	"github.com/crewkit-ai/crewkit/persona"
)

func TestFacade_EndToEnd(t *testing.T) {
	mock := backend.NewMock("m")
	mock.AddResponse("plan the release", "release planned")

	kit := New(func(o *Options) {
		o.Catalog = persona.NewCatalog(core.Persona{Name: "Planner", Role: "plans work"})
		o.Bindings = map[string]core.Backend{"Planner": mock}
		o.RetryPolicy = core.RetryPolicy{MaxRetries: 1, Interval: 0}
	})

	require.NoError(t, kit.CreateSession("release", "Planner"))
	require.NoError(t, kit.RunTasks(context.Background(), "release", []string{"plan the release"}))

	history, err := kit.History("release")
	require.NoError(t, err)
	assert.Equal(t, []string{"plan the release", "release planned"}, history)
}

func TestFacade_AsyncSubmit(t *testing.T) {
	mock := backend.NewMock("m")
	kit := New(func(o *Options) {
		o.Catalog = persona.NewCatalog(core.Persona{Name: "Worker"})
		o.Bindings = map[string]core.Backend{"Worker": mock}
	})
	require.NoError(t, kit.CreateSession("s1", "Worker"))

	runID, err := kit.Submit(context.Background(), "s1", []string{"task"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		history, err := kit.History("s1")
		return err == nil && len(history) == 2
	}, 2*time.Second, 10*time.Millisecond)

	_, ok := kit.Orchestrator().Run(runID)
	assert.True(t, ok)
}
