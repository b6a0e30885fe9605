package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewkit-ai/crewkit/backend"
	"github.com/crewkit-ai/crewkit/core"
	"github.com/crewkit-ai/crewkit/internal/testutil"
	"github.com/crewkit-ai/crewkit/persona"
)

func newTestOrchestrator(t *testing.T, mock *backend.Mock) *Orchestrator {
	t.Helper()
	catalog := persona.NewCatalog(
		testutil.NewPersonaBuilder("Tester").Role("tests things").Capabilities("testing").Build(),
		testutil.NewPersonaBuilder("Coder").Role("writes code").Build(),
	)
	return New(func(o *Options) {
		o.Catalog = catalog
		o.Bindings = map[string]core.Backend{
			"Tester": mock,
			"Coder":  mock,
		}
		o.DefaultPolicy = core.RetryPolicy{MaxRetries: 1, Interval: 0}
	})
}

func TestCreateSession_UnknownPersona(t *testing.T) {
	orch := newTestOrchestrator(t, backend.NewMock("m"))

	err := orch.CreateSession("s1", "Ghost")

	var notFound *core.PersonaNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Ghost", notFound.Name)

	// No session stored on failure.
	_, err = orch.History("s1")
	var sessionErr *core.SessionNotFoundError
	assert.ErrorAs(t, err, &sessionErr)
}

func TestCreateSession_UnboundPersona(t *testing.T) {
	catalog := persona.NewCatalog(core.Persona{Name: "Loner"})
	orch := New(func(o *Options) {
		o.Catalog = catalog
	})

	err := orch.CreateSession("s1", "Loner")

	var bindingErr *core.BindingNotFoundError
	require.ErrorAs(t, err, &bindingErr)
	assert.Equal(t, "Loner", bindingErr.PersonaName)
}

func TestCreateSession_OverwriteResetsHistory(t *testing.T) {
	mock := backend.NewMock("m")
	mock.AddResponse("a", "resp-a")
	orch := newTestOrchestrator(t, mock)

	require.NoError(t, orch.CreateSession("s1", "Tester"))
	require.NoError(t, orch.RunTasks(context.Background(), "s1", []string{"a"}))

	history, err := orch.History("s1")
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Re-creating the same id is an upsert; history is reset.
	require.NoError(t, orch.CreateSession("s1", "Coder"))

	history, err = orch.History("s1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRunTasks_UnknownSession(t *testing.T) {
	orch := newTestOrchestrator(t, backend.NewMock("m"))

	err := orch.RunTasks(context.Background(), "nope", []string{"a"})

	var sessionErr *core.SessionNotFoundError
	require.ErrorAs(t, err, &sessionErr)
	assert.Equal(t, "nope", sessionErr.SessionID)
}

func TestRunTasks_AllSucceed(t *testing.T) {
	mock := backend.NewMock("m")
	mock.AddResponse("a", "resp-a")
	mock.AddResponse("b", "resp-b")
	mock.AddResponse("c", "resp-c")
	orch := newTestOrchestrator(t, mock)
	require.NoError(t, orch.CreateSession("s1", "Tester"))

	require.NoError(t, orch.RunTasks(context.Background(), "s1", []string{"a", "b", "c"}))

	history, err := orch.History("s1")
	require.NoError(t, err)
	// Task + response per item, in submission order.
	assert.Equal(t, []string{"a", "resp-a", "b", "resp-b", "c", "resp-c"}, history)
}

func TestRunTasks_FailedTaskSkippedBatchContinues(t *testing.T) {
	mock := backend.NewMock("m")
	mock.AddResponse("a", "resp-a")
	mock.AddResponse("c", "resp-c")
	mock.FailAlways("b")
	orch := newTestOrchestrator(t, mock)
	require.NoError(t, orch.CreateSession("s1", "Tester"))

	require.NoError(t, orch.RunTasks(context.Background(), "s1", []string{"a", "b", "c"}))

	history, err := orch.History("s1")
	require.NoError(t, err)
	// "b" is recorded once with no response; "c" still runs.
	assert.Equal(t, []string{"a", "resp-a", "b", "c", "resp-c"}, history)

	// maxRetries=1 means exactly two attempts for "b".
	attempts := 0
	for _, call := range mock.Calls() {
		if call == "b" {
			attempts++
		}
	}
	assert.Equal(t, 2, attempts)
}

func TestRunTasks_RetryThenSucceed(t *testing.T) {
	mock := backend.NewMock("m")
	mock.AddResponse("flaky", "recovered")
	mock.FailTimes("flaky", 1)
	orch := newTestOrchestrator(t, mock)
	require.NoError(t, orch.CreateSession("s1", "Tester"))

	require.NoError(t, orch.RunTasks(context.Background(), "s1", []string{"flaky"}))

	history, err := orch.History("s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"flaky", "recovered"}, history)
	assert.Len(t, mock.Calls(), 2)
}

func TestRunTasks_AttemptBudgetNeverExceeded(t *testing.T) {
	mock := backend.NewMock("m")
	mock.FailAlways("doomed")
	catalog := persona.NewCatalog(core.Persona{Name: "Tester"})
	orch := New(func(o *Options) {
		o.Catalog = catalog
		o.Bindings = map[string]core.Backend{"Tester": mock}
		o.DefaultPolicy = core.RetryPolicy{MaxRetries: 3, Interval: 0}
	})
	require.NoError(t, orch.CreateSession("s1", "Tester"))

	require.NoError(t, orch.RunTasks(context.Background(), "s1", []string{"doomed"}))

	assert.Len(t, mock.Calls(), 4) // maxRetries + 1
}

func TestRunTasks_PerSessionPolicyOverride(t *testing.T) {
	mock := backend.NewMock("m")
	mock.FailAlways("doomed")
	orch := newTestOrchestrator(t, mock)

	require.NoError(t, orch.CreateSession("s1", "Tester", func(o *SessionOptions) {
		o.Policy = &core.RetryPolicy{MaxRetries: 0, Interval: 0}
	}))

	require.NoError(t, orch.RunTasks(context.Background(), "s1", []string{"doomed"}))

	// Zero retries means a single attempt.
	assert.Len(t, mock.Calls(), 1)
}

func TestRunTasks_CancellationAbortsBatch(t *testing.T) {
	mock := backend.NewMock("m")
	mock.FailAlways("stuck")
	catalog := persona.NewCatalog(core.Persona{Name: "Tester"})
	orch := New(func(o *Options) {
		o.Catalog = catalog
		o.Bindings = map[string]core.Backend{"Tester": mock}
		o.DefaultPolicy = core.RetryPolicy{MaxRetries: 100, Interval: 50 * time.Millisecond}
	})
	require.NoError(t, orch.CreateSession("s1", "Tester"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- orch.RunTasks(ctx, "s1", []string{"stuck", "never-reached"}) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("RunTasks did not return after cancellation")
	}

	history, err := orch.History("s1")
	require.NoError(t, err)
	// The first task was recorded before its attempts; the second never ran.
	assert.Equal(t, []string{"stuck"}, history)
}

func TestRunTasks_SessionsExecuteIndependently(t *testing.T) {
	mock := backend.NewMock("m")
	orch := newTestOrchestrator(t, mock)
	require.NoError(t, orch.CreateSession("s1", "Tester"))
	require.NoError(t, orch.CreateSession("s2", "Coder"))

	done := make(chan error, 2)
	go func() { done <- orch.RunTasks(context.Background(), "s1", []string{"x1", "x2"}) }()
	go func() { done <- orch.RunTasks(context.Background(), "s2", []string{"y1", "y2"}) }()
	require.NoError(t, <-done)
	require.NoError(t, <-done)

	h1, err := orch.History("s1")
	require.NoError(t, err)
	h2, err := orch.History("s2")
	require.NoError(t, err)
	assert.Len(t, h1, 4)
	assert.Len(t, h2, 4)
	assert.Equal(t, "x1", h1[0])
	assert.Equal(t, "y1", h2[0])
}

func TestScenario_FailingMiddleTask(t *testing.T) {
	// Persona "Tester", stub backend failing task 2 of 3 on all attempts,
	// maxRetries=1: expect ["a","resp-a","b","c","resp-c"].
	mock := backend.NewMock("stub")
	mock.AddResponse("a", "resp-a")
	mock.AddResponse("c", "resp-c")
	mock.FailAlways("b")
	orch := newTestOrchestrator(t, mock)
	require.NoError(t, orch.CreateSession("s1", "Tester"))

	require.NoError(t, orch.RunTasks(context.Background(), "s1", []string{"a", "b", "c"}))

	history, err := orch.History("s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "resp-a", "b", "c", "resp-c"}, history)
}

func TestSubmitAndRunLifecycle(t *testing.T) {
	mock := backend.NewMock("m")
	mock.AddResponse("a", "resp-a")
	orch := newTestOrchestrator(t, mock)
	require.NoError(t, orch.CreateSession("s1", "Tester"))

	runID, err := orch.Submit(context.Background(), "s1", []string{"a"})
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	require.Eventually(t, func() bool {
		run, ok := orch.Run(runID)
		return ok && run.Status == RunStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	run, ok := orch.Run(runID)
	require.True(t, ok)
	assert.Equal(t, "s1", run.SessionID)
	assert.Equal(t, 1, run.TaskCount)
	assert.False(t, run.Finished.IsZero())

	history, err := orch.History("s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "resp-a"}, history)
}

func TestSubmit_UnknownSession(t *testing.T) {
	orch := newTestOrchestrator(t, backend.NewMock("m"))

	_, err := orch.Submit(context.Background(), "nope", []string{"a"})

	var sessionErr *core.SessionNotFoundError
	assert.ErrorAs(t, err, &sessionErr)
}

func TestCancel_RunningBatch(t *testing.T) {
	mock := backend.NewMock("m")
	mock.FailAlways("stuck")
	catalog := persona.NewCatalog(core.Persona{Name: "Tester"})
	orch := New(func(o *Options) {
		o.Catalog = catalog
		o.Bindings = map[string]core.Backend{"Tester": mock}
		o.DefaultPolicy = core.RetryPolicy{MaxRetries: 1000, Interval: 50 * time.Millisecond}
	})
	require.NoError(t, orch.CreateSession("s1", "Tester"))

	runID, err := orch.Submit(context.Background(), "s1", []string{"stuck"})
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, orch.Cancel(runID))

	require.Eventually(t, func() bool {
		run, ok := orch.Run(runID)
		return ok && run.Status == RunStatusCanceled
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCancel_UnknownRun(t *testing.T) {
	orch := newTestOrchestrator(t, backend.NewMock("m"))
	assert.Error(t, orch.Cancel("missing"))
}

func TestRetryPolicy_MaxAttempts(t *testing.T) {
	assert.Equal(t, 1, core.RetryPolicy{MaxRetries: 0}.MaxAttempts())
	assert.Equal(t, 4, core.RetryPolicy{MaxRetries: 3}.MaxAttempts())
	assert.Equal(t, 1, core.RetryPolicy{MaxRetries: -5}.MaxAttempts())
}

func TestGenerationErrorSurface(t *testing.T) {
	mock := backend.NewMock("m")
	mock.FailAlways("x")

	_, err := mock.Generate(context.Background(), "x")

	var genErr *backend.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "mock", genErr.Provider)
	assert.True(t, errors.Unwrap(genErr) != nil)
}
