// Package crewkit provides a high-level façade over the orchestration core
// (personas, sessions, backends & logging) enabling rapid construction of
// multi-persona task pipelines. Most applications interact with this package
// by:
//  1. Creating a CrewKit via New() (supplying a persona catalog and bindings)
//  2. Creating sessions that pair a persona with its bound AI backend
//  3. Running ordered task batches synchronously (RunTasks) or as tracked
//     asynchronous runs (Submit/Cancel)
//
// The façade delegates execution to orchestrator.Orchestrator while keeping
// setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply real
// backend adapters and a structured logger.
package crewkit

import (
	"context"

	"github.com/crewkit-ai/crewkit/core"
	"github.com/crewkit-ai/crewkit/logging"
	"github.com/crewkit-ai/crewkit/orchestrator"
	"github.com/crewkit-ai/crewkit/persona"
)

// Options configures the CrewKit instance.
type Options struct {
	// Catalog of personas sessions can be created for.
	Catalog *persona.Catalog

	// Bindings maps persona name to the backend that executes its tasks.
	Bindings map[string]core.Backend

	// RetryPolicy is the default retry budget for new sessions.
	RetryPolicy core.RetryPolicy

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// CrewKit is the high-level façade aggregating the orchestration core.
type CrewKit struct {
	opts Options
	orch *orchestrator.Orchestrator
}

// New creates a new CrewKit instance with optional overrides.
func New(optFns ...func(o *Options)) *CrewKit {
	opts := Options{
		Catalog:     persona.NewCatalog(),
		Bindings:    map[string]core.Backend{},
		RetryPolicy: orchestrator.DefaultRetryPolicy,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	orch := orchestrator.New(func(o *orchestrator.Options) {
		o.Catalog = opts.Catalog
		o.Bindings = opts.Bindings
		o.DefaultPolicy = opts.RetryPolicy
		o.Logger = opts.Logger
	})

	return &CrewKit{opts: opts, orch: orch}
}

// Orchestrator exposes the underlying orchestrator for advanced wiring (HTTP
// surfaces, custom run tracking).
func (c *CrewKit) Orchestrator() *orchestrator.Orchestrator { return c.orch }

// CreateSession creates (or re-initializes) a session pairing the persona
// with its bound backend.
func (c *CrewKit) CreateSession(sessionID, personaName string, optFns ...func(o *orchestrator.SessionOptions)) error {
	return c.orch.CreateSession(sessionID, personaName, optFns...)
}

// RunTasks executes the ordered task batch against the session, retrying
// failed tasks under the session's policy and skipping tasks that exhaust it.
func (c *CrewKit) RunTasks(ctx context.Context, sessionID string, tasks []string) error {
	return c.orch.RunTasks(ctx, sessionID, tasks)
}

// Submit starts an asynchronous tracked run and returns its id.
func (c *CrewKit) Submit(ctx context.Context, sessionID string, tasks []string) (string, error) {
	return c.orch.Submit(ctx, sessionID, tasks)
}

// Cancel aborts an in-flight run.
func (c *CrewKit) Cancel(runID string) error { return c.orch.Cancel(runID) }

// History returns the session's task/response history snapshot.
func (c *CrewKit) History(sessionID string) ([]string, error) {
	return c.orch.History(sessionID)
}
