package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/crewkit-ai/crewkit/core"
	"github.com/crewkit-ai/crewkit/logging"
	"github.com/crewkit-ai/crewkit/persona"
)

// DefaultRetryPolicy is applied to sessions created without an explicit
// policy override.
var DefaultRetryPolicy = core.RetryPolicy{MaxRetries: 2, Interval: time.Second}

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Catalog resolves persona names at session creation.
	Catalog *persona.Catalog
	// Bindings maps persona name to the backend that executes its tasks.
	// A persona without a binding fails session creation loudly.
	Bindings map[string]core.Backend
	// DefaultPolicy is the retry budget for sessions without an override.
	DefaultPolicy core.RetryPolicy
	// Logger receives orchestration diagnostics.
	Logger logging.Logger
}

// SessionOptions carries per-session overrides for CreateSession.
type SessionOptions struct {
	// Policy overrides the orchestrator's default retry policy.
	Policy *core.RetryPolicy
}

// Orchestrator coordinates sessions and their task batches. Public methods
// are safe for concurrent use.
type Orchestrator struct {
	catalog       *persona.Catalog
	bindings      map[string]core.Backend
	defaultPolicy core.RetryPolicy
	logger        logging.Logger

	mu       sync.RWMutex
	sessions map[string]*core.Session

	runMu      sync.RWMutex
	activeRuns map[string]*run
}

// New constructs an Orchestrator with optional overrides.
func New(optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Catalog:       persona.NewCatalog(),
		Bindings:      map[string]core.Backend{},
		DefaultPolicy: DefaultRetryPolicy,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Orchestrator{
		catalog:       opts.Catalog,
		bindings:      opts.Bindings,
		defaultPolicy: opts.DefaultPolicy,
		logger:        opts.Logger,
		sessions:      make(map[string]*core.Session),
		activeRuns:    make(map[string]*run),
	}
}

// Bind adds or replaces the backend binding for a persona name. Existing
// sessions keep the backend they were created with.
func (o *Orchestrator) Bind(personaName string, b core.Backend) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bindings[personaName] = b
}

// CreateSession resolves the persona and its backend binding and stores a new
// session under sessionID. Creation is an upsert: a prior session with the
// same id is replaced and its history reset, intentionally permissive to
// allow session re-initialization.
//
// Returns *core.PersonaNotFoundError when the persona is not in the catalog
// and *core.BindingNotFoundError when no backend is bound to it; in both
// cases no session is stored.
func (o *Orchestrator) CreateSession(sessionID, personaName string, optFns ...func(o *SessionOptions)) error {
	p, ok := o.catalog.Get(personaName)
	if !ok {
		return &core.PersonaNotFoundError{Name: personaName}
	}

	var sessOpts SessionOptions
	for _, fn := range optFns {
		fn(&sessOpts)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	b, ok := o.bindings[personaName]
	if !ok {
		return &core.BindingNotFoundError{PersonaName: personaName}
	}

	policy := o.defaultPolicy
	if sessOpts.Policy != nil {
		policy = *sessOpts.Policy
	}

	o.sessions[sessionID] = core.NewSession(sessionID, p, b, policy)
	o.logger.Info("session created session_id=%s persona=%s backend=%s", sessionID, personaName, b.Info().Provider)
	return nil
}

// Session returns the live session for id. The session is shared, not a
// copy; its own lock guards concurrent access.
func (o *Orchestrator) Session(sessionID string) (*core.Session, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	sess, ok := o.sessions[sessionID]
	if !ok {
		return nil, &core.SessionNotFoundError{SessionID: sessionID}
	}
	return sess, nil
}

// History returns a snapshot of the session's history sequence, tasks and
// responses interleaved in the order recorded. A concurrently executing
// batch may still be appending.
func (o *Orchestrator) History(sessionID string) ([]string, error) {
	sess, err := o.Session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.History(), nil
}

// RunTasks executes tasks against the session strictly in submission order.
// For each task the task text is appended to history first, so a crash mid
// execution still records what was attempted. The backend is then invoked
// with at most policy.MaxAttempts() attempts, pausing policy.Interval between
// attempts. A successful response is appended to history; a task that
// exhausts its budget is logged and skipped, and the batch continues.
//
// Cancelling ctx aborts the batch, including any in-progress retry pause, and
// returns the context error. Tasks already recorded stay in history.
func (o *Orchestrator) RunTasks(ctx context.Context, sessionID string, tasks []string) error {
	sess, err := o.Session(sessionID)
	if err != nil {
		return err
	}

	start := time.Now()
	failed := 0
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}

		sess.AppendHistory(task)

		resp, err := o.attempt(ctx, sess, task)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			o.logger.Error("task failed after %d attempts: %v", sess.Policy.MaxAttempts(), err)
			continue
		}
		sess.AppendHistory(resp)
	}

	if cl, ok := o.logger.(*logging.CrewLogger); ok {
		cl.WithSession(sessionID, "").LogTaskRun(len(tasks), failed, time.Since(start))
	}
	return nil
}

// attempt drives a single task through the session's retry budget. It
// returns the response text, or the last backend error once the budget is
// exhausted. The pause between attempts is timer-based and aborts promptly
// on ctx cancellation.
func (o *Orchestrator) attempt(ctx context.Context, sess *core.Session, task string) (string, error) {
	maxAttempts := sess.Policy.MaxAttempts()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 && sess.Policy.Interval > 0 {
			timer := time.NewTimer(sess.Policy.Interval)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			case <-timer.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		callStart := time.Now()
		resp, err := sess.Backend.Generate(ctx, task)
		if cl, ok := o.logger.(*logging.CrewLogger); ok {
			cl.WithSession(sess.ID, "").LogBackendCall(sess.Backend.Info().Provider, time.Since(callStart), attempt, err)
		}
		if err == nil {
			return resp, nil
		}
		lastErr = err
		o.logger.Warn("task attempt %d/%d failed: %v", attempt, maxAttempts, err)
	}
	return "", lastErr
}
