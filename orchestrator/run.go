package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/crewkit-ai/crewkit/core"
)

// RunStatus describes the lifecycle state of a submitted task batch.
type RunStatus string

const (
	// RunStatusRunning indicates the batch is still executing.
	RunStatusRunning RunStatus = "running"
	// RunStatusCompleted indicates the batch finished; individual tasks may
	// still have been skipped after exhausting their retry budget.
	RunStatusCompleted RunStatus = "completed"
	// RunStatusCanceled indicates the batch was aborted via Cancel or a
	// caller context cancellation.
	RunStatusCanceled RunStatus = "canceled"
	// RunStatusFailed indicates the batch aborted with a non-cancellation error.
	RunStatusFailed RunStatus = "failed"
)

// Run is the externally visible record of a submitted task batch.
type Run struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	TaskCount int       `json:"task_count"`
	Status    RunStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	Started   time.Time `json:"started"`
	Finished  time.Time `json:"finished,omitzero"`
}

// run pairs the visible record with the cancel handle; guarded by its own
// lock so status transitions don't contend with the orchestrator maps.
type run struct {
	mu     sync.Mutex
	info   Run
	cancel context.CancelFunc
}

func (r *run) snapshot() Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.info
}

func (r *run) finish(status RunStatus, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.info.Status = status
	r.info.Finished = time.Now()
	if err != nil {
		r.info.Error = err.Error()
	}
}

// Submit starts an asynchronous task batch against the session and returns a
// run id for tracking and cancellation. The session must exist; the batch
// itself executes with RunTasks semantics under a cancellable context derived
// from ctx.
func (o *Orchestrator) Submit(ctx context.Context, sessionID string, tasks []string) (string, error) {
	if _, err := o.Session(sessionID); err != nil {
		return "", err
	}

	runID := core.NewID()
	runCtx, cancel := context.WithCancel(ctx)

	r := &run{
		info: Run{
			ID:        runID,
			SessionID: sessionID,
			TaskCount: len(tasks),
			Status:    RunStatusRunning,
			Started:   time.Now(),
		},
		cancel: cancel,
	}

	o.runMu.Lock()
	o.activeRuns[runID] = r
	o.runMu.Unlock()

	go func() {
		defer cancel()

		err := o.RunTasks(runCtx, sessionID, tasks)
		switch {
		case err == nil:
			r.finish(RunStatusCompleted, nil)
		case runCtx.Err() != nil:
			r.finish(RunStatusCanceled, err)
		default:
			r.finish(RunStatusFailed, err)
		}
		o.logger.Debug("run finished run_id=%s session_id=%s status=%s", runID, sessionID, r.snapshot().Status)
	}()

	return runID, nil
}

// Cancel requests cooperative termination of an in-flight run. It is
// idempotent for known runs; cancelling an unknown run id returns an error
// describing the condition.
func (o *Orchestrator) Cancel(runID string) error {
	o.runMu.RLock()
	r, exists := o.activeRuns[runID]
	o.runMu.RUnlock()

	if !exists {
		return fmt.Errorf("run %s not found", runID)
	}
	r.cancel()
	return nil
}

// Run returns the current record of a submitted batch.
func (o *Orchestrator) Run(runID string) (Run, bool) {
	o.runMu.RLock()
	r, exists := o.activeRuns[runID]
	o.runMu.RUnlock()
	if !exists {
		return Run{}, false
	}
	return r.snapshot(), true
}

// Runs returns records for all submitted batches, newest first.
func (o *Orchestrator) Runs() []Run {
	o.runMu.RLock()
	out := make([]Run, 0, len(o.activeRuns))
	for _, r := range o.activeRuns {
		out = append(out, r.snapshot())
	}
	o.runMu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Started.After(out[j].Started) })
	return out
}
