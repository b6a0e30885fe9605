package a2a

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewkit-ai/crewkit/core"
)

// submitTasksRequest is the POST /tasks payload.
type submitTasksRequest struct {
	SessionID string   `json:"session_id"`
	Tasks     []string `json:"tasks"`
}

func (h *Handler) submitTasks(w http.ResponseWriter, r *http.Request) {
	var req submitTasksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		Error(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if len(req.Tasks) == 0 {
		Error(w, http.StatusBadRequest, "tasks must not be empty")
		return
	}

	// The run must outlive this request; cancellation goes through
	// POST /tasks/{id}/cancel rather than the request context.
	runID, err := h.orch.Submit(context.WithoutCancel(r.Context()), req.SessionID, req.Tasks)
	if err != nil {
		var notFound *core.SessionNotFoundError
		if errors.As(err, &notFound) {
			Error(w, http.StatusNotFound, err.Error())
			return
		}
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Info("task batch submitted run_id=%s session_id=%s tasks=%d", runID, req.SessionID, len(req.Tasks))
	JSON(w, http.StatusAccepted, map[string]string{"run_id": runID})
}

func (h *Handler) listRuns(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"runs": h.orch.Runs()})
}

func (h *Handler) getRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, ok := h.orch.Run(id)
	if !ok {
		Error(w, http.StatusNotFound, "run not found")
		return
	}
	JSON(w, http.StatusOK, run)
}

func (h *Handler) cancelRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.orch.Cancel(id); err != nil {
		Error(w, http.StatusNotFound, err.Error())
		return
	}
	JSON(w, http.StatusAccepted, map[string]string{"status": "canceling"})
}

func (h *Handler) runLogs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, ok := h.orch.Run(id)
	if !ok {
		Error(w, http.StatusNotFound, "run not found")
		return
	}

	history, err := h.orch.History(run.SessionID)
	if err != nil {
		Error(w, http.StatusNotFound, err.Error())
		return
	}
	JSON(w, http.StatusOK, map[string]any{
		"run_id":     run.ID,
		"session_id": run.SessionID,
		"history":    history,
	})
}
