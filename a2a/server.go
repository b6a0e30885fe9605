package a2a

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/crewkit-ai/crewkit/logging"
	"github.com/crewkit-ai/crewkit/orchestrator"
	"github.com/crewkit-ai/crewkit/registry"
)

// Handler serves the A2A HTTP surface.
type Handler struct {
	orch   *orchestrator.Orchestrator
	reg    registry.Registry
	logger logging.Logger
}

// NewHandler creates a Handler with its collaborators.
func NewHandler(orch *orchestrator.Orchestrator, reg registry.Registry, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Handler{orch: orch, reg: reg, logger: logger}
}

// Router assembles the chi route tree.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", h.submitTasks)
		r.Get("/", h.listRuns)
		r.Get("/{id}", h.getRun)
		r.Post("/{id}/cancel", h.cancelRun)
		r.Get("/{id}/logs", h.runLogs)
	})

	r.Route("/agents", func(r chi.Router) {
		r.Post("/", h.registerAgent)
		r.Get("/", h.listAgents)
		r.Get("/{id}", h.getAgent)
		r.Patch("/{id}", h.updateAgent)
		r.Delete("/{id}", h.removeAgent)
	})

	r.Post("/rpc", h.rpc)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
