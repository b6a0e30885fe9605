package a2a

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/crewkit-ai/crewkit/registry"
)

func (h *Handler) registerAgent(w http.ResponseWriter, r *http.Request) {
	var rec registry.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if rec.ID == "" {
		Error(w, http.StatusBadRequest, "id is required")
		return
	}

	out, err := h.reg.Register(r.Context(), rec)
	if err != nil {
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.logger.Info("agent registered agent_id=%s", out.ID)
	JSON(w, http.StatusOK, out)
}

func (h *Handler) listAgents(w http.ResponseWriter, r *http.Request) {
	var (
		recs []registry.Record
		err  error
	)
	if capability := r.URL.Query().Get("capability"); capability != "" {
		recs, err = h.reg.ListByCapability(r.Context(), capability)
	} else {
		recs, err = h.reg.List(r.Context())
	}
	if err != nil {
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []registry.Record{}
	}
	JSON(w, http.StatusOK, map[string]any{"agents": recs})
}

func (h *Handler) getAgent(w http.ResponseWriter, r *http.Request) {
	rec, err := h.reg.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		Error(w, http.StatusNotFound, "agent not found")
		return
	}
	JSON(w, http.StatusOK, rec)
}

func (h *Handler) updateAgent(w http.ResponseWriter, r *http.Request) {
	var patch registry.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec, err := h.reg.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		Error(w, http.StatusNotFound, "agent not found")
		return
	}
	JSON(w, http.StatusOK, rec)
}

func (h *Handler) removeAgent(w http.ResponseWriter, r *http.Request) {
	if err := h.reg.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
