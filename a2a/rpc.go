package a2a

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/crewkit-ai/crewkit/core"
	"github.com/crewkit-ai/crewkit/envelope"
)

// JSON-RPC error codes used by the endpoint.
const (
	rpcCodeParse          = -32700
	rpcCodeInvalidRequest = -32600
	rpcCodeMethodNotFound = -32601
	rpcCodeInvalidParams  = -32602
	rpcCodeInternal       = -32000
	rpcCodeNotFound       = -32001
)

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type rpcResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      string    `json:"id,omitempty"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

// rpc handles the JSON-RPC 2.0 entry point. The envelope is validated
// exhaustively before any method handler sees the params, so a malformed
// request reports every violation in one pass.
func (h *Handler) rpc(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeRPCError(w, http.StatusBadRequest, "", rpcError{Code: rpcCodeParse, Message: "failed to read body"})
		return
	}

	env, res := envelope.Parse(body)
	if !res.Valid {
		writeRPCError(w, http.StatusBadRequest, "", rpcError{
			Code:    rpcCodeInvalidRequest,
			Message: "invalid envelope",
			Data:    res.Errors,
		})
		return
	}

	switch env.Method {
	case "createSession":
		h.rpcCreateSession(r.Context(), w, env)
	case "runTasks":
		h.rpcRunTasks(r.Context(), w, env)
	case "getSessionHistory":
		h.rpcSessionHistory(r.Context(), w, env)
	default:
		writeRPCError(w, http.StatusOK, env.ID, rpcError{Code: rpcCodeMethodNotFound, Message: "method not found"})
	}
}

type createSessionParams struct {
	SessionID string `json:"session_id"`
	Persona   string `json:"persona"`
}

func (h *Handler) rpcCreateSession(_ context.Context, w http.ResponseWriter, env envelope.Envelope) {
	var params createSessionParams
	if err := json.Unmarshal(env.Params, &params); err != nil {
		writeRPCError(w, http.StatusOK, env.ID, rpcError{Code: rpcCodeInvalidParams, Message: err.Error()})
		return
	}
	if params.SessionID == "" || params.Persona == "" {
		writeRPCError(w, http.StatusOK, env.ID, rpcError{Code: rpcCodeInvalidParams, Message: "session_id and persona are required"})
		return
	}

	if err := h.orch.CreateSession(params.SessionID, params.Persona); err != nil {
		writeRPCError(w, http.StatusOK, env.ID, domainRPCError(err))
		return
	}
	writeRPCResult(w, env.ID, map[string]string{"session_id": params.SessionID})
}

type runTasksParams struct {
	SessionID string   `json:"session_id"`
	Tasks     []string `json:"tasks"`
}

func (h *Handler) rpcRunTasks(ctx context.Context, w http.ResponseWriter, env envelope.Envelope) {
	var params runTasksParams
	if err := json.Unmarshal(env.Params, &params); err != nil {
		writeRPCError(w, http.StatusOK, env.ID, rpcError{Code: rpcCodeInvalidParams, Message: err.Error()})
		return
	}

	runID, err := h.orch.Submit(context.WithoutCancel(ctx), params.SessionID, params.Tasks)
	if err != nil {
		writeRPCError(w, http.StatusOK, env.ID, domainRPCError(err))
		return
	}
	writeRPCResult(w, env.ID, map[string]string{"run_id": runID})
}

type sessionHistoryParams struct {
	SessionID string `json:"session_id"`
}

func (h *Handler) rpcSessionHistory(_ context.Context, w http.ResponseWriter, env envelope.Envelope) {
	var params sessionHistoryParams
	if err := json.Unmarshal(env.Params, &params); err != nil {
		writeRPCError(w, http.StatusOK, env.ID, rpcError{Code: rpcCodeInvalidParams, Message: err.Error()})
		return
	}

	history, err := h.orch.History(params.SessionID)
	if err != nil {
		writeRPCError(w, http.StatusOK, env.ID, domainRPCError(err))
		return
	}
	writeRPCResult(w, env.ID, map[string]any{"history": history})
}

// domainRPCError maps orchestrator errors onto JSON-RPC error objects.
func domainRPCError(err error) rpcError {
	var personaErr *core.PersonaNotFoundError
	var sessionErr *core.SessionNotFoundError
	var bindingErr *core.BindingNotFoundError
	switch {
	case errors.As(err, &personaErr), errors.As(err, &sessionErr), errors.As(err, &bindingErr):
		return rpcError{Code: rpcCodeNotFound, Message: err.Error()}
	default:
		return rpcError{Code: rpcCodeInternal, Message: err.Error()}
	}
}

func writeRPCResult(w http.ResponseWriter, id string, result any) {
	JSON(w, http.StatusOK, rpcResponse{JSONRPC: envelope.Version, ID: id, Result: result})
}

func writeRPCError(w http.ResponseWriter, status int, id string, e rpcError) {
	JSON(w, status, rpcResponse{JSONRPC: envelope.Version, ID: id, Error: &e})
}
