package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dusk-indust/neuraline/internal/agent"
	"github.com/dusk-indust/neuraline/internal/assistant"
	"github.com/dusk-indust/neuraline/internal/orchestrator"
)

// RunResponse is the body of POST /api/v1/mcp/run.
type RunResponse struct {
	OK        bool   `json:"ok"`
	SessionID string `json:"session_id"`
	*orchestrator.EngineResult
}

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Message   string   `json:"message"`
	SessionID string   `json:"session_id,omitempty"`
	Mode      string   `json:"mode,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Timeout   float64  `json:"timeout,omitempty"`
}

// ChatResponse is the body returned by POST /api/v1/chat.
type ChatResponse struct {
	Sender    string            `json:"sender"`
	Reply     string            `json:"reply"`
	BestRole  agent.Role        `json:"best_role"`
	Mode      orchestrator.Mode `json:"mode"`
	SessionID string            `json:"session_id"`
}

type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.Request
	if !decode(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		req.SessionID = assistant.AnonymousSession
	}
	res, err := s.cfg.Service.Ask(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RunResponse{OK: true, SessionID: req.SessionID, EngineResult: res})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decode(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		req.SessionID = assistant.AnonymousSession
	}
	res, err := s.cfg.Service.Ask(r.Context(), orchestrator.Request{
		Query:          req.Message,
		SessionID:      req.SessionID,
		Mode:           req.Mode,
		Roles:          req.Roles,
		TimeoutSeconds: req.Timeout,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{
		Sender:    ChatSender,
		Reply:     ChatReply(res.Combined),
		BestRole:  res.BestRole,
		Mode:      res.Mode,
		SessionID: req.SessionID,
	})
}

// ChatReply wraps a fused reply in the chat greeting.
func ChatReply(fused string) string {
	return "Hey there 👋 — " + fused
}

func (s *Server) handleCoordinate(w http.ResponseWriter, r *http.Request) {
	var req assistant.CoordinateRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := s.cfg.Service.Coordinate(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	turns, err := s.cfg.Service.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session_id": chi.URLParam(r, "id"), "turns": turns})
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Service.ClearSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEvents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"events": s.cfg.Events.Recent()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, orchestrator.ErrEmptyQuery),
		errors.Is(err, orchestrator.ErrInvalidMode),
		errors.Is(err, orchestrator.ErrInvalidRole):
		status = http.StatusBadRequest
	case errors.Is(err, assistant.ErrNoCoordinator):
		status = http.StatusNotImplemented
	default:
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
