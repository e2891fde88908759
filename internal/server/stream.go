package server

import (
	"net/http"
	"strings"

	"github.com/dusk-indust/neuraline/internal/assistant"
	"github.com/dusk-indust/neuraline/internal/orchestrator"
)

// SSE event names sent by POST /api/v1/mcp/run/stream.
const (
	EventProgress = "progress"
	EventResult   = "result"
	EventError    = "error"
)

type runOutcome struct {
	res *orchestrator.EngineResult
	err error
}

// handleRunStream runs the engine like handleRun but streams progress
// events before the final result. Input errors are still plain 400s.
func (s *Server) handleRunStream(w http.ResponseWriter, r *http.Request) {
	var req orchestrator.Request
	if !decode(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		req.SessionID = assistant.AnonymousSession
	}
	if strings.TrimSpace(req.Query) == "" {
		s.writeError(w, orchestrator.ErrEmptyQuery)
		return
	}
	if _, err := orchestrator.ParseMode(req.Mode); err != nil {
		s.writeError(w, err)
		return
	}

	progress := make(chan orchestrator.ProgressEvent, 64)
	done := make(chan runOutcome, 1)
	ctx := orchestrator.WithProgress(r.Context(), func(ev orchestrator.ProgressEvent) {
		select {
		case progress <- ev:
		case <-r.Context().Done():
		}
	})
	go func() {
		res, err := s.cfg.Service.Ask(ctx, req)
		done <- runOutcome{res: res, err: err}
	}()

	sse := newSSEWriter(w)
	sse.init()
	for {
		select {
		case ev := <-progress:
			if err := sse.write(EventProgress, ev); err != nil {
				s.logger.Debug("stream closed", "error", err)
			}
		case out := <-done:
			// Every progress event was sent before Ask returned.
			for len(progress) > 0 {
				_ = sse.write(EventProgress, <-progress)
			}
			if out.err != nil {
				_ = sse.write(EventError, errorResponse{Error: out.err.Error()})
				return
			}
			_ = sse.write(EventResult, RunResponse{OK: true, SessionID: req.SessionID, EngineResult: out.res})
			return
		}
	}
}
