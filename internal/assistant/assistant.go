// Package assistant is the request layer shared by the HTTP API, the MCP
// server and the CLI. It runs the engine or a coordinator for one request
// and records the conversation turns.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dusk-indust/neuraline/internal/orchestrator"
	"github.com/dusk-indust/neuraline/internal/session"
)

// AnonymousSession is the session id used when a request names none.
const AnonymousSession = "anonymous"

// Turn roles written to the session store.
const (
	TurnUser      = "user"
	TurnAssistant = "assistant"
)

// ErrNoCoordinator is returned by Coordinate when the Service was built
// without a coordinator factory.
var ErrNoCoordinator = errors.New("coordinator is not configured")

// CoordinatorFactory returns a fresh coordinator for one request.
type CoordinatorFactory func() *orchestrator.Coordinator

// CoordinateRequest selects how the coordinator runs. A non-empty Chain runs
// those roles in order; otherwise TaskType routes a parallel run, and an
// empty TaskType is classified from the query.
type CoordinateRequest struct {
	Query     string   `json:"query"`
	TaskType  string   `json:"task_type,omitempty"`
	Chain     []string `json:"chain,omitempty"`
	SessionID string   `json:"session_id,omitempty"`
}

// Service serves engine and coordinator requests.
type Service struct {
	engine       *orchestrator.Engine
	coordinators CoordinatorFactory
	store        session.Store
	logger       *slog.Logger
}

// New creates a Service. store and coordinators may be nil; without a
// factory Coordinate is unavailable.
func New(engine *orchestrator.Engine, coordinators CoordinatorFactory, store session.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		engine:       engine,
		coordinators: coordinators,
		store:        store,
		logger:       logger,
	}
}

// Ask runs the engine for req and saves the user turn and the fused reply
// to the session store. Saving is best-effort.
func (s *Service) Ask(ctx context.Context, req orchestrator.Request) (*orchestrator.EngineResult, error) {
	if req.SessionID == "" {
		req.SessionID = AnonymousSession
	}
	res, err := s.engine.RunRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	s.save(ctx, req.SessionID, TurnUser, req.Query)
	s.save(ctx, req.SessionID, TurnAssistant, res.Combined)
	return res, nil
}

// Coordinate runs a fresh coordinator for req.
func (s *Service) Coordinate(ctx context.Context, req CoordinateRequest) (orchestrator.CoordinatorResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return orchestrator.CoordinatorResult{}, orchestrator.ErrEmptyQuery
	}
	if s.coordinators == nil {
		return orchestrator.CoordinatorResult{}, ErrNoCoordinator
	}
	if req.SessionID == "" {
		req.SessionID = AnonymousSession
	}

	c := s.coordinators()
	switch {
	case len(req.Chain) > 0:
		return c.RunChain(ctx, req.Query, req.Chain, req.SessionID), nil
	case req.TaskType != "":
		return c.RunParallel(ctx, req.Query, req.TaskType, req.SessionID), nil
	default:
		return c.RunAuto(ctx, req.Query, req.SessionID), nil
	}
}

// History returns the stored turns of sessionID.
func (s *Service) History(ctx context.Context, sessionID string) ([]session.Turn, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.Load(ctx, sessionID)
}

// ClearSession removes the stored turns of sessionID.
func (s *Service) ClearSession(ctx context.Context, sessionID string) error {
	if s.store == nil {
		return nil
	}
	return s.store.Clear(ctx, sessionID)
}

func (s *Service) save(ctx context.Context, sessionID, role, content string) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, sessionID, role, content); err != nil {
		s.logger.Warn("save turn failed", "session", sessionID, "role", role, "error", err)
	}
}
