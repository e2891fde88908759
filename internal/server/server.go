// Package server exposes the assistant over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dusk-indust/neuraline/internal/assistant"
	"github.com/dusk-indust/neuraline/internal/observability"
)

// ChatSender is the sender name on chat replies.
const ChatSender = "Neuraline"

// EventSource lists recent orchestration events.
type EventSource interface {
	Recent() []observability.Event
}

// Config holds the server's collaborators. Only Service is required.
type Config struct {
	Addr    string
	Service *assistant.Service
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
	Events  EventSource
	Logger  *slog.Logger
}

// Server is the HTTP API.
type Server struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Server.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, logger: logger.With("component", "http")}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/mcp/run", s.handleRun)
		r.Post("/mcp/run/stream", s.handleRunStream)
		r.Post("/chat", s.handleChat)
		r.Post("/coordinate", s.handleCoordinate)
		r.Get("/sessions/{id}", s.handleHistory)
		r.Delete("/sessions/{id}", s.handleClearSession)
		if s.cfg.Events != nil {
			r.Get("/events", s.handleEvents)
		}
	})
	if s.cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.cfg.Metrics)
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("listening", "addr", s.cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
