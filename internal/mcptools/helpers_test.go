package mcptools

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dusk-indust/neuraline/internal/agent"
	"github.com/dusk-indust/neuraline/internal/assistant"
	"github.com/dusk-indust/neuraline/internal/llm"
	"github.com/dusk-indust/neuraline/internal/orchestrator"
	"github.com/dusk-indust/neuraline/internal/session"
)

var quiet = slog.New(slog.DiscardHandler)

// newTestService wires a ToolService over a generator that echoes the task
// type, with an in-memory session store.
func newTestService(t *testing.T) (*ToolService, *session.MemStore) {
	t.Helper()
	gen := llm.GeneratorFunc(func(_ context.Context, _ string, taskType string) (string, error) {
		return "answer for " + taskType, nil
	})
	store := session.NewMemStore()

	cfg := orchestrator.DefaultEngineConfig()
	cfg.Logger = quiet
	cfg.History = store
	cfg.Sleep = func(context.Context, time.Duration) error { return nil }
	engine := orchestrator.NewEngine(gen, cfg)

	factory := func() *orchestrator.Coordinator {
		return orchestrator.NewCoordinator(agent.NewRegistry().SpawnAll(gen, quiet), nil,
			orchestrator.CoordinatorConfig{Logger: quiet})
	}
	return NewToolService(assistant.New(engine, factory, store, quiet), nil), store
}
