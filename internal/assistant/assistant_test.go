package assistant

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/neuraline/internal/agent"
	"github.com/dusk-indust/neuraline/internal/llm"
	"github.com/dusk-indust/neuraline/internal/orchestrator"
	"github.com/dusk-indust/neuraline/internal/session"
)

var quiet = slog.New(slog.DiscardHandler)

func taskEcho() llm.TextGenerator {
	return llm.GeneratorFunc(func(_ context.Context, _ string, taskType string) (string, error) {
		return "out:" + taskType, nil
	})
}

func newService(t *testing.T, gen llm.TextGenerator, store session.Store) *Service {
	t.Helper()
	cfg := orchestrator.DefaultEngineConfig()
	cfg.Logger = quiet
	cfg.History = store
	cfg.Sleep = func(context.Context, time.Duration) error { return nil }
	engine := orchestrator.NewEngine(gen, cfg)

	factory := func() *orchestrator.Coordinator {
		agents := agent.NewRegistry().SpawnAll(gen, quiet)
		return orchestrator.NewCoordinator(agents, nil, orchestrator.CoordinatorConfig{Logger: quiet})
	}
	return New(engine, factory, store, quiet)
}

func TestService_AskSavesTurns(t *testing.T) {
	store := session.NewMemStore()
	svc := newService(t, taskEcho(), store)
	ctx := context.Background()

	res, err := svc.Ask(ctx, orchestrator.Request{Query: "I feel stuck", SessionID: "s1", Roles: []string{"coach"}})
	require.NoError(t, err)
	assert.Equal(t, agent.RoleCoach, res.BestRole)

	turns, err := svc.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, TurnUser, turns[0].Role)
	assert.Equal(t, "I feel stuck", turns[0].Content)
	assert.Equal(t, TurnAssistant, turns[1].Role)
	assert.Equal(t, res.Combined, turns[1].Content)
}

func TestService_AskDefaultsSession(t *testing.T) {
	store := session.NewMemStore()
	svc := newService(t, taskEcho(), store)
	ctx := context.Background()

	_, err := svc.Ask(ctx, orchestrator.Request{Query: "hello"})
	require.NoError(t, err)

	turns, err := store.Load(ctx, AnonymousSession)
	require.NoError(t, err)
	assert.Len(t, turns, 2)
}

func TestService_AskRejectsBadInput(t *testing.T) {
	store := session.NewMemStore()
	svc := newService(t, taskEcho(), store)
	ctx := context.Background()

	_, err := svc.Ask(ctx, orchestrator.Request{Query: "  "})
	assert.ErrorIs(t, err, orchestrator.ErrEmptyQuery)

	_, err = svc.Ask(ctx, orchestrator.Request{Query: "q", Mode: "sideways"})
	assert.ErrorIs(t, err, orchestrator.ErrInvalidMode)

	turns, err := store.Load(ctx, AnonymousSession)
	require.NoError(t, err)
	assert.Empty(t, turns, "failed requests are not saved")
}

type failingStore struct{ session.Store }

func (failingStore) Save(context.Context, string, string, string) error {
	return errors.New("disk full")
}

func TestService_AskSurvivesSaveFailure(t *testing.T) {
	store := failingStore{session.NewMemStore()}
	svc := newService(t, taskEcho(), store)

	res, err := svc.Ask(context.Background(), orchestrator.Request{Query: "q", Roles: []string{"purpose"}})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Combined)
}

func TestService_AskUsesHistory(t *testing.T) {
	store := session.NewMemStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s1", TurnUser, "I like running"))

	var prompts []string
	gen := llm.GeneratorFunc(func(_ context.Context, prompt, _ string) (string, error) {
		prompts = append(prompts, prompt)
		return "ok", nil
	})
	svc := newService(t, gen, store)

	_, err := svc.Ask(ctx, orchestrator.Request{Query: "q", SessionID: "s1", Roles: []string{"coach"}})
	require.NoError(t, err)
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "user: I like running")
}

func TestService_CoordinateModes(t *testing.T) {
	svc := newService(t, taskEcho(), nil)
	ctx := context.Background()

	res, err := svc.Coordinate(ctx, CoordinateRequest{Query: "q", Chain: []string{"coach", "purpose"}})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	assert.Equal(t, agent.RoleCoach, res.Results[0].Role)
	assert.Empty(t, res.TaskType)

	res, err = svc.Coordinate(ctx, CoordinateRequest{Query: "q", TaskType: "behavioral_coaching"})
	require.NoError(t, err)
	assert.Equal(t, "behavioral_coaching", res.TaskType)
	assert.Len(t, res.Results, 2)

	res, err = svc.Coordinate(ctx, CoordinateRequest{Query: "I feel anxious today"})
	require.NoError(t, err)
	assert.Equal(t, orchestrator.Classify("I feel anxious today"), res.TaskType)
}

func TestService_CoordinateIsolatesRequests(t *testing.T) {
	svc := newService(t, taskEcho(), nil)
	ctx := context.Background()

	first, err := svc.Coordinate(ctx, CoordinateRequest{Query: "q", Chain: []string{"reflector"}})
	require.NoError(t, err)
	second, err := svc.Coordinate(ctx, CoordinateRequest{Query: "q", Chain: []string{"coach"}})
	require.NoError(t, err)

	assert.Contains(t, first.Snapshot, "reflector")
	assert.NotContains(t, second.Snapshot, "reflector")
}

func TestService_CoordinateErrors(t *testing.T) {
	svc := newService(t, taskEcho(), nil)
	_, err := svc.Coordinate(context.Background(), CoordinateRequest{Query: " "})
	assert.ErrorIs(t, err, orchestrator.ErrEmptyQuery)

	bare := New(nil, nil, nil, nil)
	_, err = bare.Coordinate(context.Background(), CoordinateRequest{Query: "q"})
	assert.ErrorIs(t, err, ErrNoCoordinator)
}

func TestService_ClearSession(t *testing.T) {
	store := session.NewMemStore()
	svc := newService(t, taskEcho(), store)
	ctx := context.Background()

	_, err := svc.Ask(ctx, orchestrator.Request{Query: "q", SessionID: "s1", Roles: []string{"coach"}})
	require.NoError(t, err)
	require.NoError(t, svc.ClearSession(ctx, "s1"))

	turns, err := svc.History(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, turns)
}
