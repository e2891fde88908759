package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dusk-indust/neuraline/internal/agent"
	"github.com/dusk-indust/neuraline/internal/assistant"
	"github.com/dusk-indust/neuraline/internal/config"
	"github.com/dusk-indust/neuraline/internal/llm"
	"github.com/dusk-indust/neuraline/internal/llm/anthropic"
	"github.com/dusk-indust/neuraline/internal/llm/gemini"
	"github.com/dusk-indust/neuraline/internal/llm/openai"
	"github.com/dusk-indust/neuraline/internal/observability"
	"github.com/dusk-indust/neuraline/internal/orchestrator"
	"github.com/dusk-indust/neuraline/internal/retrieval"
	"github.com/dusk-indust/neuraline/internal/session"
)

// app holds the wired components shared by the commands.
type app struct {
	service *assistant.Service
	routing orchestrator.RoutingTable
	metrics *observability.Metrics
	events  *observability.EventLog
	store   session.Store
	logger  *slog.Logger
}

type appOptions struct {
	progress *orchestrator.ProgressReporter
	// generator replaces the provider router when set.
	generator llm.TextGenerator
}

func newApp(ctx context.Context, cfg *config.Config, opts appOptions) (*app, error) {
	logger := slog.Default()
	metrics := observability.NewMetrics()
	events := observability.NewEventLog(logger, metrics)

	gen := opts.generator
	if gen == nil {
		router, err := newRouter(ctx, cfg, logger, metrics)
		if err != nil {
			return nil, err
		}
		gen = router
	}

	routing, err := routingTable(cfg.Coordinator.Routing)
	if err != nil {
		return nil, err
	}
	defaultRoles, err := parseRoles(cfg.Engine.Roles)
	if err != nil {
		return nil, err
	}

	store, err := session.Open(cfg.Session.Backend, cfg.Session.Path)
	if err != nil {
		return nil, err
	}

	var ctxProvider orchestrator.ContextProvider = retrieval.Nop{}
	if cfg.Retrieval.Enabled {
		r, err := newRetriever(cfg)
		if err != nil {
			store.Close()
			return nil, err
		}
		ctxProvider = r
	}

	var onProgress func(orchestrator.ProgressEvent)
	if opts.progress != nil {
		onProgress = opts.progress.Emit
	}

	engineCfg := orchestrator.DefaultEngineConfig()
	engineCfg.Timeout = cfg.Engine.Timeout
	engineCfg.Retries = cfg.Engine.Retries
	engineCfg.Backoff = cfg.Engine.Backoff
	engineCfg.DefaultRoles = defaultRoles
	engineCfg.Context = ctxProvider
	engineCfg.History = store
	engineCfg.Recorder = events
	engineCfg.Metrics = metrics
	engineCfg.Logger = logger
	engineCfg.OnProgress = onProgress
	engine := orchestrator.NewEngine(gen, engineCfg)

	registry := agent.NewRegistry()
	coordinators := func() *orchestrator.Coordinator {
		return orchestrator.NewCoordinator(registry.SpawnAll(gen, logger), nil, orchestrator.CoordinatorConfig{
			Timeout:    cfg.Coordinator.Timeout,
			Routing:    routing,
			Recorder:   events,
			Metrics:    metrics,
			Logger:     logger,
			OnProgress: onProgress,
		})
	}

	return &app{
		service: assistant.New(engine, coordinators, store, logger),
		routing: routing,
		metrics: metrics,
		events:  events,
		store:   store,
		logger:  logger,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// newRouter builds the provider fallback chain in configured order,
// skipping providers without credentials.
func newRouter(ctx context.Context, cfg *config.Config, logger *slog.Logger, obs llm.CallObserver) (*llm.Router, error) {
	g := cfg.Generation
	var providers []llm.Provider
	for _, name := range g.Providers {
		p, err := newProvider(ctx, strings.ToLower(name), g)
		if errors.Is(err, errNoCredentials) {
			logger.Debug("provider skipped: no API key", "provider", name)
			continue
		}
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	if len(providers) == 0 {
		logger.Warn("no model provider configured; agents will answer with local fallback text")
	}

	return llm.NewRouter(providers,
		llm.WithRetryPolicy(llm.RetryPolicy{Retries: g.Retries, Delay: g.Backoff}),
		llm.WithLogger(logger),
		llm.WithObserver(obs),
	), nil
}

var errNoCredentials = errors.New("no credentials")

func newProvider(ctx context.Context, name string, g config.GenerationConfig) (llm.Provider, error) {
	switch name {
	case "gemini":
		if g.Gemini.APIKey == "" {
			return nil, errNoCredentials
		}
		return gemini.New(ctx, gemini.Config{
			APIKey:      g.Gemini.APIKey,
			Model:       g.Gemini.Model,
			Temperature: float32(g.Temperature),
			MaxTokens:   int32(g.MaxTokens),
		})
	case "groq":
		if g.Groq.APIKey == "" {
			return nil, errNoCredentials
		}
		return openai.NewGroq(g.Groq.APIKey, g.Groq.Model)
	case "openai":
		if g.OpenAI.APIKey == "" {
			return nil, errNoCredentials
		}
		return openai.New(openai.Config{
			Name:        "openai",
			APIKey:      g.OpenAI.APIKey,
			BaseURL:     g.OpenAI.BaseURL,
			Model:       g.OpenAI.Model,
			Temperature: g.Temperature,
			MaxTokens:   g.MaxTokens,
		})
	case "anthropic":
		if g.Anthropic.APIKey == "" {
			return nil, errNoCredentials
		}
		return anthropic.New(anthropic.Config{
			APIKey:      g.Anthropic.APIKey,
			Model:       g.Anthropic.Model,
			Temperature: g.Temperature,
			MaxTokens:   g.MaxTokens,
		})
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}

func newRetriever(cfg *config.Config) (*retrieval.ChromemStore, error) {
	r := cfg.Retrieval
	embed, err := retrieval.NewEmbedding(retrieval.EmbeddingConfig{
		Provider: r.Embedder,
		APIKey:   cfg.Generation.OpenAI.APIKey,
		Model:    r.EmbedModel,
		BaseURL:  r.EmbedURL,
	})
	if err != nil {
		return nil, err
	}
	return retrieval.NewChromemStore(retrieval.ChromemConfig{
		Collection:   r.Collection,
		PersistPath:  r.PersistPath,
		Compress:     r.Compress,
		TopK:         r.TopK,
		Embed:        embed,
		ChunkSize:    r.ChunkSize,
		ChunkOverlap: r.ChunkOverlap,
	})
}

// routingTable converts configured routes. Empty config keeps the built-in
// table; configured categories replace or extend it.
func routingTable(routes map[string][]string) (orchestrator.RoutingTable, error) {
	table := orchestrator.DefaultRoutingTable()
	for category, names := range routes {
		roles, err := parseRoles(names)
		if err != nil {
			return nil, fmt.Errorf("routing %s: %w", category, err)
		}
		table[category] = roles
	}
	return table, nil
}

func parseRoles(names []string) ([]agent.Role, error) {
	if len(names) == 0 {
		return nil, nil
	}
	roles := make([]agent.Role, 0, len(names))
	for _, n := range names {
		r, ok := agent.ParseRole(n)
		if !ok {
			return nil, fmt.Errorf("unknown role %q", n)
		}
		roles = append(roles, r)
	}
	return roles, nil
}
