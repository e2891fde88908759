package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dusk-indust/neuraline/internal/agent"
	"github.com/dusk-indust/neuraline/internal/llm"
	"github.com/dusk-indust/neuraline/internal/session"
)

// ContextProvider supplies background text for a query.
type ContextProvider interface {
	Retrieve(ctx context.Context, query string) (string, error)
}

// HistoryLoader returns the stored turns of a session, oldest first.
type HistoryLoader interface {
	Load(ctx context.Context, sessionID string) ([]session.Turn, error)
}

// EngineConfig holds the engine's policy knobs and optional collaborators.
// Start from DefaultEngineConfig and override what is needed.
type EngineConfig struct {
	// Timeout bounds each generation attempt unless a request overrides it.
	Timeout time.Duration
	// Retries is the number of extra attempts after the first failure.
	Retries int
	// Backoff is multiplied by the attempt number to get the pause after a
	// failed attempt.
	Backoff time.Duration
	// DefaultRoles is used when a request names no roles.
	DefaultRoles []agent.Role

	Context    ContextProvider
	History    HistoryLoader
	Recorder   EventRecorder
	Metrics    Metrics
	Logger     *slog.Logger
	OnProgress func(ProgressEvent)

	// Sleep waits between attempts. Nil means llm.SleepContext.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultEngineConfig returns the engine defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Timeout:      DefaultEngineTimeout,
		Retries:      DefaultRetries,
		Backoff:      DefaultRetryBackoff,
		DefaultRoles: agent.DefaultOrder,
	}
}

// EngineResult is the outcome of an engine run.
type EngineResult struct {
	Mode     Mode                        `json:"mode"`
	BestRole agent.Role                  `json:"best_role"`
	Snapshot map[agent.Role]string       `json:"snapshot"`
	Combined string                      `json:"combined"`
	Results  map[agent.Role]agent.Result `json:"results"`
	// Roles lists the roles that ran, in request order.
	Roles []agent.Role `json:"roles"`
}

// Request is the loosely-typed entry used by the HTTP and MCP surfaces.
type Request struct {
	Query     string   `json:"query"`
	SessionID string   `json:"session_id,omitempty"`
	Mode      string   `json:"mode,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	// TimeoutSeconds overrides the per-attempt timeout for this request.
	TimeoutSeconds float64 `json:"timeout,omitempty"`
}

// Engine prompts each role directly through the text generator, with
// retries and a per-attempt timeout, and fuses the outputs into one reply.
// Unlike the Coordinator it keeps no state between runs.
type Engine struct {
	gen   llm.TextGenerator
	cfg   EngineConfig
	fuser *Fuser
}

// NewEngine creates an Engine.
func NewEngine(gen llm.TextGenerator, cfg EngineConfig) *Engine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultEngineTimeout
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Backoff < 0 {
		cfg.Backoff = 0
	}
	if len(cfg.DefaultRoles) == 0 {
		cfg.DefaultRoles = agent.DefaultOrder
	}
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopMetrics{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Sleep == nil {
		cfg.Sleep = llm.SleepContext
	}
	return &Engine{gen: gen, cfg: cfg, fuser: NewFuser()}
}

// RunRequest applies request defaults (session "anonymous", chain mode) and
// calls Run.
func (e *Engine) RunRequest(ctx context.Context, req Request) (*EngineResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "anonymous"
	}
	mode, err := ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(req.TimeoutSeconds * float64(time.Second))
	return e.Run(ctx, req.Query, sessionID, mode, req.Roles, timeout)
}

// Run executes roles for query in the given mode. Empty roles means the
// configured default order; a zero timeout means the configured timeout.
// Only malformed input is returned as an error; every runtime failure
// degrades into fallback text.
func (e *Engine) Run(ctx context.Context, query, sessionID string, mode Mode, roles []string, timeout time.Duration) (*EngineResult, error) {
	mode, err := ParseMode(string(mode))
	if err != nil {
		return nil, err
	}
	order, err := e.resolveRoles(roles)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = e.cfg.Timeout
	}

	background := e.fetchContext(ctx, query)
	e.cfg.Recorder.Record("MCP", fmt.Sprintf("MCP run start session=%s mode=%s roles=%v", sessionID, mode, order))
	if background == "" {
		background = e.loadMemory(ctx, sessionID)
	}

	fan := NewFanOut(progressFunc(ctx, e.cfg.OnProgress))
	var results []agent.Result
	switch mode {
	case ModeParallel:
		results = fan.Parallel(ctx, order, func(ctx context.Context, role agent.Role) agent.Result {
			return e.callAgent(ctx, role, buildPrompt(role, background, query, nil), timeout)
		})
	default:
		var prior []priorOutput
		results = fan.Chain(ctx, order, func(ctx context.Context, role agent.Role) agent.Result {
			res := e.callAgent(ctx, role, buildPrompt(role, background, query, prior), timeout)
			prior = append(prior, priorOutput{role: role, text: res.Output})
			return res
		})
	}

	out := &EngineResult{
		Mode:     mode,
		Snapshot: make(map[agent.Role]string, len(results)),
		Results:  make(map[agent.Role]agent.Result, len(results)),
		Roles:    order,
	}
	for _, r := range results {
		out.Snapshot[r.Role] = r.Output
		out.Results[r.Role] = r
	}
	out.BestRole = bestRole(order, out.Results)
	out.Combined = e.fuser.Fuse(out.Snapshot, order)

	event := "MCP_CHAIN"
	if mode == ModeParallel {
		event = "MCP_PARALLEL"
	}
	e.cfg.Recorder.Record(event, fmt.Sprintf("session=%s best_role=%s", sessionID, out.BestRole))
	return out, nil
}

func (e *Engine) resolveRoles(names []string) ([]agent.Role, error) {
	if len(names) == 0 {
		return append([]agent.Role(nil), e.cfg.DefaultRoles...), nil
	}
	seen := make(map[agent.Role]bool, len(names))
	out := make([]agent.Role, 0, len(names))
	for _, n := range names {
		role, _ := agent.ParseRole(n)
		if role == "" {
			return nil, fmt.Errorf("%w: blank role name", ErrInvalidRole)
		}
		if seen[role] {
			return nil, fmt.Errorf("%w: %q listed twice", ErrInvalidRole, role)
		}
		seen[role] = true
		out = append(out, role)
	}
	return out, nil
}

// fetchContext is best-effort: failures are logged and yield "".
func (e *Engine) fetchContext(ctx context.Context, query string) string {
	if e.cfg.Context == nil {
		return ""
	}
	text, err := e.cfg.Context.Retrieve(ctx, query)
	if err != nil {
		e.cfg.Logger.Warn("context retrieval failed", "error", err)
		return ""
	}
	return text
}

// loadMemory renders the last stored turns as "<role>: <content>" lines.
// Failures yield "".
func (e *Engine) loadMemory(ctx context.Context, sessionID string) string {
	if e.cfg.History == nil {
		return ""
	}
	turns, err := e.cfg.History.Load(ctx, sessionID)
	if err != nil {
		e.cfg.Logger.Debug("session history unavailable", "session", sessionID, "error", err)
		return ""
	}
	if len(turns) > memoryTurns {
		turns = turns[len(turns)-memoryTurns:]
	}
	lines := make([]string, len(turns))
	for i, t := range turns {
		lines[i] = t.Role + ": " + t.Content
	}
	return strings.Join(lines, "\n")
}

// callAgent makes up to Retries+1 attempts, each bounded by timeout, and
// pauses Backoff*attempt after a failed attempt that will be retried.
func (e *Engine) callAgent(ctx context.Context, role agent.Role, prompt string, timeout time.Duration) agent.Result {
	taskType := "general_chat"
	if b, ok := agent.BehaviorOf(role); ok {
		taskType = b.TaskType
	}

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= e.cfg.Retries+1; attempt++ {
		out, err := callWithTimeout(ctx, timeout, func(ctx context.Context) (string, error) {
			return e.generate(ctx, prompt, taskType)
		})
		if err == nil {
			e.cfg.Metrics.ObserveAgent(string(role), OutcomeSuccess, time.Since(start))
			return agent.Result{Role: role, Success: true, Output: out}
		}
		lastErr = err
		e.cfg.Logger.Warn("agent call failed", "role", role, "attempt", attempt, "error", err)

		if attempt <= e.cfg.Retries {
			if serr := e.cfg.Sleep(ctx, e.cfg.Backoff*time.Duration(attempt)); serr != nil {
				lastErr = serr
				break
			}
		}
	}

	e.cfg.Metrics.ObserveAgent(string(role), OutcomeFallback, time.Since(start))
	return engineFallback(role, lastErr)
}

func (e *Engine) generate(ctx context.Context, prompt, taskType string) (string, error) {
	if e.gen == nil {
		return "", &llm.GenerationError{Err: fmt.Errorf("no text generator configured")}
	}
	return e.gen.Generate(ctx, prompt, taskType)
}

// bestRole is the first requested role that succeeded, else the first role.
func bestRole(order []agent.Role, results map[agent.Role]agent.Result) agent.Role {
	for _, r := range order {
		if results[r].Success {
			return r
		}
	}
	if len(order) == 0 {
		return ""
	}
	return order[0]
}
