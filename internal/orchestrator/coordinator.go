package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dusk-indust/neuraline/internal/agent"
	"github.com/dusk-indust/neuraline/internal/blackboard"
)

// CoordinatorConfig holds the optional collaborators of a Coordinator.
type CoordinatorConfig struct {
	// Timeout bounds each agent run. Zero means DefaultCoordinatorTimeout.
	Timeout time.Duration
	// Routing maps task categories to roles. Nil means DefaultRoutingTable.
	Routing    RoutingTable
	Recorder   EventRecorder
	Metrics    Metrics
	Logger     *slog.Logger
	OnProgress func(ProgressEvent)
}

// CoordinatorResult is returned by every coordinator run.
type CoordinatorResult struct {
	TaskType string         `json:"task_type,omitempty"`
	Results  []agent.Result `json:"results"`
	Eval     Evaluation     `json:"eval"`
	// Snapshot is a copy of the blackboard after the run.
	Snapshot map[string]any `json:"snapshot"`
}

// Coordinator runs blackboard agents concurrently by task category or as an
// explicit chain, then ranks their outputs.
//
// A Coordinator owns one blackboard for its whole lifetime, so outputs of a
// previous run stay visible to the next one. Create a Coordinator per
// conversation when that is not wanted.
type Coordinator struct {
	agents    map[agent.Role]agent.Agent
	state     *blackboard.State
	routing   RoutingTable
	evaluator *Evaluator
	fanout    *FanOut
	timeout   time.Duration
	recorder  EventRecorder
	metrics   Metrics
	logger    *slog.Logger
}

// NewCoordinator creates a Coordinator over agents sharing state. A nil
// state gets a fresh blackboard.
func NewCoordinator(agents map[agent.Role]agent.Agent, state *blackboard.State, cfg CoordinatorConfig) *Coordinator {
	if state == nil {
		state = blackboard.New()
	}
	c := &Coordinator{
		agents:    agents,
		state:     state,
		routing:   cfg.Routing,
		evaluator: NewEvaluator(),
		fanout:    NewFanOut(cfg.OnProgress),
		timeout:   cfg.Timeout,
		recorder:  cfg.Recorder,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
	}
	if c.routing == nil {
		c.routing = DefaultRoutingTable()
	}
	if c.timeout <= 0 {
		c.timeout = DefaultCoordinatorTimeout
	}
	if c.recorder == nil {
		c.recorder = nopRecorder{}
	}
	if c.metrics == nil {
		c.metrics = nopMetrics{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// State returns the coordinator's blackboard.
func (c *Coordinator) State() *blackboard.State {
	return c.state
}

// RunParallel runs the roles routed for taskType concurrently. Roles with no
// agent are skipped. Each agent works on its own fork of the blackboard, so
// no agent sees a sibling's output; forks are committed as agents finish.
func (c *Coordinator) RunParallel(ctx context.Context, query, taskType, sessionID string) CoordinatorResult {
	roles := c.available(c.routing.Resolve(taskType))

	base := c.state.Fork()
	results := c.fanout.Parallel(ctx, roles, func(ctx context.Context, role agent.Role) agent.Result {
		return c.runAgent(ctx, role, query, sessionID, base.Fork())
	})

	out := c.finish(query, results)
	out.TaskType = taskType
	c.recorder.Record("COORDINATOR_PARALLEL",
		fmt.Sprintf("session=%s task=%s snapshot_keys=%v", sessionID, taskType, c.state.Keys()))
	return out
}

// RunChain runs the named roles one after another so each sees the
// blackboard writes of those before it. Unknown names are skipped.
func (c *Coordinator) RunChain(ctx context.Context, query string, chain []string, sessionID string) CoordinatorResult {
	roles := make([]agent.Role, 0, len(chain))
	for _, name := range chain {
		roles = append(roles, agent.Role(name))
	}
	roles = c.available(roles)

	results := c.fanout.Chain(ctx, roles, func(ctx context.Context, role agent.Role) agent.Result {
		return c.runAgent(ctx, role, query, sessionID, nil)
	})

	out := c.finish(query, results)
	c.recorder.Record("COORDINATOR_CHAIN",
		fmt.Sprintf("session=%s chain=%v snapshot_keys=%v", sessionID, chain, c.state.Keys()))
	return out
}

// RunAuto classifies query and runs the matching roles in parallel.
func (c *Coordinator) RunAuto(ctx context.Context, query, sessionID string) CoordinatorResult {
	return c.RunParallel(ctx, query, Classify(query), sessionID)
}

func (c *Coordinator) available(roles []agent.Role) []agent.Role {
	out := roles[:0:0]
	for _, r := range roles {
		if _, ok := c.agents[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

func (c *Coordinator) finish(query string, results []agent.Result) CoordinatorResult {
	return CoordinatorResult{
		Results:  results,
		Eval:     c.evaluator.Evaluate(query, results),
		Snapshot: c.state.Snapshot(),
	}
}

// runAgent runs one agent under the coordinator timeout and converts every
// failure into a placeholder result. With a non-nil fork the agent runs on
// the fork, which is committed only if the agent finished in time.
func (c *Coordinator) runAgent(ctx context.Context, role agent.Role, query, sessionID string, fork *blackboard.State) agent.Result {
	ag := c.agents[role]
	state := c.state
	if fork != nil {
		state = fork
	}
	start := time.Now()

	res, err := callWithTimeout(ctx, c.timeout, func(ctx context.Context) (agent.Result, error) {
		return ag.Run(ctx, query, sessionID, state)
	})
	elapsed := time.Since(start)

	switch {
	case err == nil:
		if fork != nil {
			c.state.Commit(fork)
		}
		outcome := OutcomeSuccess
		if !res.Success {
			outcome = OutcomeFallback
		}
		c.metrics.ObserveAgent(string(role), outcome, elapsed)
		return res

	case errors.Is(err, ErrTimeout):
		c.recorder.Record("AGENT_TIMEOUT", fmt.Sprintf("%s timed out for session=%s", role, sessionID))
		c.logger.Warn("agent timed out", "role", role, "session", sessionID, "timeout", c.timeout)
		c.metrics.ObserveAgent(string(role), OutcomeTimeout, elapsed)
		return timeoutResult(role)

	default:
		c.recorder.Record("AGENT_ERROR", fmt.Sprintf("%s error: %v", role, err))
		c.logger.Error("agent failed", "role", role, "session", sessionID, "error", err)
		c.metrics.ObserveAgent(string(role), OutcomeError, elapsed)
		return errorResult(role, err)
	}
}
