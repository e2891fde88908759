// Package orchestrator runs role agents for a user query, either concurrently
// or as a chain where later roles see earlier outputs, and turns their
// results into a ranked evaluation or a single fused reply.
package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"github.com/dusk-indust/neuraline/internal/agent"
)

// Mode selects how the engine schedules roles.
type Mode string

const (
	ModeParallel Mode = "parallel"
	ModeChain    Mode = "chain"
)

// ParseMode accepts "parallel" or "chain", case-insensitively. An empty
// string selects chain mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeChain:
		return ModeChain, nil
	case ModeParallel:
		return ModeParallel, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// ProgressEvent is emitted while roles run.
type ProgressEvent struct {
	Role    agent.Role     `json:"role"`
	Status  ProgressStatus `json:"status"`
	Message string         `json:"message,omitempty"`
}

// ProgressStatus is the state of a role within a run.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
)

// EventRecorder receives coarse orchestration events such as
// COORDINATOR_CHAIN or AGENT_TIMEOUT. Implementations must not block.
type EventRecorder interface {
	Record(eventType, message string)
}

// Metrics receives one observation per finished role.
type Metrics interface {
	ObserveAgent(role, outcome string, d time.Duration)
}

// Outcome labels passed to Metrics.ObserveAgent.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeTimeout  = "timeout"
	OutcomeError    = "error"
)

type nopRecorder struct{}

func (nopRecorder) Record(string, string) {}

type nopMetrics struct{}

func (nopMetrics) ObserveAgent(string, string, time.Duration) {}
