// Package agent contains the role agents that turn a user query into
// role-specific text and publish it on the shared blackboard.
package agent

import (
	"context"

	"github.com/dusk-indust/neuraline/internal/blackboard"
)

// Agent is the interface that all role agents implement.
type Agent interface {
	// Role returns the role this agent plays.
	Role() Role

	// Run produces the agent's output for query, reading earlier outputs from
	// state and merging its own output into state. The error is non-nil only
	// when ctx ended before the agent could finish; generation failures are
	// reported through Result.Success and Result.Error.
	Run(ctx context.Context, query, sessionID string, state *blackboard.State) (Result, error)
}

// Result is the outcome of a single agent invocation.
type Result struct {
	Role    Role   `json:"role"`
	Success bool   `json:"success"`
	Output  string `json:"output"`
	Error   string `json:"error,omitempty"`
}
