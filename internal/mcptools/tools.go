package mcptools

import (
	"github.com/dusk-indust/neuraline/internal/agent"
	"github.com/dusk-indust/neuraline/internal/orchestrator"
)

// --- MCP Tool Input/Output Types ---
// The MCP Go SDK derives each tool's JSON schema from these struct tags.

// RunEngineInput is the input for the run_engine tool.
type RunEngineInput struct {
	Query     string   `json:"query" jsonschema:"the user's message"`
	SessionID string   `json:"session_id,omitempty" jsonschema:"conversation id (default: anonymous)"`
	Mode      string   `json:"mode,omitempty" jsonschema:"chain (default) or parallel"`
	Roles     []string `json:"roles,omitempty" jsonschema:"roles to run in order. Values: reflector, strategist, coach, purpose"`
	Timeout   float64  `json:"timeout,omitempty" jsonschema:"per-attempt timeout in seconds"`
}

// RunEngineOutput is the result of the run_engine tool.
type RunEngineOutput struct {
	SessionID string                      `json:"session_id"`
	Mode      orchestrator.Mode           `json:"mode"`
	BestRole  agent.Role                  `json:"best_role"`
	Combined  string                      `json:"combined"`
	Snapshot  map[agent.Role]string       `json:"snapshot"`
	Results   map[agent.Role]agent.Result `json:"results"`
}

// RunCoordinatorInput is the input for the run_coordinator tool.
type RunCoordinatorInput struct {
	Query     string   `json:"query" jsonschema:"the user's message"`
	TaskType  string   `json:"task_type,omitempty" jsonschema:"task category to route; classified from the query when empty"`
	Chain     []string `json:"chain,omitempty" jsonschema:"explicit role chain; overrides task_type"`
	SessionID string   `json:"session_id,omitempty" jsonschema:"conversation id (default: anonymous)"`
}

// RunCoordinatorOutput is the result of the run_coordinator tool.
type RunCoordinatorOutput struct {
	TaskType string                `json:"task_type,omitempty"`
	Best     agent.Result          `json:"best"`
	Combined string                `json:"combined"`
	Ranked   []orchestrator.Ranked `json:"ranked"`
	Results  []agent.Result        `json:"results"`
}

// ClassifyTaskInput is the input for the classify_task tool.
type ClassifyTaskInput struct {
	Query string `json:"query" jsonschema:"the text to classify"`
}

// ClassifyTaskOutput is the result of the classify_task tool.
type ClassifyTaskOutput struct {
	TaskType string       `json:"task_type"`
	Roles    []agent.Role `json:"roles"`
}
