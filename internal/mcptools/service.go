package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/neuraline/internal/agent"
	"github.com/dusk-indust/neuraline/internal/assistant"
	"github.com/dusk-indust/neuraline/internal/orchestrator"
)

// ToolService handles MCP tool calls by delegating to the assistant.
type ToolService struct {
	svc     *assistant.Service
	routing orchestrator.RoutingTable
}

// NewToolService creates a ToolService. A nil routing table means the
// built-in one.
func NewToolService(svc *assistant.Service, routing orchestrator.RoutingTable) *ToolService {
	if routing == nil {
		routing = orchestrator.DefaultRoutingTable()
	}
	return &ToolService{svc: svc, routing: routing}
}

// RunEngine runs the engine and returns the fused reply.
func (s *ToolService) RunEngine(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RunEngineInput,
) (*mcp.CallToolResult, RunEngineOutput, error) {
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = assistant.AnonymousSession
	}
	res, err := s.svc.Ask(ctx, orchestrator.Request{
		Query:          input.Query,
		SessionID:      sessionID,
		Mode:           input.Mode,
		Roles:          input.Roles,
		TimeoutSeconds: input.Timeout,
	})
	if err != nil {
		return nil, RunEngineOutput{}, fmt.Errorf("run_engine: %w", err)
	}
	return nil, RunEngineOutput{
		SessionID: sessionID,
		Mode:      res.Mode,
		BestRole:  res.BestRole,
		Combined:  res.Combined,
		Snapshot:  res.Snapshot,
		Results:   res.Results,
	}, nil
}

// RunCoordinator runs a fresh coordinator and returns the ranked results.
func (s *ToolService) RunCoordinator(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RunCoordinatorInput,
) (*mcp.CallToolResult, RunCoordinatorOutput, error) {
	res, err := s.svc.Coordinate(ctx, assistant.CoordinateRequest{
		Query:     input.Query,
		TaskType:  input.TaskType,
		Chain:     input.Chain,
		SessionID: input.SessionID,
	})
	if err != nil {
		return nil, RunCoordinatorOutput{}, fmt.Errorf("run_coordinator: %w", err)
	}
	out := RunCoordinatorOutput{
		TaskType: res.TaskType,
		Best:     res.Eval.Best,
		Combined: res.Eval.Combined,
		Ranked:   res.Eval.Ranked,
		Results:  res.Results,
	}
	if out.Ranked == nil {
		out.Ranked = []orchestrator.Ranked{}
	}
	if out.Results == nil {
		out.Results = []agent.Result{}
	}
	return nil, out, nil
}

// ClassifyTask reports the task category of a query and the roles it
// routes to.
func (s *ToolService) ClassifyTask(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ClassifyTaskInput,
) (*mcp.CallToolResult, ClassifyTaskOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, ClassifyTaskOutput{}, fmt.Errorf("classify_task: %w", orchestrator.ErrEmptyQuery)
	}
	task := orchestrator.Classify(input.Query)
	return nil, ClassifyTaskOutput{TaskType: task, Roles: s.routing.Resolve(task)}, nil
}
