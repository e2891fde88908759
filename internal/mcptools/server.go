// Package mcptools serves the engine and coordinator as MCP tools.
package mcptools

import (
	"context"
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewServer creates an MCP server with the run_engine, run_coordinator and
// classify_task tools registered.
func NewServer(svc *ToolService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "neuraline",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_engine",
		Description: "Run the reflector, strategist, coach and purpose agents on a message, in chain or parallel mode, and return one fused reply plus each agent's output.",
	}, svc.RunEngine)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_coordinator",
		Description: "Route a message to the agents for its task category (or an explicit chain) on a shared blackboard, and return the outputs ranked by relevance.",
	}, svc.RunCoordinator)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "classify_task",
		Description: "Classify a message into a task category and list the agents that category routes to.",
	}, svc.ClassifyTask)

	return server
}

// RunStdio serves on stdin/stdout until the client disconnects or ctx is
// cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is
// cancelled.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
