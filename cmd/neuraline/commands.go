package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dusk-indust/neuraline/internal/agent"
	"github.com/dusk-indust/neuraline/internal/assistant"
	"github.com/dusk-indust/neuraline/internal/mcptools"
	"github.com/dusk-indust/neuraline/internal/orchestrator"
	"github.com/dusk-indust/neuraline/internal/server"
)

// AskCmd runs the engine once.
type AskCmd struct {
	Query    []string `arg:"" help:"The message to send."`
	Session  string   `short:"s" help:"Session id for conversation memory." default:"anonymous"`
	Mode     string   `short:"m" help:"chain or parallel." default:"chain" enum:"chain,parallel"`
	Roles    []string `short:"r" help:"Roles to run, in order (default: all four)." sep:","`
	Timeout  float64  `help:"Per-attempt timeout in seconds (default: from config)."`
	JSON     bool     `help:"Print the full result as JSON."`
	Progress bool     `help:"Print agent progress to stderr."`
}

func (c *AskCmd) Run(cli *CLI) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}

	var reporter *orchestrator.ProgressReporter
	if c.Progress {
		reporter = orchestrator.NewProgressReporter()
		done := printProgress(reporter)
		defer func() {
			reporter.Close()
			<-done
		}()
	}

	a, err := newApp(ctx, cfg, appOptions{progress: reporter})
	if err != nil {
		return err
	}
	defer a.Close()

	if c.Progress {
		roles := agent.DefaultOrder
		if len(c.Roles) > 0 {
			roles = make([]agent.Role, len(c.Roles))
			for i, r := range c.Roles {
				roles[i] = agent.Role(r)
			}
		}
		fmt.Fprintln(os.Stderr, orchestrator.FormatRunHeader(c.Session, orchestrator.Mode(c.Mode), roles))
	}

	res, err := a.service.Ask(ctx, orchestrator.Request{
		Query:          strings.Join(c.Query, " "),
		SessionID:      c.Session,
		Mode:           c.Mode,
		Roles:          c.Roles,
		TimeoutSeconds: c.Timeout,
	})
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(res)
	}
	fmt.Println(res.Combined)
	fmt.Fprintf(os.Stderr, "best role: %s\n", res.BestRole)
	return nil
}

// CoordinateCmd runs the coordinator once.
type CoordinateCmd struct {
	Query    []string `arg:"" help:"The message to send."`
	Session  string   `short:"s" help:"Session id." default:"anonymous"`
	TaskType string   `short:"t" name:"task-type" help:"Task category to route (default: classified from the message)."`
	Chain    []string `help:"Explicit role chain; overrides --task-type." sep:","`
}

func (c *CoordinateCmd) Run(cli *CLI) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.service.Coordinate(ctx, assistant.CoordinateRequest{
		Query:     strings.Join(c.Query, " "),
		TaskType:  c.TaskType,
		Chain:     c.Chain,
		SessionID: c.Session,
	})
	if err != nil {
		return err
	}
	return printJSON(res)
}

// ClassifyCmd prints the task category of a message.
type ClassifyCmd struct {
	Query []string `arg:"" help:"The message to classify."`
}

func (c *ClassifyCmd) Run() error {
	task := orchestrator.Classify(strings.Join(c.Query, " "))
	fmt.Printf("%s\t%v\n", task, orchestrator.DefaultRoutingTable().Resolve(task))
	return nil
}

// IngestCmd adds text files to the retrieval store.
type IngestCmd struct {
	Paths  []string `arg:"" help:"Text files to ingest." type:"path"`
	Source string   `help:"Source name for a single file (default: the file name)."`
}

func (c *IngestCmd) Run(cli *CLI) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	store, err := newRetriever(cfg)
	if err != nil {
		return err
	}
	if c.Source != "" && len(c.Paths) > 1 {
		return fmt.Errorf("--source needs exactly one file, got %d", len(c.Paths))
	}

	for _, path := range c.Paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		source := c.Source
		if source == "" {
			source = filepath.Base(path)
		}
		n, err := store.Ingest(ctx, string(data), source)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d chunks\n", source, n)
	}
	return nil
}

// ServeCmd runs the HTTP API.
type ServeCmd struct {
	Addr string `help:"Listen address (default: from config)."`
}

func (c *ServeCmd) Run(cli *CLI) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	if c.Addr != "" {
		cfg.Server.Addr = c.Addr
	}
	a, err := newApp(ctx, cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(server.Config{
		Addr:    cfg.Server.Addr,
		Service: a.service,
		Metrics: a.metrics.Handler(),
		Events:  a.events,
		Logger:  a.logger,
	})
	return srv.Run(ctx)
}

// ServeMCPCmd serves the MCP tools.
type ServeMCPCmd struct {
	HTTP string `name:"http" help:"Serve streamable HTTP on this address instead of stdio." placeholder:"ADDR"`
}

func (c *ServeMCPCmd) Run(cli *CLI) error {
	ctx, stop := signalContext()
	defer stop()

	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	mcpServer := mcptools.NewServer(mcptools.NewToolService(a.service, a.routing))
	if c.HTTP != "" {
		a.logger.Info("serving MCP over HTTP", "addr", c.HTTP)
		return mcptools.RunHTTP(ctx, mcpServer, c.HTTP)
	}
	return mcptools.RunStdio(ctx, mcpServer)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func printProgress(reporter *orchestrator.ProgressReporter) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range reporter.Subscribe() {
			fmt.Fprintln(os.Stderr, orchestrator.FormatProgress(ev))
		}
	}()
	return done
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
