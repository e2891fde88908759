package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/dusk-indust/neuraline/internal/config"
	"github.com/dusk-indust/neuraline/internal/logging"
)

// version is set by goreleaser at build time.
var version = "dev"

// CLI is the root command.
type CLI struct {
	Ask        AskCmd        `cmd:"" help:"Run the agents on a message and print the fused reply."`
	Coordinate CoordinateCmd `cmd:"" help:"Run the blackboard coordinator on a message."`
	Classify   ClassifyCmd   `cmd:"" help:"Print the task category of a message."`
	Ingest     IngestCmd     `cmd:"" help:"Add documents to the retrieval store."`
	Serve      ServeCmd      `cmd:"" help:"Start the HTTP API."`
	ServeMCP   ServeMCPCmd   `cmd:"" name:"serve-mcp" help:"Serve the agents as MCP tools."`
	Version    VersionCmd    `cmd:"" help:"Print version and exit."`

	Config    string `short:"c" help:"Path to config file (default: neuraline.yml in --dir)." type:"path"`
	Dir       string `help:"Directory searched for neuraline.yml and .env." default:"." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error). Overrides the config file."`
	LogFormat string `help:"Log format (text, json). Overrides the config file."`
}

// VersionCmd prints the build version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(version)
	return nil
}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("neuraline"),
		kong.Description("Multi-agent reflection, planning and coaching assistant."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

// loadConfig resolves configuration for every command: .env files, then the
// YAML file, then environment variables, then CLI flags.
func (cli *CLI) loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(cli.Dir + "/.env"); err != nil {
		return nil, err
	}

	var (
		cfg *config.Config
		err error
	)
	if cli.Config != "" {
		cfg, err = config.LoadFile(cli.Config)
	} else {
		cfg, err = config.Load(cli.Dir)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if cli.LogLevel != "" {
		cfg.Log.Level = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.Log.Format = cli.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr); err != nil {
		return nil, err
	}
	return cfg, nil
}
