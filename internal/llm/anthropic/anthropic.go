// Package anthropic is the Claude Messages API text backend.
package anthropic

import (
	"context"
	"errors"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dusk-indust/neuraline/internal/llm"
)

// Config holds the client settings.
type Config struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int64
}

// Provider calls the Messages API.
type Provider struct {
	client *sdk.Client
	cfg    Config
}

var _ llm.Provider = (*Provider)(nil)

// New creates an Anthropic provider.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = string(sdk.ModelClaude3_5Sonnet20241022)
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	client := sdk.NewClient(option.WithAPIKey(cfg.APIKey))
	return &Provider{client: &client, cfg: cfg}, nil
}

// Name implements llm.Provider.
func (p *Provider) Name() string { return "anthropic" }

// Generate implements llm.TextGenerator.
func (p *Provider) Generate(ctx context.Context, prompt, _ string) (string, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(p.cfg.Model),
		MaxTokens: p.cfg.MaxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	}
	if p.cfg.Temperature > 0 {
		params.Temperature = sdk.Float(p.cfg.Temperature)
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", &llm.GenerationError{Provider: p.Name(), Err: err}
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &llm.GenerationError{Provider: p.Name(), Err: errors.New("empty response")}
	}
	return text, nil
}
