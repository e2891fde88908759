// Package gemini is the Google Gemini text backend.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/dusk-indust/neuraline/internal/llm"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.5-flash"

// Config holds the Gemini client settings.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int32
}

// Provider calls the Gemini API through the genai SDK.
type Provider struct {
	client *genai.Client
	model  string
	cfg    *genai.GenerateContentConfig
}

var _ llm.Provider = (*Provider)(nil)

// New creates a Gemini provider. It fails when no API key is configured.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	gc := &genai.GenerateContentConfig{}
	if cfg.Temperature > 0 {
		gc.Temperature = genai.Ptr(cfg.Temperature)
	}
	if cfg.MaxTokens > 0 {
		gc.MaxOutputTokens = cfg.MaxTokens
	}

	return &Provider{client: client, model: model, cfg: gc}, nil
}

// Name implements llm.Provider.
func (p *Provider) Name() string { return "gemini" }

// Generate implements llm.TextGenerator.
func (p *Provider) Generate(ctx context.Context, prompt, _ string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), p.cfg)
	if err != nil {
		return "", &llm.GenerationError{Provider: p.Name(), Err: err}
	}
	text := responseText(resp)
	if text == "" {
		return "", &llm.GenerationError{Provider: p.Name(), Err: errors.New("empty response")}
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range c.Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}
