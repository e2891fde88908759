// Package openai is the Chat Completions text backend. Any OpenAI-compatible
// endpoint works, which is how the Groq fallback is reached.
package openai

import (
	"context"
	"errors"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/dusk-indust/neuraline/internal/llm"
)

// GroqBaseURL is the OpenAI-compatible Groq endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// Config holds the client settings. Name defaults to "openai".
type Config struct {
	Name        string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int64
}

// Provider calls a Chat Completions endpoint.
type Provider struct {
	client *oai.Client
	name   string
	cfg    Config
}

var _ llm.Provider = (*Provider)(nil)

// New creates a provider from cfg.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = oai.ChatModelGPT4oMini
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := oai.NewClient(opts...)

	name := cfg.Name
	if name == "" {
		name = "openai"
	}
	return &Provider{client: &client, name: name, cfg: cfg}, nil
}

// NewGroq creates a provider pointed at Groq.
func NewGroq(apiKey, model string) (*Provider, error) {
	if model == "" {
		model = "llama-3.1-8b-instant"
	}
	return New(Config{Name: "groq", APIKey: apiKey, BaseURL: GroqBaseURL, Model: model, Temperature: 0.7})
}

// Name implements llm.Provider.
func (p *Provider) Name() string { return p.name }

// Generate implements llm.TextGenerator.
func (p *Provider) Generate(ctx context.Context, prompt, _ string) (string, error) {
	params := oai.ChatCompletionNewParams{
		Model:               p.cfg.Model,
		Messages:            []oai.ChatCompletionMessageParamUnion{oai.UserMessage(prompt)},
		MaxCompletionTokens: oai.Int(p.cfg.MaxTokens),
	}
	if p.cfg.Temperature > 0 {
		params.Temperature = oai.Float(p.cfg.Temperature)
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &llm.GenerationError{Provider: p.name, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &llm.GenerationError{Provider: p.name, Err: errors.New("no choices in response")}
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &llm.GenerationError{Provider: p.name, Err: errors.New("empty response")}
	}
	return text, nil
}
