// Package config loads neuraline settings from a YAML file, .env files and
// environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Engine      EngineConfig      `yaml:"engine"`
	Coordinator CoordinatorConfig `yaml:"coordinator"`
	Generation  GenerationConfig  `yaml:"generation"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Session     SessionConfig     `yaml:"session"`
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
}

// EngineConfig controls the prompt-level engine.
type EngineConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	Retries int           `yaml:"retries"`
	Backoff time.Duration `yaml:"backoff"`
	// Roles is the default role ordering for requests that name none.
	Roles []string `yaml:"roles,omitempty"`
}

// CoordinatorConfig controls the blackboard coordinator.
type CoordinatorConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	// Routing replaces the built-in routing table when non-empty.
	Routing map[string][]string `yaml:"routing,omitempty"`
}

// GenerationConfig lists the model providers in fallback order.
type GenerationConfig struct {
	Providers   []string       `yaml:"providers"`
	Retries     int            `yaml:"retries"`
	Backoff     time.Duration  `yaml:"backoff"`
	Temperature float64        `yaml:"temperature"`
	MaxTokens   int64          `yaml:"maxTokens"`
	Gemini      ProviderConfig `yaml:"gemini"`
	Groq        ProviderConfig `yaml:"groq"`
	OpenAI      ProviderConfig `yaml:"openai"`
	Anthropic   ProviderConfig `yaml:"anthropic"`
}

// ProviderConfig holds one provider's credentials and model.
type ProviderConfig struct {
	APIKey  string `yaml:"apiKey,omitempty"`
	Model   string `yaml:"model,omitempty"`
	BaseURL string `yaml:"baseURL,omitempty"`
}

// RetrievalConfig controls the vector store used for background context.
type RetrievalConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Collection   string `yaml:"collection"`
	TopK         int    `yaml:"topK"`
	PersistPath  string `yaml:"persistPath,omitempty"`
	Compress     bool   `yaml:"compress,omitempty"`
	Embedder     string `yaml:"embedder"`
	EmbedModel   string `yaml:"embedModel,omitempty"`
	EmbedURL     string `yaml:"embedURL,omitempty"`
	ChunkSize    int    `yaml:"chunkSize"`
	ChunkOverlap int    `yaml:"chunkOverlap"`
}

// SessionConfig selects the conversation history store.
type SessionConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path,omitempty"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Timeout: 30 * time.Second,
			Retries: 1,
			Backoff: 500 * time.Millisecond,
		},
		Coordinator: CoordinatorConfig{Timeout: 20 * time.Second},
		Generation: GenerationConfig{
			Providers:   []string{"gemini", "groq", "anthropic", "openai"},
			Retries:     2,
			Backoff:     500 * time.Millisecond,
			Temperature: 0.6,
			MaxTokens:   512,
		},
		Retrieval: RetrievalConfig{
			Enabled:      true,
			Collection:   "neuraline_docs",
			TopK:         3,
			Embedder:     "hash",
			ChunkSize:    500,
			ChunkOverlap: 100,
		},
		Session: SessionConfig{Backend: "memory"},
		Server:  ServerConfig{Addr: ":8000"},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// FileNames are the config file names Load looks for, in order.
var FileNames = []string{"neuraline.yml", "neuraline.yaml"}

// Load reads neuraline.yml or neuraline.yaml from dir over the defaults.
// A missing file yields the defaults, not an error.
func Load(dir string) (*Config, error) {
	cfg := Default()
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		break
	}
	return cfg, nil
}

// LoadFile reads an explicit config file over the defaults. Unlike Load, a
// missing file is an error.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg from environment variables read through lookup
// (os.LookupEnv in production). Malformed numeric values are errors.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("GOOGLE_API_KEY", &c.Generation.Gemini.APIKey)
	str("GEMINI_API_KEY", &c.Generation.Gemini.APIKey)
	str("GROQ_API_KEY", &c.Generation.Groq.APIKey)
	str("OPENAI_API_KEY", &c.Generation.OpenAI.APIKey)
	str("ANTHROPIC_API_KEY", &c.Generation.Anthropic.APIKey)
	str("NEURALINE_LOG_LEVEL", &c.Log.Level)
	str("NEURALINE_LOG_FORMAT", &c.Log.Format)
	str("NEURALINE_ADDR", &c.Server.Addr)
	str("NEURALINE_SESSION_BACKEND", &c.Session.Backend)
	str("NEURALINE_SESSION_PATH", &c.Session.Path)
	str("NEURALINE_VECTOR_PATH", &c.Retrieval.PersistPath)
	str("NEURALINE_EMBEDDER", &c.Retrieval.Embedder)

	if v, ok := lookup("NEURALINE_PROVIDERS"); ok && v != "" {
		c.Generation.Providers = splitList(v)
	}
	if v, ok := lookup("NEURALINE_ROLES"); ok && v != "" {
		c.Engine.Roles = splitList(v)
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"NEURALINE_ENGINE_TIMEOUT", &c.Engine.Timeout},
		{"NEURALINE_COORDINATOR_TIMEOUT", &c.Coordinator.Timeout},
		{"NEURALINE_RETRY_BACKOFF", &c.Engine.Backoff},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if v, ok := lookup("NEURALINE_RETRIES"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("NEURALINE_RETRIES: %w", err)
		}
		c.Engine.Retries = n
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Engine.Timeout <= 0:
		return errors.New("engine.timeout must be positive")
	case c.Coordinator.Timeout <= 0:
		return errors.New("coordinator.timeout must be positive")
	case c.Engine.Retries < 0:
		return errors.New("engine.retries must not be negative")
	case c.Generation.Retries < 0:
		return errors.New("generation.retries must not be negative")
	case c.Retrieval.TopK <= 0:
		return errors.New("retrieval.topK must be positive")
	}
	switch c.Session.Backend {
	case "memory", "kuzu":
	default:
		return fmt.Errorf("session.backend %q must be memory or kuzu", c.Session.Backend)
	}
	return nil
}

// parseDuration accepts Go durations ("20s") and bare seconds ("2.5").
func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
