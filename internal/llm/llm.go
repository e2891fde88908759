// Package llm defines the text generation capability the agents depend on and
// a Router that walks a list of model providers until one answers.
package llm

import (
	"context"
	"fmt"
)

// TextGenerator produces text for a prompt. taskType is an opaque hint that
// implementations may use to pick a backend; callers never interpret it.
type TextGenerator interface {
	Generate(ctx context.Context, prompt, taskType string) (string, error)
}

// GeneratorFunc adapts a plain function to TextGenerator.
type GeneratorFunc func(ctx context.Context, prompt, taskType string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt, taskType string) (string, error) {
	return f(ctx, prompt, taskType)
}

// Provider is a single model backend.
type Provider interface {
	TextGenerator

	// Name identifies the backend in logs, errors and metrics.
	Name() string
}

// GenerationError reports that a text backend failed or timed out.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("generation failed: %v", e.Err)
	}
	return fmt.Sprintf("generation failed (%s): %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
