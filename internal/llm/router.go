package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Compile-time check.
var _ TextGenerator = (*Router)(nil)

// CallObserver is notified after every provider call.
type CallObserver interface {
	ObserveGeneration(provider string, err error, d time.Duration)
}

// Router tries each provider in order, retrying each one per its policy, and
// returns the first successful answer.
type Router struct {
	providers []Provider
	policy    RetryPolicy
	logger    *slog.Logger
	observer  CallObserver
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithRetryPolicy overrides the per-provider retry policy.
func WithRetryPolicy(p RetryPolicy) RouterOption {
	return func(r *Router) { r.policy = p }
}

// WithLogger sets the router's logger.
func WithLogger(l *slog.Logger) RouterOption {
	return func(r *Router) { r.logger = l }
}

// WithObserver registers a CallObserver, typically the metrics recorder.
func WithObserver(o CallObserver) RouterOption {
	return func(r *Router) { r.observer = o }
}

// NewRouter creates a Router over providers, tried in the given order.
func NewRouter(providers []Provider, opts ...RouterOption) *Router {
	r := &Router{
		providers: providers,
		policy:    DefaultRetryPolicy(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Providers returns the provider names in routing order.
func (r *Router) Providers() []string {
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

// Generate implements TextGenerator. Failures are always *GenerationError.
func (r *Router) Generate(ctx context.Context, prompt, taskType string) (string, error) {
	if len(r.providers) == 0 {
		return "", &GenerationError{Err: errors.New("no model providers configured")}
	}

	var errs []error
	for _, p := range r.providers {
		out, err := Retry(ctx, r.policy, func(ctx context.Context) (string, error) {
			start := time.Now()
			out, err := p.Generate(ctx, prompt, taskType)
			if r.observer != nil {
				r.observer.ObserveGeneration(p.Name(), err, time.Since(start))
			}
			return out, err
		})
		if err == nil {
			return out, nil
		}

		r.logger.Warn("model provider failed, trying next",
			"provider", p.Name(), "task_type", taskType, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}

	return "", &GenerationError{Provider: "router", Err: errors.Join(errs...)}
}
