package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/dusk-indust/neuraline/internal/agent"
)

// ProgressReporter emits progress events through a buffered channel.
type ProgressReporter struct {
	ch chan ProgressEvent
}

// NewProgressReporter creates a ProgressReporter with a buffered channel of size 64.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		ch: make(chan ProgressEvent, 64),
	}
}

// Emit sends a progress event in a non-blocking fashion.
// If the channel is full, the event is silently dropped.
func (pr *ProgressReporter) Emit(event ProgressEvent) {
	select {
	case pr.ch <- event:
	default:
	}
}

// Subscribe returns a read-only channel for consuming progress events.
func (pr *ProgressReporter) Subscribe() <-chan ProgressEvent {
	return pr.ch
}

// Close closes the progress event channel.
func (pr *ProgressReporter) Close() {
	close(pr.ch)
}

// FormatProgress formats a ProgressEvent as a human-readable status line.
func FormatProgress(event ProgressEvent) string {
	switch event.Status {
	case ProgressPending:
		return fmt.Sprintf("  ○ %s (pending)", event.Role)
	case ProgressWorking:
		return fmt.Sprintf("  ● %s...", event.Role)
	case ProgressComplete:
		return fmt.Sprintf("  ✓ %s complete", event.Role)
	case ProgressFailed:
		if event.Message == "" {
			return fmt.Sprintf("  ✗ %s failed", event.Role)
		}
		return fmt.Sprintf("  ✗ %s failed: %s", event.Role, event.Message)
	default:
		return fmt.Sprintf("  ? %s (unknown status)", event.Role)
	}
}

// FormatRunHeader formats a run header for display.
// Returns: "[{session}] {mode}: role1 → role2 → ..."
func FormatRunHeader(session string, mode Mode, roles []agent.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return fmt.Sprintf("[%s] %s: %s", session, mode, strings.Join(names, " → "))
}

type progressKey struct{}

// WithProgress returns a context whose engine runs also report progress to
// fn, in addition to any configured callback.
func WithProgress(ctx context.Context, fn func(ProgressEvent)) context.Context {
	return context.WithValue(ctx, progressKey{}, fn)
}

// progressFunc combines base with the callback carried by ctx, if any.
func progressFunc(ctx context.Context, base func(ProgressEvent)) func(ProgressEvent) {
	extra, _ := ctx.Value(progressKey{}).(func(ProgressEvent))
	switch {
	case extra == nil:
		return base
	case base == nil:
		return extra
	}
	return func(ev ProgressEvent) {
		base(ev)
		extra(ev)
	}
}
