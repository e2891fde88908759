package orchestrator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/neuraline/internal/agent"
)

// RoleFunc runs a single role and always produces a result.
type RoleFunc func(ctx context.Context, role agent.Role) agent.Result

// FanOut schedules roles either all at once or one after another and
// collects exactly one result per role, in role order.
type FanOut struct {
	onProgress func(ProgressEvent)
}

// NewFanOut creates a FanOut. onProgress is called synchronously from each
// role's goroutine; it may be nil.
func NewFanOut(onProgress func(ProgressEvent)) *FanOut {
	return &FanOut{onProgress: onProgress}
}

// Parallel runs every role concurrently. A failing role never cancels its
// siblings, so the group carries no derived context.
func (f *FanOut) Parallel(ctx context.Context, roles []agent.Role, fn RoleFunc) []agent.Result {
	results := make([]agent.Result, len(roles))
	var g errgroup.Group

	for i, role := range roles {
		f.emit(ProgressEvent{Role: role, Status: ProgressPending})

		g.Go(func() error {
			f.emit(ProgressEvent{Role: role, Status: ProgressWorking})
			results[i] = fn(ctx, role)
			f.done(results[i])
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// Chain runs roles strictly in order; role N starts only after role N-1
// has returned.
func (f *FanOut) Chain(ctx context.Context, roles []agent.Role, fn RoleFunc) []agent.Result {
	for _, role := range roles {
		f.emit(ProgressEvent{Role: role, Status: ProgressPending})
	}

	results := make([]agent.Result, 0, len(roles))
	for _, role := range roles {
		f.emit(ProgressEvent{Role: role, Status: ProgressWorking})
		res := fn(ctx, role)
		f.done(res)
		results = append(results, res)
	}
	return results
}

func (f *FanOut) done(res agent.Result) {
	if res.Success {
		f.emit(ProgressEvent{Role: res.Role, Status: ProgressComplete})
		return
	}
	f.emit(ProgressEvent{Role: res.Role, Status: ProgressFailed, Message: res.Error})
}

// emit sends a progress event if a callback is registered.
func (f *FanOut) emit(ev ProgressEvent) {
	if f.onProgress != nil {
		f.onProgress(ev)
	}
}
