package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// callWithTimeout runs fn with a deadline of d and returns as soon as either
// fn finishes or the deadline passes, even when fn ignores its context. A
// result that is ready when the deadline fires still wins. Panics in fn are
// returned as errors. Timeouts are reported as ErrTimeout.
func callWithTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	cctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type outcome struct {
		val T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		v, err := fn(cctx)
		done <- outcome{val: v, err: err}
	}()

	var zero T
	select {
	case o := <-done:
		return o.val, classify(cctx, o.err)
	case <-cctx.Done():
		select {
		case o := <-done:
			return o.val, classify(cctx, o.err)
		default:
		}
		return zero, classify(cctx, cctx.Err())
	}
}

// classify maps a deadline hit on cctx to ErrTimeout.
func classify(cctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && errors.Is(cctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}
