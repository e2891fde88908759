package llm

import (
	"context"
	"time"
)

// RetryPolicy bounds repeated provider calls. Between attempt i and i+1 the
// policy waits Delay * 2^i.
type RetryPolicy struct {
	Retries int
	Delay   time.Duration

	// Sleep waits for d or until ctx is done. Nil means SleepContext.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy matches the provider defaults: two retries starting at
// half a second.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Retries: 2, Delay: 500 * time.Millisecond}
}

// Backoff returns the wait after the zero-based attempt i.
func (p RetryPolicy) Backoff(i int) time.Duration {
	return p.Delay * time.Duration(1<<i)
}

// Retry calls fn up to p.Retries+1 times and returns the first success. The
// last error is returned when every attempt fails; a cancelled ctx stops the
// loop early with the context error.
func Retry(ctx context.Context, p RetryPolicy, fn func(ctx context.Context) (string, error)) (string, error) {
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	var lastErr error
	for i := 0; i <= p.Retries; i++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if i == p.Retries {
			break
		}
		if err := sleep(ctx, p.Backoff(i)); err != nil {
			return "", err
		}
	}
	return "", lastErr
}

// SleepContext waits for d, returning early with ctx.Err() if ctx ends first.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
