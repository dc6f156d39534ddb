package timex

import (
	"context"
	"time"
)

// ─── Timeout ──────────────────────────────────────────────────────────────────

// WithTimeout runs fn with a deadline of d and returns its result, a typed
// timeout error when the deadline expires first, or the cancellation cause
// when ctx is cancelled first.
//
// fn receives a context that expires with the deadline and should honor it.
// If it does not, the goroutine running fn keeps going in the background
// after WithTimeout has returned; the result is discarded.
func WithTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	tctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		val T
		err error
	}
	ch := make(chan result, 1)

	go func() {
		val, err := fn(tctx)
		ch <- result{val, err}
	}()

	select {
	case res := <-ch:
		return res.val, res.err
	case <-tctx.Done():
		var zero T
		if ctx.Err() != nil {
			return zero, context.Cause(ctx)
		}
		return zero, timeErrors.NewWithCause(ErrTimeout, context.DeadlineExceeded).
			WithDetail("timeout", d.String())
	}
}

// ─── Delays ───────────────────────────────────────────────────────────────────

// Sleep blocks the calling goroutine for d.
func Sleep(d time.Duration) {
	time.Sleep(d)
}

// SleepCtx blocks for d or until ctx is cancelled, whichever comes first,
// returning the cancellation cause in the latter case.
func SleepCtx(ctx context.Context, d time.Duration) error {
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}
