package retryx

import (
	"context"
	"math"
	"time"

	"github.com/Abraxas-365/orquesta/pkg/logx"
	"github.com/Abraxas-365/orquesta/pkg/timex"
)

// ─── Engine ───────────────────────────────────────────────────────────────────

// Do invokes fn until it succeeds, the attempt budget is spent, the retry
// predicate refuses the failure, or ctx is cancelled.
//
// The first attempt runs immediately. Failed attempts wait according to the
// backoff schedule before the next try; the predicate is consulted before
// every wait and a refusal returns the error at once. The final error, on
// exhaustion or refusal, is fn's own error unchanged, so callers can keep
// matching it with errors.Is and errors.As. Cancellation during a wait
// returns the cancellation cause instead.
func Do[T any](ctx context.Context, fn func(context.Context) (T, error), opts ...Option) (T, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.MaxAttempts < 1 {
		o.MaxAttempts = 1
	}
	if o.ShouldRetry == nil {
		o.ShouldRetry = DefaultShouldRetry
	}

	var zero T
	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return zero, context.Cause(ctx)
		}

		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}

		if attempt >= o.MaxAttempts || !o.ShouldRetry(err, attempt) {
			return zero, err
		}

		delay := DelayFor(o.Backoff, attempt, o.InitialDelay, o.MaxDelay, o.Multiplier)
		if o.OnRetry != nil {
			o.OnRetry(err, attempt, delay)
		}
		logx.Component("retryx").
			WithError(err).
			WithFields(logx.Fields{"attempt": attempt, "next_delay": delay.String()}).
			Debug("attempt failed, retrying")

		if serr := timex.SleepCtx(ctx, delay); serr != nil {
			return zero, serr
		}
	}
}

// ─── Schedule ─────────────────────────────────────────────────────────────────

// DelayFor returns the wait scheduled after failedAttempt (1-based) under
// the given curve: constant keeps the initial delay, linear multiplies it
// by the attempt number, exponential by multiplier^(failedAttempt-1).
// max caps the result when positive.
func DelayFor(kind Backoff, failedAttempt int, initial, max time.Duration, multiplier float64) time.Duration {
	if failedAttempt < 1 {
		failedAttempt = 1
	}

	var d time.Duration
	switch kind {
	case BackoffConstant:
		d = initial
	case BackoffLinear:
		d = time.Duration(failedAttempt) * initial
	default:
		d = time.Duration(float64(initial) * math.Pow(multiplier, float64(failedAttempt-1)))
	}

	if max > 0 && d > max {
		d = max
	}
	if d < 0 {
		d = 0
	}
	return d
}
