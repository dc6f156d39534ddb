package retryx

import (
	"context"
	"strings"
	"time"

	"github.com/Abraxas-365/orquesta/pkg/errx"
)

// ─── Profiles ─────────────────────────────────────────────────────────────────

// Named policies for the failure modes this library meets most often.
// Each is a thin preset over Do; extra options append after the preset
// and may override it.

// Network retries transient transport failures: timeouts, dropped or
// refused connections, and temporarily unavailable upstreams.
func Network[T any](ctx context.Context, fn func(context.Context) (T, error), opts ...Option) (T, error) {
	preset := []Option{
		WithMaxAttempts(5),
		WithInitialDelay(250 * time.Millisecond),
		WithMaxDelay(8 * time.Second),
		WithBackoff(BackoffExponential),
		WithShouldRetry(networkShouldRetry),
	}
	return Do(ctx, fn, append(preset, opts...)...)
}

var transientNetMarkers = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"unavailable",
	"unexpected eof",
	"timeout",
	"timed out",
}

func networkShouldRetry(err error, attempt int) bool {
	if err == nil || errx.IsCancelled(err) {
		return false
	}
	if errx.IsTimeout(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range transientNetMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return DefaultShouldRetry(err, attempt)
}

// RateLimited retries only capacity rejections, spacing attempts far
// enough apart for a throttling upstream to recover.
func RateLimited[T any](ctx context.Context, fn func(context.Context) (T, error), opts ...Option) (T, error) {
	preset := []Option{
		WithMaxAttempts(4),
		WithInitialDelay(time.Second),
		WithBackoff(BackoffLinear),
		WithShouldRetry(rateLimitShouldRetry),
	}
	return Do(ctx, fn, append(preset, opts...)...)
}

var rateLimitMarkers = []string{
	"rate limit",
	"too many requests",
	"429",
	"quota",
}

func rateLimitShouldRetry(err error, attempt int) bool {
	if err == nil || errx.IsCancelled(err) {
		return false
	}
	if errx.HasType(err, errx.TypeExhausted) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Immediate retries quickly with a constant tiny delay, for operations
// where waiting longer buys nothing.
func Immediate[T any](ctx context.Context, fn func(context.Context) (T, error), opts ...Option) (T, error) {
	preset := []Option{
		WithMaxAttempts(3),
		WithInitialDelay(10 * time.Millisecond),
		WithBackoff(BackoffConstant),
	}
	return Do(ctx, fn, append(preset, opts...)...)
}
