package batchx

import (
	"context"
	"sync"
)

// ─── Rate Limiter ─────────────────────────────────────────────────────────────

// RateLimiter admits at most a fixed number of concurrent operations.
// Callers beyond the limit wait in FIFO order; a finishing operation hands
// its slot directly to the queue head, so admission order is exactly
// arrival order. An optional queue limit rejects further callers outright.
type RateLimiter struct {
	max        int
	queueLimit int

	mu      sync.Mutex
	active  int
	waiters []chan struct{}
}

// LimiterOption configures a RateLimiter.
type LimiterOption func(*RateLimiter)

// WithQueueLimit bounds the wait queue. Zero, the default, means
// unbounded.
func WithQueueLimit(n int) LimiterOption {
	return func(l *RateLimiter) {
		if n >= 0 {
			l.queueLimit = n
		}
	}
}

// NewRateLimiter creates a limiter admitting maxConcurrent operations at
// once.
func NewRateLimiter(maxConcurrent int, opts ...LimiterOption) *RateLimiter {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	l := &RateLimiter{max: maxConcurrent}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Do runs fn under the limiter. It blocks until a slot is free, the queue
// rejects the caller, or ctx is cancelled while waiting.
func (l *RateLimiter) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := l.acquire(ctx); err != nil {
		return err
	}
	defer l.release()
	return fn(ctx)
}

// DoValue runs fn under limiter l and returns its value. A package
// function because methods cannot take type parameters.
func DoValue[T any](ctx context.Context, l *RateLimiter, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := l.acquire(ctx); err != nil {
		return zero, err
	}
	defer l.release()
	return fn(ctx)
}

// Active returns the number of admitted operations.
func (l *RateLimiter) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Queued returns the number of waiting callers.
func (l *RateLimiter) Queued() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.waiters)
}

func (l *RateLimiter) acquire(ctx context.Context) error {
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}

	l.mu.Lock()
	if l.active < l.max {
		l.active++
		l.mu.Unlock()
		return nil
	}
	if l.queueLimit > 0 && len(l.waiters) >= l.queueLimit {
		l.mu.Unlock()
		return batchErrors.New(ErrQueueFull).
			WithDetail("max_concurrent", l.max).
			WithDetail("queue_limit", l.queueLimit)
	}

	grant := make(chan struct{})
	l.waiters = append(l.waiters, grant)
	l.mu.Unlock()

	select {
	case <-grant:
		// Slot handed over by a releaser; active already accounts for us.
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		for i, w := range l.waiters {
			if w == grant {
				l.waiters = append(l.waiters[:i], l.waiters[i+1:]...)
				l.mu.Unlock()
				return context.Cause(ctx)
			}
		}
		l.mu.Unlock()
		// The grant raced in while we were leaving: pass the slot on.
		l.release()
		return context.Cause(ctx)
	}
}

func (l *RateLimiter) release() {
	l.mu.Lock()
	if len(l.waiters) > 0 {
		grant := l.waiters[0]
		l.waiters = l.waiters[1:]
		l.mu.Unlock()
		close(grant)
		return
	}
	l.active--
	l.mu.Unlock()
}
