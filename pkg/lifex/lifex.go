// Package lifex coordinates application shutdown. A Coordinator collects
// named cleanup functions during startup and runs them in reverse
// registration order when Shutdown is called, so resources are released in
// the opposite order they were acquired. It is constructed and owned at the
// application's entry point and passed down explicitly; it installs no
// signal handlers and keeps no global state.
package lifex

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/orquesta/pkg/logx"
	"github.com/Abraxas-365/orquesta/pkg/timex"
)

var log = logx.Component("lifex")

type options struct {
	cleanupTimeout time.Duration
}

// Option is a functional option for configuring the coordinator.
type Option func(*options)

// WithCleanupTimeout bounds each individual cleanup function. Default 10s.
func WithCleanupTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.cleanupTimeout = d
		}
	}
}

type namedCleanup struct {
	name string
	fn   func(ctx context.Context) error
}

// Coordinator runs registered cleanups once, LIFO, when Shutdown is called.
type Coordinator struct {
	opts options

	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	cleanups     []namedCleanup
	shuttingDown bool
	done         chan struct{}
	result       error
	failures     int
}

// New creates a lifecycle coordinator.
func New(opts ...Option) *Coordinator {
	o := options{cleanupTimeout: 10 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		opts:   o,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// RegisterCleanup adds a cleanup to run during shutdown. Cleanups run in
// reverse registration order. Registration is rejected once shutdown has
// begun.
func (c *Coordinator) RegisterCleanup(name string, fn func(ctx context.Context) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shuttingDown {
		return lifeErrors.New(ErrShutdownStarted).WithDetail("cleanup", name)
	}
	c.cleanups = append(c.cleanups, namedCleanup{name: name, fn: fn})
	return nil
}

// Context returns a context cancelled the moment shutdown begins. Wire it
// into long-running loops so they wind down before their resources are
// cleaned up.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// ShuttingDown reports whether Shutdown has been called.
func (c *Coordinator) ShuttingDown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shuttingDown
}

// Failures returns how many cleanups reported an error. Meaningful once
// Shutdown has returned.
func (c *Coordinator) Failures() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures
}

// Shutdown runs every registered cleanup in reverse registration order.
// Each cleanup is bounded by the cleanup timeout; a failing or timed-out
// cleanup is logged and counted but never stops the remainder. When ctx
// expires before all cleanups have run, Shutdown stops and returns a
// shutdown-timeout error. Calling Shutdown again returns the first call's
// outcome once it is available.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	if c.shuttingDown {
		done := c.done
		c.mu.Unlock()
		<-done
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.result
	}
	c.shuttingDown = true
	cleanups := make([]namedCleanup, len(c.cleanups))
	copy(cleanups, c.cleanups)
	c.mu.Unlock()

	c.cancel()
	log.Infof("shutting down, %d cleanup(s) registered", len(cleanups))

	var result error
	failures := 0
	for i := len(cleanups) - 1; i >= 0; i-- {
		if ctx.Err() != nil {
			result = lifeErrors.NewWithCause(ErrShutdownTimeout, context.Cause(ctx)).
				WithDetail("remaining", i+1)
			break
		}
		if err := c.runCleanup(ctx, cleanups[i]); err != nil {
			failures++
		}
	}

	c.mu.Lock()
	c.result = result
	c.failures = failures
	c.mu.Unlock()
	close(c.done)

	if result != nil {
		log.WithError(result).Warn("shutdown aborted by deadline")
	} else {
		log.Infof("shutdown complete, %d cleanup failure(s)", failures)
	}
	return result
}

func (c *Coordinator) runCleanup(ctx context.Context, cl namedCleanup) error {
	_, err := timex.WithTimeout(ctx, c.opts.cleanupTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, cl.fn(ctx)
	})
	if err != nil {
		log.WithError(err).Warnf("cleanup %q failed", cl.name)
		return err
	}
	log.Debugf("cleanup %q done", cl.name)
	return nil
}
