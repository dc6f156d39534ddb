package cancelx

import (
	"context"
	"sync"

	"github.com/Abraxas-365/orquesta/pkg/errx"
)

// ─── Controller ───────────────────────────────────────────────────────────────

// Controller owns a cancellable context and lets callers cancel it with a
// reason, observe cancellation, and derive child controllers that follow
// the parent's fate.
type Controller struct {
	ctx    context.Context
	cancel context.CancelCauseFunc

	mu        sync.Mutex
	listeners []func(reason error)
}

// New creates a root Controller.
func New() *Controller {
	return NewWithParent(context.Background())
}

// NewWithParent creates a Controller whose context descends from parent.
// Cancellation of the parent context cancels the controller; cancelling
// the controller never affects the parent.
func NewWithParent(parent context.Context) *Controller {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancelCause(parent)
	c := &Controller{ctx: ctx, cancel: cancel}

	// One AfterFunc drives every listener so they run in registration
	// order, exactly once, whether the signal came from Cancel or from
	// an ancestor context.
	context.AfterFunc(ctx, c.fire)
	return c
}

// Cancel cancels the controller with the given reason. A nil reason becomes
// the canonical cancellation error. Only the first call has any effect.
func (c *Controller) Cancel(reason error) {
	if reason == nil {
		reason = cancelErrors.New(ErrCancelled)
	}
	c.cancel(reason)
}

// IsCancelled reports whether the controller has been cancelled,
// directly or through an ancestor.
func (c *Controller) IsCancelled() bool {
	return c.ctx.Err() != nil
}

// Err returns nil while the controller is live, and the cancellation
// reason permanently afterwards.
func (c *Controller) Err() error {
	if c.ctx.Err() == nil {
		return nil
	}
	return context.Cause(c.ctx)
}

// Context returns the controller's context. This is the abort signal to
// pass into every operation that should stop when the controller cancels.
func (c *Controller) Context() context.Context {
	return c.ctx
}

// Done returns a channel closed when the controller is cancelled.
func (c *Controller) Done() <-chan struct{} {
	return c.ctx.Done()
}

// OnCancel registers a listener invoked with the cancellation reason.
// Listeners run in registration order. Registering on an already
// cancelled controller invokes the listener synchronously.
func (c *Controller) OnCancel(fn func(reason error)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	// The lock serializes against fire's snapshot: a listener is either
	// appended before the snapshot or invoked here, never both.
	if c.ctx.Err() != nil {
		c.mu.Unlock()
		fn(context.Cause(c.ctx))
		return
	}
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Child creates a controller that is cancelled whenever this one is.
// A child of an already cancelled controller is born cancelled.
func (c *Controller) Child() *Controller {
	return NewWithParent(c.ctx)
}

func (c *Controller) fire() {
	reason := context.Cause(c.ctx)
	c.mu.Lock()
	listeners := c.listeners
	c.listeners = nil
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(reason)
	}
}

// ─── Combine ──────────────────────────────────────────────────────────────────

// Combine returns a context cancelled as soon as any of the inputs is,
// carrying the first input's cause. An input that is already cancelled
// makes the combined context start out cancelled. The returned
// CancelFunc releases the watchers and must be called when the combined
// signal is no longer needed.
func Combine(ctxs ...context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(context.Background())

	stops := make([]func() bool, 0, len(ctxs))
	for _, in := range ctxs {
		in := in
		stops = append(stops, context.AfterFunc(in, func() {
			cancel(context.Cause(in))
		}))
	}

	// AfterFunc fires asynchronously for inputs that were already done;
	// sweep them here so the combined context reflects them on return.
	for _, in := range ctxs {
		if in.Err() != nil {
			cancel(context.Cause(in))
			break
		}
	}

	release := func() {
		cancel(context.Canceled)
		for _, stop := range stops {
			stop()
		}
	}
	return ctx, release
}

// ─── Classification ───────────────────────────────────────────────────────────

// IsCancellation reports whether err represents a cancellation, from a
// Controller reason, a plain context.Canceled, or any typed cancelled
// error.
func IsCancellation(err error) bool {
	return errx.IsCancelled(err)
}
