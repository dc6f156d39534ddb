package timex

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// ─── Periodic ─────────────────────────────────────────────────────────────────

// PeriodicOptions configures a managed ticker loop.
type PeriodicOptions struct {
	// Interval between ticks. Required.
	Interval time.Duration

	// MaxDuration bounds the whole loop. Zero means unbounded.
	MaxDuration time.Duration

	// OnTick runs on every tick with the 1-based tick number.
	// Returning an error terminates the loop and propagates it.
	OnTick func(ctx context.Context, tick int) error
}

// Periodic runs opts.OnTick every opts.Interval until the loop's budget is
// spent, ctx is cancelled, or the callback fails.
//
// It returns nil when MaxDuration elapses, the cancellation cause when ctx
// fires, and the callback's error unchanged when a tick fails.
func Periodic(ctx context.Context, opts PeriodicOptions) error {
	if opts.Interval <= 0 {
		return timeErrors.New(ErrInvalidInterval).WithDetail("interval", opts.Interval.String())
	}
	if opts.OnTick == nil {
		return timeErrors.New(ErrMissingCallback)
	}
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}

	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if opts.MaxDuration > 0 {
		timer := time.NewTimer(opts.MaxDuration)
		defer timer.Stop()
		deadline = timer.C
	}

	tick := 0
	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case <-deadline:
			return nil
		case <-ticker.C:
			tick++
			if err := opts.OnTick(ctx, tick); err != nil {
				return err
			}
		}
	}
}

// ─── Cron ─────────────────────────────────────────────────────────────────────

// Schedule runs onTick on a standard 5-field cron schedule until ctx is
// cancelled (returns the cause) or the callback fails (returns its error).
// An invalid expression is rejected before the first tick.
func Schedule(ctx context.Context, expr string, onTick func(ctx context.Context) error) error {
	if onTick == nil {
		return timeErrors.New(ErrMissingCallback)
	}
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return timeErrors.NewWithCause(ErrInvalidSchedule, err).WithDetail("expr", expr)
	}

	for {
		next := sched.Next(time.Now())
		if err := SleepCtx(ctx, time.Until(next)); err != nil {
			return err
		}
		if err := onTick(ctx); err != nil {
			return err
		}
	}
}
