package lifex_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Abraxas-365/orquesta/pkg/errx"
	"github.com/Abraxas-365/orquesta/pkg/lifex"
)

// --- Shutdown tests ---

func TestShutdown_RunsCleanupsLIFO(t *testing.T) {
	c := lifex.New()

	var order []string
	for _, name := range []string{"db", "cache", "listener"} {
		name := name
		if err := c.RegisterCleanup(name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		}); err != nil {
			t.Fatalf("register failed: %v", err)
		}
	}

	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"listener", "cache", "db"}
	if len(order) != 3 {
		t.Fatalf("expected 3 cleanups, got %v", order)
	}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("expected reverse registration order %v, got %v", want, order)
		}
	}
}

func TestShutdown_IsIdempotent(t *testing.T) {
	c := lifex.New()

	var runs atomic.Int32
	_ = c.RegisterCleanup("once", func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown must return the first outcome, got %v", err)
	}
	if runs.Load() != 1 {
		t.Fatalf("cleanups must run exactly once, ran %d times", runs.Load())
	}
}

func TestShutdown_FailureNeverAbortsRemainder(t *testing.T) {
	c := lifex.New()

	var survivorRan atomic.Bool
	_ = c.RegisterCleanup("survivor", func(ctx context.Context) error {
		survivorRan.Store(true)
		return nil
	})
	_ = c.RegisterCleanup("broken", func(ctx context.Context) error {
		return errors.New("flush failed")
	})

	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("individual failures must not fail the shutdown: %v", err)
	}
	if !survivorRan.Load() {
		t.Fatal("a failing cleanup must not stop the remainder")
	}
	if c.Failures() != 1 {
		t.Fatalf("expected 1 counted failure, got %d", c.Failures())
	}
}

func TestShutdown_BoundsEachCleanup(t *testing.T) {
	c := lifex.New(lifex.WithCleanupTimeout(20 * time.Millisecond))

	var fastRan atomic.Bool
	_ = c.RegisterCleanup("fast", func(ctx context.Context) error {
		fastRan.Store(true)
		return nil
	})
	_ = c.RegisterCleanup("hangs", func(ctx context.Context) error {
		select {
		case <-time.After(5 * time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !fastRan.Load() {
		t.Fatal("cleanups after a timed-out one must still run")
	}
	if c.Failures() != 1 {
		t.Fatalf("a timed-out cleanup counts as a failure, got %d", c.Failures())
	}
}

func TestShutdown_DeadlineStopsRemaining(t *testing.T) {
	c := lifex.New()

	var lastRan atomic.Bool
	_ = c.RegisterCleanup("never-reached", func(ctx context.Context) error {
		lastRan.Store(true)
		return nil
	})
	_ = c.RegisterCleanup("slow", func(ctx context.Context) error {
		select {
		case <-time.After(5 * time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := c.Shutdown(ctx)
	var xe *errx.Error
	if !errors.As(err, &xe) || xe.Code != "LIFEX_SHUTDOWN_TIMEOUT" {
		t.Fatalf("expected LIFEX_SHUTDOWN_TIMEOUT, got %v", err)
	}
	if lastRan.Load() {
		t.Fatal("cleanups after the deadline must not run")
	}

	// The second call reports the same aborted outcome.
	if err2 := c.Shutdown(context.Background()); !errors.Is(err2, err) {
		t.Fatalf("expected the first outcome again, got %v", err2)
	}
}

// --- Registration tests ---

func TestRegisterCleanup_RejectedAfterShutdown(t *testing.T) {
	c := lifex.New()
	_ = c.Shutdown(context.Background())

	err := c.RegisterCleanup("late", func(ctx context.Context) error { return nil })
	if !errx.HasType(err, errx.TypeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

// --- Context tests ---

func TestContext_CancelledWhenShutdownBegins(t *testing.T) {
	c := lifex.New()

	select {
	case <-c.Context().Done():
		t.Fatal("context must be live before shutdown")
	default:
	}

	observed := make(chan struct{})
	_ = c.RegisterCleanup("probe", func(ctx context.Context) error {
		select {
		case <-c.Context().Done():
			close(observed)
		default:
		}
		return nil
	})

	_ = c.Shutdown(context.Background())

	select {
	case <-observed:
	case <-time.After(2 * time.Second):
		t.Fatal("coordinator context must be cancelled before cleanups run")
	}

	if !c.ShuttingDown() {
		t.Fatal("ShuttingDown must report true after shutdown")
	}
}
