package cancelx_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Abraxas-365/orquesta/pkg/cancelx"
	"github.com/Abraxas-365/orquesta/pkg/errx"
)

func waitClosed(t *testing.T, ch <-chan struct{}, msg string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal(msg)
	}
}

// --- Controller tests ---

func TestController_CancelSetsReason(t *testing.T) {
	ctrl := cancelx.New()

	if ctrl.IsCancelled() {
		t.Fatal("new controller must not be cancelled")
	}
	if ctrl.Err() != nil {
		t.Fatalf("expected nil error before cancel, got %v", ctrl.Err())
	}

	reason := errors.New("user navigated away")
	ctrl.Cancel(reason)

	if !ctrl.IsCancelled() {
		t.Fatal("expected cancelled")
	}
	if !errors.Is(ctrl.Err(), reason) {
		t.Fatalf("expected reason to be retained, got %v", ctrl.Err())
	}
}

func TestController_FirstReasonWins(t *testing.T) {
	ctrl := cancelx.New()

	first := errors.New("first")
	ctrl.Cancel(first)
	ctrl.Cancel(errors.New("second"))

	if !errors.Is(ctrl.Err(), first) {
		t.Fatalf("expected first reason to win, got %v", ctrl.Err())
	}
}

func TestController_NilReasonBecomesCanonical(t *testing.T) {
	ctrl := cancelx.New()
	ctrl.Cancel(nil)

	if !errx.HasType(ctrl.Err(), errx.TypeCancelled) {
		t.Fatalf("expected typed cancellation, got %v", ctrl.Err())
	}
	if !cancelx.IsCancellation(ctrl.Err()) {
		t.Fatal("expected IsCancellation to match the canonical reason")
	}
}

func TestController_ListenersRunInOrderExactlyOnce(t *testing.T) {
	ctrl := cancelx.New()

	var mu sync.Mutex
	var order []int
	done := make(chan struct{})

	for i := 1; i <= 3; i++ {
		i := i
		ctrl.OnCancel(func(error) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	ctrl.OnCancel(func(error) { close(done) })

	ctrl.Cancel(nil)
	ctrl.Cancel(nil) // second cancel must not re-fire listeners

	waitClosed(t, done, "listeners never ran")

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("expected registration order [1 2 3], got %v", order)
	}
}

func TestController_ListenerAfterCancelFiresImmediately(t *testing.T) {
	ctrl := cancelx.New()
	reason := errors.New("already over")
	ctrl.Cancel(reason)

	var got error
	ctrl.OnCancel(func(r error) { got = r })

	if !errors.Is(got, reason) {
		t.Fatalf("expected immediate invocation with reason, got %v", got)
	}
}

func TestController_ListenerReceivesReason(t *testing.T) {
	ctrl := cancelx.New()
	reason := errors.New("timeout budget spent")

	done := make(chan struct{})
	var got error
	ctrl.OnCancel(func(r error) {
		got = r
		close(done)
	})

	ctrl.Cancel(reason)
	waitClosed(t, done, "listener never ran")

	if !errors.Is(got, reason) {
		t.Fatalf("expected listener to receive reason, got %v", got)
	}
}

// --- Hierarchy tests ---

func TestChild_FollowsParentCancellation(t *testing.T) {
	parent := cancelx.New()
	child := parent.Child()

	done := make(chan struct{})
	child.OnCancel(func(error) { close(done) })

	reason := errors.New("parent shutting down")
	parent.Cancel(reason)

	waitClosed(t, done, "child never observed parent cancellation")

	if !child.IsCancelled() {
		t.Fatal("expected child cancelled")
	}
	if !errors.Is(child.Err(), reason) {
		t.Fatalf("expected parent reason to propagate, got %v", child.Err())
	}
}

func TestChild_CancelDoesNotAffectParent(t *testing.T) {
	parent := cancelx.New()
	child := parent.Child()

	child.Cancel(errors.New("local abort"))

	if parent.IsCancelled() {
		t.Fatal("cancelling a child must not cancel the parent")
	}
	if !child.IsCancelled() {
		t.Fatal("expected child cancelled")
	}
}

func TestChild_OfCancelledParentIsBornCancelled(t *testing.T) {
	parent := cancelx.New()
	parent.Cancel(nil)

	child := parent.Child()
	if !child.IsCancelled() {
		t.Fatal("child of a cancelled parent must start cancelled")
	}
}

func TestNewWithParent_PlainContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ctrl := cancelx.NewWithParent(ctx)

	cancel()

	// Cancellation flows from the raw context into the controller.
	select {
	case <-ctrl.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("controller never observed parent context cancellation")
	}
}

// --- Combine tests ---

func TestCombine_FiresOnFirstInput(t *testing.T) {
	a := cancelx.New()
	b := cancelx.New()

	combined, release := cancelx.Combine(a.Context(), b.Context())
	defer release()

	reason := errors.New("a fired")
	a.Cancel(reason)

	select {
	case <-combined.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("combined context never fired")
	}
	if !errors.Is(context.Cause(combined), reason) {
		t.Fatalf("expected cause from the firing input, got %v", context.Cause(combined))
	}
}

func TestCombine_AlreadyCancelledInput(t *testing.T) {
	fired := cancelx.New()
	fired.Cancel(errors.New("pre-fired"))

	live := cancelx.New()

	combined, release := cancelx.Combine(live.Context(), fired.Context())
	defer release()

	select {
	case <-combined.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("combined context should reflect an already cancelled input")
	}
}
