package hookx

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Abraxas-365/orquesta/pkg/logx"
	"github.com/Abraxas-365/orquesta/pkg/timex"
)

// ─── Model ────────────────────────────────────────────────────────────────────

// Phase identifies where in an operation's life a hook runs.
type Phase string

const (
	// PhaseBefore runs ahead of the operation
	PhaseBefore Phase = "before"
	// PhaseAfter runs once the operation has succeeded
	PhaseAfter Phase = "after"
	// PhaseError runs when the operation has failed
	PhaseError Phase = "error"
)

// Invocation is what a hook observes about the running operation.
type Invocation struct {
	// Operation is the name given to Do or Wrap.
	Operation string

	// Phase the hook is running in.
	Phase Phase

	// Result carries the operation's value during the after phase.
	Result any

	// Err carries the operation's failure during the error phase.
	Err error
}

// Func is the hook callback.
type Func func(ctx context.Context, inv *Invocation) error

// Hook is a named callback attached to one phase.
type Hook struct {
	// Name identifies the hook in logs and errors.
	Name string

	// Priority orders hooks within a phase, highest first. Hooks with
	// equal priority keep registration order.
	Priority int

	// Timeout bounds a single invocation. Zero means unbounded.
	// An overrun counts as the hook failing.
	Timeout time.Duration

	// Critical makes the hook's failure abort the phase. Non-critical
	// hooks log their failure and let the chain continue.
	Critical bool

	// Fn is the callback. A nil Fn is skipped.
	Fn Func
}

// ─── Manager ──────────────────────────────────────────────────────────────────

// Manager keeps the hook chains for the three phases.
type Manager struct {
	mu     sync.RWMutex
	phases map[Phase][]Hook
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{phases: make(map[Phase][]Hook)}
}

// Before registers a hook ahead of operations.
func (m *Manager) Before(h Hook) *Manager { return m.add(PhaseBefore, h) }

// After registers a hook behind successful operations.
func (m *Manager) After(h Hook) *Manager { return m.add(PhaseAfter, h) }

// OnError registers a hook behind failed operations.
func (m *Manager) OnError(h Hook) *Manager { return m.add(PhaseError, h) }

// Count returns the number of hooks registered for a phase.
func (m *Manager) Count(phase Phase) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.phases[phase])
}

func (m *Manager) add(phase Phase, h Hook) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	chain := append(m.phases[phase], h)
	// Highest priority first; stable keeps registration order for ties.
	sort.SliceStable(chain, func(i, j int) bool {
		return chain[i].Priority > chain[j].Priority
	})
	m.phases[phase] = chain
	return m
}

func (m *Manager) snapshot(phase Phase) []Hook {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chain := m.phases[phase]
	out := make([]Hook, len(chain))
	copy(out, chain)
	return out
}

// ─── Execution ────────────────────────────────────────────────────────────────

// Do runs op with the manager's hooks around it.
//
// Before-hooks run first; a critical one failing aborts the call before op
// starts. On success, after-hooks observe the result; a critical after-hook
// failing turns the call into a failure. On op failure, error-hooks observe
// the error and the call returns op's error unchanged, whatever the hooks
// themselves do.
func Do[T any](ctx context.Context, m *Manager, operation string, op func(context.Context) (T, error)) (T, error) {
	var zero T

	if err := m.runPhase(ctx, PhaseBefore, &Invocation{Operation: operation, Phase: PhaseBefore}); err != nil {
		return zero, err
	}

	val, err := op(ctx)
	if err != nil {
		m.runErrorPhase(ctx, operation, err)
		return zero, err
	}

	if herr := m.runPhase(ctx, PhaseAfter, &Invocation{Operation: operation, Phase: PhaseAfter, Result: val}); herr != nil {
		return zero, herr
	}
	return val, nil
}

// Wrap returns op decorated with the manager's hooks.
func (m *Manager) Wrap(operation string, op func(context.Context) (any, error)) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		return Do(ctx, m, operation, op)
	}
}

func (m *Manager) runPhase(ctx context.Context, phase Phase, inv *Invocation) error {
	for _, h := range m.snapshot(phase) {
		err := m.runOne(ctx, h, inv)
		if err == nil {
			continue
		}
		if h.Critical {
			return hookErrors.NewWithCause(ErrHookFailed, err).
				WithDetail("hook", h.Name).
				WithDetail("phase", string(phase)).
				WithDetail("operation", inv.Operation)
		}
		logx.Component("hookx").
			WithError(err).
			WithFields(logx.Fields{"hook": h.Name, "phase": string(phase), "operation": inv.Operation}).
			Warn("hook failed, continuing chain")
	}
	return nil
}

// runErrorPhase never produces an error of its own: the operation's
// failure is what the caller must see. A critical error-hook failing only
// stops the remaining error-hooks.
func (m *Manager) runErrorPhase(ctx context.Context, operation string, opErr error) {
	inv := &Invocation{Operation: operation, Phase: PhaseError, Err: opErr}
	for _, h := range m.snapshot(PhaseError) {
		err := m.runOne(ctx, h, inv)
		if err == nil {
			continue
		}
		logx.Component("hookx").
			WithError(err).
			WithFields(logx.Fields{"hook": h.Name, "phase": "error", "operation": operation}).
			Warn("error hook failed")
		if h.Critical {
			return
		}
	}
}

func (m *Manager) runOne(ctx context.Context, h Hook, inv *Invocation) error {
	if h.Fn == nil {
		return nil
	}
	if h.Timeout > 0 {
		_, err := timex.WithTimeout(ctx, h.Timeout, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, h.Fn(ctx, inv)
		})
		return err
	}
	return h.Fn(ctx, inv)
}
