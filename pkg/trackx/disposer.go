package trackx

import (
	"sync"
	"sync/atomic"

	"github.com/Abraxas-365/orquesta/pkg/logx"
)

// ─── Disposer ─────────────────────────────────────────────────────────────────

// Disposer collects cleanup functions and runs them all, concurrently,
// exactly once. Individual failures are logged and counted but never stop
// the others; disposal must always finish.
type Disposer struct {
	mu       sync.Mutex
	cleanups []namedCleanup
	disposed bool
}

type namedCleanup struct {
	name string
	fn   func() error
}

// NewDisposer creates an empty Disposer.
func NewDisposer() *Disposer {
	return &Disposer{}
}

// Add registers a cleanup. Adding to an already disposed Disposer runs
// the cleanup immediately so the resource is never orphaned.
func (d *Disposer) Add(name string, fn func() error) {
	if fn == nil {
		return
	}

	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		runCleanup(namedCleanup{name: name, fn: fn})
		return
	}
	d.cleanups = append(d.cleanups, namedCleanup{name: name, fn: fn})
	d.mu.Unlock()
}

// Dispose runs every registered cleanup concurrently and returns how many
// failed. Subsequent calls are no-ops returning zero.
func (d *Disposer) Dispose() int {
	d.mu.Lock()
	if d.disposed {
		d.mu.Unlock()
		return 0
	}
	d.disposed = true
	cleanups := d.cleanups
	d.cleanups = nil
	d.mu.Unlock()

	var failures atomic.Int32
	var wg sync.WaitGroup
	for _, c := range cleanups {
		c := c
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !runCleanup(c) {
				failures.Add(1)
			}
		}()
	}
	wg.Wait()

	return int(failures.Load())
}

// Disposed reports whether Dispose has run.
func (d *Disposer) Disposed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disposed
}

func runCleanup(c namedCleanup) bool {
	if err := c.fn(); err != nil {
		logx.Component("trackx").
			WithError(err).
			WithField("cleanup", c.name).
			Warn("cleanup failed")
		return false
	}
	return true
}
