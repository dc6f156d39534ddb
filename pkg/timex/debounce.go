package timex

import (
	"sync"
	"time"
)

// ─── Debounce / Throttle ──────────────────────────────────────────────────────

// Debounce returns a wrapper around fn that delays invocation until wait has
// elapsed since the last call. Rapid call bursts collapse into a single
// trailing invocation.
func Debounce(wait time.Duration, fn func()) func() {
	var mu sync.Mutex
	var timer *time.Timer

	return func() {
		mu.Lock()
		defer mu.Unlock()

		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(wait, fn)
	}
}

// Throttle returns a wrapper around fn that invokes it at most once per
// interval. Calls inside the window are dropped.
func Throttle(interval time.Duration, fn func()) func() {
	var mu sync.Mutex
	var last time.Time

	return func() {
		mu.Lock()
		defer mu.Unlock()

		if time.Since(last) >= interval {
			last = time.Now()
			fn()
		}
	}
}
