package trackx

import (
	"context"
	"runtime"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Abraxas-365/orquesta/pkg/logx"
)

// ─── Model ────────────────────────────────────────────────────────────────────

// Resource is one tracked entry in the ledger.
type Resource struct {
	ID        string
	Name      string
	Size      int64
	TrackedAt time.Time

	// Stack holds the goroutine stack at Track time when capture is on,
	// so leak reports point at the acquisition site.
	Stack string
}

// Stats summarizes the ledger.
type Stats struct {
	Count     int
	TotalSize int64
}

// Report is the outcome of one sweep.
type Report struct {
	At        time.Time
	Count     int
	TotalSize int64

	// Suspects have been held for at least 5 sweep intervals.
	Suspects []Resource

	// Critical have been held for at least 10 sweep intervals.
	Critical []Resource

	OverWarn     bool
	OverCritical bool
}

// ─── Tracker ──────────────────────────────────────────────────────────────────

// Tracker is a ledger of live resources. Everything still tracked is, by
// definition, not yet released; entries that stay for many sweep intervals
// are reported as probable leaks. The tracker never releases anything on
// its own.
type Tracker struct {
	opts trackerOptions

	mu      sync.Mutex
	entries map[string]*Resource
}

// NewTracker creates a Tracker.
func NewTracker(opts ...TrackerOption) *Tracker {
	o := defaultTrackerOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Tracker{
		opts:    o,
		entries: make(map[string]*Resource),
	}
}

// Track records a resource and returns its id, generating one when id is
// empty. Re-tracking an existing id overwrites the entry and logs a
// warning, since it usually means a missing Release.
func (t *Tracker) Track(id, name string, size int64) string {
	if id == "" {
		id = uuid.New().String()
	}

	entry := &Resource{
		ID:        id,
		Name:      name,
		Size:      size,
		TrackedAt: t.opts.clock.Now(),
	}
	if t.opts.captureStack {
		entry.Stack = string(debug.Stack())
	}

	t.mu.Lock()
	_, existed := t.entries[id]
	t.entries[id] = entry
	t.mu.Unlock()

	if existed {
		logx.Component("trackx").
			WithFields(logx.Fields{"id": id, "name": name}).
			Warn("resource re-tracked without release")
	}
	return id
}

// Release removes a resource from the ledger. Releasing an unknown id is
// a harmless no-op returning false.
func (t *Tracker) Release(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.entries[id]; !ok {
		return false
	}
	delete(t.entries, id)
	return true
}

// Stats returns the current ledger totals.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Stats{Count: len(t.entries)}
	for _, r := range t.entries {
		s.TotalSize += r.Size
	}
	return s
}

// Entries returns a snapshot of the ledger, oldest first.
func (t *Tracker) Entries() []Resource {
	t.mu.Lock()
	out := make([]Resource, 0, len(t.entries))
	for _, r := range t.entries {
		out = append(out, *r)
	}
	t.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].TrackedAt.Equal(out[j].TrackedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].TrackedAt.Before(out[j].TrackedAt)
	})
	return out
}

// Sweep runs one detection cycle: aggregate size against the thresholds,
// then an age scan flagging entries held for 5 and 10 sweep intervals.
// Findings are logged and reported through the callbacks; nothing is
// released.
func (t *Tracker) Sweep() Report {
	now := t.opts.clock.Now()

	t.mu.Lock()
	report := Report{At: now, Count: len(t.entries)}
	for _, r := range t.entries {
		report.TotalSize += r.Size
		age := now.Sub(r.TrackedAt)
		switch {
		case age >= 10*t.opts.sweepInterval:
			report.Critical = append(report.Critical, *r)
		case age >= 5*t.opts.sweepInterval:
			report.Suspects = append(report.Suspects, *r)
		}
	}
	t.mu.Unlock()

	sortOldestFirst(report.Suspects)
	sortOldestFirst(report.Critical)

	report.OverWarn = t.opts.warnThreshold > 0 && report.TotalSize >= t.opts.warnThreshold
	report.OverCritical = t.opts.criticalThreshold > 0 && report.TotalSize >= t.opts.criticalThreshold

	switch {
	case report.OverCritical || len(report.Critical) > 0:
		logx.Component("trackx").
			WithFields(logx.Fields{
				"count":      report.Count,
				"total_size": report.TotalSize,
				"critical":   len(report.Critical),
				"suspects":   len(report.Suspects),
			}).
			Error("critical resource pressure")
		if t.opts.onCritical != nil {
			t.opts.onCritical(report)
		}
	case report.OverWarn || len(report.Suspects) > 0:
		logx.Component("trackx").
			WithFields(logx.Fields{
				"count":      report.Count,
				"total_size": report.TotalSize,
				"suspects":   len(report.Suspects),
			}).
			Warn("possible resource leak")
		if t.opts.onWarning != nil {
			t.opts.onWarning(report)
		}
	}

	if t.opts.gcOnSweep && (report.OverWarn || report.OverCritical) {
		runtime.GC()
	}
	return report
}

// Start runs Sweep on every sweep interval until ctx is cancelled.
func (t *Tracker) Start(ctx context.Context) {
	ticker := t.opts.clock.NewTicker(t.opts.sweepInterval)
	defer ticker.Stop()

	logx.Component("trackx").
		WithField("interval", t.opts.sweepInterval.String()).
		Debug("sweep loop started")

	for {
		select {
		case <-ctx.Done():
			logx.Component("trackx").Debug("sweep loop stopped")
			return
		case <-ticker.Chan():
			t.Sweep()
		}
	}
}

func sortOldestFirst(rs []Resource) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].TrackedAt.Equal(rs[j].TrackedAt) {
			return rs[i].ID < rs[j].ID
		}
		return rs[i].TrackedAt.Before(rs[j].TrackedAt)
	})
}

// ─── Options ──────────────────────────────────────────────────────────────────

type trackerOptions struct {
	clock             clockwork.Clock
	sweepInterval     time.Duration
	warnThreshold     int64
	criticalThreshold int64
	onWarning         func(Report)
	onCritical        func(Report)
	captureStack      bool
	gcOnSweep         bool
}

func defaultTrackerOptions() trackerOptions {
	return trackerOptions{
		clock:             clockwork.NewRealClock(),
		sweepInterval:     30 * time.Second,
		warnThreshold:     50 * 1024 * 1024,
		criticalThreshold: 100 * 1024 * 1024,
	}
}

// TrackerOption configures a Tracker.
type TrackerOption func(*trackerOptions)

// WithClock injects the clock, letting tests drive time deterministically.
func WithClock(c clockwork.Clock) TrackerOption {
	return func(o *trackerOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithSweepInterval sets the detection cycle period. The leak heuristics
// scale with it: 5 intervals makes a suspect, 10 makes it critical.
func WithSweepInterval(d time.Duration) TrackerOption {
	return func(o *trackerOptions) {
		if d > 0 {
			o.sweepInterval = d
		}
	}
}

// WithWarnThreshold sets the aggregate declared size that triggers a
// warning. Zero disables it.
func WithWarnThreshold(n int64) TrackerOption {
	return func(o *trackerOptions) {
		o.warnThreshold = n
	}
}

// WithCriticalThreshold sets the aggregate declared size that triggers
// the critical callback. Zero disables it.
func WithCriticalThreshold(n int64) TrackerOption {
	return func(o *trackerOptions) {
		o.criticalThreshold = n
	}
}

// WithOnWarning registers the warning callback.
func WithOnWarning(fn func(Report)) TrackerOption {
	return func(o *trackerOptions) {
		o.onWarning = fn
	}
}

// WithOnCritical registers the critical callback.
func WithOnCritical(fn func(Report)) TrackerOption {
	return func(o *trackerOptions) {
		o.onCritical = fn
	}
}

// WithCaptureStack records the acquisition stack on every Track.
func WithCaptureStack(on bool) TrackerOption {
	return func(o *trackerOptions) {
		o.captureStack = on
	}
}

// WithGCOnSweep asks the runtime for a collection when a sweep finds the
// ledger over a threshold. Best effort only.
func WithGCOnSweep(on bool) TrackerOption {
	return func(o *trackerOptions) {
		o.gcOnSweep = on
	}
}
