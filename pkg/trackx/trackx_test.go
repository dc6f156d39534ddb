package trackx_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Abraxas-365/orquesta/pkg/trackx"
)

// --- Tracker tests ---

func TestTracker_TrackReleaseStats(t *testing.T) {
	tr := trackx.NewTracker()

	id := tr.Track("", "db-conn", 1024)
	if id == "" {
		t.Fatal("expected a generated id")
	}
	tr.Track("sub-1", "subscription", 256)

	stats := tr.Stats()
	if stats.Count != 2 || stats.TotalSize != 1280 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if !tr.Release(id) {
		t.Fatal("expected release to report presence")
	}
	if tr.Release(id) {
		t.Fatal("double release must be a no-op")
	}
	if tr.Release("never-tracked") {
		t.Fatal("releasing an unknown id must be a no-op")
	}

	stats = tr.Stats()
	if stats.Count != 1 || stats.TotalSize != 256 {
		t.Fatalf("unexpected stats after release: %+v", stats)
	}
}

func TestTracker_RetrackOverwrites(t *testing.T) {
	tr := trackx.NewTracker()

	tr.Track("conn", "connection", 100)
	tr.Track("conn", "connection", 900)

	stats := tr.Stats()
	if stats.Count != 1 || stats.TotalSize != 900 {
		t.Fatalf("expected overwrite, got %+v", stats)
	}
}

func TestTracker_EntriesOldestFirst(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tr := trackx.NewTracker(trackx.WithClock(clock))

	tr.Track("old", "first", 1)
	clock.Advance(time.Second)
	tr.Track("new", "second", 1)

	entries := tr.Entries()
	if len(entries) != 2 || entries[0].ID != "old" || entries[1].ID != "new" {
		t.Fatalf("expected oldest first, got %+v", entries)
	}
}

func TestTracker_CaptureStack(t *testing.T) {
	tr := trackx.NewTracker(trackx.WithCaptureStack(true))
	tr.Track("r", "with-stack", 1)

	entries := tr.Entries()
	if len(entries) != 1 || entries[0].Stack == "" {
		t.Fatal("expected the acquisition stack to be recorded")
	}
}

func TestSweep_AgeHeuristics(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tr := trackx.NewTracker(
		trackx.WithClock(clock),
		trackx.WithSweepInterval(time.Minute),
		trackx.WithWarnThreshold(0),
		trackx.WithCriticalThreshold(0),
	)

	tr.Track("lingering", "listener", 10)

	report := tr.Sweep()
	if len(report.Suspects) != 0 || len(report.Critical) != 0 {
		t.Fatalf("fresh entries must not be flagged: %+v", report)
	}

	// Five sweep intervals make a suspect.
	clock.Advance(5 * time.Minute)
	report = tr.Sweep()
	if len(report.Suspects) != 1 || report.Suspects[0].ID != "lingering" {
		t.Fatalf("expected one suspect, got %+v", report)
	}
	if len(report.Critical) != 0 {
		t.Fatalf("not critical yet: %+v", report)
	}

	// Ten make it critical, and it leaves the suspect list.
	clock.Advance(5 * time.Minute)
	report = tr.Sweep()
	if len(report.Critical) != 1 || report.Critical[0].ID != "lingering" {
		t.Fatalf("expected one critical entry, got %+v", report)
	}
	if len(report.Suspects) != 0 {
		t.Fatalf("critical entries must not double as suspects: %+v", report)
	}
}

func TestSweep_SizeThresholds(t *testing.T) {
	var warnings, criticals int

	tr := trackx.NewTracker(
		trackx.WithWarnThreshold(100),
		trackx.WithCriticalThreshold(200),
		trackx.WithOnWarning(func(trackx.Report) { warnings++ }),
		trackx.WithOnCritical(func(trackx.Report) { criticals++ }),
	)

	tr.Track("a", "buffer", 60)
	tr.Track("b", "buffer", 60)

	report := tr.Sweep()
	if !report.OverWarn || report.OverCritical {
		t.Fatalf("expected warn only: %+v", report)
	}
	if warnings != 1 || criticals != 0 {
		t.Fatalf("expected one warning callback, got %d/%d", warnings, criticals)
	}

	tr.Track("c", "buffer", 100)

	report = tr.Sweep()
	if !report.OverCritical {
		t.Fatalf("expected critical: %+v", report)
	}
	if criticals != 1 {
		t.Fatalf("expected the critical callback, got %d", criticals)
	}
	if warnings != 1 {
		t.Fatalf("critical must not also fire the warning, got %d warnings", warnings)
	}
}

func TestStart_StopsOnCancel(t *testing.T) {
	tr := trackx.NewTracker(trackx.WithSweepInterval(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		tr.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancellation")
	}
}

func TestStart_SweepsOnTicks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	warned := make(chan trackx.Report, 1)

	tr := trackx.NewTracker(
		trackx.WithClock(clock),
		trackx.WithSweepInterval(time.Minute),
		trackx.WithWarnThreshold(0),
		trackx.WithCriticalThreshold(0),
		trackx.WithOnWarning(func(r trackx.Report) {
			select {
			case warned <- r:
			default:
			}
		}),
	)
	tr.Track("r", "socket", 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tr.Start(ctx)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer waitCancel()
	if err := clock.BlockUntilContext(waitCtx, 1); err != nil {
		t.Fatalf("sweep ticker never registered: %v", err)
	}

	// One tick after five intervals, so the aged entry is flagged.
	clock.Advance(5 * time.Minute)

	select {
	case report := <-warned:
		if len(report.Suspects) != 1 {
			t.Fatalf("expected one suspect, got %+v", report)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("sweep never ran on the tick")
	}
}

// --- Cache tests ---

func TestCache_SetGet(t *testing.T) {
	c := trackx.NewCache[string](10, time.Minute)

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Fatalf("expected hit with v, got %q/%v", got, ok)
	}

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss for unknown key")
	}
}

func TestCache_ExpiryOnRead(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := trackx.NewCache[int](10, 50*time.Millisecond, trackx.WithCacheClock(clock))

	c.Set("k", 1)

	clock.Advance(50*time.Millisecond + time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry must be deleted on read, len=%d", c.Len())
	}
}

func TestCache_FullEvictsSoonestExpiring(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := trackx.NewCache[string](2, 30*time.Minute, trackx.WithCacheClock(clock))

	c.SetTTL("durable", "a", time.Hour)
	c.SetTTL("fleeting", "b", time.Minute)
	c.Set("incoming", "c")

	if _, ok := c.Get("fleeting"); ok {
		t.Fatal("expected the soonest-expiring entry to be evicted")
	}
	if _, ok := c.Get("durable"); !ok {
		t.Fatal("durable entry should survive")
	}
	if _, ok := c.Get("incoming"); !ok {
		t.Fatal("incoming entry should be stored")
	}
	if c.Len() != 2 {
		t.Fatalf("expected len 2, got %d", c.Len())
	}
}

func TestCache_UpdateExistingKeyNeverEvicts(t *testing.T) {
	c := trackx.NewCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 3) // update in place

	if c.Len() != 2 {
		t.Fatalf("updating must not evict, len=%d", c.Len())
	}
	if got, _ := c.Get("a"); got != 3 {
		t.Fatalf("expected updated value, got %d", got)
	}
	if _, ok := c.Get("b"); !ok {
		t.Fatal("sibling entry must survive an update")
	}
}

func TestCache_JanitorEvictsExpired(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := trackx.NewCache[int](10, 10*time.Millisecond,
		trackx.WithCacheClock(clock),
		trackx.WithJanitorInterval(time.Minute),
	)

	c.Set("stale", 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Janitor(ctx)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer waitCancel()
	if err := clock.BlockUntilContext(waitCtx, 1); err != nil {
		t.Fatalf("janitor ticker never registered: %v", err)
	}

	clock.Advance(time.Minute)

	deadline := time.Now().Add(2 * time.Second)
	for c.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("janitor never evicted, len=%d", c.Len())
		}
		time.Sleep(time.Millisecond)
	}
}

// --- Disposer tests ---

func TestDisposer_RunsAllCleanupsOnce(t *testing.T) {
	d := trackx.NewDisposer()

	var ran atomic.Int32
	for i := 0; i < 3; i++ {
		d.Add("cleanup", func() error {
			ran.Add(1)
			return nil
		})
	}

	if failures := d.Dispose(); failures != 0 {
		t.Fatalf("expected no failures, got %d", failures)
	}
	if ran.Load() != 3 {
		t.Fatalf("expected 3 cleanups, got %d", ran.Load())
	}

	// Second disposal must not re-run anything.
	if failures := d.Dispose(); failures != 0 {
		t.Fatalf("expected idempotent dispose, got %d failures", failures)
	}
	if ran.Load() != 3 {
		t.Fatalf("cleanups re-ran: %d", ran.Load())
	}
	if !d.Disposed() {
		t.Fatal("expected disposed state")
	}
}

func TestDisposer_CountsFailuresButFinishes(t *testing.T) {
	d := trackx.NewDisposer()

	var ran atomic.Int32
	d.Add("ok", func() error { ran.Add(1); return nil })
	d.Add("broken", func() error { ran.Add(1); return errors.New("close failed") })
	d.Add("also-ok", func() error { ran.Add(1); return nil })

	if failures := d.Dispose(); failures != 1 {
		t.Fatalf("expected 1 failure, got %d", failures)
	}
	if ran.Load() != 3 {
		t.Fatalf("a failing cleanup must not stop the others, ran=%d", ran.Load())
	}
}

func TestDisposer_RunsConcurrently(t *testing.T) {
	d := trackx.NewDisposer()

	var active, peak atomic.Int32
	for i := 0; i < 4; i++ {
		d.Add("slow", func() error {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(30 * time.Millisecond)
			active.Add(-1)
			return nil
		})
	}

	d.Dispose()

	if peak.Load() < 2 {
		t.Fatalf("expected concurrent cleanups, peak was %d", peak.Load())
	}
}

func TestDisposer_AddAfterDisposeRunsImmediately(t *testing.T) {
	d := trackx.NewDisposer()
	d.Dispose()

	ran := false
	d.Add("late", func() error {
		ran = true
		return nil
	})

	if !ran {
		t.Fatal("late cleanup must run immediately on a disposed Disposer")
	}
}
