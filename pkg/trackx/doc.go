// Package trackx watches resource lifetimes so leaks surface before they
// hurt.
//
// A [Tracker] is a ledger: code records acquisitions with [Tracker.Track]
// and their release with [Tracker.Release]. Whatever lingers is inspected
// by [Tracker.Sweep], directly or on a cadence via [Tracker.Start]. An
// entry held for five sweep intervals becomes a leak suspect; ten make it
// critical. Aggregate declared size is checked against warning and
// critical thresholds with callbacks for both. The tracker observes and
// reports, it never frees anything itself.
//
// The clock is injected (clockwork), so tests can age the ledger without
// waiting.
//
// [Cache] is a bounded TTL map that sheds the entry nearest to expiry
// when full, and [Disposer] gathers cleanup functions to run concurrently
// exactly once at teardown.
package trackx
