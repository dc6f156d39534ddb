// Package timex provides deadline and delay utilities with first-class
// context support: bounded execution via [WithTimeout], cancellable sleeps,
// managed ticker loops, cron schedules, and call-rate shaping with
// [Debounce] and [Throttle].
//
// All blocking helpers return the cancellation cause when their context
// fires, so callers can tell an abort from a deadline with
// errx.IsCancelled and errx.IsTimeout.
package timex
