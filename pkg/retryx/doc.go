// Package retryx is a policy-driven retry engine with pluggable backoff
// curves and failure classification.
//
// # Basic use
//
// [Do] runs a function until it succeeds or the policy gives up:
//
//	cfg, err := retryx.Do(ctx, func(ctx context.Context) (*Config, error) {
//	    return loadRemoteConfig(ctx)
//	},
//	    retryx.WithMaxAttempts(5),
//	    retryx.WithInitialDelay(200*time.Millisecond),
//	)
//
// The first attempt runs immediately; each failure schedules a wait from
// the backoff curve before the next one. When every attempt has failed, Do
// returns the last error exactly as the function produced it, so sentinel
// checks with errors.Is keep working at the call site.
//
// # Backoff
//
// Three curves are built in. With initial delay i and multiplier m, the
// wait after failed attempt a is:
//
//	constant:     i
//	linear:       i * a
//	exponential:  i * m^(a-1)
//
// [WithMaxDelay] caps every wait. The schedule can be inspected directly
// with [DelayFor].
//
// # Classification
//
// Not every failure deserves a retry. [DefaultShouldRetry] refuses
// cancellations, validation errors, and anything whose message declares it
// permanent (fatal, unauthorized, forbidden, not found). Replace it with
// [WithShouldRetry] when the caller knows better; the predicate also sees
// the attempt number for budget-aware decisions.
//
// # Profiles
//
// [Network], [RateLimited], and [Immediate] are presets tuned for the
// common cases; they accept further options that override the preset.
//
// # Observability
//
// [WithOnRetry] observes every scheduled retry with the failure and the
// upcoming wait; the engine also logs each retry at debug level.
package retryx
