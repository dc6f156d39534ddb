package retryx

import "time"

// Backoff selects how the wait between attempts grows.
type Backoff string

const (
	// BackoffConstant waits the initial delay between every attempt
	BackoffConstant Backoff = "constant"
	// BackoffLinear grows the wait linearly with the attempt number
	BackoffLinear Backoff = "linear"
	// BackoffExponential multiplies the wait after every failure
	BackoffExponential Backoff = "exponential"
)

// ParseBackoff maps a config string to a Backoff, defaulting to exponential.
func ParseBackoff(s string) Backoff {
	switch s {
	case string(BackoffConstant), "fixed":
		return BackoffConstant
	case string(BackoffLinear):
		return BackoffLinear
	default:
		return BackoffExponential
	}
}

// Options holds the retry policy for a single Do call.
type Options struct {
	// MaxAttempts is the total number of invocations, first try included.
	MaxAttempts int

	// InitialDelay seeds the backoff schedule.
	InitialDelay time.Duration

	// MaxDelay caps the schedule. Zero means uncapped.
	MaxDelay time.Duration

	// Multiplier scales the delay after each failure (exponential only).
	Multiplier float64

	// Backoff selects the growth curve.
	Backoff Backoff

	// ShouldRetry decides whether a failed attempt is worth repeating.
	ShouldRetry func(err error, attempt int) bool

	// OnRetry observes each scheduled retry before its wait begins.
	OnRetry func(err error, attempt int, nextDelay time.Duration)
}

// DefaultOptions returns the policy used when no options are given.
func DefaultOptions() *Options {
	return &Options{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Backoff:      BackoffExponential,
		ShouldRetry:  DefaultShouldRetry,
	}
}

// Option configures a Do call.
type Option func(*Options)

// WithMaxAttempts sets the total invocation budget.
func WithMaxAttempts(n int) Option {
	return func(o *Options) {
		o.MaxAttempts = n
	}
}

// WithInitialDelay sets the first wait of the schedule.
func WithInitialDelay(d time.Duration) Option {
	return func(o *Options) {
		o.InitialDelay = d
	}
}

// WithMaxDelay caps every wait of the schedule.
func WithMaxDelay(d time.Duration) Option {
	return func(o *Options) {
		o.MaxDelay = d
	}
}

// WithMultiplier sets the exponential growth factor.
func WithMultiplier(f float64) Option {
	return func(o *Options) {
		o.Multiplier = f
	}
}

// WithBackoff selects the growth curve.
func WithBackoff(b Backoff) Option {
	return func(o *Options) {
		o.Backoff = b
	}
}

// WithShouldRetry replaces the retry predicate.
func WithShouldRetry(fn func(err error, attempt int) bool) Option {
	return func(o *Options) {
		o.ShouldRetry = fn
	}
}

// WithOnRetry registers an observer for scheduled retries.
func WithOnRetry(fn func(err error, attempt int, nextDelay time.Duration)) Option {
	return func(o *Options) {
		o.OnRetry = fn
	}
}
