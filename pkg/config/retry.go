package config

import "time"

// RetryConfig configures default retry behavior.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Backoff      string
}

func loadRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  getEnvInt("RETRYX_MAX_ATTEMPTS", 3),
		InitialDelay: getEnvDuration("RETRYX_INITIAL_DELAY", 100*time.Millisecond),
		MaxDelay:     getEnvDuration("RETRYX_MAX_DELAY", 30*time.Second),
		Multiplier:   getEnvFloat("RETRYX_MULTIPLIER", 2.0),
		Backoff:      getEnv("RETRYX_BACKOFF", "exponential"),
	}
}
