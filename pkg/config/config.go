package config

// Config aggregates the configuration of every subsystem.
type Config struct {
	Flow  FlowConfig
	Batch BatchConfig
	Retry RetryConfig
	Track TrackConfig
}

// Load reads the full configuration from the environment,
// falling back to defaults for anything unset.
func Load() Config {
	return Config{
		Flow:  loadFlowConfig(),
		Batch: loadBatchConfig(),
		Retry: loadRetryConfig(),
		Track: loadTrackConfig(),
	}
}
