package config

import "time"

// FlowConfig configures the workflow engine.
type FlowConfig struct {
	MaxConcurrency  int
	TaskTimeout     time.Duration
	RetryEnabled    bool
	RollbackEnabled bool
}

func loadFlowConfig() FlowConfig {
	return FlowConfig{
		MaxConcurrency:  getEnvInt("FLOWX_MAX_CONCURRENCY", 4),
		TaskTimeout:     getEnvDuration("FLOWX_TASK_TIMEOUT", 30*time.Second),
		RetryEnabled:    getEnvBool("FLOWX_RETRY_ENABLED", true),
		RollbackEnabled: getEnvBool("FLOWX_ROLLBACK_ENABLED", true),
	}
}
