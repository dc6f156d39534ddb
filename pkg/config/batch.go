package config

import "time"

// BatchConfig configures the batch executor and rate limiter.
type BatchConfig struct {
	MaxConcurrency  int
	TaskTimeout     time.Duration
	ContinueOnError bool
	QueueLimit      int
}

func loadBatchConfig() BatchConfig {
	return BatchConfig{
		MaxConcurrency:  getEnvInt("BATCHX_MAX_CONCURRENCY", 4),
		TaskTimeout:     getEnvDuration("BATCHX_TASK_TIMEOUT", 30*time.Second),
		ContinueOnError: getEnvBool("BATCHX_CONTINUE_ON_ERROR", true),
		QueueLimit:      getEnvInt("BATCHX_QUEUE_LIMIT", 0),
	}
}
