package batchx

import "time"

type executorOptions struct {
	maxConcurrency  int
	taskTimeout     time.Duration
	continueOnError bool
}

func defaultExecutorOptions() executorOptions {
	return executorOptions{
		maxConcurrency:  4,
		taskTimeout:     30 * time.Second,
		continueOnError: true,
	}
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*executorOptions)

// WithMaxConcurrency sets the chunk width: how many tasks run at once.
func WithMaxConcurrency(n int) ExecutorOption {
	return func(o *executorOptions) {
		if n > 0 {
			o.maxConcurrency = n
		}
	}
}

// WithTaskTimeout bounds every task invocation.
func WithTaskTimeout(d time.Duration) ExecutorOption {
	return func(o *executorOptions) {
		if d > 0 {
			o.taskTimeout = d
		}
	}
}

// WithContinueOnError selects between collecting failures (true, the
// default) and aborting the run on the first one (false).
func WithContinueOnError(b bool) ExecutorOption {
	return func(o *executorOptions) {
		o.continueOnError = b
	}
}
