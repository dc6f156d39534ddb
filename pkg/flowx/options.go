package flowx

import "time"

type engineOptions struct {
	maxConcurrency  int
	taskTimeout     time.Duration
	retryEnabled    bool
	rollbackEnabled bool
	resultTask      string

	onTaskStart   func(TaskState)
	onTaskEnd     func(TaskState)
	onStateChange func(id string, from, to Status)
}

func defaultEngineOptions() engineOptions {
	return engineOptions{
		maxConcurrency:  4,
		taskTimeout:     30 * time.Second,
		retryEnabled:    true,
		rollbackEnabled: true,
	}
}

// Option is a functional option for configuring the engine.
type Option func(*engineOptions)

// WithMaxConcurrency bounds how many independent tasks may run at once.
// Values of 1 or less select the strictly sequential mode, which executes
// the topological order one task at a time.
func WithMaxConcurrency(n int) Option {
	return func(o *engineOptions) {
		o.maxConcurrency = n
	}
}

// WithTaskTimeout sets the default cap on a single attempt of any task.
// A task's own Timeout field overrides it. Zero disables the default cap.
func WithTaskTimeout(d time.Duration) Option {
	return func(o *engineOptions) {
		o.taskTimeout = d
	}
}

// WithRetry toggles per-task retries. When off, RetryAttempts is ignored
// and every task gets a single attempt.
func WithRetry(enabled bool) Option {
	return func(o *engineOptions) {
		o.retryEnabled = enabled
	}
}

// WithRollback toggles rollback execution for failed tasks.
func WithRollback(enabled bool) Option {
	return func(o *engineOptions) {
		o.rollbackEnabled = enabled
	}
}

// WithResultTask designates the task whose result becomes Result.Output.
// Without it the engine uses the single sink of the graph, or leaves
// Output nil when several sinks exist.
func WithResultTask(id string) Option {
	return func(o *engineOptions) {
		o.resultTask = id
	}
}

// WithOnTaskStart registers an observer invoked with a state snapshot just
// after a task transitions to running. In parallel mode observers may be
// invoked from several goroutines at once.
func WithOnTaskStart(fn func(TaskState)) Option {
	return func(o *engineOptions) {
		o.onTaskStart = fn
	}
}

// WithOnTaskEnd registers an observer invoked with a state snapshot once a
// task has settled (completed, failed or rolled back).
func WithOnTaskEnd(fn func(TaskState)) Option {
	return func(o *engineOptions) {
		o.onTaskEnd = fn
	}
}

// WithOnStateChange registers an observer for every status transition.
func WithOnStateChange(fn func(id string, from, to Status)) Option {
	return func(o *engineOptions) {
		o.onStateChange = fn
	}
}
