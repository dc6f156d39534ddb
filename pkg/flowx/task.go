package flowx

import (
	"context"
	"time"
)

// Status is the lifecycle state of a single task within a run.
type Status string

const (
	StatusPending    Status = "pending"
	StatusRunning    Status = "running"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusRetrying   Status = "retrying"
	StatusRolledBack Status = "rolledback"
)

// Task is one node of a workflow. ID is the handle other tasks use in
// DependsOn; Run receives the resolved input (see Engine.Execute) and its
// return value becomes the input of downstream tasks.
type Task struct {
	ID   string
	Name string

	Run func(ctx context.Context, input any) (any, error)

	// Rollback, when set, is invoked after Run has exhausted its retries,
	// receiving the same resolved input. It runs on a context detached from
	// the failing run so compensation is not cut short by the teardown.
	Rollback func(ctx context.Context, input any) error

	DependsOn []string

	// RetryAttempts is the total number of attempts (1 or 0 means a single
	// try). RetryDelay is the constant wait between attempts.
	RetryAttempts int
	RetryDelay    time.Duration

	// Timeout caps one attempt of Run. Zero inherits the engine's
	// per-task timeout; a negative value disables the cap for this task.
	Timeout time.Duration
}

// TaskState is the engine's bookkeeping for one task during a run. States
// are mutated only by the engine; callers read them from Result.TaskStates
// after the run has settled, or receive copies through callbacks while it
// is in flight.
type TaskState struct {
	ID         string
	Name       string
	Status     Status
	Input      any
	Result     any
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
	RetryCount int
	MaxRetries int
}

// Result is the outcome of one Engine.Execute call.
type Result struct {
	RunID      string
	Success    bool
	Output     any
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration

	// TaskStates holds the final state of every registered task, keyed by
	// task id. Tasks that never started remain pending.
	TaskStates map[string]*TaskState
}

// ResultOf returns the result value of the task with the given id and
// whether that task completed.
func (r *Result) ResultOf(id string) (any, bool) {
	st, ok := r.TaskStates[id]
	if !ok || st.Status != StatusCompleted {
		return nil, false
	}
	return st.Result, true
}

// StateOf returns the final state of the task with the given id.
func (r *Result) StateOf(id string) (*TaskState, bool) {
	st, ok := r.TaskStates[id]
	return st, ok
}
