package flowx

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/Abraxas-365/orquesta/pkg/errx"
	"github.com/Abraxas-365/orquesta/pkg/retryx"
	"github.com/Abraxas-365/orquesta/pkg/timex"
)

const defaultRetryDelay = 100 * time.Millisecond

// run owns the mutable state of one Execute call.
type run struct {
	id    string
	tasks map[string]Task
	order []string
	opts  engineOptions
	input any

	mu     sync.Mutex
	states map[string]*TaskState
	done   map[string]chan struct{}

	failOnce sync.Once
	failure  error
	cancel   context.CancelCauseFunc
}

func newRun(tasks map[string]Task, order []string, opts engineOptions, input any) *run {
	r := &run{
		id:     newRunID(),
		tasks:  tasks,
		order:  order,
		opts:   opts,
		input:  input,
		states: make(map[string]*TaskState, len(tasks)),
		done:   make(map[string]chan struct{}, len(tasks)),
	}
	for id, t := range tasks {
		r.states[id] = &TaskState{
			ID:         id,
			Name:       t.Name,
			Status:     StatusPending,
			MaxRetries: r.attemptsFor(t),
		}
		r.done[id] = make(chan struct{})
	}
	return r
}

func (r *run) execute(ctx context.Context) (*Result, error) {
	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	r.cancel = cancel

	startedAt := time.Now()
	order := topoOrder(r.tasks, r.order)

	log.WithField("run_id", r.id).Debugf("starting run with %d tasks", len(order))

	if r.opts.maxConcurrency <= 1 {
		r.runSequential(runCtx, order)
	} else {
		r.runParallel(runCtx, order)
	}

	if r.failure == nil && runCtx.Err() != nil {
		r.failure = context.Cause(runCtx)
	}

	res := r.buildResult(startedAt)
	if r.failure != nil {
		log.WithError(r.failure).WithField("run_id", r.id).Debug("run failed")
		return res, r.failure
	}
	log.WithField("run_id", r.id).Debugf("run completed in %s", res.Duration)
	return res, nil
}

// ─── Drivers ─────────────────────────────────────────────────────────────────

// runSequential executes the topological order one task at a time. A
// failure stops the loop; tasks after it never start.
func (r *run) runSequential(ctx context.Context, order []string) {
	for _, id := range order {
		if ctx.Err() != nil {
			return
		}
		if err := r.runTask(ctx, id); err != nil {
			r.recordFailure(err)
			return
		}
	}
}

// runParallel starts one goroutine per task. Each waits for its
// dependencies' completion signals, then takes a semaphore slot, so
// independent branches overlap while total concurrency stays bounded.
func (r *run) runParallel(ctx context.Context, order []string) {
	sem := semaphore.NewWeighted(int64(r.opts.maxConcurrency))
	var wg sync.WaitGroup

	for _, id := range order {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer close(r.done[id])

			for _, dep := range r.tasks[id].DependsOn {
				select {
				case <-r.done[dep]:
				case <-ctx.Done():
					return
				}
				if r.statusOf(dep) != StatusCompleted {
					// The run is tearing down; leave this task pending.
					return
				}
			}

			if err := sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer sem.Release(1)

			if ctx.Err() != nil {
				return
			}
			if err := r.runTask(ctx, id); err != nil {
				r.recordFailure(err)
			}
		}()
	}

	wg.Wait()
}

// recordFailure keeps the first unrecoverable task error and cancels the
// run context with it so everything in flight winds down.
func (r *run) recordFailure(err error) {
	r.failOnce.Do(func() {
		r.failure = err
		r.cancel(err)
	})
}

// ─── Task execution ──────────────────────────────────────────────────────────

func (r *run) runTask(ctx context.Context, id string) error {
	t := r.tasks[id]
	st := r.states[id]
	input := r.resolveInput(t)

	r.mu.Lock()
	st.Input = input
	st.StartedAt = time.Now()
	r.mu.Unlock()

	r.transition(st, StatusRunning)
	if cb := r.opts.onTaskStart; cb != nil {
		cb(r.snapshot(st))
	}

	out, err := r.attempt(ctx, t, st, input)

	r.mu.Lock()
	st.FinishedAt = time.Now()
	r.mu.Unlock()

	if err == nil {
		r.mu.Lock()
		st.Result = out
		st.Err = nil
		r.mu.Unlock()
		r.transition(st, StatusCompleted)
		if cb := r.opts.onTaskEnd; cb != nil {
			cb(r.snapshot(st))
		}
		return nil
	}

	r.mu.Lock()
	st.Err = err
	r.mu.Unlock()
	r.transition(st, StatusFailed)
	log.WithError(err).Warnf("task %s failed after %d attempt(s)", id, st.RetryCount+1)

	if r.opts.rollbackEnabled && t.Rollback != nil {
		// Compensation runs detached from the dying run context.
		if rbErr := t.Rollback(context.WithoutCancel(ctx), input); rbErr != nil {
			log.WithError(rbErr).Errorf("rollback for task %s failed", id)
		} else {
			r.transition(st, StatusRolledBack)
		}
	}

	if cb := r.opts.onTaskEnd; cb != nil {
		cb(r.snapshot(st))
	}
	return err
}

// attempt runs one task through its retry policy. The returned error is
// the task's own final error, untouched.
func (r *run) attempt(ctx context.Context, t Task, st *TaskState, input any) (any, error) {
	invoke := func(ctx context.Context) (any, error) {
		r.noteAttemptStart(st)
		if timeout := r.timeoutFor(t); timeout > 0 {
			return timex.WithTimeout(ctx, timeout, func(ctx context.Context) (any, error) {
				return t.Run(ctx, input)
			})
		}
		return t.Run(ctx, input)
	}

	attempts := r.attemptsFor(t)
	if attempts <= 1 {
		return invoke(ctx)
	}

	delay := t.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}

	return retryx.Do(ctx, invoke,
		retryx.WithMaxAttempts(attempts),
		retryx.WithBackoff(retryx.BackoffConstant),
		retryx.WithInitialDelay(delay),
		retryx.WithShouldRetry(func(err error, attempt int) bool {
			return !errx.IsCancelled(err)
		}),
		retryx.WithOnRetry(func(err error, attempt int, next time.Duration) {
			r.mu.Lock()
			st.Err = err
			st.RetryCount++
			r.mu.Unlock()
			r.transition(st, StatusFailed)
			r.transition(st, StatusRetrying)
		}),
	)
}

// noteAttemptStart flips a retrying task back to running when its next
// attempt begins.
func (r *run) noteAttemptStart(st *TaskState) {
	r.mu.Lock()
	retrying := st.Status == StatusRetrying
	r.mu.Unlock()
	if retrying {
		r.transition(st, StatusRunning)
	}
}

// resolveInput implements the input convention: no dependencies receive
// the workflow input, a single dependency its result, several an ordered
// slice of their results.
func (r *run) resolveInput(t Task) any {
	switch len(t.DependsOn) {
	case 0:
		return r.input
	case 1:
		return r.resultValue(t.DependsOn[0])
	default:
		results := make([]any, len(t.DependsOn))
		for i, dep := range t.DependsOn {
			results[i] = r.resultValue(dep)
		}
		return results
	}
}

// ─── State bookkeeping ───────────────────────────────────────────────────────

func (r *run) transition(st *TaskState, to Status) {
	r.mu.Lock()
	from := st.Status
	st.Status = to
	r.mu.Unlock()
	if cb := r.opts.onStateChange; cb != nil {
		cb(st.ID, from, to)
	}
}

func (r *run) snapshot(st *TaskState) TaskState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *st
}

func (r *run) statusOf(id string) Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[id].Status
}

func (r *run) resultValue(id string) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[id].Result
}

func (r *run) attemptsFor(t Task) int {
	if !r.opts.retryEnabled || t.RetryAttempts <= 1 {
		return 1
	}
	return t.RetryAttempts
}

func (r *run) timeoutFor(t Task) time.Duration {
	switch {
	case t.Timeout > 0:
		return t.Timeout
	case t.Timeout < 0:
		return 0
	default:
		return r.opts.taskTimeout
	}
}

func (r *run) buildResult(startedAt time.Time) *Result {
	finishedAt := time.Now()
	res := &Result{
		RunID:      r.id,
		Success:    r.failure == nil,
		Err:        r.failure,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Duration:   finishedAt.Sub(startedAt),
		TaskStates: r.states,
	}
	if r.failure != nil {
		return res
	}

	if r.opts.resultTask != "" {
		res.Output = r.states[r.opts.resultTask].Result
		return res
	}
	if s := sinks(r.tasks, r.order); len(s) == 1 {
		res.Output = r.states[s[0]].Result
	}
	return res
}
