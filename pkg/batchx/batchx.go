package batchx

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Abraxas-365/orquesta/pkg/logx"
	"github.com/Abraxas-365/orquesta/pkg/timex"
)

// ─── Model ────────────────────────────────────────────────────────────────────

// Task is one unit of batch work.
type Task struct {
	// ID identifies the task in results. Empty gets a generated id.
	ID string

	// Name is a human label for logs and results.
	Name string

	// Priority orders execution, highest first. Ties keep registration
	// order.
	Priority int

	// Fn is the work. Required.
	Fn func(ctx context.Context) (any, error)
}

// TaskResult is the settled outcome of one task.
type TaskResult struct {
	TaskID     string
	Name       string
	Value      any
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
}

// Settled reports whether the task actually ran.
func (r TaskResult) Settled() bool {
	return !r.FinishedAt.IsZero()
}

// ─── Executor ─────────────────────────────────────────────────────────────────

// Executor runs a registered set of tasks in priority order, in parallel
// chunks of the configured concurrency. A chunk must settle completely
// before the next one starts, which keeps burst pressure on downstreams
// bounded and predictable.
type Executor struct {
	opts executorOptions

	mu      sync.Mutex
	tasks   []Task
	running bool
}

// NewExecutor creates an Executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	o := defaultExecutorOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Executor{opts: o}
}

// Add registers a task. Registration is rejected while a run is in
// flight.
func (e *Executor) Add(task Task) error {
	if task.Fn == nil {
		return batchErrors.New(ErrInvalidTask).WithDetail("name", task.Name)
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return batchErrors.New(ErrAlreadyRunning)
	}
	e.tasks = append(e.tasks, task)
	return nil
}

// AddFunc registers a task from a bare function.
func (e *Executor) AddFunc(name string, fn func(ctx context.Context) (any, error)) error {
	return e.Add(Task{Name: name, Fn: fn})
}

// Len returns the number of registered tasks.
func (e *Executor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.tasks)
}

// Execute runs every registered task and returns the settled results.
//
// Tasks are sorted by priority and partitioned into consecutive chunks of
// the configured concurrency; a chunk runs fully parallel and the next
// one waits for it to settle. Each task is bounded by the task timeout.
//
// With continue-on-error (the default) failures are collected in the
// results and the run always completes. Without it, the first failure
// aborts the run: its error is returned unchanged, the failing chunk
// still settles, and later chunks never start. In both cases the returned
// BatchResult covers exactly the tasks that ran.
func (e *Executor) Execute(ctx context.Context) (*BatchResult, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, batchErrors.New(ErrAlreadyRunning)
	}
	e.running = true
	tasks := make([]Task, len(e.tasks))
	copy(tasks, e.tasks)
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority > tasks[j].Priority
	})

	startedAt := time.Now()
	results := make([]TaskResult, len(tasks))

	logx.Component("batchx").
		WithFields(logx.Fields{"tasks": len(tasks), "concurrency": e.opts.maxConcurrency}).
		Debug("batch started")

	for start := 0; start < len(tasks); start += e.opts.maxConcurrency {
		if ctx.Err() != nil {
			return newBatchResult(results, startedAt), context.Cause(ctx)
		}

		end := min(start+e.opts.maxConcurrency, len(tasks))

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				results[i] = e.runTask(gctx, tasks[i])
				if results[i].Err != nil && !e.opts.continueOnError {
					return results[i].Err
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return newBatchResult(results, startedAt), err
		}
	}

	br := newBatchResult(results, startedAt)
	logx.Component("batchx").
		WithFields(logx.Fields{"succeeded": br.Succeeded, "failed": br.Failed, "duration": br.Duration.String()}).
		Debug("batch finished")
	return br, nil
}

func (e *Executor) runTask(ctx context.Context, task Task) TaskResult {
	res := TaskResult{TaskID: task.ID, Name: task.Name, StartedAt: time.Now()}

	val, err := timex.WithTimeout(ctx, e.opts.taskTimeout, task.Fn)
	res.FinishedAt = time.Now()
	res.Duration = res.FinishedAt.Sub(res.StartedAt)
	res.Value = val
	res.Err = err

	if err != nil {
		logx.Component("batchx").
			WithError(err).
			WithFields(logx.Fields{"task": task.Name, "task_id": task.ID}).
			Debug("task failed")
	}
	return res
}

// ─── Result ───────────────────────────────────────────────────────────────────

// BatchResult aggregates the settled outcomes of one Execute call.
type BatchResult struct {
	Results   []TaskResult
	Succeeded int
	Failed    int
	StartedAt time.Time
	Duration  time.Duration
}

// newBatchResult keeps only settled slots, so aborted runs report what
// actually happened.
func newBatchResult(results []TaskResult, startedAt time.Time) *BatchResult {
	br := &BatchResult{StartedAt: startedAt, Duration: time.Since(startedAt)}
	for _, r := range results {
		if !r.Settled() {
			continue
		}
		br.Results = append(br.Results, r)
		if r.Err != nil {
			br.Failed++
		} else {
			br.Succeeded++
		}
	}
	return br
}

// Errors returns the failures, in result order.
func (r *BatchResult) Errors() []error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errs
}
