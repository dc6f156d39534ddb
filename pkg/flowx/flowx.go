package flowx

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/Abraxas-365/orquesta/pkg/logx"
)

var log = logx.Component("flowx")

// ─── Engine ──────────────────────────────────────────────────────────────────

// Engine executes a dependency graph of tasks. Register tasks with AddTask,
// then call Execute (or Go for an asynchronous handle). The engine is
// reusable for repeated runs with fresh state, but drives only one run at a
// time, and the task set is frozen once the first run starts.
type Engine struct {
	opts engineOptions

	mu      sync.Mutex
	tasks   map[string]Task
	order   []string
	running bool
	frozen  bool
}

// New creates a workflow engine.
func New(options ...Option) *Engine {
	opts := defaultEngineOptions()
	for _, o := range options {
		o(&opts)
	}
	return &Engine{
		opts:  opts,
		tasks: make(map[string]Task),
	}
}

// AddTask registers a task. It fails when the task has no id or run
// function, when the id is already taken, or when the engine has already
// executed a run.
func (e *Engine) AddTask(t Task) error {
	if t.ID == "" || t.Run == nil {
		return flowErrors.New(ErrInvalidTask)
	}
	if t.Name == "" {
		t.Name = t.ID
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.frozen {
		return flowErrors.New(ErrFrozen).WithDetail("task_id", t.ID)
	}
	if _, exists := e.tasks[t.ID]; exists {
		return flowErrors.New(ErrDuplicateTask).WithDetail("task_id", t.ID)
	}

	e.tasks[t.ID] = t
	e.order = append(e.order, t.ID)
	return nil
}

// AddTasks registers several tasks, stopping at the first rejection.
func (e *Engine) AddTasks(tasks ...Task) error {
	for _, t := range tasks {
		if err := e.AddTask(t); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of registered tasks.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.tasks)
}

// Execute validates the graph and runs it to completion. The returned
// Result always carries the full per-task state map; on failure the error
// is the failing task's own error, unchanged, and tasks that never started
// remain pending. Validation failures reject before any task runs.
func (e *Engine) Execute(ctx context.Context, input any) (*Result, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, flowErrors.New(ErrAlreadyRunning)
	}
	tasks := make(map[string]Task, len(e.tasks))
	for id, t := range e.tasks {
		tasks[id] = t
	}
	order := slices.Clone(e.order)
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	if err := validate(tasks, order, e.opts.resultTask); err != nil {
		return nil, err
	}

	// The task set freezes only once a run has actually started, so a
	// failed validation still lets the caller repair the graph.
	e.mu.Lock()
	e.frozen = true
	e.mu.Unlock()

	r := newRun(tasks, order, e.opts, input)
	return r.execute(ctx)
}

// ─── Run handle ──────────────────────────────────────────────────────────────

// Run is an asynchronous handle to an in-flight workflow execution.
type Run struct {
	cancel context.CancelCauseFunc
	done   chan struct{}

	res *Result
	err error
}

// Go starts Execute in a goroutine and returns a handle to it.
func (e *Engine) Go(ctx context.Context, input any) *Run {
	runCtx, cancel := context.WithCancelCause(ctx)
	r := &Run{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(r.done)
		r.res, r.err = e.Execute(runCtx, input)
	}()
	return r
}

// Wait blocks until the run settles. Safe to call multiple times;
// subsequent calls return the same outcome.
func (r *Run) Wait() (*Result, error) {
	<-r.done
	return r.res, r.err
}

// Done returns a channel closed when the run has settled.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Cancel asks the run to stop with the given reason. A nil reason records
// the canonical cancellation cause. Cancellation is cooperative: tasks
// already in flight observe it through their context.
func (r *Run) Cancel(reason error) {
	r.cancel(reason)
}

// ─── Validation ──────────────────────────────────────────────────────────────

func validate(tasks map[string]Task, order []string, resultTask string) error {
	for _, id := range order {
		for _, dep := range tasks[id].DependsOn {
			if _, ok := tasks[dep]; !ok {
				return flowErrors.New(ErrUnknownDependency).
					WithDetail("task_id", id).
					WithDetail("depends_on", dep)
			}
		}
	}

	if resultTask != "" {
		if _, ok := tasks[resultTask]; !ok {
			return flowErrors.New(ErrUnknownResultTask).WithDetail("task_id", resultTask)
		}
	}

	// Cycle detection: DFS with a recursion stack.
	const (
		unvisited = iota
		onStack
		settled
	)
	color := make(map[string]int, len(tasks))

	var visit func(id string) error
	visit = func(id string) error {
		color[id] = onStack
		for _, dep := range tasks[id].DependsOn {
			switch color[dep] {
			case onStack:
				return flowErrors.New(ErrCycleDetected).
					WithDetail("task_id", id).
					WithDetail("depends_on", dep)
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		color[id] = settled
		return nil
	}

	for _, id := range order {
		if color[id] == unvisited {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// topoOrder returns a topological ordering of the (already validated)
// graph: DFS post-order seeded from registration order, so dependencies
// always precede their dependents.
func topoOrder(tasks map[string]Task, order []string) []string {
	visited := make(map[string]bool, len(tasks))
	out := make([]string, 0, len(tasks))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, dep := range tasks[id].DependsOn {
			visit(dep)
		}
		out = append(out, id)
	}

	for _, id := range order {
		visit(id)
	}
	return out
}

// sinks returns the ids of tasks no other task depends on, in
// registration order.
func sinks(tasks map[string]Task, order []string) []string {
	dependedOn := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		for _, dep := range t.DependsOn {
			dependedOn[dep] = true
		}
	}
	var out []string
	for _, id := range order {
		if !dependedOn[id] {
			out = append(out, id)
		}
	}
	return out
}

func newRunID() string {
	return uuid.NewString()
}
