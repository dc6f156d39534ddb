// Package flowx executes workflows declared as dependency graphs of tasks.
//
// A workflow is a set of [Task] values registered on an [Engine]. Each task
// names the tasks it depends on; the engine validates the graph (unknown
// dependency ids and cycles reject the run before anything executes),
// computes a topological order, and drives every task through the lifecycle
// pending → running → completed, with failed, retrying and rolledback
// states along the failure paths.
//
// # Declaring a Workflow
//
//	engine := flowx.New(flowx.WithMaxConcurrency(4))
//
//	err := engine.AddTasks(
//	    flowx.Task{ID: "fetch", Run: fetchOrder},
//	    flowx.Task{ID: "charge", DependsOn: []string{"fetch"},
//	        Run:      chargeCard,
//	        Rollback: refundCard,
//	        RetryAttempts: 3, RetryDelay: time.Second,
//	    },
//	    flowx.Task{ID: "ship", DependsOn: []string{"charge"}, Run: createShipment},
//	)
//
//	result, err := engine.Execute(ctx, order)
//
// # Inputs and Outputs
//
// A task's Run receives an input resolved from its position in the graph:
// tasks with no dependencies receive the value passed to [Engine.Execute],
// a task with exactly one dependency receives that dependency's result, and
// a task with several dependencies receives a []any holding their results
// in DependsOn order.
//
// Result.Output is the value of the task designated with [WithResultTask],
// or of the graph's single sink when no designation was made. Graphs with
// several sinks leave Output nil; read individual values from
// Result.TaskStates or [Result.ResultOf].
//
// # Concurrency
//
// With [WithMaxConcurrency] above 1, every task waits only for its own
// dependencies to complete and then takes one of the bounded execution
// slots, so independent branches genuinely overlap. At 1 or below the
// engine runs the topological order strictly one task at a time, which
// keeps the execution order fully reproducible.
//
// # Failure, Retries and Rollback
//
// A failing task is retried up to its RetryAttempts with a constant
// RetryDelay between attempts (unless retries are disabled with
// [WithRetry]). Once attempts are exhausted, the task's Rollback runs with
// the same input the task received; rollback errors are logged and never
// replace the task's own error. The first unrecoverable failure terminates
// the run: in-flight tasks are cancelled through their context, tasks that
// have not started stay pending, and [Engine.Execute] returns the failing
// task's error exactly as the task produced it.
//
// # Asynchronous Runs
//
// [Engine.Go] starts a run in the background and returns a [Run] handle:
//
//	run := engine.Go(ctx, order)
//	select {
//	case <-run.Done():
//	case <-shutdown:
//	    run.Cancel(errors.New("shutting down"))
//	}
//	result, err := run.Wait()
//
// The engine may be reused for any number of runs, one at a time; the task
// set is frozen once the first run has started.
package flowx
