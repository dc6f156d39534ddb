// Package batchx executes sets of independent tasks with bounded
// concurrency and collects structured results.
//
// # Executor
//
// An [Executor] takes registered tasks, orders them by priority, and runs
// them in consecutive chunks the width of the configured concurrency:
//
//	exec := batchx.NewExecutor(
//	    batchx.WithMaxConcurrency(3),
//	    batchx.WithTaskTimeout(5*time.Second),
//	)
//	exec.AddFunc("thumbnails", renderThumbnails)
//	exec.AddFunc("metadata", extractMetadata)
//
//	res, err := exec.Execute(ctx)
//
// Every task is bounded by the task timeout, failures are captured per
// task, and [BatchResult.Summary] reports the latency distribution of the
// run (p50/p95/p99) from an HDR histogram.
//
// A chunk settles fully before the next one starts. That stepwise shape is
// deliberate: it bounds burst pressure when the tasks hit shared
// downstreams. When the workload only needs a concurrency ceiling, use
// [Parallel] or [ParallelSettled], which stream work through a limit
// instead.
//
// # Rate limiting
//
// [RateLimiter] admits a fixed number of concurrent operations and parks
// the overflow in a strict FIFO queue, with an optional queue bound that
// rejects callers when full. Each finishing operation hands its slot to
// the queue head, so admission order is arrival order.
package batchx
