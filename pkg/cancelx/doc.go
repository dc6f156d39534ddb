// Package cancelx provides a cancellation controller built on the standard
// context tree, for code that needs to cancel with a reason, observe
// cancellation, and fan the signal out to dependent work.
//
// # Controller
//
// A [Controller] owns a cancellable context. [Controller.Cancel] cancels it
// with a caller-supplied reason (or a canonical cancelled error when the
// reason is nil); the first call wins and later calls are no-ops.
// [Controller.Context] exposes the context to pass into any operation that
// should stop when the controller does, and [Controller.Err] reports the
// terminal reason once cancelled.
//
//	ctrl := cancelx.New()
//	go worker(ctrl.Context())
//
//	ctrl.OnCancel(func(reason error) {
//	    logx.WithError(reason).Warn("worker cancelled")
//	})
//
//	ctrl.Cancel(errors.New("user navigated away"))
//
// # Hierarchies
//
// [Controller.Child] derives a controller that is cancelled whenever its
// parent is, while cancelling the child leaves the parent untouched. This
// mirrors the context tree: cancellation only flows downwards.
//
// # Combining signals
//
// [Combine] merges several contexts into one that fires as soon as any
// input does, useful when an operation must stop on whichever of several
// conditions happens first.
//
// Use [IsCancellation] to distinguish cancellations from real failures
// when inspecting errors after the fact.
package cancelx
