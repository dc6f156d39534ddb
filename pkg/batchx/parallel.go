package batchx

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Abraxas-365/orquesta/pkg/retryx"
)

// ─── Parallel Fan-out ─────────────────────────────────────────────────────────

// Parallel runs fns with at most maxConcurrency of them in flight and
// returns their results in input order. The first failure cancels the
// remaining work and is returned as-is.
func Parallel[T any](ctx context.Context, maxConcurrency int, fns []func(context.Context) (T, error)) ([]T, error) {
	results := make([]T, len(fns))

	g, gctx := errgroup.WithContext(ctx)
	if maxConcurrency > 0 {
		g.SetLimit(maxConcurrency)
	}

	for i, fn := range fns {
		i, fn := i, fn
		g.Go(func() error {
			val, err := fn(gctx)
			if err != nil {
				return err
			}
			results[i] = val
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Settled is one outcome of ParallelSettled.
type Settled[T any] struct {
	Value T
	Err   error
}

// ParallelSettled runs fns like Parallel but never short-circuits: every
// function settles and the caller inspects each outcome.
func ParallelSettled[T any](ctx context.Context, maxConcurrency int, fns []func(context.Context) (T, error)) []Settled[T] {
	results := make([]Settled[T], len(fns))

	var g errgroup.Group
	if maxConcurrency > 0 {
		g.SetLimit(maxConcurrency)
	}

	for i, fn := range fns {
		i, fn := i, fn
		g.Go(func() error {
			val, err := fn(ctx)
			results[i] = Settled[T]{Value: val, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// ParallelRetry is Parallel with a retry policy wrapped around every
// function.
func ParallelRetry[T any](ctx context.Context, maxConcurrency int, fns []func(context.Context) (T, error), opts ...retryx.Option) ([]T, error) {
	wrapped := make([]func(context.Context) (T, error), len(fns))
	for i, fn := range fns {
		fn := fn
		wrapped[i] = func(ctx context.Context) (T, error) {
			return retryx.Do(ctx, fn, opts...)
		}
	}
	return Parallel(ctx, maxConcurrency, wrapped)
}
