// Package settle runs independent branches concurrently and collects a
// value-or-error per branch. No branch can cancel or hide another's outcome.
package settle

import (
	"context"
	"fmt"
	"sync"
)

// Result is the settled outcome of one branch.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok reports whether the branch succeeded.
func (r Result[T]) Ok() bool {
	return r.Err == nil
}

// Run executes fn, converting a panic into an error result.
func Run[T any](ctx context.Context, fn func(context.Context) (T, error)) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = Result[T]{Err: fmt.Errorf("settle: branch panicked: %v", r)}
		}
	}()
	v, err := fn(ctx)
	return Result[T]{Value: v, Err: err}
}

// Pair runs fa and fb concurrently and waits for both to settle.
func Pair[A, B any](
	ctx context.Context,
	fa func(context.Context) (A, error),
	fb func(context.Context) (B, error),
) (Result[A], Result[B]) {
	var (
		wg sync.WaitGroup
		ra Result[A]
		rb Result[B]
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		ra = Run(ctx, fa)
	}()
	go func() {
		defer wg.Done()
		rb = Run(ctx, fb)
	}()
	wg.Wait()
	return ra, rb
}

// All runs every fn concurrently and returns results in input order.
func All[T any](ctx context.Context, fns ...func(context.Context) (T, error)) []Result[T] {
	out := make([]Result[T], len(fns))
	var wg sync.WaitGroup
	wg.Add(len(fns))
	for i, fn := range fns {
		go func(i int, fn func(context.Context) (T, error)) {
			defer wg.Done()
			out[i] = Run(ctx, fn)
		}(i, fn)
	}
	wg.Wait()
	return out
}
