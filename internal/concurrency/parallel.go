package concurrency

import (
	"context"
	"fmt"
	"sync"
)

// ParallelOptions configures the worker pool.
type ParallelOptions struct {
	// MaxWorkers caps the number of concurrent workers.
	MaxWorkers int
}

func DefaultOptions() ParallelOptions {
	return ParallelOptions{
		MaxWorkers: 10,
	}
}

func (o ParallelOptions) workers(n int) int {
	w := o.MaxWorkers
	if w <= 0 {
		w = DefaultOptions().MaxWorkers
	}
	if w > n {
		w = n
	}
	return w
}

// ItemError ties an error to the position of the item that produced it.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string { return fmt.Sprintf("item %d: %v", e.Index, e.Err) }

func (e *ItemError) Unwrap() error { return e.Err }

// ProcessParallel runs itemFunc for every item on a bounded pool of workers.
// Results are returned in input order. Items not started before ctx is
// cancelled get an ItemError wrapping ctx.Err(). Errors are ordered by index.
func ProcessParallel[T any, R any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) (R, error),
) ([]R, []*ItemError) {
	if len(items) == 0 {
		return []R{}, nil
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))

	jobs := make(chan int, len(items))
	for i := range items {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < opts.workers(len(items)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				results[i], errs[i] = itemFunc(ctx, i, items[i])
			}
		}()
	}
	wg.Wait()

	return results, collect(errs)
}

// ForEach is ProcessParallel for side effects only.
func ForEach[T any](
	ctx context.Context,
	items []T,
	opts ParallelOptions,
	itemFunc func(ctx context.Context, index int, item T) error,
) []*ItemError {
	_, errs := ProcessParallel(ctx, items, opts, func(ctx context.Context, i int, item T) (struct{}, error) {
		return struct{}{}, itemFunc(ctx, i, item)
	})
	return errs
}

func collect(errs []error) []*ItemError {
	var out []*ItemError
	for i, err := range errs {
		if err != nil {
			out = append(out, &ItemError{Index: i, Err: err})
		}
	}
	return out
}
