package helpers

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEach runs fn for every input with at most workers running at once and
// returns the results in input order. The first error cancels the rest.
func ForEach[T any](ctx context.Context, inputs []string, workers int, fn func(context.Context, string) (T, error)) ([]T, error) {
	results := make([]T, len(inputs))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(workers, 1))
	for i, input := range inputs {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := fn(ctx, input)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
