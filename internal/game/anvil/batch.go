package anvil

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// MergeAll runs Merge for every request with at most limit in flight.
// Results keep the order of reqs. The first invalid request cancels the rest.
func (e *Engine) MergeAll(ctx context.Context, reqs []Request, limit int) ([]Result, error) {
	results := make([]Result, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := e.Merge(reqs[i])
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
