package sheets

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// FetchAll fetches several sheets concurrently. The first failure cancels
// the remaining fetches.
func FetchAll(ctx context.Context, store Store, names ...string) (map[string][]Row, error) {
	var mu sync.Mutex
	result := make(map[string][]Row, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		g.Go(func() error {
			rows, err := store.Fetch(gctx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			result[name] = rows
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
