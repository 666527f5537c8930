// Package probe runs bounded-concurrency network checks over batches of
// URLs: a lightweight reachability check and a full-content metadata fetch.
// A batch never aborts because of a single item; every failure becomes a
// verdict.
package probe

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ProgressFunc is called after each completed item with a non-decreasing
// completed count ending at total. It runs on a worker goroutine and must
// not block.
type ProgressFunc func(done, total int)

// run drains a shared queue of items with a fixed set of workers, at most
// limit in flight at once, and returns exactly one result per item in no
// particular order.
func run[R any](ctx context.Context, items []string, limit int, work func(ctx context.Context, item string) R, onProgress ProgressFunc) []R {
	total := len(items)
	if total == 0 {
		return nil
	}
	if limit > total {
		limit = total
	}
	if limit < 1 {
		limit = 1
	}

	queue := make(chan string, total)
	for _, it := range items {
		queue <- it
	}
	close(queue)

	var (
		mu      sync.Mutex
		done    int
		results = make([]R, 0, total)
	)

	var g errgroup.Group
	for i := 0; i < limit; i++ {
		g.Go(func() error {
			for item := range queue {
				r := work(ctx, item)

				// progress is reported under the lock so the counts a
				// callback sees never go backwards
				mu.Lock()
				results = append(results, r)
				done++
				if onProgress != nil {
					onProgress(done, total)
				}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
