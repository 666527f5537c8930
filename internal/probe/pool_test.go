package probe

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBoundsConcurrency(t *testing.T) {
	const (
		n     = 10
		limit = 3
	)

	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf("item-%d", i)
	}

	var inFlight, maxInFlight int64
	work := func(ctx context.Context, item string) string {
		cur := atomic.AddInt64(&inFlight, 1)
		for {
			prev := atomic.LoadInt64(&maxInFlight)
			if cur <= prev || atomic.CompareAndSwapInt64(&maxInFlight, prev, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return item
	}

	results := run(context.Background(), items, limit, work, nil)

	require.Len(t, results, n)
	assert.LessOrEqual(t, atomic.LoadInt64(&maxInFlight), int64(limit))

	// one result per distinct input
	seen := make(map[string]bool, n)
	for _, r := range results {
		seen[r] = true
	}
	assert.Len(t, seen, n)
}

func TestRunProgressMonotonic(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	var mu sync.Mutex
	var calls []int
	onProgress := func(done, total int) {
		mu.Lock()
		calls = append(calls, done)
		mu.Unlock()
		assert.Equal(t, len(items), total)
	}

	work := func(ctx context.Context, item string) string { return item }
	run(context.Background(), items, 2, work, onProgress)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, len(items))
	for i := 1; i < len(calls); i++ {
		assert.GreaterOrEqual(t, calls[i], calls[i-1])
	}
	assert.Equal(t, len(items), calls[len(calls)-1])
}

func TestRunIsolatesItemFailures(t *testing.T) {
	items := []string{"ok-1", "boom", "ok-2"}
	work := func(ctx context.Context, item string) string {
		if item == "boom" {
			return "failed:" + item
		}
		return "ok:" + item
	}

	results := run(context.Background(), items, 2, work, nil)
	assert.Len(t, results, 3)
}

func TestRunEmptyAndOversizedLimit(t *testing.T) {
	work := func(ctx context.Context, item string) string { return item }

	assert.Empty(t, run(context.Background(), nil, 5, work, nil))
	assert.Len(t, run(context.Background(), []string{"x"}, 100, work, nil), 1)
	assert.Len(t, run(context.Background(), []string{"x", "y"}, 0, work, nil), 2)
}
