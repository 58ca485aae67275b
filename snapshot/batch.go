package snapshot

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/gdbscan/internal/workerpool"
)

// PutAll uploads every item concurrently through a fixed-size worker pool,
// sized for the I/O-bound nature of blob uploads rather than the CPU-bound
// static partitioning the neighbor and cluster packages use. It returns the
// first error encountered, after waiting for all in-flight uploads to
// finish.
func PutAll(ctx context.Context, store Store, items map[string][]byte, numWorkers int) error {
	pool := workerpool.New(numWorkers)
	defer pool.Close()

	var (
		mu       sync.Mutex
		firstErr error
	)
	recordErr := func(key string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = fmt.Errorf("snapshot: put %q: %w", key, err)
		}
	}

	var wg sync.WaitGroup
	for key, data := range items {
		key, data := key, data
		wg.Add(1)
		task := func() {
			defer wg.Done()
			if err := store.Put(ctx, key, data); err != nil {
				recordErr(key, err)
			}
		}
		if err := pool.Submit(ctx, task); err != nil {
			wg.Done()
			recordErr(key, err)
		}
	}
	wg.Wait()

	return firstErr
}
