package terrain

import (
	"runtime"
	"sync"
)

// shardCount returns how many shards forShards uses for n items.
func shardCount(n, workers int) int {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// forShards splits [0, n) into contiguous ranges and runs fn on each range in
// its own goroutine. Shard boundaries depend only on n and workers.
func forShards(n, workers int, fn func(shard, start, end int)) {
	shards := shardCount(n, workers)
	if shards == 1 {
		fn(0, 0, n)
		return
	}

	var wg sync.WaitGroup
	for s := range shards {
		start := s * n / shards
		end := (s + 1) * n / shards
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(s, start, end)
		}()
	}
	wg.Wait()
}
