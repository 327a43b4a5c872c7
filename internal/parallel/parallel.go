// Package parallel splits index ranges across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// For calls fn over contiguous, disjoint [start, end) ranges covering [0, n),
// using at most workers goroutines, and returns once every call has
// returned. workers <= 0 uses GOMAXPROCS.
func For(n, workers int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
