package compute

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

type Pool struct {
	workers int
}

func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

func (p *Pool) Name() string { return fmt.Sprintf("pool(%d)", p.workers) }
func (p *Pool) Workers() int { return p.workers }

func (p *Pool) ForEach(n int, fn func(i int)) {
	if n <= 1 || p.workers == 1 {
		Serial{}.ForEach(n, fn)
		return
	}

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

// ParallelFor executes fn over contiguous chunks of [0, n). Ranges smaller
// than minChunk run inline.
func ParallelFor(n, minChunk, workers int, fn func(start, end int)) {
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if minChunk < 1 {
		minChunk = 1
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
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
