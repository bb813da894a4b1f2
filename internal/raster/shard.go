package raster

import (
	"runtime"

	"github.com/pbenner/threadpool"
)

// minRowsPerBand keeps tiny rasters on the calling goroutine.
const minRowsPerBand = 16

// forEachBand splits [0, rows) into contiguous bands and runs fn on each of
// them in a worker pool. Bands never overlap, so fn may write its output rows
// without locking.
func forEachBand(rows int, fn func(y0, y1 int)) {
	workers := runtime.GOMAXPROCS(0)
	if limit := rows / minRowsPerBand; workers > limit {
		workers = limit
	}
	if workers <= 1 {
		fn(0, rows)
		return
	}

	band := (rows + workers - 1) / workers
	pool := threadpool.NewThreadPool(workers, workers)
	defer pool.Stop()

	g := pool.NewJobGroup()
	for y0 := 0; y0 < rows; y0 += band {
		y1 := min(y0+band, rows)
		if err := pool.AddJob(g, func(pool threadpool.ThreadPool, erf func() error) error {
			fn(y0, y1)
			return nil
		}); err != nil {
			// the pool refused the job; finish this band inline
			fn(y0, y1)
		}
	}
	_ = pool.Wait(g)
}
