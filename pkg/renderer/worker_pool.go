package renderer

import (
	"context"
	"fmt"
	"runtime"

	"github.com/df07/go-montecarlo-raytracer/pkg/core"
	"golang.org/x/sync/errgroup"
)

// RowBand is a contiguous run of image rows rendered as one unit of work.
// Each band owns the random stream derived from its seed, so the pixels it
// produces do not depend on which worker renders it.
type RowBand struct {
	ID   int   // Position of the band, top to bottom
	MinY int   // First row, inclusive
	MaxY int   // Last row, exclusive
	Seed int64 // Seed of the band's random stream
}

// Rows returns the number of rows in the band
func (b RowBand) Rows() int {
	return b.MaxY - b.MinY
}

// NewRowBands splits height rows into bands of rowsPerBand rows, the last
// band taking the remainder
func NewRowBands(height, rowsPerBand int, seed int64) []RowBand {
	if rowsPerBand < 1 {
		rowsPerBand = 1
	}

	var bands []RowBand
	for y := 0; y < height; y += rowsPerBand {
		id := len(bands)
		bands = append(bands, RowBand{
			ID:   id,
			MinY: y,
			MaxY: min(y+rowsPerBand, height),
			Seed: core.DeriveSeed(seed, id),
		})
	}
	return bands
}

// BandFunc renders one band on a worker's private state
type BandFunc func(ctx context.Context, band RowBand) (RenderStats, error)

// BandResult contains the result from rendering a band
type BandResult struct {
	WorkerID int
	Band     RowBand
	Stats    RenderStats
}

// WorkerPool manages parallel band rendering
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// A non-positive count uses one worker per CPU.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run hands every band to exactly one worker and blocks until all bands are
// done, a worker fails, or ctx is cancelled. newWorker is called once per
// worker, before any band starts, to build that worker's BandFunc. onResult
// is called from the calling goroutine as bands complete.
func (wp *WorkerPool) Run(ctx context.Context, bands []RowBand, newWorker func(workerID int) BandFunc, onResult func(BandResult)) error {
	tasks := make(chan RowBand, len(bands))
	for _, band := range bands {
		tasks <- band
	}
	close(tasks)

	results := make(chan BandResult, len(bands))
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < wp.numWorkers; i++ {
		workerID := i
		render := newWorker(workerID)
		g.Go(func() error {
			for band := range tasks {
				if err := gctx.Err(); err != nil {
					return err
				}
				stats, err := render(gctx, band)
				if err != nil {
					return fmt.Errorf("while rendering band %d: %w", band.ID, err)
				}
				results <- BandResult{WorkerID: workerID, Band: band, Stats: stats}
			}
			return nil
		})
	}

	var err error
	go func() {
		err = g.Wait()
		close(results)
	}()

	for result := range results {
		if onResult != nil {
			onResult(result)
		}
	}
	return err
}
