package renderer

import (
	"context"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Tile represents a horizontal band of the image rendered as one unit of work
type Tile struct {
	ID      int             // Unique tile identifier, also its position top to bottom
	Bounds  image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	Sampler core.Sampler    // Tile-specific random stream for deterministic results
}

// tileSeed derives an independent seed for each tile so the image only depends
// on the render seed and the tiling, not on which worker picks up which tile
func tileSeed(seed int64, id int) int64 {
	// splitmix64 finalizer
	z := uint64(seed) + uint64(id+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}

// NewTileGrid splits the image into full-width bands of rowsPerTile scanlines
func NewTileGrid(width, height, rowsPerTile int, seed int64) []*Tile {
	if rowsPerTile <= 0 {
		rowsPerTile = 1
	}

	var tiles []*Tile
	for y0, id := 0, 0; y0 < height; y0, id = y0+rowsPerTile, id+1 {
		y1 := min(y0+rowsPerTile, height) // Don't exceed image bounds
		tiles = append(tiles, &Tile{
			ID:      id,
			Bounds:  image.Rect(0, y0, width, y1),
			Sampler: core.NewSeededSampler(tileSeed(seed, id)),
		})
	}
	return tiles
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	Tile  *Tile
	Stats RenderStats
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	raytracer  *Raytracer
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(raytracer *Raytracer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		raytracer:  raytracer,
		numWorkers: numWorkers,
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run renders every tile into pixelStats and calls onResult for each finished
// tile from the calling goroutine. It stops handing out tiles once ctx is done.
func (wp *WorkerPool) Run(ctx context.Context, tiles []*Tile, pixelStats [][]PixelStats, onResult func(TileResult)) error {
	g, ctx := errgroup.WithContext(ctx)

	taskQueue := make(chan *Tile)
	// Buffered for every tile so workers never wait on the collector
	resultQueue := make(chan TileResult, len(tiles))

	g.Go(func() error {
		defer close(taskQueue)
		for _, tile := range tiles {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case taskQueue <- tile:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < wp.numWorkers; i++ {
		g.Go(func() error {
			for tile := range taskQueue {
				if err := ctx.Err(); err != nil {
					return err
				}
				// Each tile has non-overlapping bounds, so writes are race free
				stats := wp.raytracer.RenderBounds(tile.Bounds, pixelStats, tile.Sampler)
				resultQueue <- TileResult{Tile: tile, Stats: stats}
			}
			return nil
		})
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- g.Wait()
		close(resultQueue)
	}()

	for result := range resultQueue {
		if onResult != nil {
			onResult(result)
		}
	}

	return <-errChan
}
