package renderer

import (
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to an io.Writer
type DefaultLogger struct {
	out io.Writer
}

// Printf implements core.Logger
func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Fprintf(dl.out, format, args...)
}

// NewDefaultLogger creates a logger writing to out
func NewDefaultLogger(out io.Writer) core.Logger {
	return &DefaultLogger{out: out}
}

// RenderConfig controls how the work is split across goroutines
type RenderConfig struct {
	RowsPerTile int   // Scanlines per unit of work
	NumWorkers  int   // Number of parallel workers (0 = use CPU count)
	Seed        int64 // Base seed; tiles derive their own streams from it
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		RowsPerTile: 4,
		NumWorkers:  0, // Auto-detect CPU count
		Seed:        42,
	}
}

// Renderer renders a full image in parallel
type Renderer struct {
	raytracer  *Raytracer
	config     RenderConfig
	workerPool *WorkerPool
	logger     core.Logger
}

// NewRenderer creates a renderer for scene. The sampling configuration is validated here.
func NewRenderer(scene Scene, sampling SamplingConfig, config RenderConfig, logger core.Logger) (*Renderer, error) {
	if err := sampling.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sampling config: %w", err)
	}
	if scene.GetCamera() == nil {
		return nil, fmt.Errorf("scene has no camera")
	}
	if logger == nil {
		logger = core.NopLogger{}
	}

	raytracer := NewRaytracer(scene, sampling)
	return &Renderer{
		raytracer:  raytracer,
		config:     config,
		workerPool: NewWorkerPool(raytracer, config.NumWorkers),
		logger:     logger,
	}, nil
}

// Render samples every pixel and returns the finished image, top row first.
// The result only depends on the scene, the sampling config, the seed and
// RowsPerTile.
func (r *Renderer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	sampling := r.raytracer.Config()
	width, height := sampling.Width, sampling.Height
	startTime := time.Now()

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	tiles := NewTileGrid(width, height, r.config.RowsPerTile, r.config.Seed)

	r.logger.Printf("Rendering %dx%d, %d samples/pixel, max depth %d (using %d workers)...\n",
		width, height, sampling.SamplesPerPixel, sampling.MaxDepth, r.workerPool.GetNumWorkers())

	var stats RenderStats
	remaining := height
	err := r.workerPool.Run(ctx, tiles, pixelStats, func(result TileResult) {
		stats.merge(result.Stats)
		remaining -= result.Tile.Bounds.Dy()
		r.logger.Printf("Scanlines remaining: %d\n", remaining)
	})
	if err != nil {
		return nil, RenderStats{}, fmt.Errorf("render aborted: %w", err)
	}

	img := r.assembleImage(pixelStats)

	stats.finalize()
	stats.Duration = time.Since(startTime)
	r.logger.Printf("Done in %v.\n", stats.Duration)

	return img, stats, nil
}

// assembleImage converts the averaged pixel colors into 8-bit channels
func (r *Renderer) assembleImage(pixelStats [][]PixelStats) *image.RGBA {
	sampling := r.raytracer.Config()
	img := image.NewRGBA(image.Rect(0, 0, sampling.Width, sampling.Height))

	for y := 0; y < sampling.Height; y++ {
		for x := 0; x < sampling.Width; x++ {
			img.SetRGBA(x, y, ColorToRGBA(pixelStats[y][x].GetColor(), sampling.Gamma))
		}
	}

	return img
}
