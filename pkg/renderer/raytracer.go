package renderer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// ShadowAcneEpsilon is the minimum hit distance accepted for any ray, so a
// scattered ray does not re-hit the surface it left due to rounding
const ShadowAcneEpsilon = 0.001

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int  // Image width in pixels
	Height          int  // Image height in pixels
	SamplesPerPixel int  // Number of rays per pixel
	MaxDepth        int  // Maximum ray bounce depth
	Gamma           bool // Apply gamma 2 (square root) before quantizing
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           400,
		Height:          225,
		SamplesPerPixel: 100,
		MaxDepth:        50,
		Gamma:           true,
	}
}

// MergeSamplingConfig overlays the non-zero numeric fields of override onto base.
// Gamma is always taken from base; callers set it explicitly.
func MergeSamplingConfig(base, override SamplingConfig) SamplingConfig {
	result := base
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Height != 0 {
		result.Height = override.Height
	}
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	return result
}

// Validate rejects configurations the renderer cannot run with
func (c SamplingConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	}
	return nil
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetBackgroundColors() (topColor, bottomColor core.Vec3)
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
}

// Raytracer computes pixel colors for a scene.
// It holds no mutable state, so one instance is shared by all workers.
type Raytracer struct {
	scene  Scene
	config SamplingConfig
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, config SamplingConfig) *Raytracer {
	return &Raytracer{
		scene:  scene,
		config: config,
	}
}

// Config returns the sampling configuration
func (rt *Raytracer) Config() SamplingConfig {
	return rt.config
}

// RayColor returns the light arriving along ray after at most depth bounces.
// The bounce chain is walked iteratively, carrying the product of the
// attenuations seen so far.
func (rt *Raytracer) RayColor(ray core.Ray, depth int, sampler core.Sampler) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)

	for ; depth > 0; depth-- {
		hit, isHit := rt.scene.Hit(ray, ShadowAcneEpsilon, math.Inf(1))
		if !isHit {
			return throughput.MultiplyVec(rt.backgroundGradient(ray))
		}

		scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
		if !didScatter {
			return core.Vec3{X: 0, Y: 0, Z: 0} // Material absorbed the ray
		}

		throughput = throughput.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	// Bounce limit exceeded, no more light is gathered
	return core.Vec3{X: 0, Y: 0, Z: 0}
}

// backgroundGradient returns a gradient color based on ray direction
func (rt *Raytracer) backgroundGradient(r core.Ray) core.Vec3 {
	topColor, bottomColor := rt.scene.GetBackgroundColors()

	unitDirection := r.Direction.Normalize()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return bottomColor.Multiply(1.0 - t).Add(topColor.Multiply(t))
}

// SamplePixel adds SamplesPerPixel jittered samples for image pixel (x, y),
// where y = 0 is the top row, to ps
func (rt *Raytracer) SamplePixel(x, y int, ps *PixelStats, sampler core.Sampler) {
	camera := rt.scene.GetCamera()

	// Viewport t runs bottom to top
	j := rt.config.Height - 1 - y
	sDiv := float64(max(rt.config.Width-1, 1))
	tDiv := float64(max(rt.config.Height-1, 1))

	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		jitter := sampler.Get2D()
		s := (float64(x) + jitter.X) / sDiv
		t := (float64(j) + jitter.Y) / tDiv

		ray := camera.GetRay(s, t, sampler)
		ps.AddSample(rt.RayColor(ray, rt.config.MaxDepth, sampler))
	}
}

// RenderBounds samples every pixel inside bounds into the shared pixel array.
// Callers must give concurrent invocations non-overlapping bounds.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler) RenderStats {
	stats := RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  rt.config.SamplesPerPixel,
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			ps := &pixelStats[y][x]
			before := ps.SampleCount
			rt.SamplePixel(x, y, ps, sampler)
			stats.TotalSamples += ps.SampleCount - before
		}
	}

	stats.finalize()
	return stats
}

// ColorToRGBA converts an averaged linear color to 8-bit channels:
// optional gamma 2, clamp to [0, 0.999], then scale by 256
func ColorToRGBA(colorVec core.Vec3, gamma bool) color.RGBA {
	if gamma {
		colorVec = colorVec.Clamp(0, math.Inf(1)).Sqrt()
	}
	colorVec = colorVec.Clamp(0.0, 0.999)

	return color.RGBA{
		R: uint8(256 * colorVec.X),
		G: uint8(256 * colorVec.Y),
		B: uint8(256 * colorVec.Z),
		A: 255,
	}
}
