package scene

import (
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// Default background gradient
var (
	SkyBlue = core.NewVec3(0.5, 0.7, 1.0)
	White   = core.NewVec3(1.0, 1.0, 1.0)
)

// Scene contains all the elements needed for rendering.
// Build it, call Preprocess, then treat it as read-only: concurrent Hit
// calls are safe because nothing mutates during rendering.
type Scene struct {
	Camera         *renderer.Camera
	Shapes         []geometry.Hittable // Objects in the scene, scanned in order
	TopColor       core.Vec3           // Background color straight up
	BottomColor    core.Vec3           // Background color straight down
	SamplingConfig renderer.SamplingConfig
	CameraConfig   renderer.CameraConfig
}

// New creates an empty scene with the default background and sampling settings
func New(cameraConfig renderer.CameraConfig) *Scene {
	return &Scene{
		Shapes:         make([]geometry.Hittable, 0),
		TopColor:       SkyBlue,
		BottomColor:    White,
		SamplingConfig: renderer.DefaultSamplingConfig(),
		CameraConfig:   cameraConfig,
	}
}

// Add appends a primitive to the scene
func (s *Scene) Add(shape geometry.Hittable) {
	s.Shapes = append(s.Shapes, shape)
}

// AddSphere is a shorthand for Add(geometry.NewSphere(...))
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) {
	s.Add(geometry.NewSphere(center, radius, mat))
}

// Hit returns the nearest intersection with any shape in (tMin, tMax]
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	hit, _, isHit := s.HitIndex(ray, tMin, tMax)
	return hit, isHit
}

// HitIndex is Hit that also reports the position in Shapes of the shape hit,
// or -1 on a miss
func (s *Scene) HitIndex(ray core.Ray, tMin, tMax float64) (*material.HitRecord, int, bool) {
	var closestHit *material.HitRecord
	closestIndex := -1
	closestSoFar := tMax

	// Shrinking tMax keeps later shapes from reporting hits behind a nearer one
	for i, shape := range s.Shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
			closestIndex = i
		}
	}

	return closestHit, closestIndex, closestHit != nil
}

// GetCamera returns the camera built by Preprocess
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetBackgroundColors returns the background gradient colors
func (s *Scene) GetBackgroundColors() (topColor, bottomColor core.Vec3) {
	return s.TopColor, s.BottomColor
}

// Preprocess validates the configuration and builds the camera.
// A zero aspect ratio is derived from the image size.
func (s *Scene) Preprocess() error {
	if err := s.SamplingConfig.Validate(); err != nil {
		return fmt.Errorf("invalid sampling config: %w", err)
	}

	if s.CameraConfig.AspectRatio == 0 {
		s.CameraConfig.AspectRatio = float64(s.SamplingConfig.Width) / float64(s.SamplingConfig.Height)
	}
	if err := s.CameraConfig.Validate(); err != nil {
		return fmt.Errorf("invalid camera config: %w", err)
	}

	s.Camera = renderer.NewCamera(s.CameraConfig)
	return nil
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}

// heightForAspect returns the image height matching width at aspect, at least 1
func heightForAspect(width int, aspect float64) int {
	return max(1, int(float64(width)/aspect))
}
