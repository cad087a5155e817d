package scene

import (
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// defaultCameraConfig looks from the origin down -z with a 90° field of view
func defaultCameraConfig() renderer.CameraConfig {
	return renderer.CameraConfig{
		LookFrom: core.NewVec3(0, 0, 0),
		LookAt:   core.NewVec3(0, 0, -1),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     90.0,
		Aperture: 0.0, // Pinhole, everything in focus
	}
}

// newSceneWithOverrides builds an empty scene from a preset camera and any caller overrides
func newSceneWithOverrides(base renderer.CameraConfig, cameraOverrides []renderer.CameraConfig) *Scene {
	cameraConfig := base
	if len(cameraOverrides) > 0 {
		cameraConfig = renderer.MergeCameraConfig(base, cameraOverrides[0])
	}
	return New(cameraConfig)
}

// addDefaultWorld adds a yellow ground, a blue diffuse center sphere,
// a hollow glass sphere on the left and a gold metal sphere on the right
func addDefaultWorld(s *Scene) {
	ground := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	center := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	glass := material.NewDielectric(1.5)
	gold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.0)

	s.AddSphere(core.NewVec3(0, -100.5, -1), 100, ground)
	s.AddSphere(core.NewVec3(0, 0, -1), 0.5, center)
	s.AddSphere(core.NewVec3(-1, 0, -1), 0.5, glass)
	// Negative radius turns the inner sphere into the inside wall of the shell
	s.AddSphere(core.NewVec3(-1, 0, -1), -0.4, glass)
	s.AddSphere(core.NewVec3(1, 0, -1), 0.5, gold)
}

// NewDefaultScene creates the default scene: three spheres on a large ground sphere
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	s := newSceneWithOverrides(defaultCameraConfig(), cameraOverrides)
	addDefaultWorld(s)
	return s
}

// NewTwoSpheresScene creates a red and a blue diffuse sphere touching at the
// view axis, the classic field of view check
func NewTwoSpheresScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	s := newSceneWithOverrides(defaultCameraConfig(), cameraOverrides)

	radius := math.Cos(math.Pi / 4)
	s.AddSphere(core.NewVec3(-radius, 0, -1), radius, material.NewLambertian(core.NewVec3(0, 0, 1)))
	s.AddSphere(core.NewVec3(radius, 0, -1), radius, material.NewLambertian(core.NewVec3(1, 0, 0)))
	return s
}

// NewDepthOfFieldScene views the default world from above and to the side
// through a wide aperture focused on the center sphere
func NewDepthOfFieldScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	base := renderer.CameraConfig{
		LookFrom:      core.NewVec3(3, 3, 2),
		LookAt:        core.NewVec3(0, 0, -1),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20.0,
		Aperture:      2.0,
		FocusDistance: 0.0, // Auto-calculate: focus on LookAt
	}
	s := newSceneWithOverrides(base, cameraOverrides)
	addDefaultWorld(s)
	return s
}
