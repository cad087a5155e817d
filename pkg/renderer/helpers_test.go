package renderer

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

var (
	testSky   = core.NewVec3(0.5, 0.7, 1.0)
	testWhite = core.NewVec3(1.0, 1.0, 1.0)
)

// testScene is a minimal Scene: a linear list of shapes and a fixed camera
type testScene struct {
	camera *Camera
	shapes []geometry.Hittable
}

func (s *testScene) GetCamera() *Camera { return s.camera }

func (s *testScene) GetBackgroundColors() (core.Vec3, core.Vec3) {
	return testSky, testWhite
}

func (s *testScene) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	for _, shape := range s.shapes {
		if hit, ok := shape.Hit(ray, tMin, tMax); ok {
			tMax = hit.T
			closest = hit
		}
	}
	return closest, closest != nil
}

func pinholeConfig(aspect float64) CameraConfig {
	return CameraConfig{
		LookFrom:    core.NewVec3(0, 0, 0),
		LookAt:      core.NewVec3(0, 0, -1),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        90,
		AspectRatio: aspect,
	}
}

// newSingleSphereScene puts one sphere of radius 0.5 at (0,0,-1) in front of a pinhole camera
func newSingleSphereScene(mat material.Material, aspect float64) *testScene {
	return &testScene{
		camera: NewCamera(pinholeConfig(aspect)),
		shapes: []geometry.Hittable{geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, mat)},
	}
}

func expectedBackground(direction core.Vec3) core.Vec3 {
	t := 0.5 * (direction.Normalize().Y + 1)
	return testWhite.Multiply(1 - t).Add(testSky.Multiply(t))
}

// fixedSampler returns the same value for every dimension
type fixedSampler struct {
	value float64
}

func (f fixedSampler) Get1D() float64 { return f.value }
func (f fixedSampler) Get2D() core.Vec2 {
	return core.NewVec2(f.value, f.value)
}
func (f fixedSampler) Get3D() core.Vec3 {
	return core.NewVec3(f.value, f.value, f.value)
}

// centeredSampler pins the pixel jitter and lens draws to the middle of their
// range and leaves scattering to a seeded stream
type centeredSampler struct {
	scatter core.Sampler
}

func newCenteredSampler(seed int64) centeredSampler {
	return centeredSampler{scatter: core.NewSeededSampler(seed)}
}

func (c centeredSampler) Get1D() float64   { return 0.5 }
func (c centeredSampler) Get2D() core.Vec2 { return core.NewVec2(0.5, 0.5) }
func (c centeredSampler) Get3D() core.Vec3 { return c.scatter.Get3D() }
