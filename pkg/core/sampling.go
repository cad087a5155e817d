package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
	Get3D() Vec3
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator seeded with seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Get3D returns three random float64 values in [0, 1)
func (r *RandomSampler) Get3D() Vec3 {
	return NewVec3(r.random.Float64(), r.random.Float64(), r.random.Float64())
}

// maxRejections bounds the rejection loops below. A sampler that keeps
// producing rejected points (a scripted or constant one) gets a fallback
// value instead of hanging the caller.
const maxRejections = 64

// RandomInUnitSphere generates a random point strictly inside the unit sphere
// by rejection sampling the [-1,1]³ cube. Falls back to the center.
func RandomInUnitSphere(sampler Sampler) Vec3 {
	for i := 0; i < maxRejections; i++ {
		s := sampler.Get3D()
		p := NewVec3(2*s.X-1, 2*s.Y-1, 2*s.Z-1)
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
	return Vec3{}
}

// RandomUnitVector generates a random direction on the unit sphere
func RandomUnitVector(sampler Sampler) Vec3 {
	for i := 0; i < maxRejections; i++ {
		p := RandomInUnitSphere(sampler)
		// Points too close to the origin normalize badly
		if p.LengthSquared() > 1e-160 {
			return p.Normalize()
		}
	}

	// Map a 2D sample straight onto the sphere
	u := sampler.Get2D()
	z := 1 - 2*u.X
	r := math.Sqrt(math.Max(0, 1-z*z))
	phi := 2 * math.Pi * u.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// RandomInUnitDisk generates a random point in the z=0 unit disk (for depth of field).
// Falls back to the disk center.
func RandomInUnitDisk(sampler Sampler) Vec3 {
	for i := 0; i < maxRejections; i++ {
		s := sampler.Get2D()
		p := NewVec3(2*s.X-1, 2*s.Y-1, 0)
		if p.LengthSquared() < 1.0 {
			return p
		}
	}
	return Vec3{}
}
