package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestRandomSampler_Range(t *testing.T) {
	sampler := NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 1000; i++ {
		v := sampler.Get1D()
		if v < 0 || v >= 1 {
			t.Fatalf("Get1D out of range: %f", v)
		}
		s := sampler.Get3D()
		for _, c := range []float64{s.X, s.Y, s.Z} {
			if c < 0 || c >= 1 {
				t.Fatalf("Get3D out of range: %v", s)
			}
		}
	}
}

func TestSeededSampler_Deterministic(t *testing.T) {
	a := NewSeededSampler(7)
	b := NewSeededSampler(7)
	for i := 0; i < 100; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatal("Samplers with the same seed should produce the same sequence")
		}
	}
}

func TestRandomInUnitSphere(t *testing.T) {
	sampler := NewSeededSampler(1)
	for i := 0; i < 1000; i++ {
		p := RandomInUnitSphere(sampler)
		if p.LengthSquared() >= 1.0 {
			t.Fatalf("Point outside unit sphere: %v", p)
		}
	}
}

func TestRandomUnitVector(t *testing.T) {
	sampler := NewSeededSampler(2)
	var sum Vec3
	const n = 20000
	for i := 0; i < n; i++ {
		v := RandomUnitVector(sampler)
		if math.Abs(v.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit vector, got length %f", v.Length())
		}
		sum = sum.Add(v)
	}

	// Uniform directions average out near the origin
	mean := sum.Multiply(1.0 / n)
	if mean.Length() > 0.05 {
		t.Errorf("Expected mean direction near zero, got %v", mean)
	}
}

func TestRandomInUnitDisk(t *testing.T) {
	sampler := NewSeededSampler(3)
	for i := 0; i < 1000; i++ {
		p := RandomInUnitDisk(sampler)
		if p.Z != 0 {
			t.Fatalf("Disk sample should lie in z=0 plane, got %v", p)
		}
		if p.LengthSquared() >= 1.0 {
			t.Fatalf("Point outside unit disk: %v", p)
		}
	}
}

// constantSampler returns the same value for every dimension
type constantSampler float64

func (c constantSampler) Get1D() float64 { return float64(c) }
func (c constantSampler) Get2D() Vec2    { return NewVec2(float64(c), float64(c)) }
func (c constantSampler) Get3D() Vec3    { return NewVec3(float64(c), float64(c), float64(c)) }

func TestRandomHelpers_ConstantSamplerTerminates(t *testing.T) {
	// 0.5 maps to the exact center, which RandomUnitVector cannot normalize;
	// 0.99 maps outside the unit sphere and disk every time
	for _, value := range []float64{0.5, 0.99} {
		sampler := constantSampler(value)

		if p := RandomInUnitSphere(sampler); p.LengthSquared() >= 1 {
			t.Errorf("%v: point outside unit sphere %v", value, p)
		}
		if p := RandomInUnitDisk(sampler); p.LengthSquared() >= 1 || p.Z != 0 {
			t.Errorf("%v: point outside unit disk %v", value, p)
		}
		if v := RandomUnitVector(sampler); math.Abs(v.Length()-1) > 1e-9 {
			t.Errorf("%v: expected unit vector, got %v", value, v)
		}
	}
}
