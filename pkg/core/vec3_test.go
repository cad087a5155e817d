package core

import (
	"math"
	"testing"
)

func vecAlmostEqual(a, b Vec3, tolerance float64) bool {
	return a.Subtract(b).Length() <= tolerance
}

func TestVec3_BasicOperations(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		result   Vec3
		expected Vec3
	}{
		{"add", a.Add(b), NewVec3(5, -3, 9)},
		{"subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"multiply vec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"clamp", NewVec3(-0.5, 0.5, 1.5).Clamp(0, 0.999), NewVec3(0, 0.5, 0.999)},
		{"sqrt", NewVec3(0.25, 1, 0).Sqrt(), NewVec3(0.5, 1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !vecAlmostEqual(tt.result, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.result)
			}
		})
	}

	if d := a.Dot(b); d != 12 {
		t.Errorf("Expected dot 12, got %f", d)
	}
}

func TestVec3_Normalize(t *testing.T) {
	n := NewVec3(3, 4, 0).Normalize()
	if math.Abs(n.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", n.Length())
	}

	zero := Vec3{}.Normalize()
	if zero != (Vec3{}) {
		t.Errorf("Expected zero vector to stay zero, got %v", zero)
	}
}

func TestVec3_NearZero(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		expected bool
	}{
		{"zero", NewVec3(0, 0, 0), true},
		{"tiny", NewVec3(1e-9, -1e-9, 5e-10), true},
		{"negative large", NewVec3(-1, 0, 0), false},
		{"one component", NewVec3(0, 0, 1e-3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.NearZero(); got != tt.expected {
				t.Errorf("NearZero(%v) = %t, expected %t", tt.v, got, tt.expected)
			}
		})
	}
}

func TestReflect_Involution(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 1, 0),
		NewVec3(1, 1, 0).Normalize(),
		NewVec3(-0.3, 0.2, 0.9).Normalize(),
	}
	vectors := []Vec3{
		NewVec3(1, -1, 0),
		NewVec3(0.4, 2, -3),
		NewVec3(-1, -1, -1),
	}

	for _, n := range normals {
		for _, v := range vectors {
			twice := Reflect(Reflect(v, n), n)
			if !vecAlmostEqual(twice, v, 1e-12) {
				t.Errorf("Reflect twice about %v: expected %v, got %v", n, v, twice)
			}
		}
	}
}

func TestReflect_MirrorsAcrossNormal(t *testing.T) {
	reflected := Reflect(NewVec3(1, -1, 0), NewVec3(0, 1, 0))
	expected := NewVec3(1, 1, 0)
	if !vecAlmostEqual(reflected, expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, reflected)
	}
}

func TestRefract_UnitRatioPassesThrough(t *testing.T) {
	n := NewVec3(0, 1, 0)
	for _, dir := range []Vec3{
		NewVec3(1, -1, 0),
		NewVec3(0, -1, 0),
		NewVec3(0.2, -0.5, 0.7),
	} {
		uv := dir.Normalize()
		refracted := Refract(uv, n, 1.0)
		if !vecAlmostEqual(refracted, uv, 1e-9) {
			t.Errorf("Expected unchanged direction %v, got %v", uv, refracted)
		}
	}
}

func TestRefract_BendsTowardNormal(t *testing.T) {
	n := NewVec3(0, 1, 0)
	uv := NewVec3(1, -1, 0).Normalize()
	refracted := Refract(uv, n, 1.0/1.5)

	if math.Abs(refracted.Length()-1) > 1e-9 {
		t.Errorf("Expected unit refracted direction, got length %f", refracted.Length())
	}

	// sin(theta_t) = sin(45°) / 1.5
	expectedSin := math.Sin(math.Pi/4) / 1.5
	if math.Abs(refracted.X-expectedSin) > 1e-9 {
		t.Errorf("Expected tangential component %f, got %f", expectedSin, refracted.X)
	}
	if refracted.Y >= 0 {
		t.Errorf("Refracted ray should continue downward, got %v", refracted)
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 2, 3), NewVec3(0, 0, -2))
	got := ray.At(1.5)
	expected := NewVec3(1, 2, 0)
	if !vecAlmostEqual(got, expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}
