package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

func TestDielectricBasicBehavior(t *testing.T) {
	glass := NewDielectric(1.5)

	rayDirection := core.NewVec3(1, -1, 0).Normalize() // 45-degree angle
	ray := core.Ray{Origin: core.NewVec3(-1, 1, 0), Direction: rayDirection}

	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: true,
		Material:  glass,
	}

	hasReflection := false
	hasRefraction := false

	for seed := int64(0); seed < 2000 && (!hasReflection || !hasRefraction); seed++ {
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(seed)))
		result, scattered := glass.Scatter(ray, hit, sampler)
		if !scattered {
			t.Fatal("Dielectric should always scatter")
		}
		if result.Attenuation != core.NewVec3(1, 1, 1) {
			t.Fatalf("Expected white attenuation, got %v", result.Attenuation)
		}

		if result.Scattered.Direction.Y > 0 {
			hasReflection = true
		} else {
			hasRefraction = true
		}
	}

	if !hasRefraction {
		t.Error("Expected to see refraction in at least some cases")
	}
	// Reflection probability at 45° air->glass is only ~5%
	if !hasReflection {
		t.Error("Expected to see reflection in at least some cases")
	}
}

func TestDielectricTotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Shallow ray leaving glass
	rayDirection := core.NewVec3(1, -0.1, 0).Normalize()
	ray := core.Ray{Origin: core.NewVec3(0, 0.1, 0), Direction: rayDirection}

	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 1, 0),
		T:         1.0,
		FrontFace: false,
		Material:  glass,
	}

	cosTheta := -rayDirection.Dot(hit.Normal)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
	if 1.5*sinTheta <= 1.0 {
		t.Fatalf("Test setup error: this angle should cause total internal reflection")
	}

	for i := 0; i < 10; i++ {
		// Even a sampler that never picks Schlick reflection must reflect
		result, scattered := glass.Scatter(ray, hit, fixedSampler{0.999999})
		if !scattered {
			t.Error("Dielectric should always scatter")
		}
		if result.Scattered.Direction.Y <= 0 {
			t.Errorf("Expected total internal reflection (ray going up), got %+v", result.Scattered.Direction)
		}
	}
}

func TestDielectric_UnitIndexPassesThrough(t *testing.T) {
	air := NewDielectric(1.0)

	for _, front := range []bool{true, false} {
		direction := core.NewVec3(0.3, -1, 0.2)
		ray := core.NewRay(core.NewVec3(-0.3, 1, -0.2), direction)
		hit := HitRecord{
			Point:     core.NewVec3(0, 0, 0),
			Normal:    core.NewVec3(0, 1, 0),
			FrontFace: front,
		}

		result, scattered := air.Scatter(ray, hit, fixedSampler{0.999})
		if !scattered {
			t.Fatal("Dielectric should always scatter")
		}

		expected := direction.Normalize()
		if result.Scattered.Direction.Subtract(expected).Length() > 1e-9 {
			t.Errorf("front=%t: expected pass-through direction %v, got %v", front, expected, result.Scattered.Direction)
		}
	}
}

func TestDielectric_RefractsTowardNormal(t *testing.T) {
	glass := NewDielectric(1.5)
	direction := core.NewVec3(1, -1, 0).Normalize()
	ray := core.NewRay(core.NewVec3(-1, 1, 0), direction)
	hit := HitRecord{Normal: core.NewVec3(0, 1, 0), FrontFace: true}

	result, _ := glass.Scatter(ray, hit, fixedSampler{0.999})
	out := result.Scattered.Direction

	// Snell: sin(θt) = sin(45°)/1.5
	expectedSin := math.Sqrt(0.5) / 1.5
	if math.Abs(out.X-expectedSin) > 1e-9 {
		t.Errorf("Expected sin(θt)=%f, got %f", expectedSin, out.X)
	}
	if out.Y >= 0 {
		t.Errorf("Refracted ray should continue into the glass, got %v", out)
	}
}

func TestReflectance(t *testing.T) {
	tests := []struct {
		name     string
		cosine   float64
		ratio    float64
		expected float64
	}{
		{"normal incidence air to glass", 1.0, 1.0 / 1.5, 0.04},
		{"grazing", 0.0, 1.0 / 1.5, 1.0},
		{"matched index normal incidence", 1.0, 1.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reflectance(tt.cosine, tt.ratio)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Reflectance(%f, %f) = %f, expected %f", tt.cosine, tt.ratio, got, tt.expected)
			}
		})
	}
}
