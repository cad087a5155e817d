package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

var testMaterial = material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	tests := []struct {
		name           string
		radius         float64
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			radius:         1.0,
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit from inside",
			radius:         1.0,
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "negative radius flips outward normal",
			radius:         -1.0,
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "negative radius seen from inside",
			radius:         -1.0,
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "unnormalized direction",
			radius:         1.0,
			rayOrigin:      core.NewVec3(0, 0, 3),
			rayDirection:   core.NewVec3(0, 0, -2),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere := NewSphere(core.NewVec3(0, 0, 0), tt.radius, testMaterial)
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, 1000.0)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}

			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}

			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}

			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}

			if hit.Material != testMaterial {
				t.Errorf("Expected hit to carry the sphere material")
			}
		})
	}
}

func TestSphere_Hit_GlancingHit(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(1, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected glancing hit, but got miss")
	}

	expectedPoint := core.NewVec3(1, 0, 0)
	if hit.Point.Subtract(expectedPoint).Length() > 1e-9 {
		t.Errorf("Expected hit point %v, got %v", expectedPoint, hit.Point)
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	// tMax bound before the near surface
	if hit, isHit := sphere.Hit(ray, 0.001, 0.5); isHit {
		t.Errorf("Expected miss due to tMax bound, but got hit at t=%f", hit.T)
	}

	// tMin past both surfaces
	if hit, isHit := sphere.Hit(ray, 3.5, 1000.0); isHit {
		t.Errorf("Expected miss due to tMin bound, but got hit at t=%f", hit.T)
	}

	// tMin between the surfaces selects the far root
	hit, isHit := sphere.Hit(ray, 1.5, 1000.0)
	if !isHit {
		t.Fatal("Expected far surface hit")
	}
	if math.Abs(hit.T-3.0) > 1e-9 {
		t.Errorf("Expected t=3, got t=%f", hit.T)
	}

	// tMax is inclusive, tMin is exclusive
	if _, isHit := sphere.Hit(ray, 0.001, 1.0); !isHit {
		t.Error("Expected hit exactly at tMax")
	}
	if hit, isHit := sphere.Hit(ray, 1.0, 2.0); isHit {
		t.Errorf("Expected miss with root exactly at tMin, got t=%f", hit.T)
	}
}

func TestSphere_Hit_BehindOrigin(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 5), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1)); isHit {
		t.Errorf("Expected sphere behind the ray to be missed, got t=%f", hit.T)
	}
}

func TestSphere_Hit_RandomRaysOnSurface(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	sampler := core.NewRandomSampler(random)

	for i := 0; i < 500; i++ {
		center := core.NewVec3(random.Float64()*4-2, random.Float64()*4-2, random.Float64()*4-6)
		radius := 0.2 + random.Float64()
		if i%3 == 0 {
			radius = -radius
		}
		sphere := NewSphere(center, radius, testMaterial)

		origin := core.NewVec3(random.Float64()*2-1, random.Float64()*2-1, random.Float64()*2-1)
		target := center.Add(core.RandomInUnitSphere(sampler).Multiply(math.Abs(radius)))
		ray := core.NewRay(origin, target.Subtract(origin).Multiply(0.5+random.Float64()))

		hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
		if !isHit {
			continue
		}

		if d := hit.Point.Subtract(center).Length(); math.Abs(d-math.Abs(radius)) > 1e-9 {
			t.Fatalf("Hit point distance %f, expected radius %f", d, math.Abs(radius))
		}
		if math.Abs(hit.Normal.Length()-1) > 1e-9 {
			t.Fatalf("Expected unit normal, got length %f", hit.Normal.Length())
		}
		if hit.Normal.Dot(ray.Direction) > 0 {
			t.Fatalf("Normal %v should oppose ray %v", hit.Normal, ray.Direction)
		}

		outward := hit.Point.Subtract(center).Multiply(1.0 / radius)
		if hit.FrontFace != (ray.Direction.Dot(outward) < 0) {
			t.Fatalf("FrontFace %t disagrees with outward normal %v", hit.FrontFace, outward)
		}
	}
}
