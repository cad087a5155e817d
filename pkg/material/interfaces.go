package material

import (
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// Kind tags which scattering rule a Material follows
type Kind uint8

const (
	KindLambertian Kind = iota + 1
	KindMetal
	KindDielectric
)

// String returns the lowercase name used in scene files
func (k Kind) String() string {
	switch k {
	case KindLambertian:
		return "lambertian"
	case KindMetal:
		return "metal"
	case KindDielectric:
		return "dielectric"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind maps a scene-file material name to its Kind
func ParseKind(name string) (Kind, error) {
	switch name {
	case "lambertian", "diffuse":
		return KindLambertian, nil
	case "metal":
		return KindMetal, nil
	case "dielectric", "glass":
		return KindDielectric, nil
	}
	return 0, fmt.Errorf("unknown material type %q", name)
}

// Material is a closed set of surface behaviours selected by Kind.
// Only the fields used by the kind are meaningful; a Material is immutable
// once built and is shared freely between goroutines.
type Material struct {
	Kind            Kind
	Albedo          core.Vec3 // Lambertian and Metal reflectance, each channel in [0,1]
	Fuzz            float64   // Metal roughness in [0,1]
	RefractiveIndex float64   // Dielectric index of refraction
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// Scatter produces the outgoing ray and attenuation for a ray hitting this material.
// It returns false when the ray is absorbed.
func (m Material) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	switch m.Kind {
	case KindLambertian:
		return scatterLambertian(m, hit, sampler)
	case KindMetal:
		return scatterMetal(m, rayIn, hit, sampler)
	case KindDielectric:
		return scatterDielectric(m, rayIn, hit, sampler)
	default:
		// Zero-value material absorbs everything
		return ScatterResult{}, false
	}
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit surface normal, always facing against the ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether the ray hit the outside of the surface
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face.
// outwardNormal must be unit length.
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
