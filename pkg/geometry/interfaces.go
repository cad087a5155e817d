package geometry

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
)

// Hittable is anything a ray can intersect
type Hittable interface {
	// Hit returns the nearest intersection with tMin < t <= tMax
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)
}
