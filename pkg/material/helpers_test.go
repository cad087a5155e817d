package material

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
)

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

// queueSampler replays a scripted list of 3D samples, then falls back to rng
type queueSampler struct {
	samples []core.Vec3
	rng     core.Sampler
}

func (q *queueSampler) Get1D() float64 { return q.rng.Get1D() }
func (q *queueSampler) Get2D() core.Vec2 {
	return q.rng.Get2D()
}
func (q *queueSampler) Get3D() core.Vec3 {
	if len(q.samples) > 0 {
		s := q.samples[0]
		q.samples = q.samples[1:]
		return s
	}
	return q.rng.Get3D()
}
