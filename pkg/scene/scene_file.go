package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// Vec3Cfg is a vector written as a three element JSON array
type Vec3Cfg [3]float64

// Vec returns the core vector
func (v Vec3Cfg) Vec() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// CameraCfg is the camera block of a scene file
type CameraCfg struct {
	LookFrom      Vec3Cfg `json:"lookFrom"`
	LookAt        Vec3Cfg `json:"lookAt"`
	Up            Vec3Cfg `json:"up"`
	VFov          float64 `json:"vfov"`
	Aperture      float64 `json:"aperture,omitempty"`
	FocusDistance float64 `json:"focusDistance,omitempty"`
}

// MaterialCfg describes a sphere's material; which fields apply depends on Type
type MaterialCfg struct {
	Type            string   `json:"type"` // lambertian | metal | dielectric
	Albedo          *Vec3Cfg `json:"albedo,omitempty"`
	Fuzz            float64  `json:"fuzz,omitempty"`
	RefractiveIndex float64  `json:"ior,omitempty"`
}

// SphereCfg is one sphere; a negative radius makes a hollow shell wall
type SphereCfg struct {
	Center   Vec3Cfg     `json:"center"`
	Radius   float64     `json:"radius"`
	Material MaterialCfg `json:"material"`
}

// FileConfig is the on-disk scene description
type FileConfig struct {
	Name            string      `json:"name,omitempty"`
	Description     string      `json:"description,omitempty"`
	Width           int         `json:"width,omitempty"`
	Height          int         `json:"height,omitempty"`
	SamplesPerPixel int         `json:"samplesPerPixel,omitempty"`
	MaxDepth        *int        `json:"maxDepth,omitempty"` // Explicit 0 renders black
	Background      *[2]Vec3Cfg `json:"background,omitempty"` // [top, bottom]
	Camera          CameraCfg   `json:"camera"`
	Spheres         []SphereCfg `json:"spheres"`
}

// LoadFile reads a JSON scene description from path
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene file: %w", err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("scene file %s: %w", path, err)
	}
	return s, nil
}

// Decode parses a JSON scene description. Unknown fields are rejected.
func Decode(r io.Reader) (*Scene, error) {
	var cfg FileConfig
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return cfg.Build()
}

// Build turns the description into a scene
func (cfg FileConfig) Build() (*Scene, error) {
	cameraConfig := renderer.CameraConfig{
		LookFrom:      cfg.Camera.LookFrom.Vec(),
		LookAt:        cfg.Camera.LookAt.Vec(),
		Up:            cfg.Camera.Up.Vec(),
		VFov:          cfg.Camera.VFov,
		Aperture:      cfg.Camera.Aperture,
		FocusDistance: cfg.Camera.FocusDistance,
	}
	if cameraConfig.Up == (core.Vec3{}) {
		cameraConfig.Up = core.NewVec3(0, 1, 0)
	}

	s := New(cameraConfig)
	s.SamplingConfig = renderer.MergeSamplingConfig(s.SamplingConfig, renderer.SamplingConfig{
		Width:           cfg.Width,
		Height:          cfg.Height,
		SamplesPerPixel: cfg.SamplesPerPixel,
	})
	if cfg.MaxDepth != nil {
		s.SamplingConfig.MaxDepth = *cfg.MaxDepth
	}
	// Width alone keeps the default aspect ratio
	if cfg.Width != 0 && cfg.Height == 0 {
		s.SamplingConfig.Height = heightForAspect(cfg.Width, 16.0/9.0)
	}
	if cfg.Background != nil {
		s.TopColor = cfg.Background[0].Vec()
		s.BottomColor = cfg.Background[1].Vec()
	}

	for i, sc := range cfg.Spheres {
		if sc.Radius == 0 {
			return nil, fmt.Errorf("sphere %d: radius must be non-zero", i)
		}
		mat, err := sc.Material.build()
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		s.AddSphere(sc.Center.Vec(), sc.Radius, mat)
	}

	return s, nil
}

func (mc MaterialCfg) build() (material.Material, error) {
	kind, err := material.ParseKind(mc.Type)
	if err != nil {
		return material.Material{}, err
	}

	switch kind {
	case material.KindLambertian, material.KindMetal:
		if mc.Albedo == nil {
			return material.Material{}, fmt.Errorf("%s material needs an albedo", kind)
		}
		if kind == material.KindMetal {
			return material.NewMetal(mc.Albedo.Vec(), mc.Fuzz), nil
		}
		return material.NewLambertian(mc.Albedo.Vec()), nil
	default:
		if mc.RefractiveIndex <= 0 {
			return material.Material{}, fmt.Errorf("dielectric material needs a positive ior, got %g", mc.RefractiveIndex)
		}
		return material.NewDielectric(mc.RefractiveIndex), nil
	}
}
