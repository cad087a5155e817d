package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	SphereIndex  int                    `json:"sphereIndex"`
	MaterialType string                 `json:"materialType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// materialProperties describes the parameters that matter for mat's kind
func materialProperties(mat material.Material) map[string]interface{} {
	properties := make(map[string]interface{})

	switch mat.Kind {
	case material.KindLambertian, material.KindMetal:
		properties["albedo"] = [3]float64{mat.Albedo.X, mat.Albedo.Y, mat.Albedo.Z}
		if mat.Kind == material.KindMetal {
			properties["fuzz"] = mat.Fuzz
		}
	case material.KindDielectric:
		properties["refractiveIndex"] = mat.RefractiveIndex
	}
	return properties
}

// inspectPixel casts the unjittered ray through the center of pixel (x, y)
// and reports the nearest sphere it hits
func inspectPixel(sceneObj *scene.Scene, width, height, x, y int) InspectResponse {
	s := (float64(x) + 0.5) / float64(max(width-1, 1))
	t := (float64(height-1-y) + 0.5) / float64(max(height-1, 1))

	// The lens center is used regardless of aperture
	ray := sceneObj.Camera.GetRay(s, t, centerSampler{})

	closest, index, ok := sceneObj.HitIndex(ray, renderer.ShadowAcneEpsilon, math.Inf(1))
	response := InspectResponse{SphereIndex: index}
	if !ok {
		return response
	}

	response.Hit = true
	response.MaterialType = closest.Material.Kind.String()
	response.Point = [3]float64{closest.Point.X, closest.Point.Y, closest.Point.Z}
	response.Normal = [3]float64{closest.Normal.X, closest.Normal.Y, closest.Normal.Z}
	response.Distance = closest.T
	response.FrontFace = closest.FrontFace
	response.Properties = map[string]interface{}{"material": materialProperties(closest.Material)}

	if sphere, ok := sceneObj.Shapes[response.SphereIndex].(*geometry.Sphere); ok {
		response.Properties["center"] = [3]float64{sphere.Center.X, sphere.Center.Y, sphere.Center.Z}
		response.Properties["radius"] = sphere.Radius
	}
	return response
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	width, height := sceneObj.SamplingConfig.Width, sceneObj.SamplingConfig.Height
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(sceneObj, width, height, pixelX, pixelY))
}

// centerSampler always returns the middle of the unit square, which maps to the lens center
type centerSampler struct{}

func (centerSampler) Get1D() float64   { return 0.5 }
func (centerSampler) Get2D() core.Vec2 { return core.NewVec2(0.5, 0.5) }
func (centerSampler) Get3D() core.Vec3 { return core.NewVec3(0.5, 0.5, 0.5) }
