package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialName string                 `json:"materialName,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Lights       []LightInfo            `json:"lights,omitempty"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// LightInfo reports whether a point light reaches the inspected point
type LightInfo struct {
	Index    int     `json:"index"`
	Visible  bool    `json:"visible"`
	Distance float64 `json:"distance"`
	Error    string  `json:"error,omitempty"`
}

// inspectPixel casts the pinhole ray through (x, y), without lens offset,
// and describes the nearest hit
func inspectPixel(sceneObj *scene.Scene, cfg renderer.Config, x, y int) (InspectResponse, error) {
	camera := renderer.NewCamera(cfg)
	ray, err := core.NewRay(cfg.CameraOrigin, camera.BaseDirection(x, y))
	if err != nil {
		return InspectResponse{}, err
	}

	hit, isHit := sceneObj.Hit(ray)
	if !isHit {
		return InspectResponse{Hit: false}, nil
	}

	geometryType, properties := extractGeometryInfo(hit.Shape)
	response := InspectResponse{
		Hit:          true,
		MaterialName: materialName(hit.Shape),
		GeometryType: geometryType,
		Point:        [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
		Normal:       [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z},
		Distance:     hit.Travel,
		Properties:   properties,
	}

	for i, light := range sceneObj.Lights() {
		info := LightInfo{Index: i}
		_, distance, visible, err := integrator.LightVisibility(sceneObj, hit.Point, light)
		if err != nil {
			info.Error = err.Error()
		} else {
			info.Visible = visible
			info.Distance = distance
		}
		response.Lights = append(response.Lights, info)
	}

	return response, nil
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape core.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64{geom.Center.X, geom.Center.Y, geom.Center.Z}
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["normal"] = [3]float64{geom.Normal.X, geom.Normal.Y, geom.Normal.Z}
		properties["height"] = geom.Height
		return "plane", properties

	default:
		return "unknown", properties
	}
}

func materialName(shape core.Shape) string {
	var mat *material.Material
	switch geom := shape.(type) {
	case *geometry.Sphere:
		mat = geom.Material
	case *geometry.Plane:
		mat = geom.Material
	}
	if mat == nil {
		return ""
	}
	return mat.Name
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid x coordinate"})
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid y coordinate"})
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	rt, err := s.newRaytracer(req, nil)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	response, err := inspectPixel(rt.Scene(), rt.Config(), pixelX, pixelY)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("Inspection failed: %v", err)})
		return
	}
	writeJSON(w, http.StatusOK, response)
}
