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
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Scene   string                 `json:"scene"`
	Width   int                    `json:"width"`
	Height  int                    `json:"height"`
	X       int                    `json:"x"`
	Y       int                    `json:"y"`
	Ray     core.Ray               `json:"ray"`
	RGB     [3]uint8               `json:"rgb"`
	Result  integrator.TraceResult `json:"result"`
	Objects []ObjectInfo           `json:"objects"` // One per bounce
}

// ObjectInfo describes a primitive hit along the inspected ray
type ObjectInfo struct {
	Index        int                    `json:"index"`
	GeometryType string                 `json:"geometryType"`
	Geometry     map[string]interface{} `json:"geometry"`
	Material     MaterialInfo           `json:"material"`
}

// MaterialInfo describes the material of a hit primitive
type MaterialInfo struct {
	Diffuse    [3]float64 `json:"diffuse"`
	Color      string     `json:"color"` // Hex of the diffuse color
	Reflection float64    `json:"reflection"`
	Power      float64    `json:"power"`
	Reflective bool       `json:"reflective"`
}

// extractMaterialInfo extracts material information for display
func extractMaterialInfo(mat material.Material) MaterialInfo {
	r, g, b := mat.Diffuse.ToRGB8()
	return MaterialInfo{
		Diffuse:    [3]float64{mat.Diffuse.R, mat.Diffuse.G, mat.Diffuse.B},
		Color:      fmt.Sprintf("#%02x%02x%02x", r, g, b),
		Reflection: mat.Reflection,
		Power:      mat.Power,
		Reflective: mat.IsReflective(),
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(obj geometry.Primitive) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := obj.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64{geom.Center.X, geom.Center.Y, geom.Center.Z}
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["point"] = [3]float64{geom.Point.X, geom.Point.Y, geom.Point.Z}
		properties["normal"] = [3]float64{geom.Normal.X, geom.Normal.Y, geom.Normal.Z}
		return "plane", properties

	default:
		return "unknown", properties
	}
}

// handleInspect traces one pixel and reports every bounce of its ray
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed: "+r.Method)
		return
	}

	req, err := s.parseRenderRequest(r.URL.Query())
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

	sceneObj, status, err := s.createScene(req.Scene)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	width, height := resolveSize(req, sceneObj)

	rt, err := renderer.NewRaytracer(sceneObj, renderer.RenderConfig{
		Width:    width,
		Height:   height,
		Workers:  1,
		MaxDepth: req.MaxDepth,
	}, NewWebLogger(s.nextRenderID(), s.console))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := rt.InspectPixel(pixelX, pixelY)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds: "+err.Error())
		return
	}

	r8, g8, b8 := result.Color.ToRGB8()
	response := InspectResponse{
		Scene:   req.Scene,
		Width:   width,
		Height:  height,
		X:       pixelX,
		Y:       pixelY,
		Ray:     rt.PrimaryRay(pixelX, pixelY),
		RGB:     [3]uint8{r8, g8, b8},
		Result:  result,
		Objects: make([]ObjectInfo, 0, len(result.Bounces)),
	}
	for _, bounce := range result.Bounces {
		obj := sceneObj.Objects[bounce.Object]
		geometryType, geometryProps := extractGeometryInfo(obj)
		response.Objects = append(response.Objects, ObjectInfo{
			Index:        bounce.Object,
			GeometryType: geometryType,
			Geometry:     geometryProps,
			Material:     extractMaterialInfo(obj.GetMaterial()),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
