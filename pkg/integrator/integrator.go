package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Trace follows a primary ray through the scene and returns the
	// accumulated color along with how the walk ended
	Trace(ray core.Ray, scene *scene.Scene) TraceResult
}

// Termination records why a ray walk stopped
type Termination int

const (
	NoHit            Termination = iota // The ray left the scene
	Absorbed                            // The hit material reflects nothing
	DepthLimit                          // The bounce cap was reached
	DegenerateNormal                    // The hit had no usable normal
)

// String returns the termination name used in logs and JSON
func (t Termination) String() string {
	switch t {
	case NoHit:
		return "no-hit"
	case Absorbed:
		return "absorbed"
	case DepthLimit:
		return "depth-limit"
	case DegenerateNormal:
		return "degenerate-normal"
	default:
		return "unknown"
	}
}

// MarshalText lets Termination appear by name in JSON
func (t Termination) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// TraceResult is the outcome of one primary ray
type TraceResult struct {
	Color       core.Color  `json:"color"`
	Depth       int         `json:"depth"`      // Reflections spawned
	Iterations  int         `json:"iterations"` // Nearest-hit searches performed
	Termination Termination `json:"termination"`
	ShadowRays  int         `json:"shadowRays"`
	Bounces     []Bounce    `json:"bounces,omitempty"` // Only filled by Inspect
}

// Bounce describes one surface interaction along a traced ray
type Bounce struct {
	Object   int        `json:"object"` // Index into scene.Objects
	T        float64    `json:"t"`
	Position core.Vec3  `json:"position"`
	Normal   core.Vec3  `json:"normal"`
	Coef     float64    `json:"coef"`   // Weight applied to this bounce's shading
	Lights   []bool     `json:"lights"` // Per light: contributed (front-facing and unshadowed)
	Added    core.Color `json:"added"`  // Color added by this bounce
}
