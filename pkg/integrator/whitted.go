package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// DefaultMaxDepth is the reflection cap of the classic renderer
const DefaultMaxDepth = 10

// TraceConfig bounds the ray walk
type TraceConfig struct {
	MaxDepth    int     // Maximum number of reflections per primary ray
	MaxDistance float64 // Upper bound of the nearest-hit search
}

// DefaultTraceConfig returns the configuration used by the reference renderer
func DefaultTraceConfig() TraceConfig {
	return TraceConfig{
		MaxDepth:    DefaultMaxDepth,
		MaxDistance: core.MaxDistance,
	}
}

// WhittedIntegrator implements recursive Whitted ray tracing: direct light
// from unshadowed point lights plus one mirror reflection per hit. Recursion
// is unrolled into a loop that carries the attenuation coefficient.
type WhittedIntegrator struct {
	config TraceConfig
}

// NewWhittedIntegrator creates a new Whitted integrator. Zero fields of
// config fall back to the defaults.
func NewWhittedIntegrator(config TraceConfig) *WhittedIntegrator {
	defaults := DefaultTraceConfig()
	if config.MaxDepth <= 0 {
		config.MaxDepth = defaults.MaxDepth
	}
	if config.MaxDistance <= 0 {
		config.MaxDistance = defaults.MaxDistance
	}
	return &WhittedIntegrator{config: config}
}

// Config returns the effective configuration
func (w *WhittedIntegrator) Config() TraceConfig {
	return w.config
}

// Trace computes the color seen along ray
func (w *WhittedIntegrator) Trace(ray core.Ray, s *scene.Scene) TraceResult {
	return w.trace(ray, s, false)
}

// Inspect is Trace with a per-bounce record, for debugging single pixels
func (w *WhittedIntegrator) Inspect(ray core.Ray, s *scene.Scene) TraceResult {
	return w.trace(ray, s, true)
}

func (w *WhittedIntegrator) trace(ray core.Ray, s *scene.Scene, record bool) TraceResult {
	var result TraceResult
	coef := 1.0

	for {
		result.Iterations++

		hit, obj, index := NearestHit(s.Objects, ray, w.config.MaxDistance)
		if obj == nil {
			result.Termination = NoHit
			break
		}

		normal := hit.Normal
		if normal.IsZero() || !normal.IsFinite() {
			result.Termination = DegenerateNormal
			break
		}

		mat := obj.GetMaterial()
		before := result.Color

		var visible []bool
		if record {
			visible = make([]bool, len(s.Lights))
		}

		for i, light := range s.Lights {
			sample, ok := light.Sample(hit.Position, normal)
			if !ok {
				continue
			}

			lightRay := core.NewRay(hit.Position, sample.Direction)
			result.ShadowRays++
			if InShadow(s.Objects, lightRay, sample.Distance) {
				continue
			}

			Lambert(&result.Color, lightRay, light, normal, mat, coef)
			Phong(&result.Color, ray, lightRay, light, normal, mat, coef)
			if record {
				visible[i] = true
			}
		}

		if record {
			result.Bounces = append(result.Bounces, Bounce{
				Object:   index,
				T:        hit.T,
				Position: hit.Position,
				Normal:   normal,
				Coef:     coef,
				Lights:   visible,
				Added:    result.Color.Add(before.Multiply(-1)),
			})
		}

		coef *= mat.Reflection
		ray = core.NewRay(hit.Position, ray.Direction.Reflect(normal))
		result.Depth++

		if coef <= 0 {
			result.Termination = Absorbed
			break
		}
		if result.Depth >= w.config.MaxDepth {
			result.Termination = DepthLimit
			break
		}
	}

	return result
}

// NearestHit scans every primitive and returns the closest intersection,
// the primitive that produced it and its index. Ties keep the earlier
// primitive. The primitive is nil when nothing was hit.
func NearestHit(objects []geometry.Primitive, ray core.Ray, tMax float64) (core.Intersection, geometry.Primitive, int) {
	nearest := core.Miss(tMax)
	var nearestObj geometry.Primitive
	nearestIndex := -1

	for i, obj := range objects {
		hit := obj.Intersect(ray, nearest.T)
		if hit.Hit && hit.T < nearest.T {
			nearest = hit
			nearestObj = obj
			nearestIndex = i
		}
	}

	return nearest, nearestObj, nearestIndex
}

// InShadow reports whether any primitive blocks ray before distance
func InShadow(objects []geometry.Primitive, ray core.Ray, distance float64) bool {
	for _, obj := range objects {
		if obj.Intersect(ray, distance).Hit {
			return true
		}
	}
	return false
}

// Verify interface compliance
var _ Integrator = (*WhittedIntegrator)(nil)
