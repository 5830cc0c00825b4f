package core

const (
	// Epsilon is the self-intersection bias: hits with t <= Epsilon are
	// ignored for primary, reflected and shadow rays alike.
	Epsilon = 0.1

	// PlaneEpsilon is the smallest accepted plane hit distance and the
	// threshold below which a ray counts as parallel to a plane.
	PlaneEpsilon = 1e-6

	// MaxDistance is the initial upper bound of the nearest-hit search
	MaxDistance = 20000.0
)

// Intersection is the result of a ray-primitive test. Normal and Position
// are meaningless when Hit is false.
type Intersection struct {
	T        float64
	Hit      bool
	Normal   Vec3
	Position Vec3
}

// Miss returns an Intersection with Hit unset
func Miss(tMax float64) Intersection {
	return Intersection{T: tMax}
}
