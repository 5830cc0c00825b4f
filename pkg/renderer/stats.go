package renderer

import (
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels   int           // Pixels written to the sink
	Rows          int           // Rows completed
	HitPixels     int           // Pixels whose primary ray was shaded
	PrimaryRays   int           // Nearest-hit searches, including reflections
	ShadowRays    int           // Shadow rays cast
	MaxDepth      int           // Deepest reflection chain seen
	DepthLimited  int           // Pixels cut off by the bounce cap
	DegenerateHit int           // Pixels stopped by an unusable normal
	Workers       int           // Goroutines used
	Duration      time.Duration // Wall time of the render
}

// TotalRays returns every ray cast, primary, reflected and shadow
func (s RenderStats) TotalRays() int {
	return s.PrimaryRays + s.ShadowRays
}

// addPixel folds one traced pixel into the statistics
func (s *RenderStats) addPixel(result integrator.TraceResult) {
	s.TotalPixels++
	s.PrimaryRays += result.Iterations
	s.ShadowRays += result.ShadowRays
	if result.Depth > 0 {
		s.HitPixels++
	}
	s.MaxDepth = max(s.MaxDepth, result.Depth)

	switch result.Termination {
	case integrator.DepthLimit:
		s.DepthLimited++
	case integrator.DegenerateNormal:
		s.DegenerateHit++
	}
}

// merge adds the statistics of one finished row
func (s *RenderStats) merge(row RenderStats) {
	s.TotalPixels += row.TotalPixels
	s.Rows++
	s.HitPixels += row.HitPixels
	s.PrimaryRays += row.PrimaryRays
	s.ShadowRays += row.ShadowRays
	s.MaxDepth = max(s.MaxDepth, row.MaxDepth)
	s.DepthLimited += row.DepthLimited
	s.DegenerateHit += row.DegenerateHit
}
