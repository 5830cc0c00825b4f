package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ErrInvalidConfig is returned for unusable render dimensions or settings
var ErrInvalidConfig = errors.New("invalid render config")

// RenderConfig contains rendering configuration
type RenderConfig struct {
	Width    int // Image width in pixels
	Height   int // Image height in pixels
	Workers  int // Goroutines rendering rows; 1 renders sequentially
	MaxDepth int // Maximum reflections per primary ray
}

// DefaultRenderConfig returns the reference settings: 500x500, one worker,
// ten reflections
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:    500,
		Height:   500,
		Workers:  1,
		MaxDepth: integrator.DefaultMaxDepth,
	}
}

// Validate checks the configuration
func (c RenderConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d must not be negative", ErrInvalidConfig, c.Workers)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth %d must not be negative", ErrInvalidConfig, c.MaxDepth)
	}
	return nil
}

// Raytracer renders a scene one primary ray per pixel
type Raytracer struct {
	scene      *scene.Scene
	config     RenderConfig
	integrator *integrator.WhittedIntegrator
	logger     core.Logger
}

// NewRaytracer validates the scene and configuration and creates a raytracer.
// Workers of 0 means one per CPU. A nil logger logs to stdout.
func NewRaytracer(s *scene.Scene, config RenderConfig, logger core.Logger) (*Raytracer, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil scene", scene.ErrInvalidScene)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	return &Raytracer{
		scene:  s,
		config: config,
		integrator: integrator.NewWhittedIntegrator(integrator.TraceConfig{
			MaxDepth:    config.MaxDepth,
			MaxDistance: core.MaxDistance,
		}),
		logger: logger,
	}, nil
}

// Config returns the render configuration
func (rt *Raytracer) Config() RenderConfig {
	return rt.config
}

// PrimaryRay returns the ray from the eye through pixel (x, y). The image is
// centred on the z axis with y pointing up.
func (rt *Raytracer) PrimaryRay(x, y int) core.Ray {
	target := core.NewVec3(
		float64(x)-float64(rt.config.Width)/2.0,
		float64(rt.config.Height)/2.0-float64(y),
		rt.scene.Plane,
	)
	return core.NewRay(rt.scene.Eye, target.Subtract(rt.scene.Eye).Normalize())
}

// RenderPixel traces the primary ray of one pixel
func (rt *Raytracer) RenderPixel(x, y int) integrator.TraceResult {
	return rt.integrator.Trace(rt.PrimaryRay(x, y), rt.scene)
}

// InspectPixel traces one pixel and records every bounce
func (rt *Raytracer) InspectPixel(x, y int) (integrator.TraceResult, error) {
	if x < 0 || x >= rt.config.Width || y < 0 || y >= rt.config.Height {
		return integrator.TraceResult{}, fmt.Errorf("pixel (%d,%d) outside %dx%d image", x, y, rt.config.Width, rt.config.Height)
	}
	return rt.integrator.Inspect(rt.PrimaryRay(x, y), rt.scene), nil
}

// renderRow traces every pixel of row y into sink
func (rt *Raytracer) renderRow(y int, sink core.PixelSink) RenderStats {
	var stats RenderStats
	for x := 0; x < rt.config.Width; x++ {
		result := rt.RenderPixel(x, y)
		r, g, b := result.Color.ToRGB8()
		sink.SetPixel(x, y, r, g, b)
		stats.addPixel(result)
	}
	return stats
}

// Render writes every pixel to sink and returns statistics. With more than
// one worker, rows are rendered concurrently and sink must accept concurrent
// SetPixel calls for different rows. ctx is checked between rows; on
// cancellation the remaining rows are skipped and ctx.Err() is returned.
func (rt *Raytracer) Render(ctx context.Context, sink core.PixelSink) (RenderStats, error) {
	start := time.Now()
	workers := rt.config.Workers
	if workers == 0 {
		workers = defaultWorkers()
	}

	rt.logger.Printf("Rendering %s at %dx%d with %d worker(s)...\n",
		rt.scene.Name, rt.config.Width, rt.config.Height, workers)

	var stats RenderStats
	var err error
	if workers == 1 {
		stats, err = rt.renderSequential(ctx, sink)
	} else {
		stats, err = rt.renderParallel(ctx, sink, workers)
	}

	stats.Workers = workers
	stats.Duration = time.Since(start)
	if err != nil {
		rt.logger.Printf("Render of %s stopped after %d rows: %v\n", rt.scene.Name, stats.Rows, err)
		return stats, err
	}

	rt.logger.Printf("Render complete: %d pixels, %d hit, %d rays in %v\n",
		stats.TotalPixels, stats.HitPixels, stats.TotalRays(), stats.Duration)
	return stats, nil
}

func (rt *Raytracer) renderSequential(ctx context.Context, sink core.PixelSink) (RenderStats, error) {
	var stats RenderStats
	for y := 0; y < rt.config.Height; y++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.merge(rt.renderRow(y, sink))
	}
	return stats, nil
}

func (rt *Raytracer) renderParallel(ctx context.Context, sink core.PixelSink, workers int) (RenderStats, error) {
	pool := NewWorkerPool(ctx, rt, sink, rt.config.Height, workers)
	pool.Start()

	for y := 0; y < rt.config.Height; y++ {
		pool.SubmitTask(RowTask{Y: y})
	}
	go pool.Stop()

	var stats RenderStats
	var firstErr error
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		stats.merge(result.Stats)
	}
	return stats, firstErr
}

// RenderImage renders into a new opaque RGBA image
func (rt *Raytracer) RenderImage(ctx context.Context) (*image.RGBA, RenderStats, error) {
	sink := NewImageSink(rt.config.Width, rt.config.Height)
	stats, err := rt.Render(ctx, sink)
	return sink.Image(), stats, err
}
