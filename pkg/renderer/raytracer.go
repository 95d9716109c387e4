package renderer

import (
	"context"
	"fmt"
	"image/color"
	"math/rand"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Raytracer handles the rendering process
type Raytracer struct {
	scene      *scene.Scene
	camera     *Camera
	integrator integrator.Integrator
	config     Config
	logger     core.Logger
}

// NewRaytracer creates a new raytracer. A nil logger discards output.
func NewRaytracer(s *scene.Scene, config Config, logger core.Logger) (*Raytracer, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: scene is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = discardLogger{}
	}

	return &Raytracer{
		scene:      s,
		camera:     NewCamera(config),
		integrator: integrator.NewWhittedIntegrator(),
		config:     config,
		logger:     logger,
	}, nil
}

// SetIntegrator replaces the light transport algorithm
func (rt *Raytracer) SetIntegrator(i integrator.Integrator) {
	rt.integrator = i
}

// Scene returns the scene being rendered
func (rt *Raytracer) Scene() *scene.Scene {
	return rt.scene
}

// Config returns the render configuration
func (rt *Raytracer) Config() Config {
	return rt.config
}

// Render renders the whole image on the calling goroutine in row-major
// order with one dither source seeded from the config. Identical seeds
// reproduce identical images. The context is checked between rows.
func (rt *Raytracer) Render(ctx context.Context, sink Sink) (RenderStats, error) {
	return rt.RenderWithRandom(ctx, sink, rand.New(rand.NewSource(rt.config.Seed)))
}

// RenderWithRandom is Render with a caller-supplied dither source
func (rt *Raytracer) RenderWithRandom(ctx context.Context, sink Sink, random core.Random) (RenderStats, error) {
	startTime := time.Now()
	stats := RenderStats{SamplesPerPixel: rt.camera.Samples()}
	row := make([]color.RGBA, rt.config.Width)

	for y := 0; y < rt.config.Height; y++ {
		if err := ctx.Err(); err != nil {
			stats.Elapsed = time.Since(startTime)
			return stats, err
		}

		rowStats := rt.RenderRow(y, random, row)
		if err := rt.writeRow(sink, y, row, rowStats, &stats); err != nil {
			stats.Elapsed = time.Since(startTime)
			return stats, err
		}
	}

	stats.Elapsed = time.Since(startTime)
	rt.logger.Printf("Rendered %dx%d at %d samples per pixel in %v\n",
		rt.config.Width, rt.config.Height, stats.SamplesPerPixel, stats.Elapsed)
	return stats, nil
}

// RenderRow renders scanline y into row, which must hold Width pixels
func (rt *Raytracer) RenderRow(y int, random core.Random, row []color.RGBA) RenderStats {
	var stats RenderStats
	for x := 0; x < rt.config.Width; x++ {
		energy, pixelStats := rt.SamplePixel(x, y, random)
		row[x] = ToneMap(energy, rt.camera.Samples())
		stats.merge(pixelStats)
	}
	stats.TotalPixels = rt.config.Width
	stats.RowsCompleted = 1
	return stats
}

// SamplePixel sums the radiance of every lens sample for pixel (x, y).
// Degenerate samples contribute nothing but still count toward the
// tone mapper's divisor.
func (rt *Raytracer) SamplePixel(x, y int, random core.Random) (core.Vec3, RenderStats) {
	var stats RenderStats
	energy := core.Vec3{}

	for i := 0; i < rt.config.DOFX; i++ {
		for j := 0; j < rt.config.DOFY; j++ {
			stats.TotalSamples++

			ray, err := rt.camera.GetRay(x, y, i, j, random)
			if err != nil {
				stats.SkippedSamples++
				continue
			}

			color, err := rt.integrator.RayColor(ray, rt.scene, rt.config.MaxDepth)
			stats.SkippedLights += countErrors(err)
			energy = energy.Add(color)
		}
	}

	return energy, stats
}

// writeRow hands a finished row to the sink and records its statistics
func (rt *Raytracer) writeRow(sink Sink, y int, row []color.RGBA, rowStats RenderStats, stats *RenderStats) error {
	for x, c := range row {
		sink.SetPixel(x, y, c)
	}
	stats.merge(rowStats)

	if rowStats.SkippedSamples > 0 || rowStats.SkippedLights > 0 {
		rt.logger.Printf("Row %d: skipped %d samples and %d light evaluations on degenerate vectors\n",
			y, rowStats.SkippedSamples, rowStats.SkippedLights)
	}

	if err := flushRow(sink, y); err != nil {
		return fmt.Errorf("flush row %d: %w", y, err)
	}
	return nil
}
