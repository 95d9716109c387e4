package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrInvalidConfig is wrapped by every render configuration failure
var ErrInvalidConfig = errors.New("invalid render config")

// Config contains rendering configuration
type Config struct {
	Width         int       // Image width in pixels
	Height        int       // Image height in pixels
	CameraOrigin  core.Vec3 // Pinhole position; the camera looks along +Y with +Z up
	PlaneHeight   float64   // Image plane height at unit distance, a field-of-view proxy
	DOFX          int       // Lens samples along X
	DOFY          int       // Lens samples along Z
	Aperture      float64   // Lens grid spacing
	FocalDistance float64   // Distance along the view axis that stays in focus
	MaxDepth      int       // Mirror recursion budget
	Workers       int       // Parallel workers (0 = use CPU count)
	Seed          int64     // Seed for lens dither
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:         200,
		Height:        200,
		CameraOrigin:  core.NewVec3(0, -5, 1),
		PlaneHeight:   0.8,
		DOFX:          3,
		DOFY:          3,
		Aperture:      0.02,
		FocalDistance: 5.0,
		MaxDepth:      2,
		Workers:       0,
		Seed:          42,
	}
}

// SamplesPerPixel returns the number of lens samples taken per pixel
func (c Config) SamplesPerPixel() int {
	return c.DOFX * c.DOFY
}

// Validate checks the configuration before any ray is cast
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: image size must be positive, got %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case c.DOFX <= 0 || c.DOFY <= 0:
		return fmt.Errorf("%w: lens samples must be positive, got %dx%d", ErrInvalidConfig, c.DOFX, c.DOFY)
	case !(c.Aperture >= 0) || math.IsInf(c.Aperture, 0):
		return fmt.Errorf("%w: aperture must be finite and non-negative, got %g", ErrInvalidConfig, c.Aperture)
	case !(c.FocalDistance > 0) || math.IsInf(c.FocalDistance, 0):
		return fmt.Errorf("%w: focal distance must be finite and positive, got %g", ErrInvalidConfig, c.FocalDistance)
	case !(c.PlaneHeight > 0):
		return fmt.Errorf("%w: plane height must be positive, got %g", ErrInvalidConfig, c.PlaneHeight)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth must not be negative, got %d", ErrInvalidConfig, c.MaxDepth)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}
