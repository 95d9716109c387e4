package renderer

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Camera is a pinhole camera looking along +Y with a thin-lens
// depth-of-field approximation. Each pixel is sampled on a DOFX by DOFY
// grid of lens positions.
type Camera struct {
	origin        core.Vec3
	width         float64
	height        float64
	aspectRatio   float64
	planeHeight   float64
	dofX, dofY    int
	aperture      float64
	focalDistance float64
}

// NewCamera creates a camera from a validated config
func NewCamera(config Config) *Camera {
	return &Camera{
		origin:        config.CameraOrigin,
		width:         float64(config.Width),
		height:        float64(config.Height),
		aspectRatio:   float64(config.Width) / float64(config.Height),
		planeHeight:   config.PlaneHeight,
		dofX:          config.DOFX,
		dofY:          config.DOFY,
		aperture:      config.Aperture,
		focalDistance: config.FocalDistance,
	}
}

// Samples returns the number of lens samples per pixel
func (c *Camera) Samples() int {
	return c.dofX * c.dofY
}

// BaseDirection returns the unnormalized pinhole direction through pixel (x, y)
func (c *Camera) BaseDirection(x, y int) core.Vec3 {
	return core.NewVec3(
		c.aspectRatio*((float64(x)-c.width/2)/c.height)*c.planeHeight,
		1,
		((c.height/2-float64(y))/c.height)*c.planeHeight,
	)
}

// LensOffset returns the lens position for sub-sample (i, j): a grid
// position plus random dither. The X dither is drawn before the Z dither.
func (c *Camera) LensOffset(i, j int, random core.Random) (xOffset, yOffset float64) {
	xOffset = c.aperture*(float64(i)-float64(c.dofX)/2) + c.dither(c.dofX, random)
	yOffset = c.aperture*(float64(j)-float64(c.dofY)/2) + c.dither(c.dofY, random)
	return xOffset, yOffset
}

// dither draws uniformly from [-aperture, aperture] / count
func (c *Camera) dither(count int, random core.Random) float64 {
	return (2*random.Float64() - 1) * c.aperture / float64(count)
}

// GetRay generates the ray for pixel (x, y) and lens sub-sample (i, j).
// The origin moves across the lens and the direction is bent back so
// every sub-sample converges on the focal plane.
func (c *Camera) GetRay(x, y, i, j int, random core.Random) (core.Ray, error) {
	xOffset, yOffset := c.LensOffset(i, j, random)
	offset := core.NewVec3(xOffset, 0, yOffset)

	direction := c.BaseDirection(x, y).Subtract(offset.Multiply(1.0 / c.focalDistance))
	return core.NewRay(c.origin.Add(offset), direction)
}
