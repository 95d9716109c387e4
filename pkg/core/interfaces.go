package core

import "image/color"

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Shape is anything a ray can be intersected with.
// Hit returns the nearest valid intersection, or (nil, false) when there
// is none. It must not fail for a ray built with NewRay.
type Shape interface {
	Hit(ray Ray) (*Hit, bool)
}

// Texture is a read-only grid of colors addressed by integer texel
// coordinates. At wraps coordinates outside [0, Width) x [0, Height).
type Texture interface {
	Width() int
	Height() int
	At(u, v int) color.RGBA
}

// Random is the source of lens dither. *rand.Rand satisfies it.
type Random interface {
	Float64() float64
}
