package renderer

import (
	"image/color"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ToneMap converts radiance summed over samples into an opaque 8-bit color.
// Each channel is scaled by 255/samples, clamped to [0, 255] and truncated.
func ToneMap(energy core.Vec3, samples int) color.RGBA {
	if samples < 1 {
		samples = 1
	}
	scale := 255.0 / float64(samples)
	return color.RGBA{
		R: toByte(energy.X * scale),
		G: toByte(energy.Y * scale),
		B: toByte(energy.Z * scale),
		A: 255,
	}
}

// toByte clamps and truncates; NaN maps to 0
func toByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
