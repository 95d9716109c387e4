package material

import (
	"image"
	"image/color"
)

// ImageTexture provides colors from a 2D image with wraparound addressing
type ImageTexture struct {
	width  int
	height int
	pixels []color.RGBA // Row-major: pixels[v*width + u]
}

// NewImageTexture copies img into a texture. Alpha is discarded.
func NewImageTexture(img image.Image) *ImageTexture {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]color.RGBA, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			pixels[y*width+x] = color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255}
		}
	}

	return &ImageTexture{width: width, height: height, pixels: pixels}
}

// Width returns the texture width in texels
func (t *ImageTexture) Width() int { return t.width }

// Height returns the texture height in texels
func (t *ImageTexture) Height() int { return t.height }

// At returns the texel at (u, v), wrapping both coordinates
func (t *ImageTexture) At(u, v int) color.RGBA {
	if t.width == 0 || t.height == 0 {
		return color.RGBA{}
	}
	return t.pixels[wrap(v, t.height)*t.width+wrap(u, t.width)]
}

// wrap maps i into [0, n) for any sign of i
func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
