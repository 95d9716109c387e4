package material

import (
	"image"
	"image/color"
)

// NewCheckerboardTexture creates a procedural checkerboard pattern texture
func NewCheckerboardTexture(width, height, checkSize int, color1, color2 color.RGBA) *ImageTexture {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			checkX := x / checkSize
			checkY := y / checkSize

			if (checkX+checkY)%2 == 0 {
				img.SetRGBA(x, y, color1)
			} else {
				img.SetRGBA(x, y, color2)
			}
		}
	}

	return NewImageTexture(img)
}
