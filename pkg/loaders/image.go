package loaders

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// LoadImage loads a PNG, JPEG, GIF, BMP or TIFF image, honoring EXIF orientation
func LoadImage(filename string) (image.Image, error) {
	img, err := imaging.Open(filename, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", filename, err)
	}
	return img, nil
}

// LoadTexture loads an image as a plane texture. If maxSize is non-zero,
// larger images are downscaled to fit maxSize x maxSize, keeping the
// aspect ratio.
func LoadTexture(filename string, maxSize uint) (*material.ImageTexture, error) {
	img, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("texture %s is empty", filename)
	}
	if maxSize > 0 && (uint(bounds.Dx()) > maxSize || uint(bounds.Dy()) > maxSize) {
		img = resize.Thumbnail(maxSize, maxSize, img, resize.Bilinear)
	}

	return material.NewImageTexture(img), nil
}
