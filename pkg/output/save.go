package output

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// RenderPath returns <dir>/<sceneName>/render_<timestamp>.png
func RenderPath(dir, sceneName string, at time.Time) string {
	return filepath.Join(dir, sceneName, fmt.Sprintf("render_%s.png", at.Format("20060102_150405")))
}

// ThumbnailPath returns the thumbnail path that goes with a render path
func ThumbnailPath(renderPath string) string {
	ext := filepath.Ext(renderPath)
	return renderPath[:len(renderPath)-len(ext)] + "_thumb" + ext
}

// SaveImage writes img to path, creating parent directories. The format
// follows the file extension.
func SaveImage(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("error saving %s: %w", path, err)
	}
	return nil
}

// Thumbnail scales img down to fit within maxSize x maxSize, keeping the
// aspect ratio. Smaller images are returned unchanged.
func Thumbnail(img image.Image, maxSize uint) image.Image {
	return resize.Thumbnail(maxSize, maxSize, img, resize.Bilinear)
}
