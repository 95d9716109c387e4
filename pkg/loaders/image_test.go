package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writePNG saves img as a PNG file in dir
func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return path
}

func quadImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})
	return img
}

// TestLoadImage creates a test PNG and verifies loading
func TestLoadImage(t *testing.T) {
	path := writePNG(t, t.TempDir(), "test.png", quadImage())

	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() != 2 || bounds.Dy() != 2 {
		t.Fatalf("Expected 2x2 image, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	r, g, b, _ := img.At(bounds.Min.X+1, bounds.Min.Y).RGBA()
	if r != 0xffff || g != 0 || b != 0 {
		t.Errorf("Expected red at (1,0), got (%d,%d,%d)", r, g, b)
	}
}

func TestLoadImage_Errors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.png")},
		{"invalid data", garbage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadImage(tt.path); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestLoadTexture(t *testing.T) {
	path := writePNG(t, t.TempDir(), "texture.png", quadImage())

	texture, err := LoadTexture(path, 0)
	if err != nil {
		t.Fatalf("LoadTexture failed: %v", err)
	}
	if texture.Width() != 2 || texture.Height() != 2 {
		t.Fatalf("Expected 2x2 texture, got %dx%d", texture.Width(), texture.Height())
	}

	expected := color.RGBA{R: 0, G: 255, B: 0, A: 255}
	if got := texture.At(0, 1); got != expected {
		t.Errorf("Expected %v at (0,1), got %v", expected, got)
	}
	// Addressing wraps
	if got := texture.At(2, 3); got != expected {
		t.Errorf("Expected wrapped %v at (2,3), got %v", expected, got)
	}
}

func TestLoadTexture_Downscale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	path := writePNG(t, t.TempDir(), "large.png", img)

	tests := []struct {
		name           string
		maxSize        uint
		expectedWidth  int
		expectedHeight int
	}{
		{"no limit", 0, 64, 32},
		{"limit above size", 128, 64, 32},
		{"limit keeps aspect", 16, 16, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			texture, err := LoadTexture(path, tt.maxSize)
			if err != nil {
				t.Fatalf("LoadTexture failed: %v", err)
			}
			if texture.Width() != tt.expectedWidth || texture.Height() != tt.expectedHeight {
				t.Errorf("Expected %dx%d, got %dx%d", tt.expectedWidth, tt.expectedHeight, texture.Width(), texture.Height())
			}
		})
	}
}
