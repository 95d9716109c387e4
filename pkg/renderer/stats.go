package renderer

import (
	"errors"
	"image"
	"time"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Pixels written to the sink
	TotalSamples    int           // Lens samples attempted
	SamplesPerPixel int           // Lens samples per pixel
	SkippedSamples  int           // Samples dropped because the primary ray was degenerate
	SkippedLights   int           // Light evaluations dropped for degenerate shadow directions
	RowsCompleted   int           // Scanlines written
	Elapsed         time.Duration // Wall time of the whole render
}

// merge adds the counters of other into s
func (s *RenderStats) merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSamples += other.TotalSamples
	s.SkippedSamples += other.SkippedSamples
	s.SkippedLights += other.SkippedLights
	s.RowsCompleted += other.RowsCompleted
}

// countErrors counts the leaves of a tree of joined errors
func countErrors(err error) int {
	if err == nil {
		return 0
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		n := 0
		for _, e := range joined.Unwrap() {
			n += countErrors(e)
		}
		return n
	}
	if wrapped := errors.Unwrap(err); wrapped != nil {
		if _, ok := wrapped.(interface{ Unwrap() []error }); ok {
			return countErrors(wrapped)
		}
	}
	return 1
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img in [0, 1]
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += 0.2126*float64(r)/0xffff + 0.7152*float64(g)/0xffff + 0.0722*float64(b)/0xffff
		}
	}
	return total / float64(pixels)
}
