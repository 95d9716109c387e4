package renderer

import (
	"image"
	"image/color"
)

// Sink receives finished pixels. The renderer writes every pixel exactly
// once and only from a single goroutine.
type Sink interface {
	SetPixel(x, y int, c color.RGBA)
}

// RowFlusher is implemented by sinks that want to present each finished
// row, e.g. for progressive display.
type RowFlusher interface {
	FlushRow(y int) error
}

// ImageSink writes pixels into an in-memory RGBA image
type ImageSink struct {
	Image *image.RGBA
}

// NewImageSink creates a sink backed by a new width x height image
func NewImageSink(width, height int) *ImageSink {
	return &ImageSink{Image: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// SetPixel stores c at (x, y)
func (s *ImageSink) SetPixel(x, y int, c color.RGBA) {
	s.Image.SetRGBA(x, y, c)
}

func flushRow(sink Sink, y int) error {
	if flusher, ok := sink.(RowFlusher); ok {
		return flusher.FlushRow(y)
	}
	return nil
}
