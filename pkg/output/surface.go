package output

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
)

// Surface is a gg canvas the renderer draws into. It implements
// renderer.Sink and renderer.RowFlusher.
type Surface struct {
	dc       *gg.Context
	onRow    func(y int) error
	finished int
}

// NewSurface creates a black width x height surface
func NewSurface(width, height int) *Surface {
	dc := gg.NewContext(width, height)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	return &Surface{dc: dc}
}

// OnRow registers a callback run after each finished row, e.g. to show progress
func (s *Surface) OnRow(fn func(y int) error) {
	s.onRow = fn
}

// SetPixel paints one pixel
func (s *Surface) SetPixel(x, y int, c color.RGBA) {
	s.dc.SetColor(c)
	s.dc.SetPixel(x, y)
}

// FlushRow records a finished row and forwards it to the row callback
func (s *Surface) FlushRow(y int) error {
	s.finished++
	if s.onRow != nil {
		return s.onRow(y)
	}
	return nil
}

// RowsFinished returns the number of rows flushed so far
func (s *Surface) RowsFinished() int {
	return s.finished
}

// Image returns the surface contents
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

// SavePNG writes the surface to a PNG file
func (s *Surface) SavePNG(path string) error {
	return s.dc.SavePNG(path)
}

// EncodePNG writes the surface as PNG to w
func (s *Surface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}
