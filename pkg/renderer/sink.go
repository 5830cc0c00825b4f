package renderer

import (
	"image"
	"image/color"
	"sync"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ImageSink collects pixels into an opaque RGBA image. Concurrent writes to
// different pixels are safe.
type ImageSink struct {
	img *image.RGBA
}

// NewImageSink creates a black image of the given size
func NewImageSink(width, height int) *ImageSink {
	return &ImageSink{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// SetPixel stores one pixel with full alpha
func (s *ImageSink) SetPixel(x, y int, r, g, b uint8) {
	s.img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
}

// Image returns the collected image
func (s *ImageSink) Image() *image.RGBA {
	return s.img
}

// RowCallbackSink forwards pixels to an inner sink and reports each finished
// row. Rows may finish out of order when rendering in parallel.
type RowCallbackSink struct {
	inner  core.PixelSink
	width  int
	onRow  func(y int)
	mu     sync.Mutex
	counts map[int]int
}

// NewRowCallbackSink wraps inner; onRow is called once per completed row
func NewRowCallbackSink(inner core.PixelSink, width int, onRow func(y int)) *RowCallbackSink {
	return &RowCallbackSink{
		inner:  inner,
		width:  width,
		onRow:  onRow,
		counts: make(map[int]int),
	}
}

// SetPixel forwards the pixel and fires the callback when its row is full
func (s *RowCallbackSink) SetPixel(x, y int, r, g, b uint8) {
	s.inner.SetPixel(x, y, r, g, b)

	s.mu.Lock()
	s.counts[y]++
	done := s.counts[y] == s.width
	if done {
		delete(s.counts, y)
	}
	s.mu.Unlock()

	if done {
		s.onRow(y)
	}
}

// Verify interface compliance
var (
	_ core.PixelSink = (*ImageSink)(nil)
	_ core.PixelSink = (*RowCallbackSink)(nil)
)
