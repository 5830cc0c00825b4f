package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// PixelSink receives the final 8-bit color of each pixel.
// Every pixel is written exactly once per render.
type PixelSink interface {
	SetPixel(x, y int, r, g, b uint8)
}
