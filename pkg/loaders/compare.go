package loaders

import (
	"fmt"
	"image"
	"image/color"
)

// ImageDiff summarises the difference between two images of the same size
type ImageDiff struct {
	TotalPixels     int
	DifferentPixels int   // Pixels with any channel delta above the tolerance
	MaxDelta        uint8 // Largest channel delta seen
}

// Identical reports whether no pixel differs beyond the tolerance
func (d ImageDiff) Identical() bool {
	return d.DifferentPixels == 0
}

// CompareImages compares the RGB channels of two images pixel by pixel.
// Alpha is ignored.
func CompareImages(a, b image.Image, tolerance uint8) (ImageDiff, error) {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return ImageDiff{}, fmt.Errorf("image sizes differ: %dx%d vs %dx%d", ab.Dx(), ab.Dy(), bb.Dx(), bb.Dy())
	}

	diff := ImageDiff{TotalPixels: ab.Dx() * ab.Dy()}
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			ca := color.RGBAModel.Convert(a.At(ab.Min.X+x, ab.Min.Y+y)).(color.RGBA)
			cb := color.RGBAModel.Convert(b.At(bb.Min.X+x, bb.Min.Y+y)).(color.RGBA)

			delta := max(absDiff(ca.R, cb.R), absDiff(ca.G, cb.G), absDiff(ca.B, cb.B))
			diff.MaxDelta = max(diff.MaxDelta, delta)
			if delta > tolerance {
				diff.DifferentPixels++
			}
		}
	}

	return diff, nil
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
