package output

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Thumbnail shrinks img to fit in a maxSize square, keeping its aspect
// ratio. Images already small enough are returned unchanged.
func Thumbnail(img image.Image, maxSize uint) image.Image {
	return resize.Thumbnail(maxSize, maxSize, img, resize.Lanczos3)
}

// Scale enlarges img by an integer factor. Nearest neighbour keeps pixel
// edges hard; smooth uses Catmull-Rom.
func Scale(img image.Image, factor int, smooth bool) (*image.RGBA, error) {
	if factor < 1 {
		return nil, fmt.Errorf("scale factor %d must be at least 1", factor)
	}

	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))

	var scaler draw.Scaler = draw.NearestNeighbor
	if smooth {
		scaler = draw.CatmullRom
	}
	scaler.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}

// OutputPath returns dir/<scene>/render_<timestamp>.<ext>
func OutputPath(dir, sceneName string, f Format, t time.Time) string {
	return filepath.Join(dir, sanitize(sceneName),
		fmt.Sprintf("render_%s.%s", t.Format("20060102_150405"), f.Extension()))
}

// ThumbnailPath returns the sibling path for a thumbnail of path, always PNG
func ThumbnailPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "_thumb.png"
}

// sanitize keeps scene names usable as a single directory name
func sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" {
		return "scene"
	}
	return name
}
