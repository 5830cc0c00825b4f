package loaders

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ImageData contains a decoded image and its pixels as colors in [0,1]
type ImageData struct {
	Width  int
	Height int
	Format string       // Decoder name, e.g. "png" or "tga"
	Pixels []core.Color // Row-major
	Image  image.Image  // Decoded image, for byte-exact comparison
}

// LoadImage loads any image format the renderer can write and converts it to
// a color array
func LoadImage(filename string) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, format, err := decode(file, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBAModel.Convert(img.At(x+bounds.Min.X, y+bounds.Min.Y)).(color.RGBA)
			pixels[y*width+x] = core.NewColor(
				float64(c.R)/255.0,
				float64(c.G)/255.0,
				float64(c.B)/255.0,
			)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Format: format,
		Pixels: pixels,
		Image:  img,
	}, nil
}

// decoders maps file extensions to decoders. TGA has no magic number, so
// formats are chosen by extension rather than sniffed.
var decoders = map[string]struct {
	name   string
	decode func(io.Reader) (image.Image, error)
}{
	".png":  {"png", png.Decode},
	".jpg":  {"jpeg", jpeg.Decode},
	".jpeg": {"jpeg", jpeg.Decode},
	".gif":  {"gif", gif.Decode},
	".bmp":  {"bmp", bmp.Decode},
	".tif":  {"tiff", tiff.Decode},
	".tiff": {"tiff", tiff.Decode},
	".webp": {"webp", webp.Decode},
	".tga":  {"tga", tga.Decode},
}

func decode(r io.Reader, filename string) (image.Image, string, error) {
	d, ok := decoders[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return nil, "", fmt.Errorf("unsupported image extension %q", filepath.Ext(filename))
	}
	img, err := d.decode(r)
	return img, d.name, err
}
