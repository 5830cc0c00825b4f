// Package output encodes rendered images and places them on disk.
package output

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for unknown format names and extensions
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format is an output image format
type Format string

const (
	PNG  Format = "png"
	WebP Format = "webp"
	TGA  Format = "tga"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
)

// DefaultQuality is the JPEG quality used when Options.Quality is zero
const DefaultQuality = 95

// Formats lists every supported format, PNG first
var Formats = []Format{PNG, WebP, TGA, BMP, TIFF, JPEG, GIF}

var aliases = map[string]Format{
	"jpg": JPEG,
	"tif": TIFF,
}

var contentTypes = map[Format]string{
	PNG:  "image/png",
	WebP: "image/webp",
	TGA:  "image/x-tga",
	BMP:  "image/bmp",
	TIFF: "image/tiff",
	JPEG: "image/jpeg",
	GIF:  "image/gif",
}

// Options tunes lossy encoders
type Options struct {
	Quality int // JPEG quality 1-100; 0 means DefaultQuality
}

// ParseFormat resolves a format name such as "png" or "jpg"
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	if f, ok := aliases[name]; ok {
		return f, nil
	}
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// Extension returns the file extension for f, without the dot
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the MIME type of f
func (f Format) ContentType() string {
	if ct, ok := contentTypes[f]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Encode writes img to w in format f
func Encode(w io.Writer, img image.Image, f Format, opts Options) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case WebP:
		err = nativewebp.Encode(w, img, nil)
	case TGA:
		err = tga.Encode(w, img)
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case JPEG:
		quality := opts.Quality
		if quality == 0 {
			quality = DefaultQuality
		}
		if quality < 1 || quality > 100 {
			return fmt.Errorf("jpeg quality %d outside 1-100", quality)
		}
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case GIF:
		err = imaging.Encode(w, img, imaging.GIF)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}

	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f, err)
	}
	return nil
}

// EncodeBytes encodes img into memory
func EncodeBytes(img image.Image, f Format, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes img to path in the format named by its extension, creating
// parent directories as needed
func Save(path string, img image.Image, opts Options) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := Encode(file, img, f, opts); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
