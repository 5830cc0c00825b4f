package output

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// newGradient returns an opaque test image with distinct pixels
func newGradient(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x * 255 / max(width-1, 1)),
				G: uint8(y * 255 / max(height-1, 1)),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	return img
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"png", PNG},
		{"PNG", PNG},
		{".webp", WebP},
		{"jpg", JPEG},
		{"jpeg", JPEG},
		{"tif", TIFF},
		{"tga", TGA},
		{"bmp", BMP},
		{"gif", GIF},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseFormat(tt.input)
			if err != nil {
				t.Fatalf("ParseFormat(%q) failed: %v", tt.input, err)
			}
			if f != tt.expected {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, f, tt.expected)
			}
		})
	}

	for _, bad := range []string{"", "exr", "ppm"} {
		if _, err := ParseFormat(bad); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("ParseFormat(%q): expected ErrUnsupportedFormat, got %v", bad, err)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	if f, err := FormatFromPath("out/render.TGA"); err != nil || f != TGA {
		t.Errorf("Expected TGA, got %q (%v)", f, err)
	}
	if _, err := FormatFromPath("out/render"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat for a path without extension, got %v", err)
	}
}

func TestContentType(t *testing.T) {
	for _, f := range Formats {
		if ct := f.ContentType(); ct == "application/octet-stream" {
			t.Errorf("Format %q has no content type", f)
		}
	}
	if ct := Format("exr").ContentType(); ct != "application/octet-stream" {
		t.Errorf("Unknown format should fall back to octet-stream, got %q", ct)
	}
}

// TestSaveRoundTrip saves a render in each format and reads it back
func TestSaveRoundTrip(t *testing.T) {
	src := newGradient(24, 16)

	tests := []struct {
		format    Format
		tolerance uint8
	}{
		{PNG, 0},
		{WebP, 0},
		{TGA, 0},
		{BMP, 0},
		{TIFF, 0},
		{JPEG, 64},
		{GIF, 255}, // Palette quantization; only the size is checked
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			path := filepath.Join(dir, "nested", "render."+tt.format.Extension())
			if err := Save(path, src, Options{}); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			loaded, err := loaders.LoadImage(path)
			if err != nil {
				t.Fatalf("LoadImage failed: %v", err)
			}

			diff, err := loaders.CompareImages(src, loaded.Image, tt.tolerance)
			if err != nil {
				t.Fatalf("CompareImages failed: %v", err)
			}
			if !diff.Identical() {
				t.Errorf("%d of %d pixels differ by more than %d (max %d)",
					diff.DifferentPixels, diff.TotalPixels, tt.tolerance, diff.MaxDelta)
			}
		})
	}
}

func TestEncodeJPEGQuality(t *testing.T) {
	src := newGradient(64, 64)

	low, err := EncodeBytes(src, JPEG, Options{Quality: 10})
	if err != nil {
		t.Fatalf("Encode at quality 10 failed: %v", err)
	}
	high, err := EncodeBytes(src, JPEG, Options{Quality: 100})
	if err != nil {
		t.Fatalf("Encode at quality 100 failed: %v", err)
	}
	if len(low) >= len(high) {
		t.Errorf("Expected quality 10 (%d bytes) to be smaller than quality 100 (%d bytes)", len(low), len(high))
	}

	if _, err := EncodeBytes(src, JPEG, Options{Quality: 101}); err == nil {
		t.Error("Expected error for quality 101")
	}
}

func TestEncodeUnsupported(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, newGradient(2, 2), Format("exr"), Options{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestSaveUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.exr")
	if err := Save(path, newGradient(2, 2), Options{}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("No file should be created for an unsupported format")
	}
}
