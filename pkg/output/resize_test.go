package output

import (
	"path/filepath"
	"testing"
	"time"
)

func TestThumbnail(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		maxSize       uint
		wantW, wantH  int
	}{
		{"Landscape", 400, 200, 100, 100, 50},
		{"Portrait", 150, 300, 100, 50, 100},
		{"AlreadySmall", 40, 30, 100, 40, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thumb := Thumbnail(newGradient(tt.width, tt.height), tt.maxSize)
			b := thumb.Bounds()
			if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("Expected %dx%d, got %dx%d", tt.wantW, tt.wantH, b.Dx(), b.Dy())
			}
		})
	}
}

func TestScale(t *testing.T) {
	src := newGradient(5, 3)

	scaled, err := Scale(src, 3, false)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if scaled.Bounds().Dx() != 15 || scaled.Bounds().Dy() != 9 {
		t.Fatalf("Expected 15x9, got %v", scaled.Bounds())
	}

	// Nearest neighbour copies each source pixel into a 3x3 block
	for y := 0; y < 9; y++ {
		for x := 0; x < 15; x++ {
			if scaled.RGBAAt(x, y) != src.RGBAAt(x/3, y/3) {
				t.Fatalf("Pixel (%d,%d) = %v, want %v", x, y, scaled.RGBAAt(x, y), src.RGBAAt(x/3, y/3))
			}
		}
	}

	smooth, err := Scale(src, 2, true)
	if err != nil {
		t.Fatalf("Smooth scale failed: %v", err)
	}
	if smooth.Bounds().Dx() != 10 || smooth.Bounds().Dy() != 6 {
		t.Errorf("Expected 10x6, got %v", smooth.Bounds())
	}

	if _, err := Scale(src, 0, false); err == nil {
		t.Error("Expected error for factor 0")
	}
}

func TestOutputPath(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	tests := []struct {
		scene    string
		format   Format
		expected string
	}{
		{"default", PNG, filepath.Join("output", "default", "render_20240309_140507.png")},
		{"sphere-grid", WebP, filepath.Join("output", "sphere-grid", "render_20240309_140507.webp")},
		{"../escape me", TGA, filepath.Join("output", "___escape_me", "render_20240309_140507.tga")},
		{"", JPEG, filepath.Join("output", "scene", "render_20240309_140507.jpeg")},
	}

	for _, tt := range tests {
		if got := OutputPath("output", tt.scene, tt.format, ts); got != tt.expected {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.scene, got, tt.expected)
		}
	}
}

func TestThumbnailPath(t *testing.T) {
	got := ThumbnailPath(filepath.Join("out", "render_1.webp"))
	if want := filepath.Join("out", "render_1_thumb.png"); got != want {
		t.Errorf("ThumbnailPath = %q, want %q", got, want)
	}
}
