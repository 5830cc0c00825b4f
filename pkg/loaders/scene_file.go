package loaders

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"
)

// ErrInvalidSceneFile is returned when a scene file parses but describes
// something that cannot be rendered
var ErrInvalidSceneFile = errors.New("invalid scene file")

// SceneFile is the on-disk JSON form of a scene
type SceneFile struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Group       string       `json:"group,omitempty"`
	Eye         [3]float64   `json:"eye"`
	Plane       float64      `json:"plane"`
	Width       int          `json:"width,omitempty"`
	Height      int          `json:"height,omitempty"`
	Objects     []ObjectSpec `json:"objects"`
	Lights      []LightSpec  `json:"lights"`
}

// ObjectSpec describes one primitive. Type is "sphere" or "plane"; spheres use
// Position and Radius, planes use Position as a point on the plane and Normal.
type ObjectSpec struct {
	Type     string       `json:"type"`
	Position [3]float64   `json:"position"`
	Radius   float64      `json:"radius,omitempty"`
	Normal   [3]float64   `json:"normal,omitempty"`
	Material MaterialSpec `json:"material"`
}

// MaterialSpec describes a surface
type MaterialSpec struct {
	Diffuse    ColorValue `json:"diffuse"`
	Reflection float64    `json:"reflection"`
	Power      float64    `json:"power,omitempty"` // 0 means the default
}

// LightSpec describes a point light
type LightSpec struct {
	Position [3]float64 `json:"position"`
	Color    ColorValue `json:"color"`
}

// Object types understood by scene files
const (
	ObjectSphere = "sphere"
	ObjectPlane  = "plane"
)

// ColorValue is an RGB triple. In JSON it is either an array of three numbers
// or a hex string such as "#ff8800" or "#f80".
type ColorValue [3]float64

// UnmarshalJSON accepts both color notations
func (c *ColorValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := parseHexColor(s)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	var rgb [3]float64
	if err := json.Unmarshal(data, &rgb); err != nil {
		return fmt.Errorf("color must be [r,g,b] or a hex string: %w", err)
	}
	*c = rgb
	return nil
}

// parseHexColor checks the digits itself since fauxgl.HexColor silently
// returns black for malformed input
func parseHexColor(s string) (ColorValue, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 3 && len(hex) != 6 {
		return ColorValue{}, fmt.Errorf("hex color %q must have 3 or 6 digits", s)
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return ColorValue{}, fmt.Errorf("hex color %q has invalid digit %q", s, r)
		}
	}

	c := fauxgl.HexColor(hex)
	return ColorValue{c.R, c.G, c.B}, nil
}

// LoadSceneFile reads and validates a JSON scene file
func LoadSceneFile(filename string) (*SceneFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	sf, err := ParseSceneFile(file)
	if err != nil {
		return nil, fmt.Errorf("scene file %s: %w", filename, err)
	}

	if sf.Name == "" {
		base := filepath.Base(filename)
		sf.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return sf, nil
}

// ParseSceneFile decodes and validates a scene from r. Unknown fields are
// rejected so that typos do not silently drop objects.
func ParseSceneFile(r io.Reader) (*SceneFile, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var sf SceneFile
	if err := dec.Decode(&sf); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	if err := sf.Validate(); err != nil {
		return nil, err
	}
	return &sf, nil
}

// SaveSceneFile writes sf as indented JSON, creating parent directories
func SaveSceneFile(filename string, sf *SceneFile) error {
	if err := sf.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode scene: %w", err)
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create scene directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write scene file: %w", err)
	}
	return nil
}

// Validate checks the parts of a scene file that JSON decoding cannot
func (sf *SceneFile) Validate() error {
	if !finite3(sf.Eye) || math.IsNaN(sf.Plane) || math.IsInf(sf.Plane, 0) {
		return fmt.Errorf("%w: eye and plane must be finite", ErrInvalidSceneFile)
	}
	if sf.Width < 0 || sf.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalidSceneFile, sf.Width, sf.Height)
	}

	for i, obj := range sf.Objects {
		if !finite3(obj.Position) {
			return fmt.Errorf("%w: object %d position is not finite", ErrInvalidSceneFile, i)
		}
		switch obj.Type {
		case ObjectSphere:
			if !(obj.Radius > 0) {
				return fmt.Errorf("%w: object %d sphere radius %g must be positive", ErrInvalidSceneFile, i, obj.Radius)
			}
		case ObjectPlane:
			if obj.Normal == [3]float64{} || !finite3(obj.Normal) {
				return fmt.Errorf("%w: object %d plane needs a finite non-zero normal", ErrInvalidSceneFile, i)
			}
		default:
			return fmt.Errorf("%w: object %d has unknown type %q", ErrInvalidSceneFile, i, obj.Type)
		}
	}

	for i, light := range sf.Lights {
		if !finite3(light.Position) {
			return fmt.Errorf("%w: light %d position is not finite", ErrInvalidSceneFile, i)
		}
	}
	return nil
}

func finite3(v [3]float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
