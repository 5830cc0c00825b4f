// Package config layers defaults, a JSON file, the environment and CLI flags
// into the settings of a render or server run.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/publish"
)

// ErrInvalid is returned by Validate
var ErrInvalid = errors.New("invalid config")

// Config holds all render, output, server and publishing settings.
type Config struct {
	// Render settings
	Scene    string `json:"scene"`
	Width    int    `json:"width"`  // 0 uses the scene's recommended size
	Height   int    `json:"height"` // 0 uses the scene's recommended size
	Workers  int    `json:"workers"`
	MaxDepth int    `json:"max_depth"`

	// Output
	OutputDir string `json:"output_dir"`
	Format    string `json:"format"`
	Quality   int    `json:"quality"`   // JPEG only
	Thumbnail int    `json:"thumbnail"` // Max thumbnail edge; 0 disables
	Scale     int    `json:"scale"`     // Integer upscale factor

	// Server
	Port          int      `json:"port"`
	RenderTimeout Duration `json:"render_timeout"`
	MaxPixels     int      `json:"max_pixels"` // Largest image the server will render

	// Publishing
	S3            publish.S3Config `json:"s3"`
	UploadTimeout Duration         `json:"upload_timeout"`
}

// Flags holds CLI flag values that override config file settings.
// Zero values leave the setting alone.
type Flags struct {
	Scene     string
	Width     int
	Height    int
	Workers   int
	MaxDepth  int
	OutputDir string
	Format    string
	Quality   int
	Thumbnail int
	Scale     int
	Port      int
}

// Default returns the reference settings
func Default() Config {
	return Config{
		Scene:         "default",
		Workers:       1,
		MaxDepth:      10,
		OutputDir:     "output",
		Format:        string(output.PNG),
		Scale:         1,
		Port:          8080,
		RenderTimeout: Duration(2 * time.Minute),
		MaxPixels:     4096 * 4096,
		UploadTimeout: Duration(publish.DefaultUploadTimeout),
	}
}

// Load reads a JSON config file over the defaults. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnv loads .env style files into the process environment. Variables
// that are already set win. Missing files are ignored; with no arguments
// ".env" in the working directory is tried.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from RAYTRACER_* and S3_* environment
// variables
func (c *Config) ApplyEnv() error {
	stringVars := map[string]*string{
		"RAYTRACER_SCENE":      &c.Scene,
		"RAYTRACER_OUTPUT_DIR": &c.OutputDir,
		"RAYTRACER_FORMAT":     &c.Format,
		"S3_ACCESS_KEY":        &c.S3.AccessKey,
		"S3_SECRET_KEY":        &c.S3.SecretKey,
		"S3_ENDPOINT":          &c.S3.Endpoint,
		"S3_REGION":            &c.S3.Region,
		"S3_BUCKET":            &c.S3.Bucket,
		"S3_PREFIX":            &c.S3.Prefix,
		"S3_ACL":               &c.S3.ACL,
		"CDN_URL":              &c.S3.CDNURL,
	}
	for key, field := range stringVars {
		if v, ok := os.LookupEnv(key); ok {
			*field = v
		}
	}

	intVars := map[string]*int{
		"RAYTRACER_WIDTH":     &c.Width,
		"RAYTRACER_HEIGHT":    &c.Height,
		"RAYTRACER_WORKERS":   &c.Workers,
		"RAYTRACER_MAX_DEPTH": &c.MaxDepth,
		"RAYTRACER_QUALITY":   &c.Quality,
		"RAYTRACER_PORT":      &c.Port,
	}
	for key, field := range intVars {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, key, v)
		}
		*field = n
	}

	durationVars := map[string]*Duration{
		"RAYTRACER_RENDER_TIMEOUT": &c.RenderTimeout,
		"S3_UPLOAD_TIMEOUT":        &c.UploadTimeout,
	}
	for key, field := range durationVars {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %w", ErrInvalid, key, v, err)
		}
		*field = Duration(d)
	}
	return nil
}

// Resolve applies CLI flags, which take priority when non-zero/non-empty
func (c *Config) Resolve(flags Flags) {
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.MaxDepth > 0 {
		c.MaxDepth = flags.MaxDepth
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Quality > 0 {
		c.Quality = flags.Quality
	}
	if flags.Thumbnail > 0 {
		c.Thumbnail = flags.Thumbnail
	}
	if flags.Scale > 0 {
		c.Scale = flags.Scale
	}
	if flags.Port > 0 {
		c.Port = flags.Port
	}

	c.S3.Timeout = time.Duration(c.UploadTimeout)
}

// Build layers every source in order: defaults, the JSON file at path (if
// any), .env files, the environment, then flags. The result is validated.
func Build(path string, envFiles []string, flags Flags) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	if err := LoadEnv(envFiles...); err != nil {
		return Config{}, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// OutputFormat returns the parsed output format
func (c Config) OutputFormat() (output.Format, error) {
	return output.ParseFormat(c.Format)
}

// Validate checks every setting
func (c Config) Validate() error {
	if c.Scene == "" {
		return fmt.Errorf("%w: scene is required", ErrInvalid)
	}
	if c.Width < 0 || c.Height < 0 {
		return fmt.Errorf("%w: size %dx%d must not be negative", ErrInvalid, c.Width, c.Height)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d must not be negative", ErrInvalid, c.Workers)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("%w: max depth %d must be at least 1", ErrInvalid, c.MaxDepth)
	}
	if _, err := c.OutputFormat(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Quality < 0 || c.Quality > 100 {
		return fmt.Errorf("%w: quality %d outside 0-100", ErrInvalid, c.Quality)
	}
	if c.Thumbnail < 0 {
		return fmt.Errorf("%w: thumbnail size %d must not be negative", ErrInvalid, c.Thumbnail)
	}
	if c.Scale < 1 {
		return fmt.Errorf("%w: scale %d must be at least 1", ErrInvalid, c.Scale)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d outside 1-65535", ErrInvalid, c.Port)
	}
	if c.RenderTimeout <= 0 {
		return fmt.Errorf("%w: render timeout must be positive", ErrInvalid)
	}
	if c.MaxPixels <= 0 {
		return fmt.Errorf("%w: max pixels must be positive", ErrInvalid)
	}
	if c.UploadTimeout < 0 {
		return fmt.Errorf("%w: upload timeout must not be negative", ErrInvalid)
	}
	if err := c.S3.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Duration is a time.Duration that reads "90s" style strings or a number of
// seconds from JSON
type Duration time.Duration

// UnmarshalJSON accepts "1m30s" or 90
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	}

	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\" or a number of seconds: %w", err)
	}
	*d = Duration(seconds * float64(time.Second))
	return nil
}

// MarshalJSON writes the duration as a string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
