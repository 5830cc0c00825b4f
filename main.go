package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/publish"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/web/server"
)

// errImageMismatch is returned when -compare finds differing pixels
var errImageMismatch = errors.New("render does not match reference image")

// renderOptions holds the per-run switches that are not part of Config
type renderOptions struct {
	Compare   string            // Reference image path; empty skips the comparison
	Tolerance uint8             // Per-channel tolerance for Compare
	Smooth    bool              // Catmull-Rom instead of nearest neighbour scaling
	Publisher publish.Publisher // nil skips the upload
}

// renderResult describes the files written by one render
type renderResult struct {
	Path      string
	Thumbnail string
	Key       string // Upload key, if published
	Stats     renderer.RenderStats
	Diff      *loaders.ImageDiff
}

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "JSON config file")
	envFile := flag.String("env", ".env", "Environment file loaded before reading RAYTRACER_* and S3_* variables")
	sceneName := flag.String("scene", "", "Scene: built-in name, file:<name> or path to a JSON scene (see -list)")
	width := flag.Int("width", 0, "Image width (default: scene's recommended size)")
	height := flag.Int("height", 0, "Image height (default: scene's recommended size)")
	workers := flag.Int("workers", 0, "Number of parallel workers (default 1 from config; 0 in config means one per CPU)")
	maxDepth := flag.Int("max-depth", 0, "Maximum reflection depth (default 10)")
	outDir := flag.String("out", "", "Output directory (default output)")
	format := flag.String("format", "", "Output format: png, webp, tga, bmp, tiff, jpeg or gif")
	quality := flag.Int("quality", 0, "JPEG quality 1-100")
	thumbnail := flag.Int("thumbnail", 0, "Also write a PNG thumbnail no larger than this many pixels")
	scale := flag.Int("scale", 0, "Integer upscale factor applied before saving")
	smooth := flag.Bool("smooth", false, "Use Catmull-Rom filtering when scaling")
	compare := flag.String("compare", "", "Reference image to compare the render against")
	tolerance := flag.Int("tolerance", 0, "Per-channel tolerance for -compare (0-255)")
	upload := flag.Bool("upload", false, "Upload the render to the configured S3 bucket")
	serve := flag.Bool("serve", false, "Start the web server instead of rendering")
	port := flag.Int("port", 0, "Web server port (default 8080)")
	list := flag.Bool("list", false, "List available scenes and exit")
	export := flag.String("export", "", "Write the selected scene to this JSON file and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	cfg, err := config.Build(*configPath, []string{*envFile}, config.Flags{
		Scene:     *sceneName,
		Width:     *width,
		Height:    *height,
		Workers:   *workers,
		MaxDepth:  *maxDepth,
		OutputDir: *outDir,
		Format:    *format,
		Quality:   *quality,
		Thumbnail: *thumbnail,
		Scale:     *scale,
		Port:      *port,
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if *tolerance < 0 || *tolerance > 255 {
		fmt.Printf("Error: tolerance %d outside 0-255\n", *tolerance)
		os.Exit(1)
	}

	switch {
	case *list:
		err = listScenes(os.Stdout)
	case *export != "":
		err = exportScene(cfg.Scene, *export)
		if err == nil {
			fmt.Printf("Scene %s written to %s\n", cfg.Scene, *export)
		}
	case *serve:
		err = serveWeb(cfg)
	default:
		err = render(cfg, renderOptions{
			Compare:   *compare,
			Tolerance: uint8(*tolerance),
			Smooth:    *smooth,
		}, *upload)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("Whitted Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	listScenes(os.Stdout)
	fmt.Println()
	fmt.Println("Output will be saved to <out>/<scene>/render_<timestamp>.<format>")
}

// newPublisher returns the configured publisher, or nil when no bucket is set
func newPublisher(cfg config.Config) (publish.Publisher, error) {
	p, err := publish.NewFromConfig(cfg.S3)
	if err != nil || p == nil {
		return nil, err
	}
	return p, nil
}

// render runs one render from the command line, cancelled by Ctrl-C
func render(cfg config.Config, opts renderOptions, upload bool) error {
	if upload {
		p, err := newPublisher(cfg)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("-upload needs an S3 bucket: %w", publish.ErrNotConfigured)
		}
		opts.Publisher = p
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Starting Whitted Raytracer...")
	result, err := runRender(ctx, cfg, opts, renderer.NewDefaultLogger())
	if result.Path != "" {
		fmt.Printf("Render saved as %s\n", result.Path)
	}
	if result.Thumbnail != "" {
		fmt.Printf("Thumbnail saved as %s\n", result.Thumbnail)
	}
	if result.Diff != nil {
		fmt.Printf("Compared with %s: %d of %d pixels differ (max delta %d)\n",
			opts.Compare, result.Diff.DifferentPixels, result.Diff.TotalPixels, result.Diff.MaxDelta)
	}
	return err
}

// sceneSize returns the configured size, falling back to the scene's hint
// for unset dimensions
func sceneSize(cfg config.Config, s *scene.Scene) (int, int) {
	width, height := cfg.Width, cfg.Height
	if width == 0 {
		width = s.Hint.Width
	}
	if height == 0 {
		height = s.Hint.Height
	}
	return width, height
}

// runRender renders cfg.Scene and writes the image, thumbnail, comparison and
// upload that cfg and opts ask for
func runRender(ctx context.Context, cfg config.Config, opts renderOptions, logger core.Logger) (renderResult, error) {
	var result renderResult

	s, err := scene.Create(cfg.Scene)
	if err != nil {
		return result, err
	}
	format, err := cfg.OutputFormat()
	if err != nil {
		return result, err
	}

	width, height := sceneSize(cfg, s)
	rt, err := renderer.NewRaytracer(s, renderer.RenderConfig{
		Width:    width,
		Height:   height,
		Workers:  cfg.Workers,
		MaxDepth: cfg.MaxDepth,
	}, logger)
	if err != nil {
		return result, err
	}

	imageSink := renderer.NewImageSink(width, height)
	var rowsDone atomic.Int64
	step := int64(max(height/10, 1))
	sink := renderer.NewRowCallbackSink(imageSink, width, func(y int) {
		if done := rowsDone.Add(1); done%step == 0 {
			logger.Printf("Progress: %d%% (%d/%d rows)\n", done*100/int64(height), done, height)
		}
	})

	result.Stats, err = rt.Render(ctx, sink)
	if err != nil {
		return result, err
	}

	var img image.Image = imageSink.Image()
	if cfg.Scale > 1 {
		if img, err = output.Scale(img, cfg.Scale, opts.Smooth); err != nil {
			return result, err
		}
	}

	path := output.OutputPath(cfg.OutputDir, s.Name, format, time.Now())
	if err := output.Save(path, img, output.Options{Quality: cfg.Quality}); err != nil {
		return result, err
	}
	result.Path = path

	if cfg.Thumbnail > 0 {
		thumbPath := output.ThumbnailPath(path)
		if err := output.Save(thumbPath, output.Thumbnail(img, uint(cfg.Thumbnail)), output.Options{}); err != nil {
			return result, err
		}
		result.Thumbnail = thumbPath
	}

	if opts.Publisher != nil {
		data, err := output.EncodeBytes(img, format, output.Options{Quality: cfg.Quality})
		if err != nil {
			return result, err
		}
		rel, err := filepath.Rel(cfg.OutputDir, path)
		if err != nil {
			return result, err
		}
		key := filepath.ToSlash(rel)
		if err := opts.Publisher.Publish(ctx, key, data, format.ContentType()); err != nil {
			return result, err
		}
		result.Key = key
	}

	if opts.Compare != "" {
		ref, err := loaders.LoadImage(opts.Compare)
		if err != nil {
			return result, err
		}
		diff, err := loaders.CompareImages(img, ref.Image, opts.Tolerance)
		if err != nil {
			return result, err
		}
		result.Diff = &diff
		if !diff.Identical() {
			return result, fmt.Errorf("%w: %s", errImageMismatch, opts.Compare)
		}
	}

	return result, nil
}

// listScenes prints every scene grouped the way the web UI shows them
func listScenes(w io.Writer) error {
	scenes, err := scene.ListScenes()
	if err != nil {
		return err
	}
	for _, group := range scenes.Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Fprintf(w, "  %-20s %dx%d  %s\n", info.ID, info.Width, info.Height, info.Description)
		}
	}
	return nil
}

// exportScene writes a scene as a JSON scene file
func exportScene(name, path string) error {
	s, err := scene.Create(name)
	if err != nil {
		return err
	}
	sf, err := scene.ToSceneFile(s)
	if err != nil {
		return err
	}
	return loaders.SaveSceneFile(path, sf)
}

// serveWeb starts the web server with the resolved configuration
func serveWeb(cfg config.Config) error {
	p, err := newPublisher(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("Whitted Raytracer Web Server\n")
	fmt.Printf("Visit http://localhost:%d/api/scenes to list scenes\n", cfg.Port)
	return server.NewServer(cfg, p).Start()
}
