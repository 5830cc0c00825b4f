package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// RenderRequest holds the query parameters of a render
type RenderRequest struct {
	Scene    string        // Scene ID (GET only)
	Width    int           // 0 uses the scene's recommended size
	Height   int           // 0 uses the scene's recommended size
	Workers  int           // 0 uses one per CPU
	MaxDepth int           // Reflection cap
	Format   output.Format // Response encoding
	Quality  int           // JPEG quality
	Publish  bool          // Upload the result as well
}

// publicURLer is implemented by publishers that know where uploads are served
type publicURLer interface {
	PublicURL(key string) string
}

// handleRender renders a scene and responds with the encoded image.
// GET renders a named scene; POST renders a JSON scene file from the body.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	var sceneObj *scene.Scene
	switch r.Method {
	case http.MethodGet:
		var status int
		if sceneObj, status, err = s.createScene(req.Scene); err != nil {
			writeError(w, status, err.Error())
			return
		}
	case http.MethodPost:
		sf, err := loaders.ParseSceneFile(http.MaxBytesReader(w, r.Body, maxSceneBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid scene: "+err.Error())
			return
		}
		if sceneObj, err = scene.FromSceneFile(sf); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid scene: "+err.Error())
			return
		}
		req.Scene = sceneObj.Name
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed: "+r.Method)
		return
	}

	if req.Publish && s.publisher == nil {
		writeError(w, http.StatusBadRequest, "Publishing is not configured")
		return
	}

	width, height := resolveSize(req, sceneObj)
	if width*height > s.config.MaxPixels {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Image %dx%d exceeds the limit of %d pixels", width, height, s.config.MaxPixels))
		return
	}

	renderID := s.nextRenderID()
	logger := NewWebLogger(renderID, s.console)

	rt, err := renderer.NewRaytracer(sceneObj, renderer.RenderConfig{
		Width:    width,
		Height:   height,
		Workers:  req.Workers,
		MaxDepth: req.MaxDepth,
	}, logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.config.RenderTimeout.Std())
	defer cancel()

	img, stats, err := rt.RenderImage(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		logger.Printf("Render %s timed out after %v\n", renderID, s.config.RenderTimeout.Std())
		writeError(w, http.StatusGatewayTimeout, "Render timed out")
		return
	}
	if err != nil {
		// Client went away
		logger.Printf("Render %s cancelled: %v\n", renderID, err)
		return
	}

	data, err := output.EncodeBytes(img, req.Format, output.Options{Quality: req.Quality})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode image: "+err.Error())
		return
	}

	if req.Publish {
		key := output.OutputPath("", req.Scene, req.Format, time.Now())
		if err := s.publisher.Publish(ctx, key, data, req.Format.ContentType()); err != nil {
			logger.Printf("Render %s upload failed: %v\n", renderID, err)
			writeError(w, http.StatusBadGateway, "Upload failed: "+err.Error())
			return
		}
		w.Header().Set("X-Render-Key", key)
		if p, ok := s.publisher.(publicURLer); ok {
			if u := p.PublicURL(key); u != "" {
				w.Header().Set("X-Render-URL", u)
			}
		}
	}

	h := w.Header()
	h.Set("Content-Type", req.Format.ContentType())
	h.Set("Content-Length", strconv.Itoa(len(data)))
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("X-Render-ID", renderID)
	h.Set("X-Render-Size", fmt.Sprintf("%dx%d", width, height))
	h.Set("X-Render-Time-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	h.Set("X-Render-Rays", strconv.Itoa(stats.TotalRays()))
	h.Set("X-Render-Max-Depth", strconv.Itoa(stats.MaxDepth))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// parseRenderRequest parses and validates render query parameters
func (s *Server) parseRenderRequest(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = s.config.Scene
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", s.config.Width, 1, maxImageEdge); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", s.config.Height, 1, maxImageEdge); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(values, "workers", s.config.Workers, 0, maxWorkers); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "maxDepth", s.config.MaxDepth, 1, maxTraceDepth); err != nil {
		return nil, err
	}
	if req.Quality, err = parseIntParam(values, "quality", s.config.Quality, 1, 100); err != nil {
		return nil, err
	}
	if req.Publish, err = parseBoolParam(values, "publish"); err != nil {
		return nil, err
	}

	format := values.Get("format")
	if format == "" {
		format = s.config.Format
	}
	if req.Format, err = output.ParseFormat(format); err != nil {
		return nil, err
	}

	return req, nil
}

// resolveSize fills unset dimensions from the scene's recommended size
func resolveSize(req *RenderRequest, s *scene.Scene) (int, int) {
	width, height := req.Width, req.Height
	if width == 0 {
		width = s.Hint.Width
	}
	if height == 0 {
		height = s.Hint.Height
	}
	return width, height
}
