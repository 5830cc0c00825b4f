package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/publish"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Size limits for a single request
const (
	maxImageEdge  = 4096
	maxWorkers    = 256
	maxTraceDepth = 100
	maxSceneBody  = 1 << 20
)

// Server handles web requests for the raytracer
type Server struct {
	config    config.Config
	publisher publish.Publisher // nil when publishing is not configured
	console   *ConsoleBuffer
	renders   atomic.Int64
}

// NewServer creates a new web server. publisher may be nil.
func NewServer(cfg config.Config, publisher publish.Publisher) *Server {
	return &Server{
		config:    cfg,
		publisher: publisher,
		console:   NewConsoleBuffer(defaultConsoleSize),
	}
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/console", s.handleConsole)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListScenes()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list scenes: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// createScene builds a named scene for a request. File paths are refused so
// clients can only reach scenes that ListScenes reports.
func (s *Server) createScene(name string) (*scene.Scene, int, error) {
	if strings.HasSuffix(strings.ToLower(name), ".json") || strings.ContainsAny(name, `/\`) {
		return nil, http.StatusBadRequest, fmt.Errorf("scene paths are not accepted: %s", name)
	}
	sceneObj, err := scene.Create(name)
	if errors.Is(err, scene.ErrUnknownScene) {
		return nil, http.StatusNotFound, err
	}
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	return sceneObj, http.StatusOK, nil
}

// nextRenderID returns a short ID used to tag log lines of one request
func (s *Server) nextRenderID() string {
	return fmt.Sprintf("r%d", s.renders.Add(1))
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string) (bool, error) {
	value := values.Get(key)
	if value == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", key, value)
	}
	return parsed, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
