package server

import (
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// fakePublisher records uploads
type fakePublisher struct {
	keys        []string
	sizes       []int
	contentType string
	err         error
}

func (f *fakePublisher) Publish(ctx context.Context, key string, data []byte, contentType string) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.sizes = append(f.sizes, len(data))
	f.contentType = contentType
	return nil
}

func (f *fakePublisher) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func newTestServer(t *testing.T, publisher *fakePublisher) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.MaxPixels = 200 * 200
	var s *Server
	if publisher != nil {
		s = NewServer(cfg, publisher)
	} else {
		s = NewServer(cfg, nil)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := get(t, ts, "/api/health")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body)
	}
}

func TestScenes(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := get(t, ts, "/api/scenes")

	var scenes scene.ScenesResponse
	if err := json.NewDecoder(resp.Body).Decode(&scenes); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(scenes.Groups) == 0 {
		t.Fatal("Expected at least one scene group")
	}

	ids := map[string]bool{}
	for _, info := range scenes.Groups[0].Scenes {
		ids[info.ID] = true
	}
	for _, name := range scene.BuiltinNames() {
		if !ids[name] {
			t.Errorf("Built-in scene %s missing from first group", name)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := get(t, ts, "/api/render?scene=single-sphere&width=40&height=30")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %s", ct)
	}
	if resp.Header.Get("X-Render-ID") == "" || resp.Header.Get("X-Render-Rays") == "" {
		t.Errorf("Missing render headers: %v", resp.Header)
	}
	if size := resp.Header.Get("X-Render-Size"); size != "40x30" {
		t.Errorf("Expected size 40x30, got %s", size)
	}

	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("Response is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("Expected 40x30 image, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderUsesSceneHint(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := get(t, ts, "/api/render?scene=single-sphere&format=bmp")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if size := resp.Header.Get("X-Render-Size"); size != "200x200" {
		t.Errorf("Expected the 200x200 scene hint, got %s", size)
	}
	if ct := resp.Header.Get("Content-Type"); ct != output.BMP.ContentType() {
		t.Errorf("Expected %s, got %s", output.BMP.ContentType(), ct)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"UnknownScene", "scene=nope", http.StatusNotFound},
		{"ScenePath", "scene=" + url.QueryEscape("../scenes/x.json"), http.StatusBadRequest},
		{"BadWidth", "scene=single-sphere&width=abc", http.StatusBadRequest},
		{"WidthOutOfRange", "scene=single-sphere&width=0", http.StatusBadRequest},
		{"BadFormat", "scene=single-sphere&format=exr", http.StatusBadRequest},
		{"TooManyPixels", "scene=single-sphere&width=300&height=300", http.StatusBadRequest},
		{"PublishNotConfigured", "scene=single-sphere&width=10&height=10&publish=true", http.StatusBadRequest},
		{"BadPublish", "scene=single-sphere&publish=maybe", http.StatusBadRequest},
	}

	ts := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, ts, "/api/render?"+tt.query)
			if resp.StatusCode != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, resp.StatusCode)
			}
			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body["error"] == "" {
				t.Errorf("Expected JSON error body, got %v (%v)", body, err)
			}
		})
	}
}

func TestRenderMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, nil)
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/render", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", resp.StatusCode)
	}
}

func TestRenderPostedScene(t *testing.T) {
	ts := newTestServer(t, nil)
	body := `{
		"name": "posted",
		"eye": [0, 0, 200],
		"plane": 0,
		"width": 32,
		"height": 24,
		"objects": [
			{"type": "sphere", "position": [0, 0, 0], "radius": 10, "material": {"diffuse": "#ff0000", "reflection": 0}}
		],
		"lights": [{"position": [0, 100, 100], "color": [1, 1, 1]}]
	}`

	resp, err := http.Post(ts.URL+"/api/render?format=tga", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if size := resp.Header.Get("X-Render-Size"); size != "32x24" {
		t.Errorf("Expected size from the posted scene, got %s", size)
	}

	resp, err = http.Post(ts.URL+"/api/render", "application/json", strings.NewReader(`{"name": "x", "extra": 1}`))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for an invalid scene, got %d", resp.StatusCode)
	}
}

func TestRenderPublish(t *testing.T) {
	publisher := &fakePublisher{}
	ts := newTestServer(t, publisher)
	resp := get(t, ts, "/api/render?scene=single-sphere&width=20&height=20&format=jpeg&publish=1")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if len(publisher.keys) != 1 {
		t.Fatalf("Expected 1 upload, got %d", len(publisher.keys))
	}
	key := publisher.keys[0]
	if !strings.HasPrefix(key, "single-sphere/") || !strings.HasSuffix(key, "."+output.JPEG.Extension()) {
		t.Errorf("Unexpected key %s", key)
	}
	if publisher.contentType != "image/jpeg" {
		t.Errorf("Expected image/jpeg upload, got %s", publisher.contentType)
	}
	if resp.Header.Get("X-Render-Key") != key {
		t.Errorf("Expected key header %s, got %s", key, resp.Header.Get("X-Render-Key"))
	}
	if u := resp.Header.Get("X-Render-URL"); u != "https://cdn.example.com/"+key {
		t.Errorf("Unexpected URL header %s", u)
	}
}

func TestRenderPublishFailure(t *testing.T) {
	ts := newTestServer(t, &fakePublisher{err: errors.New("denied")})
	resp := get(t, ts, "/api/render?scene=single-sphere&width=10&height=10&publish=true")
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", resp.StatusCode)
	}
}

func TestInspect(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := get(t, ts, "/api/inspect?scene=single-sphere&width=100&height=100&x=50&y=50")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var got struct {
		X      int `json:"x"`
		Y      int `json:"y"`
		Result struct {
			Depth       int    `json:"depth"`
			Termination string `json:"termination"`
		} `json:"result"`
		Objects []ObjectInfo `json:"objects"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got.X != 50 || got.Y != 50 {
		t.Errorf("Expected pixel (50,50), got (%d,%d)", got.X, got.Y)
	}
	if got.Result.Depth != 1 || got.Result.Termination != integrator.Absorbed.String() {
		t.Errorf("Expected one absorbed bounce, got depth %d, %s", got.Result.Depth, got.Result.Termination)
	}
	if len(got.Objects) != 1 {
		t.Fatalf("Expected 1 object, got %d", len(got.Objects))
	}
	obj := got.Objects[0]
	if obj.GeometryType != "sphere" || obj.Material.Color != "#ffffff" || obj.Material.Reflective {
		t.Errorf("Unexpected object info: %+v", obj)
	}
}

func TestInspectErrors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"MissingX", "scene=single-sphere&y=1", http.StatusBadRequest},
		{"BadY", "scene=single-sphere&x=1&y=up", http.StatusBadRequest},
		{"OutOfBounds", "scene=single-sphere&width=10&height=10&x=10&y=0", http.StatusBadRequest},
		{"UnknownScene", "scene=nope&x=0&y=0", http.StatusNotFound},
	}

	ts := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, ts, "/api/inspect?"+tt.query)
			if resp.StatusCode != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}
}

func TestConsoleAfterRender(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := get(t, ts, "/api/render?scene=single-sphere&width=10&height=10")
	id := resp.Header.Get("X-Render-ID")
	if id == "" {
		t.Fatal("Missing render ID")
	}

	resp = get(t, ts, "/api/console?render="+id)
	var messages []ConsoleMessage
	if err := json.NewDecoder(resp.Body).Decode(&messages); err != nil {
		t.Fatalf("Failed to decode console: %v", err)
	}
	if len(messages) == 0 {
		t.Fatal("Expected console messages for the render")
	}
	for _, msg := range messages {
		if msg.RenderID != id {
			t.Errorf("Message from render %s in filtered console", msg.RenderID)
		}
	}
}

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
		wantErr  bool
	}{
		{"Default", "", 7, false},
		{"Valid", "42", 42, false},
		{"Min", "1", 1, false},
		{"Max", "100", 100, false},
		{"BelowMin", "0", 0, true},
		{"AboveMax", "101", 0, true},
		{"NotANumber", "ten", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			if tt.value != "" {
				values.Set("n", tt.value)
			}
			got, err := parseIntParam(values, "n", 7, 1, 100)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tt.value)
				}
				return
			}
			if err != nil || got != tt.expected {
				t.Errorf("Expected %d, got %d (%v)", tt.expected, got, err)
			}
		})
	}
}
