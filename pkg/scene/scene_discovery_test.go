package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"single-sphere", "Single Sphere"},
		{"mirror_hall", "Mirror Hall"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestCreateBuiltins(t *testing.T) {
	for _, name := range BuiltinNames() {
		t.Run(name, func(t *testing.T) {
			s, err := Create(name)
			if err != nil {
				t.Fatalf("Create(%q) failed: %v", name, err)
			}
			if s.Name != name {
				t.Errorf("Expected scene name %q, got %q", name, s.Name)
			}
			if err := s.Validate(); err != nil {
				t.Errorf("Built-in scene %q is invalid: %v", name, err)
			}
			if len(s.Objects) == 0 || len(s.Lights) == 0 {
				t.Errorf("Built-in scene %q should have objects and lights", name)
			}
		})
	}
}

func TestCreateUnknown(t *testing.T) {
	for _, name := range []string{"nope", "file:does-not-exist", "missing.json"} {
		if _, err := Create(name); !errors.Is(err, ErrUnknownScene) {
			t.Errorf("Create(%q): expected ErrUnknownScene, got %v", name, err)
		}
	}
}

func TestCreateFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.json")
	content := `{"name":"one","eye":[0,0,200],"plane":0,
		"objects":[{"type":"sphere","position":[0,0,0],"radius":10,"material":{"diffuse":"#fff","reflection":0}}],
		"lights":[{"position":[0,100,100],"color":[1,1,1]}]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}

	s, err := Create(path)
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", path, err)
	}
	if s.Name != "one" || s.GetPrimitiveCount() != 1 {
		t.Errorf("Unexpected scene %q with %d objects", s.Name, s.GetPrimitiveCount())
	}
}

func TestListSceneFilesIn(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b-scene.json": `{"name":"b-scene","eye":[0,0,10],"width":320,"height":240,"objects":[],"lights":[]}`,
		"a-scene.json": `{"name":"a-scene","group":"Tests","description":"first","eye":[0,0,10],"objects":[],"lights":[]}`,
		"broken.json":  `{"name":`,
		"notes.txt":    `ignored`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	scenes, err := listSceneFilesIn(dir)
	if err != nil {
		t.Fatalf("listSceneFilesIn failed: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scenes (broken file skipped), got %d", len(scenes))
	}

	a, b := scenes[0], scenes[1]
	if a.ID != "file:a-scene" || a.DisplayName != "A Scene" || a.Group != "Tests" || a.Description != "first" {
		t.Errorf("Unexpected first scene: %+v", a)
	}
	if a.Width != DefaultRenderHint.Width || a.Height != DefaultRenderHint.Height {
		t.Errorf("Expected default size for scene without one, got %dx%d", a.Width, a.Height)
	}
	if b.Group != fileGroup || b.Width != 320 || b.Height != 240 || b.Type != "file" {
		t.Errorf("Unexpected second scene: %+v", b)
	}
}

func TestListScenes(t *testing.T) {
	response, err := ListScenes()
	if err != nil {
		t.Fatalf("ListScenes failed: %v", err)
	}
	if len(response.Groups) == 0 || response.Groups[0].Name != builtinGroup {
		t.Fatalf("Expected built-in group first, got %+v", response.Groups)
	}

	builtins := response.Groups[0].Scenes
	if len(builtins) != len(BuiltinNames()) {
		t.Fatalf("Expected %d built-in scenes, got %d", len(BuiltinNames()), len(builtins))
	}
	for _, info := range builtins {
		if info.Type != "builtin" || info.DisplayName == "" || info.Width <= 0 || info.Height <= 0 {
			t.Errorf("Incomplete built-in scene info: %+v", info)
		}
		if _, err := Create(info.ID); err != nil {
			t.Errorf("Listed scene %q cannot be created: %v", info.ID, err)
		}
	}
}
