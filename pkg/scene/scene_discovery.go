package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// ErrUnknownScene is returned by Create for names that are neither built in
// nor a readable scene file
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`                 // Name accepted by Create
	DisplayName string `json:"displayName"`        // UI display name
	Description string `json:"description"`        // Optional description
	Group       string `json:"group"`              // Grouping category
	Type        string `json:"type"`               // "builtin" or "file"
	FilePath    string `json:"filePath,omitempty"` // Path to the JSON file (file type only)
	Width       int    `json:"width"`              // Recommended output size
	Height      int    `json:"height"`
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

const (
	builtinGroup = "Built-in Scenes"
	fileGroup    = "Scene Files"
	filePrefix   = "file:"
)

type builtinScene struct {
	info   SceneInfo
	create func() *Scene
}

var builtinScenes = []builtinScene{
	{SceneInfo{ID: "default", Description: "Three reflective spheres in an open grey room"}, NewDefaultScene},
	{SceneInfo{ID: "single-sphere", Description: "One matte sphere under one light"}, NewSingleSphereScene},
	{SceneInfo{ID: "mirror", Description: "Two mirror spheres that bounce rays to the depth limit"}, NewMirrorScene},
	{SceneInfo{ID: "sphere-grid", Description: "6x6 grid of colored spheres on a reflective floor"}, NewSphereGridScene},
}

// Create builds a scene by name. Names are built-in scene IDs, "file:<stem>"
// IDs returned by ListScenes, or paths to JSON scene files.
func Create(name string) (*Scene, error) {
	for _, b := range builtinScenes {
		if b.info.ID == name {
			return b.create(), nil
		}
	}

	if stem, ok := strings.CutPrefix(name, filePrefix); ok {
		files, err := ListSceneFiles()
		if err != nil {
			return nil, err
		}
		for _, info := range files {
			if info.ID == filePrefix+stem {
				return NewFileScene(info.FilePath)
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownScene, name)
	}

	if strings.EqualFold(filepath.Ext(name), ".json") {
		if _, err := os.Stat(name); err == nil {
			return NewFileScene(name)
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownScene, name)
}

// BuiltinNames returns the IDs of the built-in scenes in listing order
func BuiltinNames() []string {
	names := make([]string, len(builtinScenes))
	for i, b := range builtinScenes {
		names[i] = b.info.ID
	}
	return names
}

// ListSceneFiles scans the scenes directory for JSON scene files
func ListSceneFiles() ([]SceneInfo, error) {
	// Try different possible paths for scenes directory
	possiblePaths := []string{"scenes", "../scenes"}
	var scenesDir string

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			scenesDir = path
			break
		}
	}

	if scenesDir == "" {
		return []SceneInfo{}, nil
	}

	return listSceneFilesIn(scenesDir)
}

func listSceneFilesIn(dir string) ([]SceneInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		info, err := sceneFileInfo(filePath)
		if err != nil {
			// Skip broken files but keep listing the rest
			fmt.Printf("Warning: skipping scene file %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

func sceneFileInfo(filePath string) (SceneInfo, error) {
	sf, err := loaders.LoadSceneFile(filePath)
	if err != nil {
		return SceneInfo{}, err
	}

	base := filepath.Base(filePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	info := SceneInfo{
		ID:          filePrefix + stem,
		DisplayName: titleCase(sf.Name),
		Description: sf.Description,
		Group:       fileGroup,
		Type:        "file",
		FilePath:    filePath,
		Width:       sf.Width,
		Height:      sf.Height,
	}
	if sf.Group != "" {
		info.Group = sf.Group
	}
	if info.Width == 0 || info.Height == 0 {
		info.Width, info.Height = DefaultRenderHint.Width, DefaultRenderHint.Height
	}
	return info, nil
}

// ListScenes returns both built-in and file scenes, grouped by category
func ListScenes() (ScenesResponse, error) {
	var response ScenesResponse

	builtIn := make([]SceneInfo, 0, len(builtinScenes))
	for _, b := range builtinScenes {
		info := b.info
		hint := b.create().Hint
		info.DisplayName = titleCase(info.ID)
		info.Group = builtinGroup
		info.Type = "builtin"
		info.Width, info.Height = hint.Width, hint.Height
		builtIn = append(builtIn, info)
	}

	fileScenes, err := ListSceneFiles()
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}

	// Group scenes by their Group field
	groupMap := make(map[string][]SceneInfo)
	for _, s := range append(builtIn, fileScenes...) {
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	response.Groups = append(response.Groups, SceneGroup{
		Name:   builtinGroup,
		Scenes: groupMap[builtinGroup],
	})
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "sphere-grid" -> "Sphere Grid"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
