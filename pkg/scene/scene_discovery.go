package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by Load
	DisplayName string `json:"displayName"` // Human readable name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the JSON file (file type only)
}

// builtinScenes lists the scenes compiled into the binary, in display order
var builtinScenes = []SceneInfo{
	{ID: "default", DisplayName: "Default Scene", Description: "Diffuse, hollow glass and gold spheres on a ground sphere", Type: "builtin"},
	{ID: "twospheres", DisplayName: "Two Spheres", Description: "Red and blue spheres touching on the view axis", Type: "builtin"},
	{ID: "dof", DisplayName: "Depth Of Field", Description: "Default scene through a wide aperture", Type: "builtin"},
	{ID: "random", DisplayName: "Random Spheres", Description: "Field of random small spheres around three large ones", Type: "builtin"},
}

// BuiltinScenes returns the scenes compiled into the binary
func BuiltinScenes() []SceneInfo {
	return append([]SceneInfo(nil), builtinScenes...)
}

// NewBuiltin creates a built-in scene by ID. seed only affects scenes with a random layout.
func NewBuiltin(id string, seed int64) (*Scene, error) {
	switch id {
	case "default":
		return NewDefaultScene(), nil
	case "twospheres":
		return NewTwoSpheresScene(), nil
	case "dof":
		return NewDepthOfFieldScene(), nil
	case "random":
		return NewRandomScene(seed), nil
	case "":
		return nil, errors.New("empty scene name")
	}
	return nil, fmt.Errorf("unknown scene %q", id)
}

// Load resolves nameOrPath to a scene: a built-in ID, a path to a .json file,
// or the base name of a .json file in scenesDir
func Load(nameOrPath, scenesDir string, seed int64) (*Scene, error) {
	if strings.HasSuffix(nameOrPath, ".json") {
		return LoadFile(nameOrPath)
	}

	s, err := NewBuiltin(nameOrPath, seed)
	if err == nil {
		return s, nil
	}

	if nameOrPath != "" && scenesDir != "" {
		candidate := filepath.Join(scenesDir, nameOrPath+".json")
		if _, statErr := os.Stat(candidate); statErr == nil {
			return LoadFile(candidate)
		}
	}
	return nil, err
}

// ListSceneFiles scans dir for JSON scene files. A missing directory yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		info, err := ParseSceneFileMetadata(filePath)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// ParseSceneFileMetadata reads the name and description of a scene file,
// falling back to the file name
func ParseSceneFileMetadata(filePath string) (SceneInfo, error) {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	info := SceneInfo{
		ID:          nameWithoutExt,
		DisplayName: titleCase(nameWithoutExt),
		Type:        "file",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info, fmt.Errorf("read %s: %w", filePath, err)
	}

	var meta struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return info, fmt.Errorf("parse %s: %w", filePath, err)
	}
	if meta.Name != "" {
		info.DisplayName = meta.Name
	}
	info.Description = meta.Description
	return info, nil
}

// titleCase converts a filename-style string to title case
// e.g., "glass-shell" -> "Glass Shell"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
