package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Type        string `json:"type"`        // "builtin" or "json"
	FilePath    string `json:"filePath"`    // Path to JSON file (json type only)
}

// DefaultSceneID names the built-in scene
const DefaultSceneID = "default"

// ListSceneFiles scans dir for *.json scene descriptions.
// A missing directory yields an empty list; any other stat failure is
// returned.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []SceneInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scenes directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scenes path %s is not a directory", dir)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		scenes = append(scenes, parseSceneInfo(filePath))
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ListAllScenes returns the built-in scenes followed by the JSON scenes in dir
func ListAllScenes(dir string) ([]SceneInfo, error) {
	scenes := []SceneInfo{
		{ID: DefaultSceneID, DisplayName: "Default Scene", Type: "builtin"},
		{ID: SphereGridSceneID, DisplayName: "Sphere Grid", Type: "builtin"},
	}

	fileScenes, err := ListSceneFiles(dir)
	if err != nil {
		return nil, err
	}
	return append(scenes, fileScenes...), nil
}

// parseSceneInfo reads the scene name from the file, falling back to the
// file name when the file is unreadable or unnamed
func parseSceneInfo(filePath string) SceneInfo {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	info := SceneInfo{
		ID:          "json:" + nameWithoutExt,
		DisplayName: titleCase(nameWithoutExt),
		Type:        "json",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info
	}
	var header struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(data, &header) == nil && header.Name != "" {
		info.DisplayName = header.Name
	}
	return info
}

// titleCase converts a filename-style string to title case
// e.g., "plane-only" -> "Plane Only"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
