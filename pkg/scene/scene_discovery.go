package scene

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/golang/glog"
)

// SceneInfo describes a scene that Create can build
type SceneInfo struct {
	ID          string // Name to pass to Create
	Name        string // Display name
	Description string // Optional description
	Type        string // "builtin" or "file"
	FilePath    string // Path to the YAML file (file type only)
}

// BuiltinScenes lists the scenes compiled into the binary
func BuiltinScenes() []SceneInfo {
	return []SceneInfo{
		{
			ID:          DefaultSceneName,
			Name:        "Default Scene",
			Description: "Diffuse, hollow glass and fuzzy gold spheres on a ground sphere",
			Type:        "builtin",
		},
		{
			ID:          FinalSceneName,
			Name:        "Final Scene",
			Description: "Random grid of small spheres around three large ones",
			Type:        "builtin",
		},
		{
			ID:          ShowcaseSceneName,
			Name:        "Material Showcase",
			Description: "One sphere of each material on a blue ground",
			Type:        "builtin",
		},
	}
}

// ListSceneFiles scans dir for YAML scene descriptions. A missing directory
// yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("while scanning scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			glog.Warningf("Failed to parse metadata for %s: %v", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})

	return scenes, nil
}

// ParseSceneMetadata reads the "# Scene:" and "# Description:" header
// comments of a scene file. Without them the name comes from the file name.
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:       filePath,
		Name:     titleCase(nameWithoutExt),
		Type:     "file",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return sceneInfo, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Header ends at the first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if name, ok := strings.CutPrefix(content, "Scene:"); ok {
			sceneInfo.Name = strings.TrimSpace(name)
		} else if description, ok := strings.CutPrefix(content, "Description:"); ok {
			sceneInfo.Description = strings.TrimSpace(description)
		}
	}

	return sceneInfo, scanner.Err()
}

// ListAllScenes returns the built-in scenes followed by the scene files in dir
func ListAllScenes(dir string) ([]SceneInfo, error) {
	files, err := ListSceneFiles(dir)
	if err != nil {
		return nil, err
	}
	return append(BuiltinScenes(), files...), nil
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
