package scene

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-montecarlo-raytracer/pkg/geometry"
	"github.com/df07/go-montecarlo-raytracer/pkg/loaders"
	"github.com/df07/go-montecarlo-raytracer/pkg/renderer"
)

// ErrUnknownScene is returned by Create for names that are neither built in nor scene files
var ErrUnknownScene = errors.New("unknown scene")

// Scene contains all the elements needed for rendering
type Scene struct {
	Name   string
	World  *geometry.HittableList // Objects in the scene
	Camera renderer.CameraConfig
}

// Built-in scene names accepted by Create
const (
	DefaultSceneName  = "default"
	FinalSceneName    = "final"
	ShowcaseSceneName = "showcase"
)

// Create builds a scene by name. Names ending in .yaml or .yml are loaded
// from disk; seed only affects scenes with random content.
func Create(name string, seed int64) (*Scene, error) {
	switch name {
	case DefaultSceneName:
		return NewDefaultScene(), nil
	case FinalSceneName:
		return NewFinalScene(seed), nil
	case ShowcaseSceneName:
		return NewShowcaseScene(), nil
	}

	if IsSceneFile(name) {
		return NewFileScene(name)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}

// IsSceneFile reports whether path names a YAML scene description
func IsSceneFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// NewFileScene loads a scene description file. The scene is named after
// the file unless the description names itself.
func NewFileScene(path string) (*Scene, error) {
	loaded, err := loaders.LoadSceneFile(path)
	if err != nil {
		return nil, err
	}

	name := loaded.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return &Scene{
		Name:   name,
		World:  loaded.World,
		Camera: loaded.Camera,
	}, nil
}
