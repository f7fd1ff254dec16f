package loaders

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-montecarlo-raytracer/pkg/core"
	"github.com/df07/go-montecarlo-raytracer/pkg/geometry"
	"github.com/df07/go-montecarlo-raytracer/pkg/material"
	"github.com/df07/go-montecarlo-raytracer/pkg/renderer"
)

// ErrInvalidScene is wrapped by every scene description error
var ErrInvalidScene = errors.New("invalid scene description")

// SceneFile is the YAML layout of a scene description
type SceneFile struct {
	Name      string                  `yaml:"name"`
	Camera    CameraSpec              `yaml:"camera"`
	Materials map[string]MaterialSpec `yaml:"materials"`
	Spheres   []SphereSpec            `yaml:"spheres"`
}

// CameraSpec overrides fields of renderer.DefaultCameraConfig; absent fields keep their defaults
type CameraSpec struct {
	Center          *Vec3Value   `yaml:"center"`
	LookAt          *Vec3Value   `yaml:"look_at"`
	Up              *Vec3Value   `yaml:"up"`
	Width           *int         `yaml:"width"`
	AspectRatio     *AspectRatio `yaml:"aspect_ratio"`
	VFov            *float64     `yaml:"vfov"`
	DefocusAngle    *float64     `yaml:"defocus_angle"`
	FocusDistance   *float64     `yaml:"focus_distance"`
	SamplesPerPixel *int         `yaml:"samples_per_pixel"`
	MaxDepth        *int         `yaml:"max_depth"`
}

// MaterialSpec describes one named material
type MaterialSpec struct {
	Type   string      `yaml:"type"` // "lambertian", "metal" or "dielectric"
	Albedo *ColorValue `yaml:"albedo"`
	Fuzz   float64     `yaml:"fuzz"`
	IOR    float64     `yaml:"ior"`
}

// SphereSpec places one sphere; a negative radius flips its normals
type SphereSpec struct {
	Center   Vec3Value `yaml:"center"`
	Radius   float64   `yaml:"radius"`
	Material string    `yaml:"material"`
}

// Vec3Value is a point or direction written as [x, y, z]
type Vec3Value core.Vec3

// UnmarshalYAML implements yaml.Unmarshaler
func (v *Vec3Value) UnmarshalYAML(node *yaml.Node) error {
	var xyz []float64
	if err := node.Decode(&xyz); err != nil || len(xyz) != 3 {
		return fmt.Errorf("line %d: expected a vector [x, y, z]", node.Line)
	}
	*v = Vec3Value(core.NewVec3(xyz[0], xyz[1], xyz[2]))
	return nil
}

// ColorValue is a linear color written either as [r, g, b] or as an SVG color name
type ColorValue core.Vec3

// UnmarshalYAML implements yaml.Unmarshaler
func (c *ColorValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		rgba, ok := colornames.Map[strings.ToLower(strings.TrimSpace(node.Value))]
		if !ok {
			return fmt.Errorf("line %d: unknown color name %q", node.Line, node.Value)
		}
		*c = ColorValue(core.NewVec3(namedChannel(rgba.R), namedChannel(rgba.G), namedChannel(rgba.B)))
		return nil
	}

	var rgb []float64
	if err := node.Decode(&rgb); err != nil || len(rgb) != 3 {
		return fmt.Errorf("line %d: expected a color name or [r, g, b]", node.Line)
	}
	*c = ColorValue(core.NewVec3(rgb[0], rgb[1], rgb[2]))
	return nil
}

// namedChannel converts an 8-bit display channel to linear with the renderer's gamma of 2
func namedChannel(c uint8) float64 {
	v := float64(c) / 255
	return v * v
}

// AspectRatio is written as a number (1.5) or as "width:height" ("16:9")
type AspectRatio float64

// UnmarshalYAML implements yaml.Unmarshaler
func (a *AspectRatio) UnmarshalYAML(node *yaml.Node) error {
	if w, h, ok := strings.Cut(node.Value, ":"); ok && node.Kind == yaml.ScalarNode {
		width, errW := strconv.ParseFloat(strings.TrimSpace(w), 64)
		height, errH := strconv.ParseFloat(strings.TrimSpace(h), 64)
		if errW != nil || errH != nil || height == 0 {
			return fmt.Errorf("line %d: invalid aspect ratio %q", node.Line, node.Value)
		}
		*a = AspectRatio(width / height)
		return nil
	}

	var ratio float64
	if err := node.Decode(&ratio); err != nil {
		return fmt.Errorf("line %d: invalid aspect ratio %q", node.Line, node.Value)
	}
	*a = AspectRatio(ratio)
	return nil
}

// LoadedScene is a scene description resolved into renderable objects
type LoadedScene struct {
	Name      string
	World     *geometry.HittableList
	Camera    renderer.CameraConfig
	Materials map[string]material.Material
}

// LoadSceneFile reads and builds a YAML scene description from disk
func LoadSceneFile(path string) (*LoadedScene, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("while opening scene file: %w", err)
	}
	defer file.Close()

	scene, err := LoadScene(file)
	if err != nil {
		return nil, fmt.Errorf("while loading %s: %w", path, err)
	}
	return scene, nil
}

// LoadScene decodes and builds a YAML scene description. Unknown keys are errors.
func LoadScene(r io.Reader) (*LoadedScene, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var file SceneFile
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidScene)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}

	return file.Build()
}

// Build resolves the description: materials are built once and shared by
// every sphere that names them
func (f *SceneFile) Build() (*LoadedScene, error) {
	camera, err := f.Camera.apply(renderer.DefaultCameraConfig())
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(f.Materials))
	for name := range f.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	materials := make(map[string]material.Material, len(names))
	for _, name := range names {
		m, err := f.Materials[name].build()
		if err != nil {
			return nil, fmt.Errorf("%w: material %q: %v", ErrInvalidScene, name, err)
		}
		materials[name] = m
	}

	world := geometry.NewHittableList()
	for i, spec := range f.Spheres {
		if spec.Radius == 0 || math.IsNaN(spec.Radius) || math.IsInf(spec.Radius, 0) {
			return nil, fmt.Errorf("%w: sphere %d: radius must be finite and non-zero, got %v", ErrInvalidScene, i, spec.Radius)
		}
		m, ok := materials[spec.Material]
		if !ok {
			return nil, fmt.Errorf("%w: sphere %d: unknown material %q", ErrInvalidScene, i, spec.Material)
		}
		world.Add(geometry.NewSphere(core.Vec3(spec.Center), spec.Radius, m))
	}

	return &LoadedScene{
		Name:      f.Name,
		World:     world,
		Camera:    camera,
		Materials: materials,
	}, nil
}

func (m MaterialSpec) build() (material.Material, error) {
	switch m.Type {
	case "lambertian":
		albedo, err := m.albedo()
		if err != nil {
			return nil, err
		}
		return material.NewLambertian(albedo), nil
	case "metal":
		albedo, err := m.albedo()
		if err != nil {
			return nil, err
		}
		if m.Fuzz < 0 || m.Fuzz > 1 {
			return nil, fmt.Errorf("fuzz must be in [0,1], got %v", m.Fuzz)
		}
		return material.NewMetal(albedo, m.Fuzz), nil
	case "dielectric":
		if m.Albedo != nil {
			return nil, fmt.Errorf("dielectric takes no albedo")
		}
		if !(m.IOR > 0) {
			return nil, fmt.Errorf("ior must be positive, got %v", m.IOR)
		}
		return material.NewDielectric(m.IOR), nil
	case "":
		return nil, fmt.Errorf("missing type")
	default:
		return nil, fmt.Errorf("unknown type %q", m.Type)
	}
}

func (m MaterialSpec) albedo() (core.Vec3, error) {
	if m.Albedo == nil {
		return core.Vec3{}, fmt.Errorf("%s needs an albedo", m.Type)
	}
	albedo := core.Vec3(*m.Albedo)
	for _, c := range []float64{albedo.X, albedo.Y, albedo.Z} {
		if !(c >= 0 && c <= 1) {
			return core.Vec3{}, fmt.Errorf("albedo %v has a channel outside [0,1]", albedo)
		}
	}
	return albedo, nil
}

func (c CameraSpec) apply(config renderer.CameraConfig) (renderer.CameraConfig, error) {
	if c.Center != nil {
		config.Center = core.Vec3(*c.Center)
	}
	if c.LookAt != nil {
		config.LookAt = core.Vec3(*c.LookAt)
	}
	if c.Up != nil {
		config.Up = core.Vec3(*c.Up)
	}
	if c.Width != nil {
		config.Width = *c.Width
	}
	if c.AspectRatio != nil {
		config.AspectRatio = float64(*c.AspectRatio)
	}
	if c.VFov != nil {
		config.VFov = *c.VFov
	}
	if c.DefocusAngle != nil {
		config.DefocusAngle = *c.DefocusAngle
	}
	if c.FocusDistance != nil {
		config.FocusDistance = *c.FocusDistance
	}
	if c.SamplesPerPixel != nil {
		config.SamplesPerPixel = *c.SamplesPerPixel
	}
	if c.MaxDepth != nil {
		config.MaxDepth = *c.MaxDepth
	}

	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("%w: camera: %w", ErrInvalidScene, err)
	}
	return config, nil
}
