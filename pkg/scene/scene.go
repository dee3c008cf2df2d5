// Package scene loads scene descriptions from YAML files.
//
// A scene names a camera, a background color and a list of meshes. Each
// mesh is a built-in primitive, a glTF model file or inline vertex and face
// lists:
//
//	camera:
//	  position: [0, 0, 10]
//	  target: [0, 0, 0]
//	background: [0, 0, 0, 1]
//	meshes:
//	  - name: cube
//	    primitive: cube
//	    rotation: [0.3, 0.5, 0]
//	    spin: [0.01, 0.01, 0]
package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/models"
	"github.com/taigrr/softengine/pkg/render"
	"gopkg.in/yaml.v3"
)

// ModelExtent is the size model files are normalized to on load.
const ModelExtent = 2

// File is the YAML document.
type File struct {
	Camera     CameraConfig `yaml:"camera"`
	Background []float64    `yaml:"background,omitempty"`
	Meshes     []MeshConfig `yaml:"meshes"`
}

type CameraConfig struct {
	Position []float64 `yaml:"position"`
	Target   []float64 `yaml:"target,omitempty"`
}

type MeshConfig struct {
	Name      string `yaml:"name,omitempty"`
	Primitive string `yaml:"primitive,omitempty"`
	Model     string `yaml:"model,omitempty"`

	Vertices [][]float64 `yaml:"vertices,omitempty"`
	Faces    [][]int     `yaml:"faces,omitempty"`

	Position []float64 `yaml:"position,omitempty"`
	Rotation []float64 `yaml:"rotation,omitempty"`
	Spin     []float64 `yaml:"spin,omitempty"`
}

// Scene is a loaded scene ready to render.
type Scene struct {
	Camera     *render.Camera
	Background render.Color
	Meshes     []*models.Mesh
	// Spins holds per-mesh rotation added every frame, in radians.
	Spins []math3d.Vec3
}

// Renderers returns the meshes as the renderer's interface type.
func (s *Scene) Renderers() []render.MeshRenderer {
	out := make([]render.MeshRenderer, len(s.Meshes))
	for i, m := range s.Meshes {
		out[i] = m
	}
	return out
}

// Step advances every mesh by its spin.
func (s *Scene) Step() {
	for i, m := range s.Meshes {
		m.Rotation = m.Rotation.Add(s.Spins[i])
	}
}

// Load reads and parses the scene at path. Model paths are resolved
// relative to the scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	s, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// Parse builds a scene from YAML. baseDir resolves relative model paths.
func Parse(data []byte, baseDir string) (*Scene, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}

	s := &Scene{
		Camera:     render.NewCamera(),
		Background: render.ColorBlack,
	}

	var err error
	if s.Camera.Position, err = vec3(f.Camera.Position, math3d.V3(0, 0, 10)); err != nil {
		return nil, fmt.Errorf("camera position: %w", err)
	}
	if s.Camera.Target, err = vec3(f.Camera.Target, math3d.Zero3()); err != nil {
		return nil, fmt.Errorf("camera target: %w", err)
	}

	switch len(f.Background) {
	case 0:
	case 3:
		s.Background = render.Color{R: f.Background[0], G: f.Background[1], B: f.Background[2], A: 1}
	case 4:
		s.Background = render.Color{R: f.Background[0], G: f.Background[1], B: f.Background[2], A: f.Background[3]}
	default:
		return nil, fmt.Errorf("background: want 3 or 4 components, got %d", len(f.Background))
	}

	for i, mc := range f.Meshes {
		m, spin, err := mc.build(baseDir)
		if err != nil {
			name := mc.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("mesh %s: %w", name, err)
		}
		s.Meshes = append(s.Meshes, m)
		s.Spins = append(s.Spins, spin)
	}
	return s, nil
}

func (mc MeshConfig) build(baseDir string) (*models.Mesh, math3d.Vec3, error) {
	sources := 0
	for _, set := range []bool{mc.Primitive != "", mc.Model != "", len(mc.Vertices) > 0} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, math3d.Vec3{}, errors.New("set exactly one of primitive, model or vertices")
	}

	var m *models.Mesh
	switch {
	case mc.Primitive != "":
		switch mc.Primitive {
		case "cube":
			m = models.NewCube(mc.Name)
		case "triangle":
			m = models.NewTriangle(mc.Name, math3d.V3(-1, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0))
		default:
			return nil, math3d.Vec3{}, fmt.Errorf("unknown primitive %q", mc.Primitive)
		}

	case mc.Model != "":
		path := mc.Model
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		loader := models.NewGLTFLoader()
		loader.Normalize = ModelExtent
		var err error
		if m, err = loader.Load(path); err != nil {
			return nil, math3d.Vec3{}, err
		}
		if mc.Name != "" {
			m.Name = mc.Name
		}

	default:
		var err error
		if m, err = mc.inline(); err != nil {
			return nil, math3d.Vec3{}, err
		}
	}

	var err error
	if m.Position, err = vec3(mc.Position, math3d.Zero3()); err != nil {
		return nil, math3d.Vec3{}, fmt.Errorf("position: %w", err)
	}
	if m.Rotation, err = vec3(mc.Rotation, math3d.Zero3()); err != nil {
		return nil, math3d.Vec3{}, fmt.Errorf("rotation: %w", err)
	}
	spin, err := vec3(mc.Spin, math3d.Zero3())
	if err != nil {
		return nil, math3d.Vec3{}, fmt.Errorf("spin: %w", err)
	}
	return m, spin, nil
}

func (mc MeshConfig) inline() (*models.Mesh, error) {
	m := models.NewMesh(mc.Name, len(mc.Vertices), len(mc.Faces))
	for i, v := range mc.Vertices {
		if len(v) != 3 {
			return nil, fmt.Errorf("vertex %d: want 3 components, got %d", i, len(v))
		}
		m.Vertices[i] = math3d.V3(v[0], v[1], v[2])
	}
	for i, f := range mc.Faces {
		if len(f) != 3 {
			return nil, fmt.Errorf("face %d: want 3 indices, got %d", i, len(f))
		}
		m.Faces[i] = models.Face{A: f[0], B: f[1], C: f[2]}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.CalculateBounds()
	return m, nil
}

// vec3 converts a YAML list to a vector. An empty list yields def.
func vec3(v []float64, def math3d.Vec3) (math3d.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return math3d.V3(v[0], v[1], v[2]), nil
	default:
		return math3d.Vec3{}, fmt.Errorf("want 3 components, got %d", len(v))
	}
}
