package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/models"
	"github.com/taigrr/softengine/pkg/render"
)

const cubeScene = `
camera:
  position: [0, 2, 8]
  target: [0, 0, 0]
background: [0.1, 0.2, 0.3]
meshes:
  - name: box
    primitive: cube
    position: [1, 0, 0]
    rotation: [0.5, 0, 0]
    spin: [0.01, 0.02, 0]
  - name: tri
    vertices:
      - [-1, 0, 0]
      - [1, 0, 0]
      - [0, 1, 0]
    faces:
      - [0, 1, 2]
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(cubeScene), ".")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if s.Camera.Position != math3d.V3(0, 2, 8) || s.Camera.Target != math3d.Zero3() {
		t.Errorf("camera = %+v", s.Camera)
	}
	if want := (render.Color{R: 0.1, G: 0.2, B: 0.3, A: 1}); s.Background != want {
		t.Errorf("background = %v, want %v", s.Background, want)
	}
	if len(s.Meshes) != 2 || len(s.Spins) != 2 {
		t.Fatalf("got %d meshes and %d spins, want 2 each", len(s.Meshes), len(s.Spins))
	}

	box := s.Meshes[0]
	if box.Name != "box" || box.TriangleCount() != 12 {
		t.Errorf("box = %q with %d faces", box.Name, box.TriangleCount())
	}
	if box.Position != math3d.V3(1, 0, 0) || box.Rotation != math3d.V3(0.5, 0, 0) {
		t.Errorf("box placement = %v, %v", box.Position, box.Rotation)
	}

	tri := s.Meshes[1]
	if tri.VertexCount() != 3 || tri.Faces[0] != (models.Face{A: 0, B: 1, C: 2}) {
		t.Errorf("inline mesh = %+v", tri)
	}
	if s.Spins[1] != math3d.Zero3() {
		t.Errorf("default spin = %v, want zero", s.Spins[1])
	}
}

func TestParseDefaults(t *testing.T) {
	s, err := Parse([]byte("meshes:\n  - primitive: triangle\n"), ".")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Camera.Position != math3d.V3(0, 0, 10) {
		t.Errorf("default camera position = %v", s.Camera.Position)
	}
	if s.Background != render.ColorBlack {
		t.Errorf("default background = %v", s.Background)
	}
	if got := s.Meshes[0].TriangleCount(); got != 1 {
		t.Errorf("triangle primitive has %d faces", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"invalid yaml", "meshes: [", "parse scene"},
		{"short camera", "camera:\n  position: [1, 2]\n", "camera position"},
		{"bad background", "background: [1, 2]\n", "background"},
		{"unknown primitive", "meshes:\n  - primitive: teapot\n", "unknown primitive"},
		{"no source", "meshes:\n  - name: empty\n", "exactly one"},
		{"two sources", "meshes:\n  - primitive: cube\n    model: a.glb\n", "exactly one"},
		{"short vertex", "meshes:\n  - vertices: [[1, 2]]\n", "vertex 0"},
		{"quad face", "meshes:\n  - vertices: [[0,0,0],[1,0,0],[0,1,0]]\n    faces: [[0, 1, 2, 0]]\n", "face 0"},
		{"bad spin", "meshes:\n  - primitive: cube\n    spin: [1]\n", "spin"},
		{"missing model", "meshes:\n  - model: nope.glb\n", "open gltf"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml), t.TempDir())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestParseInvalidFaceIndex(t *testing.T) {
	yml := "meshes:\n  - name: broken\n    vertices: [[0,0,0],[1,0,0],[0,1,0]]\n    faces: [[0, 1, 3]]\n"
	_, err := Parse([]byte(yml), ".")
	if !errors.Is(err, models.ErrIndexOutOfRange) {
		t.Fatalf("Parse() = %v, want ErrIndexOutOfRange", err)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error %q does not name the mesh", err)
	}
}

func TestLoadResolvesModelPaths(t *testing.T) {
	dir := t.TempDir()

	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {4, 0, 0}, {0, 4, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
		}},
	}}
	if err := os.Mkdir(filepath.Join(dir, "models"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := gltf.SaveBinary(doc, filepath.Join(dir, "models", "tri.glb")); err != nil {
		t.Fatalf("save glb: %v", err)
	}

	path := filepath.Join(dir, "scene.yaml")
	yml := "meshes:\n  - name: loaded\n    model: models/tri.glb\n    position: [0, 0, -2]\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	m := s.Meshes[0]
	if m.Name != "loaded" || m.TriangleCount() != 1 {
		t.Errorf("mesh = %q with %d faces", m.Name, m.TriangleCount())
	}
	if m.Position != math3d.V3(0, 0, -2) {
		t.Errorf("position = %v", m.Position)
	}
	if size := m.Size(); size.X != ModelExtent || size.Y != ModelExtent {
		t.Errorf("model not normalized, size %v", size)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() = %v, want os.ErrNotExist", err)
	}
}

func TestStep(t *testing.T) {
	s, err := Parse([]byte(cubeScene), ".")
	if err != nil {
		t.Fatal(err)
	}

	s.Step()
	s.Step()

	got := s.Meshes[0].Rotation
	want := math3d.V3(0.52, 0.04, 0)
	if got.Sub(want).Len() > 1e-12 {
		t.Errorf("rotation after two steps = %v, want %v", got, want)
	}
	if len(s.Renderers()) != 2 {
		t.Errorf("Renderers() returned %d meshes", len(s.Renderers()))
	}
}
