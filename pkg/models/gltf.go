package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/softengine/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// Normalize, when > 0, recenters the mesh and scales its largest
	// dimension to this extent.
	Normalize float64
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{}
}

// LoadGLB loads a GLTF or GLB file with the default loader options.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and merges all of its triangle primitives
// into a single Mesh named after the file.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := l.FromDocument(filepath.Base(path), doc)
	if err != nil {
		return nil, err
	}
	return mesh, nil
}

// FromDocument builds a Mesh from an already decoded document.
func (l *GLTFLoader) FromDocument(name string, doc *gltf.Document) (*Mesh, error) {
	var (
		vertices []math3d.Vec3
		faces    []Face
	)

	for _, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				// Lines and points carry no faces
				continue
			}

			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}

			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: read positions: %w", m.Name, pi, err)
			}

			base := len(vertices)
			for _, p := range positions {
				vertices = append(vertices, math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
			}

			if prim.Indices == nil {
				// No indices, assume sequential triangles
				for i := 0; i+2 < len(positions); i += 3 {
					faces = append(faces, Face{base + i, base + i + 1, base + i + 2})
				}
				continue
			}

			indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: read indices: %w", m.Name, pi, err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				faces = append(faces, Face{
					base + int(indices[i]),
					base + int(indices[i+1]),
					base + int(indices[i+2]),
				})
			}
		}
	}

	mesh := NewMesh(name, len(vertices), len(faces))
	copy(mesh.Vertices, vertices)
	copy(mesh.Faces, faces)

	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	if l.Normalize > 0 {
		mesh.Normalize(l.Normalize)
	} else {
		mesh.CalculateBounds()
	}

	return mesh, nil
}
