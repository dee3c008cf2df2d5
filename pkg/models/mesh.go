// Package models provides mesh construction and loading for the soft engine.
package models

import (
	"fmt"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/render"
)

// ErrIndexOutOfRange is returned when a face references a vertex that does
// not exist in its mesh. It is the same error the renderer reports.
var ErrIndexOutOfRange = render.ErrIndexOutOfRange

var _ render.BoundedMeshRenderer = (*Mesh)(nil)

// Face is a triangle defined by three indices into Mesh.Vertices.
type Face struct {
	A, B, C int
}

// Mesh is a triangle mesh in model space placed in the world by Position and
// Rotation (Euler angles in radians: X pitch, Y yaw, Z roll).
//
// Vertices and Faces are sized at construction and filled in place by a
// loader; the renderer only reads them.
type Mesh struct {
	Name     string
	Position math3d.Vec3
	Rotation math3d.Vec3
	Vertices []math3d.Vec3
	Faces    []Face

	// Bounding box in model space (see CalculateBounds)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates a mesh with room for exactly vertexCount vertices and
// faceCount faces.
func NewMesh(name string, vertexCount, faceCount int) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]math3d.Vec3, vertexCount),
		Faces:    make([]Face, faceCount),
	}
}

// Validate checks that every face index is within [0, VertexCount()).
// The returned error wraps ErrIndexOutOfRange.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range [3]int{f.A, f.B, f.C} {
			if idx < 0 || idx >= n {
				return fmt.Errorf("mesh %q face %d: index %d with %d vertices: %w", m.Name, i, idx, n, ErrIndexOutOfRange)
			}
		}
	}
	return nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Zero3(), math3d.Zero3()
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// Normalize recenters the vertices on the origin and scales them so the
// largest bounding box dimension equals extent. Empty or flat-to-a-point
// meshes are left unchanged.
func (m *Mesh) Normalize(extent float64) {
	m.CalculateBounds()
	size := m.Size()
	maxDim := max(size.X, size.Y, size.Z)
	if maxDim <= 0 {
		return
	}

	scale := extent / maxDim
	transform := math3d.Scale(math3d.V3(scale, scale, scale)).Mul(math3d.Translate(m.Center().Negate()))
	for i := range m.Vertices {
		m.Vertices[i] = transform.MulVec3(m.Vertices[i])
	}
	m.CalculateBounds()
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// GetVertex returns the model-space position of vertex i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetVertex(i int) math3d.Vec3 {
	return m.Vertices[i]
}

// GetFace returns the vertex indices for face i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetFace(i int) [3]int {
	f := m.Faces[i]
	return [3]int{f.A, f.B, f.C}
}

// MeshName implements render.MeshRenderer interface.
func (m *Mesh) MeshName() string {
	return m.Name
}

// WorldPosition implements render.MeshRenderer interface.
func (m *Mesh) WorldPosition() math3d.Vec3 {
	return m.Position
}

// WorldRotation implements render.MeshRenderer interface.
func (m *Mesh) WorldRotation() math3d.Vec3 {
	return m.Rotation
}

// GetBounds returns the model-space bounding box.
// Implements render.BoundedMeshRenderer interface.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := *m
	clone.Vertices = append([]math3d.Vec3(nil), m.Vertices...)
	clone.Faces = append([]Face(nil), m.Faces...)
	return &clone
}
