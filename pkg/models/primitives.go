package models

import "github.com/taigrr/softengine/pkg/math3d"

// NewCube creates a cube spanning [-1, 1] on every axis: 8 vertices and
// 12 triangles, two per side.
func NewCube(name string) *Mesh {
	m := NewMesh(name, 8, 12)

	m.Vertices[0] = math3d.V3(-1, 1, 1)
	m.Vertices[1] = math3d.V3(1, 1, 1)
	m.Vertices[2] = math3d.V3(-1, -1, 1)
	m.Vertices[3] = math3d.V3(1, -1, 1)
	m.Vertices[4] = math3d.V3(-1, 1, -1)
	m.Vertices[5] = math3d.V3(1, 1, -1)
	m.Vertices[6] = math3d.V3(1, -1, -1)
	m.Vertices[7] = math3d.V3(-1, -1, -1)

	m.Faces[0] = Face{0, 1, 2}
	m.Faces[1] = Face{1, 2, 3}
	m.Faces[2] = Face{1, 3, 6}
	m.Faces[3] = Face{1, 5, 6}
	m.Faces[4] = Face{0, 1, 4}
	m.Faces[5] = Face{1, 4, 5}
	m.Faces[6] = Face{2, 3, 7}
	m.Faces[7] = Face{3, 6, 7}
	m.Faces[8] = Face{0, 2, 7}
	m.Faces[9] = Face{0, 4, 7}
	m.Faces[10] = Face{4, 5, 6}
	m.Faces[11] = Face{4, 6, 7}

	m.CalculateBounds()
	return m
}

// NewTriangle creates a single-face mesh from three model-space points.
func NewTriangle(name string, a, b, c math3d.Vec3) *Mesh {
	m := NewMesh(name, 3, 1)
	m.Vertices[0], m.Vertices[1], m.Vertices[2] = a, b, c
	m.Faces[0] = Face{0, 1, 2}
	m.CalculateBounds()
	return m
}
