package render

import (
	"errors"
	"fmt"

	"github.com/taigrr/softengine/pkg/math3d"
	"golang.org/x/sync/errgroup"
)

// ErrIndexOutOfRange is returned when a face references a vertex that does
// not exist in its mesh.
var ErrIndexOutOfRange = errors.New("face index out of range")

// MeshRenderer is the read-only view of a mesh the pipeline needs.
// This interface allows drawing meshes without importing the models package.
type MeshRenderer interface {
	MeshName() string
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) math3d.Vec3
	GetFace(i int) [3]int
	WorldPosition() math3d.Vec3
	WorldRotation() math3d.Vec3 // Euler radians: X pitch, Y yaw, Z roll
}

// BoundedMeshRenderer extends MeshRenderer with a model-space bounding box
// for frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// RenderStats describes one Render call.
type RenderStats struct {
	MeshesTested int // Meshes considered
	MeshesCulled int // Meshes skipped by frustum culling
	MeshesDrawn  int // Meshes rasterized
	Edges        int // Edges handed to the line rasterizer
}

// WorldMatrix returns the model to world transform for a mesh: rotate by
// yaw (rotation.Y), pitch (rotation.X) and roll (rotation.Z), then translate
// by position.
func WorldMatrix(position, rotation math3d.Vec3) math3d.Mat4 {
	return math3d.Translate(position).Mul(math3d.RotationYawPitchRoll(rotation.Y, rotation.X, rotation.Z))
}

// segment is one projected triangle edge.
type segment struct {
	p0, p1 math3d.Vec2
}

// projectedMesh is the pure result of projecting one mesh.
type projectedMesh struct {
	segments []segment
	culled   bool
	err      error
}

// Render draws every face of every mesh as three edges (A-B, B-C, C-A)
// seen from camera. Meshes are drawn in order, so later meshes overdraw
// earlier ones. Render neither clears nor presents the framebuffer.
//
// A mesh with a face index outside its vertex range is not drawn and Render
// returns an error wrapping ErrIndexOutOfRange; meshes before it have
// already been drawn.
func (d *Device) Render(camera *Camera, meshes []MeshRenderer) error {
	d.Stats = RenderStats{}

	view := camera.ViewMatrix()
	proj := d.ProjectionMatrix()

	var frustum *Frustum
	if d.CullMeshes {
		f := ExtractFrustum(proj.Mul(view))
		frustum = &f
	}

	if d.Workers <= 1 || len(meshes) < 2 {
		for _, m := range meshes {
			if err := d.drawProjected(d.projectMesh(m, view, proj, frustum)); err != nil {
				return err
			}
		}
		return nil
	}

	results := make([]projectedMesh, len(meshes))
	var g errgroup.Group
	g.SetLimit(d.Workers)
	for i, m := range meshes {
		g.Go(func() error {
			results[i] = d.projectMesh(m, view, proj, frustum)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		if err := d.drawProjected(r); err != nil {
			return err
		}
	}
	return nil
}

// projectMesh maps a mesh to its screen-space edges. It only reads shared
// state, so meshes can be projected concurrently.
func (d *Device) projectMesh(m MeshRenderer, view, proj math3d.Mat4, frustum *Frustum) projectedMesh {
	if err := validateFaces(m); err != nil {
		return projectedMesh{err: err}
	}

	world := WorldMatrix(m.WorldPosition(), m.WorldRotation())

	if frustum != nil {
		if b, ok := m.(BoundedMeshRenderer); ok {
			lo, hi := b.GetBounds()
			if !frustum.IntersectAABB(NewAABB(lo, hi).Transform(world)) {
				return projectedMesh{culled: true}
			}
		}
	}

	transform := proj.Mul(view.Mul(world))

	n := m.TriangleCount()
	segments := make([]segment, 0, n*3)
	for i := range n {
		face := m.GetFace(i)
		a := d.Project(m.GetVertex(face[0]), transform)
		b := d.Project(m.GetVertex(face[1]), transform)
		c := d.Project(m.GetVertex(face[2]), transform)

		segments = append(segments, segment{a, b}, segment{b, c}, segment{c, a})
	}
	return projectedMesh{segments: segments}
}

func (d *Device) drawProjected(r projectedMesh) error {
	d.Stats.MeshesTested++
	if r.err != nil {
		return r.err
	}
	if r.culled {
		d.Stats.MeshesCulled++
		return nil
	}

	for _, s := range r.segments {
		d.DrawLine(s.p0, s.p1)
	}
	d.Stats.MeshesDrawn++
	d.Stats.Edges += len(r.segments)
	return nil
}

func validateFaces(m MeshRenderer) error {
	n := m.VertexCount()
	for i := range m.TriangleCount() {
		for _, idx := range m.GetFace(i) {
			if idx < 0 || idx >= n {
				return fmt.Errorf("mesh %q face %d: index %d with %d vertices: %w", m.MeshName(), i, idx, n, ErrIndexOutOfRange)
			}
		}
	}
	return nil
}
