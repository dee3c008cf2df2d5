package render

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/taigrr/softengine/pkg/math3d"
)

// testMesh is a minimal BoundedMeshRenderer.
type testMesh struct {
	name     string
	vertices []math3d.Vec3
	faces    [][3]int
	position math3d.Vec3
	rotation math3d.Vec3
}

func (m *testMesh) MeshName() string { return m.name }
func (m *testMesh) VertexCount() int { return len(m.vertices) }
func (m *testMesh) TriangleCount() int { return len(m.faces) }
func (m *testMesh) GetVertex(i int) math3d.Vec3 { return m.vertices[i] }
func (m *testMesh) GetFace(i int) [3]int { return m.faces[i] }
func (m *testMesh) WorldPosition() math3d.Vec3 { return m.position }
func (m *testMesh) WorldRotation() math3d.Vec3 { return m.rotation }
func (m *testMesh) GetBounds() (lo, hi math3d.Vec3) { return math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1) }

func cubeMesh(name string, position, rotation math3d.Vec3) *testMesh {
	return &testMesh{
		name: name,
		vertices: []math3d.Vec3{
			{X: -1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1},
			{X: -1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: -1},
		},
		faces: [][3]int{
			{0, 1, 2}, {1, 2, 3}, {1, 3, 6}, {1, 5, 6}, {0, 1, 4}, {1, 4, 5},
			{2, 3, 7}, {3, 6, 7}, {0, 2, 7}, {0, 4, 7}, {4, 5, 6}, {4, 6, 7},
		},
		position: position,
		rotation: rotation,
	}
}

func TestWorldMatrix(t *testing.T) {
	t.Run("translation only", func(t *testing.T) {
		m := WorldMatrix(math3d.V3(2, 3, 4), math3d.Zero3())
		if got := m.TransformCoordinate(math3d.Zero3()); got != math3d.V3(2, 3, 4) {
			t.Errorf("origin maps to %v, want (2, 3, 4)", got)
		}
	})

	t.Run("rotates before translating", func(t *testing.T) {
		m := WorldMatrix(math3d.V3(10, 0, 0), math3d.V3(0, math.Pi/2, 0))
		got := m.TransformCoordinate(math3d.V3(1, 0, 0))
		// Yaw of 90 degrees takes +X to -Z.
		want := math3d.V3(10, 0, -1)
		if got.Sub(want).Len() > 1e-9 {
			t.Errorf("got %v, want %v", got, want)
		}
	})
}

// segmentDistance returns the distance from p to the segment a-b.
func segmentDistance(p, a, b math3d.Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Sub(a).Len()
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = max(0, min(1, t))
	return p.Sub(a.Add(ab.Scale(t))).Len()
}

func TestRenderTriangle(t *testing.T) {
	fb := NewFramebuffer(200, 200)
	d := NewDevice(fb, nil)
	d.Clear(ColorBlack)

	cam := &Camera{Position: math3d.V3(0, 0, 10)}
	tri := &testMesh{
		name:     "tri",
		vertices: []math3d.Vec3{{X: -1}, {X: 1}, {Y: 1}},
		faces:    [][3]int{{0, 1, 2}},
	}

	if err := d.Render(cam, []MeshRenderer{tri}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	corners := []math3d.Vec2{math3d.V2(51, 100), math3d.V2(148, 100), math3d.V2(100, 51)}
	bg := ColorBlack.RGBA()

	for _, c := range corners {
		if fb.GetPixel(int(c.X), int(c.Y)) == bg {
			t.Errorf("corner %v not drawn", c)
		}
	}

	// Each edge has a lit pixel next to its midpoint.
	for i := range corners {
		a, b := corners[i], corners[(i+1)%3]
		mid := a.Add(b.Sub(a).Scale(0.5))
		lit := false
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if fb.GetPixel(int(mid.X)+dx, int(mid.Y)+dy) != bg {
					lit = true
				}
			}
		}
		if !lit {
			t.Errorf("edge %v-%v has no pixel near its midpoint", a, b)
		}
	}

	// No pixel is far from every edge.
	for y := range fb.Height {
		for x := range fb.Width {
			if fb.GetPixel(x, y) == bg {
				continue
			}
			p := math3d.V2(float64(x), float64(y))
			near := math.Inf(1)
			for i := range corners {
				near = min(near, segmentDistance(p, corners[i], corners[(i+1)%3]))
			}
			if near > 1.5 {
				t.Errorf("stray pixel at (%d, %d), %.2f from the triangle", x, y, near)
			}
		}
	}

	if d.Stats.MeshesDrawn != 1 || d.Stats.Edges != 3 {
		t.Errorf("stats = %+v, want 1 mesh and 3 edges", d.Stats)
	}
}

func TestRenderEmpty(t *testing.T) {
	d := NewDevice(NewFramebuffer(32, 32), nil)
	d.Clear(ColorBlack)
	before := bytes.Clone(d.Framebuffer().Pix)

	cam := &Camera{Position: math3d.V3(0, 0, 10)}
	empty := &testMesh{name: "empty"}

	if err := d.Render(cam, nil); err != nil {
		t.Fatalf("Render(nil): %v", err)
	}
	if err := d.Render(cam, []MeshRenderer{empty}); err != nil {
		t.Fatalf("Render(empty): %v", err)
	}
	if !bytes.Equal(before, d.Framebuffer().Pix) {
		t.Error("rendering nothing modified the buffer")
	}
}

func TestRenderInvalidFace(t *testing.T) {
	cam := &Camera{Position: math3d.V3(0, 0, 10)}
	good := cubeMesh("good", math3d.V3(-2, 0, 0), math3d.Zero3())
	bad := &testMesh{
		name:     "bad",
		vertices: []math3d.Vec3{{X: -1}, {X: 1}, {Y: 1}},
		faces:    [][3]int{{0, 1, 2}, {0, 1, 3}},
	}
	after := cubeMesh("after", math3d.V3(2, 0, 0), math3d.Zero3())

	for _, workers := range []int{1, 4} {
		d := NewDevice(NewFramebuffer(100, 100), nil)
		d.Workers = workers
		err := d.Render(cam, []MeshRenderer{good, bad, after})
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("workers=%d: Render() = %v, want ErrIndexOutOfRange", workers, err)
		}
		if d.Stats.MeshesDrawn != 1 {
			t.Errorf("workers=%d: %d meshes drawn, want 1", workers, d.Stats.MeshesDrawn)
		}

		only := NewDevice(NewFramebuffer(100, 100), nil)
		if err := only.Render(cam, []MeshRenderer{good}); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(d.Framebuffer().Pix, only.Framebuffer().Pix) {
			t.Errorf("workers=%d: buffer differs from drawing the first mesh alone", workers)
		}
	}

	negative := &testMesh{name: "neg", vertices: []math3d.Vec3{{}}, faces: [][3]int{{0, -1, 0}}}
	d := NewDevice(NewFramebuffer(10, 10), nil)
	if err := d.Render(cam, []MeshRenderer{negative}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("negative index: Render() = %v, want ErrIndexOutOfRange", err)
	}
}

func TestRenderConcurrentMatchesSequential(t *testing.T) {
	cam := &Camera{Position: math3d.V3(0, 3, 12)}
	var meshes []MeshRenderer
	for i := range 9 {
		f := float64(i)
		meshes = append(meshes, cubeMesh("cube", math3d.V3(f-4, math.Sin(f), -f), math3d.V3(f*0.3, f*0.7, f*0.1)))
	}

	render := func(workers int) []byte {
		d := NewDevice(NewFramebuffer(160, 120), nil)
		d.Workers = workers
		d.Clear(ColorBlack)
		if err := d.Render(cam, meshes); err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		return d.Framebuffer().Pix
	}

	want := render(1)
	for _, workers := range []int{2, 4, 16} {
		if !bytes.Equal(render(workers), want) {
			t.Errorf("workers=%d output differs from sequential", workers)
		}
	}
}

func TestRenderCulling(t *testing.T) {
	cam := &Camera{Position: math3d.V3(0, 0, 10)}
	visible := cubeMesh("visible", math3d.Zero3(), math3d.Zero3())
	behind := cubeMesh("behind", math3d.V3(0, 0, 40), math3d.Zero3())

	d := NewDevice(NewFramebuffer(100, 100), nil)
	d.CullMeshes = true
	if err := d.Render(cam, []MeshRenderer{visible, behind}); err != nil {
		t.Fatal(err)
	}

	want := RenderStats{MeshesTested: 2, MeshesCulled: 1, MeshesDrawn: 1, Edges: 36}
	if d.Stats != want {
		t.Errorf("stats = %+v, want %+v", d.Stats, want)
	}

	d.CullMeshes = false
	if err := d.Render(cam, []MeshRenderer{visible, behind}); err != nil {
		t.Fatal(err)
	}
	if d.Stats.MeshesCulled != 0 || d.Stats.MeshesDrawn != 2 {
		t.Errorf("culling disabled: stats = %+v", d.Stats)
	}
}

func TestRenderLaterMeshesOverdraw(t *testing.T) {
	cam := &Camera{Position: math3d.V3(0, 0, 10)}
	tri := &testMesh{
		name:     "tri",
		vertices: []math3d.Vec3{{X: -1}, {X: 1}, {Y: 1}},
		faces:    [][3]int{{0, 1, 2}},
	}

	d := NewDevice(NewFramebuffer(200, 200), nil)
	d.LineColor = ColorRed
	if err := d.Render(cam, []MeshRenderer{tri}); err != nil {
		t.Fatal(err)
	}
	d.LineColor = ColorCyan
	if err := d.Render(cam, []MeshRenderer{tri}); err != nil {
		t.Fatal(err)
	}

	if got := d.Framebuffer().GetPixel(51, 100); got != ColorCyan.RGBA() {
		t.Errorf("corner = %v, want the later color", got)
	}
}

func BenchmarkRender(b *testing.B) {
	d := NewDevice(NewFramebuffer(320, 240), nil)
	cam := &Camera{Position: math3d.V3(0, 0, 10)}
	meshes := []MeshRenderer{cubeMesh("cube", math3d.Zero3(), math3d.V3(0.3, 0.5, 0))}

	for b.Loop() {
		d.Clear(ColorBlack)
		_ = d.Render(cam, meshes)
	}
}
