package render

import (
	"github.com/taigrr/softengine/pkg/math3d"
)

// DrawLine3D projects a world-space segment through camera and draws it in
// color. Overlays share the mesh pipeline's projection, so they line up
// with rendered meshes.
func (d *Device) DrawLine3D(camera *Camera, a, b math3d.Vec3, color Color) {
	viewProj := d.ProjectionMatrix().Mul(camera.ViewMatrix())
	d.drawLine3D(viewProj, a, b, color)
}

func (d *Device) drawLine3D(viewProj math3d.Mat4, a, b math3d.Vec3, color Color) {
	d.DrawLineColor(d.Project(a, viewProj), d.Project(b, viewProj), color)
}

// DrawAxes draws the world axes from the origin: X red, Y green, Z blue.
func (d *Device) DrawAxes(camera *Camera, length float64) {
	viewProj := d.ProjectionMatrix().Mul(camera.ViewMatrix())
	origin := math3d.Zero3()
	d.drawLine3D(viewProj, origin, math3d.V3(length, 0, 0), ColorRed)
	d.drawLine3D(viewProj, origin, math3d.V3(0, length, 0), ColorGreen)
	d.drawLine3D(viewProj, origin, math3d.V3(0, 0, length), ColorBlue)
}

// DrawGrid draws a size x size grid on the XZ plane at y=0, centered on the
// origin, with lines every step units.
func (d *Device) DrawGrid(camera *Camera, size, step float64, color Color) {
	if step <= 0 {
		return
	}
	viewProj := d.ProjectionMatrix().Mul(camera.ViewMatrix())
	half := size / 2
	for x := -half; x <= half; x += step {
		d.drawLine3D(viewProj, math3d.V3(x, 0, -half), math3d.V3(x, 0, half), color)
	}
	for z := -half; z <= half; z += step {
		d.drawLine3D(viewProj, math3d.V3(-half, 0, z), math3d.V3(half, 0, z), color)
	}
}
