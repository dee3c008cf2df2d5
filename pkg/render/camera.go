package render

import (
	"github.com/taigrr/softengine/pkg/math3d"
)

// Camera is a look-at camera: it sits at Position and faces Target with the
// world Y axis as up.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3
}

// NewCamera creates a camera at the origin looking at the origin. Callers
// are expected to move it before rendering.
func NewCamera() *Camera {
	return &Camera{}
}

// ViewMatrix returns the world to view space transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return math3d.LookAt(c.Position, c.Target, math3d.Up())
}

// Distance returns the distance from Position to Target.
func (c *Camera) Distance() float64 {
	return c.Target.Sub(c.Position).Len()
}

// SetDistance moves the camera along its viewing direction so it ends up d
// units away from the target. A camera sitting on its target is left alone.
func (c *Camera) SetDistance(d float64) {
	dir := c.Position.Sub(c.Target).Normalize()
	if dir == math3d.Zero3() {
		return
	}
	c.Position = c.Target.Add(dir.Scale(d))
}
