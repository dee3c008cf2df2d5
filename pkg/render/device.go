package render

import (
	"errors"
	"math"

	"github.com/taigrr/softengine/pkg/math3d"
)

// Projection defaults.
const (
	DefaultFOV  = 0.78 // vertical field of view, radians
	DefaultNear = 0.01
	DefaultFar  = 100
)

// ErrNoPresenter is returned by Present when the device has no presenter.
var ErrNoPresenter = errors.New("no presenter configured")

// Presenter publishes a finished frame, e.g. to a terminal, a window or
// an image file.
type Presenter interface {
	Present(fb *Framebuffer) error
}

// PresenterFunc adapts a function to the Presenter interface.
type PresenterFunc func(fb *Framebuffer) error

// Present implements Presenter.
func (f PresenterFunc) Present(fb *Framebuffer) error {
	return f(fb)
}

// Device owns a framebuffer and renders wireframe meshes into it.
//
// The expected per-frame protocol is Clear, Render, Present, driven by a
// single goroutine. A Device is not safe for concurrent use.
type Device struct {
	fb        *Framebuffer
	presenter Presenter
	lines     LineRasterizer

	// LineColor is written by DrawPoint and therefore by every mesh edge.
	LineColor Color

	// Projection parameters used by Render.
	FOV  float64
	Near float64
	Far  float64

	// Workers > 1 projects meshes concurrently. Rasterization stays
	// sequential and in mesh order.
	Workers int

	// CullMeshes skips meshes whose bounds lie outside the view frustum.
	// Only meshes implementing BoundedMeshRenderer can be culled.
	CullMeshes bool

	// Stats describes the last Render call.
	Stats RenderStats
}

// NewDevice creates a device drawing into fb. presenter may be nil when the
// caller reads the framebuffer directly.
func NewDevice(fb *Framebuffer, presenter Presenter) *Device {
	return &Device{
		fb:        fb,
		presenter: presenter,
		lines:     Bresenham{},
		LineColor: ColorYellow,
		FOV:       DefaultFOV,
		Near:      DefaultNear,
		Far:       DefaultFar,
		Workers:   1,
	}
}

// Framebuffer returns the device's framebuffer.
func (d *Device) Framebuffer() *Framebuffer {
	return d.fb
}

// Width returns the framebuffer width.
func (d *Device) Width() int {
	return d.fb.Width
}

// Height returns the framebuffer height.
func (d *Device) Height() int {
	return d.fb.Height
}

// SetLineRasterizer selects the line strategy used by DrawLine.
// A nil strategy restores Bresenham.
func (d *Device) SetLineRasterizer(r LineRasterizer) {
	if r == nil {
		r = Bresenham{}
	}
	d.lines = r
}

// Lines returns the active line strategy.
func (d *Device) Lines() LineRasterizer {
	return d.lines
}

// Clear fills the framebuffer with c. Call it before Render.
func (d *Device) Clear(c Color) {
	d.fb.Clear(c)
}

// Present hands the framebuffer to the presenter.
func (d *Device) Present() error {
	if d.presenter == nil {
		return ErrNoPresenter
	}
	return d.presenter.Present(d.fb)
}

// ProjectionMatrix returns the perspective projection for the framebuffer's
// aspect ratio.
func (d *Device) ProjectionMatrix() math3d.Mat4 {
	aspect := float64(d.fb.Width) / float64(d.fb.Height)
	return math3d.Perspective(d.FOV, aspect, d.Near, d.Far)
}

// Project transforms coord by transform, including the homogeneous divide,
// and maps the result to pixel coordinates. Screen Y grows downward.
//
// The result is not clamped; it can lie off screen or be non-finite.
func (d *Device) Project(coord math3d.Vec3, transform math3d.Mat4) math3d.Vec2 {
	p := transform.TransformCoordinate(coord)
	w, h := float64(d.fb.Width), float64(d.fb.Height)
	return math3d.V2(
		math.Floor(p.X*w+w/2),
		math.Floor(-p.Y*h+h/2),
	)
}

// DrawPoint writes LineColor at p when p lies inside the framebuffer.
// Points outside, including NaN, are silently dropped.
func (d *Device) DrawPoint(p math3d.Vec2) {
	d.DrawPointColor(p, d.LineColor)
}

// DrawPointColor is DrawPoint with an explicit color.
func (d *Device) DrawPointColor(p math3d.Vec2, c Color) {
	if p.X >= 0 && p.Y >= 0 && p.X < float64(d.fb.Width) && p.Y < float64(d.fb.Height) {
		d.fb.PutPixel(int(p.X), int(p.Y), c)
	}
}

// DrawLine rasterizes the segment p0-p1 in LineColor with the active strategy.
func (d *Device) DrawLine(p0, p1 math3d.Vec2) {
	d.DrawLineColor(p0, p1, d.LineColor)
}

// DrawLineColor is DrawLine with an explicit color.
func (d *Device) DrawLineColor(p0, p1 math3d.Vec2, c Color) {
	if !visibleSegment(p0, p1, d.fb.Width, d.fb.Height) {
		return
	}
	d.lines.Rasterize(p0, p1, func(p math3d.Vec2) {
		d.DrawPointColor(p, c)
	})
}
