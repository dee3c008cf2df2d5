package render

import (
	"math"

	"github.com/taigrr/softengine/pkg/math3d"
)

// MaxLineExtent bounds the horizontal and vertical span, in pixels, of a
// segment the Device will rasterize. Longer segments only come from vertices
// next to the camera plane and are dropped.
const MaxLineExtent = 1 << 20

// PlotFunc receives every point a LineRasterizer produces.
type PlotFunc func(p math3d.Vec2)

// LineRasterizer turns a screen-space segment into discrete points.
type LineRasterizer interface {
	Rasterize(p0, p1 math3d.Vec2, plot PlotFunc)
}

// Bresenham is the integer Bresenham line algorithm. Both endpoints are
// truncated to integers and every pixel of the 8-connected line from p0 to
// p1 inclusive is plotted exactly once: max(|dx|, |dy|) + 1 points.
type Bresenham struct{}

// Rasterize implements LineRasterizer.
func (Bresenham) Rasterize(p0, p1 math3d.Vec2, plot PlotFunc) {
	x0, y0 := int(p0.X), int(p0.Y)
	x1, y1 := int(p1.X), int(p1.Y)

	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	// Equal coordinates step by -1, but a zero delta never takes the step.
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		plot(math3d.V2(float64(x0), float64(y0)))
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// MidpointSubdivision draws a segment by plotting its midpoint and recursing
// into both halves until they are shorter than two pixels. It is cheaper for
// interactive previews but sparser than Bresenham: endpoints are not plotted
// and pixels can be skipped, so it gives no connectivity guarantee.
type MidpointSubdivision struct{}

// Rasterize implements LineRasterizer.
func (m MidpointSubdivision) Rasterize(p0, p1 math3d.Vec2, plot PlotFunc) {
	d := p1.Sub(p0)
	if d.Len() < 2 {
		return
	}

	mid := p0.Add(d.Scale(0.5))
	plot(mid)

	m.Rasterize(p0, mid, plot)
	m.Rasterize(mid, p1, plot)
}

// LineMode names a LineRasterizer for configuration.
type LineMode string

const (
	LineBresenham LineMode = "bresenham"
	LineMidpoint  LineMode = "midpoint"
)

// NewLineRasterizer returns the strategy for mode. ok is false for unknown
// modes.
func NewLineRasterizer(mode LineMode) (r LineRasterizer, ok bool) {
	switch mode {
	case LineBresenham, "":
		return Bresenham{}, true
	case LineMidpoint:
		return MidpointSubdivision{}, true
	default:
		return nil, false
	}
}

// visibleSegment reports whether a segment can put any pixel inside a
// width x height screen. Segments with a non-finite endpoint or longer than
// MaxLineExtent are rejected, as are segments lying entirely past one screen
// edge. The left and top tests use -1 because Bresenham truncates toward zero.
func visibleSegment(p0, p1 math3d.Vec2, width, height int) bool {
	if !p0.IsFinite() || !p1.IsFinite() {
		return false
	}

	w, h := float64(width), float64(height)
	switch {
	case p0.X <= -1 && p1.X <= -1,
		p0.Y <= -1 && p1.Y <= -1,
		p0.X >= w && p1.X >= w,
		p0.Y >= h && p1.Y >= h:
		return false
	}

	return math.Abs(p1.X-p0.X) <= MaxLineExtent && math.Abs(p1.Y-p0.Y) <= MaxLineExtent
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
