package render

import (
	"image/color"
	"math"
)

// Color is an RGBA color with each channel in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Colors for convenience
var (
	ColorBlack   = Color{0, 0, 0, 1}
	ColorWhite   = Color{1, 1, 1, 1}
	ColorRed     = Color{1, 0, 0, 1}
	ColorGreen   = Color{0, 1, 0, 1}
	ColorBlue    = Color{0, 0, 1, 1}
	ColorYellow  = Color{1, 1, 0, 1}
	ColorCyan    = Color{0, 1, 1, 1}
	ColorMagenta = Color{1, 0, 1, 1}
	ColorGray    = Color{0.5, 0.5, 0.5, 1}
)

// RGB creates an opaque color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, 1}
}

// RGBA converts the color to 8-bit channels. Each channel is rounded and
// clamped to [0, 255], so values slightly above 1 do not wrap around.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{channel(c.R), channel(c.G), channel(c.B), channel(c.A)}
}

func channel(v float64) uint8 {
	v = math.Round(v * 255)
	switch {
	case v >= 255:
		return 255
	case v > 0:
		return uint8(v)
	default:
		// Also catches NaN
		return 0
	}
}
