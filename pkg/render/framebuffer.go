// Package render implements the soft engine's wireframe pipeline: projection
// of mesh vertices to screen space and line rasterization into a framebuffer.
package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// BytesPerPixel is the size of one RGBA pixel in Framebuffer.Pix.
const BytesPerPixel = 4

// Framebuffer is a row-major RGBA pixel buffer with a top-left origin.
// Pixel (x, y) starts at Pix[(x + y*Width) * 4].
type Framebuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
// For terminal output the height should be 2x the terminal rows.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*BytesPerPixel),
	}
}

// PixOffset returns the index of the first byte of pixel (x, y).
func (fb *Framebuffer) PixOffset(x, y int) int {
	return (x + y*fb.Width) * BytesPerPixel
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	n := len(fb.Pix)
	if n == 0 {
		return
	}
	rgba := c.RGBA()
	fb.Pix[0], fb.Pix[1], fb.Pix[2], fb.Pix[3] = rgba.R, rgba.G, rgba.B, rgba.A
	// Copy-doubling
	for i := BytesPerPixel; i < n; i *= 2 {
		copy(fb.Pix[i:], fb.Pix[:i])
	}
}

// PutPixel writes c at (x, y). The caller is responsible for bounds.
func (fb *Framebuffer) PutPixel(x, y int, c Color) {
	rgba := c.RGBA()
	i := fb.PixOffset(x, y)
	fb.Pix[i] = rgba.R
	fb.Pix[i+1] = rgba.G
	fb.Pix[i+2] = rgba.B
	fb.Pix[i+3] = rgba.A
}

// SetPixel sets a pixel at (x, y) to the given color.
// Out of bounds writes are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if !fb.InBounds(x, y) {
		return
	}
	fb.PutPixel(x, y, c)
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if !fb.InBounds(x, y) {
		return color.RGBA{}
	}
	i := fb.PixOffset(x, y)
	return color.RGBA{fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2], fb.Pix[i+3]}
}

// InBounds reports whether (x, y) lies inside the framebuffer.
func (fb *Framebuffer) InBounds(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// ToImage copies the framebuffer into a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Pix)
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
