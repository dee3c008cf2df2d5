// Package present publishes finished frames: to a terminal, a desktop
// window or a sequence of PNG files.
package present

import (
	"image"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/softengine/pkg/render"
)

// Screen is a cell screen that can flush its contents, such as
// *uv.Terminal.
type Screen interface {
	uv.Screen
	Display() error
}

// Terminal draws frames into a terminal with half-block cells, two pixels
// per cell. The framebuffer should be sized with render.TerminalSize.
type Terminal struct {
	scr Screen
}

var _ render.Presenter = (*Terminal)(nil)

// NewTerminal creates a presenter drawing into scr.
func NewTerminal(scr Screen) *Terminal {
	return &Terminal{scr: scr}
}

// Present implements render.Presenter.
func (t *Terminal) Present(fb *render.Framebuffer) error {
	fb.Draw(t.scr, image.Rect(0, 0, fb.Width, (fb.Height+1)/2))
	return t.scr.Display()
}
