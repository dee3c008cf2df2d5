package present

import (
	"errors"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/taigrr/softengine/pkg/render"
)

// ErrQuit stops RunWindow without an error when returned by the step
// function.
var ErrQuit = errors.New("quit")

// Window shows frames in a desktop window and forwards key presses.
//
// Present may be called from the step function passed to RunWindow or from
// another goroutine; the window draws the latest presented frame.
type Window struct {
	Title string
	Scale int // window pixels per framebuffer pixel
	TPS   int // step calls per second

	// OnKey receives the name of every key pressed since the last tick,
	// using the same names as terminal key events ("w", "space", "escape").
	OnKey func(name string)

	mu     sync.Mutex
	width  int
	height int
	pix    []byte

	img  *ebiten.Image
	keys []ebiten.Key
}

var _ render.Presenter = (*Window)(nil)

// NewWindow creates a window presenter for width x height frames.
func NewWindow(title string, width, height int) *Window {
	return &Window{
		Title:  title,
		Scale:  2,
		TPS:    60,
		width:  width,
		height: height,
		pix:    make([]byte, width*height*render.BytesPerPixel),
	}
}

// Present implements render.Presenter. It copies the framebuffer, so the
// caller may reuse it immediately.
func (w *Window) Present(fb *render.Framebuffer) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if fb.Width != w.width || fb.Height != w.height {
		w.width, w.height = fb.Width, fb.Height
		w.pix = make([]byte, len(fb.Pix))
	}
	copy(w.pix, fb.Pix)
	return nil
}

// Size returns the current frame size.
func (w *Window) Size() (width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// RunWindow opens the window and calls step once per tick until the window
// is closed or step returns an error. ErrQuit ends the loop cleanly.
// It blocks and must be called from the main goroutine.
func (w *Window) RunWindow(step func() error) error {
	width, height := w.Size()
	scale := max(w.Scale, 1)

	ebiten.SetWindowTitle(w.Title)
	ebiten.SetWindowSize(width*scale, height*scale)
	ebiten.SetTPS(w.TPS)

	err := ebiten.RunGame(&windowGame{w: w, step: step})
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// windowGame adapts a Window to ebiten.Game.
type windowGame struct {
	w    *Window
	step func() error
}

func (g *windowGame) Update() error {
	w := g.w
	if w.OnKey != nil {
		w.keys = inpututil.AppendJustPressedKeys(w.keys[:0])
		for _, k := range w.keys {
			if name, ok := keyName(k); ok {
				w.OnKey(name)
			}
		}
	}
	if g.step != nil {
		return g.step()
	}
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	w := g.w
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.img == nil || w.img.Bounds().Dx() != w.width || w.img.Bounds().Dy() != w.height {
		if w.img != nil {
			w.img.Deallocate()
		}
		w.img = ebiten.NewImage(w.width, w.height)
	}
	w.img.WritePixels(w.pix)
	screen.DrawImage(w.img, nil)
}

func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.w.Size()
}

// keyName maps the keys the viewer reacts to onto terminal key names.
func keyName(k ebiten.Key) (string, bool) {
	switch k {
	case ebiten.KeyW, ebiten.KeyArrowUp:
		return "w", true
	case ebiten.KeyS, ebiten.KeyArrowDown:
		return "s", true
	case ebiten.KeyA, ebiten.KeyArrowLeft:
		return "a", true
	case ebiten.KeyD, ebiten.KeyArrowRight:
		return "d", true
	case ebiten.KeyQ:
		return "q", true
	case ebiten.KeyE:
		return "e", true
	case ebiten.KeyR:
		return "r", true
	case ebiten.KeySpace:
		return "space", true
	case ebiten.KeyEqual, ebiten.KeyNumpadAdd:
		return "+", true
	case ebiten.KeyMinus, ebiten.KeyNumpadSubtract:
		return "-", true
	case ebiten.KeyEscape:
		return "escape", true
	}
	return "", false
}
