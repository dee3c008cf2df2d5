package present

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/taigrr/softengine/pkg/render"
)

// PNGSequence writes each frame to Dir as frame_0000.png, frame_0001.png
// and so on.
type PNGSequence struct {
	Dir    string
	Prefix string

	next int
}

var _ render.Presenter = (*PNGSequence)(nil)

// NewPNGSequence creates dir if needed and returns a sequence writing into it.
func NewPNGSequence(dir string) (*PNGSequence, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	return &PNGSequence{Dir: dir, Prefix: "frame"}, nil
}

// Present implements render.Presenter.
func (s *PNGSequence) Present(fb *render.Framebuffer) error {
	path := s.Path(s.next)
	if err := fb.SavePNG(path); err != nil {
		return fmt.Errorf("write frame %d: %w", s.next, err)
	}
	s.next++
	return nil
}

// Path returns the file name of frame n.
func (s *PNGSequence) Path(n int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s_%04d.png", s.Prefix, n))
}

// Frames returns the number of frames written so far.
func (s *PNGSequence) Frames() int {
	return s.next
}
