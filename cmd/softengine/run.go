package main

import (
	"context"
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/schollz/progressbar/v3"
	"github.com/taigrr/softengine/pkg/present"
	"github.com/taigrr/softengine/pkg/render"
)

// exportFrames renders opts.frames frames into a PNG sequence.
func exportFrames(ctx context.Context, v *viewer) error {
	seq, err := present.NewPNGSequence(v.opts.out)
	if err != nil {
		return err
	}
	v.setOutput(render.NewFramebuffer(v.opts.width, v.opts.height), seq)

	start := time.Now()
	bar := progressbar.Default(int64(v.opts.frames), "rendering")
	for range v.opts.frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := v.draw(); err != nil {
			return err
		}
		v.step()
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	v.log.Info("frames written",
		"dir", seq.Dir,
		"frames", seq.Frames(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// runWindow shows the scene in a desktop window until it is closed.
func runWindow(ctx context.Context, v *viewer) error {
	win := present.NewWindow("softengine", v.opts.width, v.opts.height)
	win.TPS = v.opts.fps
	v.setOutput(render.NewFramebuffer(v.opts.width, v.opts.height), win)

	quit := false
	win.OnKey = func(name string) {
		if v.handleKey(name) {
			quit = true
		}
	}

	return win.RunWindow(func() error {
		if quit || ctx.Err() != nil {
			return present.ErrQuit
		}
		v.step()
		return v.draw()
	})
}

// runTerminal shows the scene in the terminal using half-block cells.
func runTerminal(ctx context.Context, v *viewer) error {
	t := uv.DefaultTerminal()

	width, height, err := t.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := t.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	defer func() {
		t.ExitAltScreen()
		t.ShowCursor()
		t.Shutdown(context.Background())
	}()

	t.EnterAltScreen()
	t.HideCursor()

	scr := present.NewTerminal(t)
	resize := func(cols, rows int) {
		t.Resize(cols, rows)
		fbWidth, fbHeight := render.TerminalSize(cols, rows)
		v.setOutput(render.NewFramebuffer(fbWidth, fbHeight), scr)
	}
	resize(width, height)

	ticker := time.NewTicker(time.Second / time.Duration(v.opts.fps))
	defer ticker.Stop()

	events := t.Events()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				t.Erase()
				resize(ev.Width, ev.Height)
			case uv.KeyPressEvent:
				if v.handleKey(keyName(ev)) {
					return nil
				}
			}

		case <-ticker.C:
			v.step()
			if err := v.draw(); err != nil {
				return err
			}
		}
	}
}

// keyName maps a key press onto the names handleKey understands.
func keyName(ev uv.KeyPressEvent) string {
	switch {
	case ev.MatchString("escape"):
		return "escape"
	case ev.MatchString("ctrl+c"):
		return "ctrl+c"
	case ev.MatchString("w", "up"):
		return "w"
	case ev.MatchString("s", "down"):
		return "s"
	case ev.MatchString("a", "left"):
		return "a"
	case ev.MatchString("d", "right"):
		return "d"
	case ev.MatchString("q"):
		return "q"
	case ev.MatchString("e"):
		return "e"
	case ev.MatchString("r"):
		return "r"
	case ev.MatchString("space"):
		return "space"
	case ev.MatchString("+", "="):
		return "+"
	case ev.MatchString("-", "_"):
		return "-"
	}
	return ""
}
