package main

import (
	"fmt"
	"log/slog"

	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/render"
	"github.com/taigrr/softengine/pkg/scene"
)

// viewer owns the scene and animation state and drives one frame at a
// time: step advances the animation, draw runs clear, render and present.
// Only one goroutine may call it.
type viewer struct {
	log   *slog.Logger
	opts  *options
	scene *scene.Scene
	bg    render.Color
	lines render.LineRasterizer

	meshes    []render.MeshRenderer
	rotations []math3d.Vec3 // initial mesh rotations, restored by reset
	distance  float64      // initial camera distance

	device   *render.Device
	rotation *RotationState
	zoom     *Zoom
	frames   int
}

func newViewer(log *slog.Logger, opts *options, s *scene.Scene, bg render.Color, lines render.LineRasterizer) *viewer {
	rotations := make([]math3d.Vec3, len(s.Meshes))
	for i, m := range s.Meshes {
		rotations[i] = m.Rotation
	}

	return &viewer{
		log:       log,
		opts:      opts,
		scene:     s,
		bg:        bg,
		lines:     lines,
		meshes:    s.Renderers(),
		rotations: rotations,
		distance:  s.Camera.Distance(),
		rotation:  NewRotationState(opts.fps),
		zoom:      NewZoom(opts.fps, s.Camera.Distance()),
	}
}

// setOutput replaces the device, e.g. after a terminal resize.
func (v *viewer) setOutput(fb *render.Framebuffer, presenter render.Presenter) {
	d := render.NewDevice(fb, presenter)
	d.SetLineRasterizer(v.lines)
	d.Workers = v.opts.workers
	d.CullMeshes = v.opts.cull
	v.device = d
}

// handleKey applies a key press and reports whether the viewer should quit.
func (v *viewer) handleKey(name string) (quit bool) {
	switch name {
	case "escape", "ctrl+c":
		return true
	case "w":
		v.rotation.ApplyImpulse(-keyImpulse, 0, 0)
	case "s":
		v.rotation.ApplyImpulse(keyImpulse, 0, 0)
	case "a":
		v.rotation.ApplyImpulse(0, -keyImpulse, 0)
	case "d":
		v.rotation.ApplyImpulse(0, keyImpulse, 0)
	case "q":
		v.rotation.ApplyImpulse(0, 0, -keyImpulse)
	case "e":
		v.rotation.ApplyImpulse(0, 0, keyImpulse)
	case "space":
		v.rotation.RandomImpulse()
	case "+":
		v.zoom.In()
	case "-":
		v.zoom.Out()
	case "r":
		v.reset()
	}
	return false
}

func (v *viewer) reset() {
	v.rotation.Reset()
	for i, m := range v.scene.Meshes {
		m.Rotation = v.rotations[i]
	}
	v.zoom.Target = v.distance
}

// step advances mesh spins, user rotation and zoom by one frame.
func (v *viewer) step() {
	v.scene.Step()

	delta := v.rotation.Update()
	for _, m := range v.scene.Meshes {
		m.Rotation = m.Rotation.Add(delta)
	}

	v.scene.Camera.SetDistance(v.zoom.Update())
}

// draw renders the current state and presents it.
func (v *viewer) draw() error {
	d := v.device
	cam := v.scene.Camera

	d.Clear(v.bg)
	if v.opts.grid {
		d.DrawGrid(cam, 10, 1, render.ColorGray)
	}
	if err := d.Render(cam, v.meshes); err != nil {
		return fmt.Errorf("render frame %d: %w", v.frames, err)
	}
	if v.opts.axes {
		d.DrawAxes(cam, 1.5)
	}

	v.frames++
	if v.opts.fps > 0 && v.frames%v.opts.fps == 0 {
		v.log.Debug("frame",
			"n", v.frames,
			"meshes", d.Stats.MeshesDrawn,
			"culled", d.Stats.MeshesCulled,
			"edges", d.Stats.Edges)
	}

	return d.Present()
}
