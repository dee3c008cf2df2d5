// softengine - software wireframe renderer
// Renders meshes as wireframes into a software framebuffer and shows the
// result in the terminal, in a window, or as a PNG sequence.
//
// Controls (terminal and window):
//
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Q/E         - Roll left/right
//	Space       - Random spin
//	R           - Reset rotation and zoom
//	+/-         - Zoom in/out
//	Esc         - Quit
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/softengine/pkg/math3d"
	"github.com/taigrr/softengine/pkg/models"
	"github.com/taigrr/softengine/pkg/render"
	"github.com/taigrr/softengine/pkg/scene"
	"golang.org/x/term"
)

var version = "dev"

// options are the command line flags.
type options struct {
	out     string
	frames  int
	window  bool
	width   int
	height  int
	fps     int
	bg      string
	line    string
	workers int
	cull    bool
	axes    bool
	grid    bool
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "softengine [model.glb|scene.yaml]",
		Short: "Software wireframe renderer",
		Long: `Render meshes as wireframes with a software rasterizer.

With no argument a spinning cube is shown. A .glb/.gltf argument loads a
model; a .yaml argument loads a scene with several meshes.

Controls: W/S pitch, A/D yaw, Q/E roll, Space random spin, R reset,
+/- zoom, Esc quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return run(cmd.Context(), opts, path, cmd.Flags().Changed("bg"))
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.out, "out", "", "write frames as PNG files into this directory")
	f.IntVar(&opts.frames, "frames", 60, "number of frames to write with --out")
	f.BoolVar(&opts.window, "window", false, "show frames in a desktop window")
	f.IntVar(&opts.width, "width", 640, "framebuffer width for --out and --window")
	f.IntVar(&opts.height, "height", 480, "framebuffer height for --out and --window")
	f.IntVar(&opts.fps, "fps", 60, "target frames per second")
	f.StringVar(&opts.bg, "bg", "0,0,0", "background color (R,G,B)")
	f.StringVar(&opts.line, "line", string(render.LineBresenham), "line algorithm: bresenham or midpoint")
	f.IntVar(&opts.workers, "workers", 1, "goroutines projecting meshes")
	f.BoolVar(&opts.cull, "cull", false, "skip meshes outside the view frustum")
	f.BoolVar(&opts.axes, "axes", false, "draw the world axes")
	f.BoolVar(&opts.grid, "grid", false, "draw a ground grid")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	return cmd
}

func run(ctx context.Context, opts *options, path string, bgSet bool) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if opts.fps <= 0 {
		return fmt.Errorf("invalid --fps %d", opts.fps)
	}
	if opts.width <= 0 || opts.height <= 0 {
		return fmt.Errorf("invalid size %dx%d", opts.width, opts.height)
	}

	lines, ok := render.NewLineRasterizer(render.LineMode(opts.line))
	if !ok {
		return fmt.Errorf("unknown line algorithm %q", opts.line)
	}

	s, err := loadScene(path)
	if err != nil {
		return err
	}
	log.Debug("scene loaded", "path", path, "meshes", len(s.Meshes))

	bg := s.Background
	if bgSet || path == "" {
		if bg, err = parseColor(opts.bg); err != nil {
			return err
		}
	}

	v := newViewer(log, opts, s, bg, lines)

	switch {
	case opts.out != "":
		return exportFrames(ctx, v)
	case opts.window:
		return runWindow(ctx, v)
	case term.IsTerminal(int(os.Stdout.Fd())):
		return runTerminal(ctx, v)
	default:
		return errors.New("stdout is not a terminal: use --out or --window")
	}
}

// loadScene builds the scene for path: the demo cube when empty, a YAML
// scene file, or a single model centered in front of the camera.
func loadScene(path string) (*scene.Scene, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "":
		if path != "" {
			return nil, fmt.Errorf("unsupported file %s (use .glb, .gltf or .yaml)", path)
		}
		s := newScene(models.NewCube("cube"))
		s.Spins[0] = math3d.V3(0.01, 0.01, 0)
		return s, nil

	case ".yaml", ".yml":
		return scene.Load(path)

	case ".glb", ".gltf":
		loader := models.NewGLTFLoader()
		loader.Normalize = scene.ModelExtent
		mesh, err := loader.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		return newScene(mesh), nil

	default:
		return nil, fmt.Errorf("unsupported format: %s (use .glb, .gltf or .yaml)", ext)
	}
}

func newScene(mesh *models.Mesh) *scene.Scene {
	cam := render.NewCamera()
	cam.Position = math3d.V3(0, 0, 10)
	return &scene.Scene{
		Camera:     cam,
		Background: render.ColorBlack,
		Meshes:     []*models.Mesh{mesh},
		Spins:      []math3d.Vec3{math3d.Zero3()},
	}
}

// parseColor parses "R,G,B" with 8-bit channels.
func parseColor(s string) (render.Color, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil {
		return render.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return render.RGB(r, g, b), nil
}
