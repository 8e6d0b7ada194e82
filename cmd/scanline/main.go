// scanline - software scene rasterizer
// Renders a glTF scene, or the built-in demo scene, to a PNG file or to an
// animated terminal preview.
//
// Preview controls:
//
//	A/D, Left/Right - Orbit left/right
//	W/S, Up/Down    - Orbit up/down
//	+/-             - Zoom
//	Space           - Random spin
//	R               - Reset view
//	P               - Pause animation
//	?               - Toggle stats overlay
//	Esc             - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
)

var (
	width       = flag.Int("width", 800, "Output width in pixels")
	height      = flag.Int("height", 600, "Output height in pixels")
	near        = flag.Float64("near", 0.01, "Near clipping plane")
	far         = flag.Float64("far", 1000, "Far clipping plane")
	ss          = flag.Int("ss", 2, "Supersampling factor per axis")
	output      = flag.String("o", "out.png", "Output PNG path")
	depthOutput = flag.String("depth", "", "Also write the depth buffer to this PNG path")
	bgColor     = flag.String("bg", "30,30,40", "Background color (R,G,B)")
	headlight   = flag.Bool("headlight", false, "Light the scene with a headlight instead of its own light")
	lightDir    = flag.String("light", "", "Directional light direction (x,y,z)")
	texturePath = flag.String("texture", "", "Texture image for the demo scene (PNG/JPG/BMP/TIFF/WebP)")
	atTime      = flag.Duration("time", 0, "Animation time of the rendered frame")
	preview     = flag.Bool("preview", false, "Show an animated preview in the terminal")
	targetFPS   = flag.Int("fps", 30, "Target preview FPS")
	showStats   = flag.Bool("stats", false, "Overlay frame statistics")
	verbose     = flag.Bool("v", false, "Log debug diagnostics to stderr")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "scanline - software scene rasterizer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scanline [options] [scene.gltf|scene.glb]\n\n")
		fmt.Fprintf(os.Stderr, "Without a scene file the built-in demo scene is rendered.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nPreview controls:\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Orbit\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Zoom\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  P           - Pause animation\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle stats overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if *verbose {
		render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// scene is something the CLI can draw at a point in its animation.
type scene interface {
	// View returns the initial viewpoint.
	View() view
	// Draw issues lights and geometry; the viewpoint is already set.
	Draw(p *render.Pipeline, elapsed time.Duration) error
}

// view is a viewpoint plus the point the preview orbits around.
type view struct {
	Eye         math3d.Vec3
	Orientation math3d.AxisAngle
	Target      math3d.Vec3
	FOV         float64
}

// options collects the lighting flags every scene honours.
type options struct {
	headlight bool
	light     *math3d.Vec3
}

func run(scenePath string) error {
	bg, err := parseRGB(*bgColor)
	if err != nil {
		return fmt.Errorf("parse -bg: %w", err)
	}
	opts := options{headlight: *headlight}
	if *lightDir != "" {
		dir, err := parseVec3(*lightDir)
		if err != nil {
			return fmt.Errorf("parse -light: %w", err)
		}
		opts.light = &dir
	}

	sc, err := loadScene(scenePath, opts)
	if err != nil {
		return err
	}

	cfg := render.Config{
		Width:         *width,
		Height:        *height,
		Near:          *near,
		Far:           *far,
		Supersampling: *ss,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *preview {
		return runPreview(ctx, cfg, sc, bg)
	}
	return renderStill(ctx, cfg, sc, bg)
}

// loadScene opens the scene file, or builds the demo scene when path is
// empty.
func loadScene(path string, opts options) (scene, error) {
	if path == "" {
		var tex render.TextureSampler
		if *texturePath != "" {
			t, err := render.LoadTexture(*texturePath)
			if err != nil {
				return nil, err
			}
			t.FilterMode = render.FilterBilinear
			tex = t
		}
		return newDemoScene(tex, opts), nil
	}

	m, err := models.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	return newModelScene(m, opts), nil
}

// renderStill renders one frame and writes it out as PNG.
func renderStill(ctx context.Context, cfg render.Config, sc scene, bg render.Color) error {
	fb := render.NewFramebuffer(cfg.Width, cfg.Height)
	p, err := render.New(cfg, fb)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := drawFrame(ctx, p, sc, sc.View(), bg, *atTime); err != nil {
		return err
	}
	if *showStats {
		fb.DrawText(4, 14, statsLine(p.Stats(), time.Since(start)), render.ColorWhite)
	}

	if err := fb.SavePNG(*output); err != nil {
		return err
	}
	if *depthOutput != "" {
		if err := fb.SaveDepthPNG(*depthOutput); err != nil {
			return err
		}
	}
	fmt.Printf("Wrote %s (%dx%d, %d triangles)\n", *output, cfg.Width, cfg.Height, p.Stats().Triangles)
	return nil
}

// drawFrame renders sc as seen from v into the pipeline's output.
func drawFrame(ctx context.Context, p *render.Pipeline, sc scene, v view, bg render.Color, elapsed time.Duration) error {
	p.BeginFrame(bg)
	p.Viewpoint(v.Eye, v.Orientation, v.FOV)
	if err := sc.Draw(p, elapsed); err != nil {
		return fmt.Errorf("draw scene: %w", err)
	}
	return p.EndFrame(ctx)
}

// applyLighting sets up the light a scene should be drawn with. fallback
// is the scene's own light, nil for none.
func applyLighting(p *render.Pipeline, opts options, fallback *render.Light) {
	p.ClearLight()
	p.NavigationInfo(opts.headlight)
	switch {
	case opts.light != nil:
		l := render.DefaultLight()
		l.Direction = *opts.light
		l.AmbientIntensity = 0.2
		p.DirectionalLight(l)
	case opts.headlight:
		// NavigationInfo already lit the scene
	case fallback != nil:
		p.DirectionalLight(*fallback)
	}
}

func statsLine(s render.Stats, took time.Duration) string {
	return fmt.Sprintf("%d tris  %d samples  %d culled  %v",
		s.Triangles, s.SamplesWritten, s.Offscreen+s.Behind+s.Degenerate, took.Round(time.Millisecond))
}

// parseRGB parses "R,G,B" with components in 0-255.
func parseRGB(s string) (render.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return render.Color{}, fmt.Errorf("want R,G,B, got %q", s)
	}
	var rgb [3]uint8
	for i, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return render.Color{}, fmt.Errorf("component %d: %w", i, err)
		}
		rgb[i] = uint8(v)
	}
	return render.RGB(rgb[0], rgb[1], rgb[2]), nil
}

// parseVec3 parses "x,y,z".
func parseVec3(s string) (math3d.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math3d.Vec3{}, fmt.Errorf("want x,y,z, got %q", s)
	}
	var v [3]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("component %d: %w", i, err)
		}
		v[i] = f
	}
	return math3d.V3(v[0], v[1], v[2]), nil
}
