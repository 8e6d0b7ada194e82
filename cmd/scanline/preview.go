package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// previewOversample renders the preview at this multiple of the terminal
// resolution and scales it down for display.
const previewOversample = 2

// orbitAxis tracks position and velocity for one orbit angle, with the
// velocity decaying through a spring.
type orbitAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // spring velocity of Velocity itself
}

func newOrbitAxis(fps int) orbitAxis {
	return orbitAxis{
		// Critically damped: velocity settles without overshoot
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0.
func (a *orbitAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// orbit is a camera circling a target, driven by spring physics.
type orbit struct {
	Yaw, Pitch orbitAxis
	target     math3d.Vec3
	fov        float64
	fps        int

	distance     float64 // current distance, follows goalDistance
	distVel      float64
	goalDistance float64
	zoomSpring   harmonica.Spring

	home view
}

// newOrbit starts an orbit at the eye position of v.
func newOrbit(v view, fps int) *orbit {
	o := &orbit{
		target:     v.Target,
		fov:        v.FOV,
		fps:        fps,
		zoomSpring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		home:       v,
	}
	o.Reset()
	return o
}

// Reset returns the camera to its starting viewpoint.
func (o *orbit) Reset() {
	offset := o.home.Eye.Sub(o.target)
	dist := offset.Len()
	if dist < 1e-6 {
		offset, dist = math3d.V3(0, 0, 1), 1
	}
	o.Yaw = newOrbitAxis(o.fps)
	o.Pitch = newOrbitAxis(o.fps)
	o.Yaw.Position = math.Atan2(offset.X, offset.Z)
	o.Pitch.Position = math.Asin(offset.Y / dist)
	o.distance, o.goalDistance, o.distVel = dist, dist, 0
}

// Zoom scales the goal distance by factor.
func (o *orbit) Zoom(factor float64) {
	o.goalDistance = math.Max(0.5, o.goalDistance*factor)
}

// Impulse adds angular velocity in radians per frame.
func (o *orbit) Impulse(yaw, pitch float64) {
	o.Yaw.Velocity += yaw
	o.Pitch.Velocity += pitch
}

// Update advances the springs by one frame.
func (o *orbit) Update() {
	o.Yaw.Update()
	o.Pitch.Update()
	// Keep clear of the poles where the up vector flips
	o.Pitch.Position = math.Max(-1.5, math.Min(1.5, o.Pitch.Position))
	o.distance, o.distVel = o.zoomSpring.Update(o.distance, o.distVel, o.goalDistance)
}

// View returns the current viewpoint.
func (o *orbit) View() view {
	yaw, pitch := o.Yaw.Position, o.Pitch.Position
	dir := math3d.V3(math.Cos(pitch)*math.Sin(yaw), math.Sin(pitch), math.Cos(pitch)*math.Cos(yaw))
	eye := o.target.Add(dir.Scale(o.distance))
	return view{
		Eye:         eye,
		Orientation: render.LookAt(eye, o.target),
		Target:      o.target,
		FOV:         o.fov,
	}
}

// previewTarget is the pipeline and buffers sized for one terminal size.
type previewTarget struct {
	frame  *render.Framebuffer // pipeline output, oversampled
	screen *render.Framebuffer // two pixel rows per terminal cell
	p      *render.Pipeline
}

func newPreviewTarget(cfg render.Config, cols, rows int) (*previewTarget, error) {
	cols, rows = max(cols, 1), max(rows, 1)
	cfg.Width = cols * previewOversample
	cfg.Height = rows * 2 * previewOversample
	frame := render.NewFramebuffer(cfg.Width, cfg.Height)
	p, err := render.New(cfg, frame)
	if err != nil {
		return nil, err
	}
	return &previewTarget{
		frame:  frame,
		screen: render.NewFramebuffer(cols, rows*2),
		p:      p,
	}, nil
}

// runPreview animates sc in the terminal until Esc, Ctrl+C or ctx ends.
func runPreview(ctx context.Context, cfg render.Config, sc scene, bg render.Color) error {
	fps := max(*targetFPS, 1)

	term := uv.DefaultTerminal()
	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	target, err := newPreviewTarget(cfg, cols, rows)
	if err != nil {
		return err
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(cols, rows); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	cam := newOrbit(sc.View(), fps)
	stats := *showStats
	paused := false
	var elapsed time.Duration

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	lastFrame := time.Now()

	const (
		orbitStep = 0.02
		zoomStep  = 1.15
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-term.Events():
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				cols, rows = ev.Width, ev.Height
				term.Erase()
				if err := term.Resize(cols, rows); err != nil {
					return fmt.Errorf("resize terminal: %w", err)
				}
				if target, err = newPreviewTarget(cfg, cols, rows); err != nil {
					return err
				}

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape", "ctrl+c"):
					return nil
				case ev.MatchString("a", "left"):
					cam.Impulse(-orbitStep, 0)
				case ev.MatchString("d", "right"):
					cam.Impulse(orbitStep, 0)
				case ev.MatchString("w", "up"):
					cam.Impulse(0, orbitStep)
				case ev.MatchString("s", "down"):
					cam.Impulse(0, -orbitStep)
				case ev.MatchString("+", "="):
					cam.Zoom(1 / zoomStep)
				case ev.MatchString("-", "_"):
					cam.Zoom(zoomStep)
				case ev.MatchString("space"):
					cam.Impulse((rand.Float64()-0.5)*0.3, (rand.Float64()-0.5)*0.1)
				case ev.MatchString("r"):
					cam.Reset()
				case ev.MatchString("p"):
					paused = !paused
				case ev.MatchString("?", "shift+/"):
					stats = !stats
				}
			}

		case now := <-ticker.C:
			dt := min(now.Sub(lastFrame), 100*time.Millisecond)
			lastFrame = now
			if !paused {
				elapsed += dt
			}
			cam.Update()

			start := time.Now()
			if err := drawFrame(ctx, target.p, sc, cam.View(), bg, elapsed); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			target.frame.ScaleTo(target.screen)
			if stats {
				target.screen.DrawText(1, 11, statsLine(target.p.Stats(), time.Since(start)), render.ColorWhite)
			}

			target.screen.Draw(term, term.Bounds())
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
