package main

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
)

func TestParseRGB(t *testing.T) {
	tests := []struct {
		in      string
		want    render.Color
		wantErr bool
	}{
		{"30,30,40", render.RGB(30, 30, 40), false},
		{" 255, 0 ,128 ", render.RGB(255, 0, 128), false},
		{"1,2", render.Color{}, true},
		{"1,2,300", render.Color{}, true},
		{"a,b,c", render.Color{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseRGB(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("parseRGB = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseVec3(t *testing.T) {
	got, err := parseVec3("-0.5, 1, 2e1")
	if err != nil {
		t.Fatal(err)
	}
	if got != math3d.V3(-0.5, 1, 20) {
		t.Errorf("parseVec3 = %v", got)
	}
	if _, err := parseVec3("1,2,3,4"); err == nil {
		t.Error("expected error for four components")
	}
}

func TestDemoSceneDraws(t *testing.T) {
	cfg := render.DefaultConfig()
	cfg.Width, cfg.Height, cfg.Supersampling = 80, 60, 1
	fb := render.NewFramebuffer(cfg.Width, cfg.Height)
	p, err := render.New(cfg, fb)
	if err != nil {
		t.Fatal(err)
	}

	d := newDemoScene(nil, options{})
	for _, at := range []time.Duration{0, 1500 * time.Millisecond, 7 * time.Second} {
		if err := drawFrame(context.Background(), p, d, d.View(), render.ColorBlack, at); err != nil {
			t.Fatalf("drawFrame at %v: %v", at, err)
		}
		s := p.Stats()
		if s.Malformed != 0 {
			t.Errorf("at %v: %d malformed faces", at, s.Malformed)
		}
		if s.Triangles == 0 {
			t.Errorf("at %v: nothing rasterized", at)
		}
	}

	covered := 0
	for y := range cfg.Height {
		for x := range cfg.Width {
			if fb.GetPixel(x, y) != render.ColorBlack {
				covered++
			}
		}
	}
	if covered < cfg.Width*cfg.Height/4 {
		t.Errorf("only %d pixels covered", covered)
	}
}

func TestDiscPoints(t *testing.T) {
	pts := discPoints(2, 8)
	if len(pts) != 3*(8+2) {
		t.Fatalf("got %d floats, want %d", len(pts), 3*(8+2))
	}
	first := math3d.V3(pts[3], pts[4], pts[5])
	last := math3d.V3(pts[len(pts)-3], pts[len(pts)-2], pts[len(pts)-1])
	if !first.ApproxEqual(last, 1e-9) {
		t.Errorf("ring not closed: %v vs %v", first, last)
	}
}

func TestOrbitResetRestoresHome(t *testing.T) {
	home := view{Eye: math3d.V3(3, 4, 5), Target: math3d.V3(0, 1, 0), FOV: 1}
	o := newOrbit(home, 30)

	if got := o.View().Eye; !got.ApproxEqual(home.Eye, 1e-9) {
		t.Fatalf("initial eye = %v, want %v", got, home.Eye)
	}

	o.Impulse(0.3, 0.2)
	o.Zoom(2)
	for range 10 {
		o.Update()
	}
	if got := o.View().Eye; got.ApproxEqual(home.Eye, 1e-3) {
		t.Error("orbit did not move")
	}

	o.Reset()
	if got := o.View().Eye; !got.ApproxEqual(home.Eye, 1e-9) {
		t.Errorf("eye after reset = %v, want %v", got, home.Eye)
	}
}

func TestOrbitLooksAtTarget(t *testing.T) {
	o := newOrbit(view{Eye: math3d.V3(0, 0, 6), FOV: 1}, 30)
	o.Impulse(0.5, 0)
	for range 20 {
		o.Update()
	}

	v := o.View()
	forward := v.Orientation.Mat4().MulVec3Dir(math3d.Forward())
	toTarget := v.Target.Sub(v.Eye).Normalize()
	if !forward.ApproxEqual(toTarget, 1e-9) {
		t.Errorf("forward %v does not point at target (%v)", forward, toTarget)
	}
	if d := v.Eye.Sub(v.Target).Len(); math.Abs(d-6) > 1e-9 {
		t.Errorf("distance = %v, want 6", d)
	}
}

func TestOrbitPitchClamped(t *testing.T) {
	o := newOrbit(view{Eye: math3d.V3(0, 0, 6), FOV: 1}, 30)
	o.Impulse(0, 10)
	for range 50 {
		o.Update()
	}
	if o.Pitch.Position > 1.5 {
		t.Errorf("pitch = %v, want <= 1.5", o.Pitch.Position)
	}
}

func TestModelSceneDefaultView(t *testing.T) {
	m := newModelScene(models.NewScene("empty", &gltf.Document{}, ""), options{})
	if !m.opts.headlight {
		t.Error("model scenes should default to a headlight")
	}

	v := m.View()
	if v.Eye != math3d.V3(0, 0, 10) || v.FOV != render.DefaultFOV {
		t.Errorf("view = %+v, want eye (0,0,10) with default FOV", v)
	}
}

func TestPreviewTargetSizes(t *testing.T) {
	pt, err := newPreviewTarget(render.DefaultConfig(), 40, 12)
	if err != nil {
		t.Fatal(err)
	}
	if pt.screen.Width != 40 || pt.screen.Height != 24 {
		t.Errorf("screen = %dx%d, want 40x24", pt.screen.Width, pt.screen.Height)
	}
	if pt.frame.Width != 40*previewOversample || pt.frame.Height != 24*previewOversample {
		t.Errorf("frame = %dx%d", pt.frame.Width, pt.frame.Height)
	}
}
