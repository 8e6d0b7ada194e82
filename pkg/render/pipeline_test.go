package render

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/taigrr/scanline/pkg/assemble"
	"github.com/taigrr/scanline/pkg/math3d"
)

func newTestPipeline(t *testing.T, width, height, ss int) (*Pipeline, *Framebuffer) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width, cfg.Height, cfg.Supersampling = width, height, ss
	fb := NewFramebuffer(width, height)
	p, err := New(cfg, fb)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p, fb
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Far = cfg.Near
	if _, err := New(cfg, NewFramebuffer(1, 1)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New with far == near: err = %v, want ErrInvalidConfig", err)
	}
	if _, err := New(DefaultConfig(), nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New with nil output: err = %v, want ErrInvalidConfig", err)
	}
}

func TestPipelineFrameContract(t *testing.T) {
	p, _ := newTestPipeline(t, 8, 8, 1)
	box := math3d.V3(1, 1, 1)

	if err := p.Box(box, DefaultAppearance()); !errors.Is(err, ErrNoFrame) {
		t.Errorf("Box before BeginFrame: err = %v, want ErrNoFrame", err)
	}
	if err := p.EndFrame(context.Background()); !errors.Is(err, ErrNoFrame) {
		t.Errorf("EndFrame before BeginFrame: err = %v, want ErrNoFrame", err)
	}

	p.BeginFrame(ColorBlack)
	if err := p.Box(box, DefaultAppearance()); err != nil {
		t.Errorf("Box inside frame: %v", err)
	}
	if err := p.EndFrame(context.Background()); err != nil {
		t.Errorf("EndFrame: %v", err)
	}
	if err := p.EndFrame(context.Background()); !errors.Is(err, ErrNoFrame) {
		t.Errorf("second EndFrame: err = %v, want ErrNoFrame", err)
	}
}

func TestPipelineTransformRoundTrip(t *testing.T) {
	p, _ := newTestPipeline(t, 64, 48, 2)
	p.Viewpoint(math3d.V3(1, 2, 8), math3d.AA(0, 1, 0, 0.3), 0.9)
	before := p.ModelToScreen()

	p.TransformIn(math3d.V3(1, -2, 3), math3d.AA(1, 1, 0, 0.7), math3d.V3(2, 2, 2))
	p.TransformIn(math3d.V3(-4, 0, 1), math3d.AA(0, 0, 1, -1.2), math3d.V3(0.5, 1, 3))
	p.TransformMatrixIn(math3d.Translate(math3d.V3(0, 5, 0)))
	if p.ModelToScreen() == before {
		t.Fatal("nested transforms did not change ModelToScreen")
	}
	p.TransformOut()
	p.TransformOut()
	p.TransformOut()

	if got := p.ModelToScreen(); got != before {
		t.Errorf("ModelToScreen after balanced transforms = %v, want %v", got, before)
	}

	// Unbalanced exits are ignored
	p.TransformOut()
	if got := p.ModelToScreen(); got != before {
		t.Errorf("extra TransformOut changed ModelToScreen")
	}
}

func TestPipelineModelToScreenComposition(t *testing.T) {
	p, _ := newTestPipeline(t, 200, 100, 2)
	p.Viewpoint(math3d.V3(0, 0, 5), math3d.NoRotation(), math.Pi/2)

	// The point straight ahead lands on the center of the sample buffer
	center := p.ModelToScreen().MulVec3(math3d.Zero3())
	if !center.ApproxEqual(math3d.V3(200, 100, center.Z), 1e-9) {
		t.Errorf("origin projects to %v, want (200, 100)", center)
	}

	// With a 90 degree vertical FOV, a point at 45 degrees up lands on row 0
	top := p.ModelToScreen().MulVec3(math3d.V3(0, 5, 0))
	if math.Abs(top.Y) > 1e-9 {
		t.Errorf("top edge point projects to row %v, want 0", top.Y)
	}

	p.TransformIn(math3d.V3(0, 5, 0), math3d.NoRotation(), math3d.One3())
	moved := p.ModelToScreen().MulVec3(math3d.Zero3())
	if !moved.ApproxEqual(top, 1e-9) {
		t.Errorf("translated origin projects to %v, want %v", moved, top)
	}
}

// objectPoint returns the object-space point that p projects to sample
// position (x, y) at depth z.
func objectPoint(p *Pipeline, x, y, z float64) []float64 {
	v := p.ModelToScreen().Inverse().MulVec3(math3d.V3(x, y, z))
	return []float64{v.X, v.Y, v.Z}
}

func TestEndToEndRedTriangle(t *testing.T) {
	p, fb := newTestPipeline(t, 800, 600, 1)
	p.BeginFrame(ColorBlack)

	corners := [3][2]float64{{100, 100}, {200, 100}, {150, 50}}
	var points []float64
	for _, c := range corners {
		points = append(points, objectPoint(p, c[0], c[1], 0.5)...)
	}
	if err := p.TriangleSet(points, Appearance{Material: EmissiveMaterial(math3d.V3(1, 0, 0))}); err != nil {
		t.Fatalf("TriangleSet: %v", err)
	}
	if err := p.EndFrame(context.Background()); err != nil {
		t.Fatalf("EndFrame: %v", err)
	}

	// Signed distance of the pixel center from each edge; positive inside
	inside := func(px, py float64) float64 {
		d := math.Inf(1)
		for i := range 3 {
			a, b := corners[i], corners[(i+1)%3]
			ex, ey := b[0]-a[0], b[1]-a[1]
			cross := ex*(py-a[1]) - ey*(px-a[0])
			d = math.Min(d, -cross/math.Hypot(ex, ey))
		}
		return d
	}

	red := 0
	for y := range fb.Height {
		for x := range fb.Width {
			d := inside(float64(x)+0.5, float64(y)+0.5)
			c := fb.GetPixel(x, y)
			switch {
			case d > 1e-6:
				if c != ColorRed {
					t.Fatalf("pixel (%d,%d) inside the hull = %v, want red", x, y, c)
				}
				red++
			case d < -1e-6:
				if c != ColorBlack {
					t.Fatalf("pixel (%d,%d) outside the hull = %v, want background", x, y, c)
				}
			}
		}
	}
	// Area 2500, less the pixels whose centers sit on an edge
	if red < 2400 || red > 2600 {
		t.Errorf("red pixel count = %d, want about 2500", red)
	}
	if d := fb.DepthAt(150, 90); math.Abs(d-0.5) > 1e-6 {
		t.Errorf("depth inside triangle = %v, want 0.5", d)
	}
	if d := fb.DepthAt(10, 10); d != 1 {
		t.Errorf("background depth = %v, want 1", d)
	}
}

func TestPipelineLighting(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *Pipeline)
		want  uint8
	}{
		{"unlit", func(p *Pipeline) {}, 204},
		{"headlight", func(p *Pipeline) { p.NavigationInfo(true) }, 204},
		{"half intensity", func(p *Pipeline) {
			l := DefaultLight()
			l.Intensity = 0.5
			p.DirectionalLight(l)
		}, 102},
		{"grazing light", func(p *Pipeline) {
			l := DefaultLight()
			l.Direction = math3d.V3(1, 0, 0)
			p.DirectionalLight(l)
		}, 0},
		{"ambient only", func(p *Pipeline) {
			l := DefaultLight()
			l.Direction = math3d.V3(1, 0, 0)
			l.AmbientIntensity = 1
			p.DirectionalLight(l)
		}, 204},
		{"partial ambient", func(p *Pipeline) {
			l := DefaultLight()
			l.Direction = math3d.V3(1, 0, 0)
			l.AmbientIntensity = 0.25
			p.DirectionalLight(l)
		}, 51},
		{"light replaces headlight", func(p *Pipeline) {
			p.NavigationInfo(true)
			l := DefaultLight()
			l.Intensity = 0.5
			p.DirectionalLight(l)
		}, 102},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, fb := newTestPipeline(t, 40, 30, 1)
			tc.setup(p)
			p.BeginFrame(ColorBlack)
			if err := p.Box(math3d.V3(2, 2, 2), DefaultAppearance()); err != nil {
				t.Fatal(err)
			}
			if err := p.EndFrame(context.Background()); err != nil {
				t.Fatal(err)
			}
			// The camera looks straight at the +Z face
			c := fb.GetPixel(20, 15)
			if c.R != tc.want || c.G != tc.want || c.B != tc.want {
				t.Errorf("center pixel = %v, want gray %d", c, tc.want)
			}
		})
	}
}

func TestPipelineNearerSurfaceWins(t *testing.T) {
	p, fb := newTestPipeline(t, 40, 30, 2)
	p.BeginFrame(ColorBlack)

	front := Appearance{Material: EmissiveMaterial(math3d.V3(0, 1, 0))}
	back := Appearance{Material: EmissiveMaterial(math3d.V3(1, 0, 0))}

	p.TransformIn(math3d.V3(0, 0, 2), math3d.NoRotation(), math3d.One3())
	if err := p.Sphere(1, front); err != nil {
		t.Fatal(err)
	}
	p.TransformOut()
	if err := p.Box(math3d.V3(4, 4, 1), back); err != nil {
		t.Fatal(err)
	}
	if err := p.EndFrame(context.Background()); err != nil {
		t.Fatal(err)
	}

	if c := fb.GetPixel(20, 15); c != ColorGreen {
		t.Errorf("center pixel = %v, want the nearer green sphere", c)
	}
}

func TestPipelineCountsMalformed(t *testing.T) {
	p, _ := newTestPipeline(t, 16, 16, 1)
	p.BeginFrame(ColorBlack)

	points := []float64{0, 0, 0, 1, 0, 0, 0, 1, 0, 9}
	err := p.IndexedFaceSet(points, assemble.FaceSet{CoordIndex: []int{0, 1, 2, -1, 0, 1, 7, -1}}, DefaultAppearance())
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Box(math3d.V3(1, 1, 1), DefaultAppearance()); err != nil {
		t.Fatal(err)
	}
	// One bad face and one dangling coordinate
	s := p.Stats()
	if s.Malformed != 2 {
		t.Errorf("Malformed = %d, want 2", s.Malformed)
	}
	// One face from the face set and twelve from the box
	if s.Assembled != 13 {
		t.Errorf("Assembled = %d, want 13", s.Assembled)
	}

	p.BeginFrame(ColorBlack)
	if s := p.Stats(); s.Malformed != 0 || s.Assembled != 0 {
		t.Errorf("stats after BeginFrame = %+v, want zero assembly counts", s)
	}
}

func TestPipelinePrimitives(t *testing.T) {
	quad := []float64{-1, -1, 0, 1, -1, 0, -1, 1, 0, 1, 1, 0}
	app := Appearance{Material: EmissiveMaterial(math3d.V3(1, 1, 1))}

	tests := []struct {
		name string
		draw func(p *Pipeline) error
	}{
		{"TriangleSet", func(p *Pipeline) error {
			return p.TriangleSet([]float64{-1, -1, 0, 1, -1, 0, 1, 1, 0}, app)
		}},
		{"TriangleStripSet", func(p *Pipeline) error { return p.TriangleStripSet(quad, []int{4}, app) }},
		{"TriangleFanSet", func(p *Pipeline) error {
			return p.TriangleFanSet([]float64{-1, -1, 0, 1, -1, 0, 1, 1, 0, -1, 1, 0}, nil, app)
		}},
		{"IndexedTriangleStripSet", func(p *Pipeline) error {
			return p.IndexedTriangleStripSet(quad, []int{0, 1, 2, 3, -1}, app)
		}},
		{"IndexedTriangleFanSet", func(p *Pipeline) error {
			return p.IndexedTriangleFanSet(quad, []int{0, 1, 3, 2, -1}, app)
		}},
		{"IndexedFaceSet", func(p *Pipeline) error {
			return p.IndexedFaceSet(quad, assemble.FaceSet{CoordIndex: []int{0, 1, 3, 2, -1}}, app)
		}},
		{"Box", func(p *Pipeline) error { return p.Box(math3d.V3(1, 1, 1), app) }},
		{"Sphere", func(p *Pipeline) error { return p.Sphere(1, app) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, fb := newTestPipeline(t, 32, 32, 1)
			p.BeginFrame(ColorBlack)
			if err := tc.draw(p); err != nil {
				t.Fatal(err)
			}
			if err := p.EndFrame(context.Background()); err != nil {
				t.Fatal(err)
			}
			if p.Stats().SamplesWritten == 0 {
				t.Error("no samples written")
			}
			if p.Stats().Malformed != 0 {
				t.Errorf("Malformed = %d, want 0", p.Stats().Malformed)
			}
			// The camera sits on +Z looking at the origin, which every
			// primitive covers
			if c := fb.GetPixel(16, 16); c != ColorWhite {
				t.Errorf("center pixel = %v, want white", c)
			}
		})
	}
}

func TestFaceNormalFacesEye(t *testing.T) {
	a, b, c := math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)
	if n := faceNormal(a, b, c, math3d.V3(0, 0, 5)); !n.ApproxEqual(math3d.V3(0, 0, 1), 1e-12) {
		t.Errorf("normal seen from +Z = %v", n)
	}
	if n := faceNormal(a, b, c, math3d.V3(0, 0, -5)); !n.ApproxEqual(math3d.V3(0, 0, -1), 1e-12) {
		t.Errorf("normal seen from -Z = %v, want flipped", n)
	}
}

func BenchmarkPipelineSphereFrame(b *testing.B) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 320, 240
	fb := NewFramebuffer(cfg.Width, cfg.Height)
	p, err := New(cfg, fb)
	if err != nil {
		b.Fatal(err)
	}
	p.DirectionalLight(DefaultLight())
	ctx := context.Background()

	for b.Loop() {
		p.BeginFrame(ColorBlack)
		_ = p.Sphere(3, DefaultAppearance())
		_ = p.EndFrame(ctx)
	}
}

func TestPipelineClipsNearPlane(t *testing.T) {
	p, fb := newTestPipeline(t, 32, 24, 1)
	p.Viewpoint(math3d.V3(0, 1, 0), math3d.NoRotation(), DefaultFOV)
	p.BeginFrame(ColorBlack)

	// A floor that runs from behind the camera to far in front of it
	floor := []float64{-50, 0, 50, 50, 0, 50, -50, 0, -50, 50, 0, -50}
	app := Appearance{Material: EmissiveMaterial(math3d.V3(1, 1, 1))}
	if err := p.TriangleStripSet(floor, []int{4}, app); err != nil {
		t.Fatal(err)
	}
	// Entirely behind the camera
	if err := p.TriangleSet([]float64{-1, 0, 5, 1, 0, 5, 0, 2, 5}, app); err != nil {
		t.Fatal(err)
	}
	if err := p.EndFrame(context.Background()); err != nil {
		t.Fatal(err)
	}

	s := p.Stats()
	if s.Clipped != 2 {
		t.Errorf("Clipped = %d, want 2", s.Clipped)
	}
	if s.Behind != 1 {
		t.Errorf("Behind = %d, want 1", s.Behind)
	}
	if c := fb.GetPixel(16, 23); c != ColorWhite {
		t.Errorf("bottom pixel = %v, want the white floor", c)
	}
	if c := fb.GetPixel(16, 0); c != ColorBlack {
		t.Errorf("top pixel = %v, want background above the horizon", c)
	}
}
