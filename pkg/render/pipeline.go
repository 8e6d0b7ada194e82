package render

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taigrr/scanline/pkg/assemble"
	"github.com/taigrr/scanline/pkg/math3d"
)

// Pipeline is the rendering context a scene traversal drives. It owns the
// transform stack, camera, viewport, active light and sample buffer.
//
// Calls are expected in traversal order from a single goroutine; a
// Pipeline is not safe for concurrent use.
type Pipeline struct {
	cfg Config
	out PixelWriter

	stack    TransformStack
	camera   *Camera
	viewport math3d.Mat4
	toScreen math3d.Mat4 // viewport · projection · view · stack top

	light     *Light
	headlight bool

	buf       *SampleBuffer
	rast      *Rasterizer
	assembled assemble.Report // totals of the current frame
	inFrame   bool
}

// New validates cfg and creates a pipeline that resolves frames into out.
func New(cfg Config, out PixelWriter) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%w: nil output buffer", ErrInvalidConfig)
	}
	buf := NewSampleBuffer(cfg.Width, cfg.Height, cfg.Supersampling)
	p := &Pipeline{
		cfg:      cfg,
		out:      out,
		camera:   NewCamera(cfg),
		viewport: math3d.Viewport(float64(buf.SampleWidth()), float64(buf.SampleHeight())),
		buf:      buf,
		rast:     NewRasterizer(buf),
	}
	p.updateToScreen()
	return p, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() Config { return p.cfg }

// Camera returns the active camera.
func (p *Pipeline) Camera() *Camera { return p.camera }

// SampleBuffer returns the supersampled target of the current frame.
func (p *Pipeline) SampleBuffer() *SampleBuffer { return p.buf }

// Stats returns the counters of the current or last frame.
func (p *Pipeline) Stats() Stats {
	s := p.rast.Stats
	s.Assembled = p.assembled.Triangles
	s.Malformed = p.assembled.Skipped
	return s
}

// BeginFrame clears the sample buffer to bg at far depth, empties the
// transform stack and resets the frame statistics.
func (p *Pipeline) BeginFrame(bg Color) {
	p.buf.Clear(bg)
	p.stack.Reset()
	p.rast.ResetStats()
	p.assembled = assemble.Report{}
	p.updateToScreen()
	p.inFrame = true
}

// EndFrame downsamples the frame into the output buffer.
func (p *Pipeline) EndFrame(ctx context.Context) error {
	if !p.inFrame {
		return ErrNoFrame
	}
	p.inFrame = false
	if err := p.buf.Downsample(ctx, p.out); err != nil {
		return fmt.Errorf("end frame: %w", err)
	}
	s := p.Stats()
	Logger().Info("frame",
		slog.Int("assembled", s.Assembled),
		slog.Int("triangles", s.Triangles),
		slog.Int("samples", s.SamplesWritten),
		slog.Int("degenerate", s.Degenerate),
		slog.Int("offscreen", s.Offscreen),
		slog.Int("behind", s.Behind),
		slog.Int("clipped", s.Clipped),
		slog.Int("malformed", s.Malformed),
	)
	return nil
}

// Viewpoint replaces the camera position, orientation and vertical field
// of view (radians).
func (p *Pipeline) Viewpoint(position math3d.Vec3, orientation math3d.AxisAngle, fov float64) {
	p.camera.SetViewpoint(position, orientation, fov)
	p.updateToScreen()
}

// TransformIn opens a transform node: subsequent geometry is placed by
// top · T · R · S.
func (p *Pipeline) TransformIn(translation math3d.Vec3, rotation math3d.AxisAngle, scale math3d.Vec3) {
	p.stack.Enter(translation, rotation, scale)
	p.updateToScreen()
}

// TransformMatrixIn opens a transform node given as a full matrix.
func (p *Pipeline) TransformMatrixIn(m math3d.Mat4) {
	p.stack.PushMatrix(m)
	p.updateToScreen()
}

// TransformOut closes the innermost transform node. Unbalanced calls are
// ignored.
func (p *Pipeline) TransformOut() {
	p.stack.Exit()
	p.updateToScreen()
}

// ModelToScreen returns viewport · projection · view · model.
func (p *Pipeline) ModelToScreen() math3d.Mat4 {
	return p.toScreen
}

func (p *Pipeline) updateToScreen() {
	p.toScreen = p.viewport.Mul(p.camera.ViewProjectionMatrix()).Mul(p.stack.Top())
}

// NavigationInfo turns the headlight on or off. The headlight follows the
// camera and is used only while no directional light is active.
func (p *Pipeline) NavigationInfo(headlight bool) {
	p.headlight = headlight
}

// DirectionalLight makes l the active light, replacing any previous one.
func (p *Pipeline) DirectionalLight(l Light) {
	p.light = &l
}

// ClearLight removes the active light.
func (p *Pipeline) ClearLight() {
	p.light = nil
}

// activeLight returns the light flat shading should use, or nil.
func (p *Pipeline) activeLight() *Light {
	if p.light != nil {
		return p.light
	}
	if p.headlight {
		l := Headlight(p.camera.Forward())
		return &l
	}
	return nil
}

// TriangleSet draws every three consecutive points as a triangle.
// points is a flat x, y, z list.
func (p *Pipeline) TriangleSet(points []float64, app Appearance) error {
	pts, dropped := math3d.Points(points)
	faces, rep := assemble.TriangleSet(len(pts))
	return p.draw("TriangleSet", pts, dropped, faces, rep, app)
}

// TriangleStripSet draws one strip per stripCount entry.
func (p *Pipeline) TriangleStripSet(points []float64, stripCount []int, app Appearance) error {
	pts, dropped := math3d.Points(points)
	faces, rep := assemble.TriangleStripSet(len(pts), stripCount)
	return p.draw("TriangleStripSet", pts, dropped, faces, rep, app)
}

// TriangleFanSet draws one fan per fanCount entry.
func (p *Pipeline) TriangleFanSet(points []float64, fanCount []int, app Appearance) error {
	pts, dropped := math3d.Points(points)
	faces, rep := assemble.TriangleFanSet(len(pts), fanCount)
	return p.draw("TriangleFanSet", pts, dropped, faces, rep, app)
}

// IndexedTriangleStripSet draws -1 separated strips of index.
func (p *Pipeline) IndexedTriangleStripSet(points []float64, index []int, app Appearance) error {
	pts, dropped := math3d.Points(points)
	faces, rep := assemble.IndexedTriangleStripSet(len(pts), index)
	return p.draw("IndexedTriangleStripSet", pts, dropped, faces, rep, app)
}

// IndexedTriangleFanSet draws -1 separated fans of index.
func (p *Pipeline) IndexedTriangleFanSet(points []float64, index []int, app Appearance) error {
	pts, dropped := math3d.Points(points)
	faces, rep := assemble.IndexedTriangleFanSet(len(pts), index)
	return p.draw("IndexedTriangleFanSet", pts, dropped, faces, rep, app)
}

// IndexedFaceSet draws the faces of fs with their optional colors and
// texture coordinates.
func (p *Pipeline) IndexedFaceSet(points []float64, fs assemble.FaceSet, app Appearance) error {
	pts, dropped := math3d.Points(points)
	faces, rep := assemble.IndexedFaceSet(len(pts), fs)
	return p.draw("IndexedFaceSet", pts, dropped, faces, rep, app)
}

// Box draws an axis-aligned box of the given full extents centered on
// the local origin.
func (p *Pipeline) Box(size math3d.Vec3, app Appearance) error {
	pts, faces := assemble.Box(size)
	return p.draw("Box", pts, 0, faces, assemble.Report{Triangles: len(faces)}, app)
}

// Sphere draws a sphere of the given radius centered on the local origin
// with the default tessellation.
func (p *Pipeline) Sphere(radius float64, app Appearance) error {
	pts, faces := assemble.Sphere(radius, assemble.DefaultSphereStacks, assemble.DefaultSphereSectors)
	return p.draw("Sphere", pts, 0, faces, assemble.Report{Triangles: len(faces)}, app)
}

// draw transforms pts once and rasterizes every face.
func (p *Pipeline) draw(kind string, pts []math3d.Vec3, dropped int, faces []assemble.Face, rep assemble.Report, app Appearance) error {
	if !p.inFrame {
		return ErrNoFrame
	}
	if dropped > 0 {
		rep.Skipped++
	}
	p.assembled.Merge(rep)
	if rep.Skipped > 0 {
		Logger().Debug("skipped malformed faces",
			slog.String("primitive", kind),
			slog.Int("skipped", rep.Skipped),
			slog.Int("dropped_components", dropped),
		)
	}
	if len(faces) == 0 {
		return nil
	}

	model := p.stack.Top()
	world := make([]math3d.Vec3, len(pts))
	screen := make([]math3d.Vec4, len(pts))
	for i, pt := range pts {
		world[i] = model.MulVec3(pt)
		screen[i] = p.toScreen.MulVec4(math3d.V4FromV3(pt, 1))
	}

	sh := Shading{Appearance: app, Light: p.activeLight()}
	eye := p.camera.Position
	for _, f := range faces {
		var cv [3]clipVertex
		for k, vi := range f.V {
			cv[k] = clipVertex{Pos: screen[vi], Color: f.Color[k], UV: f.UV[k]}
		}
		parts, n, clipped := clipNear(cv)
		if clipped {
			if n == 0 {
				p.rast.Stats.Behind++
				continue
			}
			p.rast.Stats.Clipped++
		}

		normal := faceNormal(world[f.V[0]], world[f.V[1]], world[f.V[2]], eye)
		for _, part := range parts[:n] {
			var tri Triangle
			for k, c := range part {
				tri.V[k] = Vertex{
					Position: c.Pos.PerspectiveDivide(),
					W:        c.Pos.W,
					Color:    c.Color,
					UV:       c.UV,
				}
			}
			tri.HasColor = f.HasColor
			tri.HasUV = f.HasUV
			tri.Normal = normal
			p.rast.DrawTriangle(tri, sh)
		}
	}
	return nil
}

// faceNormal returns the unit normal of triangle (a, b, c), flipped if
// needed so it faces the eye.
func faceNormal(a, b, c, eye math3d.Vec3) math3d.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	if n.Dot(eye.Sub(a)) < 0 {
		n = n.Negate()
	}
	return n
}
