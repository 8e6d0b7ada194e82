package render

import (
	"log/slog"
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
)

// barycentricTolerance bounds how far a covered sample's barycentric
// coordinates may drift from summing to 1 before it is reported.
const barycentricTolerance = 1e-6

// Vertex is a vertex in sample-buffer space.
type Vertex struct {
	Position math3d.Vec3 // X, Y in samples; Z is depth, 0 near to 1 far
	W        float64     // Clip-space w, for perspective-correct UVs
	Color    math3d.Vec3 // Per-vertex RGB, 0-1 range
	UV       math3d.Vec2 // Texture coordinates
}

// Triangle is a triangle ready for rasterization.
type Triangle struct {
	V        [3]Vertex
	Normal   math3d.Vec3 // Unit face normal for flat lighting
	HasColor bool        // Vertex colors are valid
	HasUV    bool        // Vertex UVs are valid
}

// Stats counts what happened to the triangles and samples of a frame.
type Stats struct {
	Triangles      int // Triangles that reached scan conversion
	Degenerate     int // Zero-area triangles skipped
	Offscreen      int // Triangles entirely outside the sample buffer
	Behind         int // Triangles entirely behind the near plane, or with w <= 0
	Clipped        int // Triangles cut by the near plane before rasterization
	Assembled      int // Faces emitted by primitive assembly
	Malformed      int // Faces dropped during primitive assembly
	SamplesWritten int // Samples that passed the depth test
	Drift          int // Covered samples whose barycentrics drifted
}

// Rasterizer scan-converts triangles into a SampleBuffer.
type Rasterizer struct {
	buf   *SampleBuffer
	Stats Stats
}

// NewRasterizer creates a rasterizer drawing into buf.
func NewRasterizer(buf *SampleBuffer) *Rasterizer {
	return &Rasterizer{buf: buf}
}

// ResetStats zeroes the statistics (call once per frame).
func (r *Rasterizer) ResetStats() {
	r.Stats = Stats{}
}

// edgeCoeffs returns A, B, C of the edge function
// edge(x, y) = A*x + B*y + C for the directed edge (x0, y0) -> (x1, y1).
// Positive is left of the edge, zero is on it.
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

// edgeFunc evaluates an edge function at point (x, y).
func edgeFunc(A, B, C, x, y float64) float64 {
	return A*x + B*y + C
}

// edges holds the three edge functions of a screen-space triangle, each
// opposite one vertex, and the reciprocal of twice its signed area.
// edge i evaluated at p and scaled by inv is barycentric coordinate i.
type edges struct {
	A, B, C math3d.Vec3 // component i belongs to the edge opposite vertex i
	inv     float64
}

// setupEdges builds the edge functions of v. ok is false for a zero-area
// triangle.
func setupEdges(v *[3]Vertex) (e edges, area2 float64, ok bool) {
	p0, p1, p2 := v[0].Position, v[1].Position, v[2].Position
	area2 = (p1.X-p0.X)*(p2.Y-p0.Y) - (p1.Y-p0.Y)*(p2.X-p0.X)
	if area2 == 0 || math.IsNaN(area2) {
		return edges{}, area2, false
	}
	A0, B0, C0 := edgeCoeffs(p1.X, p1.Y, p2.X, p2.Y)
	A1, B1, C1 := edgeCoeffs(p2.X, p2.Y, p0.X, p0.Y)
	A2, B2, C2 := edgeCoeffs(p0.X, p0.Y, p1.X, p1.Y)
	return edges{
		A:   math3d.V3(A0, A1, A2),
		B:   math3d.V3(B0, B1, B2),
		C:   math3d.V3(C0, C1, C2),
		inv: 1 / area2,
	}, area2, true
}

// at returns the unnormalized edge values at (x, y).
func (e *edges) at(x, y float64) math3d.Vec3 {
	return math3d.V3(
		edgeFunc(e.A.X, e.B.X, e.C.X, x, y),
		edgeFunc(e.A.Y, e.B.Y, e.C.Y, x, y),
		edgeFunc(e.A.Z, e.B.Z, e.C.Z, x, y),
	)
}

// barycentric returns the barycentric coordinates of (px, py) in the
// screen-space triangle v. ok is false for a zero-area triangle.
func barycentric(v *[3]Vertex, px, py float64) (bc math3d.Vec3, ok bool) {
	e, _, ok := setupEdges(v)
	if !ok {
		return math3d.Vec3{}, false
	}
	return e.at(px, py).Scale(e.inv), true
}

// DrawTriangle rasterizes tri. Samples are taken at (x+0.5, y+0.5); a
// sample is covered when all three barycentric coordinates are >= 0, so
// samples exactly on an edge shared by two triangles are shaded by both.
// Depth is interpolated linearly in screen space and a sample is written
// only if it is strictly nearer than the stored depth.
//
// Color precedence is texture (when both a sampler and UVs are present),
// then interpolated vertex color, then the flat material color.
//
// The rasterizer does not clip: a triangle with any vertex at w <= 0 is
// dropped whole and counted as Behind. Pipeline clips against the near
// plane before calling DrawTriangle.
func (r *Rasterizer) DrawTriangle(tri Triangle, sh Shading) {
	v := &tri.V
	for i := range 3 {
		if !(v[i].W > 0) {
			r.Stats.Behind++
			return
		}
	}

	width, height := r.buf.SampleWidth(), r.buf.SampleHeight()
	p0, p1, p2 := v[0].Position, v[1].Position, v[2].Position

	// Reject before converting to int so far-off coordinates cannot overflow
	lo := math3d.V2(min3(p0.X, p1.X, p2.X), min3(p0.Y, p1.Y, p2.Y))
	hi := math3d.V2(max3(p0.X, p1.X, p2.X), max3(p0.Y, p1.Y, p2.Y))
	if hi.X < 0 || hi.Y < 0 || lo.X > float64(width) || lo.Y > float64(height) {
		r.Stats.Offscreen++
		return
	}

	e, area2, ok := setupEdges(v)
	if !ok {
		r.Stats.Degenerate++
		return
	}

	minX := int(math.Max(0, math.Floor(lo.X)))
	maxX := int(math.Min(float64(width-1), math.Ceil(hi.X)))
	minY := int(math.Max(0, math.Floor(lo.Y)))
	maxY := int(math.Min(float64(height-1), math.Ceil(hi.Y)))
	if minX > maxX || minY > maxY {
		r.Stats.Offscreen++
		return
	}
	r.Stats.Triangles++

	textured := sh.Texture != nil && tri.HasUV
	var flat Color
	if !textured && !tri.HasColor {
		flat = sh.flat(tri.Normal)
	}

	var invW [3]float64
	for i := range 3 {
		invW[i] = 1 / v[i].W
	}

	// Edge values step by A per sample and by B per row
	drift := 0
	rowE := e.at(float64(minX)+0.5, float64(minY)+0.5)
	for y := minY; y <= maxY; y, rowE = y+1, rowE.Add(e.B) {
		row := y * width
		ev := rowE
		for x := minX; x <= maxX; x, ev = x+1, ev.Add(e.A) {
			bc := ev.Scale(e.inv)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}
			if math.Abs(bc.X+bc.Y+bc.Z-1) > barycentricTolerance {
				drift++
			}

			z := bc.X*p0.Z + bc.Y*p1.Z + bc.Z*p2.Z
			idx := row + x
			if z < 0 || !(z < r.buf.Depth[idx]) {
				continue
			}

			var c Color
			switch {
			case textured:
				// Interpolate UV/w and 1/w, then divide
				w0, w1, w2 := bc.X*invW[0], bc.Y*invW[1], bc.Z*invW[2]
				oneOverW := w0 + w1 + w2
				u := (w0*v[0].UV.X + w1*v[1].UV.X + w2*v[2].UV.X) / oneOverW
				t := (w0*v[0].UV.Y + w1*v[1].UV.Y + w2*v[2].UV.Y) / oneOverW
				c = sh.Texture.Sample(u, t)
			case tri.HasColor:
				c = ColorFromVec(v[0].Color.Scale(bc.X).Add(v[1].Color.Scale(bc.Y)).Add(v[2].Color.Scale(bc.Z)))
			default:
				c = flat
			}

			r.buf.Depth[idx] = z
			r.buf.Color[idx] = c
			r.Stats.SamplesWritten++
		}
	}

	if drift > 0 {
		r.Stats.Drift += drift
		Logger().Debug("barycentric drift",
			slog.Int("samples", drift),
			slog.Float64("area2", area2),
		)
	}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
