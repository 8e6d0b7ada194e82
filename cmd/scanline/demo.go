package main

import (
	"errors"
	"math"
	"time"

	"github.com/taigrr/scanline/pkg/anim"
	"github.com/taigrr/scanline/pkg/assemble"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// Keyframes of the demo animation
var (
	spinKeys   = []float64{0, 1.0 / 3, 2.0 / 3, 1}
	spinValues = []math3d.AxisAngle{
		math3d.AA(1, 1, 0, 0),
		math3d.AA(1, 1, 0, 2*math.Pi/3),
		math3d.AA(1, 1, 0, 4*math.Pi/3),
		math3d.AA(1, 1, 0, 2*math.Pi),
	}

	bounceKeys   = []float64{0, 0.25, 0.5, 0.75, 1}
	bounceValues = []math3d.Vec3{
		math3d.V3(0, -0.8, 1.5),
		math3d.V3(0.6, 1.4, 1.8),
		math3d.V3(0, -0.8, 2.1),
		math3d.V3(-0.6, 1.4, 1.8),
		math3d.V3(0, -0.8, 1.5),
	}

	pulseKeys   = []float64{0, 0.5, 1}
	pulseValues = []float64{0.8, 1.2, 0.8}

	sunKeys   = []float64{0, 0.5, 1}
	sunValues = []math3d.Vec3{
		math3d.V3(-4, 3.5, -5),
		math3d.V3(4, 3.5, -5),
		math3d.V3(-4, 3.5, -5),
	}
)

// Static geometry of the demo scene
var (
	floorPoints = []float64{
		-6, -1.5, 4,
		6, -1.5, 4,
		-6, -1.5, -6,
		6, -1.5, -6,
	}
	floorIndex = []int{0, 1, 2, 3}

	pyramidPoints = []float64{
		0, 1, 0,
		-1, 0, -1,
		1, 0, -1,
		1, 0, 1,
		-1, 0, 1,
	}
	pyramidFaces = assemble.FaceSet{
		CoordIndex:     []int{0, 1, 2, -1, 0, 2, 3, -1, 0, 3, 4, -1, 0, 4, 1, -1, 1, 4, 3, 2, -1},
		ColorPerVertex: true,
		Color: []float64{
			1, 1, 1,
			1, 0, 0,
			0, 1, 0,
			0, 0, 1,
			1, 1, 0,
		},
	}

	backdropPoints = []float64{
		-2.5, -1.5, 0,
		2.5, -1.5, 0,
		2.5, 1.5, 0,
		-2.5, 1.5, 0,
	}
	backdropFaces = assemble.FaceSet{
		CoordIndex: []int{0, 1, 2, 3, -1},
		TexCoord:   []float64{0, 0, 2, 0, 2, 1.2, 0, 1.2},
	}
)

// demoScene exercises every primitive kind, animated with the keyframe
// interpolators.
type demoScene struct {
	texture render.TextureSampler
	opts    options
	sun     render.Light
	disc    []float64

	spin   anim.TimeSensor
	bounce anim.TimeSensor
}

func newDemoScene(tex render.TextureSampler, opts options) *demoScene {
	if tex == nil {
		tex = render.NewCheckerTexture(64, 64, 8, render.RGB(230, 230, 230), render.RGB(60, 60, 200))
	}
	return &demoScene{
		texture: tex,
		opts:    opts,
		sun: render.Light{
			AmbientIntensity: 0.3,
			Color:            math3d.One3(),
			Intensity:        0.9,
			Direction:        math3d.V3(-0.4, -1, -0.6),
		},
		disc:   discPoints(0.6, 12),
		spin:   anim.TimeSensor{CycleInterval: 8 * time.Second, Loop: true},
		bounce: anim.TimeSensor{CycleInterval: 3 * time.Second, Loop: true},
	}
}

// discPoints returns a fan around the origin in the XY plane: the center
// followed by a closed ring of n segments.
func discPoints(radius float64, n int) []float64 {
	pts := []float64{0, 0, 0}
	for i := range n + 1 {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts = append(pts, radius*math.Cos(a), radius*math.Sin(a), 0)
	}
	return pts
}

func (d *demoScene) View() view {
	eye := math3d.V3(0, 2, 9)
	return view{
		Eye:         eye,
		Orientation: render.LookAt(eye, math3d.Zero3()),
		Target:      math3d.Zero3(),
		FOV:         render.DefaultFOV,
	}
}

func colored(c math3d.Vec3) render.Appearance {
	app := render.DefaultAppearance()
	app.Material.Diffuse = c
	return app
}

func (d *demoScene) Draw(p *render.Pipeline, elapsed time.Duration) error {
	var start time.Time
	now := start.Add(elapsed)
	f := d.spin.Fraction(start, now)
	applyLighting(p, d.opts, &d.sun)

	var errs []error
	draw := func(err error) { errs = append(errs, err) }

	draw(p.IndexedTriangleStripSet(floorPoints, floorIndex, colored(math3d.V3(0.45, 0.45, 0.5))))

	p.TransformIn(math3d.V3(0, 0.5, -4), math3d.NoRotation(), math3d.One3())
	draw(p.IndexedFaceSet(backdropPoints, backdropFaces, render.Appearance{
		Material: render.DefaultMaterial(),
		Texture:  d.texture,
	}))
	p.TransformOut()

	p.TransformIn(math3d.V3(-2.5, 0, 0), anim.OrientationInterpolator(f, spinKeys, spinValues), math3d.One3())
	draw(p.Box(math3d.V3(1.4, 1.4, 1.4), colored(math3d.V3(0.9, 0.2, 0.2))))
	p.TransformOut()

	pos := anim.SplinePositionInterpolator(d.bounce.Fraction(start, now), bounceKeys, bounceValues, true)
	p.TransformIn(pos, math3d.NoRotation(), math3d.One3())
	draw(p.Sphere(0.6, colored(math3d.V3(0.2, 0.4, 0.9))))
	p.TransformOut()

	s := anim.ScalarInterpolator(f, pulseKeys, pulseValues)
	p.TransformIn(math3d.V3(2.5, -0.5, 0), math3d.AA(0, 1, 0, 2*math.Pi*f), math3d.V3(s, s, s))
	draw(p.IndexedFaceSet(pyramidPoints, pyramidFaces, render.DefaultAppearance()))
	p.TransformOut()

	p.TransformIn(anim.PositionInterpolator(f, sunKeys, sunValues), math3d.NoRotation(), math3d.One3())
	draw(p.TriangleFanSet(d.disc, nil, render.Appearance{Material: render.EmissiveMaterial(math3d.V3(1, 0.85, 0.3))}))
	p.TransformOut()

	return errors.Join(errs...)
}
