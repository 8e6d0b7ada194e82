package main

import (
	"time"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
)

// modelScene draws a glTF document. glTF lights are not read, so the scene
// is lit by a headlight unless a -light direction is given.
type modelScene struct {
	scene *models.Scene
	opts  options
}

func newModelScene(s *models.Scene, opts options) *modelScene {
	s.FreeCamera = true
	if opts.light == nil {
		opts.headlight = true
	}
	return &modelScene{scene: s, opts: opts}
}

// View uses the document's camera when it has one and otherwise frames
// the scene bounds from +Z.
func (m *modelScene) View() view {
	bounds := m.scene.Bounds()

	if cam, ok := m.scene.Camera(); ok {
		v := view{Eye: cam.Position, Orientation: cam.Orientation, FOV: cam.FOV}
		if bounds.Empty() {
			forward := cam.Orientation.Mat4().MulVec3Dir(math3d.Forward())
			v.Target = cam.Position.Add(forward.Scale(5))
		} else {
			v.Target = bounds.Center()
		}
		return v
	}

	v := view{Orientation: math3d.NoRotation(), FOV: render.DefaultFOV, Eye: math3d.V3(0, 0, 10)}
	if !bounds.Empty() {
		v.Target = bounds.Center()
		v.Eye = v.Target.Add(math3d.V3(0, 0, bounds.ViewDistance(v.FOV)))
	}
	return v
}

func (m *modelScene) Draw(p *render.Pipeline, _ time.Duration) error {
	applyLighting(p, m.opts, nil)
	return m.scene.Render(p)
}
