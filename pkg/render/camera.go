package render

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
)

// Camera is the single active viewpoint: a position, an orientation that
// rotates the default view direction (0, 0, -1), and a perspective
// projection.
type Camera struct {
	Position    math3d.Vec3
	Orientation math3d.AxisAngle

	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	// Cached matrices (computed on demand)
	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	viewProjDirty  bool
}

// DefaultFOV is the vertical field of view of a camera that was never
// given a viewpoint (45 degrees).
const DefaultFOV = math.Pi / 4

// NewCamera creates a camera at (0, 0, 10) looking down -Z, with the
// projection taken from cfg.
func NewCamera(cfg Config) *Camera {
	return &Camera{
		Position:      math3d.V3(0, 0, 10),
		Orientation:   math3d.NoRotation(),
		FOV:           DefaultFOV,
		AspectRatio:   cfg.Aspect(),
		Near:          cfg.Near,
		Far:           cfg.Far,
		viewDirty:     true,
		projDirty:     true,
		viewProjDirty: true,
	}
}

// SetViewpoint places the camera and sets its vertical field of view.
func (c *Camera) SetViewpoint(position math3d.Vec3, orientation math3d.AxisAngle, fov float64) {
	c.Position = position
	c.Orientation = orientation
	c.FOV = fov
	c.viewDirty = true
	c.projDirty = true
	c.viewProjDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
	c.viewProjDirty = true
}

// Forward returns the world-space view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Orientation.Mat4().MulVec3Dir(math3d.Forward()).Normalize()
}

// Up returns the world-space up direction of the image plane.
func (c *Camera) Up() math3d.Vec3 {
	return c.Orientation.Mat4().MulVec3Dir(math3d.Up()).Normalize()
}

// ViewMatrix returns the world-to-view matrix,
// inverse(translate(Position) · rotate(Orientation)).
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = math3d.Translate(c.Position).Mul(c.Orientation.Mat4()).Inverse()
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the perspective matrix, mapping the near plane
// to depth 0 and the far plane to depth 1.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns projection · view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewProjDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.viewProjDirty = false
	}
	return c.viewProjMatrix
}

// LookAt returns the orientation that makes a camera at eye look at target
// with +Y up. When the view direction is vertical, +Z is used as up.
func LookAt(eye, target math3d.Vec3) math3d.AxisAngle {
	back := eye.Sub(target).Normalize()
	if back.Len() == 0 {
		return math3d.NoRotation()
	}
	up := math3d.Up()
	if math.Abs(back.Dot(up)) > 0.9999 {
		up = math3d.V3(0, 0, 1)
	}
	right := up.Cross(back).Normalize()
	up = back.Cross(right)

	m := math3d.Mat4{
		right.X, right.Y, right.Z, 0,
		up.X, up.Y, up.Z, 0,
		back.X, back.Y, back.Z, 0,
		0, 0, 0, 1,
	}
	return math3d.QuatFromMat4(m).AxisAngle()
}
