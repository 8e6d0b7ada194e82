package math3d

import "math"

// AxisAngle is a rotation of Angle radians around Axis, right-handed.
// It is the rotation encoding used by scene-graph transform and viewpoint
// nodes.
type AxisAngle struct {
	Axis  Vec3
	Angle float64
}

// AA creates an AxisAngle from the flat (x, y, z, angle) form.
func AA(x, y, z, angle float64) AxisAngle {
	return AxisAngle{Axis: V3(x, y, z), Angle: angle}
}

// NoRotation returns the identity rotation (0 0 1 0).
func NoRotation() AxisAngle {
	return AxisAngle{Axis: V3(0, 0, 1)}
}

// Mat4 returns the rotation matrix.
func (r AxisAngle) Mat4() Mat4 {
	return Rotate(r.Axis, r.Angle)
}

// Quat returns the rotation as a unit quaternion.
func (r AxisAngle) Quat() Quat {
	axis := r.Axis.Normalize()
	if axis == (Vec3{}) {
		return IdentityQuat()
	}
	s := math.Sin(r.Angle / 2)
	return Quat{axis.X * s, axis.Y * s, axis.Z * s, math.Cos(r.Angle / 2)}
}

// Quat is a rotation quaternion (X, Y, Z vector part, W scalar part).
type Quat struct {
	X, Y, Z, W float64
}

// IdentityQuat returns the quaternion for no rotation.
func IdentityQuat() Quat {
	return Quat{W: 1}
}

// Dot returns the four-component dot product.
//
//nolint:st1016 // a·b naming convention is clearer for quaternion operations
func (a Quat) Dot(b Quat) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// Normalize returns the unit quaternion. The zero quaternion maps to identity.
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.Dot(q))
	if l == 0 {
		return IdentityQuat()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// AxisAngle converts the quaternion back to axis-angle form.
// A rotation of zero reports the default axis (0, 0, 1).
func (q Quat) AxisAngle() AxisAngle {
	q = q.Normalize()
	if q.W < 0 {
		q = Quat{-q.X, -q.Y, -q.Z, -q.W}
	}
	angle := 2 * math.Acos(math.Min(1, q.W))
	s := math.Sqrt(1 - q.W*q.W)
	if s < 1e-9 {
		return AxisAngle{Axis: V3(0, 0, 1), Angle: 0}
	}
	return AxisAngle{Axis: V3(q.X/s, q.Y/s, q.Z/s), Angle: angle}
}

// Mat4 returns the rotation matrix for a unit quaternion.
func (q Quat) Mat4() Mat4 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	return Mat4{
		1 - 2*(y*y+z*z), 2 * (x*y + w*z), 2 * (x*z - w*y), 0,
		2 * (x*y - w*z), 1 - 2*(x*x+z*z), 2 * (y*z + w*x), 0,
		2 * (x*z + w*y), 2 * (y*z - w*x), 1 - 2*(x*x+y*y), 0,
		0, 0, 0, 1,
	}
}

// Slerp interpolates along the shortest arc between a and b.
// The result moves linearly in arc length as t goes from 0 to 1.
//
//nolint:st1016 // a,b naming convention is clearer for interpolation
func (a Quat) Slerp(b Quat, t float64) Quat {
	a, b = a.Normalize(), b.Normalize()
	d := a.Dot(b)
	if d < 0 {
		b = Quat{-b.X, -b.Y, -b.Z, -b.W}
		d = -d
	}

	// Nearly parallel: fall back to normalized lerp
	if d > 0.9995 {
		return Quat{
			a.X + (b.X-a.X)*t,
			a.Y + (b.Y-a.Y)*t,
			a.Z + (b.Z-a.Z)*t,
			a.W + (b.W-a.W)*t,
		}.Normalize()
	}

	theta := math.Acos(d)
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sinTheta
	wb := math.Sin(t*theta) / sinTheta
	return Quat{
		wa*a.X + wb*b.X,
		wa*a.Y + wb*b.Y,
		wa*a.Z + wb*b.Z,
		wa*a.W + wb*b.W,
	}
}

// QuatFromMat4 extracts the rotation of m. The upper 3x3 block must be a
// pure rotation; callers remove scale first.
func QuatFromMat4(m Mat4) Quat {
	m00, m01, m02 := m.Get(0, 0), m.Get(0, 1), m.Get(0, 2)
	m10, m11, m12 := m.Get(1, 0), m.Get(1, 1), m.Get(1, 2)
	m20, m21, m22 := m.Get(2, 0), m.Get(2, 1), m.Get(2, 2)

	var q Quat
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = Quat{(m21 - m12) * s, (m02 - m20) * s, (m10 - m01) * s, 0.25 / s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = Quat{0.25 * s, (m01 + m10) / s, (m02 + m20) / s, (m21 - m12) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = Quat{(m01 + m10) / s, 0.25 * s, (m12 + m21) / s, (m02 - m20) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = Quat{(m02 + m20) / s, (m12 + m21) / s, 0.25 * s, (m10 - m01) / s}
	}
	return q.Normalize()
}
