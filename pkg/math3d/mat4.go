package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// Points are column vectors, so a.Mul(b) applied to p transforms p by b first.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// Rotate creates a right-handed rotation matrix around an arbitrary axis.
// A zero axis yields the identity.
func Rotate(axis Vec3, angle float64) Mat4 {
	axis = axis.Normalize()
	if axis == (Vec3{}) {
		return Identity()
	}
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// TRS composes translation · rotation · scale, the order a scene-graph
// transform node applies to its children.
func TRS(translation Vec3, rotation AxisAngle, scale Vec3) Mat4 {
	return Translate(translation).Mul(rotation.Mat4()).Mul(Scale(scale))
}

// Perspective creates a right-handed perspective projection matrix whose
// depth range is [0, 1]: points on the near plane map to 0, points on the
// far plane to 1.
// fovy is the vertical field of view in radians, aspect is width/height.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovy/2)
	nf := 1.0 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, far * nf, -1,
		0, 0, near * far * nf, 0,
	}
}

// Viewport maps normalized device coordinates [-1,1]x[-1,1] onto pixel
// coordinates [0,width]x[0,height]. Y is flipped: NDC +1 lands on row 0.
// Depth passes through unchanged.
func Viewport(width, height float64) Mat4 {
	sx, sy := width/2, height/2
	return Mat4{
		sx, 0, 0, 0,
		0, -sy, 0, 0,
		0, 0, 1, 0,
		sx, sy, 0, 1,
	}
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec3 transforms a Vec3 as a point (w=1) and divides by the resulting w.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 1)).PerspectiveDivide()
}

// MulVec3Dir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// MulVec4 transforms a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// minors returns the six 2x2 determinants of the first two columns (s) and
// of the last two columns (c), the terms of a Laplace expansion along them.
// Column j, row i of m is read as a[j][i]; the expansion is transpose
// invariant so the result lands back in column-major order.
func (m Mat4) minors() (s, c [6]float64) {
	s[0] = m[0]*m[5] - m[4]*m[1]
	s[1] = m[0]*m[6] - m[4]*m[2]
	s[2] = m[0]*m[7] - m[4]*m[3]
	s[3] = m[1]*m[6] - m[5]*m[2]
	s[4] = m[1]*m[7] - m[5]*m[3]
	s[5] = m[2]*m[7] - m[6]*m[3]

	c[0] = m[8]*m[13] - m[12]*m[9]
	c[1] = m[8]*m[14] - m[12]*m[10]
	c[2] = m[8]*m[15] - m[12]*m[11]
	c[3] = m[9]*m[14] - m[13]*m[10]
	c[4] = m[9]*m[15] - m[13]*m[11]
	c[5] = m[10]*m[15] - m[14]*m[11]
	return s, c
}

func minorDet(s, c [6]float64) float64 {
	return s[0]*c[5] - s[1]*c[4] + s[2]*c[3] + s[3]*c[2] - s[4]*c[1] + s[5]*c[0]
}

// Determinant returns the determinant of m.
func (m Mat4) Determinant() float64 {
	return minorDet(m.minors())
}

// Inverse returns the inverse of m, or the identity when m is singular.
func (m Mat4) Inverse() Mat4 {
	s, c := m.minors()
	det := minorDet(s, c)
	if det == 0 {
		return Identity()
	}
	d := 1 / det

	return Mat4{
		(m[5]*c[5] - m[6]*c[4] + m[7]*c[3]) * d,
		(-m[1]*c[5] + m[2]*c[4] - m[3]*c[3]) * d,
		(m[13]*s[5] - m[14]*s[4] + m[15]*s[3]) * d,
		(-m[9]*s[5] + m[10]*s[4] - m[11]*s[3]) * d,

		(-m[4]*c[5] + m[6]*c[2] - m[7]*c[1]) * d,
		(m[0]*c[5] - m[2]*c[2] + m[3]*c[1]) * d,
		(-m[12]*s[5] + m[14]*s[2] - m[15]*s[1]) * d,
		(m[8]*s[5] - m[10]*s[2] + m[11]*s[1]) * d,

		(m[4]*c[4] - m[5]*c[2] + m[7]*c[0]) * d,
		(-m[0]*c[4] + m[1]*c[2] - m[3]*c[0]) * d,
		(m[12]*s[4] - m[13]*s[2] + m[15]*s[0]) * d,
		(-m[8]*s[4] + m[9]*s[2] - m[11]*s[0]) * d,

		(-m[4]*c[3] + m[5]*c[1] - m[6]*c[0]) * d,
		(m[0]*c[3] - m[1]*c[1] + m[2]*c[0]) * d,
		(-m[12]*s[3] + m[13]*s[1] - m[14]*s[0]) * d,
		(m[8]*s[3] - m[9]*s[1] + m[10]*s[0]) * d,
	}
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Translation extracts the translation component.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// ApproxEqual reports whether every element of a and b differs by at most eps.
//
//nolint:st1016 // a,b naming convention is clearer for comparisons
func (a Mat4) ApproxEqual(b Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
