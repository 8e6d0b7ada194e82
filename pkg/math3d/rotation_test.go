package math3d

import (
	"math"
	"testing"
)

func TestQuatMatchesAxisAngleMatrix(t *testing.T) {
	rotations := []AxisAngle{
		AA(0, 1, 0, 0.4),
		AA(1, 1, 0, 2.1),
		AA(0.3, -0.2, 0.9, -1.3),
	}
	for _, r := range rotations {
		if got, want := r.Quat().Mat4(), r.Mat4(); !got.ApproxEqual(want, 1e-9) {
			t.Errorf("quat matrix for %v = %v, want %v", r, got, want)
		}
	}
}

func TestQuatFromMat4RoundTrip(t *testing.T) {
	r := AA(0.2, 0.7, -0.4, 2.6)
	q := QuatFromMat4(r.Mat4())
	if got := q.Mat4(); !got.ApproxEqual(r.Mat4(), 1e-9) {
		t.Errorf("QuatFromMat4 round trip = %v, want %v", got, r.Mat4())
	}
}

func TestAxisAngleRoundTrip(t *testing.T) {
	r := AA(0, 0, 2, 1.1)
	got := r.Quat().AxisAngle()
	if math.Abs(got.Angle-1.1) > eps || !got.Axis.ApproxEqual(V3(0, 0, 1), eps) {
		t.Errorf("round trip = %v, want axis (0,0,1) angle 1.1", got)
	}

	zero := IdentityQuat().AxisAngle()
	if zero.Angle != 0 || zero.Axis != V3(0, 0, 1) {
		t.Errorf("identity AxisAngle = %v, want 0 0 1 0", zero)
	}
}

func TestSlerp(t *testing.T) {
	a := AA(0, 1, 0, 0).Quat()
	b := AA(0, 1, 0, math.Pi/2).Quat()

	tests := []struct {
		t     float64
		angle float64
	}{
		{0, 0},
		{0.5, math.Pi / 4},
		{1, math.Pi / 2},
	}
	for _, tc := range tests {
		got := a.Slerp(b, tc.t).AxisAngle()
		if math.Abs(got.Angle-tc.angle) > 1e-9 {
			t.Errorf("Slerp(%v) angle = %v, want %v", tc.t, got.Angle, tc.angle)
		}
	}

	// Takes the short way round
	c := AA(0, 1, 0, 3*math.Pi/2).Quat()
	mid := a.Slerp(c, 0.5).Mat4().MulVec3Dir(V3(1, 0, 0))
	want := AA(0, 1, 0, -math.Pi/4).Mat4().MulVec3Dir(V3(1, 0, 0))
	if !mid.ApproxEqual(want, 1e-9) {
		t.Errorf("Slerp long-arc midpoint = %v, want %v", mid, want)
	}
}
