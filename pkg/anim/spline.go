package anim

import "github.com/taigrr/scanline/pkg/math3d"

// SplinePositionInterpolator interpolates keyed positions with a
// Catmull-Rom spline evaluated in Hermite form.
//
// The tangent at an interior key is half the difference of its neighbours,
// scaled per side by the length of the adjacent key interval so that
// unevenly spaced keys move at a continuous speed. When closed is set and
// the first and last values are equal, the curve wraps around through that
// shared point; otherwise the end tangents are zero and closed is ignored.
func SplinePositionInterpolator(fraction float64, key []float64, keyValue []math3d.Vec3, closed bool) math3d.Vec3 {
	n := keyCount(len(key), len(keyValue))
	if n == 0 {
		return math3d.Vec3{}
	}
	key, keyValue = key[:n], keyValue[:n]
	i, s := segment(key, fraction)
	if i >= n-1 {
		return keyValue[n-1]
	}
	if s == 0 {
		return keyValue[i]
	}

	closed = closed && n > 2 && keyValue[0] == keyValue[n-1]
	t0 := outgoingTangent(key, keyValue, i, closed)
	t1 := incomingTangent(key, keyValue, i+1, closed)
	return hermite(keyValue[i], keyValue[i+1], t0, t1, s)
}

// hermite evaluates the cubic Hermite curve from p0 to p1 with end
// tangents t0 and t1 at s in [0, 1].
func hermite(p0, p1, t0, t1 math3d.Vec3, s float64) math3d.Vec3 {
	s2 := s * s
	s3 := s2 * s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	return p0.Scale(h00).Add(t0.Scale(h10)).Add(p1.Scale(h01)).Add(t1.Scale(h11))
}

// neighbours returns the values and key intervals on either side of key i.
// ok is false at the ends of an open curve, where the tangent is zero.
func neighbours(key []float64, keyValue []math3d.Vec3, i int, closed bool) (prev, next math3d.Vec3, before, after float64, ok bool) {
	n := len(key)
	switch {
	case i > 0 && i < n-1:
		return keyValue[i-1], keyValue[i+1], key[i] - key[i-1], key[i+1] - key[i], true
	case !closed:
		return math3d.Vec3{}, math3d.Vec3{}, 0, 0, false
	default:
		// The first and last keys are the same point on a closed curve
		return keyValue[n-2], keyValue[1], key[n-1] - key[n-2], key[1] - key[0], true
	}
}

// catmullRom returns the unscaled tangent at key i.
func catmullRom(prev, next math3d.Vec3) math3d.Vec3 {
	return next.Sub(prev).Scale(0.5)
}

// outgoingTangent is the tangent leaving key i, scaled for the interval
// that follows it.
func outgoingTangent(key []float64, keyValue []math3d.Vec3, i int, closed bool) math3d.Vec3 {
	prev, next, before, after, ok := neighbours(key, keyValue, i, closed)
	if !ok || before+after <= 0 {
		return math3d.Vec3{}
	}
	return catmullRom(prev, next).Scale(2 * after / (before + after))
}

// incomingTangent is the tangent arriving at key i, scaled for the
// interval that precedes it.
func incomingTangent(key []float64, keyValue []math3d.Vec3, i int, closed bool) math3d.Vec3 {
	prev, next, before, after, ok := neighbours(key, keyValue, i, closed)
	if !ok || before+after <= 0 {
		return math3d.Vec3{}
	}
	return catmullRom(prev, next).Scale(2 * before / (before + after))
}
