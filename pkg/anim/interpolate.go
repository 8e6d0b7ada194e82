package anim

import "github.com/taigrr/scanline/pkg/math3d"

// segment locates fraction among the ascending keys. It returns the index
// i of the interval [key[i], key[i+1]] and the local parameter s in
// [0, 1]. Fractions outside the keys clamp to the first or last key, which
// is reported as an interval of zero length at that key (s = 0).
func segment(key []float64, fraction float64) (i int, s float64) {
	n := len(key)
	if n < 2 || fraction <= key[0] {
		return 0, 0
	}
	if fraction >= key[n-1] {
		return n - 1, 0
	}
	for i = 0; i < n-2 && fraction >= key[i+1]; i++ {
	}
	span := key[i+1] - key[i]
	if span <= 0 {
		return i + 1, 0
	}
	return i, (fraction - key[i]) / span
}

// keyCount returns the number of usable key/value pairs.
func keyCount(keys, values int) int {
	return min(keys, values)
}

// ScalarInterpolator interpolates linearly between keyed scalars. It
// returns 0 when there are no keys.
func ScalarInterpolator(fraction float64, key, keyValue []float64) float64 {
	n := keyCount(len(key), len(keyValue))
	if n == 0 {
		return 0
	}
	i, s := segment(key[:n], fraction)
	if i >= n-1 {
		return keyValue[n-1]
	}
	return keyValue[i] + (keyValue[i+1]-keyValue[i])*s
}

// PositionInterpolator interpolates linearly between keyed positions.
func PositionInterpolator(fraction float64, key []float64, keyValue []math3d.Vec3) math3d.Vec3 {
	n := keyCount(len(key), len(keyValue))
	if n == 0 {
		return math3d.Vec3{}
	}
	i, s := segment(key[:n], fraction)
	if i >= n-1 {
		return keyValue[n-1]
	}
	return keyValue[i].Lerp(keyValue[i+1], s)
}

// OrientationInterpolator interpolates between keyed rotations along the
// shortest arc, linearly in arc length. Results are unspecified for two
// consecutive rotations that are diametrically opposite.
func OrientationInterpolator(fraction float64, key []float64, keyValue []math3d.AxisAngle) math3d.AxisAngle {
	n := keyCount(len(key), len(keyValue))
	if n == 0 {
		return math3d.NoRotation()
	}
	i, s := segment(key[:n], fraction)
	if i >= n-1 {
		return keyValue[n-1]
	}
	if s == 0 {
		return keyValue[i]
	}
	return keyValue[i].Quat().Slerp(keyValue[i+1].Quat(), s).AxisAngle()
}
