package render

import "github.com/taigrr/scanline/pkg/math3d"

// clipVertex is a vertex before the perspective divide. Attributes are
// interpolated linearly in this space.
type clipVertex struct {
	Pos   math3d.Vec4
	Color math3d.Vec3
	UV    math3d.Vec2
}

func (a clipVertex) lerp(b clipVertex, t float64) clipVertex {
	return clipVertex{
		Pos:   a.Pos.Lerp(b.Pos, t),
		Color: a.Color.Lerp(b.Color, t),
		UV:    a.UV.Lerp(b.UV, t),
	}
}

// clipNear clips a triangle against the near plane, where homogeneous
// depth is 0, keeping the side with z >= 0. It returns up to two triangles
// with the input winding; clipped reports whether any vertex was cut.
func clipNear(in [3]clipVertex) (out [2][3]clipVertex, n int, clipped bool) {
	if in[0].Pos.Z >= 0 && in[1].Pos.Z >= 0 && in[2].Pos.Z >= 0 {
		out[0] = in
		return out, 1, false
	}

	var poly [4]clipVertex
	m := 0
	for i := range 3 {
		a, b := in[i], in[(i+1)%3]
		da, db := a.Pos.Z, b.Pos.Z
		if da >= 0 {
			poly[m] = a
			m++
		}
		if (da >= 0) != (db >= 0) {
			poly[m] = a.lerp(b, da/(da-db))
			m++
		}
	}

	switch m {
	case 3:
		out[0] = [3]clipVertex{poly[0], poly[1], poly[2]}
		return out, 1, true
	case 4:
		out[0] = [3]clipVertex{poly[0], poly[1], poly[2]}
		out[1] = [3]clipVertex{poly[0], poly[2], poly[3]}
		return out, 2, true
	}
	return out, 0, true
}
