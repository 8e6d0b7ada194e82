package assemble

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
)

// Sphere tessellation defaults.
const (
	DefaultSphereStacks  = 12
	DefaultSphereSectors = 12
)

// boxCorners are the unit box corners, scaled by the half extents.
//
//	0: (-,-,+)  1: (+,-,+)  2: (+,+,+)  3: (-,+,+)
//	4: (-,+,-)  5: (+,+,-)  6: (-,-,-)  7: (+,-,-)
var boxCorners = [8]math3d.Vec3{
	{X: -1, Y: -1, Z: 1},
	{X: 1, Y: -1, Z: 1},
	{X: 1, Y: 1, Z: 1},
	{X: -1, Y: 1, Z: 1},
	{X: -1, Y: 1, Z: -1},
	{X: 1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: -1},
	{X: 1, Y: -1, Z: -1},
}

// boxFaces lists each side as a quad, counter-clockwise seen from outside.
// Each quad (a, b, c, d) splits into (a, b, c) and (a, c, d).
var boxFaces = [6][4]int{
	{0, 1, 2, 3}, // Front  (+Z)
	{6, 0, 3, 4}, // Left   (-X)
	{7, 6, 4, 5}, // Back   (-Z)
	{1, 7, 5, 2}, // Right  (+X)
	{3, 2, 5, 4}, // Top    (+Y)
	{6, 7, 1, 0}, // Bottom (-Y)
}

// Box tessellates an axis-aligned box centered on the origin into 8
// corners and 12 triangles. size holds the full extents along X, Y and Z.
func Box(size math3d.Vec3) ([]math3d.Vec3, []Face) {
	half := size.Scale(0.5)
	pts := make([]math3d.Vec3, len(boxCorners))
	for i, c := range boxCorners {
		pts[i] = c.Mul(half)
	}

	faces := make([]Face, 0, 12)
	for _, q := range boxFaces {
		faces = append(faces,
			Face{V: [3]int{q[0], q[1], q[2]}},
			Face{V: [3]int{q[0], q[2], q[3]}},
		)
	}
	return pts, faces
}

// Sphere tessellates a sphere centered on the origin with the Y axis as
// its pole axis. It produces stacks rings of sectors vertices, from the
// north pole ring to the south pole ring, so the vertex count is
// stacks*sectors. Adjacent rings are stitched with the sector index
// wrapping around; the pole rows emit one triangle per quad since the
// other would be degenerate.
func Sphere(radius float64, stacks, sectors int) ([]math3d.Vec3, []Face) {
	stacks = max(stacks, 2)
	sectors = max(sectors, 3)

	stackStep := math.Pi / float64(stacks-1)
	sectorStep := 2 * math.Pi / float64(sectors)

	pts := make([]math3d.Vec3, 0, stacks*sectors)
	for i := range stacks {
		phi := math.Pi/2 - float64(i)*stackStep
		y := radius * math.Sin(phi)
		ring := radius * math.Cos(phi)
		if i == 0 || i == stacks-1 {
			ring = 0 // exact poles
		}
		for j := range sectors {
			theta := float64(j) * sectorStep
			pts = append(pts, math3d.V3(ring*math.Sin(theta), y, ring*math.Cos(theta)))
		}
	}

	var faces []Face
	for i := range stacks - 1 {
		upper := i * sectors
		lower := upper + sectors
		for j := range sectors {
			next := (j + 1) % sectors
			if i != 0 {
				faces = append(faces, Face{V: [3]int{upper + j, lower + j, upper + next}})
			}
			if i != stacks-2 {
				faces = append(faces, Face{V: [3]int{upper + next, lower + j, lower + next}})
			}
		}
	}
	return pts, faces
}
