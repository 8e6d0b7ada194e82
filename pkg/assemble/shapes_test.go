package assemble

import (
	"math"
	"testing"

	"github.com/taigrr/scanline/pkg/math3d"
)

func TestBoxEnclosesCube(t *testing.T) {
	pts, faces := Box(math3d.V3(2, 2, 2))
	if len(faces) != 12 {
		t.Fatalf("got %d triangles, want 12", len(faces))
	}

	seen := make(map[math3d.Vec3]bool)
	for _, f := range faces {
		for _, i := range f.V {
			p := pts[i]
			if math.Abs(math.Abs(p.X)-1) > 1e-12 || math.Abs(math.Abs(p.Y)-1) > 1e-12 || math.Abs(math.Abs(p.Z)-1) > 1e-12 {
				t.Fatalf("vertex %v is not a corner of the (±1,±1,±1) cube", p)
			}
			seen[p] = true
		}
	}
	if len(seen) != 8 {
		t.Errorf("triangles touch %d distinct corners, want 8", len(seen))
	}
}

func TestBoxSurfaceArea(t *testing.T) {
	pts, faces := Box(math3d.V3(2, 2, 2))
	var area float64
	for _, f := range faces {
		area += normal(pts, f).Len() / 2
	}
	if math.Abs(area-24) > 1e-9 {
		t.Errorf("surface area = %v, want 24", area)
	}
}

func TestBoxWindingOutward(t *testing.T) {
	pts, faces := Box(math3d.V3(1, 2, 3))
	for _, f := range faces {
		n := normal(pts, f)
		centroid := pts[f.V[0]].Add(pts[f.V[1]]).Add(pts[f.V[2]]).Scale(1.0 / 3)
		if n.Dot(centroid) <= 0 {
			t.Errorf("face %v winds inward (normal %v)", f.V, n)
		}
	}
}

func TestSphereVertices(t *testing.T) {
	pts, faces := Sphere(1, DefaultSphereStacks, DefaultSphereSectors)
	if len(pts) != DefaultSphereStacks*DefaultSphereSectors {
		t.Fatalf("vertex count = %d, want %d", len(pts), DefaultSphereStacks*DefaultSphereSectors)
	}
	for i, p := range pts {
		if math.Abs(p.Len()-1) > 1e-9 {
			t.Errorf("vertex %d norm = %v, want 1", i, p.Len())
		}
	}

	// Two triangles per quad, one per quad on each pole row
	want := DefaultSphereSectors * (2*(DefaultSphereStacks-1) - 2)
	if len(faces) != want {
		t.Errorf("triangle count = %d, want %d", len(faces), want)
	}
}

func TestSphereFacesClosedAndOutward(t *testing.T) {
	pts, faces := Sphere(2, 8, 10)
	for _, f := range faces {
		if !inRange(len(pts), f.V[:]...) {
			t.Fatalf("face %v references a missing vertex", f.V)
		}
		n := normal(pts, f)
		if n.Len() < 1e-12 {
			t.Errorf("degenerate face %v", f.V)
			continue
		}
		centroid := pts[f.V[0]].Add(pts[f.V[1]]).Add(pts[f.V[2]]).Scale(1.0 / 3)
		if n.Dot(centroid) <= 0 {
			t.Errorf("face %v winds inward", f.V)
		}
	}

	// Away from the poles every edge is shared by exactly two faces when
	// the sector index wraps. Pole rings hold coincident copies of one
	// point, so their edges are not paired by index.
	const sectors = 10
	pole := func(i int) bool { return i < sectors || i >= len(pts)-sectors }
	edges := make(map[[2]int]int)
	for _, f := range faces {
		for k := range 3 {
			a, b := f.V[k], f.V[(k+1)%3]
			if pole(a) || pole(b) {
				continue
			}
			edges[[2]int{min(a, b), max(a, b)}]++
		}
	}
	if len(edges) == 0 {
		t.Fatal("no interior edges")
	}
	for e, count := range edges {
		if count != 2 {
			t.Errorf("edge %v used by %d faces, want 2", e, count)
		}
	}
}
