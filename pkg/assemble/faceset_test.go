package assemble

import (
	"testing"

	"github.com/taigrr/scanline/pkg/math3d"
)

func TestIndexedFaceSetTriangles(t *testing.T) {
	faces, rep := IndexedFaceSet(4, FaceSet{
		CoordIndex: []int{0, 1, 2, -1, 2, 3, 0, -1},
	})
	assertFaces(t, faces, [][3]int{{0, 1, 2}, {2, 3, 0}})
	if rep.Skipped != 0 || rep.Triangles != 2 {
		t.Errorf("report = %+v, want 2 triangles, 0 skipped", rep)
	}
	for _, f := range faces {
		if f.HasColor || f.HasUV {
			t.Errorf("face %v should carry no attributes", f.V)
		}
	}
}

func TestIndexedFaceSetPolygonFan(t *testing.T) {
	faces, _ := IndexedFaceSet(5, FaceSet{CoordIndex: []int{0, 1, 2, 3, 4, -1}})
	assertFaces(t, faces, [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}})
}

func TestIndexedFaceSetPerVertexColor(t *testing.T) {
	fs := FaceSet{
		CoordIndex:     []int{0, 1, 2, -1},
		ColorPerVertex: true,
		Color:          []float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
		ColorIndex:     []int{2, 1, 0, -1},
	}
	faces, rep := IndexedFaceSet(3, fs)
	if len(faces) != 1 || rep.Skipped != 0 {
		t.Fatalf("got %d faces, report %+v", len(faces), rep)
	}
	f := faces[0]
	if !f.HasColor {
		t.Fatal("face should carry colors")
	}
	want := [3]math3d.Vec3{{Z: 1}, {Y: 1}, {X: 1}}
	if f.Color != want {
		t.Errorf("colors = %v, want %v", f.Color, want)
	}

	// Without colorIndex the coordinate index selects the color
	fs.ColorIndex = nil
	faces, _ = IndexedFaceSet(3, fs)
	want = [3]math3d.Vec3{{X: 1}, {Y: 1}, {Z: 1}}
	if faces[0].Color != want {
		t.Errorf("colors via coordIndex = %v, want %v", faces[0].Color, want)
	}
}

func TestIndexedFaceSetPerFaceColor(t *testing.T) {
	fs := FaceSet{
		CoordIndex: []int{0, 1, 2, -1, 0, 2, 3, -1},
		Color:      []float64{1, 0, 0, 0, 1, 0},
	}
	faces, _ := IndexedFaceSet(4, fs)
	if len(faces) != 2 {
		t.Fatalf("got %d faces, want 2", len(faces))
	}
	for k := range 3 {
		if faces[0].Color[k] != math3d.V3(1, 0, 0) || faces[1].Color[k] != math3d.V3(0, 1, 0) {
			t.Fatalf("per-face colors = %v / %v", faces[0].Color, faces[1].Color)
		}
	}
}

func TestIndexedFaceSetTexCoords(t *testing.T) {
	fs := FaceSet{
		CoordIndex:    []int{0, 1, 2, -1},
		TexCoord:      []float64{0, 0, 1, 0, 1, 1},
		TexCoordIndex: []int{0, 1, 2, -1},
	}
	faces, _ := IndexedFaceSet(3, fs)
	if len(faces) != 1 || !faces[0].HasUV {
		t.Fatalf("expected one textured face, got %+v", faces)
	}
	want := [3]math3d.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	if faces[0].UV != want {
		t.Errorf("UV = %v, want %v", faces[0].UV, want)
	}
}

func TestIndexedFaceSetMalformed(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		fs      FaceSet
		faces   int
		skipped int
	}{
		{
			name:    "coordinate out of range",
			n:       3,
			fs:      FaceSet{CoordIndex: []int{0, 1, 5, -1, 0, 1, 2, -1}},
			faces:   1,
			skipped: 1,
		},
		{
			name:    "negative index",
			n:       3,
			fs:      FaceSet{CoordIndex: []int{0, -4, 2, -1}},
			skipped: 1,
		},
		{
			name:    "trailing incomplete face",
			n:       3,
			fs:      FaceSet{CoordIndex: []int{0, 1, 2, -1, 0, 1}},
			faces:   1,
			skipped: 1,
		},
		{
			name: "color index out of range",
			n:    3,
			fs: FaceSet{
				CoordIndex:     []int{0, 1, 2, -1},
				ColorPerVertex: true,
				Color:          []float64{1, 1, 1},
				ColorIndex:     []int{0, 0, 3, -1},
			},
			skipped: 1,
		},
		{
			name: "texcoord index list too short",
			n:    3,
			fs: FaceSet{
				CoordIndex:    []int{0, 1, 2, -1},
				TexCoord:      []float64{0, 0, 1, 1},
				TexCoordIndex: []int{0, 1},
			},
			skipped: 1,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			faces, rep := IndexedFaceSet(tc.n, tc.fs)
			if len(faces) != tc.faces || rep.Skipped != tc.skipped {
				t.Errorf("got %d faces, %d skipped; want %d, %d", len(faces), rep.Skipped, tc.faces, tc.skipped)
			}
		})
	}
}
