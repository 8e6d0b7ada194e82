package assemble

import "github.com/taigrr/scanline/pkg/math3d"

// FaceSet carries the index and attribute lists of an indexed face set.
//
// CoordIndex lists polygons separated by -1. Color holds flat RGB triples
// and TexCoord flat UV pairs; ColorIndex and TexCoordIndex run parallel to
// CoordIndex (including the -1 separators). An empty ColorIndex or
// TexCoordIndex falls back to CoordIndex. With ColorPerVertex false each
// polygon takes a single color, addressed by ColorIndex[face] or the face
// number.
type FaceSet struct {
	CoordIndex     []int
	ColorPerVertex bool
	Color          []float64
	ColorIndex     []int
	TexCoord       []float64
	TexCoordIndex  []int
}

// HasColor reports whether the set carries color data.
func (fs FaceSet) HasColor() bool {
	return len(fs.Color) >= 3
}

// HasTexCoord reports whether the set carries texture coordinates.
func (fs FaceSet) HasTexCoord() bool {
	return len(fs.TexCoord) >= 2
}

// IndexedFaceSet assembles the faces of fs over n vertices. Triangles are
// the common case; polygons with more corners are split into a fan around
// their first corner.
func IndexedFaceSet(n int, fs FaceSet) ([]Face, Report) {
	var rep Report
	var faces []Face

	for faceNo, run := range splitRuns(fs.CoordIndex) {
		if len(run) < 3 {
			rep.Skipped++
			continue
		}
		for i := 1; i+1 < len(run); i++ {
			pos := [3]int{run[0], run[i], run[i+1]}
			f, ok := fs.face(n, faceNo, pos)
			if !ok {
				rep.Skipped++
				continue
			}
			faces = append(faces, f)
		}
	}

	rep.Triangles = len(faces)
	return faces, rep
}

// face builds the triangle whose corners sit at positions pos of
// CoordIndex. ok is false when any index or attribute is out of range.
func (fs FaceSet) face(n, faceNo int, pos [3]int) (Face, bool) {
	var f Face
	for k, p := range pos {
		f.V[k] = fs.CoordIndex[p]
	}
	if !inRange(n, f.V[:]...) {
		return f, false
	}

	if fs.HasColor() {
		for k, p := range pos {
			c, ok := fs.colorAt(faceNo, p)
			if !ok {
				return f, false
			}
			f.Color[k] = c
		}
		f.HasColor = true
	}

	if fs.HasTexCoord() {
		for k, p := range pos {
			uv, ok := fs.texCoordAt(p)
			if !ok {
				return f, false
			}
			f.UV[k] = uv
		}
		f.HasUV = true
	}

	return f, true
}

func (fs FaceSet) colorAt(faceNo, pos int) (math3d.Vec3, bool) {
	var ci int
	switch {
	case fs.ColorPerVertex && len(fs.ColorIndex) > 0:
		if pos >= len(fs.ColorIndex) {
			return math3d.Vec3{}, false
		}
		ci = fs.ColorIndex[pos]
	case fs.ColorPerVertex:
		ci = fs.CoordIndex[pos]
	case len(fs.ColorIndex) > 0:
		if faceNo >= len(fs.ColorIndex) {
			return math3d.Vec3{}, false
		}
		ci = fs.ColorIndex[faceNo]
	default:
		ci = faceNo
	}
	if !inRange(len(fs.Color)/3, ci) {
		return math3d.Vec3{}, false
	}
	return math3d.V3(fs.Color[3*ci], fs.Color[3*ci+1], fs.Color[3*ci+2]), true
}

func (fs FaceSet) texCoordAt(pos int) (math3d.Vec2, bool) {
	ti := fs.CoordIndex[pos]
	if len(fs.TexCoordIndex) > 0 {
		if pos >= len(fs.TexCoordIndex) {
			return math3d.Vec2{}, false
		}
		ti = fs.TexCoordIndex[pos]
	}
	if !inRange(len(fs.TexCoord)/2, ti) {
		return math3d.Vec2{}, false
	}
	return math3d.V2(fs.TexCoord[2*ti], fs.TexCoord[2*ti+1]), true
}
