// Package assemble turns the primitive encodings a scene description uses
// (triangle lists, strips, fans, indexed face sets and analytic shapes) into
// a uniform list of index-based triangles.
//
// Assembly never fails. Faces that reference missing vertices or attributes
// are dropped and counted in the returned Report so callers can surface the
// data-quality problem without aborting a frame.
package assemble

import "github.com/taigrr/scanline/pkg/math3d"

// Face is one triangle of an assembled primitive. V indexes the vertex list
// the primitive was assembled from.
type Face struct {
	V [3]int

	Color    [3]math3d.Vec3 // RGB in 0-1 range
	HasColor bool

	UV    [3]math3d.Vec2
	HasUV bool
}

// Report summarises an assembly pass.
type Report struct {
	Triangles int // Faces emitted
	Skipped   int // Malformed faces dropped
}

// Merge adds the counts of o to r.
func (r *Report) Merge(o Report) {
	r.Triangles += o.Triangles
	r.Skipped += o.Skipped
}

// inRange reports whether every index addresses one of n vertices.
func inRange(n int, idx ...int) bool {
	for _, i := range idx {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}

// splitRuns splits an index list at -1 terminators. A missing final
// terminator is tolerated. Each run holds positions into index, not the
// index values, so parallel attribute lists can be looked up.
func splitRuns(index []int) [][]int {
	var runs [][]int
	var cur []int
	for pos, v := range index {
		if v == -1 {
			if len(cur) > 0 {
				runs = append(runs, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, pos)
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

// TriangleSet groups every three consecutive vertices of n into a face.
// Trailing vertices that do not complete a triangle are counted as skipped.
func TriangleSet(n int) ([]Face, Report) {
	var rep Report
	faces := make([]Face, 0, n/3)
	for i := 0; i+2 < n; i += 3 {
		faces = append(faces, Face{V: [3]int{i, i + 1, i + 2}})
	}
	if n%3 != 0 {
		rep.Skipped++
	}
	rep.Triangles = len(faces)
	return faces, rep
}
