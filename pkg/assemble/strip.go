package assemble

// stripFace returns triangle i of a strip over the vertex sequence v.
// Even triangles are emitted reversed, (v[i+2], v[i+1], v[i]), odd ones in
// order, (v[i], v[i+1], v[i+2]); this keeps every triangle of the strip on
// the same winding.
func stripFace(v []int, i int) [3]int {
	if i%2 == 0 {
		return [3]int{v[i+2], v[i+1], v[i]}
	}
	return [3]int{v[i], v[i+1], v[i+2]}
}

// assembleStrip emits the triangles of one strip, skipping those that
// reference vertices outside [0, n).
func assembleStrip(n int, v []int, faces []Face, rep *Report) []Face {
	if len(v) < 3 {
		rep.Skipped++
		return faces
	}
	for i := 0; i+2 < len(v); i++ {
		tri := stripFace(v, i)
		if !inRange(n, tri[:]...) {
			rep.Skipped++
			continue
		}
		faces = append(faces, Face{V: tri})
	}
	return faces
}

// assembleFan emits the triangles of one fan around v[0].
func assembleFan(n int, v []int, faces []Face, rep *Report) []Face {
	if len(v) < 3 {
		rep.Skipped++
		return faces
	}
	for i := 1; i+1 < len(v); i++ {
		tri := [3]int{v[0], v[i], v[i+1]}
		if !inRange(n, tri[:]...) {
			rep.Skipped++
			continue
		}
		faces = append(faces, Face{V: tri})
	}
	return faces
}

// sequential returns the vertex numbers [start, start+count).
func sequential(start, count int) []int {
	v := make([]int, count)
	for i := range v {
		v[i] = start + i
	}
	return v
}

// TriangleStripSet assembles consecutive strips over n vertices. Each
// stripCount entry is the vertex count of one strip; an empty stripCount is
// a single strip over all vertices.
func TriangleStripSet(n int, stripCount []int) ([]Face, Report) {
	var rep Report
	var faces []Face
	if len(stripCount) == 0 {
		stripCount = []int{n}
	}
	start := 0
	for _, count := range stripCount {
		if count < 0 {
			rep.Skipped++
			continue
		}
		faces = assembleStrip(n, sequential(start, count), faces, &rep)
		start += count
	}
	rep.Triangles = len(faces)
	return faces, rep
}

// IndexedTriangleStripSet assembles strips from an index list. A -1 ends
// the current strip; the next index starts a new one.
func IndexedTriangleStripSet(n int, index []int) ([]Face, Report) {
	var rep Report
	var faces []Face
	for _, run := range splitRuns(index) {
		faces = assembleStrip(n, deref(index, run), faces, &rep)
	}
	rep.Triangles = len(faces)
	return faces, rep
}

// TriangleFanSet assembles consecutive fans over n vertices, one per
// fanCount entry. An empty fanCount is a single fan over all vertices.
func TriangleFanSet(n int, fanCount []int) ([]Face, Report) {
	var rep Report
	var faces []Face
	if len(fanCount) == 0 {
		fanCount = []int{n}
	}
	start := 0
	for _, count := range fanCount {
		if count < 0 {
			rep.Skipped++
			continue
		}
		faces = assembleFan(n, sequential(start, count), faces, &rep)
		start += count
	}
	rep.Triangles = len(faces)
	return faces, rep
}

// IndexedTriangleFanSet assembles fans from a -1 separated index list.
func IndexedTriangleFanSet(n int, index []int) ([]Face, Report) {
	var rep Report
	var faces []Face
	for _, run := range splitRuns(index) {
		faces = assembleFan(n, deref(index, run), faces, &rep)
	}
	rep.Triangles = len(faces)
	return faces, rep
}

func deref(index, positions []int) []int {
	v := make([]int, len(positions))
	for i, p := range positions {
		v[i] = index[p]
	}
	return v
}
