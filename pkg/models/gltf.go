// Package models adapts glTF 2.0 documents to the render pipeline. A Scene
// walks the document's node hierarchy depth-first and issues the matching
// transform, viewpoint and primitive calls.
package models

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/scanline/pkg/assemble"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// Scene is a loaded glTF document ready to be drawn.
type Scene struct {
	Name string

	// FreeCamera leaves the viewpoint to the caller instead of applying
	// the document's camera.
	FreeCamera bool

	doc      *gltf.Document
	dir      string // resolves relative image URIs
	textures map[int]render.TextureSampler
}

// View is a viewpoint found in the document.
type View struct {
	Position    math3d.Vec3
	Orientation math3d.AxisAngle
	FOV         float64
}

// Load opens a .gltf or .glb file.
func Load(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return NewScene(filepath.Base(path), doc, filepath.Dir(path)), nil
}

// NewScene wraps an already decoded document. dir resolves image files
// referenced by relative URI.
func NewScene(name string, doc *gltf.Document, dir string) *Scene {
	return &Scene{
		Name:     name,
		doc:      doc,
		dir:      dir,
		textures: make(map[int]render.TextureSampler),
	}
}

// Render draws the scene into the pipeline's current frame. Unless
// FreeCamera is set, the first camera in traversal order becomes the
// viewpoint.
func (s *Scene) Render(p *render.Pipeline) error {
	if v, ok := s.Camera(); ok && !s.FreeCamera {
		p.Viewpoint(v.Position, v.Orientation, v.FOV)
	}
	path := make(map[int]bool)
	for _, n := range s.roots() {
		if err := s.drawNode(p, n, path); err != nil {
			return err
		}
	}
	return nil
}

// roots returns the top-level nodes of the default scene. Documents
// without scenes draw every node that is nobody's child.
func (s *Scene) roots() []int {
	doc := s.doc
	if len(doc.Scenes) > 0 {
		i := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			i = *doc.Scene
		}
		return doc.Scenes[i].Nodes
	}

	child := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// node returns node idx, or nil when idx is out of range or already on the
// current path (a cycle).
func (s *Scene) node(idx int, path map[int]bool) *gltf.Node {
	if idx < 0 || idx >= len(s.doc.Nodes) || path[idx] {
		render.Logger().Debug("skipping node", slog.Int("node", idx))
		return nil
	}
	return s.doc.Nodes[idx]
}

func (s *Scene) drawNode(p *render.Pipeline, idx int, path map[int]bool) error {
	n := s.node(idx, path)
	if n == nil {
		return nil
	}
	path[idx] = true
	defer delete(path, idx)

	p.TransformMatrixIn(localMatrix(n))
	defer p.TransformOut()

	if n.Mesh != nil {
		if err := s.drawMesh(p, *n.Mesh); err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
	}
	for _, c := range n.Children {
		if err := s.drawNode(p, c, path); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scene) drawMesh(p *render.Pipeline, idx int) error {
	if idx < 0 || idx >= len(s.doc.Meshes) {
		return fmt.Errorf("mesh %d out of range", idx)
	}
	m := s.doc.Meshes[idx]
	for i, prim := range m.Primitives {
		if err := s.drawPrimitive(p, prim); err != nil {
			return fmt.Errorf("mesh %q primitive %d: %w", m.Name, i, err)
		}
	}
	return nil
}

// drawPrimitive issues one primitive as an indexed face set so per-vertex
// colors and texture coordinates travel with every mode.
func (s *Scene) drawPrimitive(p *render.Pipeline, prim *gltf.Primitive) error {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}
	points, err := readPositions(s.doc, posIdx)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}
	n := len(points) / 3

	var index []int
	if prim.Indices != nil {
		index, err = readIndices(s.doc, *prim.Indices)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		index = make([]int, n)
		for i := range index {
			index[i] = i
		}
	}

	coords, ok := coordIndex(prim.Mode, index)
	if !ok {
		render.Logger().Debug("skipping non-triangle primitive", slog.Int("mode", int(prim.Mode)))
		return nil
	}

	fs := assemble.FaceSet{CoordIndex: coords, ColorPerVertex: true}
	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		if fs.Color, err = readColors(s.doc, idx); err != nil {
			return fmt.Errorf("read colors: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if fs.TexCoord, err = readTexCoords(s.doc, idx); err != nil {
			return fmt.Errorf("read texture coordinates: %w", err)
		}
	}
	return p.IndexedFaceSet(points, fs, s.appearance(prim.Material))
}

// coordIndex converts the vertex order of a triangle primitive into
// -1 separated triangles. ok is false for point and line modes.
func coordIndex(mode gltf.PrimitiveMode, index []int) ([]int, bool) {
	var faces []assemble.Face
	var rep assemble.Report
	switch mode {
	case gltf.PrimitiveTriangles:
		faces, rep = assemble.TriangleSet(len(index))
	case gltf.PrimitiveTriangleStrip:
		faces, rep = assemble.TriangleStripSet(len(index), []int{len(index)})
	case gltf.PrimitiveTriangleFan:
		faces, rep = assemble.TriangleFanSet(len(index), []int{len(index)})
	default:
		return nil, false
	}
	if rep.Skipped > 0 {
		render.Logger().Debug("dropped incomplete triangle", slog.Int("indices", len(index)))
	}

	coords := make([]int, 0, len(faces)*4)
	for _, f := range faces {
		coords = append(coords, index[f.V[0]], index[f.V[1]], index[f.V[2]], -1)
	}
	return coords, true
}

// localMatrix returns the node transform relative to its parent. An
// explicit matrix wins over translation, rotation and scale. Zero rotation
// and scale values are treated as unset.
func localMatrix(n *gltf.Node) math3d.Mat4 {
	if m := math3d.Mat4(n.Matrix); m != (math3d.Mat4{}) && m != math3d.Identity() {
		return m
	}
	t := math3d.V3(n.Translation[0], n.Translation[1], n.Translation[2])
	r := math3d.Quat{X: n.Rotation[0], Y: n.Rotation[1], Z: n.Rotation[2], W: n.Rotation[3]}.Normalize()
	sc := math3d.V3(n.Scale[0], n.Scale[1], n.Scale[2])
	if sc == (math3d.Vec3{}) {
		sc = math3d.One3()
	}
	return math3d.Translate(t).Mul(r.Mat4()).Mul(math3d.Scale(sc))
}

// walk visits every reachable node depth-first with its world matrix.
func (s *Scene) walk(visit func(n *gltf.Node, world math3d.Mat4) bool) {
	path := make(map[int]bool)
	var rec func(idx int, parent math3d.Mat4) bool
	rec = func(idx int, parent math3d.Mat4) bool {
		n := s.node(idx, path)
		if n == nil {
			return true
		}
		path[idx] = true
		defer delete(path, idx)

		world := parent.Mul(localMatrix(n))
		if !visit(n, world) {
			return false
		}
		for _, c := range n.Children {
			if !rec(c, world) {
				return false
			}
		}
		return true
	}
	for _, r := range s.roots() {
		if !rec(r, math3d.Identity()) {
			return
		}
	}
}

// Camera returns the first perspective camera in traversal order.
func (s *Scene) Camera() (View, bool) {
	var view View
	found := false
	s.walk(func(n *gltf.Node, world math3d.Mat4) bool {
		if n.Camera == nil || *n.Camera < 0 || *n.Camera >= len(s.doc.Cameras) {
			return true
		}
		cam := s.doc.Cameras[*n.Camera]
		if cam.Perspective == nil {
			return true
		}
		view.Position, view.Orientation = decompose(world)
		view.FOV = cam.Perspective.Yfov
		if view.FOV <= 0 {
			view.FOV = render.DefaultFOV
		}
		found = true
		return false
	})
	return view, found
}

// decompose splits a world matrix into position and rotation, dropping
// any scale.
func decompose(m math3d.Mat4) (math3d.Vec3, math3d.AxisAngle) {
	r := math3d.Identity()
	for col := range 3 {
		axis := math3d.V3(m[col*4], m[col*4+1], m[col*4+2]).Normalize()
		r[col*4], r[col*4+1], r[col*4+2] = axis.X, axis.Y, axis.Z
	}
	return m.Translation(), math3d.QuatFromMat4(r).AxisAngle()
}
