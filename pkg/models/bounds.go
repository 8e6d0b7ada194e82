package models

import (
	"log/slog"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// Bounds is a world-space axis-aligned bounding box.
type Bounds struct {
	Min, Max math3d.Vec3
	valid    bool
}

// Extend grows b to contain p.
func (b *Bounds) Extend(p math3d.Vec3) {
	if !b.valid {
		b.Min, b.Max, b.valid = p, p, true
		return
	}
	b.Min = math3d.V3(math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z))
	b.Max = math3d.V3(math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z))
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool { return !b.valid }

// Center returns the center of the box.
func (b Bounds) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the box.
func (b Bounds) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Radius returns the radius of the sphere enclosing the box.
func (b Bounds) Radius() float64 {
	return b.Size().Len() / 2
}

// ViewDistance returns how far from the center a camera with vertical
// field of view fov must stand to see the whole enclosing sphere.
func (b Bounds) ViewDistance(fov float64) float64 {
	r := max(b.Radius(), 1e-3)
	return r / math.Sin(fov/2)
}

// Bounds returns the world-space bounds of every mesh position in the
// default scene.
func (s *Scene) Bounds() Bounds {
	var b Bounds
	s.walk(func(n *gltf.Node, world math3d.Mat4) bool {
		if n.Mesh == nil || *n.Mesh < 0 || *n.Mesh >= len(s.doc.Meshes) {
			return true
		}
		for _, prim := range s.doc.Meshes[*n.Mesh].Primitives {
			idx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			points, err := readPositions(s.doc, idx)
			if err != nil {
				render.Logger().Debug("skipping positions in bounds", slog.String("error", err.Error()))
				continue
			}
			pts, _ := math3d.Points(points)
			for _, p := range pts {
				b.Extend(world.MulVec3(p))
			}
		}
		return true
	})
	return b
}
