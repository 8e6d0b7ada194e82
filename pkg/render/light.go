package render

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
)

// Light is a directional light. A nil *Light means unlit shading.
type Light struct {
	AmbientIntensity float64
	Color            math3d.Vec3 // RGB in 0-1 range
	Intensity        float64
	Direction        math3d.Vec3 // Direction the light travels, world space
}

// DefaultLight returns a white directional light shining down -Z.
func DefaultLight() Light {
	return Light{
		Color:     math3d.One3(),
		Intensity: 1,
		Direction: math3d.Forward(),
	}
}

// Headlight returns the light a viewer carries: white, full intensity, no
// ambient term, travelling along the view direction.
func Headlight(forward math3d.Vec3) Light {
	l := DefaultLight()
	l.Direction = forward
	return l
}

// Lambert returns max(0, n · -L) for a unit surface normal n.
func (l Light) Lambert(n math3d.Vec3) float64 {
	return math.Max(0, n.Dot(l.Direction.Normalize().Negate()))
}

// Material is the appearance of a primitive, resolved once per draw call.
type Material struct {
	Diffuse          math3d.Vec3 // RGB in 0-1 range
	Emissive     math3d.Vec3 // RGB in 0-1 range
	Transparency float64     // Carried for scene fidelity; not blended
}

// DefaultMaterial returns the standard scene-description material:
// diffuse 0.8 gray, no emission.
func DefaultMaterial() Material {
	return Material{Diffuse: math3d.V3(0.8, 0.8, 0.8)}
}

// EmissiveMaterial returns a material whose only color is its emission,
// the encoding of an unlit constant-color primitive.
func EmissiveMaterial(c math3d.Vec3) Material {
	return Material{Emissive: c}
}

// Unlit returns the flat color used when no light is active: the diffuse
// color unmodified, or the emissive color when diffuse is black.
func (m Material) Unlit() math3d.Vec3 {
	if m.Diffuse == (math3d.Vec3{}) {
		return m.Emissive.Clamp01()
	}
	return m.Diffuse.Clamp01()
}

// Lit returns the flat color of a surface with unit normal n under l:
//
//	lambert · intensity · lightColor ⊙ diffuse
//	+ lightAmbient · diffuse
//	+ emissive
func (m Material) Lit(l Light, n math3d.Vec3) math3d.Vec3 {
	direct := l.Color.Mul(m.Diffuse).Scale(l.Lambert(n) * l.Intensity)
	ambient := m.Diffuse.Scale(l.AmbientIntensity)
	return direct.Add(ambient).Add(m.Emissive).Clamp01()
}

// Appearance pairs a material with an optional texture.
type Appearance struct {
	Material Material
	Texture  TextureSampler // nil when untextured
}

// DefaultAppearance returns the default material without a texture.
func DefaultAppearance() Appearance {
	return Appearance{Material: DefaultMaterial()}
}

// Shading is everything the rasterizer needs to color a triangle.
type Shading struct {
	Appearance
	Light *Light // nil when unlit
}

// flat returns the constant color of an untextured, uncolored triangle.
func (s Shading) flat(n math3d.Vec3) Color {
	if s.Light == nil {
		return ColorFromVec(s.Material.Unlit())
	}
	return ColorFromVec(s.Material.Lit(*s.Light, n))
}
