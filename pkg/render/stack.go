package render

import "github.com/taigrr/scanline/pkg/math3d"

// TransformStack holds the composed model matrices of the enclosing
// transform nodes. The zero value is an empty stack whose top is the
// identity.
type TransformStack struct {
	m []math3d.Mat4
}

// Enter pushes top · T · R · S.
func (s *TransformStack) Enter(translation math3d.Vec3, rotation math3d.AxisAngle, scale math3d.Vec3) {
	s.PushMatrix(math3d.TRS(translation, rotation, scale))
}

// PushMatrix pushes top · m.
func (s *TransformStack) PushMatrix(m math3d.Mat4) {
	s.m = append(s.m, s.Top().Mul(m))
}

// Exit pops the innermost transform. Exiting an empty stack does nothing.
func (s *TransformStack) Exit() {
	if len(s.m) == 0 {
		return
	}
	s.m = s.m[:len(s.m)-1]
}

// Top returns the composed model matrix, or the identity when empty.
func (s *TransformStack) Top() math3d.Mat4 {
	if len(s.m) == 0 {
		return math3d.Identity()
	}
	return s.m[len(s.m)-1]
}

// Depth returns the number of open transforms.
func (s *TransformStack) Depth() int {
	return len(s.m)
}

// Reset empties the stack.
func (s *TransformStack) Reset() {
	s.m = s.m[:0]
}
