package shape

import (
	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
)

// Rect is an axis-aligned rectangle in its local XY plane, centered on its transform.
// It packs one buffer.Quad primitive.
type Rect struct {
	Transform Transform
	// Size is width, height and depth. Depth is carried for parity with boxes and unused.
	Size  [3]float32
	Color [4]float32
}

// RectRequirements is the minimum layout a Rect packs into.
var RectRequirements = []buffer.Requirement{
	buffer.Floats(buffer.RolePosition, 3),
	buffer.Floats(buffer.RoleColor, 4),
	buffer.Floats(buffer.RoleTexUV, 2),
	buffer.Floats(buffer.RoleTexID, 1),
}

var _ buffer.Renderable = &Rect{}

// NewRect returns a Rect of size w x h centered at (x, y, z).
//
// Parameters:
//   - x, y, z: the world-space center
//   - w, h: the width and height
//   - color: RGBA in [0, 1]
//
// Returns:
//   - *Rect: the rectangle
func NewRect(x, y, z, w, h float32, color [4]float32) *Rect {
	return &Rect{
		Transform: At(x, y, z),
		Size:      [3]float32{w, h, 1},
		Color:     color,
	}
}

// Corners returns the four local-space corners in winding order: (+,+), (-,+), (-,-), (+,-).
func (r *Rect) Corners() [4][3]float32 {
	hw, hh := r.Size[0]/2, r.Size[1]/2
	return [4][3]float32{
		{hw, hh, 0},
		{-hw, hh, 0},
		{-hw, -hh, 0},
		{hw, -hh, 0},
	}
}

// ToBuffer appends the rectangle as one quad. TexUV and TexID are written as zero.
func (r *Rect) ToBuffer(target buffer.VertexBuffer) error {
	if err := checkVertices(target, "rect", 4); err != nil {
		return err
	}
	corners := r.Corners()
	m := r.Transform.Matrix()

	return target.AppendPrimitive(RectRequirements, func(i int, w *buffer.VertexWriter) error {
		p := transformPoint(m, corners[i])
		if err := w.Float32s(buffer.RolePosition, p[0], p[1], p[2]); err != nil {
			return err
		}
		if err := w.Float32s(buffer.RoleColor, r.Color[:]...); err != nil {
			return err
		}
		if err := w.Float32s(buffer.RoleTexUV, 0, 0); err != nil {
			return err
		}
		return w.Float32s(buffer.RoleTexID, 0)
	})
}
