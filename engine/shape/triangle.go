package shape

import (
	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
)

// Triangle packs one buffer.Triangle primitive from three local-space points.
type Triangle struct {
	Transform Transform
	Points    [3][3]float32
	Color     [4]float32
}

// ColoredRequirements is the minimum layout for shapes that only write position and color.
var ColoredRequirements = []buffer.Requirement{
	buffer.Floats(buffer.RolePosition, 3),
	buffer.Floats(buffer.RoleColor, 4),
}

var _ buffer.Renderable = &Triangle{}

func (t *Triangle) ToBuffer(target buffer.VertexBuffer) error {
	if err := checkVertices(target, "triangle", 3); err != nil {
		return err
	}
	m := t.Transform.Matrix()
	return target.AppendPrimitive(ColoredRequirements, func(i int, w *buffer.VertexWriter) error {
		p := transformPoint(m, t.Points[i])
		if err := w.Float32s(buffer.RolePosition, p[0], p[1], p[2]); err != nil {
			return err
		}
		return w.Float32s(buffer.RoleColor, t.Color[:]...)
	})
}

func transformPoint(m [16]float32, p [3]float32) [3]float32 {
	return common.TransformPoint(m[:], p[0], p[1], p[2])
}
