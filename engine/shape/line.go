package shape

import "github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"

// Line packs one buffer.Line primitive between two world-space points.
type Line struct {
	From  [3]float32
	To    [3]float32
	Color [4]float32
}

var _ buffer.Renderable = &Line{}

func (l *Line) ToBuffer(target buffer.VertexBuffer) error {
	if err := checkVertices(target, "line", 2); err != nil {
		return err
	}
	ends := [2][3]float32{l.From, l.To}
	return target.AppendPrimitive(ColoredRequirements, func(i int, w *buffer.VertexWriter) error {
		p := ends[i]
		if err := w.Float32s(buffer.RolePosition, p[0], p[1], p[2]); err != nil {
			return err
		}
		return w.Float32s(buffer.RoleColor, l.Color[:]...)
	})
}
