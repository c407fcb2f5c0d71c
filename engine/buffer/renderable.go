package buffer

// Renderable is anything that can pack itself into a VertexBuffer.
// ToBuffer performs exactly one AppendPrimitive per logical shape instance and never
// reconfigures the target's layout or primitive.
type Renderable interface {
	ToBuffer(target VertexBuffer) error
}

// RenderableFunc adapts a plain function to Renderable.
type RenderableFunc func(target VertexBuffer) error

func (f RenderableFunc) ToBuffer(target VertexBuffer) error {
	return f(target)
}
