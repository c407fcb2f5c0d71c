package buffer

type VertexBufferBuilderOption func(*vertexBufferImpl)

// WithLayout installs the attribute layout at construction.
// A zero layout is ignored.
//
// Parameters:
//   - layout: the vertex layout
//
// Returns:
//   - VertexBufferBuilderOption: a function that sets the layout
func WithLayout(layout Layout) VertexBufferBuilderOption {
	return func(v *vertexBufferImpl) {
		if !layout.IsZero() {
			v.layout = layout
		}
	}
}

// WithPrimitive installs the primitive descriptor at construction.
// A zero descriptor is ignored.
//
// Parameters:
//   - primitive: the primitive descriptor
//
// Returns:
//   - VertexBufferBuilderOption: a function that sets the primitive
func WithPrimitive(primitive Primitive) VertexBufferBuilderOption {
	return func(v *vertexBufferImpl) {
		if !primitive.IsZero() {
			v.primitive = primitive
		}
	}
}

// WithCapacity reserves room for the given number of primitives in both blocks.
// It must come after WithLayout and WithPrimitive to have any effect.
//
// Parameters:
//   - primitives: the number of primitives to reserve space for
//
// Returns:
//   - VertexBufferBuilderOption: a function that reserves block capacity
func WithCapacity(primitives int) VertexBufferBuilderOption {
	return func(v *vertexBufferImpl) {
		if primitives <= 0 || v.primitive.IsZero() {
			return
		}
		v.vb = NewBlock(primitives * v.primitive.VerticesPerPrimitive() * v.layout.Stride())
		v.ib = NewBlock(primitives * len(v.primitive.pattern) * SizeOf[uint32]())
	}
}

// WithDevice attaches the GPU side of the buffer.
//
// Parameters:
//   - device: the device to attach
//
// Returns:
//   - VertexBufferBuilderOption: a function that sets the device
func WithDevice(device Device) VertexBufferBuilderOption {
	return func(v *vertexBufferImpl) {
		v.device = device
	}
}
