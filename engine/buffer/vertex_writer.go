package buffer

import "fmt"

// WriteFunc fills in the attributes of one vertex of the primitive being appended.
// vertex is the index of the vertex within the primitive, in [0, VerticesPerPrimitive).
type WriteFunc func(vertex int, w *VertexWriter) error

// VertexWriter writes attribute values into the vertex currently being packed.
// Every attribute of the vertex starts zeroed; roles that are never written stay zero.
type VertexWriter struct {
	block  *Block
	layout Layout
	base   int
	vertex int
}

// Vertex returns the index of the vertex being written within its primitive.
func (w *VertexWriter) Vertex() int {
	return w.vertex
}

// Float32s writes float components of role starting at component 0.
//
// Parameters:
//   - role: the attribute to write
//   - values: the components, at most the attribute's component count
//
// Returns:
//   - error: ErrUnknownAttribute, ErrLayoutMismatch or ErrOutOfBounds
func (w *VertexWriter) Float32s(role Role, values ...float32) error {
	return writeComponents(w, role, TypeFloat, values)
}

// Int32s writes signed integer components of role.
func (w *VertexWriter) Int32s(role Role, values ...int32) error {
	return writeComponents(w, role, TypeInt, values)
}

// Uint32s writes unsigned integer components of role.
func (w *VertexWriter) Uint32s(role Role, values ...uint32) error {
	return writeComponents(w, role, TypeUInt, values)
}

// Int16s writes Short components of role.
func (w *VertexWriter) Int16s(role Role, values ...int16) error {
	return writeComponents(w, role, TypeShort, values)
}

// Uint16s writes UShort components of role.
func (w *VertexWriter) Uint16s(role Role, values ...uint16) error {
	return writeComponents(w, role, TypeUShort, values)
}

// Int8s writes Byte components of role.
func (w *VertexWriter) Int8s(role Role, values ...int8) error {
	return writeComponents(w, role, TypeByte, values)
}

// Uint8s writes UByte components of role.
func (w *VertexWriter) Uint8s(role Role, values ...uint8) error {
	return writeComponents(w, role, TypeUByte, values)
}

func writeComponents[T Scalar](w *VertexWriter, role Role, want ScalarType, values []T) error {
	md, err := w.layout.Metadata(role)
	if err != nil {
		return err
	}
	if md.Type != want {
		return fmt.Errorf("%w: bad %s layout, got %d of type %s, writing %s",
			ErrLayoutMismatch, role, md.Components, md.Type, want)
	}
	if len(values) > md.Components {
		return fmt.Errorf("%w: bad %s layout, got %d of type %s, writing %d components",
			ErrLayoutMismatch, role, md.Components, md.Type, len(values))
	}
	size := want.Size()
	for i, v := range values {
		if err := Set(w.block, w.base+md.Offset+i*size, v); err != nil {
			return err
		}
	}
	return nil
}
