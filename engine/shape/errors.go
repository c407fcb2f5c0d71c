package shape

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
)

// ErrPrimitiveMismatch is returned when a shape is packed into a buffer whose primitive
// has a different number of vertices than the shape provides.
var ErrPrimitiveMismatch = errors.New("shape does not fit buffer primitive")

// checkVertices reports whether target's primitive writes exactly want vertices. An
// unconfigured buffer passes so AppendPrimitive can report it.
func checkVertices(target buffer.VertexBuffer, shape string, want int) error {
	p := target.Primitive()
	if !p.IsZero() && p.VerticesPerPrimitive() != want {
		return fmt.Errorf("%w: %s has %d vertices, buffer primitive %s has %d",
			ErrPrimitiveMismatch, shape, want, p.Name(), p.VerticesPerPrimitive())
	}
	return nil
}
