package sandbox

import (
	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/shader"
)

// SandboxBuilderOption is a functional option applied to a sandbox during construction via NewSandbox.
type SandboxBuilderOption func(*sandboxImpl)

// WithLayout sets the attribute layout installed on the shared buffer at Start.
//
// Parameters:
//   - layout: the vertex layout; must match the program's attributes
//
// Returns:
//   - SandboxBuilderOption: a function that applies the layout option to a sandbox
func WithLayout(layout buffer.Layout) SandboxBuilderOption {
	return func(s *sandboxImpl) {
		s.layout = layout
	}
}

// WithPrimitive sets the primitive installed on the shared buffer at Start.
//
// Parameters:
//   - primitive: the primitive every renderable appends
//
// Returns:
//   - SandboxBuilderOption: a function that applies the primitive option to a sandbox
func WithPrimitive(primitive buffer.Primitive) SandboxBuilderOption {
	return func(s *sandboxImpl) {
		s.primitive = primitive
	}
}

// WithCamera sets the camera. Its depth range is overwritten at Start to match the renderer.
func WithCamera(cam camera.Camera) SandboxBuilderOption {
	return func(s *sandboxImpl) {
		s.camera = cam
	}
}

// WithProgram sets the shader program used for the draw.
func WithProgram(p shader.Program) SandboxBuilderOption {
	return func(s *sandboxImpl) {
		s.program = p
	}
}

// WithCapacity pre-sizes the CPU blocks of the shared buffer for this many primitives.
func WithCapacity(primitives int) SandboxBuilderOption {
	return func(s *sandboxImpl) {
		s.capacity = primitives
	}
}

// WithLabel sets the debug label of the GPU buffers.
func WithLabel(label string) SandboxBuilderOption {
	return func(s *sandboxImpl) {
		s.label = label
	}
}
