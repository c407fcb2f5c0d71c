package renderer

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/shader"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeGL selects the OpenGL 3.3 core backend. The window must be created with
	// window.ClientAPIOpenGL.
	BackendTypeGL
)

func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeGL:
		return "gl"
	default:
		return fmt.Sprintf("RendererBackendType(%d)", int(t))
	}
}

// ParseBackendType converts a backend name ("wgpu", "webgpu", "gl" or "opengl") to a RendererBackendType.
//
// Parameters:
//   - s: the backend name, case-insensitive
//
// Returns:
//   - RendererBackendType: the parsed backend
//   - error: an error if the name is unknown
func ParseBackendType(s string) (RendererBackendType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wgpu", "webgpu", "":
		return BackendTypeWGPU, nil
	case "gl", "opengl":
		return BackendTypeGL, nil
	default:
		return BackendTypeWGPU, fmt.Errorf("unknown renderer backend %q", s)
	}
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// Only the WebGPU backend honours it. WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the interface each GPU API implements for the Renderer.
// The Renderer serializes calls; backends run on the thread that owns the window.
type RendererBackend interface {
	// ConfigureSurface (re)creates the render target for a framebuffer of the given size.
	ConfigureSurface(width, height int)

	// SetPresentMode changes how frames are presented.
	SetPresentMode(mode PresentMode)

	// ClipDepth returns the clip-space depth convention of the API.
	ClipDepth() common.DepthRange

	// NewVertexDevice creates the GPU side of a vertex buffer.
	NewVertexDevice(label string) buffer.Device

	// BeginFrame acquires the render target and clears it to the clear color.
	BeginFrame() error

	// UseProgram compiles (once per program key) and activates p.
	UseProgram(p shader.Program) error

	// SetCamera uploads the projection and view matrices for the active program.
	SetCamera(projection, view [16]float32) error

	// DrawIndexed draws indexCount indices from the bound vertex device.
	DrawIndexed(topology buffer.Topology, indexCount int) error

	// DetachProgram deactivates the active program.
	DetachProgram()

	// Present finishes the frame and shows it.
	Present() error

	// Release frees every GPU resource the backend created.
	Release()
}
