package renderer

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/window"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	// program is the program set by UseProgram, nil after DetachProgram.
	program shader.Program
	// inFrame is true between ClearTarget and Present.
	inFrame  bool
	released bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	clearColor           [4]float64
}

// Renderer is the GPU collaborator of the frame driver: it clears the render target,
// hands out the GPU side of vertex buffers, activates shader programs, uploads the
// camera matrices and issues one indexed draw per call.
//
// The Renderer implements a backend which allows for multiple backend API implementations
// to exist (WebGPU and OpenGL 3.3 core).
type Renderer interface {
	// BackendType returns the backend selected at construction.
	BackendType() RendererBackendType

	// ClipDepth returns the clip-space depth convention of the backend, for the camera's projection.
	ClipDepth() common.DepthRange

	// ClearTarget starts a frame and clears the color target to the clear color.
	//
	// Returns:
	//   - error: an error if the render target could not be acquired or cleared
	ClearTarget() error

	// VertexDevice creates the GPU side of a vertex buffer for this backend.
	//
	// Parameters:
	//   - label: a debug label for the GPU buffers
	//
	// Returns:
	//   - buffer.Device: the device to attach to a buffer.VertexBuffer
	VertexDevice(label string) buffer.Device

	// UseProgram activates a shader program, compiling it on first use.
	//
	// Parameters:
	//   - p: the program to activate
	//
	// Returns:
	//   - error: ErrUnsupportedLanguage or a compile error
	UseProgram(p shader.Program) error

	// SetCamera uploads the camera matrices to the active program.
	//
	// Parameters:
	//   - projection: the projection matrix, column-major
	//   - view: the view matrix, column-major
	//
	// Returns:
	//   - error: ErrNoProgram or a backend error
	SetCamera(projection, view [16]float32) error

	// DrawIndexed issues one indexed draw from the bound vertex device. A zero count is a no-op.
	//
	// Parameters:
	//   - topology: how indices are assembled into primitives
	//   - indexCount: the number of uint32 indices to draw
	//
	// Returns:
	//   - error: ErrFrameNotStarted, ErrNoProgram or a backend error
	DrawIndexed(topology buffer.Topology, indexCount int) error

	// DetachProgram deactivates the active program.
	DetachProgram()

	// Present finishes the frame started by ClearTarget and shows it.
	//
	// Returns:
	//   - error: ErrFrameNotStarted or a backend error
	Present() error

	// Resize reconfigures the render target for a new framebuffer size.
	//
	// Parameters:
	//   - width, height: the framebuffer size in pixels
	Resize(width, height int)

	// SetPresentMode changes how frames are presented.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// Release frees the backend's GPU resources. Safe to call more than once.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the given window with the specified backend.
// The OpenGL backend requires a window created with window.ClientAPIOpenGL.
// Panics if the GPU device or context cannot be initialized.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - win: the window to render into
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		clearColor:  [4]float64{0, 0, 0, 1},
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeGL:
		if win.ClientAPI() != window.ClientAPIOpenGL {
			panic("OpenGL backend requires a window created with window.ClientAPIOpenGL")
		}
		r.backend = newGLRendererBackend(win, r.clearColor)
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backendType = BackendTypeWGPU
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa, r.clearColor)
	}
	log.Printf("[Renderer] using %s backend", r.backendType)

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(win.Width(), win.Height())
	return r
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) ClipDepth() common.DepthRange {
	return r.backend.ClipDepth()
}

func (r *renderer) ClearTarget() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.backend.BeginFrame(); err != nil {
		return fmt.Errorf("failed to clear render target: %w", err)
	}
	r.inFrame = true
	return nil
}

func (r *renderer) VertexDevice(label string) buffer.Device {
	return r.backend.NewVertexDevice(label)
}

func (r *renderer) UseProgram(p shader.Program) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.backend.UseProgram(p); err != nil {
		return fmt.Errorf("failed to use program %q: %w", p.Key(), err)
	}
	r.program = p
	return nil
}

func (r *renderer) SetCamera(projection, view [16]float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program == nil {
		return ErrNoProgram
	}
	return r.backend.SetCamera(projection, view)
}

func (r *renderer) DrawIndexed(topology buffer.Topology, indexCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inFrame {
		return ErrFrameNotStarted
	}
	if r.program == nil {
		return ErrNoProgram
	}
	if indexCount <= 0 {
		return nil
	}
	if err := r.backend.DrawIndexed(topology, indexCount); err != nil {
		return fmt.Errorf("failed to draw %d indices as %s: %w", indexCount, topology, err)
	}
	return nil
}

func (r *renderer) DetachProgram() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program == nil {
		return
	}
	r.backend.DetachProgram()
	r.program = nil
}

func (r *renderer) Present() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inFrame {
		return ErrFrameNotStarted
	}
	r.inFrame = false
	return r.backend.Present()
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return
	}
	r.released = true
	r.program = nil
	r.backend.Release()
}
