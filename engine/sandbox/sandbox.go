package sandbox

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/shader"
)

// ErrNotStarted is returned by Frame before Start or after Stop.
var ErrNotStarted = errors.New("sandbox is not started")

// GPU is the part of renderer.Renderer the frame driver needs.
type GPU interface {
	ClipDepth() common.DepthRange
	ClearTarget() error
	VertexDevice(label string) buffer.Device
	UseProgram(p shader.Program) error
	SetCamera(projection, view [16]float32) error
	DrawIndexed(topology buffer.Topology, indexCount int) error
	DetachProgram()
	Present() error
}

// FrameStats describes the geometry packed by the most recent frame.
type FrameStats struct {
	Primitives  int
	Vertices    int
	Indices     int
	VertexBytes int
	IndexBytes  int
	// Drawn is false when the frame packed no indices.
	Drawn bool
}

// Sandbox is the renderer context: one shared vertex buffer, the camera and the shader
// program, rebuilt from renderables every frame.
type Sandbox interface {
	// Start installs the layout and primitive on the buffer and creates its GPU resources.
	// Calling Start on a started sandbox is a no-op.
	//
	// Returns:
	//   - error: an error if the layout or primitive could not be installed
	Start() error

	// Frame packs renderables into the shared buffer and draws them with one indexed draw.
	// A producer error skips the draw, closes the frame and is returned.
	//
	// Parameters:
	//   - renderables: the geometry to draw this frame, packed in order
	//
	// Returns:
	//   - error: the first packing or GPU error
	Frame(renderables ...buffer.Renderable) error

	// Stop releases the GPU resources. Safe to call more than once.
	Stop()

	// Started reports whether Start succeeded and Stop has not been called.
	Started() bool

	// Buffer returns the shared vertex buffer.
	Buffer() buffer.VertexBuffer

	// Camera returns the camera whose matrices are uploaded each frame.
	Camera() camera.Camera

	// Program returns the shader program used for the draw.
	Program() shader.Program

	// LastFrame returns the stats of the most recent successful frame. A failed frame
	// leaves them unchanged.
	LastFrame() FrameStats
}

type sandboxImpl struct {
	mu *sync.Mutex

	gpu     GPU
	buffer  buffer.VertexBuffer
	camera  camera.Camera
	program shader.Program

	layout    buffer.Layout
	primitive buffer.Primitive
	capacity  int
	label     string

	started bool
	last    FrameStats
}

var _ Sandbox = &sandboxImpl{}

// NewSandbox creates a Sandbox drawing through gpu. Defaults are the 40-byte
// buffer.DefaultLayout, buffer.Quad primitives, camera.NewCamera and shader.DefaultProgram.
//
// Parameters:
//   - gpu: the renderer to draw with
//   - options: functional options to configure the sandbox
//
// Returns:
//   - Sandbox: the sandbox, not yet started
func NewSandbox(gpu GPU, options ...SandboxBuilderOption) Sandbox {
	s := &sandboxImpl{
		mu:        &sync.Mutex{},
		gpu:       gpu,
		layout:    buffer.DefaultLayout,
		primitive: buffer.Quad,
		capacity:  64,
		label:     "Sandbox",
	}
	for _, opt := range options {
		opt(s)
	}
	if s.camera == nil {
		s.camera = camera.NewCamera()
	}
	if s.program == nil {
		s.program = shader.DefaultProgram()
	}
	s.buffer = buffer.NewVertexBuffer(
		buffer.WithLayout(s.layout),
		buffer.WithPrimitive(s.primitive),
		buffer.WithCapacity(s.capacity),
	)
	return s
}

func (s *sandboxImpl) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if err := s.buffer.SetLayout(s.layout); err != nil {
		return fmt.Errorf("failed to install layout: %w", err)
	}
	if err := s.buffer.SetPrimitive(s.primitive); err != nil {
		return fmt.Errorf("failed to install primitive: %w", err)
	}
	if err := s.program.CheckAttribs(s.buffer.AttribPointers()); err != nil {
		return err
	}

	s.camera.SetDepthRange(s.gpu.ClipDepth())
	s.buffer.SetDevice(s.gpu.VertexDevice(s.label))
	s.started = true
	return nil
}

func (s *sandboxImpl) Frame(renderables ...buffer.Renderable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	if err := s.gpu.ClearTarget(); err != nil {
		return err
	}

	s.buffer.Bind()
	var stats FrameStats
	attached := false
	drawErr := s.pack(renderables)
	if drawErr == nil {
		stats = s.stats()
		attached, stats.Drawn, drawErr = s.draw()
	}
	s.buffer.Unbind()
	s.buffer.Clear()
	if attached {
		s.gpu.DetachProgram()
	}

	// The frame was opened by ClearTarget and is always closed, even on failure.
	if err := s.gpu.Present(); err != nil && drawErr == nil {
		drawErr = err
	}
	if drawErr == nil {
		s.last = stats
	}
	return drawErr
}

// pack runs every producer. On error the packed geometry is discarded by Frame.
func (s *sandboxImpl) pack(renderables []buffer.Renderable) error {
	for i, r := range renderables {
		if r == nil {
			continue
		}
		if err := r.ToBuffer(s.buffer); err != nil {
			return fmt.Errorf("renderable %d: %w", i, err)
		}
	}
	return nil
}

func (s *sandboxImpl) stats() FrameStats {
	return FrameStats{
		Primitives:  s.buffer.Size(),
		Vertices:    s.buffer.VertexCount(),
		Indices:     s.buffer.IndexCount(),
		VertexBytes: len(s.buffer.VertexBytes()),
		IndexBytes:  len(s.buffer.IndexBytes()),
	}
}

// draw uploads the packed buffer and issues the single indexed draw. attached reports
// whether the program was activated and must be detached by the caller; drawn whether
// the draw call was issued.
func (s *sandboxImpl) draw() (bool, bool, error) {
	if err := s.buffer.Upload(); err != nil {
		return false, false, err
	}

	if err := s.gpu.UseProgram(s.program); err != nil {
		return false, false, err
	}
	if err := s.gpu.SetCamera(s.camera.ProjectionMatrix(), s.camera.ViewMatrix()); err != nil {
		return true, false, err
	}

	if err := s.buffer.EnableAttribs(); err != nil {
		return true, false, err
	}
	defer s.buffer.DisableAttribs()

	count := s.buffer.IndexCount()
	if count == 0 {
		return true, false, nil
	}
	if err := s.gpu.DrawIndexed(s.buffer.Primitive().Topology(), count); err != nil {
		return true, false, err
	}
	return true, true, nil
}

func (s *sandboxImpl) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.buffer.Clear()
	s.buffer.Release()
}

func (s *sandboxImpl) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *sandboxImpl) Buffer() buffer.VertexBuffer {
	return s.buffer
}

func (s *sandboxImpl) Camera() camera.Camera {
	return s.camera
}

func (s *sandboxImpl) Program() shader.Program {
	return s.program
}

func (s *sandboxImpl) LastFrame() FrameStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
