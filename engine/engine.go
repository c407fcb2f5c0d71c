package engine

import (
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/sandbox"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/window"
)

// maxTicksPerFrame bounds catch-up ticks after a long stall.
const maxTicksPerFrame = 5

// engine implements the Engine interface.
// Everything runs on the window's message loop thread: ticks, frames and profiling.
type engine struct {
	mu *sync.Mutex

	quitOnce sync.Once
	err      error

	window     window.Window
	renderer   renderer.Renderer
	sandbox    sandbox.Sandbox
	controller camera.CameraController

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32) []buffer.Renderable

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	lastFrame   float64
	accumulator time.Duration

	// Construction inputs for components the engine creates itself.
	backendType     renderer.RendererBackendType
	windowOptions   []window.WindowBuilderOption
	rendererOptions []renderer.RendererBuilderOption
	sandboxOptions  []sandbox.SandboxBuilderOption
}

// Engine is the main entry point for the sandbox.
// It owns the window, renderer and frame driver, and runs the tick and frame loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer drawing into the window.
	Renderer() renderer.Renderer

	// Sandbox returns the frame driver.
	Sandbox() sandbox.Sandbox

	// CameraController returns the keyboard controller moving the sandbox camera.
	CameraController() camera.CameraController

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	// The tick callback and the camera controller are updated at this fixed rate.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Use this for animation and other time-based updates.
	//
	// Parameters:
	//   - callback: function to call at the configured tick rate, receiving the tick length in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function that supplies the geometry of each frame.
	//
	// Parameters:
	//   - callback: function called once per frame, receiving the frame delta in seconds and
	//     returning the renderables to pack
	SetRenderCallback(callback func(deltaTime float32) []buffer.Renderable)

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the sandbox and blocks until the window closes or a frame fails.
	// GPU resources are released before it returns.
	//
	// Returns:
	//   - error: the error that stopped the loop, nil when the window was closed
	Run() error

	// Quit asks the loop to stop after the current frame.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Components not supplied through options are created here: a window (with an OpenGL
// context when the GL backend is selected), a renderer for it, a sandbox drawing through
// the renderer and a camera controller for the sandbox camera.
//
// Parameters:
//   - options: functional options for engine configuration (profiling, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:               &sync.Mutex{},
		profilingEnabled: false,
		engineTickRate:   time.Second / 60,
		backendType:      renderer.BackendTypeWGPU,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		winOpts := e.windowOptions
		if e.backendType == renderer.BackendTypeGL {
			winOpts = append(winOpts, window.WithClientAPI(window.ClientAPIOpenGL))
		}
		e.window = window.NewWindow(winOpts...)
	}
	if e.renderer == nil {
		e.renderer = renderer.NewRenderer(e.backendType, e.window, e.rendererOptions...)
	}
	if e.sandbox == nil {
		e.sandbox = sandbox.NewSandbox(e.renderer, e.sandboxOptions...)
	}
	if e.controller == nil {
		e.controller = camera.NewCameraController(e.sandbox.Camera())
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}

	e.sandbox.Camera().SetViewport(e.window.Width(), e.window.Height())
	e.window.SetResizeCallback(func(width, height int) {
		e.renderer.Resize(width, height)
		e.sandbox.Camera().SetViewport(width, height)
	})
	e.window.SetKeyDownCallback(func(keyCode uint32) {
		e.controller.HandleKeyDown(keyCode, e.window.Input())
	})

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Sandbox() sandbox.Sandbox {
	return e.sandbox
}

func (e *engine) CameraController() camera.CameraController {
	return e.controller
}

func (e *engine) Run() error {
	if err := e.sandbox.Start(); err != nil {
		e.shutdown()
		return err
	}

	e.lastFrame = e.window.Time()
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()

	e.mu.Lock()
	err := e.err
	e.mu.Unlock()

	e.shutdown()
	return err
}

// shutdown releases everything the loop used, in reverse order of creation.
func (e *engine) shutdown() {
	e.sandbox.Stop()
	e.profiler.Stop()
	e.renderer.Release()
}

// Quit signals the loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.window.RequestClose()
	})
}

// frame is one iteration of the window message loop: fixed-rate ticks, then one
// sandbox frame, then profiling. A failed frame stops the loop.
func (e *engine) frame() {
	now := e.window.Time()
	elapsed := time.Duration((now - e.lastFrame) * float64(time.Second))
	e.lastFrame = now
	dt := float32(elapsed.Seconds())

	e.mu.Lock()
	tickRate := e.engineTickRate
	tickCallback := e.tickCallback
	renderCallback := e.renderCallback
	frameLimit := e.renderFrameLimit
	profiling := e.profilingEnabled
	e.mu.Unlock()

	e.accumulator += elapsed
	ticks := 0
	for e.accumulator >= tickRate && ticks < maxTicksPerFrame {
		step := float32(tickRate.Seconds())
		e.controller.Update(step, e.window.Input())
		if tickCallback != nil {
			tickCallback(step)
		}
		e.accumulator -= tickRate
		ticks++
	}
	if ticks == maxTicksPerFrame {
		e.accumulator = 0
	}

	var renderables []buffer.Renderable
	if renderCallback != nil {
		renderables = renderCallback(dt)
	}
	if err := e.sandbox.Frame(renderables...); err != nil {
		log.Printf("[Engine] frame failed: %v", err)
		e.mu.Lock()
		e.err = err
		e.mu.Unlock()
		e.signalQuit()
		return
	}

	if profiling {
		stats := e.sandbox.LastFrame()
		e.profiler.Record(stats.Primitives, stats.VertexBytes, stats.IndexBytes)
		e.profiler.Tick()
	}

	if frameLimit > 0 {
		spent := time.Duration((e.window.Time() - now) * float64(time.Second))
		if remaining := frameLimit - spent; remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect on the next frame.
func (e *engine) SetTickRate(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.engineTickRate = tickDuration(fps)
}

// SetTickCallback registers the function called each engine tick.
func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

// SetRenderCallback registers the function supplying each frame's renderables.
func (e *engine) SetRenderCallback(callback func(deltaTime float32) []buffer.Renderable) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional frame rate cap.
// Pass 0 to uncap the loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderFrameLimit = frameDuration(fps)
}

func tickDuration(fps float64) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Duration(float64(time.Second) / fps)
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
