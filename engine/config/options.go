package config

import (
	"time"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/sandbox"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/window"
)

// BackendType parses the renderer backend name.
func (c Config) BackendType() (renderer.RendererBackendType, error) {
	return renderer.ParseBackendType(c.Renderer.Backend)
}

// CameraMode parses the camera projection mode.
func (c Config) CameraMode() (camera.Mode, error) {
	return camera.ParseMode(c.Camera.Mode)
}

func (c Config) WindowOptions() []window.WindowBuilderOption {
	return []window.WindowBuilderOption{
		window.WithTitle(common.Coalesce(c.Window.Title, Default().Window.Title)),
		window.WithSize(c.Window.Width, c.Window.Height),
		window.WithVSync(c.Renderer.VSync),
	}
}

func (c Config) RendererOptions() []renderer.RendererBuilderOption {
	mode := renderer.PresentModeVSync
	if !c.Renderer.VSync {
		mode = renderer.PresentModeUncapped
	}
	cc := c.Renderer.ClearColor
	return []renderer.RendererBuilderOption{
		renderer.WithPresentMode(mode),
		renderer.WithMSAA(renderer.MSAASampleCount(c.Renderer.MSAA)),
		renderer.WithForceSoftwareRenderer(c.Renderer.Software),
		renderer.WithClearColor(cc[0], cc[1], cc[2], cc[3]),
	}
}

// CameraOptions returns the camera settings. An unparseable mode falls back to perspective;
// Validate reports it.
func (c Config) CameraOptions() []camera.CameraBuilderOption {
	mode, _ := c.CameraMode()
	p := c.Camera.Position
	return []camera.CameraBuilderOption{
		camera.WithMode(mode),
		camera.WithFov(c.Camera.Fov),
		camera.WithZoom(c.Camera.Zoom),
		camera.WithClipPlanes(c.Camera.Near, c.Camera.Far),
		camera.WithPosition(p[0], p[1], p[2]),
		camera.WithViewport(c.Window.Width, c.Window.Height),
	}
}

// EngineOptions returns everything NewEngine needs to build the configured sandbox:
// backend, window, renderer, a sandbox around the configured camera, its keyboard controller
// and the profiler.
//
// Returns:
//   - []engine.EngineBuilderOption: options for engine.NewEngine
func (c Config) EngineOptions() []engine.EngineBuilderOption {
	backend, _ := c.BackendType()
	cam := camera.NewCamera(c.CameraOptions()...)

	sandboxOpts := []sandbox.SandboxBuilderOption{sandbox.WithCamera(cam)}
	if c.Engine.Capacity > 0 {
		sandboxOpts = append(sandboxOpts, sandbox.WithCapacity(c.Engine.Capacity))
	}

	return []engine.EngineBuilderOption{
		engine.WithBackend(backend),
		engine.WithWindowOptions(c.WindowOptions()...),
		engine.WithRendererOptions(c.RendererOptions()...),
		engine.WithSandboxOptions(sandboxOpts...),
		engine.WithCameraController(camera.NewCameraController(cam, camera.WithSpeed(c.Camera.Speed))),
		engine.WithTickRate(c.Engine.TickRate),
		engine.WithRenderFrameLimit(c.Engine.FrameLimit),
		engine.WithProfiling(c.Engine.Profiling.Enabled),
		engine.WithProfiler(profiler.NewProfiler(profiler.WithInterval(time.Duration(c.Engine.Profiling.Interval)))),
	}
}
