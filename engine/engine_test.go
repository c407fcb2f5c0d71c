package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/shape"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs a fixed number of loop iterations, advancing its clock by step each time.
type fakeWindow struct {
	frames  int
	step    float64
	now     float64
	running bool
	input   *window.InputState

	onUpdate  func()
	onResize  func(width, height int)
	onKeyDown func(keyCode uint32)
}

func newFakeWindow(frames int, step float64) *fakeWindow {
	return &fakeWindow{frames: frames, step: step, running: true, input: window.NewInputState()}
}

func (w *fakeWindow) SetUpdateCallback(callback func())                       { w.onUpdate = callback }
func (w *fakeWindow) SetResizeCallback(callback func(width, height int))      { w.onResize = callback }
func (w *fakeWindow) SetScrollCallback(func(delta float32))                   {}
func (w *fakeWindow) SetKeyDownCallback(callback func(keyCode uint32))        { w.onKeyDown = callback }
func (w *fakeWindow) SetKeyUpCallback(func(keyCode uint32))                   {}
func (w *fakeWindow) SetMouseButtonCallback(func(int, bool, float64, float64)) {}
func (w *fakeWindow) SetMouseMoveCallback(func(x, y float64))                 {}
func (w *fakeWindow) Input() *window.InputState                               { return w.input }
func (w *fakeWindow) ClientAPI() window.ClientAPI                             { return window.ClientAPINone }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor              { return nil }
func (w *fakeWindow) SwapBuffers()                                            {}
func (w *fakeWindow) Time() float64                                           { return w.now }
func (w *fakeWindow) IsRunning() bool                                         { return w.running }
func (w *fakeWindow) RequestClose()                                           { w.running = false }
func (w *fakeWindow) Close() error                                            { return nil }
func (w *fakeWindow) Width() int                                              { return 800 }
func (w *fakeWindow) Height() int                                             { return 600 }

func (w *fakeWindow) ProcessMessages() {
	for i := 0; i < w.frames && w.running; i++ {
		w.now += w.step
		if w.onUpdate != nil {
			w.onUpdate()
		}
	}
}

type nopDevice struct{}

func (nopDevice) Bind()                                      {}
func (nopDevice) Unbind()                                    {}
func (nopDevice) Upload(_, _ []byte) error                   { return nil }
func (nopDevice) EnableAttribs([]buffer.AttribPointer) error { return nil }
func (nopDevice) DisableAttribs([]buffer.AttribPointer)      {}
func (nopDevice) Release()                                   {}

type fakeRenderer struct {
	draws    int
	presents int
	resized  [2]int
	released int
}

var _ renderer.Renderer = &fakeRenderer{}

func (r *fakeRenderer) BackendType() renderer.RendererBackendType   { return renderer.BackendTypeWGPU }
func (r *fakeRenderer) ClipDepth() common.DepthRange                { return common.DepthZeroToOne }
func (r *fakeRenderer) ClearTarget() error                          { return nil }
func (r *fakeRenderer) VertexDevice(string) buffer.Device           { return nopDevice{} }
func (r *fakeRenderer) UseProgram(shader.Program) error             { return nil }
func (r *fakeRenderer) SetCamera(_, _ [16]float32) error            { return nil }
func (r *fakeRenderer) DetachProgram()                              {}
func (r *fakeRenderer) SetPresentMode(renderer.PresentMode)         {}
func (r *fakeRenderer) Resize(width, height int)                    { r.resized = [2]int{width, height} }
func (r *fakeRenderer) Release()                                    { r.released++ }
func (r *fakeRenderer) DrawIndexed(buffer.Topology, int) error      { r.draws++; return nil }
func (r *fakeRenderer) Present() error                              { r.presents++; return nil }

func newTestEngine(win *fakeWindow, r *fakeRenderer, options ...EngineBuilderOption) Engine {
	base := []EngineBuilderOption{
		WithWindow(win),
		WithRenderer(r),
		WithProfiler(profiler.NewProfiler(profiler.WithReporter(func(profiler.Report) {}))),
	}
	return NewEngine(append(base, options...)...)
}

func TestRunDrawsEachFrame(t *testing.T) {
	win := newFakeWindow(5, 0.1)
	r := &fakeRenderer{}
	e := newTestEngine(win, r)

	rect := shape.NewRect(0, 0, 1, 1, 1, [4]float32{1, 1, 1, 1})
	e.SetRenderCallback(func(float32) []buffer.Renderable {
		return []buffer.Renderable{rect}
	})

	require.NoError(t, e.Run())

	assert.Equal(t, 5, r.draws)
	assert.Equal(t, 5, r.presents)
	assert.Equal(t, 1, r.released)
	assert.False(t, e.Sandbox().Started())
}

func TestTicksAtFixedRate(t *testing.T) {
	win := newFakeWindow(4, 0.0625)
	e := newTestEngine(win, &fakeRenderer{}, WithTickRate(64))

	var ticks int
	var total float32
	e.SetTickCallback(func(dt float32) {
		ticks++
		total += dt
	})

	require.NoError(t, e.Run())

	// 1/16s per frame at 64Hz is 4 ticks per frame.
	assert.Equal(t, 16, ticks)
	assert.InDelta(t, 0.25, total, 1e-4)
}

func TestFrameErrorStopsLoop(t *testing.T) {
	win := newFakeWindow(10, 0.1)
	r := &fakeRenderer{}
	e := newTestEngine(win, r)

	boom := errors.New("boom")
	frames := 0
	e.SetRenderCallback(func(float32) []buffer.Renderable {
		frames++
		if frames == 3 {
			return []buffer.Renderable{buffer.RenderableFunc(func(buffer.VertexBuffer) error { return boom })}
		}
		return nil
	})

	err := e.Run()

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, frames)
	assert.False(t, win.running)
	assert.Equal(t, 1, r.released)
}

func TestHeldKeysMoveCamera(t *testing.T) {
	win := newFakeWindow(1, 0.5)
	e := newTestEngine(win, &fakeRenderer{}, WithTickRate(10))
	win.input.KeyEvent(common.KeyW, true)

	require.NoError(t, e.Run())

	pos := e.Sandbox().Camera().Position()
	assert.InDelta(t, 0.5, pos[2], 1e-4)
}

func TestResizeUpdatesRendererAndCamera(t *testing.T) {
	win := newFakeWindow(0, 0)
	r := &fakeRenderer{}
	e := newTestEngine(win, r)

	w, h := e.Sandbox().Camera().Viewport()
	assert.Equal(t, [2]int{800, 600}, [2]int{w, h})

	win.onResize(1024, 768)

	assert.Equal(t, [2]int{1024, 768}, r.resized)
	w, h = e.Sandbox().Camera().Viewport()
	assert.Equal(t, [2]int{1024, 768}, [2]int{w, h})
}

func TestQuitIsIdempotent(t *testing.T) {
	win := newFakeWindow(3, 0.1)
	e := newTestEngine(win, &fakeRenderer{})

	e.Quit()
	e.Quit()

	require.NoError(t, e.Run())
	assert.False(t, win.running)
}

func TestTickDuration(t *testing.T) {
	assert.Equal(t, time.Second/60, tickDuration(0))
	assert.Equal(t, 10*time.Millisecond, tickDuration(100))
	assert.Equal(t, time.Duration(0), frameDuration(-1))
	assert.Equal(t, 20*time.Millisecond, frameDuration(50))
}
