package sandbox

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/camera"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGPU struct {
	calls []string

	depth      common.DepthRange
	projection [16]float32
	view       [16]float32
	topology   buffer.Topology
	drawn      int
	program    shader.Program

	device *fakeDevice

	clearErr error
	drawErr  error
}

func (g *fakeGPU) log(call string) { g.calls = append(g.calls, call) }

func (g *fakeGPU) ClipDepth() common.DepthRange { return g.depth }

func (g *fakeGPU) ClearTarget() error {
	g.log("clear")
	return g.clearErr
}

func (g *fakeGPU) VertexDevice(label string) buffer.Device {
	g.device = &fakeDevice{gpu: g, label: label}
	return g.device
}

func (g *fakeGPU) UseProgram(p shader.Program) error {
	g.log("use")
	g.program = p
	return nil
}

func (g *fakeGPU) SetCamera(projection, view [16]float32) error {
	g.log("camera")
	g.projection, g.view = projection, view
	return nil
}

func (g *fakeGPU) DrawIndexed(topology buffer.Topology, indexCount int) error {
	g.log("draw")
	g.topology, g.drawn = topology, indexCount
	return g.drawErr
}

func (g *fakeGPU) DetachProgram() { g.log("detach") }

func (g *fakeGPU) Present() error {
	g.log("present")
	return nil
}

type fakeDevice struct {
	gpu      *fakeGPU
	label    string
	vertices []byte
	indices  []byte
	released int
}

func (d *fakeDevice) Bind()   { d.gpu.log("bind") }
func (d *fakeDevice) Unbind() { d.gpu.log("unbind") }

func (d *fakeDevice) Upload(vertices, indices []byte) error {
	d.gpu.log("upload")
	d.vertices = append([]byte(nil), vertices...)
	d.indices = append([]byte(nil), indices...)
	return nil
}

func (d *fakeDevice) EnableAttribs([]buffer.AttribPointer) error {
	d.gpu.log("enable")
	return nil
}

func (d *fakeDevice) DisableAttribs([]buffer.AttribPointer) { d.gpu.log("disable") }
func (d *fakeDevice) Release()                              { d.released++ }

func startedSandbox(t *testing.T, gpu *fakeGPU, options ...SandboxBuilderOption) Sandbox {
	t.Helper()
	s := NewSandbox(gpu, options...)
	require.NoError(t, s.Start())
	return s
}

func TestFrameOrder(t *testing.T) {
	gpu := &fakeGPU{}
	s := startedSandbox(t, gpu)

	require.NoError(t, s.Frame(shape.NewRect(0, 0, 1, 1, 1, [4]float32{1, 1, 1, 1})))

	assert.Equal(t, []string{
		"clear", "bind", "upload", "use", "camera", "enable", "draw", "disable", "unbind", "detach", "present",
	}, gpu.calls)
	assert.Equal(t, buffer.TopologyTriangles, gpu.topology)
	assert.Equal(t, 6, gpu.drawn)
	assert.Len(t, gpu.device.vertices, 160)
	assert.Len(t, gpu.device.indices, 24)
	assert.Equal(t, 0, s.Buffer().Size(), "buffer is cleared after the frame")
}

func TestFrameUploadsCameraMatrices(t *testing.T) {
	gpu := &fakeGPU{depth: common.DepthMinusOneToOne}
	cam := camera.NewCamera(camera.WithPosition(1, 2, 3))
	s := startedSandbox(t, gpu, WithCamera(cam))

	require.NoError(t, s.Frame())

	assert.Equal(t, common.DepthMinusOneToOne, cam.DepthRange())
	assert.Equal(t, cam.ProjectionMatrix(), gpu.projection)
	assert.Equal(t, cam.ViewMatrix(), gpu.view)
}

func TestFrameStats(t *testing.T) {
	gpu := &fakeGPU{}
	s := startedSandbox(t, gpu)

	require.NoError(t, s.Frame(
		shape.NewRect(0, 0, 1, 1, 1, [4]float32{1, 1, 1, 1}),
		shape.NewRect(1, 0, 1, 1, 1, [4]float32{1, 1, 1, 1}),
		nil,
	))

	assert.Equal(t, FrameStats{
		Primitives:  2,
		Vertices:    8,
		Indices:     12,
		VertexBytes: 320,
		IndexBytes:  48,
		Drawn:       true,
	}, s.LastFrame())
}

func TestFrameWithoutGeometrySkipsDraw(t *testing.T) {
	gpu := &fakeGPU{}
	s := startedSandbox(t, gpu)

	require.NoError(t, s.Frame())

	assert.NotContains(t, gpu.calls, "draw")
	assert.Contains(t, gpu.calls, "present")
	assert.False(t, s.LastFrame().Drawn)
}

func TestFrameProducerErrorSkipsDraw(t *testing.T) {
	gpu := &fakeGPU{}
	s := startedSandbox(t, gpu)
	failing := buffer.RenderableFunc(func(buffer.VertexBuffer) error {
		return errors.New("boom")
	})

	err := s.Frame(shape.NewRect(0, 0, 1, 1, 1, [4]float32{1, 1, 1, 1}), failing)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "renderable 1")
	assert.Equal(t, []string{"clear", "bind", "unbind", "present"}, gpu.calls)
	assert.Equal(t, 0, s.Buffer().Size())
	assert.Empty(t, s.Buffer().VertexBytes())
}

func TestFailedFrameKeepsLastStats(t *testing.T) {
	gpu := &fakeGPU{}
	s := startedSandbox(t, gpu)
	rect := shape.NewRect(0, 0, 1, 1, 1, [4]float32{1, 1, 1, 1})
	require.NoError(t, s.Frame(rect))
	want := s.LastFrame()
	require.True(t, want.Drawn)

	failing := buffer.RenderableFunc(func(buffer.VertexBuffer) error {
		return errors.New("boom")
	})
	require.Error(t, s.Frame(rect, failing))
	assert.Equal(t, want, s.LastFrame())

	gpu.drawErr = errors.New("device lost")
	require.Error(t, s.Frame(rect, rect))
	assert.Equal(t, want, s.LastFrame())

	gpu.drawErr = nil
	require.NoError(t, s.Frame())
	assert.Equal(t, FrameStats{}, s.LastFrame())
}

func TestFrameLayoutMismatch(t *testing.T) {
	gpu := &fakeGPU{}
	layout := buffer.MustLayout(
		buffer.Attribute{Role: buffer.RolePosition, Components: 2, Type: buffer.TypeFloat},
		buffer.Attribute{Role: buffer.RoleColor, Components: 4, Type: buffer.TypeFloat},
		buffer.Attribute{Role: buffer.RoleTexUV, Components: 2, Type: buffer.TypeFloat},
		buffer.Attribute{Role: buffer.RoleTexID, Components: 1, Type: buffer.TypeFloat},
	)
	s := startedSandbox(t, gpu, WithLayout(layout))

	err := s.Frame(shape.NewRect(0, 0, 1, 1, 1, [4]float32{1, 1, 1, 1}))

	assert.ErrorIs(t, err, buffer.ErrLayoutMismatch)
	assert.NotContains(t, gpu.calls, "draw")
}

func TestFrameDrawErrorStillDetaches(t *testing.T) {
	gpu := &fakeGPU{drawErr: errors.New("device lost")}
	s := startedSandbox(t, gpu)

	err := s.Frame(shape.NewRect(0, 0, 1, 1, 1, [4]float32{1, 1, 1, 1}))

	assert.EqualError(t, err, "device lost")
	assert.Equal(t, []string{
		"clear", "bind", "upload", "use", "camera", "enable", "draw", "disable", "unbind", "detach", "present",
	}, gpu.calls)
}

func TestFrameClearError(t *testing.T) {
	gpu := &fakeGPU{clearErr: errors.New("surface lost")}
	s := startedSandbox(t, gpu)

	err := s.Frame()

	assert.EqualError(t, err, "surface lost")
	assert.Equal(t, []string{"clear"}, gpu.calls)
}

func TestLinePrimitive(t *testing.T) {
	gpu := &fakeGPU{}
	s := startedSandbox(t, gpu, WithPrimitive(buffer.Line))

	require.NoError(t, s.Frame(&shape.Line{To: [3]float32{1, 0, 0}, Color: [4]float32{1, 1, 1, 1}}))

	assert.Equal(t, buffer.TopologyLines, gpu.topology)
	assert.Equal(t, 2, gpu.drawn)
}

func TestStartStop(t *testing.T) {
	gpu := &fakeGPU{}
	s := NewSandbox(gpu, WithLabel("test"))

	assert.ErrorIs(t, s.Frame(), ErrNotStarted)

	require.NoError(t, s.Start())
	require.NoError(t, s.Start())
	assert.True(t, s.Started())
	assert.Equal(t, "test", gpu.device.label)

	s.Stop()
	s.Stop()
	assert.False(t, s.Started())
	assert.Equal(t, 1, gpu.device.released)
	assert.ErrorIs(t, s.Frame(), ErrNotStarted)
}

func TestStartRejectsProgramMismatch(t *testing.T) {
	gpu := &fakeGPU{}
	layout := buffer.MustLayout(
		buffer.Attribute{Role: buffer.RolePosition, Components: 3, Type: buffer.TypeFloat},
		buffer.Attribute{Role: buffer.RoleColor, Components: 4, Type: buffer.TypeFloat},
	)
	s := NewSandbox(gpu, WithLayout(layout))

	assert.ErrorIs(t, s.Start(), shader.ErrAttributeMismatch)
	assert.False(t, s.Started())
}
