package renderer

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/window"
	"github.com/go-gl/gl/v3.2-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type glRendererBackendImpl struct {
	mu     *sync.Mutex
	window window.Window

	clearColor [4]float32

	programs map[string]*glProgram
	program  *glProgram
	bound    *glVertexDevice
	devices  []*glVertexDevice
}

// glProgram is a linked GLSL program and its camera uniform locations.
type glProgram struct {
	handle     uint32
	projection int32
	view       int32
}

var _ RendererBackend = &glRendererBackendImpl{}

// newGLRendererBackend loads the GL function pointers for the window's current context.
// Panics if the context cannot be initialized.
func newGLRendererBackend(win window.Window, clearColor [4]float64) *glRendererBackendImpl {
	if err := gl.Init(); err != nil {
		panic(fmt.Errorf("failed to initialize OpenGL: %w", err))
	}
	log.Printf("[Renderer] renderer: %s", gl.GoStr(gl.GetString(gl.RENDERER)))
	log.Printf("[Renderer] driver: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	b := &glRendererBackendImpl{
		mu:     &sync.Mutex{},
		window: win,
		clearColor: [4]float32{
			float32(clearColor[0]), float32(clearColor[1]), float32(clearColor[2]), float32(clearColor[3]),
		},
		programs: make(map[string]*glProgram),
	}
	gl.ClearColor(b.clearColor[0], b.clearColor[1], b.clearColor[2], b.clearColor[3])
	return b
}

func (b *glRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (b *glRendererBackendImpl) SetPresentMode(mode PresentMode) {
	switch mode {
	case PresentModeVSync:
		glfw.SwapInterval(1)
	default:
		glfw.SwapInterval(0)
	}
}

func (b *glRendererBackendImpl) ClipDepth() common.DepthRange {
	return common.DepthMinusOneToOne
}

func (b *glRendererBackendImpl) NewVertexDevice(label string) buffer.Device {
	b.mu.Lock()
	defer b.mu.Unlock()

	d := &glVertexDevice{backend: b, label: label}
	b.devices = append(b.devices, d)
	return d
}

func (b *glRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	drainGLErrors()
	gl.ClearColor(b.clearColor[0], b.clearColor[1], b.clearColor[2], b.clearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
	return checkGL("clear")
}

func (b *glRendererBackendImpl) UseProgram(p shader.Program) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !p.Supports(shader.LanguageGLSL) {
		return fmt.Errorf("%w: %s", ErrUnsupportedLanguage, shader.LanguageGLSL)
	}

	compiled, ok := b.programs[p.Key()]
	if !ok {
		var err error
		compiled, err = compileGLProgram(p)
		if err != nil {
			return err
		}
		b.programs[p.Key()] = compiled
	}

	gl.UseProgram(compiled.handle)
	if err := checkGL("use program"); err != nil {
		return err
	}
	b.program = compiled
	return nil
}

// compileGLProgram compiles and links the program's GLSL stages.
func compileGLProgram(p shader.Program) (*glProgram, error) {
	vertSrc, err := p.Source(shader.LanguageGLSL, shader.StageVertex)
	if err != nil {
		return nil, err
	}
	fragSrc, err := p.Source(shader.LanguageGLSL, shader.StageFragment)
	if err != nil {
		return nil, err
	}

	vertHandle, err := compileGLShader(gl.VERTEX_SHADER, vertSrc)
	if err != nil {
		return nil, fmt.Errorf("vertex shader: %w", err)
	}
	defer gl.DeleteShader(vertHandle)
	fragHandle, err := compileGLShader(gl.FRAGMENT_SHADER, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("fragment shader: %w", err)
	}
	defer gl.DeleteShader(fragHandle)

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vertHandle)
	gl.AttachShader(handle, fragHandle)
	gl.LinkProgram(handle)

	var linked int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &linked)
	if linked == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(handle, logLength, nil, gl.Str(infoLog))
		gl.DeleteProgram(handle)
		return nil, fmt.Errorf("failed to link program %q: %s", p.Key(), strings.TrimRight(infoLog, "\x00"))
	}
	gl.DetachShader(handle, vertHandle)
	gl.DetachShader(handle, fragHandle)

	return &glProgram{
		handle:     handle,
		projection: gl.GetUniformLocation(handle, gl.Str(p.ProjectionUniform()+"\x00")),
		view:       gl.GetUniformLocation(handle, gl.Str(p.ViewUniform()+"\x00")),
	}, nil
}

func compileGLShader(kind uint32, source string) (uint32, error) {
	handle := gl.CreateShader(kind)

	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(handle, 1, csource, nil)
	free()
	gl.CompileShader(handle)

	var compiled int32
	gl.GetShaderiv(handle, gl.COMPILE_STATUS, &compiled)
	if compiled == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		infoLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(handle, logLength, nil, gl.Str(infoLog))
		gl.DeleteShader(handle)
		return 0, fmt.Errorf("failed to compile: %s", strings.TrimRight(infoLog, "\x00"))
	}
	return handle, nil
}

func (b *glRendererBackendImpl) SetCamera(projection, view [16]float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.program == nil {
		return ErrNoProgram
	}
	// A location of -1 means the uniform was optimized out; GL ignores the upload.
	gl.UniformMatrix4fv(b.program.projection, 1, false, &projection[0])
	gl.UniformMatrix4fv(b.program.view, 1, false, &view[0])
	return checkGL("upload camera uniforms")
}

func (b *glRendererBackendImpl) DrawIndexed(topology buffer.Topology, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.program == nil {
		return ErrNoProgram
	}
	if b.bound == nil {
		return ErrNoVertexDevice
	}

	mode, err := glTopology(topology)
	if err != nil {
		return err
	}
	gl.DrawElementsWithOffset(mode, int32(indexCount), gl.UNSIGNED_INT, 0)
	return checkGL("draw elements")
}

func (b *glRendererBackendImpl) DetachProgram() {
	b.mu.Lock()
	defer b.mu.Unlock()

	gl.UseProgram(0)
	b.program = nil
}

func (b *glRendererBackendImpl) Present() error {
	b.window.SwapBuffers()
	return nil
}

func (b *glRendererBackendImpl) Release() {
	b.mu.Lock()
	devices := b.devices
	b.devices = nil
	b.mu.Unlock()

	for _, d := range devices {
		d.Release()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	gl.UseProgram(0)
	for _, p := range b.programs {
		gl.DeleteProgram(p.handle)
	}
	clear(b.programs)
	b.program = nil
}

// drainGLErrors discards errors left by earlier calls so checkGL reports only its own step.
func drainGLErrors() {
	for range 16 {
		if gl.GetError() == gl.NO_ERROR {
			return
		}
	}
}

func checkGL(step string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%w: 0x%x after %s", ErrGL, code, step)
	}
	return nil
}

func glTopology(t buffer.Topology) (uint32, error) {
	switch t {
	case buffer.TopologyTriangles:
		return gl.TRIANGLES, nil
	case buffer.TopologyLines:
		return gl.LINES, nil
	case buffer.TopologyPoints:
		return gl.POINTS, nil
	default:
		return 0, fmt.Errorf("unknown topology %s", t)
	}
}

var glScalarTypes = map[buffer.ScalarType]uint32{
	buffer.TypeFloat:  gl.FLOAT,
	buffer.TypeInt:    gl.INT,
	buffer.TypeUInt:   gl.UNSIGNED_INT,
	buffer.TypeShort:  gl.SHORT,
	buffer.TypeUShort: gl.UNSIGNED_SHORT,
	buffer.TypeByte:   gl.BYTE,
	buffer.TypeUByte:  gl.UNSIGNED_BYTE,
}
