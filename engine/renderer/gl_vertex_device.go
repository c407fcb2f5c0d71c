package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
	"github.com/go-gl/gl/v3.2-core/gl"
)

// glVertexDevice is a vertex array object with its array and element buffers.
// Handles are created lazily on first Bind so the device can be made before the
// context is current.
type glVertexDevice struct {
	backend *glRendererBackendImpl
	label   string

	vao      uint32
	vbo      uint32
	ebo      uint32
	init     bool
	released bool
}

var _ buffer.Device = &glVertexDevice{}

func (d *glVertexDevice) Bind() {
	d.backend.mu.Lock()
	defer d.backend.mu.Unlock()

	if d.released {
		return
	}
	if !d.init {
		gl.GenVertexArrays(1, &d.vao)
		gl.GenBuffers(1, &d.vbo)
		gl.GenBuffers(1, &d.ebo)
		d.init = true
	}
	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, d.ebo)
	d.backend.bound = d
}

func (d *glVertexDevice) Unbind() {
	d.backend.mu.Lock()
	defer d.backend.mu.Unlock()

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if d.backend.bound == d {
		d.backend.bound = nil
	}
}

// Upload re-specifies both buffers with STREAM_DRAW so the previous frame's storage can
// still be in flight. The device must be bound.
func (d *glVertexDevice) Upload(vertices, indices []byte) error {
	d.backend.mu.Lock()
	defer d.backend.mu.Unlock()

	if d.backend.bound != d {
		return fmt.Errorf("%w: %q upload while not bound", ErrNoVertexDevice, d.label)
	}

	// gl.Ptr panics on an empty slice.
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices), gl.Ptr(vertices), gl.STREAM_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STREAM_DRAW)
	}
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices), gl.Ptr(indices), gl.STREAM_DRAW)
	} else {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, nil, gl.STREAM_DRAW)
	}
	return checkGL("upload " + d.label)
}

func (d *glVertexDevice) EnableAttribs(pointers []buffer.AttribPointer) error {
	d.backend.mu.Lock()
	defer d.backend.mu.Unlock()

	for _, p := range pointers {
		glType, ok := glScalarTypes[p.Type]
		if !ok || p.Components < 1 || p.Components > 4 {
			return fmt.Errorf("%s attribute: %w: %d x %s", p.Role, ErrUnsupportedFormat, p.Components, p.Type)
		}
		gl.VertexAttribPointerWithOffset(p.Location, int32(p.Components), glType, false, int32(p.Stride), uintptr(p.Offset))
		gl.EnableVertexAttribArray(p.Location)
	}
	return checkGL("enable attributes")
}

func (d *glVertexDevice) DisableAttribs(pointers []buffer.AttribPointer) {
	d.backend.mu.Lock()
	defer d.backend.mu.Unlock()

	for _, p := range pointers {
		gl.DisableVertexAttribArray(p.Location)
	}
}

func (d *glVertexDevice) Release() {
	d.backend.mu.Lock()
	defer d.backend.mu.Unlock()

	if d.released {
		return
	}
	d.released = true
	if d.backend.bound == d {
		d.backend.bound = nil
	}
	if !d.init {
		return
	}
	gl.DeleteBuffers(1, &d.ebo)
	gl.DeleteBuffers(1, &d.vbo)
	gl.DeleteVertexArrays(1, &d.vao)
}
