package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuVertexDevice owns the vertex and index buffers of one buffer.VertexBuffer. Buffers
// grow on demand and are reused across frames.
type wgpuVertexDevice struct {
	backend *wgpuRendererBackendImpl
	label   string

	vertexBuffer   *wgpu.Buffer
	vertexCapacity uint64
	indexBuffer    *wgpu.Buffer
	indexCapacity  uint64

	// pointers is the layout enabled by EnableAttribs; nil when disabled.
	pointers []buffer.AttribPointer
	released bool
}

var _ buffer.Device = &wgpuVertexDevice{}

func (d *wgpuVertexDevice) Bind() {
	d.backend.mu.Lock()
	defer d.backend.mu.Unlock()
	d.backend.bound = d
}

func (d *wgpuVertexDevice) Unbind() {
	d.backend.mu.Lock()
	defer d.backend.mu.Unlock()
	if d.backend.bound == d {
		d.backend.bound = nil
	}
}

func (d *wgpuVertexDevice) Upload(vertices, indices []byte) error {
	d.backend.mu.Lock()
	defer d.backend.mu.Unlock()

	if d.released {
		return fmt.Errorf("vertex device %q used after release", d.label)
	}

	var err error
	d.vertexBuffer, d.vertexCapacity, err = d.write(d.vertexBuffer, d.vertexCapacity, vertices, wgpu.BufferUsageVertex, "Vertex")
	if err != nil {
		return err
	}
	d.indexBuffer, d.indexCapacity, err = d.write(d.indexBuffer, d.indexCapacity, indices, wgpu.BufferUsageIndex, "Index")
	return err
}

// write copies data into buf, recreating it when it is too small. Copies must be a
// multiple of 4 bytes, so data is padded. Empty data leaves the buffer untouched.
// Caller must hold the backend mutex.
func (d *wgpuVertexDevice) write(buf *wgpu.Buffer, capacity uint64, data []byte, usage wgpu.BufferUsage, kind string) (*wgpu.Buffer, uint64, error) {
	if len(data) == 0 {
		return buf, capacity, nil
	}

	size := common.AlignUp(uint64(len(data)), 4)
	if buf == nil || size > capacity {
		if buf != nil {
			buf.Release()
		}
		created, err := d.backend.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: d.label + " " + kind + " Buffer",
			Size:  size,
			Usage: usage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create %s buffer: %w", kind, err)
		}
		buf, capacity = created, size
	}

	if uint64(len(data)) != size {
		padded := make([]byte, size)
		copy(padded, data)
		data = padded
	}
	if err := d.backend.queue.WriteBuffer(buf, 0, data); err != nil {
		return buf, capacity, fmt.Errorf("failed to write %s buffer: %w", kind, err)
	}
	return buf, capacity, nil
}

func (d *wgpuVertexDevice) EnableAttribs(pointers []buffer.AttribPointer) error {
	for _, p := range pointers {
		if _, err := wgpuVertexFormat(p.Type, p.Components); err != nil {
			return fmt.Errorf("%s attribute: %w", p.Role, err)
		}
	}

	d.backend.mu.Lock()
	defer d.backend.mu.Unlock()
	d.pointers = pointers
	return nil
}

func (d *wgpuVertexDevice) DisableAttribs(pointers []buffer.AttribPointer) {
	d.backend.mu.Lock()
	defer d.backend.mu.Unlock()
	d.pointers = nil
}

func (d *wgpuVertexDevice) Release() {
	d.backend.mu.Lock()
	defer d.backend.mu.Unlock()

	if d.released {
		return
	}
	d.released = true
	if d.backend.bound == d {
		d.backend.bound = nil
	}
	if d.vertexBuffer != nil {
		d.vertexBuffer.Release()
		d.vertexBuffer = nil
	}
	if d.indexBuffer != nil {
		d.indexBuffer.Release()
		d.indexBuffer = nil
	}
}
