package buffer

import "fmt"

type vertexBufferImpl struct {
	vb *Block
	ib *Block

	layout    Layout
	primitive Primitive
	size      int

	writer VertexWriter
	device Device
}

// VertexBuffer is a CPU-side interleaved vertex buffer plus its uint32 index buffer,
// filled one primitive at a time and uploaded to an attached Device.
//
// A VertexBuffer has a single owner and is not safe for concurrent use.
type VertexBuffer interface {
	// SetLayout installs the attribute layout.
	//
	// Parameters:
	//   - layout: the layout every appended vertex follows
	//
	// Returns:
	//   - error: ErrBufferNotEmpty if the buffer holds primitives, ErrInvalidLayout for a zero layout
	SetLayout(layout Layout) error

	// SetPrimitive installs the primitive descriptor.
	//
	// Parameters:
	//   - primitive: the primitive every append writes
	//
	// Returns:
	//   - error: ErrBufferNotEmpty if the buffer holds primitives, ErrInvalidPrimitive for a zero descriptor
	SetPrimitive(primitive Primitive) error

	// Layout returns the installed layout.
	Layout() Layout

	// Primitive returns the installed primitive descriptor.
	Primitive() Primitive

	// AttribMetadata resolves a role against the installed layout.
	//
	// Parameters:
	//   - role: the attribute role
	//
	// Returns:
	//   - Metadata: offset, component count and type of role
	//   - error: ErrNotConfigured or ErrUnknownAttribute
	AttribMetadata(role Role) (Metadata, error)

	// LayoutLen returns the installed layout's stride in bytes.
	LayoutLen() int

	// AppendPrimitive packs one primitive. Every requirement is checked before anything is
	// written; then each vertex is zero-grown and handed to write, and finally the
	// primitive's index pattern is pushed, offset by Size()*VerticesPerPrimitive.
	// On failure both blocks are restored and Size() is unchanged.
	//
	// Parameters:
	//   - reqs: the roles the producer needs, checked against the layout
	//   - write: called once per vertex; may be nil to append an all-zero primitive
	//
	// Returns:
	//   - error: ErrNotConfigured, ErrUnknownAttribute, ErrLayoutMismatch or ErrPackingFailure
	AppendPrimitive(reqs []Requirement, write WriteFunc) error

	// Clear empties both blocks and resets Size() to 0. Layout, primitive and allocated
	// capacity are kept.
	Clear()

	// Size returns the number of primitives appended since the last Clear.
	Size() int

	// VertexCount returns Size() * VerticesPerPrimitive.
	VertexCount() int

	// IndexCount returns the number of uint32 indices.
	IndexCount() int

	// VertexBytes returns a view of the packed vertex bytes, valid until the next mutation.
	VertexBytes() []byte

	// IndexBytes returns a view of the packed index bytes, valid until the next mutation.
	IndexBytes() []byte

	// AttribPointers describes the layout for the GPU, one pointer per attribute in location order.
	AttribPointers() []AttribPointer

	// SetDevice attaches the GPU side of the buffer. A nil device detaches it.
	//
	// Parameters:
	//   - device: the device to attach
	SetDevice(device Device)

	// Device returns the attached device or nil.
	Device() Device

	// Bind binds the attached device's buffers.
	Bind()

	// Unbind unbinds the attached device's buffers.
	Unbind()

	// Upload copies the current contents to the attached device.
	//
	// Returns:
	//   - error: an error from the device
	Upload() error

	// EnableAttribs declares the layout's attribute pointers on the attached device.
	//
	// Returns:
	//   - error: ErrNotConfigured or an error from the device
	EnableAttribs() error

	// DisableAttribs disables the pointers enabled by EnableAttribs.
	DisableAttribs()

	// Release frees the attached device's resources and detaches it.
	Release()
}

var _ VertexBuffer = &vertexBufferImpl{}

// NewVertexBuffer creates an empty VertexBuffer.
// Without WithLayout and WithPrimitive the buffer must be configured with SetLayout and
// SetPrimitive before the first append.
//
// Parameters:
//   - options: functional options to configure the buffer
//
// Returns:
//   - VertexBuffer: the new buffer
func NewVertexBuffer(options ...VertexBufferBuilderOption) VertexBuffer {
	v := &vertexBufferImpl{
		vb: NewBlock(0),
		ib: NewBlock(0),
	}
	for _, option := range options {
		option(v)
	}
	return v
}

func (v *vertexBufferImpl) SetLayout(layout Layout) error {
	if v.size > 0 {
		return fmt.Errorf("%w: cannot change layout with %d primitives", ErrBufferNotEmpty, v.size)
	}
	if layout.IsZero() {
		return fmt.Errorf("%w: no attributes", ErrInvalidLayout)
	}
	v.layout = layout
	return nil
}

func (v *vertexBufferImpl) SetPrimitive(primitive Primitive) error {
	if v.size > 0 {
		return fmt.Errorf("%w: cannot change primitive with %d primitives", ErrBufferNotEmpty, v.size)
	}
	if primitive.IsZero() {
		return fmt.Errorf("%w: zero descriptor", ErrInvalidPrimitive)
	}
	v.primitive = primitive
	return nil
}

func (v *vertexBufferImpl) Layout() Layout {
	return v.layout
}

func (v *vertexBufferImpl) Primitive() Primitive {
	return v.primitive
}

func (v *vertexBufferImpl) AttribMetadata(role Role) (Metadata, error) {
	if v.layout.IsZero() {
		return Metadata{}, fmt.Errorf("%w: no layout", ErrNotConfigured)
	}
	return v.layout.Metadata(role)
}

func (v *vertexBufferImpl) LayoutLen() int {
	return v.layout.Stride()
}

func (v *vertexBufferImpl) AppendPrimitive(reqs []Requirement, write WriteFunc) error {
	if v.layout.IsZero() || v.primitive.IsZero() {
		return fmt.Errorf("%w: layout and primitive must be set before appending", ErrNotConfigured)
	}
	for _, r := range reqs {
		if _, err := r.Check(v.layout); err != nil {
			return err
		}
	}

	vbMark, ibMark := v.vb.Len(), v.ib.Len()
	stride := v.layout.Stride()
	verts := v.primitive.VerticesPerPrimitive()

	v.writer.block = v.vb
	v.writer.layout = v.layout
	for i := range verts {
		v.writer.base = v.vb.Len()
		v.writer.vertex = i
		v.vb.Grow(stride)
		if write == nil {
			continue
		}
		if err := write(i, &v.writer); err != nil {
			v.vb.Truncate(vbMark)
			v.ib.Truncate(ibMark)
			return fmt.Errorf("%w: %s %d, vertex %d: %w", ErrPackingFailure, v.primitive.Name(), v.size, i, err)
		}
	}

	base := uint32(v.size * verts)
	for _, e := range v.primitive.pattern {
		Append(v.ib, base+e)
	}
	v.size++
	return nil
}

func (v *vertexBufferImpl) Clear() {
	v.vb.Clear()
	v.ib.Clear()
	v.size = 0
}

func (v *vertexBufferImpl) Size() int {
	return v.size
}

func (v *vertexBufferImpl) VertexCount() int {
	return v.size * v.primitive.VerticesPerPrimitive()
}

func (v *vertexBufferImpl) IndexCount() int {
	return v.ib.Len() / SizeOf[uint32]()
}

func (v *vertexBufferImpl) VertexBytes() []byte {
	return v.vb.Bytes()
}

func (v *vertexBufferImpl) IndexBytes() []byte {
	return v.ib.Bytes()
}

func (v *vertexBufferImpl) AttribPointers() []AttribPointer {
	stride := v.layout.Stride()
	pointers := make([]AttribPointer, 0, v.layout.Len())
	offset := 0
	for i, a := range v.layout.attrs {
		pointers = append(pointers, AttribPointer{
			Location:   uint32(i),
			Role:       a.Role,
			Offset:     offset,
			Components: a.Components,
			Type:       a.Type,
			Stride:     stride,
		})
		offset += a.Size()
	}
	return pointers
}

func (v *vertexBufferImpl) SetDevice(device Device) {
	v.device = device
}

func (v *vertexBufferImpl) Device() Device {
	return v.device
}

func (v *vertexBufferImpl) Bind() {
	if v.device != nil {
		v.device.Bind()
	}
}

func (v *vertexBufferImpl) Unbind() {
	if v.device != nil {
		v.device.Unbind()
	}
}

func (v *vertexBufferImpl) Upload() error {
	if v.device == nil {
		return nil
	}
	if err := v.device.Upload(v.vb.Bytes(), v.ib.Bytes()); err != nil {
		return fmt.Errorf("failed to upload vertex buffer: %w", err)
	}
	return nil
}

func (v *vertexBufferImpl) EnableAttribs() error {
	if v.layout.IsZero() {
		return fmt.Errorf("%w: no layout", ErrNotConfigured)
	}
	if v.device == nil {
		return nil
	}
	return v.device.EnableAttribs(v.AttribPointers())
}

func (v *vertexBufferImpl) DisableAttribs() {
	if v.device != nil && !v.layout.IsZero() {
		v.device.DisableAttribs(v.AttribPointers())
	}
}

func (v *vertexBufferImpl) Release() {
	if v.device != nil {
		v.device.Release()
		v.device = nil
	}
}
