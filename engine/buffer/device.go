package buffer

// AttribPointer is the GPU-facing description of one attribute: where the shader reads it
// from inside an interleaved vertex.
type AttribPointer struct {
	Location   uint32
	Role       Role
	Offset     int
	Components int
	Type       ScalarType
	Stride     int
}

// Device is the GPU side of a VertexBuffer. Backends in the renderer package implement it;
// a VertexBuffer without a Device treats every GPU call as a no-op.
type Device interface {
	// Bind makes the device's vertex and index buffers current for subsequent draws.
	Bind()

	// Unbind releases the binding made by Bind.
	Unbind()

	// Upload copies the packed vertex and index bytes to GPU memory, replacing the
	// previous contents. Called with empty slices it must succeed.
	//
	// Parameters:
	//   - vertices: the interleaved vertex bytes
	//   - indices: the uint32 index bytes
	//
	// Returns:
	//   - error: an error if the GPU rejected the upload
	Upload(vertices, indices []byte) error

	// EnableAttribs declares and enables one attribute pointer per layout entry.
	//
	// Parameters:
	//   - pointers: the attribute pointers in shader location order
	//
	// Returns:
	//   - error: an error if a pointer cannot be expressed by the backend
	EnableAttribs(pointers []AttribPointer) error

	// DisableAttribs disables the pointers enabled by EnableAttribs.
	//
	// Parameters:
	//   - pointers: the attribute pointers in shader location order
	DisableAttribs(pointers []AttribPointer)

	// Release frees the GPU buffers. It must be safe to call more than once.
	Release()
}
