package buffer

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"unsafe"
)

// Scalar is the set of value types that can be stored in a Block.
type Scalar interface {
	float32 | int32 | uint32 | int16 | uint16 | int8 | uint8
}

// Block is a growable raw byte buffer with bounds-checked typed access at arbitrary
// byte offsets. Values are stored little-endian, which matches every platform the GPU
// backends run on.
//
// A Block never shrinks its capacity: Clear and Truncate only reslice, so a buffer that is
// refilled every frame stops allocating once it has reached its working size.
type Block struct {
	data []byte
}

// NewBlock creates an empty Block with room for capacity bytes.
//
// Parameters:
//   - capacity: the number of bytes to reserve up front (values < 0 are treated as 0)
//
// Returns:
//   - *Block: the empty block
func NewBlock(capacity int) *Block {
	return &Block{data: make([]byte, 0, max(capacity, 0))}
}

// Push appends a single byte.
func (b *Block) Push(v byte) {
	b.data = append(b.data, v)
}

// Grow appends n zero bytes to the end of the block.
// The new bytes are always zeroed, including when they reuse capacity left behind by Clear.
//
// Parameters:
//   - n: the number of bytes to append (values <= 0 are a no-op)
func (b *Block) Grow(n int) {
	if n <= 0 {
		return
	}
	start := len(b.data)
	b.data = slices.Grow(b.data, n)[:start+n]
	clear(b.data[start:])
}

// Len returns the number of bytes currently stored.
func (b *Block) Len() int {
	return len(b.data)
}

// Cap returns the number of bytes the block can hold before reallocating.
func (b *Block) Cap() int {
	return cap(b.data)
}

// Clear logically empties the block while keeping its capacity.
func (b *Block) Clear() {
	b.data = b.data[:0]
}

// Truncate shortens the block to n bytes. Values of n outside [0, Len()] are clamped.
//
// Parameters:
//   - n: the new length in bytes
func (b *Block) Truncate(n int) {
	b.data = b.data[:min(max(n, 0), len(b.data))]
}

// Bytes returns a view of the stored bytes. The view is only valid until the next
// mutation of the block and must not be modified by the caller.
func (b *Block) Bytes() []byte {
	return b.data
}

// SizeOf returns the size in bytes of the scalar type T.
func SizeOf[T Scalar]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Set writes the bit representation of value at offset. It never grows the block.
//
// Parameters:
//   - b: the block to write into
//   - offset: the byte offset of the first byte to write
//   - value: the value to store
//
// Returns:
//   - error: ErrOutOfBounds if offset+sizeof(T) exceeds the block length
func Set[T Scalar](b *Block, offset int, value T) error {
	size := SizeOf[T]()
	if offset < 0 || offset > len(b.data)-size {
		return fmt.Errorf("%w: %d byte write at offset %d, block length %d", ErrOutOfBounds, size, offset, len(b.data))
	}
	putScalar(b.data[offset:offset+size], value)
	return nil
}

// Get reads a value of type T stored at offset.
//
// Parameters:
//   - b: the block to read from
//   - offset: the byte offset of the first byte to read
//
// Returns:
//   - T: the decoded value
//   - error: ErrOutOfBounds if offset+sizeof(T) exceeds the block length
func Get[T Scalar](b *Block, offset int) (T, error) {
	var out T
	size := SizeOf[T]()
	if offset < 0 || offset > len(b.data)-size {
		return out, fmt.Errorf("%w: %d byte read at offset %d, block length %d", ErrOutOfBounds, size, offset, len(b.data))
	}
	return scalarFrom[T](b.data[offset : offset+size]), nil
}

// Append grows the block by sizeof(T) bytes and writes value into them.
//
// Parameters:
//   - b: the block to append to
//   - value: the value to append
func Append[T Scalar](b *Block, value T) {
	start := len(b.data)
	b.Grow(SizeOf[T]())
	putScalar(b.data[start:], value)
}

func putScalar[T Scalar](dst []byte, value T) {
	switch v := any(value).(type) {
	case float32:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
	case int32:
		binary.LittleEndian.PutUint32(dst, uint32(v))
	case uint32:
		binary.LittleEndian.PutUint32(dst, v)
	case int16:
		binary.LittleEndian.PutUint16(dst, uint16(v))
	case uint16:
		binary.LittleEndian.PutUint16(dst, v)
	case int8:
		dst[0] = byte(v)
	case uint8:
		dst[0] = v
	}
}

func scalarFrom[T Scalar](src []byte) T {
	var out T
	switch p := any(&out).(type) {
	case *float32:
		*p = math.Float32frombits(binary.LittleEndian.Uint32(src))
	case *int32:
		*p = int32(binary.LittleEndian.Uint32(src))
	case *uint32:
		*p = binary.LittleEndian.Uint32(src)
	case *int16:
		*p = int16(binary.LittleEndian.Uint16(src))
	case *uint16:
		*p = binary.LittleEndian.Uint16(src)
	case *int8:
		*p = int8(src[0])
	case *uint8:
		*p = src[0]
	}
	return out
}
