package buffer

import "errors"

// Packing errors. All of them come from static misconfiguration (a layout that does not
// satisfy a producer), so callers are expected to propagate them and abort the frame.
// Use errors.Is to test for a category; the wrapped message names the offending role,
// its observed component count and its observed type.
var (
	// ErrUnknownAttribute is returned when a role is not present in the installed layout.
	ErrUnknownAttribute = errors.New("unknown vertex attribute")

	// ErrLayoutMismatch is returned when an installed attribute has too few components
	// or the wrong scalar type for what a producer writes.
	ErrLayoutMismatch = errors.New("vertex layout mismatch")

	// ErrOutOfBounds is returned by typed block reads and writes past the block length.
	ErrOutOfBounds = errors.New("block access out of bounds")

	// ErrPackingFailure wraps any failure that happens while vertex bytes are being written.
	ErrPackingFailure = errors.New("vertex packing failure")

	// ErrBufferNotEmpty is returned when the layout or primitive is changed on a buffer
	// that already holds primitives.
	ErrBufferNotEmpty = errors.New("vertex buffer is not empty")

	// ErrNotConfigured is returned when a buffer is used before a layout and primitive are installed.
	ErrNotConfigured = errors.New("vertex buffer is not configured")

	// ErrInvalidLayout is returned by NewLayout for malformed descriptor lists.
	ErrInvalidLayout = errors.New("invalid attribute layout")

	// ErrInvalidPrimitive is returned by NewPrimitive for malformed descriptors.
	ErrInvalidPrimitive = errors.New("invalid primitive descriptor")
)
