package shader

import "errors"

var (
	// ErrNoSource is returned when a program has no source for the requested language or stage.
	ErrNoSource = errors.New("shader: no source")

	// ErrAttributeMismatch is returned when a vertex buffer's attribute pointers do not feed
	// the inputs a program declares.
	ErrAttributeMismatch = errors.New("shader: attribute mismatch")

	// ErrUnknownInclude is returned when an annotation names an unregistered struct type.
	ErrUnknownInclude = errors.New("shader: unknown struct type")
)
