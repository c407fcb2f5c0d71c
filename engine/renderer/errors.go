package renderer

import "errors"

var (
	// ErrNoProgram is returned when a draw or uniform upload happens without an active program.
	ErrNoProgram = errors.New("renderer: no active program")

	// ErrNoVertexDevice is returned when a draw happens without a bound vertex device.
	ErrNoVertexDevice = errors.New("renderer: no bound vertex device")

	// ErrFrameNotStarted is returned when drawing or presenting outside BeginFrame/Present.
	ErrFrameNotStarted = errors.New("renderer: frame not started")

	// ErrUnsupportedLanguage is returned when a program has no source for the backend's shading language.
	ErrUnsupportedLanguage = errors.New("renderer: program has no source for this backend")

	// ErrUnsupportedFormat is returned when an attribute pointer cannot be expressed by the backend.
	ErrUnsupportedFormat = errors.New("renderer: unsupported vertex format")

	// ErrGL wraps an error code reported by glGetError.
	ErrGL = errors.New("renderer: OpenGL error")
)
