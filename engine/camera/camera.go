package camera

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/chewxy/math32"
)

// Mode selects the projection a Camera produces.
type Mode int

const (
	// ModePerspective projects with a vertical field of view and the viewport aspect ratio.
	ModePerspective Mode = iota
	// ModeOrthographic projects a box of ±width·zoom by ±height·zoom.
	ModeOrthographic
)

func (m Mode) String() string {
	switch m {
	case ModePerspective:
		return "perspective"
	case ModeOrthographic:
		return "orthographic"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name ("perspective" or "orthographic") to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "perspective", "":
		return ModePerspective, nil
	case "orthographic", "ortho":
		return ModeOrthographic, nil
	default:
		return ModePerspective, fmt.Errorf("unknown camera mode %q", s)
	}
}

type cameraImpl struct {
	mu *sync.Mutex

	position    [3]float32
	orientation common.Quat

	mode Mode
	fov  float32
	zoom float32
	near float32
	far  float32

	viewportWidth  int
	viewportHeight int
	depth          common.DepthRange

	viewMatrix       [16]float32
	projectionMatrix [16]float32
}

// Camera holds an observer pose and projection settings and derives the projection and
// view matrices uploaded each frame. Matrices are recomputed whenever a setting changes.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - [3]float32: the position
	Position() [3]float32

	// Orientation returns the camera's orientation quaternion (x, y, z, w).
	//
	// Returns:
	//   - common.Quat: the orientation
	Orientation() common.Quat

	// Mode returns the projection mode.
	Mode() Mode

	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Zoom returns the orthographic zoom factor.
	//
	// Returns:
	//   - float32: the zoom factor
	Zoom() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Viewport returns the viewport size in pixels.
	//
	// Returns:
	//   - width, height: viewport dimensions
	Viewport() (width, height int)

	// DepthRange returns the clip-space depth convention the projection targets.
	DepthRange() common.DepthRange

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// Uniform returns both matrices packed for GPU upload.
	//
	// Returns:
	//   - GPUCameraUniform: the current projection and view matrices
	Uniform() GPUCameraUniform

	// SetPosition sets the camera's world-space position.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetPosition(x, y, z float32)

	// Translate moves the camera by the given world-space offset.
	//
	// Parameters:
	//   - dx, dy, dz: offset to add to the position
	Translate(dx, dy, dz float32)

	// SetOrientation sets the camera's orientation. The quaternion is normalized.
	//
	// Parameters:
	//   - q: the orientation (x, y, z, w)
	SetOrientation(q common.Quat)

	// SetMode sets the projection mode.
	SetMode(mode Mode)

	// SetFov sets the vertical field of view in radians.
	SetFov(fov float32)

	// SetZoom sets the orthographic zoom factor.
	SetZoom(zoom float32)

	// SetClipPlanes sets the near and far clipping plane distances.
	//
	// Parameters:
	//   - near: near plane distance
	//   - far: far plane distance
	SetClipPlanes(near, far float32)

	// SetViewport sets the viewport size in pixels, typically on window resize.
	// Non-positive dimensions are ignored.
	//
	// Parameters:
	//   - width, height: viewport dimensions
	SetViewport(width, height int)

	// SetDepthRange sets the clip-space depth convention of the active graphics backend.
	SetDepthRange(depth common.DepthRange)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera with the sandbox defaults: at the origin, rotated half a
// turn around the x axis (looking down +z), perspective with a fov of π/3, zoom 1,
// near 0.01, far 100 and a 680x400 viewport.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:             &sync.Mutex{},
		orientation:    common.Quat{1, 0, 0, 0},
		mode:           ModePerspective,
		fov:            math32.Pi / 3,
		zoom:           1,
		near:           0.01,
		far:            100,
		viewportWidth:  680,
		viewportHeight: 400,
		depth:          common.DepthZeroToOne,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Orientation() common.Quat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orientation
}

func (c *cameraImpl) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Zoom() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Viewport() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewportWidth, c.viewportHeight
}

func (c *cameraImpl) DepthRange() common.DepthRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.depth
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{Projection: c.projectionMatrix, View: c.viewMatrix}
}

func (c *cameraImpl) SetPosition(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = [3]float32{x, y, z}
	c.updateMatrices()
}

func (c *cameraImpl) Translate(dx, dy, dz float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position[0] += dx
	c.position[1] += dy
	c.position[2] += dz
	c.updateMatrices()
}

func (c *cameraImpl) SetOrientation(q common.Quat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orientation = q.Normalize()
	c.updateMatrices()
}

func (c *cameraImpl) SetMode(mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetZoom(zoom float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = zoom
	c.updateMatrices()
}

func (c *cameraImpl) SetClipPlanes(near, far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near, c.far = near, far
	c.updateMatrices()
}

func (c *cameraImpl) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewportWidth, c.viewportHeight = width, height
	c.updateMatrices()
}

func (c *cameraImpl) SetDepthRange(depth common.DepthRange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.depth = depth
	c.updateMatrices()
}

// updateMatrices recalculates the view and projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	common.ViewFromPose(c.viewMatrix[:], c.position, c.orientation)

	w, h := float32(c.viewportWidth), float32(c.viewportHeight)
	switch c.mode {
	case ModeOrthographic:
		common.Orthographic(c.projectionMatrix[:],
			-w*c.zoom, w*c.zoom, -h*c.zoom, h*c.zoom,
			c.near, c.far, c.depth,
		)
	default:
		aspect := float32(1)
		if h > 0 {
			aspect = w / h
		}
		common.Perspective(c.projectionMatrix[:], c.fov, aspect, c.near, c.far, c.depth)
	}
}
