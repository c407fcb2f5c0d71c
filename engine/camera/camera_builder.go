package camera

import "github.com/Carmen-Shannon/oxy-sandbox/common"

type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the camera's initial world-space position.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = [3]float32{x, y, z}
	}
}

// WithOrientation sets the camera's initial orientation. The quaternion is normalized.
//
// Parameters:
//   - q: the orientation (x, y, z, w)
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's orientation
func WithOrientation(q common.Quat) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.orientation = q.Normalize()
	}
}

// WithMode sets the projection mode.
//
// Parameters:
//   - mode: ModePerspective or ModeOrthographic
//
// Returns:
//   - CameraBuilderOption: a function that sets the projection mode
func WithMode(mode Mode) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.mode = mode
	}
}

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithZoom sets the orthographic zoom factor.
//
// Parameters:
//   - zoom: the zoom factor
//
// Returns:
//   - CameraBuilderOption: a function that sets the zoom
func WithZoom(zoom float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.zoom = zoom
	}
}

// WithClipPlanes sets the near and far clipping plane distances.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the clip planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near, c.far = near, far
	}
}

// WithViewport sets the initial viewport size in pixels.
//
// Parameters:
//   - width, height: viewport dimensions
//
// Returns:
//   - CameraBuilderOption: a function that sets the viewport
func WithViewport(width, height int) CameraBuilderOption {
	return func(c *cameraImpl) {
		if width > 0 && height > 0 {
			c.viewportWidth, c.viewportHeight = width, height
		}
	}
}

// WithDepthRange sets the clip-space depth convention the projection targets.
//
// Parameters:
//   - depth: common.DepthZeroToOne for WebGPU, common.DepthMinusOneToOne for OpenGL
//
// Returns:
//   - CameraBuilderOption: a function that sets the depth range
func WithDepthRange(depth common.DepthRange) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.depth = depth
	}
}
