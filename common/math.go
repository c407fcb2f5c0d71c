package common

import (
	"github.com/chewxy/math32"
)

// DepthRange is the clip-space depth convention of a graphics API.
type DepthRange int

const (
	// DepthZeroToOne maps the near plane to 0 and the far plane to 1 (WebGPU).
	DepthZeroToOne DepthRange = iota
	// DepthMinusOneToOne maps the near plane to -1 and the far plane to 1 (OpenGL).
	DepthMinusOneToOne
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	clear(m[:16])
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 multiplies two 4x4 column-major matrices: out = a * b.
// out may alias a or b.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for col := range 4 {
		for row := range 4 {
			var sum float32
			for k := range 4 {
				sum += a[k*4+row] * b[col*4+k]
			}
			buf[col*4+row] = sum
		}
	}
	copy(out, buf[:])
}

// TransformPoint applies a column-major 4x4 matrix to the point (x, y, z, 1).
// The w component of the result is dropped, so m should be affine.
//
// Parameters:
//   - m: the transform (16 elements)
//   - x, y, z: the point
//
// Returns:
//   - [3]float32: the transformed point
func TransformPoint(m []float32, x, y, z float32) [3]float32 {
	return [3]float32{
		m[0]*x + m[4]*y + m[8]*z + m[12],
		m[1]*x + m[5]*y + m[9]*z + m[13],
		m[2]*x + m[6]*y + m[10]*z + m[14],
	}
}

// Perspective creates a right-handed perspective projection matrix.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//   - depth: the clip-space depth convention of the target API
func Perspective(out []float32, fovY, aspect, near, far float32, depth DepthRange) {
	f := 1 / math32.Tan(fovY/2)
	clear(out[:16])

	out[0] = f / aspect
	out[5] = f
	out[11] = -1
	if depth == DepthMinusOneToOne {
		out[10] = (far + near) / (near - far)
		out[14] = 2 * far * near / (near - far)
		return
	}
	out[10] = far / (near - far)
	out[14] = near * far / (near - far)
}

// Orthographic creates a right-handed orthographic projection matrix.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - left, right, bottom, top: the view volume's side planes
//   - near, far: the view volume's depth planes
//   - depth: the clip-space depth convention of the target API
func Orthographic(out []float32, left, right, bottom, top, near, far float32, depth DepthRange) {
	Identity(out)
	out[0] = 2 / (right - left)
	out[5] = 2 / (top - bottom)
	out[12] = -(right + left) / (right - left)
	out[13] = -(top + bottom) / (top - bottom)
	if depth == DepthMinusOneToOne {
		out[10] = -2 / (far - near)
		out[14] = -(far + near) / (far - near)
		return
	}
	out[10] = 1 / (near - far)
	out[14] = near / (near - far)
}

// Quat is a rotation quaternion stored as x, y, z, w.
type Quat [4]float32

// QuatIdentity is the quaternion of no rotation.
var QuatIdentity = Quat{0, 0, 0, 1}

// QuatFromAxisAngle builds the rotation of angle radians around the axis (x, y, z).
// The axis does not need to be normalized; a zero axis yields QuatIdentity.
func QuatFromAxisAngle(x, y, z, angle float32) Quat {
	l := math32.Sqrt(x*x + y*y + z*z)
	if l == 0 {
		return QuatIdentity
	}
	s := math32.Sin(angle/2) / l
	return Quat{x * s, y * s, z * s, math32.Cos(angle / 2)}
}

// Normalize returns q scaled to unit length, or QuatIdentity for a zero quaternion.
func (q Quat) Normalize() Quat {
	l := math32.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	if l == 0 {
		return QuatIdentity
	}
	return Quat{q[0] / l, q[1] / l, q[2] / l, q[3] / l}
}

// Mul returns the Hamilton product q * r (apply r, then q).
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		q[3]*r[0] + q[0]*r[3] + q[1]*r[2] - q[2]*r[1],
		q[3]*r[1] - q[0]*r[2] + q[1]*r[3] + q[2]*r[0],
		q[3]*r[2] + q[0]*r[1] - q[1]*r[0] + q[2]*r[3],
		q[3]*r[3] - q[0]*r[0] - q[1]*r[1] - q[2]*r[2],
	}
}

// RotationMatrix writes the column-major rotation matrix of a unit quaternion into out.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
func (q Quat) RotationMatrix(out []float32) {
	x, y, z, w := q[0], q[1], q[2], q[3]
	x2, y2, z2 := x+x, y+y, z+z
	xx, yy, zz := x*x2, y*y2, z*z2
	xy, xz, yz := x*y2, x*z2, y*z2
	wx, wy, wz := w*x2, w*y2, w*z2

	out[0], out[1], out[2], out[3] = 1-(yy+zz), xy+wz, xz-wy, 0
	out[4], out[5], out[6], out[7] = xy-wz, 1-(xx+zz), yz+wx, 0
	out[8], out[9], out[10], out[11] = xz+wy, yz-wx, 1-(xx+yy), 0
	out[12], out[13], out[14], out[15] = 0, 0, 0, 1
}

// ViewFromPose writes the view matrix of an observer at pos with orientation q, that is
// inverse(T(pos) * R(q)). q must be a unit quaternion.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - pos: the observer position in world space
//   - q: the observer orientation
func ViewFromPose(out []float32, pos [3]float32, q Quat) {
	var r [16]float32
	q.RotationMatrix(r[:])

	// inverse of a rigid transform: transpose the rotation, rotate the negated translation
	for col := range 3 {
		for row := range 3 {
			out[col*4+row] = r[row*4+col]
		}
		out[col*4+3] = 0
	}
	for row := range 3 {
		out[12+row] = -(r[row*4]*pos[0] + r[row*4+1]*pos[1] + r[row*4+2]*pos[2])
	}
	out[15] = 1
}

// BuildModelMatrix constructs a 4x4 model matrix from position, Euler rotation, and scale.
// The rotation order is Y * X * Z (yaw-pitch-roll). All matrices are column-major.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - pos: translation in world space
//   - rot: rotation angles in radians around the x, y and z axes
//   - scale: scale factors along each axis
func BuildModelMatrix(out []float32, pos, rot, scale [3]float32) {
	cx, sx := math32.Cos(rot[0]), math32.Sin(rot[0])
	cy, sy := math32.Cos(rot[1]), math32.Sin(rot[1])
	cz, sz := math32.Cos(rot[2]), math32.Sin(rot[2])

	out[0] = (cy*cz + sy*sx*sz) * scale[0]
	out[1] = (cx * sz) * scale[0]
	out[2] = (-sy*cz + cy*sx*sz) * scale[0]
	out[3] = 0

	out[4] = (-cy*sz + sy*sx*cz) * scale[1]
	out[5] = (cx * cz) * scale[1]
	out[6] = (sy*sz + cy*sx*cz) * scale[1]
	out[7] = 0

	out[8] = (sy * cx) * scale[2]
	out[9] = -sx * scale[2]
	out[10] = (cy * cx) * scale[2]
	out[11] = 0

	out[12], out[13], out[14], out[15] = pos[0], pos[1], pos[2], 1
}
