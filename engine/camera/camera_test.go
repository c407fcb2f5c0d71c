package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func clip(m [16]float32, v [3]float32) (x, y, z, w float32) {
	x = m[0]*v[0] + m[4]*v[1] + m[8]*v[2] + m[12]
	y = m[1]*v[0] + m[5]*v[1] + m[9]*v[2] + m[13]
	z = m[2]*v[0] + m[6]*v[1] + m[10]*v[2] + m[14]
	w = m[3]*v[0] + m[7]*v[1] + m[11]*v[2] + m[15]
	return
}

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()

	assert.Equal(t, [3]float32{}, c.Position())
	assert.Equal(t, common.Quat{1, 0, 0, 0}, c.Orientation())
	assert.Equal(t, ModePerspective, c.Mode())
	assert.InDelta(t, math32.Pi/3, c.Fov(), eps)
	assert.Equal(t, float32(1), c.Zoom())
	assert.Equal(t, float32(0.01), c.Near())
	assert.Equal(t, float32(100), c.Far())
	w, h := c.Viewport()
	assert.Equal(t, 680, w)
	assert.Equal(t, 400, h)
	assert.Equal(t, common.DepthZeroToOne, c.DepthRange())
}

func TestDefaultCameraSeesRectInFront(t *testing.T) {
	for _, depth := range []common.DepthRange{common.DepthZeroToOne, common.DepthMinusOneToOne} {
		c := NewCamera(WithDepthRange(depth))
		view := c.ViewMatrix()

		// the default orientation is a half turn around x, so the camera looks down +z
		p := common.TransformPoint(view[:], 0, 0, 1)
		assert.InDelta(t, 0, p[0], eps)
		assert.InDelta(t, 0, p[1], eps)
		assert.InDelta(t, -1, p[2], eps)

		x, y, z, w := clip(c.ProjectionMatrix(), p)
		require.Greater(t, w, float32(0))
		assert.InDelta(t, 0, x/w, eps)
		assert.InDelta(t, 0, y/w, eps)
		assert.Less(t, z/w, float32(1))
		if depth == common.DepthZeroToOne {
			assert.Greater(t, z/w, float32(0))
		} else {
			assert.Greater(t, z/w, float32(-1))
		}
	}
}

func TestViewFollowsPosition(t *testing.T) {
	c := NewCamera(WithOrientation(common.QuatIdentity))
	c.SetPosition(1, 2, 3)
	view := c.ViewMatrix()
	p := common.TransformPoint(view[:], 1, 2, 3)
	assert.InDelta(t, 0, p[0], eps)
	assert.InDelta(t, 0, p[1], eps)
	assert.InDelta(t, 0, p[2], eps)

	c.Translate(0, 0, -1)
	assert.Equal(t, [3]float32{1, 2, 2}, c.Position())
	view = c.ViewMatrix()
	p = common.TransformPoint(view[:], 1, 2, 3)
	assert.InDelta(t, 1, p[2], eps)
}

func TestOrthographicUsesViewportAndZoom(t *testing.T) {
	c := NewCamera(WithMode(ModeOrthographic), WithViewport(200, 100), WithZoom(2))
	x, y, _, w := clip(c.ProjectionMatrix(), [3]float32{400, 200, -1})
	assert.InDelta(t, 1, x/w, eps)
	assert.InDelta(t, 1, y/w, eps)

	c.SetZoom(1)
	x, y, _, w = clip(c.ProjectionMatrix(), [3]float32{200, -100, -1})
	assert.InDelta(t, 1, x/w, eps)
	assert.InDelta(t, -1, y/w, eps)
}

func TestPerspectiveTracksViewport(t *testing.T) {
	c := NewCamera()
	before := c.ProjectionMatrix()
	c.SetViewport(400, 400)
	after := c.ProjectionMatrix()
	assert.InDelta(t, after[5], after[0], eps)
	assert.NotEqual(t, before[0], after[0])

	// degenerate sizes are ignored
	c.SetViewport(0, 300)
	w, h := c.Viewport()
	assert.Equal(t, 400, w)
	assert.Equal(t, 400, h)
}

func TestSetOrientationNormalizes(t *testing.T) {
	c := NewCamera()
	c.SetOrientation(common.Quat{0, 0, 0, 2})
	assert.Equal(t, common.QuatIdentity, c.Orientation())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("orthographic")
	require.NoError(t, err)
	assert.Equal(t, ModeOrthographic, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModePerspective, m)

	_, err = ParseMode("fisheye")
	assert.Error(t, err)
	assert.Equal(t, "orthographic", ModeOrthographic.String())
}

func TestGPUCameraUniformMarshal(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, -2))
	u := c.Uniform()
	assert.Equal(t, 128, u.Size())

	buf := u.Marshal()
	require.Len(t, buf, 128)
	for i := range 16 {
		assert.Equal(t, u.Projection[i], math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])))
		assert.Equal(t, u.View[i], math.Float32frombits(binary.LittleEndian.Uint32(buf[64+i*4:])))
	}
	assert.Contains(t, GPUCameraUniformSource, "struct CameraUniform")
}
