package shape

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatsAt(data []byte, offset, n int) []float32 {
	out := make([]float32, n)
	for i := range n {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[offset+i*4:]))
	}
	return out
}

func newBuffer(primitive buffer.Primitive, layout buffer.Layout) buffer.VertexBuffer {
	return buffer.NewVertexBuffer(buffer.WithLayout(layout), buffer.WithPrimitive(primitive))
}

func TestRectUnitQuad(t *testing.T) {
	vb := newBuffer(buffer.Quad, buffer.DefaultLayout)
	r := NewRect(0, 0, 0, 1, 1, [4]float32{1, 0.5, 0.25, 1})

	require.NoError(t, r.ToBuffer(vb))

	assert.Equal(t, 1, vb.Size())
	assert.Equal(t, 4, vb.VertexCount())
	assert.Len(t, vb.VertexBytes(), 160)
	assert.Equal(t, 6, vb.IndexCount())

	want := [4][3]float32{{0.5, 0.5, 0}, {-0.5, 0.5, 0}, {-0.5, -0.5, 0}, {0.5, -0.5, 0}}
	data := vb.VertexBytes()
	for i, corner := range want {
		base := i * 40
		assert.Equal(t, corner[:], floatsAt(data, base, 3), "vertex %d position", i)
		assert.Equal(t, []float32{1, 0.5, 0.25, 1}, floatsAt(data, base+12, 4), "vertex %d color", i)
		assert.Equal(t, []float32{0, 0, 0}, floatsAt(data, base+28, 3), "vertex %d tex", i)
	}
}

func TestRectTranslated(t *testing.T) {
	vb := newBuffer(buffer.Quad, buffer.DefaultLayout)
	r := NewRect(0, 0, 1, 2, 4, [4]float32{1, 1, 1, 1})

	require.NoError(t, r.ToBuffer(vb))

	data := vb.VertexBytes()
	assert.Equal(t, []float32{1, 2, 1}, floatsAt(data, 0, 3))
	assert.Equal(t, []float32{-1, -2, 1}, floatsAt(data, 80, 3))
}

func TestRectRotated(t *testing.T) {
	vb := newBuffer(buffer.Quad, buffer.DefaultLayout)
	r := &Rect{
		Transform: Transform{Rotation: [3]float32{0, 0, math.Pi / 2}},
		Size:      [3]float32{2, 2, 1},
		Color:     [4]float32{1, 1, 1, 1},
	}

	require.NoError(t, r.ToBuffer(vb))

	// (1, 1) rotates a quarter turn about z to (-1, 1).
	p := floatsAt(vb.VertexBytes(), 0, 3)
	assert.InDelta(t, -1, p[0], 1e-5)
	assert.InDelta(t, 1, p[1], 1e-5)
	assert.InDelta(t, 0, p[2], 1e-5)
}

func TestRectLayoutErrors(t *testing.T) {
	tests := []struct {
		name   string
		layout buffer.Layout
		want   error
	}{
		{
			name: "missing position",
			layout: buffer.MustLayout(
				buffer.Attribute{Role: buffer.RoleColor, Components: 4, Type: buffer.TypeFloat},
				buffer.Attribute{Role: buffer.RoleTexUV, Components: 2, Type: buffer.TypeFloat},
				buffer.Attribute{Role: buffer.RoleTexID, Components: 1, Type: buffer.TypeFloat},
			),
			want: buffer.ErrUnknownAttribute,
		},
		{
			name: "two component position",
			layout: buffer.MustLayout(
				buffer.Attribute{Role: buffer.RolePosition, Components: 2, Type: buffer.TypeFloat},
				buffer.Attribute{Role: buffer.RoleColor, Components: 4, Type: buffer.TypeFloat},
				buffer.Attribute{Role: buffer.RoleTexUV, Components: 2, Type: buffer.TypeFloat},
				buffer.Attribute{Role: buffer.RoleTexID, Components: 1, Type: buffer.TypeFloat},
			),
			want: buffer.ErrLayoutMismatch,
		},
		{
			name: "integer tex id",
			layout: buffer.MustLayout(
				buffer.Attribute{Role: buffer.RolePosition, Components: 3, Type: buffer.TypeFloat},
				buffer.Attribute{Role: buffer.RoleColor, Components: 4, Type: buffer.TypeFloat},
				buffer.Attribute{Role: buffer.RoleTexUV, Components: 2, Type: buffer.TypeFloat},
				buffer.Attribute{Role: buffer.RoleTexID, Components: 1, Type: buffer.TypeInt},
			),
			want: buffer.ErrLayoutMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vb := newBuffer(buffer.Quad, tt.layout)
			err := NewRect(0, 0, 0, 1, 1, [4]float32{1, 1, 1, 1}).ToBuffer(vb)

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, 0, vb.Size())
			assert.Empty(t, vb.VertexBytes())
			assert.Empty(t, vb.IndexBytes())
		})
	}
}

func TestRectWrongPrimitive(t *testing.T) {
	vb := newBuffer(buffer.Triangle, buffer.DefaultLayout)

	err := NewRect(0, 0, 0, 1, 1, [4]float32{1, 1, 1, 1}).ToBuffer(vb)

	assert.ErrorIs(t, err, ErrPrimitiveMismatch)
	assert.Equal(t, 0, vb.Size())
}

func TestRectUnconfiguredBuffer(t *testing.T) {
	err := NewRect(0, 0, 0, 1, 1, [4]float32{1, 1, 1, 1}).ToBuffer(buffer.NewVertexBuffer())

	assert.ErrorIs(t, err, buffer.ErrNotConfigured)
}

func TestTriangle(t *testing.T) {
	vb := newBuffer(buffer.Triangle, buffer.DefaultLayout)
	tri := &Triangle{
		Transform: At(1, 0, 0),
		Points:    [3][3]float32{{0, 1, 0}, {-1, -1, 0}, {1, -1, 0}},
		Color:     [4]float32{0, 1, 0, 1},
	}

	require.NoError(t, tri.ToBuffer(vb))
	require.NoError(t, tri.ToBuffer(vb))

	assert.Equal(t, 2, vb.Size())
	assert.Equal(t, 6, vb.IndexCount())
	data := vb.VertexBytes()
	assert.Equal(t, []float32{1, 1, 0}, floatsAt(data, 0, 3))
	assert.Equal(t, []float32{2, -1, 0}, floatsAt(data, 80, 3))
	assert.Equal(t, []float32{0, 1, 0, 1}, floatsAt(data, 12, 4))
	// TexUV and TexID are not written and stay zero.
	assert.Equal(t, []float32{0, 0, 0}, floatsAt(data, 28, 3))
}

func TestLine(t *testing.T) {
	layout := buffer.MustLayout(
		buffer.Attribute{Role: buffer.RolePosition, Components: 3, Type: buffer.TypeFloat},
		buffer.Attribute{Role: buffer.RoleColor, Components: 4, Type: buffer.TypeFloat},
	)
	vb := newBuffer(buffer.Line, layout)
	l := &Line{From: [3]float32{-1, 0, 2}, To: [3]float32{1, 0, 2}, Color: [4]float32{1, 0, 0, 1}}

	require.NoError(t, l.ToBuffer(vb))

	assert.Equal(t, 1, vb.Size())
	assert.Len(t, vb.VertexBytes(), 2*28)
	assert.Equal(t, []float32{-1, 0, 2}, floatsAt(vb.VertexBytes(), 0, 3))
	assert.Equal(t, []float32{1, 0, 2}, floatsAt(vb.VertexBytes(), 28, 3))
	assert.Equal(t, buffer.TopologyLines, vb.Primitive().Topology())
}

func TestLineWrongPrimitive(t *testing.T) {
	vb := newBuffer(buffer.Quad, buffer.DefaultLayout)

	err := (&Line{}).ToBuffer(vb)

	assert.ErrorIs(t, err, ErrPrimitiveMismatch)
}

func TestTransformZeroIsIdentity(t *testing.T) {
	var tr Transform

	assert.Equal(t, [3]float32{1, 2, 3}, tr.Apply([3]float32{1, 2, 3}))
	assert.Equal(t, [3]float32{2, 4, 6}, Transform{Scale: [3]float32{2, 2, 2}}.Apply([3]float32{1, 2, 3}))
}
