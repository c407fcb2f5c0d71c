package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWGPUVertexFormat(t *testing.T) {
	tests := []struct {
		name       string
		typ        buffer.ScalarType
		components int
		want       wgpu.VertexFormat
	}{
		{"float3", buffer.TypeFloat, 3, wgpu.VertexFormatFloat32x3},
		{"int1", buffer.TypeInt, 1, wgpu.VertexFormatSint32},
		{"uint4", buffer.TypeUInt, 4, wgpu.VertexFormatUint32x4},
		{"short2", buffer.TypeShort, 2, wgpu.VertexFormatSint16x2},
		{"ushort4", buffer.TypeUShort, 4, wgpu.VertexFormatUint16x4},
		{"byte2", buffer.TypeByte, 2, wgpu.VertexFormatSint8x2},
		{"ubyte4", buffer.TypeUByte, 4, wgpu.VertexFormatUint8x4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wgpuVertexFormat(tt.typ, tt.components)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWGPUVertexFormatUnsupported(t *testing.T) {
	for _, c := range []struct {
		typ        buffer.ScalarType
		components int
	}{
		{buffer.TypeUByte, 1},
		{buffer.TypeShort, 3},
		{buffer.TypeFloat, 0},
		{buffer.TypeFloat, 5},
	} {
		_, err := wgpuVertexFormat(c.typ, c.components)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, "%d x %s", c.components, c.typ)
	}
}
