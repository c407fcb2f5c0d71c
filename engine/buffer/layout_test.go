package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLayoutStrideAndOffsets(t *testing.T) {
	assert.Equal(t, 40, DefaultLayout.Stride())
	assert.Equal(t, 4, DefaultLayout.Len())

	tests := []struct {
		role       Role
		offset     int
		components int
	}{
		{RolePosition, 0, 3},
		{RoleColor, 12, 4},
		{RoleTexUV, 28, 2},
		{RoleTexID, 36, 1},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			md, err := DefaultLayout.Metadata(tt.role)
			require.NoError(t, err)
			assert.Equal(t, tt.offset, md.Offset)
			assert.Equal(t, tt.components, md.Components)
			assert.Equal(t, TypeFloat, md.Type)
		})
	}
}

func TestLayoutOffsetsArePrefixSums(t *testing.T) {
	l, err := NewLayout(
		Attribute{Role: RoleColor, Components: 4, Type: TypeUByte},
		Attribute{Role: RolePosition, Components: 2, Type: TypeShort},
		Attribute{Role: RoleTexID, Components: 1, Type: TypeUInt},
	)
	require.NoError(t, err)
	assert.Equal(t, 4+4+4, l.Stride())

	expected := 0
	for _, a := range l.Attributes() {
		md, err := l.Metadata(a.Role)
		require.NoError(t, err)
		assert.Equal(t, expected, md.Offset)
		expected += a.Components * a.Type.Size()
	}
	assert.Equal(t, l.Stride(), expected)
}

func TestLayoutUnknownRole(t *testing.T) {
	_, err := DefaultLayout.Metadata(RoleNormal)
	assert.ErrorIs(t, err, ErrUnknownAttribute)
	assert.Contains(t, err.Error(), "normal")
}

func TestNewLayoutRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		attrs []Attribute
	}{
		{"empty", nil},
		{"zero components", []Attribute{{Role: RolePosition, Components: 0, Type: TypeFloat}}},
		{"unknown type", []Attribute{{Role: RolePosition, Components: 3, Type: ScalarType(99)}}},
		{"duplicate role", []Attribute{
			{Role: RolePosition, Components: 3, Type: TypeFloat},
			{Role: RolePosition, Components: 2, Type: TypeFloat},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLayout(tt.attrs...)
			assert.ErrorIs(t, err, ErrInvalidLayout)
		})
	}
}

func TestLayoutAttributesIsACopy(t *testing.T) {
	attrs := DefaultLayout.Attributes()
	attrs[0].Components = 1
	md, err := DefaultLayout.Metadata(RolePosition)
	require.NoError(t, err)
	assert.Equal(t, 3, md.Components)
}

func TestRequirementCheck(t *testing.T) {
	_, err := Floats(RolePosition, 3).Check(DefaultLayout)
	assert.NoError(t, err)

	_, err = Floats(RoleColor, 5).Check(DefaultLayout)
	assert.ErrorIs(t, err, ErrLayoutMismatch)
	assert.Contains(t, err.Error(), "bad color layout, got 4 of type float")

	_, err = Requirement{Role: RoleTexID, MinComponents: 1, Type: TypeInt}.Check(DefaultLayout)
	assert.ErrorIs(t, err, ErrLayoutMismatch)

	_, err = Floats(RoleNormal, 3).Check(DefaultLayout)
	assert.ErrorIs(t, err, ErrUnknownAttribute)
}
