package shader

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultPointers(t *testing.T) []buffer.AttribPointer {
	t.Helper()
	vb := buffer.NewVertexBuffer(buffer.WithLayout(buffer.DefaultLayout), buffer.WithPrimitive(buffer.Quad))
	return vb.AttribPointers()
}

func TestDefaultProgram(t *testing.T) {
	p := DefaultProgram()

	assert.Equal(t, "sandbox", p.Key())
	assert.True(t, p.Supports(LanguageGLSL))
	assert.True(t, p.Supports(LanguageWGSL))

	vs, err := p.Source(LanguageGLSL, StageVertex)
	require.NoError(t, err)
	assert.Contains(t, vs, "uniform mat4 uProjection;")
	assert.Contains(t, vs, "layout (location=3) in float aTexID;")
	fs, err := p.Source(LanguageGLSL, StageFragment)
	require.NoError(t, err)
	assert.Contains(t, fs, "color = fColor;")

	wgsl, err := p.Source(LanguageWGSL, StageFragment)
	require.NoError(t, err)
	assert.Contains(t, wgsl, "@group(0) @binding(0) var<uniform> camera: CameraUniform;")
	assert.Contains(t, wgsl, "struct CameraUniform")

	assert.Equal(t, "main", p.EntryPoint(LanguageGLSL, StageVertex))
	assert.Equal(t, "vs_main", p.EntryPoint(LanguageWGSL, StageVertex))
	assert.Equal(t, "fs_main", p.EntryPoint(LanguageWGSL, StageFragment))
	assert.Equal(t, "uProjection", p.ProjectionUniform())
	assert.Equal(t, "uView", p.ViewUniform())
	require.Len(t, p.Declarations(), 1)

	assert.NoError(t, p.CheckAttribs(defaultPointers(t)))
}

func TestNewProgramRequiresSource(t *testing.T) {
	_, err := NewProgram("empty")
	assert.ErrorIs(t, err, ErrNoSource)

	// a vertex shader alone is not a complete GLSL program
	_, err = NewProgram("half", WithGLSL("void main() {}", ""))
	assert.ErrorIs(t, err, ErrNoSource)

	_, err = NewProgram("broken", WithWGSL("//@oxy:include nothing", "", ""))
	assert.ErrorIs(t, err, ErrUnknownInclude)
}

func TestProgramSourceMissingLanguage(t *testing.T) {
	p, err := NewProgram("gl-only", WithGLSL("v", "f"))
	require.NoError(t, err)
	assert.False(t, p.Supports(LanguageWGSL))

	_, err = p.Source(LanguageWGSL, StageVertex)
	assert.ErrorIs(t, err, ErrNoSource)
	assert.Empty(t, p.Declarations())
}

func TestProgramOptions(t *testing.T) {
	p, err := NewProgram("lines",
		WithGLSL("v", "f"),
		WithAttributes(buffer.RolePosition, buffer.RoleColor),
		WithUniformNames("proj", "view"),
	)
	require.NoError(t, err)
	assert.Equal(t, []buffer.Role{buffer.RolePosition, buffer.RoleColor}, p.Attributes())
	assert.Equal(t, "proj", p.ProjectionUniform())
	assert.Equal(t, "view", p.ViewUniform())

	// extra buffer attributes are fine
	assert.NoError(t, p.CheckAttribs(defaultPointers(t)))
}

func TestCheckAttribsMismatch(t *testing.T) {
	p := DefaultProgram()

	layout := buffer.MustLayout(
		buffer.Attribute{Role: buffer.RolePosition, Components: 3, Type: buffer.TypeFloat},
		buffer.Attribute{Role: buffer.RoleColor, Components: 4, Type: buffer.TypeFloat},
	)
	vb := buffer.NewVertexBuffer(buffer.WithLayout(layout), buffer.WithPrimitive(buffer.Quad))
	err := p.CheckAttribs(vb.AttribPointers())
	assert.ErrorIs(t, err, ErrAttributeMismatch)
	assert.Contains(t, err.Error(), "texUV")

	swapped := buffer.MustLayout(
		buffer.Attribute{Role: buffer.RoleColor, Components: 4, Type: buffer.TypeFloat},
		buffer.Attribute{Role: buffer.RolePosition, Components: 3, Type: buffer.TypeFloat},
		buffer.Attribute{Role: buffer.RoleTexUV, Components: 2, Type: buffer.TypeFloat},
		buffer.Attribute{Role: buffer.RoleTexID, Components: 1, Type: buffer.TypeFloat},
	)
	vb = buffer.NewVertexBuffer(buffer.WithLayout(swapped), buffer.WithPrimitive(buffer.Quad))
	err = p.CheckAttribs(vb.AttribPointers())
	assert.ErrorIs(t, err, ErrAttributeMismatch)
	assert.Contains(t, err.Error(), "location 0")
}
