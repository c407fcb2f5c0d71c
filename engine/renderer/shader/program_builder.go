package shader

import "github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"

// ProgramBuilderOption is a functional option for configuring a Program.
type ProgramBuilderOption func(p *program)

// WithGLSL sets the GLSL 330 core vertex and fragment sources.
//
// Parameters:
//   - vertex: the vertex shader source
//   - fragment: the fragment shader source
//
// Returns:
//   - ProgramBuilderOption: option function to apply
func WithGLSL(vertex, fragment string) ProgramBuilderOption {
	return func(p *program) {
		p.glslVertex = vertex
		p.glslFragment = fragment
	}
}

// WithWGSL sets the WGSL module and its entry points. Empty entry point names keep the
// defaults (vs_main, fs_main).
//
// Parameters:
//   - source: the WGSL module, which may contain @oxy: annotations
//   - vertexEntry: the vertex stage function name
//   - fragmentEntry: the fragment stage function name
//
// Returns:
//   - ProgramBuilderOption: option function to apply
func WithWGSL(source, vertexEntry, fragmentEntry string) ProgramBuilderOption {
	return func(p *program) {
		p.wgslRaw = source
		if vertexEntry != "" {
			p.vertexEntry = vertexEntry
		}
		if fragmentEntry != "" {
			p.fragmentEntry = fragmentEntry
		}
	}
}

// WithAttributes sets the roles the vertex stage reads, in location order.
//
// Parameters:
//   - roles: the attribute roles at locations 0..n-1
//
// Returns:
//   - ProgramBuilderOption: option function to apply
func WithAttributes(roles ...buffer.Role) ProgramBuilderOption {
	return func(p *program) {
		p.attributes = append([]buffer.Role(nil), roles...)
	}
}

// WithUniformNames sets the names of the camera matrix uniforms in the GLSL sources.
//
// Parameters:
//   - projection: the projection matrix uniform name
//   - view: the view matrix uniform name
//
// Returns:
//   - ProgramBuilderOption: option function to apply
func WithUniformNames(projection, view string) ProgramBuilderOption {
	return func(p *program) {
		p.projectionUniform = projection
		p.viewUniform = view
	}
}
