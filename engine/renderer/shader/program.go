package shader

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-sandbox/engine/buffer"
)

// Language identifies the shading language a backend compiles.
type Language int

const (
	// LanguageGLSL is GLSL 330 core, compiled by the OpenGL backend.
	LanguageGLSL Language = iota
	// LanguageWGSL is WGSL, compiled by the WebGPU backend.
	LanguageWGSL
)

func (l Language) String() string {
	switch l {
	case LanguageGLSL:
		return "glsl"
	case LanguageWGSL:
		return "wgsl"
	default:
		return fmt.Sprintf("Language(%d)", int(l))
	}
}

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

var (
	//go:embed assets/sandbox.vert
	sandboxVertexGLSL string

	//go:embed assets/sandbox.frag
	sandboxFragmentGLSL string

	//go:embed assets/sandbox.wgsl
	sandboxWGSL string
)

// program is the implementation of the Program interface.
type program struct {
	key string

	glslVertex   string
	glslFragment string

	// wgsl holds the pre-processed module; both stages live in it.
	wgsl          string
	wgslRaw       string
	vertexEntry   string
	fragmentEntry string
	declarations  []Annotation

	attributes []buffer.Role

	projectionUniform string
	viewUniform       string
}

// Program is a vertex + fragment shader pair in one or both shading languages, together
// with the vertex inputs it reads and the names of its camera uniforms.
type Program interface {
	// Key returns the program's unique identifier, used by backends to cache compiled
	// programs and pipelines.
	Key() string

	// Supports reports whether the program carries source for lang.
	Supports(lang Language) bool

	// Source returns the source of one stage. WGSL programs return the same module for
	// both stages.
	//
	// Parameters:
	//   - lang: the shading language
	//   - stage: the pipeline stage
	//
	// Returns:
	//   - string: the stage source
	//   - error: ErrNoSource if the program has no source for lang and stage
	Source(lang Language, stage Stage) (string, error)

	// EntryPoint returns the entry point of a stage: "main" for GLSL, the configured
	// function name for WGSL.
	EntryPoint(lang Language, stage Stage) string

	// Declarations returns the bind group declarations collected from the WGSL source.
	//
	// Returns:
	//   - []Annotation: the group annotations, in source order
	Declarations() []Annotation

	// Attributes returns the roles the vertex stage reads, in location order.
	//
	// Returns:
	//   - []buffer.Role: a copy of the attribute roles
	Attributes() []buffer.Role

	// ProjectionUniform returns the name of the projection matrix uniform.
	ProjectionUniform() string

	// ViewUniform returns the name of the view matrix uniform.
	ViewUniform() string

	// CheckAttribs verifies that pointers feed every vertex input at its location.
	// Pointers for roles the program does not read are allowed.
	//
	// Parameters:
	//   - pointers: the vertex buffer's attribute pointers
	//
	// Returns:
	//   - error: ErrAttributeMismatch naming the first missing or misplaced role
	CheckAttribs(pointers []buffer.AttribPointer) error
}

var _ Program = &program{}

// NewProgram creates a Program from the given sources. WGSL sources are run through the
// pre-processor so annotations are expanded and their declarations recorded.
//
// Parameters:
//   - key: the program's unique identifier
//   - options: functional options supplying sources and overrides
//
// Returns:
//   - Program: the new program
//   - error: ErrNoSource if no language was supplied, or a pre-processing error
func NewProgram(key string, options ...ProgramBuilderOption) (Program, error) {
	p := &program{
		key:               key,
		vertexEntry:       "vs_main",
		fragmentEntry:     "fs_main",
		attributes:        []buffer.Role{buffer.RolePosition, buffer.RoleColor, buffer.RoleTexUV, buffer.RoleTexID},
		projectionUniform: "uProjection",
		viewUniform:       "uView",
	}
	for _, option := range options {
		option(p)
	}

	if !p.Supports(LanguageGLSL) && p.wgslRaw == "" {
		return nil, fmt.Errorf("%w: program %q has no GLSL or WGSL source", ErrNoSource, key)
	}
	if p.wgslRaw != "" {
		pp := NewPreProcessor()
		src, err := pp.Process(p.wgslRaw)
		if err != nil {
			return nil, fmt.Errorf("failed to pre-process WGSL for program %q: %w", key, err)
		}
		p.wgsl = src
		p.declarations = append([]Annotation(nil), pp.Declarations()...)
	}
	return p, nil
}

// DefaultProgram returns the sandbox program: a pass-through of vertex color transformed
// by the camera's projection and view, reading DefaultLayout at locations 0-3.
// Panics if the embedded sources fail to pre-process.
//
// Returns:
//   - Program: the default program
func DefaultProgram() Program {
	p, err := NewProgram("sandbox",
		WithGLSL(sandboxVertexGLSL, sandboxFragmentGLSL),
		WithWGSL(sandboxWGSL, "vs_main", "fs_main"),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to build default program: %v", err))
	}
	return p
}

func (p *program) Key() string {
	return p.key
}

func (p *program) Supports(lang Language) bool {
	switch lang {
	case LanguageGLSL:
		return p.glslVertex != "" && p.glslFragment != ""
	case LanguageWGSL:
		return p.wgsl != ""
	default:
		return false
	}
}

func (p *program) Source(lang Language, stage Stage) (string, error) {
	var src string
	switch lang {
	case LanguageGLSL:
		if stage == StageVertex {
			src = p.glslVertex
		} else if stage == StageFragment {
			src = p.glslFragment
		}
	case LanguageWGSL:
		if stage == StageVertex || stage == StageFragment {
			src = p.wgsl
		}
	}
	if src == "" {
		return "", fmt.Errorf("%w: program %q, %s %s stage", ErrNoSource, p.key, lang, stage)
	}
	return src, nil
}

func (p *program) EntryPoint(lang Language, stage Stage) string {
	if lang == LanguageGLSL {
		return "main"
	}
	if stage == StageFragment {
		return p.fragmentEntry
	}
	return p.vertexEntry
}

func (p *program) Declarations() []Annotation {
	return p.declarations
}

func (p *program) Attributes() []buffer.Role {
	return append([]buffer.Role(nil), p.attributes...)
}

func (p *program) ProjectionUniform() string {
	return p.projectionUniform
}

func (p *program) ViewUniform() string {
	return p.viewUniform
}

func (p *program) CheckAttribs(pointers []buffer.AttribPointer) error {
	for loc, role := range p.attributes {
		found := false
		for _, ptr := range pointers {
			if ptr.Role != role {
				continue
			}
			if ptr.Location != uint32(loc) {
				return fmt.Errorf("%w: program %q reads %s at location %d, buffer provides it at %d",
					ErrAttributeMismatch, p.key, role, loc, ptr.Location)
			}
			found = true
			break
		}
		if !found {
			return fmt.Errorf("%w: program %q reads %s at location %d, buffer has no such attribute",
				ErrAttributeMismatch, p.key, role, loc)
		}
	}
	return nil
}
