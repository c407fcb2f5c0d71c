package buffer

import (
	"fmt"
	"slices"
)

// Role names what an attribute means to the shader.
type Role int

const (
	RolePosition Role = iota
	RoleColor
	RoleTexUV
	RoleTexID
	RoleNormal
)

func (r Role) String() string {
	switch r {
	case RolePosition:
		return "position"
	case RoleColor:
		return "color"
	case RoleTexUV:
		return "texUV"
	case RoleTexID:
		return "texID"
	case RoleNormal:
		return "normal"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ScalarType is the element type of an attribute's components.
type ScalarType int

const (
	TypeFloat ScalarType = iota
	TypeInt
	TypeUInt
	TypeShort
	TypeUShort
	TypeByte
	TypeUByte
)

// Size returns the size of one component in bytes, or 0 for an unknown type.
func (t ScalarType) Size() int {
	switch t {
	case TypeFloat, TypeInt, TypeUInt:
		return 4
	case TypeShort, TypeUShort:
		return 2
	case TypeByte, TypeUByte:
		return 1
	default:
		return 0
	}
}

func (t ScalarType) String() string {
	switch t {
	case TypeFloat:
		return "float"
	case TypeInt:
		return "int"
	case TypeUInt:
		return "uint"
	case TypeShort:
		return "short"
	case TypeUShort:
		return "ushort"
	case TypeByte:
		return "byte"
	case TypeUByte:
		return "ubyte"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Attribute describes one vertex attribute.
type Attribute struct {
	Role       Role
	Components int
	Type       ScalarType
}

// Size returns the number of bytes the attribute occupies in a single vertex.
func (a Attribute) Size() int {
	return a.Components * a.Type.Size()
}

// Metadata is the resolved placement of a role inside a vertex.
type Metadata struct {
	Offset     int
	Components int
	Type       ScalarType
}

// Layout is the ordered list of attributes making up one vertex.
// The zero value is an empty, unusable layout; build one with NewLayout.
type Layout struct {
	attrs []Attribute
}

// DefaultLayout is position(3 floats), color(4 floats), texUV(2 floats), texID(1 float): 40 bytes per vertex.
var DefaultLayout = MustLayout(
	Attribute{Role: RolePosition, Components: 3, Type: TypeFloat},
	Attribute{Role: RoleColor, Components: 4, Type: TypeFloat},
	Attribute{Role: RoleTexUV, Components: 2, Type: TypeFloat},
	Attribute{Role: RoleTexID, Components: 1, Type: TypeFloat},
)

// NewLayout validates the attribute list and builds a Layout from it.
// The attribute order is the in-vertex order and the shader location order.
//
// Parameters:
//   - attrs: the attributes in vertex order
//
// Returns:
//   - Layout: the new layout
//   - error: ErrInvalidLayout when the list is empty, an attribute has no components or an unknown type, or a role repeats
func NewLayout(attrs ...Attribute) (Layout, error) {
	if len(attrs) == 0 {
		return Layout{}, fmt.Errorf("%w: no attributes", ErrInvalidLayout)
	}
	seen := make(map[Role]struct{}, len(attrs))
	for i, a := range attrs {
		if a.Components <= 0 {
			return Layout{}, fmt.Errorf("%w: attribute %d (%s) has %d components", ErrInvalidLayout, i, a.Role, a.Components)
		}
		if a.Type.Size() == 0 {
			return Layout{}, fmt.Errorf("%w: attribute %d (%s) has unknown type %s", ErrInvalidLayout, i, a.Role, a.Type)
		}
		if _, dup := seen[a.Role]; dup {
			return Layout{}, fmt.Errorf("%w: duplicate %s attribute", ErrInvalidLayout, a.Role)
		}
		seen[a.Role] = struct{}{}
	}
	return Layout{attrs: slices.Clone(attrs)}, nil
}

// MustLayout is NewLayout that panics on error, for package-level layouts.
func MustLayout(attrs ...Attribute) Layout {
	l, err := NewLayout(attrs...)
	if err != nil {
		panic(err)
	}
	return l
}

// Metadata resolves the byte offset, component count and type of role.
//
// Parameters:
//   - role: the attribute role to look up
//
// Returns:
//   - Metadata: the placement of role within a vertex
//   - error: ErrUnknownAttribute if the layout has no such role
func (l Layout) Metadata(role Role) (Metadata, error) {
	offset := 0
	for _, a := range l.attrs {
		if a.Role == role {
			return Metadata{Offset: offset, Components: a.Components, Type: a.Type}, nil
		}
		offset += a.Size()
	}
	return Metadata{}, fmt.Errorf("%w: %s", ErrUnknownAttribute, role)
}

// Stride returns the size of one vertex in bytes. It is derived from the attributes on every call.
func (l Layout) Stride() int {
	stride := 0
	for _, a := range l.attrs {
		stride += a.Size()
	}
	return stride
}

// Attributes returns a copy of the attribute list.
func (l Layout) Attributes() []Attribute {
	return slices.Clone(l.attrs)
}

// Len returns the number of attributes.
func (l Layout) Len() int {
	return len(l.attrs)
}

// IsZero reports whether the layout has no attributes.
func (l Layout) IsZero() bool {
	return len(l.attrs) == 0
}

// Requirement is a producer's minimum expectation for one role.
type Requirement struct {
	Role          Role
	MinComponents int
	Type          ScalarType
}

// Check resolves r against the layout.
//
// Parameters:
//   - l: the layout to check against
//
// Returns:
//   - Metadata: the placement of the role
//   - error: ErrUnknownAttribute or ErrLayoutMismatch naming the observed components and type
func (r Requirement) Check(l Layout) (Metadata, error) {
	md, err := l.Metadata(r.Role)
	if err != nil {
		return Metadata{}, err
	}
	if md.Components < r.MinComponents || md.Type != r.Type {
		return Metadata{}, fmt.Errorf("%w: bad %s layout, got %d of type %s, want at least %d of type %s",
			ErrLayoutMismatch, r.Role, md.Components, md.Type, r.MinComponents, r.Type)
	}
	return md, nil
}

// Floats is shorthand for a float requirement.
func Floats(role Role, minComponents int) Requirement {
	return Requirement{Role: role, MinComponents: minComponents, Type: TypeFloat}
}
