package buffer

import (
	"fmt"
	"slices"
)

// Topology is how the index stream is assembled into primitives on the GPU.
type Topology int

const (
	TopologyTriangles Topology = iota
	TopologyLines
	TopologyPoints
)

func (t Topology) String() string {
	switch t {
	case TopologyTriangles:
		return "triangles"
	case TopologyLines:
		return "lines"
	case TopologyPoints:
		return "points"
	default:
		return fmt.Sprintf("topology(%d)", int(t))
	}
}

// Primitive describes one logical primitive: how many vertices it owns and the index
// pattern, relative to its first vertex, that expands it into topology primitives.
type Primitive struct {
	name     string
	vertices int
	pattern  []uint32
	topology Topology
}

// Predefined primitives.
var (
	// Quad is two triangles sharing the 0-2 diagonal.
	Quad     = MustPrimitive("quad", 4, []uint32{0, 1, 2, 0, 2, 3}, TopologyTriangles)
	Triangle = MustPrimitive("triangle", 3, []uint32{0, 1, 2}, TopologyTriangles)
	Line     = MustPrimitive("line", 2, []uint32{0, 1}, TopologyLines)
	Point    = MustPrimitive("point", 1, []uint32{0}, TopologyPoints)
)

// NewPrimitive validates and builds a Primitive.
//
// Parameters:
//   - name: a human name used in error messages
//   - verticesPerPrimitive: the number of vertices each primitive writes (> 0)
//   - pattern: the indices relative to the primitive's first vertex, each < verticesPerPrimitive
//   - topology: the topology the pattern describes
//
// Returns:
//   - Primitive: the descriptor
//   - error: ErrInvalidPrimitive when any constraint is violated
func NewPrimitive(name string, verticesPerPrimitive int, pattern []uint32, topology Topology) (Primitive, error) {
	if verticesPerPrimitive <= 0 {
		return Primitive{}, fmt.Errorf("%w: %s has %d vertices per primitive", ErrInvalidPrimitive, name, verticesPerPrimitive)
	}
	if len(pattern) == 0 {
		return Primitive{}, fmt.Errorf("%w: %s has an empty index pattern", ErrInvalidPrimitive, name)
	}
	for i, e := range pattern {
		if int(e) >= verticesPerPrimitive {
			return Primitive{}, fmt.Errorf("%w: %s pattern entry %d is %d, must be < %d", ErrInvalidPrimitive, name, i, e, verticesPerPrimitive)
		}
	}
	switch topology {
	case TopologyTriangles:
		if len(pattern)%3 != 0 {
			return Primitive{}, fmt.Errorf("%w: %s triangle pattern length %d is not a multiple of 3", ErrInvalidPrimitive, name, len(pattern))
		}
	case TopologyLines:
		if len(pattern)%2 != 0 {
			return Primitive{}, fmt.Errorf("%w: %s line pattern length %d is not a multiple of 2", ErrInvalidPrimitive, name, len(pattern))
		}
	case TopologyPoints:
	default:
		return Primitive{}, fmt.Errorf("%w: %s has unknown %s", ErrInvalidPrimitive, name, topology)
	}
	return Primitive{name: name, vertices: verticesPerPrimitive, pattern: slices.Clone(pattern), topology: topology}, nil
}

// MustPrimitive is NewPrimitive that panics on error.
func MustPrimitive(name string, verticesPerPrimitive int, pattern []uint32, topology Topology) Primitive {
	p, err := NewPrimitive(name, verticesPerPrimitive, pattern, topology)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Primitive) Name() string {
	return p.name
}

func (p Primitive) VerticesPerPrimitive() int {
	return p.vertices
}

// IndexPattern returns a copy of the relative index pattern.
func (p Primitive) IndexPattern() []uint32 {
	return slices.Clone(p.pattern)
}

func (p Primitive) Topology() Topology {
	return p.topology
}

// IsZero reports whether p is the zero descriptor.
func (p Primitive) IsZero() bool {
	return p.vertices == 0
}
