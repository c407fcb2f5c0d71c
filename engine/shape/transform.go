package shape

import "github.com/Carmen-Shannon/oxy-sandbox/common"

// Transform places a shape in world space. Rotation is in Euler radians (X, Y, Z);
// a zero Scale is treated as unit scale so the zero Transform is the identity.
type Transform struct {
	Position [3]float32
	Rotation [3]float32
	Scale    [3]float32
}

// At returns a unit-scale Transform translated to (x, y, z).
func At(x, y, z float32) Transform {
	return Transform{Position: [3]float32{x, y, z}, Scale: [3]float32{1, 1, 1}}
}

// Matrix returns the column-major model matrix T * R * S.
func (t Transform) Matrix() [16]float32 {
	scale := t.Scale
	if scale == [3]float32{} {
		scale = [3]float32{1, 1, 1}
	}
	var m [16]float32
	common.BuildModelMatrix(m[:], t.Position, t.Rotation, scale)
	return m
}

// Apply transforms a local-space point into world space.
func (t Transform) Apply(p [3]float32) [3]float32 {
	m := t.Matrix()
	return common.TransformPoint(m[:], p[0], p[1], p[2])
}
