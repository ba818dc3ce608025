package geom

import "math"

// Affine is a 2D affine transform in the column-vector convention:
//
//	x' = A·x + C·y + E
//	y' = B·x + D·y + F
//
// Surfaces use it to track the translate/rotate state a renderer builds up
// around rotated cells.
type Affine struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{A: 1, D: 1}
}

// Translated returns a transform that moves points by (dx, dy).
func Translated(dx, dy float64) Affine {
	return Affine{A: 1, D: 1, E: dx, F: dy}
}

// Rotated returns a counter-clockwise rotation about the origin by deg
// degrees.
func Rotated(deg float64) Affine {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Affine{A: cos, B: sin, C: -sin, D: cos}
}

// Mul composes transforms: the returned transform applies n first, then m.
// This matches the usual canvas semantics where ctm = ctm.Mul(op) applies
// op in the current coordinate space.
func (m Affine) Mul(n Affine) Affine {
	return Affine{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Apply transforms the point (x, y).
func (m Affine) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// Rotation returns the transform's rotation component in degrees, in
// (-180, 180]. Translation does not affect it.
func (m Affine) Rotation() float64 {
	return math.Atan2(m.B, m.A) * 180 / math.Pi
}

// Invert returns the inverse transform. The determinant must be non-zero;
// every transform a renderer builds from translations and rotations is
// invertible.
func (m Affine) Invert() Affine {
	det := m.A*m.D - m.B*m.C
	return Affine{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
		E: (m.C*m.F - m.D*m.E) / det,
		F: (m.B*m.E - m.A*m.F) / det,
	}
}
