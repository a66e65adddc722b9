package geom

import "math"

// Matrix is a 2D affine transformation in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// which maps x' = a*x + b*y + c and y' = d*x + e*y + f.
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// IdentityMatrix returns the identity transformation.
func IdentityMatrix() Matrix {
	return Matrix{A: 1, E: 1}
}

// TranslateMatrix returns a translation by (x, y).
func TranslateMatrix(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// ScaleMatrix returns a scale by (x, y).
func ScaleMatrix(x, y float64) Matrix {
	return Matrix{A: x, E: y}
}

// Multiply returns m * other, i.e. other is applied first.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.D,
		B: m.A*other.B + m.B*other.E,
		C: m.A*other.C + m.B*other.F + m.C,
		D: m.D*other.A + m.E*other.D,
		E: m.D*other.B + m.E*other.E,
		F: m.D*other.C + m.E*other.F + m.F,
	}
}

// TransformPoint applies the matrix to p.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Invert returns the inverse matrix, or the identity when m is singular.
func (m Matrix) Invert() Matrix {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < 1e-12 {
		return IdentityMatrix()
	}
	inv := 1.0 / det
	return Matrix{
		A: m.E * inv,
		B: -m.B * inv,
		C: (m.B*m.F - m.C*m.E) * inv,
		D: -m.D * inv,
		E: m.A * inv,
		F: (m.C*m.D - m.A*m.F) * inv,
	}
}
