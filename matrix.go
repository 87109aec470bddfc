package xform

import "math"

// Matrix represents a 2D homogeneous affine transformation.
// It is a 3x3 matrix in row-major order:
//
//	| m[0] m[1] m[2] |
//	| m[3] m[4] m[5] |
//	| m[6] m[7] m[8] |
//
// acting on column vectors (x, y, 1):
//
//	x' = m[0]*x + m[1]*y + m[2]
//	y' = m[3]*x + m[4]*y + m[5]
//
// Matrix is a value type. Every operation returns a new matrix and leaves
// its receiver untouched.
type Matrix [9]float64

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Projection returns the matrix mapping device pixels (origin top-left,
// y down) of a width x height viewport into normalized device coordinates.
// (0, 0) maps to (-1, 1) and (width, height) maps to (1, -1).
func Projection(width, height float64) Matrix {
	return Matrix{
		2 / width, 0, -1,
		0, -2 / height, 1,
		0, 0, 1,
	}
}

// Translation creates a translation matrix.
func Translation(tx, ty float64) Matrix {
	return Matrix{
		1, 0, tx,
		0, 1, ty,
		0, 0, 1,
	}
}

// Rotation creates a rotation matrix (angle in radians). Positive angles
// rotate counter-clockwise in a y-up frame.
func Rotation(angle float64) Matrix {
	sin, cos := math.Sincos(angle)
	return Matrix{
		cos, -sin, 0,
		sin, cos, 0,
		0, 0, 1,
	}
}

// Scaling creates a scaling matrix.
func Scaling(sx, sy float64) Matrix {
	return Matrix{
		sx, 0, 0,
		0, sy, 0,
		0, 0, 1,
	}
}

// Multiply multiplies two matrices (m * other).
func (m Matrix) Multiply(other Matrix) Matrix {
	var r Matrix
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			r[row*3+col] = m[row*3+0]*other[0*3+col] +
				m[row*3+1]*other[1*3+col] +
				m[row*3+2]*other[2*3+col]
		}
	}
	return r
}

// Translate returns m * Translation(tx, ty).
func (m Matrix) Translate(tx, ty float64) Matrix {
	return m.Multiply(Translation(tx, ty))
}

// Rotate returns m * Rotation(angle).
func (m Matrix) Rotate(angle float64) Matrix {
	return m.Multiply(Rotation(angle))
}

// Scale returns m * Scaling(sx, sy).
func (m Matrix) Scale(sx, sy float64) Matrix {
	return m.Multiply(Scaling(sx, sy))
}

// TransformPoint applies the transformation to a point.
// The homogeneous row is ignored; all matrices built here are affine.
func (m Matrix) TransformPoint(p Point) Point {
	return Point{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// TransformVector applies the transformation to a vector (no translation).
func (m Matrix) TransformVector(p Point) Point {
	return Point{
		X: m[0]*p.X + m[1]*p.Y,
		Y: m[3]*p.X + m[4]*p.Y,
	}
}

// Determinant returns the determinant of the full 3x3 matrix.
func (m Matrix) Determinant() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// LinearDeterminant returns the determinant of the upper-left 2x2 block,
// i.e. the area factor of the linear part. It is zero for degenerate scales.
func (m Matrix) LinearDeterminant() float64 {
	return m[0]*m[4] - m[1]*m[3]
}

// Invert returns the inverse matrix.
// Returns the identity matrix if the matrix is not invertible.
func (m Matrix) Invert() Matrix {
	det := m.Determinant()
	if math.Abs(det) < 1e-10 {
		return Identity()
	}

	invDet := 1.0 / det
	return Matrix{
		(m[4]*m[8] - m[5]*m[7]) * invDet,
		(m[2]*m[7] - m[1]*m[8]) * invDet,
		(m[1]*m[5] - m[2]*m[4]) * invDet,
		(m[5]*m[6] - m[3]*m[8]) * invDet,
		(m[0]*m[8] - m[2]*m[6]) * invDet,
		(m[2]*m[3] - m[0]*m[5]) * invDet,
		(m[3]*m[7] - m[4]*m[6]) * invDet,
		(m[1]*m[6] - m[0]*m[7]) * invDet,
		(m[0]*m[4] - m[1]*m[3]) * invDet,
	}
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// ApproxEqual reports whether every entry of m is within eps of other.
func (m Matrix) ApproxEqual(other Matrix, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-other[i]) > eps {
			return false
		}
	}
	return true
}

// ColumnMajor returns the matrix as float32 values in column-major order,
// the layout GPU uniforms expect.
func (m Matrix) ColumnMajor() [9]float32 {
	return [9]float32{
		float32(m[0]), float32(m[3]), float32(m[6]),
		float32(m[1]), float32(m[4]), float32(m[7]),
		float32(m[2]), float32(m[5]), float32(m[8]),
	}
}

// Compose builds the matrix handed to the rasterizer for the given
// viewport and state. The order is fixed: projection, translate, rotate,
// scale. Translation therefore operates in pixels while rotation and scale
// act in the shape's local frame around its origin.
func Compose(vp Viewport, s State) Matrix {
	return Projection(float64(vp.Width), float64(vp.Height)).
		Translate(s.Translation.X, s.Translation.Y).
		Rotate(s.Angle).
		Scale(s.Scale.X, s.Scale.Y)
}
