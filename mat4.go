package figura

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f64"
)

// Mat4 is a 4x4 matrix in row-major order. Points are treated as column
// vectors, so Mul(A, B) applied to a point runs B first, then A.
type Mat4 = f64.Mat4

// SingularEpsilon is the smallest pivot (or determinant) Inverse accepts.
const SingularEpsilon = 1e-12

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns a × b.
func Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4]*b[c] + a[r*4+1]*b[4+c] + a[r*4+2]*b[8+c] + a[r*4+3]*b[12+c]
		}
	}
	return m
}

// MulAll returns ms[0] × ms[1] × ... × ms[n-1]. The last matrix is applied
// to a point first. MulAll() is the identity.
func MulAll(ms ...Mat4) Mat4 {
	m := Identity()
	for _, x := range ms {
		m = Mul(m, x)
	}
	return m
}

// Transpose returns the transpose of m.
func Transpose(m Mat4) Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// Translation returns a translation matrix.
func Translation(x, y, z float64) Mat4 {
	return Mat4{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	}
}

// Scaling returns a scale matrix.
func Scaling(x, y, z float64) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// RotationX returns a rotation about the x axis.
func RotationX(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	}
}

// RotationY returns a rotation about the y axis.
func RotationY(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return Mat4{
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotationZ returns a rotation about the z axis.
func RotationZ(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return Mat4{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotationXYZ returns Rz × Ry × Rx: x is applied first, z last.
func RotationXYZ(rx, ry, rz float64) Mat4 {
	sx, cx := math.Sincos(rx)
	sy, cy := math.Sincos(ry)
	sz, cz := math.Sincos(rz)
	return Mat4{
		cz * cy, cz*sy*sx - sz*cx, cz*sy*cx + sz*sx, 0,
		sz * cy, sz*sy*sx + cz*cx, sz*sy*cx - cz*sx, 0,
		-sy, cy * sx, cy * cx, 0,
		0, 0, 0, 1,
	}
}

// RotationAxis returns a rotation of angle radians about axis. The axis does
// not need to be normalized.
func RotationAxis(axis Point, angle float64) Mat4 {
	u := axis.Normalize()
	x, y, z := u.X, u.Y, u.Z
	s, c := math.Sincos(angle)
	c1 := 1 - c
	return Mat4{
		x*x*c1 + c, x*y*c1 - z*s, x*z*c1 + y*s, 0,
		x*y*c1 + z*s, y*y*c1 + c, y*z*c1 - x*s, 0,
		x*z*c1 - y*s, y*z*c1 + x*s, z*z*c1 + c, 0,
		0, 0, 0, 1,
	}
}

// LookAt returns the camera matrix for a camera at eye looking at target.
// It maps camera space (looking down -z) into world space; its inverse is
// the view matrix.
func LookAt(eye, target, up Point) Mat4 {
	zAxis := eye.Sub(target).Normalize()
	xAxis := up.Cross(zAxis).Normalize()
	yAxis := zAxis.Cross(xAxis).Normalize()
	return Mat4{
		xAxis.X, yAxis.X, zAxis.X, eye.X,
		xAxis.Y, yAxis.Y, zAxis.Y, eye.Y,
		xAxis.Z, yAxis.Z, zAxis.Z, eye.Z,
		0, 0, 0, 1,
	}
}

// Orthographic returns an orthographic projection of the given box.
func Orthographic(left, right, bottom, top, near, far float64) Mat4 {
	return Mat4{
		2 / (right - left), 0, 0, -(right + left) / (right - left),
		0, 2 / (top - bottom), 0, -(top + bottom) / (top - bottom),
		0, 0, -2 / (far - near), -(far + near) / (far - near),
		0, 0, 0, 1,
	}
}

// Perspective returns a perspective projection. fieldOfView is the vertical
// field of view in radians.
//
// The coefficients GLToFigure relies on are m[0] = f/aspect, m[5] = f,
// m[10] = (near+far)·r and m[11] = 2·near·far·r with r = 1/(near-far).
func Perspective(fieldOfView, aspect, near, far float64) Mat4 {
	f := math.Tan(math.Pi*0.5 - 0.5*fieldOfView)
	r := 1 / (near - far)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (near + far) * r, near * far * r * 2,
		0, 0, -1, 0,
	}
}

// TransformPoint applies m to p ignoring the homogeneous row. Use it for
// affine matrices.
func TransformPoint(m Mat4, p Point) Point {
	return Point{
		m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3],
		m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7],
		m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11],
	}
}

// TransformPointW applies m to (p, 1) and divides by the resulting w.
func TransformPointW(m Mat4, p Point) Point {
	w := m[12]*p.X + m[13]*p.Y + m[14]*p.Z + m[15]
	if w == 0 {
		w = SingularEpsilon
	}
	q := TransformPoint(m, p)
	return Point{q.X / w, q.Y / w, q.Z / w}
}

// IsAffine reports whether the last row of m is 0 0 0 1.
func IsAffine(m Mat4) bool {
	return m[12] == 0 && m[13] == 0 && m[14] == 0 && m[15] == 1
}

// Inverse returns the inverse of m. Affine matrices take a closed-form path;
// everything else uses Gauss-Jordan elimination with partial pivoting.
func Inverse(m Mat4) (Mat4, error) {
	if IsAffine(m) {
		return inverseAffine(m)
	}
	return inverseGaussJordan(m)
}

// inverseAffine inverts the 3x3 linear block with cofactors and maps the
// translation through it.
func inverseAffine(m Mat4) (Mat4, error) {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[4], m[5], m[6]
	g, h, i := m[8], m[9], m[10]

	c00 := e*i - f*h
	c01 := -(d*i - f*g)
	c02 := d*h - e*g
	det := a*c00 + b*c01 + c*c02
	if math.Abs(det) < SingularEpsilon {
		return Identity(), fmt.Errorf("inverse affine (det %g): %w", det, ErrSingularMatrix)
	}
	inv := 1 / det

	r00 := c00 * inv
	r01 := -(b*i - c*h) * inv
	r02 := (b*f - c*e) * inv
	r10 := c01 * inv
	r11 := (a*i - c*g) * inv
	r12 := -(a*f - c*d) * inv
	r20 := c02 * inv
	r21 := -(a*h - b*g) * inv
	r22 := (a*e - b*d) * inv

	tx, ty, tz := m[3], m[7], m[11]
	return Mat4{
		r00, r01, r02, -(r00*tx + r01*ty + r02*tz),
		r10, r11, r12, -(r10*tx + r11*ty + r12*tz),
		r20, r21, r22, -(r20*tx + r21*ty + r22*tz),
		0, 0, 0, 1,
	}, nil
}

func inverseGaussJordan(m Mat4) (Mat4, error) {
	var a [4][8]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			a[r][c] = m[r*4+c]
		}
		a[r][4+r] = 1
	}

	for col := 0; col < 4; col++ {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < SingularEpsilon {
			return Identity(), fmt.Errorf("inverse (column %d): %w", col, ErrSingularMatrix)
		}
		a[col], a[pivot] = a[pivot], a[col]

		p := a[col][col]
		for c := 0; c < 8; c++ {
			a[col][c] /= p
		}
		for r := 0; r < 4; r++ {
			if r == col {
				continue
			}
			k := a[r][col]
			if k == 0 {
				continue
			}
			for c := 0; c < 8; c++ {
				a[r][c] -= k * a[col][c]
			}
		}
	}

	var inv Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			inv[r*4+c] = a[r][4+c]
		}
	}
	return inv, nil
}

// RoundMat4 rounds every element of m to the given number of decimal places.
func RoundMat4(m Mat4, precision int) Mat4 {
	for i := range m {
		m[i] = roundTo(m[i], precision)
	}
	return m
}

// Mat4WithinDelta reports whether every element of a is within delta of b.
func Mat4WithinDelta(a, b Mat4, delta float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > delta {
			return false
		}
	}
	return true
}

// IsIdentity reports whether m is the identity within 1e-8.
func IsIdentity(m Mat4) bool {
	return Mat4WithinDelta(m, Identity(), 1e-8)
}
