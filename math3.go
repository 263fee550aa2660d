package motionpath

import "math"

// Vec2 is a 2D point or vector, used for viewport (screen) coordinates.
type Vec2 struct {
	X, Y float64
}

// Add returns a + b.
func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }

// Sub returns a - b.
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }

// Scale returns a scaled by s.
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }

// Dot returns the dot product of a and b.
func (a Vec2) Dot(b Vec2) float64 { return a.X*b.X + a.Y*b.Y }

// Length returns the euclidean length of a.
func (a Vec2) Length() float64 { return math.Hypot(a.X, a.Y) }

// LengthSq returns the squared length of a.
func (a Vec2) LengthSq() float64 { return a.X*a.X + a.Y*a.Y }

// Normalized returns a scaled to unit length. The zero vector is
// returned unchanged.
func (a Vec2) Normalized() Vec2 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return Vec2{a.X / l, a.Y / l}
}

// Lerp returns the linear interpolation between a and b at parameter t.
func (a Vec2) Lerp(b Vec2, t float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Vec3 is a 3D point or vector.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns a + b.
func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

// Sub returns a - b.
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// Scale returns a scaled by s.
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

// Neg returns -a.
func (a Vec3) Neg() Vec3 { return Vec3{-a.X, -a.Y, -a.Z} }

// Dot returns the dot product of a and b.
func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Cross returns the cross product of a and b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Length returns the euclidean length of a.
func (a Vec3) Length() float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
}

// LengthSq returns the squared length of a.
func (a Vec3) LengthSq() float64 { return a.X*a.X + a.Y*a.Y + a.Z*a.Z }

// Normalized returns a scaled to unit length. The zero vector is
// returned unchanged.
func (a Vec3) Normalized() Vec3 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return Vec3{a.X / l, a.Y / l, a.Z / l}
}

// Mat4 is a 4x4 transform matrix in row-vector convention: points
// transform as p' = p * M, with the translation in row 3. This matches
// the convention animation packages use for world and camera matrices,
// so matrices received through [SceneAccessor] can be stored untouched.
type Mat4 [4][4]float64

// Mat4Identity returns the identity matrix.
func Mat4Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// TranslationMat4 returns a matrix that translates by v.
func TranslationMat4(v Vec3) Mat4 {
	m := Mat4Identity()
	m[3][0] = v.X
	m[3][1] = v.Y
	m[3][2] = v.Z
	return m
}

// Mul returns the matrix product a * b. Under the row-vector
// convention a is applied first: p * (a*b) == (p*a) * b.
func (a Mat4) Mul(b Mat4) Mat4 {
	var out Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j] + a[i][2]*b[2][j] + a[i][3]*b[3][j]
		}
	}
	return out
}

// MulPoint transforms p as a point (implicit w = 1).
func (m Mat4) MulPoint(p Vec3) Vec3 {
	return Vec3{
		p.X*m[0][0] + p.Y*m[1][0] + p.Z*m[2][0] + m[3][0],
		p.X*m[0][1] + p.Y*m[1][1] + p.Z*m[2][1] + m[3][1],
		p.X*m[0][2] + p.Y*m[1][2] + p.Z*m[2][2] + m[3][2],
	}
}

// MulVector transforms v as a direction (implicit w = 0), ignoring the
// translation row.
func (m Mat4) MulVector(v Vec3) Vec3 {
	return Vec3{
		v.X*m[0][0] + v.Y*m[1][0] + v.Z*m[2][0],
		v.X*m[0][1] + v.Y*m[1][1] + v.Z*m[2][1],
		v.X*m[0][2] + v.Y*m[1][2] + v.Z*m[2][2],
	}
}

// Translation returns the translation row of m.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[3][0], m[3][1], m[3][2]}
}

// Inverse computes the inverse of an affine transform matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func (m Mat4) Inverse() Mat4 {
	det := m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
	if det > -1e-12 && det < 1e-12 {
		return Mat4Identity()
	}
	invDet := 1.0 / det

	var inv Mat4
	inv[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) * invDet
	inv[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * invDet
	inv[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * invDet
	inv[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) * invDet
	inv[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * invDet
	inv[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * invDet
	inv[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) * invDet
	inv[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * invDet
	inv[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * invDet

	t := m.Translation()
	inv[3][0] = -(t.X*inv[0][0] + t.Y*inv[1][0] + t.Z*inv[2][0])
	inv[3][1] = -(t.X*inv[0][1] + t.Y*inv[1][1] + t.Z*inv[2][1])
	inv[3][2] = -(t.X*inv[0][2] + t.Y*inv[1][2] + t.Z*inv[2][2])
	inv[3][3] = 1
	return inv
}

// Quat is a rotation quaternion.
type Quat struct {
	W, X, Y, Z float64
}

// RotationBetween returns the shortest-arc rotation carrying direction
// from onto direction to. Both inputs are normalized internally.
// Antiparallel inputs rotate half a turn around an arbitrary
// perpendicular axis.
func RotationBetween(from, to Vec3) Quat {
	f := from.Normalized()
	t := to.Normalized()

	d := f.Dot(t)
	if d < -1+1e-9 {
		axis := Vec3{1, 0, 0}.Cross(f)
		if axis.LengthSq() < 1e-12 {
			axis = Vec3{0, 1, 0}.Cross(f)
		}
		axis = axis.Normalized()
		return Quat{W: 0, X: axis.X, Y: axis.Y, Z: axis.Z}
	}

	c := f.Cross(t)
	q := Quat{W: 1 + d, X: c.X, Y: c.Y, Z: c.Z}
	return q.normalized()
}

func (q Quat) normalized() Quat {
	l := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if l == 0 {
		return Quat{W: 1}
	}
	return Quat{q.W / l, q.X / l, q.Y / l, q.Z / l}
}

// Rotate applies the rotation q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	uv := u.Cross(v)
	uuv := u.Cross(uv)
	return v.Add(uv.Scale(2 * q.W)).Add(uuv.Scale(2))
}
