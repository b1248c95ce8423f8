package math

import (
	m "math"
)

const (
	/** @brief An approximate representation of PI. */
	K_PI float64 = m.Pi
	/** @brief A multiplier used to convert degrees to radians. */
	K_DEG2RAD_MULTIPLIER float64 = K_PI / 180.0
	/** @brief Tolerance used for geometric comparisons and degenerate edge checks. */
	K_FLOAT_EPSILON float64 = 1e-9
)

func ksin(x float64) float64 {
	return m.Sin(x)
}

func kcos(x float64) float64 {
	return m.Cos(x)
}

func ktan(x float64) float64 {
	return m.Tan(x)
}

func ksqrt(x float64) float64 {
	return m.Sqrt(x)
}

func kabs(x float64) float64 {
	return m.Abs(x)
}

// Lerp linearly interpolates between a and b. Exact at t=0 and t=1.
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// ------------------------------------------
// Vector 2
// ------------------------------------------

/**
 * @brief Creates and returns a new 2-element vector using the supplied values.
 */
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

/**
 *  Adds other to v and returns a copy of the result.
 */
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

/**
 * Subtracts other from v and returns a copy of the result.
 */
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

func (v Vec2) MulScalar(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

func (v Vec2) Length() float64 {
	return ksqrt(v.X*v.X + v.Y*v.Y)
}

/**
 * @brief Compares all elements of v and other and ensures the difference is less than tolerance.
 */
func (v Vec2) Compare(other Vec2, tolerance float64) bool {
	return kabs(v.X-other.X) <= tolerance && kabs(v.Y-other.Y) <= tolerance
}

// Lerp interpolates every component of v towards other.
func (v Vec2) Lerp(other Vec2, t float64) Vec2 {
	return Vec2{Lerp(v.X, other.X, t), Lerp(v.Y, other.Y, t)}
}

// ------------------------------------------
// Vector 3
// ------------------------------------------

/**
 * @brief Creates and returns a new 3-element vector using the supplied values.
 */
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

/**
 * @brief Returns a new Vec4 using v as the x, y and z components and w for w.
 */
func (v Vec3) ToVec4(w float64) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

func NewVec3Zero() Vec3 {
	return Vec3{}
}

func NewVec3One() Vec3 {
	return Vec3{1.0, 1.0, 1.0}
}

func NewVec3Up() Vec3 {
	return Vec3{0.0, 1.0, 0.0}
}

func NewVec3Forward() Vec3 {
	return Vec3{0.0, 0.0, -1.0}
}

func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

func (v Vec3) Mul(other Vec3) Vec3 {
	return Vec3{v.X * other.X, v.Y * other.Y, v.Z * other.Z}
}

func (v Vec3) MulScalar(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Length() float64 {
	return ksqrt(v.LengthSquared())
}

/**
 * @brief Returns a normalized copy of the supplied vector. A zero vector is
 * returned unchanged.
 */
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l < K_FLOAT_EPSILON {
		return v
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

/**
 * @brief Returns the dot product between the provided vectors.
 */
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

/**
 * @brief Calculates and returns the cross product of the supplied vectors.
 * The cross product is a new vector which is orthoganal to both provided vectors.
 */
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

func (v Vec3) Compare(other Vec3, tolerance float64) bool {
	return kabs(v.X-other.X) <= tolerance &&
		kabs(v.Y-other.Y) <= tolerance &&
		kabs(v.Z-other.Z) <= tolerance
}

func (v Vec3) Lerp(other Vec3, t float64) Vec3 {
	return Vec3{Lerp(v.X, other.X, t), Lerp(v.Y, other.Y, t), Lerp(v.Z, other.Z, t)}
}

// ------------------------------------------
// Vector 4
// ------------------------------------------

func NewVec4(x, y, z, w float64) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

/**
 * @brief Returns a new Vec3 containing the x, y and z components of the
 * supplied Vec4, essentially dropping the w component.
 */
func (v Vec4) ToVec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

func NewVec4One() Vec4 {
	return Vec4{1.0, 1.0, 1.0, 1.0}
}

func (v Vec4) Add(other Vec4) Vec4 {
	return Vec4{v.X + other.X, v.Y + other.Y, v.Z + other.Z, v.W + other.W}
}

func (v Vec4) Sub(other Vec4) Vec4 {
	return Vec4{v.X - other.X, v.Y - other.Y, v.Z - other.Z, v.W - other.W}
}

func (v Vec4) Mul(other Vec4) Vec4 {
	return Vec4{v.X * other.X, v.Y * other.Y, v.Z * other.Z, v.W * other.W}
}

func (v Vec4) MulScalar(s float64) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

func (v Vec4) Compare(other Vec4, tolerance float64) bool {
	return kabs(v.X-other.X) <= tolerance &&
		kabs(v.Y-other.Y) <= tolerance &&
		kabs(v.Z-other.Z) <= tolerance &&
		kabs(v.W-other.W) <= tolerance
}

func (v Vec4) Lerp(other Vec4, t float64) Vec4 {
	return Vec4{Lerp(v.X, other.X, t), Lerp(v.Y, other.Y, t), Lerp(v.Z, other.Z, t), Lerp(v.W, other.W, t)}
}

// ------------------------------------------
// Mat4
// ------------------------------------------

/**
 * @brief Creates and returns an identity matrix:
 *
 * {
 *   {1, 0, 0, 0},
 *   {0, 1, 0, 0},
 *   {0, 0, 1, 0},
 *   {0, 0, 0, 1}
 * }
 */
func NewMat4Identity() Mat4 {
	out_matrix := Mat4{}
	out_matrix.Data[0] = 1.0
	out_matrix.Data[5] = 1.0
	out_matrix.Data[10] = 1.0
	out_matrix.Data[15] = 1.0
	return out_matrix
}

/**
 * @brief Returns the result of multiplying mt and other (mt·other). The
 * resulting matrix applies other first, then mt.
 */
func (mt Mat4) Mul(other Mat4) Mat4 {
	out_matrix := Mat4{}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sum := 0.0
			for i := 0; i < 4; i++ {
				sum += mt.Data[row*4+i] * other.Data[i*4+col]
			}
			out_matrix.Data[row*4+col] = sum
		}
	}
	return out_matrix
}

/**
 * @brief Transforms the column vector v by the matrix.
 */
func (mt Mat4) MulVec4(v Vec4) Vec4 {
	d := &mt.Data
	return Vec4{
		d[0]*v.X + d[1]*v.Y + d[2]*v.Z + d[3]*v.W,
		d[4]*v.X + d[5]*v.Y + d[6]*v.Z + d[7]*v.W,
		d[8]*v.X + d[9]*v.Y + d[10]*v.Z + d[11]*v.W,
		d[12]*v.X + d[13]*v.Y + d[14]*v.Z + d[15]*v.W,
	}
}

/**
 * @brief Transforms a direction by the upper 3x3 block of the matrix. The
 * translation column is ignored.
 */
func (mt Mat4) MulDirection(v Vec3) Vec3 {
	d := &mt.Data
	return Vec3{
		d[0]*v.X + d[1]*v.Y + d[2]*v.Z,
		d[4]*v.X + d[5]*v.Y + d[6]*v.Z,
		d[8]*v.X + d[9]*v.Y + d[10]*v.Z,
	}
}

/**
 * @brief Creates and returns an orthographic projection matrix mapping the
 * box into the canonical [-1,1] volume.
 */
func NewMat4Orthographic(left, right, bottom, top, near_clip, far_clip float64) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[0] = 2.0 / (right - left)
	out_matrix.Data[5] = 2.0 / (top - bottom)
	out_matrix.Data[10] = -2.0 / (far_clip - near_clip)
	out_matrix.Data[3] = -(right + left) / (right - left)
	out_matrix.Data[7] = -(top + bottom) / (top - bottom)
	out_matrix.Data[11] = -(far_clip + near_clip) / (far_clip - near_clip)
	return out_matrix
}

/**
 * @brief Creates and returns a perspective matrix. Camera space looks down -Z;
 * clip-space w is the positive view distance.
 *
 * @param fov_radians The vertical field of view in radians.
 * @param aspect_ratio The aspect ratio (width / height).
 * @param near_clip The near clipping plane distance.
 * @param far_clip The far clipping plane distance.
 */
func NewMat4Perspective(fov_radians, aspect_ratio, near_clip, far_clip float64) Mat4 {
	half_tan_fov := ktan(fov_radians * 0.5)
	out_matrix := Mat4{}
	out_matrix.Data[0] = 1.0 / (aspect_ratio * half_tan_fov)
	out_matrix.Data[5] = 1.0 / half_tan_fov
	out_matrix.Data[10] = -((far_clip + near_clip) / (far_clip - near_clip))
	out_matrix.Data[11] = -((2.0 * far_clip * near_clip) / (far_clip - near_clip))
	out_matrix.Data[14] = -1.0
	return out_matrix
}

/**
 * @brief Creates and returns a view matrix looking at target from position.
 */
func NewMat4LookAt(position, target, up Vec3) Mat4 {
	f := target.Sub(position).Normalized()
	s := f.Cross(up).Normalized()
	u := s.Cross(f)

	out_matrix := NewMat4Identity()
	out_matrix.Data[0] = s.X
	out_matrix.Data[1] = s.Y
	out_matrix.Data[2] = s.Z
	out_matrix.Data[3] = -s.Dot(position)
	out_matrix.Data[4] = u.X
	out_matrix.Data[5] = u.Y
	out_matrix.Data[6] = u.Z
	out_matrix.Data[7] = -u.Dot(position)
	out_matrix.Data[8] = -f.X
	out_matrix.Data[9] = -f.Y
	out_matrix.Data[10] = -f.Z
	out_matrix.Data[11] = f.Dot(position)
	return out_matrix
}

/**
 * @brief Returns a transposed copy of the provided matrix (rows->colums)
 */
func (mt Mat4) Transposed() Mat4 {
	out_matrix := Mat4{}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out_matrix.Data[col*4+row] = mt.Data[row*4+col]
		}
	}
	return out_matrix
}

/**
 * @brief Creates and returns an inverse of the provided matrix. A singular
 * matrix yields the identity.
 */
func (mt Mat4) Inverse() Mat4 {
	m := mt.Data

	t0 := m[10] * m[15]
	t1 := m[14] * m[11]
	t2 := m[6] * m[15]
	t3 := m[14] * m[7]
	t4 := m[6] * m[11]
	t5 := m[10] * m[7]
	t6 := m[2] * m[15]
	t7 := m[14] * m[3]
	t8 := m[2] * m[11]
	t9 := m[10] * m[3]
	t10 := m[2] * m[7]
	t11 := m[6] * m[3]
	t12 := m[8] * m[13]
	t13 := m[12] * m[9]
	t14 := m[4] * m[13]
	t15 := m[12] * m[5]
	t16 := m[4] * m[9]
	t17 := m[8] * m[5]
	t18 := m[0] * m[13]
	t19 := m[12] * m[1]
	t20 := m[0] * m[9]
	t21 := m[8] * m[1]
	t22 := m[0] * m[5]
	t23 := m[4] * m[1]

	out_matrix := Mat4{}
	o := &out_matrix.Data

	o[0] = (t0*m[5] + t3*m[9] + t4*m[13]) - (t1*m[5] + t2*m[9] + t5*m[13])
	o[1] = (t1*m[1] + t6*m[9] + t9*m[13]) - (t0*m[1] + t7*m[9] + t8*m[13])
	o[2] = (t2*m[1] + t7*m[5] + t10*m[13]) - (t3*m[1] + t6*m[5] + t11*m[13])
	o[3] = (t5*m[1] + t8*m[5] + t11*m[9]) - (t4*m[1] + t9*m[5] + t10*m[9])

	det := m[0]*o[0] + m[4]*o[1] + m[8]*o[2] + m[12]*o[3]
	if kabs(det) < K_FLOAT_EPSILON {
		return NewMat4Identity()
	}
	d := 1.0 / det

	o[0] = d * o[0]
	o[1] = d * o[1]
	o[2] = d * o[2]
	o[3] = d * o[3]
	o[4] = d * ((t1*m[4] + t2*m[8] + t5*m[12]) - (t0*m[4] + t3*m[8] + t4*m[12]))
	o[5] = d * ((t0*m[0] + t7*m[8] + t8*m[12]) - (t1*m[0] + t6*m[8] + t9*m[12]))
	o[6] = d * ((t3*m[0] + t6*m[4] + t11*m[12]) - (t2*m[0] + t7*m[4] + t10*m[12]))
	o[7] = d * ((t4*m[0] + t9*m[4] + t10*m[8]) - (t5*m[0] + t8*m[4] + t11*m[8]))
	o[8] = d * ((t12*m[7] + t15*m[11] + t16*m[15]) - (t13*m[7] + t14*m[11] + t17*m[15]))
	o[9] = d * ((t13*m[3] + t18*m[11] + t21*m[15]) - (t12*m[3] + t19*m[11] + t20*m[15]))
	o[10] = d * ((t14*m[3] + t19*m[7] + t22*m[15]) - (t15*m[3] + t18*m[7] + t23*m[15]))
	o[11] = d * ((t17*m[3] + t20*m[7] + t23*m[11]) - (t16*m[3] + t21*m[7] + t22*m[11]))
	o[12] = d * ((t14*m[10] + t17*m[14] + t13*m[6]) - (t16*m[14] + t12*m[6] + t15*m[10]))
	o[13] = d * ((t20*m[14] + t12*m[2] + t19*m[10]) - (t18*m[10] + t21*m[14] + t13*m[2]))
	o[14] = d * ((t18*m[6] + t23*m[14] + t15*m[2]) - (t22*m[14] + t14*m[2] + t19*m[6]))
	o[15] = d * ((t22*m[10] + t16*m[2] + t21*m[6]) - (t20*m[6] + t23*m[10] + t17*m[2]))

	return out_matrix
}

/**
 * @brief Creates and returns a translation matrix from the given position.
 */
func NewMat4Translation(position Vec3) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[3] = position.X
	out_matrix.Data[7] = position.Y
	out_matrix.Data[11] = position.Z
	return out_matrix
}

/**
 * @brief Returns a scale matrix using the provided scale.
 */
func NewMat4Scale(scale Vec3) Mat4 {
	out_matrix := NewMat4Identity()
	out_matrix.Data[0] = scale.X
	out_matrix.Data[5] = scale.Y
	out_matrix.Data[10] = scale.Z
	return out_matrix
}

func NewMat4EulerX(angle_radians float64) Mat4 {
	out_matrix := NewMat4Identity()
	c := kcos(angle_radians)
	s := ksin(angle_radians)
	out_matrix.Data[5] = c
	out_matrix.Data[6] = -s
	out_matrix.Data[9] = s
	out_matrix.Data[10] = c
	return out_matrix
}

func NewMat4EulerY(angle_radians float64) Mat4 {
	out_matrix := NewMat4Identity()
	c := kcos(angle_radians)
	s := ksin(angle_radians)
	out_matrix.Data[0] = c
	out_matrix.Data[2] = s
	out_matrix.Data[8] = -s
	out_matrix.Data[10] = c
	return out_matrix
}

func NewMat4EulerZ(angle_radians float64) Mat4 {
	out_matrix := NewMat4Identity()
	c := kcos(angle_radians)
	s := ksin(angle_radians)
	out_matrix.Data[0] = c
	out_matrix.Data[1] = -s
	out_matrix.Data[4] = s
	out_matrix.Data[5] = c
	return out_matrix
}

/**
 * @brief Rotation about X, then Y, then Z.
 */
func NewMat4EulerXYZ(x_radians, y_radians, z_radians float64) Mat4 {
	rx := NewMat4EulerX(x_radians)
	ry := NewMat4EulerY(y_radians)
	rz := NewMat4EulerZ(z_radians)
	return rz.Mul(ry.Mul(rx))
}

// ------------------------------------------
// Quaternion
// ------------------------------------------

func NewQuatIdentity() Quaternion {
	return Quaternion{0, 0, 0, 1.0}
}

func (q Quaternion) Normal() float64 {
	return ksqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

func (q Quaternion) Normalize() Quaternion {
	normal := q.Normal()
	if normal < K_FLOAT_EPSILON {
		return NewQuatIdentity()
	}
	return Quaternion{q.X / normal, q.Y / normal, q.Z / normal, q.W / normal}
}

func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		X: q.X*other.W + q.Y*other.Z - q.Z*other.Y + q.W*other.X,
		Y: -q.X*other.Z + q.Y*other.W + q.Z*other.X + q.W*other.Y,
		Z: q.X*other.Y - q.Y*other.X + q.Z*other.W + q.W*other.Z,
		W: -q.X*other.X - q.Y*other.Y - q.Z*other.Z + q.W*other.W,
	}
}

/**
 * @brief Creates a rotation matrix from the given quaternion.
 */
func (q Quaternion) ToMat4() Mat4 {
	out_matrix := NewMat4Identity()
	n := q.Normalize()

	out_matrix.Data[0] = 1.0 - 2.0*n.Y*n.Y - 2.0*n.Z*n.Z
	out_matrix.Data[1] = 2.0*n.X*n.Y - 2.0*n.Z*n.W
	out_matrix.Data[2] = 2.0*n.X*n.Z + 2.0*n.Y*n.W

	out_matrix.Data[4] = 2.0*n.X*n.Y + 2.0*n.Z*n.W
	out_matrix.Data[5] = 1.0 - 2.0*n.X*n.X - 2.0*n.Z*n.Z
	out_matrix.Data[6] = 2.0*n.Y*n.Z - 2.0*n.X*n.W

	out_matrix.Data[8] = 2.0*n.X*n.Z - 2.0*n.Y*n.W
	out_matrix.Data[9] = 2.0*n.Y*n.Z + 2.0*n.X*n.W
	out_matrix.Data[10] = 1.0 - 2.0*n.X*n.X - 2.0*n.Y*n.Y

	return out_matrix
}

/**
 * @brief Creates a quaternion from the given axis and angle.
 */
func NewQuatFromAxisAngle(axis Vec3, angle float64, normalize bool) Quaternion {
	half_angle := 0.5 * angle
	s := ksin(half_angle)
	c := kcos(half_angle)
	q := Quaternion{s * axis.X, s * axis.Y, s * axis.Z, c}
	if normalize {
		return q.Normalize()
	}
	return q
}

/**
 * @brief Converts provided degrees to radians.
 */
func DegToRad(degrees float64) float64 {
	return degrees * K_DEG2RAD_MULTIPLIER
}
