package math

import gomath "math"

// Quat represents a rotation quaternion. Components are stored as
// X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float64
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	half := angle / 2
	s := gomath.Sin(half)
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: gomath.Cos(half),
	}
}

// QuatFromEuler creates a quaternion from yaw (Z), pitch (X) and
// roll (Y) angles in radians, applied in Z-X-Y order.
func QuatFromEuler(yaw, pitch, roll float64) Quat {
	qz := QuatFromAxisAngle(Vec3{Z: 1}, yaw)
	qx := QuatFromAxisAngle(Vec3{X: 1}, pitch)
	qy := QuatFromAxisAngle(Vec3{Y: 1}, roll)
	return qz.Mul(qx).Mul(qy)
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	l := gomath.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l < 1e-9 {
		return QuatIdentity()
	}
	inv := 1.0 / l
	return Quat{q.X * inv, q.Y * inv, q.Z * inv, q.W * inv}
}

// Mul multiplies two quaternions (combines rotations).
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Conjugate returns the inverse rotation for a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Rotate applies the rotation to a vector.
func (q Quat) Rotate(v Vec3) Vec3 {
	// q * (v, 0) * q^-1, expanded.
	u := Vec3{q.X, q.Y, q.Z}
	uv := u.Cross(v)
	uuv := u.Cross(uv)
	return v.Add(uv.Scale(2 * q.W)).Add(uuv.Scale(2))
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float64 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// Slerp performs spherical linear interpolation between two rotations.
// t should be in range [0, 1].
func (q Quat) Slerp(other Quat, t float64) Quat {
	dot := q.Dot(other)
	if dot < 0 {
		other = Quat{-other.X, -other.Y, -other.Z, -other.W}
		dot = -dot
	}
	if dot > 0.9995 {
		return Quat{
			q.X + t*(other.X-q.X),
			q.Y + t*(other.Y-q.Y),
			q.Z + t*(other.Z-q.Z),
			q.W + t*(other.W-q.W),
		}.Normalize()
	}
	theta0 := gomath.Acos(dot)
	theta := theta0 * t
	sinTheta := gomath.Sin(theta)
	sinTheta0 := gomath.Sin(theta0)
	s0 := gomath.Cos(theta) - dot*sinTheta/sinTheta0
	s1 := sinTheta / sinTheta0
	return Quat{
		q.X*s0 + other.X*s1,
		q.Y*s0 + other.Y*s1,
		q.Z*s0 + other.Z*s1,
		q.W*s0 + other.W*s1,
	}
}

// Yaw returns the rotation angle around the world Z axis.
func (q Quat) Yaw() float64 {
	// Project the rotated -Y (vehicle forward) axis onto the ground plane.
	f := q.Rotate(Vec3{Y: -1})
	return gomath.Atan2(f.X, -f.Y)
}
