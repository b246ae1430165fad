// Package math provides vector and rotation math for rig construction
// and kinematic baking. All types use float64: baked channels accumulate
// values over thousands of frames and must not drift.
package math

import gomath "math"

// Vec3 is a 3D vector. The rig convention is Z up, X lateral
// (left positive) and the vehicle front toward -Y at rest.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float64 {
	return gomath.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthSq returns the squared magnitude.
func (v Vec3) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns a unit vector. The zero vector normalizes to zero.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float64 {
	return v.Sub(other).Length()
}

// Lerp linearly interpolates toward other by t.
func (v Vec3) Lerp(other Vec3, t float64) Vec3 {
	return Vec3{
		v.X + t*(other.X-v.X),
		v.Y + t*(other.Y-v.Y),
		v.Z + t*(other.Z-v.Z),
	}
}

// XY returns the ground-plane components as Vec2.
func (v Vec3) XY() Vec2 {
	return Vec2{v.X, v.Y}
}
