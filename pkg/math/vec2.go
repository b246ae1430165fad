package math

import gomath "math"

// Vec2 is a 2D vector, used for ground-plane projections.
type Vec2 struct {
	X, Y float64
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the scalar (Z) cross product.
func (v Vec2) Cross(other Vec2) float64 {
	return v.X*other.Y - v.Y*other.X
}

// Length returns the magnitude.
func (v Vec2) Length() float64 {
	return gomath.Sqrt(v.X*v.X + v.Y*v.Y)
}

// LengthSq returns the squared magnitude.
func (v Vec2) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns a unit vector. The zero vector normalizes to zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// SignedAngle returns the signed angle in radians from v to other,
// positive counter-clockwise, in (-pi, pi].
func (v Vec2) SignedAngle(other Vec2) float64 {
	return gomath.Atan2(v.Cross(other), v.Dot(other))
}
