// Package kinematics holds the per-frame math that turns root motion
// and ground contacts into bone-local angles and offsets.
package kinematics

import (
	gomath "math"

	"github.com/Ni-zav/rigacar/pkg/math"
)

// AxleRoll returns the axle roll angle for a pair of contact heights.
// Zero when both sides touch at the same height, positive when the
// right side is higher.
func AxleRoll(heightLeft, heightRight, trackWidth float64) float64 {
	if trackWidth <= 0 {
		return 0
	}
	return gomath.Atan2(heightRight-heightLeft, trackWidth)
}

// BodyPitch returns the body pitch angle from the front and back axle
// contact heights. Positive when the front sits higher.
func BodyPitch(frontHeight, backHeight, wheelbase float64) float64 {
	if wheelbase <= 0 {
		return 0
	}
	return gomath.Atan2(frontHeight-backHeight, wheelbase)
}

// Compression returns the suspension compression for one wheel and
// whether the raw value fell outside [0, maxTravel]. A negative raw
// value means the wheel penetrated the ground; it is clamped to zero
// and only reported, never fatal.
func Compression(restClearance, hitHeight, maxTravel float64) (float64, bool) {
	raw := restClearance - hitHeight
	clamped := math.Clamp(raw, 0, maxTravel)
	return clamped, raw != clamped
}

// BodyLift blends the two axle corrections into one vertical offset
// for the body bone.
func BodyLift(frontCorrection, backCorrection, frontFactor, backFactor float64) float64 {
	return frontCorrection*frontFactor + backCorrection*backFactor
}
