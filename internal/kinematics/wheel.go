package kinematics

import (
	gomath "math"

	"github.com/Ni-zav/rigacar/pkg/math"
)

// Displacements shorter than this carry no usable direction; slip
// state is left unchanged for such frames.
const minDisplacement = 1e-6

// WheelParams are the per-wheel constants for spin integration.
// Angles in radians, SkidSlip in [0, 1] where 0 locks the wheel while
// skidding and 1 rolls freely.
type WheelParams struct {
	Radius         float64
	SkidAngle      float64
	SkidHysteresis float64
	SkidSlip       float64
}

// WheelState is the carried state of one wheel during a bake run.
// Spin accumulates across frames, so advancing frames out of order
// produces wrong results.
type WheelState struct {
	Spin     float64
	Skidding bool
}

// SlipAngle returns the unsigned angle between the frame displacement
// and the wheel's forward axis, or -1 when the displacement is too
// short to define a direction.
func SlipAngle(disp, forward math.Vec2) float64 {
	if disp.LengthSq() < minDisplacement*minDisplacement {
		return -1
	}
	d := disp.Normalize()
	f := forward.Normalize()
	return gomath.Acos(math.Clamp(gomath.Abs(d.Dot(f)), 0, 1))
}

// NextSkid steps the Rolling/Skidding state machine. Entry happens
// above skidAngle, exit only below skidAngle-hysteresis so the state
// does not flicker at the boundary. A negative slip means the frame
// carried no direction and the state is held.
func NextSkid(skidding bool, slip, skidAngle, hysteresis float64) bool {
	if slip < 0 {
		return skidding
	}
	if skidding {
		return slip >= skidAngle-hysteresis
	}
	return slip > skidAngle
}

// Advance integrates one frame of wheel spin. disp is the root's
// world-space displacement since the previous frame, forward the
// wheel's current forward axis, brake the brake control's Y scale in
// [0.5, 1] where 1 means no braking. Returns the spin increment.
func (s *WheelState) Advance(disp, forward math.Vec2, brake float64, p WheelParams) float64 {
	slip := SlipAngle(disp, forward)
	s.Skidding = NextSkid(s.Skidding, slip, p.SkidAngle, p.SkidHysteresis)

	inc := disp.Dot(forward.Normalize()) / p.Radius
	if s.Skidding {
		inc *= p.SkidSlip
	}

	// A fully pulled brake control scales to 0.5 and stops the wheel.
	damping := math.Clamp(2*brake-1, 0, 1)
	inc *= damping

	s.Spin += inc
	return inc
}
