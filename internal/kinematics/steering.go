package kinematics

import "github.com/Ni-zav/rigacar/pkg/math"

// SteeringParams are the steering smoothing constants. MaxAngle
// clamps the wheel turn, Blend in (0, 1] weights the current target
// against the previous frame's angle.
type SteeringParams struct {
	MaxAngle float64
	Blend    float64
}

// SteeringState carries the smoothed steering angle across frames.
type SteeringState struct {
	Angle       float64
	initialized bool
}

// SteeringTarget returns the raw steering angle implied by the frame
// displacement: the signed angle from the chassis forward axis to the
// motion direction. Zero when the vehicle barely moved. Reversing
// keeps the wheels pointed where the car is backing toward.
func SteeringTarget(disp, forward math.Vec2) float64 {
	if disp.LengthSq() < minDisplacement*minDisplacement {
		return 0
	}
	f := forward.Normalize()
	d := disp.Normalize()
	if d.Dot(f) < 0 {
		d = d.Scale(-1)
	}
	return f.SignedAngle(d)
}

// Update clamps the target and blends it exponentially with the
// previous angle to suppress frame-to-frame jitter. The first frame
// adopts the clamped target directly.
func (s *SteeringState) Update(target float64, p SteeringParams) float64 {
	clamped := math.Clamp(target, -p.MaxAngle, p.MaxAngle)
	if !s.initialized {
		s.Angle = clamped
		s.initialized = true
		return s.Angle
	}
	s.Angle = p.Blend*clamped + (1-p.Blend)*s.Angle
	return s.Angle
}

// DriftCounter returns the counter-rotation applied to the drift bone
// while skidding so the body heading does not double-count steering
// input. Zero while rolling.
func DriftCounter(steering float64, skidding bool) float64 {
	if !skidding {
		return 0
	}
	return -steering
}
