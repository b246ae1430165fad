package bake

import (
	"github.com/Ni-zav/rigacar/internal/kinematics"
	"github.com/Ni-zav/rigacar/pkg/math"
)

// state is the carried BakeState of one run: everything frame N needs
// from frame N-1. One run owns one state; runs never share it.
type state struct {
	prevPos math.Vec3
	hasPrev bool

	wheels   map[string]*kinematics.WheelState
	steering kinematics.SteeringState

	// Body-level skid drives the drift counter rotation.
	bodySkid bool
}

func newState() *state {
	return &state{wheels: make(map[string]*kinematics.WheelState)}
}

// wheel returns the carried state for a wheel rotation bone.
func (s *state) wheel(name string) *kinematics.WheelState {
	w, ok := s.wheels[name]
	if !ok {
		w = &kinematics.WheelState{}
		s.wheels[name] = w
	}
	return w
}

// displacement returns the root displacement since the previous frame
// and advances the carried position. The first frame of a run has no
// displacement.
func (s *state) displacement(pos math.Vec3) math.Vec2 {
	var disp math.Vec2
	if s.hasPrev {
		disp = pos.Sub(s.prevPos).XY()
	}
	s.prevPos = pos
	s.hasPrev = true
	return disp
}
