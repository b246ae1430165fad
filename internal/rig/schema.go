package rig

import (
	"github.com/Ni-zav/rigacar/internal/config"
	"github.com/Ni-zav/rigacar/pkg/math"
)

// Schema is the canonical bone list for a rig configuration, before
// any position is known. Constraint targets are already resolved by
// name; the builder fills in head/tail placement.
type Schema struct {
	Bones []Bone

	FrontPairs int
	BackPairs  int
	Drift      bool
}

// NewSchema derives the bone and constraint layout from a rig
// configuration. It is a pure function of the configuration and fails
// with a ConfigurationError for layouts that cannot form a vehicle.
func NewSchema(cfg config.RigConfig) (*Schema, error) {
	if cfg.FrontWheelPairs < 0 || cfg.BackWheelPairs < 0 {
		return nil, &ConfigurationError{Field: "wheel_pairs", Reason: "negative pair count"}
	}
	if cfg.FrontWheelPairs+cfg.BackWheelPairs == 0 {
		return nil, &ConfigurationError{Field: "wheel_pairs", Reason: "vehicle has no wheels"}
	}
	if cfg.FrontBrakePairs < 0 || cfg.FrontBrakePairs > cfg.FrontWheelPairs {
		return nil, &ConfigurationError{Field: "front_brake_pairs", Reason: "must be between 0 and front_wheel_pairs"}
	}
	if cfg.BackBrakePairs < 0 || cfg.BackBrakePairs > cfg.BackWheelPairs {
		return nil, &ConfigurationError{Field: "back_brake_pairs", Reason: "must be between 0 and back_wheel_pairs"}
	}
	if cfg.Doors < 0 || cfg.Trunks < 0 {
		return nil, &ConfigurationError{Field: "doors", Reason: "negative count"}
	}

	s := &Schema{
		FrontPairs: cfg.FrontWheelPairs,
		BackPairs:  cfg.BackWheelPairs,
		Drift:      cfg.Drift,
	}

	s.add(Bone{Name: "Root", Tags: []string{TagAnimation}})

	bodyParent := "Root"
	if cfg.Drift {
		s.add(Bone{
			Name:   "Drift",
			Parent: "Root",
			Tags:   []string{TagAnimation},
			// Counter rotation is baked directly into this bone's
			// channel, so the constraint carries no live target.
			Constraints: []Constraint{{
				Kind:      ConstraintDriftCounter,
				Name:      "Counter Steering",
				Axes:      AxisMask{Z: true},
				Influence: 1,
			}},
		})
		bodyParent = "Drift"
	}

	axles := []struct {
		axle   Axle
		pairs  int
		brakes int
	}{
		{AxleFront, cfg.FrontWheelPairs, cfg.FrontBrakePairs},
		{AxleBack, cfg.BackWheelPairs, cfg.BackBrakePairs},
	}

	for _, a := range axles {
		if a.pairs == 0 {
			continue
		}
		s.addAxle(a.axle, a.pairs, a.brakes, cfg.FrontWheelPairs > 0)
	}

	// Body mechanism averages the two axle suspensions and carries
	// roll from both axis bones.
	body := Bone{
		Name:   "MCH_Body",
		Parent: bodyParent,
		Tags:   []string{TagMechanical},
	}
	for _, a := range axles {
		if a.pairs == 0 {
			continue
		}
		body.Constraints = append(body.Constraints,
			Constraint{
				Kind:      ConstraintCopyLocation,
				Name:      "Suspension " + string(a.axle),
				Target:    SuspensionName(a.axle),
				Axes:      AxisMask{Z: true},
				Influence: 0.5,
				Offset:    true,
			},
			Constraint{
				Kind:      ConstraintCopyRotation,
				Name:      "Axis " + string(a.axle),
				Target:    AxisName(a.axle),
				Axes:      AxisMask{X: true, Y: true},
				Influence: 0.5,
			},
		)
	}
	s.add(body)
	s.add(Bone{Name: "Suspension", Parent: "MCH_Body", Tags: []string{TagAnimation}})

	if cfg.FrontWheelPairs > 0 {
		// The steering handle floats free so animators can detach it;
		// it follows the body through a child-of constraint instead of
		// a parent link.
		s.add(Bone{
			Name: "Steering",
			Tags: []string{TagAnimation},
			Constraints: []Constraint{{
				Kind:      ConstraintChildOf,
				Name:      "Follow Body",
				Target:    bodyParent,
				Axes:      AxisAll(),
				Influence: 1,
			}},
		})
		s.add(Bone{
			Name:   "MCH_Steering",
			Parent: "MCH_Body",
			Tags:   []string{TagMechanical},
			Constraints: []Constraint{
				{
					Kind:      ConstraintCopyRotation,
					Name:      "Steering Input",
					Target:    "Steering",
					Axes:      AxisMask{Z: true},
					Influence: 1,
				},
				{
					Kind: ConstraintLimitRotation,
					Name: "Steering Limit",
					Axes: AxisMask{Z: true},
				},
			},
		})
		s.add(Bone{
			Name:   "MCH_SteeringRotation",
			Parent: "MCH_Steering",
			Tags:   []string{TagMechanical},
			Constraints: []Constraint{{
				Kind:      ConstraintCopyRotation,
				Name:      "Follow Steering",
				Target:    "MCH_Steering",
				Axes:      AxisMask{Z: true},
				Influence: 1,
			}},
		})
	}

	for i := 0; i < cfg.Doors; i++ {
		s.Bones = append(s.Bones, doorBones(i)...)
	}
	for i := 0; i < cfg.Trunks; i++ {
		s.Bones = append(s.Bones, trunkBones(i)...)
	}

	return s, nil
}

func (s *Schema) add(b Bone) {
	s.Bones = append(s.Bones, b)
}

// addAxle emits the axle midpoint sensor, axis and suspension
// mechanisms, and the per-wheel bone chains for one axle group.
func (s *Schema) addAxle(axle Axle, pairs, brakes int, hasSteering bool) {
	s.add(Bone{
		Name:   AxleSensorName(axle),
		Parent: "Root",
		Tags:   []string{TagSensor},
		Constraints: []Constraint{{
			Kind: ConstraintGroundProjection,
			Name: "Ground Projection",
			Axes: AxisMask{Z: true},
		}},
	})
	s.add(Bone{
		Name:   AxisName(axle),
		Parent: "Root",
		Tags:   []string{TagMechanical},
		Constraints: []Constraint{
			{
				Kind:      ConstraintCopyLocation,
				Name:      "Follow Sensor",
				Target:    AxleSensorName(axle),
				Axes:      AxisMask{Z: true},
				Influence: 1,
			},
			{
				Kind:      ConstraintTrackTo,
				Name:      "Roll",
				Target:    SensorName(axle, SideRight, 0),
				Influence: 1,
				HeadTail:  0,
			},
			{
				Kind: ConstraintLimitRotation,
				Name: "Roll Limit",
				Axes: AxisMask{Y: true},
			},
		},
	})
	s.add(Bone{
		Name:   SuspensionName(axle),
		Parent: "Root",
		Tags:   []string{TagMechanical},
		Constraints: []Constraint{
			{
				Kind:      ConstraintCopyLocation,
				Name:      "Follow Sensor",
				Target:    AxleSensorName(axle),
				Axes:      AxisMask{Z: true},
				Influence: 1,
			},
			{
				Kind: ConstraintLimitLocation,
				Name: "Travel Limit",
				Axes: AxisMask{Z: true},
			},
		},
	})

	s.add(Bone{
		Name:   DamperName(axle),
		Parent: "Root",
		Deform: true,
		Tags:   []string{TagDeform},
		Constraints: []Constraint{{
			Kind:      ConstraintCopyTransform,
			Name:      "Follow Suspension",
			Target:    SuspensionName(axle),
			Influence: 1,
		}},
	})

	for i := 0; i < pairs; i++ {
		for _, side := range []Side{SideLeft, SideRight} {
			s.add(Bone{
				Name:   SensorName(axle, side, i),
				Parent: "Root",
				Tags:   []string{TagSensor},
				Constraints: []Constraint{
					{
						Kind: ConstraintGroundProjection,
						Name: "Ground Projection",
						Axes: AxisMask{Z: true},
					},
					{
						Kind:      ConstraintLimitDistance,
						Name:      "Axle Tether",
						Target:    AxleSensorName(axle),
						Influence: 1,
					},
				},
			})

			rot := Bone{
				Name:   WheelRotationName(axle, side, i),
				Parent: AxisName(axle),
				Tags:   []string{TagMechanical},
			}
			if axle == AxleFront && hasSteering {
				rot.Constraints = append(rot.Constraints, Constraint{
					Kind:      ConstraintCopyRotation,
					Name:      "Steer",
					Target:    "MCH_SteeringRotation",
					Axes:      AxisMask{Z: true},
					Influence: 1,
				})
			}
			s.add(rot)

			s.add(Bone{
				Name:   WheelName(axle, side, i),
				Parent: WheelRotationName(axle, side, i),
				Deform: true,
				Tags:   []string{TagAnimation, TagDeform},
			})

			if i < brakes {
				s.add(Bone{
					Name:   BrakeName(axle, side, i),
					Parent: AxisName(axle),
					Deform: true,
					Tags:   []string{TagDeform},
					// Scale Y is the brake input: 1 released, 0.5
					// fully locked.
					Constraints: []Constraint{
						{
							Kind:      ConstraintCopyRotation,
							Name:      "Drag",
							Target:    WheelRotationName(axle, side, i),
							Axes:      AxisMask{X: true},
							Influence: 0,
						},
						{
							Kind: ConstraintLimitScale,
							Name: "Brake Range",
							Axes: AxisMask{Y: true},
							Min:  math.Vec3{Y: 0.5},
							Max:  math.Vec3{Y: 1},
						},
					},
				})
			}
		}
	}
}
