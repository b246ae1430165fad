package rig

import "github.com/Ni-zav/rigacar/pkg/math"

func vec3X(v float64) math.Vec3 { return math.Vec3{X: v} }
func vec3Z(v float64) math.Vec3 { return math.Vec3{Z: v} }

// Door and trunk bones are a one-shot limit-rotation rig: an animation
// handle hinged on the body, clamped so it only swings through its
// opening arc.

const (
	doorOpenAngle  = 1.2 // radians, hinge swing
	trunkOpenAngle = 1.4
)

func doorBones(index int) []Bone {
	var bones []Bone
	for _, side := range []Side{SideLeft, SideRight} {
		min, max := 0.0, doorOpenAngle
		if side == SideRight {
			min, max = -doorOpenAngle, 0
		}
		bones = append(bones, Bone{
			Name:   DoorName(AxleFront, side, index),
			Parent: "MCH_Body",
			Deform: true,
			Tags:   []string{TagAnimation, TagDeform},
			Constraints: []Constraint{{
				Kind: ConstraintLimitRotation,
				Name: "Hinge",
				Axes: AxisMask{Z: true},
				Min:  vec3Z(min),
				Max:  vec3Z(max),
			}},
		})
	}
	return bones
}

func trunkBones(index int) []Bone {
	return []Bone{{
		Name:   TrunkName(AxleBack, index),
		Parent: "MCH_Body",
		Deform: true,
		Tags:   []string{TagAnimation, TagDeform},
		Constraints: []Constraint{{
			Kind: ConstraintLimitRotation,
			Name: "Hinge",
			Axes: AxisMask{X: true},
			Min:  vec3X(-trunkOpenAngle),
			Max:  vec3X(0),
		}},
	}}
}
