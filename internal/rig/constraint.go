package rig

import "github.com/Ni-zav/rigacar/pkg/math"

// ConstraintKind selects which constraint variant a Constraint holds.
type ConstraintKind int

const (
	ConstraintCopyTransform ConstraintKind = iota
	ConstraintCopyLocation
	ConstraintCopyRotation
	ConstraintTrackTo
	ConstraintLimitRotation
	ConstraintLimitLocation
	ConstraintLimitScale
	ConstraintGroundProjection
	ConstraintLimitDistance
	ConstraintDriftCounter
	ConstraintChildOf
)

var constraintKindNames = map[ConstraintKind]string{
	ConstraintCopyTransform:    "copy_transform",
	ConstraintCopyLocation:     "copy_location",
	ConstraintCopyRotation:     "copy_rotation",
	ConstraintTrackTo:          "track_to",
	ConstraintLimitRotation:    "limit_rotation",
	ConstraintLimitLocation:    "limit_location",
	ConstraintLimitScale:       "limit_scale",
	ConstraintGroundProjection: "ground_projection",
	ConstraintLimitDistance:    "limit_distance",
	ConstraintDriftCounter:     "drift_counter",
	ConstraintChildOf:          "child_of",
}

func (k ConstraintKind) String() string {
	if s, ok := constraintKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// AxisMask enables per-axis behavior on a constraint.
type AxisMask struct {
	X, Y, Z bool
}

// AxisAll enables every axis.
func AxisAll() AxisMask { return AxisMask{true, true, true} }

// Constraint is one tagged constraint variant attached to a bone.
// Target is a bone name resolved within the same skeleton; limit
// variants leave it empty. Min and Max bound the affected axes for
// limit variants, HeadTail selects the point along the target bone
// tracked by track-to.
type Constraint struct {
	Kind      ConstraintKind
	Name      string
	Target    string
	Axes      AxisMask
	Min       math.Vec3
	Max       math.Vec3
	Influence float64
	Offset    bool
	HeadTail  float64
}
