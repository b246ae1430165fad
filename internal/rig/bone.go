// Package rig defines the vehicle skeleton: bones, constraints and the
// builder that positions them from detected wheel geometry.
package rig

import (
	"fmt"

	"github.com/Ni-zav/rigacar/pkg/math"
)

// Side marks which half of the vehicle a wheel belongs to.
type Side byte

const (
	SideLeft  Side = 'L'
	SideRight Side = 'R'
)

// Axle marks a wheel pair position along the vehicle length.
type Axle byte

const (
	AxleFront Axle = 'F'
	AxleBack  Axle = 'B'
)

// Layer tags group bones for display and selection. They carry no
// behavior.
const (
	TagAnimation  = "animation"
	TagMechanical = "mechanical"
	TagDeform     = "deform"
	TagSensor     = "sensor"
	TagShape      = "shape"
)

// Bone is a single skeleton bone. Parent is a name reference into the
// owning skeleton, empty for the root.
type Bone struct {
	Name        string
	Parent      string
	Head        math.Vec3
	Tail        math.Vec3
	Roll        float64
	Deform      bool
	Tags        []string
	Constraints []Constraint
}

// HasTag reports whether the bone carries the given layer tag.
func (b *Bone) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// WheelName returns the canonical name for an animation wheel bone,
// e.g. Wheel_FL_0.
func WheelName(axle Axle, side Side, index int) string {
	return fmt.Sprintf("Wheel_%c%c_%d", axle, side, index)
}

// WheelRotationName returns the mechanism bone that carries the baked
// spin for a wheel, e.g. MCH_WheelRotation_FL_0.
func WheelRotationName(axle Axle, side Side, index int) string {
	return fmt.Sprintf("MCH_WheelRotation_%c%c_%d", axle, side, index)
}

// BrakeName returns the brake caliper bone name for a wheel.
func BrakeName(axle Axle, side Side, index int) string {
	return fmt.Sprintf("Brake_%c%c_%d", axle, side, index)
}

// SensorName returns the per-wheel ground sensor bone name.
func SensorName(axle Axle, side Side, index int) string {
	return fmt.Sprintf("GroundSensor_%c%c_%d", axle, side, index)
}

// AxleSensorName returns the axle midpoint ground sensor bone name.
func AxleSensorName(axle Axle) string {
	return fmt.Sprintf("GroundSensor_Axle_%c", axle)
}

// AxisName returns the per-axle roll mechanism bone name.
func AxisName(axle Axle) string {
	return fmt.Sprintf("MCH_Axis_%c", axle)
}

// SuspensionName returns the per-axle suspension mechanism bone name.
func SuspensionName(axle Axle) string {
	return fmt.Sprintf("MCH_Suspension_%c", axle)
}

// DamperName returns the per-axle shock absorber bone name.
func DamperName(axle Axle) string {
	return fmt.Sprintf("Damper_%c", axle)
}

// DoorName returns a door bone name, e.g. Door_FL_0.
func DoorName(axle Axle, side Side, index int) string {
	return fmt.Sprintf("Door_%c%c_%d", axle, side, index)
}

// TrunkName returns a trunk bone name, e.g. Trunk_F_0.
func TrunkName(axle Axle, index int) string {
	return fmt.Sprintf("Trunk_%c_%d", axle, index)
}
