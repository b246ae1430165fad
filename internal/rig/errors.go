package rig

import "fmt"

// ConfigurationError reports an invalid rig configuration. Nothing is
// built when it is returned.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid rig configuration: %s: %s", e.Field, e.Reason)
}

// WheelDetectionError reports that too few wheels were found to build
// a skeleton.
type WheelDetectionError struct {
	Found int
}

func (e *WheelDetectionError) Error() string {
	return fmt.Sprintf("wheel detection failed: found %d wheels, need at least 2", e.Found)
}

// AmbiguousAxleError reports wheel centers that cannot be grouped into
// left/right pairs.
type AmbiguousAxleError struct {
	Left   int
	Right  int
	Reason string
}

func (e *AmbiguousAxleError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot pair wheels into axles: %s (%d left, %d right)", e.Reason, e.Left, e.Right)
	}
	return fmt.Sprintf("cannot pair wheels into axles: %d left, %d right", e.Left, e.Right)
}

// InvalidWheelGeometryError reports a degenerate wheel radius. Raised
// once at bake start, never per frame.
type InvalidWheelGeometryError struct {
	Wheel  string
	Radius float64
}

func (e *InvalidWheelGeometryError) Error() string {
	return fmt.Sprintf("wheel %s has invalid radius %g", e.Wheel, e.Radius)
}

// ConstraintCycleError reports a cycle in the constraint target graph.
type ConstraintCycleError struct {
	Bones []string
}

func (e *ConstraintCycleError) Error() string {
	return fmt.Sprintf("constraint targets form a cycle involving %v", e.Bones)
}
