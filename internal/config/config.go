// Package config manages application configuration with YAML persistence.
package config

// Config is the root configuration structure.
type Config struct {
	Rig     RigConfig     `yaml:"rig"`
	Bake    BakeConfig    `yaml:"bake"`
	Logging LoggingConfig `yaml:"logging"`
}

// RigConfig describes the rig layout to generate.
type RigConfig struct {
	// Wheel pair counts per axle group. One pair is a left/right wheel
	// at the same position along the vehicle.
	FrontWheelPairs int `yaml:"front_wheel_pairs"`
	BackWheelPairs  int `yaml:"back_wheel_pairs"`

	// Brake caliper pairs, at most one per wheel pair.
	FrontBrakePairs int `yaml:"front_brake_pairs"`
	BackBrakePairs  int `yaml:"back_brake_pairs"`

	Drift  bool `yaml:"drift"`
	Doors  int  `yaml:"doors"`
	Trunks int  `yaml:"trunks"`
}

// BakeConfig holds tunable parameters for the baking pass.
// Angles are in radians, distances in scene units.
type BakeConfig struct {
	MaxSteeringAngle float64 `yaml:"max_steering_angle"`
	SteeringBlend    float64 `yaml:"steering_blend"`

	SkidAngle      float64 `yaml:"skid_angle"`
	SkidHysteresis float64 `yaml:"skid_hysteresis"`
	SkidSlip       float64 `yaml:"skid_slip"`

	SuspensionTravel float64 `yaml:"suspension_travel"`
	PitchFactor      float64 `yaml:"pitch_factor"`
	RollFactor       float64 `yaml:"roll_factor"`

	DriftAfterSmoothing bool `yaml:"drift_after_smoothing"`

	KeyframeTolerance float64 `yaml:"keyframe_tolerance"`

	ProbeDistance float64 `yaml:"probe_distance"`
	MissWarnLimit int     `yaml:"miss_warn_limit"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Rig: RigConfig{
			FrontWheelPairs: 1,
			BackWheelPairs:  1,
			FrontBrakePairs: 0,
			BackBrakePairs:  0,
			Drift:           true,
			Doors:           0,
			Trunks:          0,
		},
		Bake: BakeConfig{
			MaxSteeringAngle:    0.6109,
			SteeringBlend:       0.25,
			SkidAngle:           0.2618,
			SkidHysteresis:      0.0873,
			SkidSlip:            0.3,
			SuspensionTravel:    0.2,
			PitchFactor:         0.5,
			RollFactor:          0.5,
			DriftAfterSmoothing: true,
			KeyframeTolerance:   0,
			ProbeDistance:       2,
			MissWarnLimit:       10,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}
