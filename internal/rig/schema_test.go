package rig

import (
	"errors"
	"testing"

	"github.com/Ni-zav/rigacar/internal/config"
)

func TestNewSchemaDefault(t *testing.T) {
	s, err := NewSchema(config.Default().Rig)
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}

	want := []string{
		"Root", "Drift", "MCH_Body", "Suspension",
		"Steering", "MCH_Steering", "MCH_SteeringRotation",
		"GroundSensor_Axle_F", "GroundSensor_Axle_B",
		"MCH_Axis_F", "MCH_Axis_B",
		"Wheel_FL_0", "Wheel_FR_0", "Wheel_BL_0", "Wheel_BR_0",
		"MCH_WheelRotation_FL_0", "GroundSensor_BR_0",
		"Damper_F", "Damper_B",
	}
	names := make(map[string]bool)
	for _, b := range s.Bones {
		names[b.Name] = true
	}
	for _, n := range want {
		if !names[n] {
			t.Errorf("schema missing bone %s", n)
		}
	}
}

func TestNewSchemaNoWheels(t *testing.T) {
	cfg := config.Default().Rig
	cfg.FrontWheelPairs = 0
	cfg.BackWheelPairs = 0
	_, err := NewSchema(cfg)
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("NewSchema() error = %v, want ConfigurationError", err)
	}
}

func TestNewSchemaBrakeBounds(t *testing.T) {
	cfg := config.Default().Rig
	cfg.FrontBrakePairs = 2
	if _, err := NewSchema(cfg); err == nil {
		t.Error("brake pairs beyond wheel pairs should fail")
	}
}

func TestNewSchemaNoDrift(t *testing.T) {
	cfg := config.Default().Rig
	cfg.Drift = false
	s, err := NewSchema(cfg)
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
	for _, b := range s.Bones {
		if b.Name == "Drift" {
			t.Error("schema should not contain Drift bone")
		}
		if b.Name == "MCH_Body" && b.Parent != "Root" {
			t.Errorf("MCH_Body parent = %s, want Root", b.Parent)
		}
	}
}

func TestNewSchemaDoorsAndTrunks(t *testing.T) {
	cfg := config.Default().Rig
	cfg.Doors = 2
	cfg.Trunks = 1
	s, err := NewSchema(cfg)
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
	names := make(map[string]bool)
	for _, b := range s.Bones {
		names[b.Name] = true
	}
	for _, n := range []string{"Door_FL_0", "Door_FR_0", "Door_FL_1", "Door_FR_1", "Trunk_B_0"} {
		if !names[n] {
			t.Errorf("schema missing bone %s", n)
		}
	}
}

func TestSchemaTags(t *testing.T) {
	s, err := NewSchema(config.Default().Rig)
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
	cases := []struct {
		bone string
		tag  string
		want bool
	}{
		{"Root", TagAnimation, true},
		{"Wheel_FL_0", TagAnimation, true},
		{"Wheel_FL_0", TagDeform, true},
		{"MCH_WheelRotation_FL_0", TagMechanical, true},
		{"MCH_WheelRotation_FL_0", TagAnimation, false},
		{"GroundSensor_Axle_F", TagSensor, true},
	}
	for _, tc := range cases {
		b := findBone(t, s, tc.bone)
		if got := b.HasTag(tc.tag); got != tc.want {
			t.Errorf("%s HasTag(%s) = %v, want %v", tc.bone, tc.tag, got, tc.want)
		}
	}
}

func findBone(t *testing.T, s *Schema, name string) *Bone {
	t.Helper()
	for i := range s.Bones {
		if s.Bones[i].Name == name {
			return &s.Bones[i]
		}
	}
	t.Fatalf("schema missing bone %s", name)
	return nil
}

func TestSchemaIsPure(t *testing.T) {
	cfg := config.Default().Rig
	a, err := NewSchema(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSchema(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Bones) != len(b.Bones) {
		t.Fatalf("bone counts differ: %d vs %d", len(a.Bones), len(b.Bones))
	}
	for i := range a.Bones {
		if a.Bones[i].Name != b.Bones[i].Name {
			t.Errorf("bone %d differs: %s vs %s", i, a.Bones[i].Name, b.Bones[i].Name)
		}
	}
}
