package config

import (
	"testing"

	"github.com/songsen/servoM8/internal/servo"
)

func setpoint(cycle int, position int16) servo.Setpoint {
	return servo.Setpoint{Cycle: cycle, Position: position}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("ipd", "step")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Start != 400 || cfg.Schedule[0] != setpoint(50, 600) {
		t.Errorf("preset = %+v", cfg)
	}

	cfg.Schedule[0].Position = 1
	if Presets["ipd"]["step"].Schedule[0].Position != 600 {
		t.Error("GetPreset returned shared state")
	}
}

func TestGetPresetNotFound(t *testing.T) {
	if GetPreset("ipd", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "step") != nil {
		t.Error("expected nil for nonexistent controller")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("ipd")
	if len(presets) != len(Presets["ipd"]) {
		t.Errorf("expected %d presets, got %d", len(Presets["ipd"]), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent controller")
	}
}

func TestPresetsValid(t *testing.T) {
	for controller, presets := range Presets {
		for name := range presets {
			cfg := GetPreset(controller, name)
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", controller, name, err)
			}
			if cfg.Controller != controller {
				t.Errorf("%s/%s: controller %s", controller, name, cfg.Controller)
			}
		}
	}
}

func TestProfiles(t *testing.T) {
	names := ListProfiles()
	if len(names) != 4 {
		t.Fatalf("expected 4 profiles, got %v", names)
	}

	unknown, ok := GetProfile("unknown")
	if !ok {
		t.Fatal("unknown profile missing")
	}
	if unknown.PID.Position != 0 || unknown.PID.Deadband != 0 || unknown.PWMFreqDivider != 0x0010 {
		t.Errorf("unknown profile = %+v", unknown)
	}

	futaba, _ := GetProfile("futaba-s3003")
	if futaba.PID.Position != 0x0600 || futaba.PID.Velocity != 0x1800 || futaba.PID.Deadband != 1 {
		t.Errorf("futaba profile = %+v", futaba)
	}

	if _, ok := GetProfile("nope"); ok {
		t.Error("expected no profile")
	}
}
