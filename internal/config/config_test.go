package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/songsen/servoM8/internal/registers"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Controller != "ipd" {
		t.Errorf("expected controller ipd, got %s", cfg.Controller)
	}
	if cfg.SampleRate != 100 {
		t.Errorf("expected 100 Hz, got %f", cfg.SampleRate)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Cycles != DefaultCycles || cfg.Profile != "futaba-s3003" || cfg.Start != DefaultStart {
		t.Errorf("config = %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := `
controller: regulator
cycles: 250
estimator: true
schedule:
  - cycle: 10
    position: 700
registers:
  velocity_gain: -100
  deadband: 4
plant:
  noise: 0.5
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Controller != "regulator" || cfg.Cycles != 250 || !cfg.Estimator {
		t.Errorf("config = %+v", cfg)
	}
	// untouched keys keep their defaults
	if cfg.Integrator != "rk4" || cfg.SampleRate != 100 {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if len(cfg.Schedule) != 1 || cfg.Schedule[0].Cycle != 10 || cfg.Schedule[0].Position != 700 {
		t.Errorf("schedule = %+v", cfg.Schedule)
	}
	if cfg.Registers["velocity_gain"] != -100 || cfg.Registers["deadband"] != 4 {
		t.Errorf("registers = %v", cfg.Registers)
	}

	params := cfg.PlantParams()
	if params.Noise != 0.5 {
		t.Errorf("noise = %v, want 0.5", params.Noise)
	}
	if params.NoLoadSpeed != Profiles["futaba-s3003"].Plant.NoLoadSpeed {
		t.Errorf("no-load speed = %v, want the profile's", params.NoLoadSpeed)
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("SERVOM8_CYCLES", "77")
	t.Setenv("SERVOM8_PROFILE", "hitec-hs-311")
	t.Setenv("SERVOM8_PLANT__FRICTION", "20")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Cycles != 77 {
		t.Errorf("cycles = %d, want 77", cfg.Cycles)
	}
	if cfg.Profile != "hitec-hs-311" {
		t.Errorf("profile = %s", cfg.Profile)
	}
	if cfg.PlantParams().Friction != 20 {
		t.Errorf("friction = %d, want 20", cfg.PlantParams().Friction)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("cycles: [1"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed yaml")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("profile: nope\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(invalid); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cycles", func(c *Config) { c.Cycles = 0 }},
		{"zero rate", func(c *Config) { c.SampleRate = 0 }},
		{"start out of range", func(c *Config) { c.Start = 1024 }},
		{"unknown profile", func(c *Config) { c.Profile = "nope" }},
		{"unknown register", func(c *Config) { c.Registers["nope"] = 1 }},
		{"word too large", func(c *Config) { c.Registers["position_gain"] = 0x10000 }},
		{"byte too large", func(c *Config) { c.Registers["deadband"] = 256 }},
		{"bad setpoint", func(c *Config) { c.Schedule = append(c.Schedule, setpoint(5, 2000)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestApplyRegisters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Registers["position_gain"] = 0x0321
	cfg.Registers["estimator_a"] = -1115
	cfg.Registers["reverse_seek"] = 1

	regs := registers.NewTable()
	cfg.ApplyRegisters(regs)

	if regs.Word(registers.PositionGain) != 0x0321 {
		t.Errorf("position gain = 0x%04X", regs.Word(registers.PositionGain))
	}
	if int16(regs.Word(registers.EstimatorA)) != -1115 {
		t.Errorf("estimator a = %d", int16(regs.Word(registers.EstimatorA)))
	}
	if regs.Byte(registers.RegReverseSeek) != 1 {
		t.Error("reverse seek not set")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := GetPreset("ipd", "sweep")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Profile != cfg.Profile || loaded.Cycles != cfg.Cycles || len(loaded.Schedule) != 3 {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLoopConfig(t *testing.T) {
	cfg := GetPreset("ipd", "step")
	lc := cfg.LoopConfig()
	if lc.Cycles != 400 || lc.SampleRate != 100 || len(lc.Schedule) != 1 {
		t.Errorf("loop config = %+v", lc)
	}
	lc.Schedule[0].Position = 1
	if cfg.Schedule[0].Position == 1 {
		t.Error("loop config shares the schedule")
	}
}
