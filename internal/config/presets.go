package config

import (
	"sort"

	"github.com/songsen/servoM8/internal/plant"
	"github.com/songsen/servoM8/internal/servo"
)

// Presets are ready-made runs keyed by controller and preset name.
var Presets = map[string]map[string]*Config{
	"ipd": {
		"hold": {
			Controller: "ipd", Profile: "futaba-s3003", Integrator: "rk4",
			Cycles: 300, SampleRate: 100, Start: 512,
		},
		"step": {
			Controller: "ipd", Profile: "futaba-s3003", Integrator: "rk4",
			Cycles: 400, SampleRate: 100, Start: 400,
			Schedule: []servo.Setpoint{{Cycle: 50, Position: 600}},
		},
		"sweep": {
			Controller: "ipd", Profile: "hitec-hs-311", Integrator: "rk4",
			Cycles: 1200, SampleRate: 100, Start: 200,
			Schedule: []servo.Setpoint{
				{Cycle: 100, Position: 800},
				{Cycle: 400, Position: 200},
				{Cycle: 700, Position: 512},
			},
		},
		"reverse": {
			Controller: "ipd", Profile: "futaba-s3003", Integrator: "rk4",
			Cycles: 400, SampleRate: 100, Start: 512, Reverse: true,
			Schedule: []servo.Setpoint{{Cycle: 50, Position: 300}},
		},
		"noisy": {
			Controller: "ipd", Profile: "hitec-hs-475hb", Integrator: "rk4",
			Cycles: 600, SampleRate: 100, Start: 500,
			Schedule: []servo.Setpoint{{Cycle: 100, Position: 700}},
			Plant:    plant.Params{Noise: 1.5},
		},
	},
	"pid": {
		"step": {
			Controller: "pid", Profile: "futaba-s3003", Integrator: "rk4",
			Cycles: 400, SampleRate: 100, Start: 400,
			Schedule: []servo.Setpoint{{Cycle: 50, Position: 600}},
		},
		"slow": {
			Controller: "pid", Profile: "hitec-hs-475hb", Integrator: "euler",
			Cycles: 400, SampleRate: 100, Start: 300,
			Schedule: []servo.Setpoint{{Cycle: 50, Position: 700}},
		},
	},
	"regulator": {
		"step": {
			Controller: "regulator", Profile: "futaba-s3003", Integrator: "rk4",
			Cycles: 400, SampleRate: 100, Start: 400, Estimator: true,
			Schedule: []servo.Setpoint{{Cycle: 50, Position: 600}},
		},
	},
	"hold": {
		"idle": {
			Controller: "hold", Profile: "unknown", Integrator: "euler",
			Cycles: 100, SampleRate: 100, Start: 512,
		},
	},
}

// GetPreset returns a copy of the preset, or nil if there is none.
func GetPreset(controller, preset string) *Config {
	controllerPresets, ok := Presets[controller]
	if !ok {
		return nil
	}
	cfg, ok := controllerPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(controller string) []string {
	controllerPresets, ok := Presets[controller]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(controllerPresets))
	for name := range controllerPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
