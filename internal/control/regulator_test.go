package control

import (
	"testing"

	"github.com/songsen/servoM8/internal/registers"
)

func TestRegulatorLoadDefaults(t *testing.T) {
	regs := registers.NewTable()
	NewRegulator(regs).LoadDefaults()

	if got := regs.Word(registers.PositionGain); got != DefaultRegulatorK1 {
		t.Errorf("k1 = %d", got)
	}
	if got := regs.Word(registers.VelocityGain); got != DefaultRegulatorK2 {
		t.Errorf("k2 = %d", got)
	}
	if got := regs.Word(registers.MaxSeek); got != DefaultMaxSeek {
		t.Errorf("max seek = 0x%04X", got)
	}
}

func TestRegulatorPositionToPWM(t *testing.T) {
	tests := []struct {
		name     string
		seek     uint16
		velocity int16
		position int16
		reverse  bool
		want     int16
	}{
		{"at rest on target", 500, 0, 500, false, 0},
		// 510*4 >> 5 = 63
		{"small error", 504, 0, 500, false, 63},
		{"small negative error", 496, 0, 500, false, -64},
		{"large error saturates", 900, 0, 500, false, 255},
		{"large negative error saturates", 100, 0, 500, false, -255},
		// -(23287*2048) >> 16 = -728, plus 63
		{"velocity damps", 504, 2048, 500, false, -255},
		// 23287*-100 >> 16 = -36 (floor of -35.5)
		{"moderate velocity", 500, 100, 500, false, -36},
		// mirrored seek 1023-519 = 504
		{"reversed", 519, 0, 500, true, 63},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regs := registers.NewTable()
			r := NewRegulator(regs)
			r.Init()
			r.LoadDefaults()
			regs.SetWord(registers.SeekPosition, tt.seek)
			regs.SetWord(registers.Velocity, uint16(tt.velocity))
			if tt.reverse {
				regs.SetByte(registers.RegReverseSeek, 1)
			}

			if got := r.PositionToPWM(tt.position); got != tt.want {
				t.Errorf("output = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRegulatorPositionMirror(t *testing.T) {
	regs := registers.NewTable()
	r := NewRegulator(regs)
	r.LoadDefaults()
	regs.SetByte(registers.RegReverseSeek, 1)

	r.PositionToPWM(100)
	if got := regs.Word(registers.Position); got != 923 {
		t.Errorf("position = %d, want 923", got)
	}
}

func TestRegulatorSignedParams(t *testing.T) {
	regs := registers.NewTable()
	r := NewRegulator(regs)
	r.SetParam("velocity_gain", -100)
	if got := int16(regs.Word(registers.VelocityGain)); got != -100 {
		t.Errorf("velocity gain = %d", got)
	}
	if got := r.GetParams()["velocity_gain"]; got != -100 {
		t.Errorf("param = %v", got)
	}
	r.SetParam("position_gain", 1e6)
	if got := int16(regs.Word(registers.PositionGain)); got != 0x7FFF {
		t.Errorf("position gain = %d", got)
	}
}
