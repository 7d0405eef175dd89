package control

import (
	"testing"

	"github.com/songsen/servoM8/internal/registers"
)

func TestPIDLoadDefaults(t *testing.T) {
	regs := registers.NewTable()
	gains := PIDGains{Position: 0x0123, Velocity: 0x0456, Integral: 0x0007, Deadband: 3}
	NewPID(regs, gains).LoadDefaults()

	if regs.Word(registers.PositionGain) != 0x0123 ||
		regs.Word(registers.VelocityGain) != 0x0456 ||
		regs.Word(registers.IntegralGain) != 0x0007 {
		t.Errorf("gains not loaded")
	}
	if regs.Byte(registers.RegDeadband) != 3 {
		t.Errorf("deadband = %d, want 3", regs.Byte(registers.RegDeadband))
	}
	if regs.Word(registers.MinSeek) != DefaultMinSeek || regs.Word(registers.MaxSeek) != DefaultMaxSeek {
		t.Errorf("seek bounds not loaded")
	}
}

func TestPIDPositionToPWM(t *testing.T) {
	tests := []struct {
		name         string
		previous     int16
		position     int16
		seek         uint16
		seekVelocity int16
		reverse      bool
		want         int16
	}{
		{"on target", 500, 500, 500, 0, false, 0},
		{"inside deadband", 500, 500, 501, 0, false, 0},
		// 10*0x600 >> 8 = 60
		{"position error", 500, 500, 510, 0, false, 60},
		{"negative error", 500, 500, 490, 0, false, -60},
		// -2*0x1800 >> 8 = -48
		{"moving", 498, 500, 500, 0, false, -48},
		{"matching seek velocity", 498, 500, 500, 2, false, 0},
		{"saturates", 500, 500, 900, 0, false, 255},
		{"clamped seek", 900, 900, 1000, 0, false, 168},
		// mirrored seek 1023-513 = 510
		{"reversed", 500, 500, 513, 0, true, 60},
		{"reversed seek velocity", 498, 500, 523, -2, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			regs := registers.NewTable()
			c := NewPID(regs, DefaultPIDGains)
			c.Init()
			c.LoadDefaults()
			c.previousPosition = tt.previous
			regs.SetWord(registers.SeekPosition, tt.seek)
			regs.SetWord(registers.SeekVelocity, uint16(tt.seekVelocity))
			if tt.reverse {
				regs.SetByte(registers.RegReverseSeek, 1)
			}

			if got := c.PositionToPWM(tt.position); got != tt.want {
				t.Errorf("output = %d, want %d", got, tt.want)
			}
			if c.PreviousPosition() != tt.position {
				t.Errorf("previous position = %d", c.PreviousPosition())
			}
		})
	}
}

func TestPIDParams(t *testing.T) {
	regs := registers.NewTable()
	c := NewPID(regs, DefaultPIDGains)
	c.LoadDefaults()

	c.SetParam("deadband", 300)
	if regs.Byte(registers.RegDeadband) != 255 {
		t.Errorf("deadband = %d, want 255", regs.Byte(registers.RegDeadband))
	}
	c.SetParam("position_gain", 0x0200)
	params := c.GetParams()
	if params["position_gain"] != 0x0200 || params["deadband"] != 255 {
		t.Errorf("params = %v", params)
	}
}
