package pwm

import (
	"testing"

	"github.com/songsen/servoM8/internal/registers"
)

type recordingMotor struct {
	drives []int16
}

func (m *recordingMotor) Apply(drive int16) { m.drives = append(m.drives, drive) }

func (m *recordingMotor) last() int16 {
	if len(m.drives) == 0 {
		return 0
	}
	return m.drives[len(m.drives)-1]
}

func newTestDriver() (*Driver, *recordingMotor, *registers.Table) {
	regs := registers.NewTable()
	regs.SetWord(registers.MinSeek, 0x60)
	regs.SetWord(registers.MaxSeek, 0x3A0)
	motor := &recordingMotor{}
	d := NewDriver(regs, motor)
	d.Enable()
	return d, motor, regs
}

func TestDriverUpdate(t *testing.T) {
	tests := []struct {
		name     string
		position int16
		pwm      int16
		reverse  bool
		want     int16
		wantA    uint8
		wantB    uint8
	}{
		{"forward", 500, 100, false, 100, 0, 100},
		{"backward", 500, -80, false, -80, 80, 0},
		{"stopped", 500, 0, false, 0, 0, 0},
		{"clamped forward", 500, 400, false, 255, 0, 255},
		{"clamped backward", 500, -400, false, -255, 255, 0},
		{"below min moving down", 50, -100, false, 0, 0, 0},
		{"below min moving up", 50, 100, false, 100, 0, 100},
		{"above max moving up", 1000, 100, false, 0, 0, 0},
		{"above max moving down", 1000, -100, false, -100, 100, 0},
		// reversed limits are [1023-928, 1023-96] = [95, 927]
		{"reversed below min", 90, -10, true, 0, 0, 0},
		{"reversed above max moving down", 930, -10, true, -10, 10, 0},
		{"reversed above max moving up", 930, 10, true, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, motor, regs := newTestDriver()
			if tt.reverse {
				regs.SetByte(registers.RegReverseSeek, 1)
			}

			got := d.Update(tt.position, tt.pwm)
			if got != tt.want {
				t.Errorf("drive = %d, want %d", got, tt.want)
			}
			if motor.last() != tt.want {
				t.Errorf("motor drive = %d, want %d", motor.last(), tt.want)
			}
			if a := regs.Byte(registers.RegPWMDirA); a != tt.wantA {
				t.Errorf("dir A = %d, want %d", a, tt.wantA)
			}
			if b := regs.Byte(registers.RegPWMDirB); b != tt.wantB {
				t.Errorf("dir B = %d, want %d", b, tt.wantB)
			}
		})
	}
}

func TestDriverEnable(t *testing.T) {
	d, motor, regs := newTestDriver()
	if !d.Enabled() {
		t.Fatal("expected driver enabled")
	}
	regs.SetByte(registers.RegFlagsLo, regs.Byte(registers.RegFlagsLo)|0x80)

	d.Update(500, 100)
	d.Disable()
	if d.Enabled() {
		t.Error("expected driver disabled")
	}
	if motor.last() != 0 || regs.Byte(registers.RegPWMDirB) != 0 {
		t.Error("disable did not stop the motor")
	}
	if regs.Byte(registers.RegFlagsLo)&0x80 == 0 {
		t.Error("disable cleared unrelated flags")
	}

	if got := d.Update(500, 100); got != 0 {
		t.Errorf("disabled drive = %d, want 0", got)
	}
}

func TestDriverSwap(t *testing.T) {
	d, motor, regs := newTestDriver()
	d.SetSwap(true)

	got := d.Update(500, 60)
	if got != 60 {
		t.Errorf("drive = %d, want 60", got)
	}
	if motor.last() != -60 {
		t.Errorf("motor drive = %d, want -60", motor.last())
	}
	if regs.Byte(registers.RegPWMDirB) != 60 {
		t.Errorf("dir B = %d, want 60", regs.Byte(registers.RegPWMDirB))
	}
}

func TestDriverWithoutMotor(t *testing.T) {
	regs := registers.NewTable()
	regs.SetWord(registers.MaxSeek, 1023)
	d := NewDriver(regs, nil)
	d.Enable()
	if got := d.Update(10, 20); got != 20 {
		t.Errorf("drive = %d, want 20", got)
	}
}
