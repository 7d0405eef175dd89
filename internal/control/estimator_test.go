package control

import (
	"testing"

	"github.com/songsen/servoM8/internal/registers"
)

func newTestEstimator() (*Estimator, *registers.Table) {
	regs := registers.NewTable()
	e := NewEstimator(regs)
	e.Init()
	e.LoadDefaults()
	return e, regs
}

func TestEstimatorLoadDefaults(t *testing.T) {
	_, regs := newTestEstimator()

	tests := []struct {
		w    registers.Word
		want int16
	}{
		{registers.EstimatorA, -1115},
		{registers.EstimatorB, 8849},
		{registers.EstimatorL1, 3144},
		{registers.EstimatorL2, 3915},
		{registers.Velocity, 0},
	}
	for _, tt := range tests {
		if got := int16(regs.Word(tt.w)); got != tt.want {
			t.Errorf("%s = %d, want %d", tt.w.Name, got, tt.want)
		}
	}
}

func TestEstimatorFirstStep(t *testing.T) {
	e, regs := newTestEstimator()
	e.Estimate(500)

	// error 500*32 = 16000: z1 += 3144*16000>>16, z2 += 3915*16000>>18
	if e.z1 != 767 || e.z2 != 238 {
		t.Errorf("state = (%d, %d), want (767, 238)", e.z1, e.z2)
	}
	if got := int16(regs.Word(registers.Velocity)); got != 238 {
		t.Errorf("velocity register = %d, want 238", got)
	}
}

func TestEstimatorSettlesOnStillPosition(t *testing.T) {
	e, regs := newTestEstimator()
	for i := 0; i < 400; i++ {
		e.Estimate(500)
	}
	if e.Position() != 500 {
		t.Errorf("position = %d, want 500", e.Position())
	}
	if e.Velocity() != 0 || regs.Word(registers.Velocity) != 0 {
		t.Errorf("velocity = %d, want 0", e.Velocity())
	}
}

func TestEstimatorTracksRamp(t *testing.T) {
	e, _ := newTestEstimator()
	var last int16
	for p := int16(0); p < 1000; p += 5 {
		e.Estimate(p)
		last = e.Velocity()
	}
	if last <= 0 {
		t.Errorf("velocity on a rising ramp = %d, want positive", last)
	}

	for i := 0; i < 400; i++ {
		e.Estimate(995)
	}
	if e.Velocity() != 0 {
		t.Errorf("velocity after stopping = %d, want 0", e.Velocity())
	}
}

func TestEstimatorUsesAppliedDrive(t *testing.T) {
	forward, regs := newTestEstimator()
	regs.SetByte(registers.RegPWMDirB, 100)
	forward.Estimate(0)
	if forward.Velocity() <= 0 {
		t.Errorf("forward drive velocity = %d, want positive", forward.Velocity())
	}

	backward, regs := newTestEstimator()
	regs.SetByte(registers.RegPWMDirA, 100)
	backward.Estimate(0)
	if backward.Velocity() != -forward.Velocity()-1 && backward.Velocity() != -forward.Velocity() {
		t.Errorf("backward velocity %d does not mirror %d", backward.Velocity(), forward.Velocity())
	}
}

func TestEstimatorInit(t *testing.T) {
	e, _ := newTestEstimator()
	e.Estimate(300)
	e.Init()
	if e.z1 != 0 || e.z2 != 0 {
		t.Errorf("state after Init = (%d, %d)", e.z1, e.z2)
	}
}
