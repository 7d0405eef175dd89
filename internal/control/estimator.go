package control

import (
	"github.com/songsen/servoM8/internal/fixed"
	"github.com/songsen/servoM8/internal/registers"
)

// Estimator defaults for the reference motor and gearbox.
const (
	DefaultEstimatorA  = -1115
	DefaultEstimatorB  = 8849
	DefaultEstimatorL1 = 3144
	DefaultEstimatorL2 = 3915
)

// Estimator is a Luenberger observer for the motor's position and velocity.
// It models the motor as
//
//	z1' = z2
//	z2' = a*z2 + b*pwm
//
// and corrects the model state with the measured position every cycle.
// z1 carries 5 fractional bits and z2 carries 11. The velocity estimate z2
// is published in the Velocity register.
type Estimator struct {
	regs registers.Store
	z1   int16
	z2   int16
}

func NewEstimator(regs registers.Store) *Estimator {
	return &Estimator{regs: regs}
}

func (e *Estimator) Init() {
	e.z1 = 0
	e.z2 = 0
}

func (e *Estimator) LoadDefaults() {
	e.regs.SetWord(registers.EstimatorA, signedWord(DefaultEstimatorA))
	e.regs.SetWord(registers.EstimatorB, DefaultEstimatorB)
	e.regs.SetWord(registers.EstimatorL1, DefaultEstimatorL1)
	e.regs.SetWord(registers.EstimatorL2, DefaultEstimatorL2)
	e.regs.SetWord(registers.Velocity, 0)
}

// Estimate advances the observer by one sample. The drive applied during the
// previous cycle is read back from the PWM registers.
func (e *Estimator) Estimate(currentPosition int16) {
	a := int16(e.regs.Word(registers.EstimatorA))
	b := int16(e.regs.Word(registers.EstimatorB))
	l1 := int16(e.regs.Word(registers.EstimatorL1))
	l2 := int16(e.regs.Word(registers.EstimatorL2))
	lastPWM := int16(e.regs.Byte(registers.RegPWMDirB)) - int16(e.regs.Byte(registers.RegPWMDirA))

	estimErr := currentPosition*32 - e.z1

	z1d := fixed.Mul(l1, estimErr, 16) + e.z2/64
	z2d := fixed.Mul(l2, estimErr, 18) + fixed.Mul(a, e.z2, 16) + fixed.Mul(b, lastPWM, 16)

	e.z1 += z1d
	e.z2 += z2d

	e.regs.SetWord(registers.Velocity, uint16(e.z2))
}

// Position is the estimated position in sensor counts.
func (e *Estimator) Position() int16 { return e.z1 / 32 }

// Velocity is the raw velocity estimate as published in the register.
func (e *Estimator) Velocity() int16 { return e.z2 }

func (e *Estimator) GetParams() map[string]float64 {
	return signedParams(e.regs, registers.EstimatorA, registers.EstimatorB, registers.EstimatorL1, registers.EstimatorL2)
}

func (e *Estimator) SetParam(name string, value float64) {
	setSignedParam(e.regs, name, value, registers.EstimatorA, registers.EstimatorB, registers.EstimatorL1, registers.EstimatorL2)
}
