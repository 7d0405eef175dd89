package control

import (
	"github.com/songsen/servoM8/internal/fixed"
	"github.com/songsen/servoM8/internal/registers"
)

// Regulator defaults. K1 has 5 fractional bits and K2 has 16.
const (
	DefaultRegulatorK1 = 510
	DefaultRegulatorK2 = 23287
)

// Regulator is a state feedback controller: output = K1*error - K2*velocity.
// The velocity comes from the Velocity register, which an [Estimator] must
// refresh before every cycle. K1 lives in the position gain register and
// K2 in the velocity gain register, both as signed words.
type Regulator struct {
	regs registers.Store
}

func NewRegulator(regs registers.Store) *Regulator {
	return &Regulator{regs: regs}
}

// Init is a no-op; the regulator keeps no state between cycles.
func (r *Regulator) Init() {}

func (r *Regulator) LoadDefaults() {
	r.regs.SetWord(registers.PositionGain, DefaultRegulatorK1)
	r.regs.SetWord(registers.VelocityGain, DefaultRegulatorK2)
	r.regs.SetWord(registers.MinSeek, DefaultMinSeek)
	r.regs.SetWord(registers.MaxSeek, DefaultMaxSeek)
	r.regs.SetByte(registers.RegReverseSeek, 0)
}

func (r *Regulator) PositionToPWM(currentPosition int16) int16 {
	seekPosition := int16(r.regs.Word(registers.SeekPosition))
	minimumPosition := int16(r.regs.Word(registers.MinSeek))
	maximumPosition := int16(r.regs.Word(registers.MaxSeek))
	velocity := int16(r.regs.Word(registers.Velocity))
	k1 := int16(r.regs.Word(registers.PositionGain))
	k2 := int16(r.regs.Word(registers.VelocityGain))

	if r.regs.Byte(registers.RegReverseSeek) != 0 {
		r.regs.SetWord(registers.Position, uint16(maxPosition-currentPosition))
		seekPosition = maxPosition - seekPosition
		minimumPosition = maxPosition - minimumPosition
		maximumPosition = maxPosition - maximumPosition
	} else {
		r.regs.SetWord(registers.Position, uint16(currentPosition))
	}

	seekPosition = clampSeek(seekPosition, minimumPosition, maximumPosition)

	positionError := seekPosition - currentPosition

	output := int32(fixed.Mul(k1, positionError, 5)) + int32(fixed.Mul(k2, -velocity, 16))
	if output > maxOutput {
		return maxOutput
	}
	if output < minOutput {
		return minOutput
	}
	return int16(output)
}

func (r *Regulator) GetParams() map[string]float64 {
	return signedParams(r.regs, registers.PositionGain, registers.VelocityGain)
}

func (r *Regulator) SetParam(name string, value float64) {
	setSignedParam(r.regs, name, value, registers.PositionGain, registers.VelocityGain)
}
