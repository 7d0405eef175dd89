package control

import (
	"github.com/songsen/servoM8/internal/fixed"
	"github.com/songsen/servoM8/internal/registers"
)

const (
	minPosition = 0
	maxPosition = 1023
	maxOutput   = 255
	minOutput   = -maxOutput

	// ipdDeadband is the position error, in sensor counts, treated as zero
	// by the integral path.
	ipdDeadband = 2
)

// IPD configuration defaults.
const (
	DefaultIPDPositionGain = 0x0400
	DefaultIPDVelocityGain = 0x0300
	DefaultIPDIntegralGain = 0x4000
	DefaultMinSeek         = 0x0060
	DefaultMaxSeek         = 0x03A0
)

// IPD drives the motor from the integral of the position error, damped by
// proportional position and velocity terms that act on the measurement
// only. A seek change therefore never kicks the output.
//
// Gains are unsigned Q8 values read from the register file every cycle.
type IPD struct {
	regs             registers.Store
	previousPosition int16
	integral         Accumulator
}

func NewIPD(regs registers.Store) *IPD {
	return &IPD{regs: regs}
}

// Init zeroes the integral and the remembered position.
func (c *IPD) Init() {
	c.previousPosition = 0
	c.integral.ResetTo(0)
}

// LoadDefaults writes the default gains, seek bounds and direction.
func (c *IPD) LoadDefaults() {
	c.regs.SetWord(registers.PositionGain, DefaultIPDPositionGain)
	c.regs.SetWord(registers.VelocityGain, DefaultIPDVelocityGain)
	c.regs.SetWord(registers.IntegralGain, DefaultIPDIntegralGain)
	c.regs.SetWord(registers.MinSeek, DefaultMinSeek)
	c.regs.SetWord(registers.MaxSeek, DefaultMaxSeek)
	c.regs.SetByte(registers.RegReverseSeek, 0)
}

// PositionToPWM runs one control cycle for the sampled position and returns
// the drive command in [-255, 255]. It must be called exactly once per
// sample.
func (c *IPD) PositionToPWM(currentPosition int16) int16 {
	// Velocity is taken before any register access so a concurrent
	// register update cannot skew it.
	velocity := currentPosition - c.previousPosition
	c.previousPosition = currentPosition

	seekPosition := int16(c.regs.Word(registers.SeekPosition))
	minimumPosition := int16(c.regs.Word(registers.MinSeek))
	maximumPosition := int16(c.regs.Word(registers.MaxSeek))

	if c.regs.Byte(registers.RegReverseSeek) != 0 {
		// Mirror the measurement into the reversed frame and expose the
		// mirrored value.
		c.regs.SetWord(registers.Position, uint16(maxPosition-currentPosition))

		seekPosition = maxPosition - seekPosition
		minimumPosition = maxPosition - minimumPosition
		maximumPosition = maxPosition - maximumPosition
	} else {
		c.regs.SetWord(registers.Position, uint16(currentPosition))
	}

	seekPosition = clampSeek(seekPosition, minimumPosition, maximumPosition)

	positionError := seekPosition - currentPosition
	switch {
	case positionError > ipdDeadband:
		positionError -= ipdDeadband
	case positionError < -ipdDeadband:
		positionError += ipdDeadband
	default:
		positionError = 0
	}

	pGain := c.regs.Word(registers.PositionGain)
	dGain := c.regs.Word(registers.VelocityGain)
	iGain := c.regs.Word(registers.IntegralGain)

	c.integral.Update(positionError, iGain)

	positionTerm := fixed.MulQ8(currentPosition, pGain)
	velocityTerm := fixed.MulQ8(velocity, dGain)

	// Summed wide so an extreme gain saturates instead of wrapping.
	output := int32(c.integral.Get()) - int32(positionTerm) - int32(velocityTerm)

	// Anti-windup: leave the integral at the value that lands the output
	// exactly on the bound.
	if output < minOutput {
		c.integral.ResetTo(positionTerm + velocityTerm + minOutput)
		return minOutput
	}
	if output > maxOutput {
		c.integral.ResetTo(positionTerm + velocityTerm + maxOutput)
		return maxOutput
	}

	return int16(output)
}

// clampSeek limits seek to the range spanned by the two bounds, in
// whichever order the bounds are given.
func clampSeek(seek, a, b int16) int16 {
	lo, hi := min(a, b), max(a, b)
	return min(max(seek, lo), hi)
}

// Integral is the current integral term.
func (c *IPD) Integral() int16 { return c.integral.Get() }

// PreviousPosition is the position seen by the last PositionToPWM call.
func (c *IPD) PreviousPosition() int16 { return c.previousPosition }

// GetParams returns the tunable gains for live adjustment.
func (c *IPD) GetParams() map[string]float64 {
	return gainParams(c.regs, registers.PositionGain, registers.VelocityGain, registers.IntegralGain)
}

// SetParam writes one gain register by name.
func (c *IPD) SetParam(name string, value float64) {
	setGainParam(c.regs, name, value, registers.PositionGain, registers.VelocityGain, registers.IntegralGain)
}
