package control

import "github.com/songsen/servoM8/internal/registers"

// PIDGains are the calibration values a PID controller loads as defaults.
// Gains are unsigned Q8.
type PIDGains struct {
	Position uint16
	Velocity uint16
	Integral uint16
	Deadband uint8
}

// DefaultPIDGains suit the common analog hobby servos.
var DefaultPIDGains = PIDGains{
	Position: 0x0600,
	Velocity: 0x1800,
	Integral: 0x0000,
	Deadband: 0x01,
}

// PID is a position controller acting on the position error and the
// velocity error against the commanded seek velocity. The integral gain is
// carried in the register file but not applied; the proportional path
// ignores errors inside the Deadband register.
type PID struct {
	regs             registers.Store
	defaults         PIDGains
	previousPosition int16
}

func NewPID(regs registers.Store, defaults PIDGains) *PID {
	return &PID{regs: regs, defaults: defaults}
}

func (p *PID) Init() {
	p.previousPosition = 0
}

func (p *PID) LoadDefaults() {
	p.regs.SetWord(registers.PositionGain, p.defaults.Position)
	p.regs.SetWord(registers.VelocityGain, p.defaults.Velocity)
	p.regs.SetWord(registers.IntegralGain, p.defaults.Integral)
	p.regs.SetByte(registers.RegDeadband, p.defaults.Deadband)
	p.regs.SetWord(registers.MinSeek, DefaultMinSeek)
	p.regs.SetWord(registers.MaxSeek, DefaultMaxSeek)
	p.regs.SetByte(registers.RegReverseSeek, 0)
}

func (p *PID) PositionToPWM(currentPosition int16) int16 {
	velocity := currentPosition - p.previousPosition
	p.previousPosition = currentPosition

	seekPosition := int16(p.regs.Word(registers.SeekPosition))
	seekVelocity := int16(p.regs.Word(registers.SeekVelocity))
	minimumPosition := int16(p.regs.Word(registers.MinSeek))
	maximumPosition := int16(p.regs.Word(registers.MaxSeek))

	if p.regs.Byte(registers.RegReverseSeek) != 0 {
		p.regs.SetWord(registers.Position, uint16(maxPosition-currentPosition))
		seekPosition = maxPosition - seekPosition
		minimumPosition = maxPosition - minimumPosition
		maximumPosition = maxPosition - maximumPosition
		seekVelocity = -seekVelocity
	} else {
		p.regs.SetWord(registers.Position, uint16(currentPosition))
	}

	seekPosition = clampSeek(seekPosition, minimumPosition, maximumPosition)

	deadband := int16(p.regs.Byte(registers.RegDeadband))
	pGain := int32(p.regs.Word(registers.PositionGain))
	dGain := int32(p.regs.Word(registers.VelocityGain))

	pComponent := int32(seekPosition - currentPosition)
	dComponent := int32(seekVelocity) - int32(velocity)

	var output int32
	if pComponent > int32(deadband) || pComponent < -int32(deadband) {
		output += pComponent * pGain
	}
	output += dComponent * dGain

	// Gains are Q8.
	output >>= 8

	return int16(max(min(output, maxOutput), minOutput))
}

func (p *PID) PreviousPosition() int16 { return p.previousPosition }

func (p *PID) GetParams() map[string]float64 {
	params := gainParams(p.regs, registers.PositionGain, registers.VelocityGain, registers.IntegralGain)
	params["deadband"] = float64(p.regs.Byte(registers.RegDeadband))
	return params
}

func (p *PID) SetParam(name string, value float64) {
	if name == "deadband" {
		p.regs.SetByte(registers.RegDeadband, uint8(max(min(value, 255), 0)))
		return
	}
	setGainParam(p.regs, name, value, registers.PositionGain, registers.VelocityGain, registers.IntegralGain)
}
