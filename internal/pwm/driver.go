// Package pwm applies controller commands to the motor's H-bridge.
package pwm

import (
	"github.com/songsen/servoM8/internal/registers"
)

const (
	maxPosition = 1023
	maxDrive    = 255
)

// Motor accepts a signed drive: positive turns toward higher positions.
type Motor interface {
	Apply(drive int16)
}

// Driver is the actuator stage between a controller and the motor. It
// refuses drive that would push the output further past the seek limits,
// honours the PWM enable flag and records the applied drive in the
// direction registers.
type Driver struct {
	regs  registers.Store
	motor Motor
	swap  bool
}

func NewDriver(regs registers.Store, motor Motor) *Driver {
	return &Driver{regs: regs, motor: motor}
}

// SetSwap reverses the wiring of the motor leads. The direction registers
// keep reporting the logical direction.
func (d *Driver) SetSwap(swap bool) { d.swap = swap }

func (d *Driver) Enable() {
	flags := d.regs.Byte(registers.RegFlagsLo)
	d.regs.SetByte(registers.RegFlagsLo, flags|registers.FlagPWMEnabled)
}

// Disable clears the enable flag and stops the motor.
func (d *Driver) Disable() {
	flags := d.regs.Byte(registers.RegFlagsLo)
	d.regs.SetByte(registers.RegFlagsLo, flags&^registers.FlagPWMEnabled)
	d.stop()
}

func (d *Driver) Enabled() bool {
	return d.regs.Byte(registers.RegFlagsLo)&registers.FlagPWMEnabled != 0
}

// Update applies pwm for the measured position and returns the drive that
// reached the motor, before any lead swap.
func (d *Driver) Update(position, pwm int16) int16 {
	minimumPosition := int16(d.regs.Word(registers.MinSeek))
	maximumPosition := int16(d.regs.Word(registers.MaxSeek))
	if d.regs.Byte(registers.RegReverseSeek) != 0 {
		minimumPosition, maximumPosition = maxPosition-maximumPosition, maxPosition-minimumPosition
	}

	if position < minimumPosition && pwm < 0 {
		pwm = 0
	}
	if position > maximumPosition && pwm > 0 {
		pwm = 0
	}
	if !d.Enabled() {
		pwm = 0
	}

	switch {
	case pwm < 0:
		pwm = max(pwm, -maxDrive)
		d.regs.SetByte(registers.RegPWMDirA, uint8(-pwm))
		d.regs.SetByte(registers.RegPWMDirB, 0)
	case pwm > 0:
		pwm = min(pwm, maxDrive)
		d.regs.SetByte(registers.RegPWMDirA, 0)
		d.regs.SetByte(registers.RegPWMDirB, uint8(pwm))
	default:
		d.stop()
		return 0
	}

	d.apply(pwm)
	return pwm
}

func (d *Driver) stop() {
	d.regs.SetByte(registers.RegPWMDirA, 0)
	d.regs.SetByte(registers.RegPWMDirB, 0)
	d.apply(0)
}

func (d *Driver) apply(drive int16) {
	if d.motor == nil {
		return
	}
	if d.swap {
		drive = -drive
	}
	d.motor.Apply(drive)
}
