package registers

import "fmt"

// Reg is a byte address in the register file.
type Reg uint8

const (
	RegDeviceType    Reg = 0x00
	RegDeviceSubtype Reg = 0x01
	RegVersionMajor  Reg = 0x02
	RegVersionMinor  Reg = 0x03
	RegFlagsHi       Reg = 0x04
	RegFlagsLo       Reg = 0x05
	RegTimerHi       Reg = 0x06
	RegTimerLo       Reg = 0x07

	RegPositionHi     Reg = 0x08
	RegPositionLo     Reg = 0x09
	RegVelocityHi     Reg = 0x0A
	RegVelocityLo     Reg = 0x0B
	RegPowerHi        Reg = 0x0C
	RegPowerLo        Reg = 0x0D
	RegPWMDirA        Reg = 0x0E
	RegPWMDirB        Reg = 0x0F
	RegSeekPositionHi Reg = 0x10
	RegSeekPositionLo Reg = 0x11
	RegSeekVelocityHi Reg = 0x12
	RegSeekVelocityLo Reg = 0x13
	RegVoltageHi      Reg = 0x14
	RegVoltageLo      Reg = 0x15

	// 0x16-0x1F reserved

	// Registers from RegTWIAddress up are write protected until
	// CmdWriteEnable.
	RegTWIAddress       Reg = 0x20
	RegDeadband         Reg = 0x21
	RegPGainHi          Reg = 0x22
	RegPGainLo          Reg = 0x23
	RegDGainHi          Reg = 0x24
	RegDGainLo          Reg = 0x25
	RegIGainHi          Reg = 0x26
	RegIGainLo          Reg = 0x27
	RegPWMFreqDividerHi Reg = 0x28
	RegPWMFreqDividerLo Reg = 0x29
	RegMinSeekHi        Reg = 0x2A
	RegMinSeekLo        Reg = 0x2B
	RegMaxSeekHi        Reg = 0x2C
	RegMaxSeekLo        Reg = 0x2D
	RegReverseSeek      Reg = 0x2E

	// Estimator model and observer gains (signed words).
	RegEstimatorAHi  Reg = 0x30
	RegEstimatorALo  Reg = 0x31
	RegEstimatorBHi  Reg = 0x32
	RegEstimatorBLo  Reg = 0x33
	RegEstimatorL1Hi Reg = 0x34
	RegEstimatorL1Lo Reg = 0x35
	RegEstimatorL2Hi Reg = 0x36
	RegEstimatorL2Lo Reg = 0x37

	// Count is the size of the register file in bytes.
	Count = 0x40
)

// Bits of RegFlagsLo.
const (
	FlagPWMEnabled uint8 = 1 << 0
)

// Word addresses a 16-bit register stored as two bytes, most significant first.
type Word struct {
	Name string
	Hi   Reg
	Lo   Reg
}

func (w Word) String() string {
	return fmt.Sprintf("%s[0x%02X:0x%02X]", w.Name, uint8(w.Hi), uint8(w.Lo))
}

var (
	Flags          = Word{"flags", RegFlagsHi, RegFlagsLo}
	Timer          = Word{"timer", RegTimerHi, RegTimerLo}
	Position       = Word{"position", RegPositionHi, RegPositionLo}
	Velocity       = Word{"velocity", RegVelocityHi, RegVelocityLo}
	Power          = Word{"power", RegPowerHi, RegPowerLo}
	SeekPosition   = Word{"seek_position", RegSeekPositionHi, RegSeekPositionLo}
	SeekVelocity   = Word{"seek_velocity", RegSeekVelocityHi, RegSeekVelocityLo}
	Voltage        = Word{"voltage", RegVoltageHi, RegVoltageLo}
	PositionGain   = Word{"position_gain", RegPGainHi, RegPGainLo}
	VelocityGain   = Word{"velocity_gain", RegDGainHi, RegDGainLo}
	IntegralGain   = Word{"integral_gain", RegIGainHi, RegIGainLo}
	PWMFreqDivider = Word{"pwm_freq_divider", RegPWMFreqDividerHi, RegPWMFreqDividerLo}
	MinSeek        = Word{"min_seek", RegMinSeekHi, RegMinSeekLo}
	MaxSeek        = Word{"max_seek", RegMaxSeekHi, RegMaxSeekLo}
	EstimatorA     = Word{"estimator_a", RegEstimatorAHi, RegEstimatorALo}
	EstimatorB     = Word{"estimator_b", RegEstimatorBHi, RegEstimatorBLo}
	EstimatorL1    = Word{"estimator_l1", RegEstimatorL1Hi, RegEstimatorL1Lo}
	EstimatorL2    = Word{"estimator_l2", RegEstimatorL2Hi, RegEstimatorL2Lo}
)

// Words lists every named word in address order.
var Words = []Word{
	Flags, Timer, Position, Velocity, Power, SeekPosition, SeekVelocity, Voltage,
	PositionGain, VelocityGain, IntegralGain, PWMFreqDivider, MinSeek, MaxSeek,
	EstimatorA, EstimatorB, EstimatorL1, EstimatorL2,
}

var byteNames = map[Reg]string{
	RegDeviceType:    "device_type",
	RegDeviceSubtype: "device_subtype",
	RegVersionMajor:  "version_major",
	RegVersionMinor:  "version_minor",
	RegPWMDirA:       "pwm_dir_a",
	RegPWMDirB:       "pwm_dir_b",
	RegTWIAddress:    "twi_address",
	RegDeadband:      "deadband",
	RegReverseSeek:   "reverse_seek",
}

// Bytes lists the named single-byte registers in address order.
var Bytes = []Reg{
	RegDeviceType, RegDeviceSubtype, RegVersionMajor, RegVersionMinor,
	RegPWMDirA, RegPWMDirB, RegTWIAddress, RegDeadband, RegReverseSeek,
}

func (r Reg) String() string {
	if name, ok := byteNames[r]; ok {
		return name
	}
	return fmt.Sprintf("reg_0x%02X", uint8(r))
}

// LookupWord finds a named word.
func LookupWord(name string) (Word, bool) {
	for _, w := range Words {
		if w.Name == name {
			return w, true
		}
	}
	return Word{}, false
}

// LookupByte finds a named byte register.
func LookupByte(name string) (Reg, bool) {
	for r, n := range byteNames {
		if n == name {
			return r, true
		}
	}
	return 0, false
}
