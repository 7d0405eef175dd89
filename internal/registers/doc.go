// Package registers models the servo register file.
//
// The register file is a small byte-addressed table shared by the motion
// controller, the actuator driver and whatever master talks to the servo.
// Sixteen bit quantities are stored as HI/LO byte pairs and addressed
// through a [Word]:
//
//	regs := registers.NewTable()
//	regs.SetWord(registers.SeekPosition, 0x0200)
//	seek := int16(regs.Word(registers.SeekPosition))
//
// [Table] is the in-memory [Store] used by the control loop. [I2CDevice]
// exposes the same file on a physical servo reached over I2C.
package registers
