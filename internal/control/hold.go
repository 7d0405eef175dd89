package control

import "github.com/songsen/servoM8/internal/registers"

// Hold never drives the motor. It still publishes the position so the
// register file stays current, which is useful for calibrating sensors by
// hand.
type Hold struct {
	regs registers.Store
}

func NewHold(regs registers.Store) *Hold {
	return &Hold{regs: regs}
}

func (h *Hold) Init() {}

func (h *Hold) LoadDefaults() {
	h.regs.SetWord(registers.MinSeek, DefaultMinSeek)
	h.regs.SetWord(registers.MaxSeek, DefaultMaxSeek)
	h.regs.SetByte(registers.RegReverseSeek, 0)
}

func (h *Hold) PositionToPWM(currentPosition int16) int16 {
	h.regs.SetWord(registers.Position, uint16(currentPosition))
	return 0
}
