package control

import "github.com/songsen/servoM8/internal/registers"

// Tunable is implemented by controllers whose gains can be adjusted while
// the loop runs.
type Tunable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64)
}

func gainParams(regs registers.Store, words ...registers.Word) map[string]float64 {
	params := make(map[string]float64, len(words))
	for _, w := range words {
		params[w.Name] = float64(regs.Word(w))
	}
	return params
}

// setGainParam writes value to the word called name, saturated to the
// 16-bit register range. Unknown names are ignored.
func setGainParam(regs registers.Store, name string, value float64, words ...registers.Word) {
	for _, w := range words {
		if w.Name != name {
			continue
		}
		switch {
		case value < 0:
			value = 0
		case value > 0xFFFF:
			value = 0xFFFF
		}
		regs.SetWord(w, uint16(value))
		return
	}
}

// setSignedParam is setGainParam for two's complement words.
func setSignedParam(regs registers.Store, name string, value float64, words ...registers.Word) {
	for _, w := range words {
		if w.Name != name {
			continue
		}
		switch {
		case value < -0x8000:
			value = -0x8000
		case value > 0x7FFF:
			value = 0x7FFF
		}
		regs.SetWord(w, signedWord(int16(value)))
		return
	}
}

func signedParams(regs registers.Store, words ...registers.Word) map[string]float64 {
	params := make(map[string]float64, len(words))
	for _, w := range words {
		params[w.Name] = float64(int16(regs.Word(w)))
	}
	return params
}

func signedWord(v int16) uint16 { return uint16(v) }
