package control

// Accumulator is the integral store of the IPD controller: a 32-bit
// running sum of error*gain products whose upper 16 bits are the integral.
type Accumulator struct {
	sum int32
}

// Update adds err*gain to the sum.
func (a *Accumulator) Update(err int16, gain uint16) {
	a.sum += int32(err) * int32(gain)
}

// Get returns the integral, the arithmetic top half of the sum.
func (a *Accumulator) Get() int16 {
	return int16(a.sum >> 16)
}

// ResetTo sets the sum so that Get returns v.
func (a *Accumulator) ResetTo(v int16) {
	a.sum = int32(v) << 16
}

func (a *Accumulator) Raw() int32 { return a.sum }
