// Package fixed implements the integer fixed-point helpers used by the
// motion controllers. Nothing here allocates or uses floating point.
package fixed

// MulQ8 scales m by an unsigned Q8 gain (gain/256). The product is formed
// in 32 bits and the quotient truncates toward zero before being narrowed
// back to 16 bits; callers keep the product inside int32.
func MulQ8(m int16, gain uint16) int16 {
	p := int32(m) * int32(gain)
	p /= 256
	return int16(p)
}

// Mul multiplies two 16-bit fixed-point values into a 32-bit product and
// arithmetically shifts it right by shift bits, returning the low 16 bits.
// With operands at fixed-point bits fp1 and fp2 and a desired result at
// fp3, shift is fp1 + fp2 - fp3.
func Mul(a, b int16, shift uint8) int16 {
	return int16(ShiftRight32(int32(a)*int32(b), shift))
}

// ShiftRight32 is an arithmetic right shift; it rounds toward negative
// infinity, unlike division.
func ShiftRight32(v int32, n uint8) int32 {
	return v >> n
}

// ShiftRight16 is the 16-bit form of ShiftRight32.
func ShiftRight16(v int16, n uint8) int16 {
	return v >> n
}
