package fixed

import "testing"

func TestMulQ8(t *testing.T) {
	tests := []struct {
		name string
		m    int16
		gain uint16
		want int16
	}{
		{"unity", 100, 0x0100, 100},
		{"four", 500, 0x0400, 2000},
		{"three", 10, 0x0300, 30},
		{"zero gain", 1023, 0, 0},
		{"half", 3, 0x0080, 1},
		{"negative truncates toward zero", -3, 0x0080, -1},
		{"negative exact", -7, 0x0300, -21},
		{"fraction only", 1, 0x00FF, 0},
		{"negative fraction only", -1, 0x00FF, 0},
		{"integral gain", 255, 0x4000, 16320},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MulQ8(tt.m, tt.gain); got != tt.want {
				t.Errorf("MulQ8(%d, 0x%04X) = %d, want %d", tt.m, tt.gain, got, tt.want)
			}
		})
	}
}

func TestMulQ8NoIntermediateOverflow(t *testing.T) {
	// 100 * 0x7FFF overflows 16 bits long before scaling.
	if got := MulQ8(100, 0x7FFF); got != 12799 {
		t.Errorf("MulQ8(100, 0x7FFF) = %d, want 12799", got)
	}
}

func TestMul(t *testing.T) {
	tests := []struct {
		a, b  int16
		shift uint8
		want  int16
	}{
		{510, 100, 5, 1593},
		{23287, -4, 16, -2},
		{3144, 32, 16, 1},
		{-1115, 2048, 16, -35},
		{8849, 255, 16, 34},
		{1, 1, 0, 1},
	}

	for _, tt := range tests {
		if got := Mul(tt.a, tt.b, tt.shift); got != tt.want {
			t.Errorf("Mul(%d, %d, %d) = %d, want %d", tt.a, tt.b, tt.shift, got, tt.want)
		}
	}
}

func TestShiftRightRoundsDown(t *testing.T) {
	if got := ShiftRight32(-1, 4); got != -1 {
		t.Errorf("ShiftRight32(-1, 4) = %d, want -1", got)
	}
	if got := ShiftRight32(-17, 4); got != -2 {
		t.Errorf("ShiftRight32(-17, 4) = %d, want -2", got)
	}
	if got := ShiftRight16(-256, 8); got != -1 {
		t.Errorf("ShiftRight16(-256, 8) = %d, want -1", got)
	}
	if got := ShiftRight16(255, 8); got != 0 {
		t.Errorf("ShiftRight16(255, 8) = %d, want 0", got)
	}
}
