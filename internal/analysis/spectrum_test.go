package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/songsen/servoM8/internal/servo"
)

func TestAmplitudeSpectrumSine(t *testing.T) {
	n := 64
	data := make([]float64, n)
	for i := range data {
		data[i] = 3 + 5*math.Sin(2*math.Pi*8*float64(i)/float64(n))
	}

	amp := AmplitudeSpectrum(data)
	if len(amp) != n/2 {
		t.Fatalf("len = %d, want %d", len(amp), n/2)
	}
	if math.Abs(amp[0]-3) > 1e-9 {
		t.Errorf("dc = %f, want 3", amp[0])
	}
	if math.Abs(amp[8]-5) > 1e-9 {
		t.Errorf("bin 8 = %f, want 5", amp[8])
	}
	if amp[7] > 1e-9 || amp[9] > 1e-9 {
		t.Errorf("leakage into neighbors: %f %f", amp[7], amp[9])
	}
}

func TestAnalyzeHunting(t *testing.T) {
	// 300 samples at 100 Hz; the last 256 hunt at 12.5 Hz around an
	// offset of 2 counts.
	samples := make([]servo.Sample, 300)
	for i := range samples {
		osc := 10 * math.Sin(2*math.Pi*12.5*float64(i)/100)
		samples[i] = servo.Sample{Cycle: i, Seek: 500, Position: int16(math.Round(498 - osc))}
	}

	r, err := Analyze(samples, 100)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.Samples != 256 {
		t.Errorf("samples = %d, want 256", r.Samples)
	}
	if math.Abs(r.Frequency-12.5) > r.Resolution {
		t.Errorf("frequency = %f, want 12.5", r.Frequency)
	}
	if math.Abs(r.Amplitude-10) > 1 {
		t.Errorf("amplitude = %f, want about 10", r.Amplitude)
	}
	if math.Abs(r.Mean-2) > 0.5 {
		t.Errorf("mean = %f, want about 2", r.Mean)
	}
	if !r.Hunting(2) {
		t.Error("expected hunting")
	}
}

func TestAnalyzeSettled(t *testing.T) {
	samples := make([]servo.Sample, 128)
	for i := range samples {
		samples[i] = servo.Sample{Seek: 600, Position: 600}
	}
	r, err := Analyze(samples, 100)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.Amplitude != 0 || r.Peak != 0 || r.Hunting(0.5) {
		t.Errorf("settled run reported oscillation: %+v", r)
	}
}

func TestAnalyzeTooShort(t *testing.T) {
	if _, err := Analyze(make([]servo.Sample, 3), 100); !errors.Is(err, ErrTooShort) {
		t.Errorf("expected ErrTooShort, got %v", err)
	}
}

func TestFloorPow2(t *testing.T) {
	tests := map[int]int{0: 0, 1: 1, 3: 2, 4: 4, 300: 256, 1024: 1024}
	for in, want := range tests {
		if got := floorPow2(in); got != want {
			t.Errorf("floorPow2(%d) = %d, want %d", in, got, want)
		}
	}
}
