package optim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/songsen/servoM8/internal/config"
	"github.com/songsen/servoM8/internal/experiment"
)

func TestPoints(t *testing.T) {
	g := NewGridSearch([]string{"a", "b"}, [][]float64{{1, 2}, {10, 20, 30}})
	points := g.Points()
	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}
	if points[0]["a"] != 1 || points[0]["b"] != 10 {
		t.Errorf("first point = %v", points[0])
	}
	if points[1]["a"] != 1 || points[1]["b"] != 20 {
		t.Errorf("last parameter should vary fastest, got %v", points[1])
	}
	if points[5]["a"] != 2 || points[5]["b"] != 30 {
		t.Errorf("last point = %v", points[5])
	}

	if NewGridSearch(nil, nil).Points() != nil {
		t.Error("empty grid should have no points")
	}
}

func TestSearchMismatchedRanges(t *testing.T) {
	g := NewGridSearch([]string{"a", "b"}, [][]float64{{1}})
	_, _, _, err := g.Search(context.Background(), nil, "tracking_error")
	if err == nil {
		t.Fatal("expected error for mismatched ranges")
	}
}

func TestSearchAllFail(t *testing.T) {
	g := NewGridSearch([]string{"a"}, [][]float64{{1, 2}})
	boom := errors.New("boom")
	_, score, candidates, err := g.Search(context.Background(),
		func(map[string]float64) (*experiment.Experiment, error) { return nil, boom },
		"tracking_error")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped build error, got %v", err)
	}
	if !math.IsInf(score, 1) {
		t.Errorf("score = %f, want +Inf", score)
	}
	if len(candidates) != 2 {
		t.Errorf("expected 2 candidates, got %d", len(candidates))
	}
}

func TestSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGridSearch([]string{"a"}, [][]float64{{1, 2, 3}})
	_, _, _, err := g.Search(ctx,
		func(map[string]float64) (*experiment.Experiment, error) { return nil, errors.New("unused") },
		"tracking_error")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestTuneIntegralGain(t *testing.T) {
	base := config.GetPreset("ipd", "step")

	g := NewGridSearch([]string{"integral_gain", "position_gain"}, [][]float64{{0, 0x4000}, {0x200, 0x400}})
	g.SetWorkers(2)

	best, score, candidates, err := Tune(context.Background(), experiment.NewRegistry(), base, g, "tracking_error")
	if err != nil {
		t.Fatalf("tune failed: %v", err)
	}
	if len(candidates) != 4 {
		t.Fatalf("expected 4 candidates, got %d", len(candidates))
	}
	if best["integral_gain"] != 0x4000 {
		t.Errorf("best integral_gain = %v, want 0x4000", best["integral_gain"])
	}
	if score > 5 {
		t.Errorf("best tracking error = %f, want <= 5", score)
	}
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Score < candidates[i-1].Score {
			t.Errorf("candidates not sorted at %d", i)
		}
	}
	if len(base.Registers) != 0 {
		t.Errorf("base config was modified: %v", base.Registers)
	}
}

func TestTuneUnknownRegister(t *testing.T) {
	g := NewGridSearch([]string{"bogus"}, [][]float64{{1}})
	_, _, _, err := Tune(context.Background(), experiment.NewRegistry(), config.DefaultConfig(), g, "tracking_error")
	if err == nil {
		t.Fatal("expected error for unknown register")
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in   string
		want []float64
		err  bool
	}{
		{"5", []float64{5}, false},
		{"0x400", []float64{1024}, false},
		{"1,2,3", []float64{1, 2, 3}, false},
		{"0:10:5", []float64{0, 5, 10}, false},
		{"0x100:0x300:0x100", []float64{256, 512, 768}, false},
		{"0:1:0.5", []float64{0, 0.5, 1}, false},
		{"10:0:1", nil, true},
		{"0:10", nil, true},
		{"x", nil, true},
	}

	for _, tt := range tests {
		got, err := ParseRange(tt.in)
		if tt.err {
			if err == nil {
				t.Errorf("ParseRange(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRange(%q) error: %v", tt.in, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseRange(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-9 {
				t.Errorf("ParseRange(%q)[%d] = %f, want %f", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
