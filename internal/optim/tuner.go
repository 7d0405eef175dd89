package optim

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/songsen/servoM8/internal/config"
	"github.com/songsen/servoM8/internal/experiment"
	"github.com/songsen/servoM8/internal/registers"
)

// Tune searches register values for base. Each grid parameter names a
// register; its values are written as register overrides on a copy of base.
func Tune(
	ctx context.Context,
	reg *experiment.Registry,
	base *config.Config,
	grid *GridSearch,
	metricName string,
) (map[string]float64, float64, []Candidate, error) {
	for _, name := range grid.paramNames {
		if _, ok := registers.LookupWord(name); ok {
			continue
		}
		if _, ok := registers.LookupByte(name); ok {
			continue
		}
		return nil, 0, nil, fmt.Errorf("optim: unknown register %q", name)
	}

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for name, v := range params {
			cfg.Registers[name] = int(math.Round(v))
		}
		return experiment.New(reg, cfg)
	}
	return grid.Search(ctx, build, metricName)
}

// ParseRange parses "start:stop:step" into the values start, start+step, ...
// up to and including stop. A single number is a one-value range and
// "a,b,c" lists the values.
func ParseRange(s string) ([]float64, error) {
	if strings.Contains(s, ",") {
		var vals []float64
		for _, f := range strings.Split(s, ",") {
			v, err := parseNumber(f)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		return vals, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) == 1 {
		v, err := parseNumber(parts[0])
		if err != nil {
			return nil, err
		}
		return []float64{v}, nil
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("optim: range %q is not start:stop:step", s)
	}

	var bounds [3]float64
	for i, p := range parts {
		v, err := parseNumber(p)
		if err != nil {
			return nil, err
		}
		bounds[i] = v
	}
	start, stop, step := bounds[0], bounds[1], bounds[2]
	if step <= 0 || stop < start {
		return nil, fmt.Errorf("optim: range %q is empty", s)
	}
	var vals []float64
	for v := start; v <= stop+step*1e-9; v += step {
		vals = append(vals, v)
	}
	return vals, nil
}

// parseNumber accepts decimal and 0x-prefixed hex register values.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 0, 32); err == nil {
		return float64(i), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("optim: bad number %q", s)
	}
	return v, nil
}
