// Package automation runs scripted sequences of servo experiments and
// randomized robustness trials.
package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/songsen/servoM8/internal/config"
	"github.com/songsen/servoM8/internal/experiment"
	"github.com/songsen/servoM8/internal/servo"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the defaults) and overrides every
// field that is set.
type ScenarioStep struct {
	Name       string           `yaml:"name"`
	Controller string           `yaml:"controller"`
	Preset     string           `yaml:"preset"`
	Profile    string           `yaml:"profile"`
	Cycles     int              `yaml:"cycles"`
	Start      float64          `yaml:"start"`
	Reverse    bool             `yaml:"reverse"`
	Seed       int64            `yaml:"seed"`
	Schedule   []servo.Setpoint `yaml:"schedule"`
	Registers  map[string]int   `yaml:"registers"`
}

// StepResult pairs a step with the experiment that ran it.
type StepResult struct {
	Step       ScenarioStep
	Experiment *experiment.Experiment
	Result     *servo.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

// Config builds the run configuration of the step.
func (s ScenarioStep) Config() (*config.Config, error) {
	controller := s.Controller
	if controller == "" {
		controller = "ipd"
	}

	var cfg *config.Config
	if s.Preset != "" {
		cfg = config.GetPreset(controller, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %s/%s", controller, s.Preset)
		}
	} else {
		cfg = config.DefaultConfig()
	}
	cfg.Controller = controller

	if s.Profile != "" {
		cfg.Profile = s.Profile
	}
	if s.Cycles != 0 {
		cfg.Cycles = s.Cycles
	}
	if s.Start != 0 {
		cfg.Start = s.Start
	}
	if s.Reverse {
		cfg.Reverse = true
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if len(s.Schedule) > 0 {
		cfg.Schedule = append([]servo.Setpoint{}, s.Schedule...)
	}
	for k, v := range s.Registers {
		cfg.Registers[k] = v
	}
	return cfg, cfg.Validate()
}

// RunScenario executes the steps in order. progress, when set, is called
// before each step. Results of completed steps are returned with the error
// of a failing one.
func RunScenario(
	ctx context.Context,
	scenario *Scenario,
	registry *experiment.Registry,
	progress func(i int, step ScenarioStep),
) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if progress != nil {
			progress(i, step)
		}

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp, err := experiment.New(registry, cfg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Experiment: exp, Result: result})
	}
	return results, nil
}

// MonteCarloConfig perturbs the start position and sensor noise seed of a
// base configuration.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64 // max start offset in counts
	NumTrials    int
	Seed         int64
	Tolerance    int // largest final |target - position| counted as settled
}

type MonteCarloResult struct {
	TrialID    int
	Start      float64
	FinalError int
	Settled    bool
	Metrics    map[string]float64
}

// RunMonteCarlo runs the trials one after another; the same Seed gives the
// same trials.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	if cfg.Base == nil || cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("monte carlo needs a base config and at least one trial")
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	for trial := 0; trial < cfg.NumTrials; trial++ {
		run := cfg.Base.Clone()
		offset := (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		run.Start = math.Max(servo.MinPosition, math.Min(servo.MaxPosition, run.Start+offset))
		run.Seed = rng.Int63()

		exp, err := experiment.New(registry, run)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		r := MonteCarloResult{TrialID: trial, Start: run.Start, Metrics: result.Metrics, FinalError: math.MaxInt}
		if n := len(result.Samples); n > 0 {
			last := result.Samples[n-1]
			r.FinalError = absInt(int(last.Target()) - int(last.Position))
		}
		r.Settled = len(result.Errors) == 0 && r.FinalError <= cfg.Tolerance
		results = append(results, r)
	}
	return results, nil
}

// MonteCarloStats counts settled and unsettled trials.
func MonteCarloStats(results []MonteCarloResult) (settled int, unsettled int) {
	for _, r := range results {
		if r.Settled {
			settled++
		} else {
			unsettled++
		}
	}
	return
}

// ErrorSummary describes the spread of final tracking errors across trials.
type ErrorSummary struct {
	Mean   float64
	StdDev float64
	Median float64
	Worst  int
}

// SummarizeErrors ignores trials that never produced a sample.
func SummarizeErrors(results []MonteCarloResult) ErrorSummary {
	var errs []float64
	var sum ErrorSummary
	for _, r := range results {
		if r.FinalError == math.MaxInt {
			continue
		}
		errs = append(errs, float64(r.FinalError))
		sum.Worst = max(sum.Worst, r.FinalError)
	}
	if len(errs) == 0 {
		return sum
	}
	sum.Mean, sum.StdDev = stat.MeanStdDev(errs, nil)
	if len(errs) == 1 {
		sum.StdDev = 0
	}
	sort.Float64s(errs)
	sum.Median = stat.Quantile(0.5, stat.Empirical, errs, nil)
	return sum
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
