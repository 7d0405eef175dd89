// Package experiment assembles a closed-loop servo run from a
// configuration: register file, controller, motor driver and plant.
package experiment

import (
	"context"
	"fmt"

	"github.com/songsen/servoM8/internal/config"
	"github.com/songsen/servoM8/internal/control"
	"github.com/songsen/servoM8/internal/plant"
	"github.com/songsen/servoM8/internal/pwm"
	"github.com/songsen/servoM8/internal/registers"
	"github.com/songsen/servoM8/internal/servo"
	"github.com/songsen/servoM8/internal/storage"
)

type Experiment struct {
	cfg        *config.Config
	regs       *registers.Table
	controller servo.Controller
	estimator  *control.Estimator
	motor      *plant.Motor
	driver     *pwm.Driver
	loop       *servo.Loop
}

// New builds a ready-to-run experiment. Registers are initialized the way
// the servo does at power-up: identity, controller defaults, profile, then
// the configured overrides.
func New(reg *Registry, cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	profile, _ := config.GetProfile(cfg.Profile)

	e := &Experiment{cfg: cfg, regs: registers.NewTable()}

	ctrl, err := reg.GetController(cfg.Controller, e.regs, profile)
	if err != nil {
		return nil, err
	}
	e.controller = ctrl

	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	lc := cfg.LoopConfig()
	e.motor, err = plant.NewMotor(cfg.PlantParams(), integ, lc.Period().Seconds(), cfg.Start, cfg.Seed)
	if err != nil {
		return nil, err
	}

	ctrl.LoadDefaults()
	if cfg.Estimator || reg.NeedsEstimator(cfg.Controller) {
		e.estimator = control.NewEstimator(e.regs)
		e.estimator.LoadDefaults()
		e.estimator.Init()
	}
	profile.Apply(e.regs)
	if cfg.Reverse {
		e.regs.SetByte(registers.RegReverseSeek, 1)
	}
	cfg.ApplyRegisters(e.regs)

	e.driver = pwm.NewDriver(e.regs, e.motor)
	e.driver.SetSwap(cfg.SwapDirection)
	e.driver.Enable()

	e.loop = servo.NewLoop(e.regs, ctrl, e.motor, e.driver)
	if e.estimator != nil {
		e.loop.SetEstimator(e.estimator)
	}
	for _, m := range reg.DefaultMetrics() {
		e.loop.AddMetric(m)
	}
	return e, nil
}

func (e *Experiment) Run(ctx context.Context) (*servo.Result, error) {
	if e.loop == nil {
		return nil, fmt.Errorf("experiment not set up")
	}
	return e.loop.Run(ctx, e.cfg.LoopConfig())
}

func (e *Experiment) Config() *config.Config        { return e.cfg }
func (e *Experiment) Registers() *registers.Table   { return e.regs }
func (e *Experiment) Controller() servo.Controller  { return e.controller }
func (e *Experiment) Estimator() *control.Estimator { return e.estimator }
func (e *Experiment) Motor() *plant.Motor           { return e.motor }
func (e *Experiment) Driver() *pwm.Driver           { return e.driver }
func (e *Experiment) Loop() *servo.Loop             { return e.loop }

// ConfigRegisters returns the named configuration registers as they stand.
func (e *Experiment) ConfigRegisters() map[string]uint16 {
	out := make(map[string]uint16)
	for _, w := range registers.ConfigWords {
		out[w.Name] = e.regs.Word(w)
	}
	for _, r := range []registers.Reg{registers.RegDeadband, registers.RegReverseSeek} {
		out[r.String()] = uint16(e.regs.Byte(r))
	}
	return out
}

// Metadata describes the run for storage.
func (e *Experiment) Metadata() storage.RunMetadata {
	return storage.RunMetadata{
		Controller: e.cfg.Controller,
		Profile:    e.cfg.Profile,
		Integrator: e.cfg.Integrator,
		Seed:       e.cfg.Seed,
		SampleRate: e.cfg.SampleRate,
		Schedule:   e.cfg.Schedule,
		Registers:  e.ConfigRegisters(),
	}
}
