package servo

import (
	"context"
	"sort"

	"github.com/songsen/servoM8/internal/registers"
	"golang.org/x/time/rate"
)

// Loop is the servo's polling loop: wait for a sample, run the controller,
// hand the command to the actuator.
type Loop struct {
	regs       registers.Store
	controller Controller
	sampler    Sampler
	actuator   Actuator
	estimator  Estimator
	metrics    []Metric
	observers  []Observer

	cfg      Config
	schedule []Setpoint
	next     int
	cycle    int
}

func NewLoop(regs registers.Store, controller Controller, sampler Sampler, actuator Actuator) *Loop {
	return &Loop{
		regs:       regs,
		controller: controller,
		sampler:    sampler,
		actuator:   actuator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (l *Loop) SetEstimator(e Estimator)   { l.estimator = e }
func (l *Loop) AddMetric(m Metric)         { l.metrics = append(l.metrics, m) }
func (l *Loop) AddObserver(o Observer)     { l.observers = append(l.observers, o) }
func (l *Loop) Controller() Controller     { return l.controller }
func (l *Loop) Registers() registers.Store { return l.regs }

// Cycle is the number of completed control cycles since Start.
func (l *Loop) Cycle() int { return l.cycle }

// Start validates cfg, initializes the controller and seeds the seek
// position with the first sampled position so the servo holds still.
func (l *Loop) Start(cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	if cfg.MaxIdlePolls <= 0 {
		cfg.MaxIdlePolls = DefaultConfig().MaxIdlePolls
	}
	l.cfg = cfg
	l.cycle = 0
	l.next = 0
	l.schedule = append(l.schedule[:0], cfg.Schedule...)
	sort.SliceStable(l.schedule, func(i, j int) bool {
		return l.schedule[i].Cycle < l.schedule[j].Cycle
	})

	l.controller.Init()

	position, err := l.waitSample()
	if err != nil {
		return err
	}
	// The seek register lives in the reversed frame when the sense is
	// reversed.
	if l.regs.Byte(registers.RegReverseSeek) != 0 {
		position = MaxPosition - position
	}
	l.regs.SetWord(registers.SeekPosition, uint16(position))
	l.regs.SetWord(registers.SeekVelocity, 0)
	return nil
}

// Run starts the loop and executes cfg.Cycles control cycles. With
// cfg.Realtime set, cycles are paced at cfg.SampleRate.
func (l *Loop) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := l.Start(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Samples: make([]Sample, 0, cfg.Cycles),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range l.metrics {
		m.Reset()
	}

	var limiter *rate.Limiter
	if cfg.Realtime {
		limiter = rate.NewLimiter(rate.Limit(cfg.SampleRate), 1)
	}

	for i := 0; i < cfg.Cycles; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return result, err
			}
		}

		s, err := l.Step()
		if err != nil {
			result.Errors = append(result.Errors, err)
			break
		}
		result.Samples = append(result.Samples, s)
		result.Cycles++
	}

	for _, m := range l.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// Step runs a single control cycle. Start must have been called.
func (l *Loop) Step() (Sample, error) {
	for l.next < len(l.schedule) && l.schedule[l.next].Cycle <= l.cycle {
		l.regs.SetWord(registers.SeekPosition, uint16(l.schedule[l.next].Position))
		l.next++
	}

	position, err := l.waitSample()
	if err != nil {
		return Sample{}, &CycleError{Cycle: l.cycle, Wrapped: err}
	}
	if position < MinPosition || position > MaxPosition {
		return Sample{}, &CycleError{Cycle: l.cycle, Position: position, Wrapped: ErrPositionRange}
	}

	if l.estimator != nil {
		l.estimator.Estimate(position)
	}

	pwm := l.controller.PositionToPWM(position)
	drive := l.actuator.Update(position, pwm)

	s := Sample{
		Cycle:    l.cycle,
		Position: position,
		Seek:     int16(l.regs.Word(registers.SeekPosition)),
		PWM:      pwm,
		Drive:    drive,
		Reversed: l.regs.Byte(registers.RegReverseSeek) != 0,
	}
	if ir, ok := l.controller.(IntegralReporter); ok {
		s.Integral = ir.Integral()
	}

	for _, m := range l.metrics {
		m.Observe(s)
	}
	for _, obs := range l.observers {
		obs.OnCycle(s)
	}

	l.cycle++
	return s, nil
}

func (l *Loop) waitSample() (int16, error) {
	for i := 0; i < l.cfg.MaxIdlePolls; i++ {
		if l.sampler.Ready() {
			return l.sampler.Position(), nil
		}
	}
	return 0, ErrSamplerStalled
}
