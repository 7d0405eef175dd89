package servo

import (
	"fmt"
	"time"
)

const (
	// MinPosition and MaxPosition bound the 10-bit sensor domain.
	MinPosition = 0
	MaxPosition = 1023

	// MaxOutput bounds the drive command symmetrically.
	MaxOutput = 255
	MinOutput = -MaxOutput

	// DefaultSampleRate is the firmware's ADC sample clock in Hz.
	DefaultSampleRate = 100.0
)

type Controller interface {
	// Init clears the controller's persistent state.
	Init()
	// LoadDefaults writes the controller's configuration defaults to its registers.
	LoadDefaults()
	// PositionToPWM runs one control cycle and returns a command in [-255, 255].
	PositionToPWM(position int16) int16
}

// Sampler is polled once per loop iteration.
type Sampler interface {
	Ready() bool
	Position() int16
}

type Actuator interface {
	// Update applies pwm and returns the drive actually applied.
	Update(position, pwm int16) int16
}

type Estimator interface {
	Estimate(position int16)
}

// IntegralReporter is implemented by controllers with an integral term.
type IntegralReporter interface {
	Integral() int16
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnCycle(s Sample)
}

// Setpoint moves the seek position when the loop reaches Cycle.
type Setpoint struct {
	Cycle    int   `yaml:"cycle" json:"cycle"`
	Position int16 `yaml:"position" json:"position"`
}

type Config struct {
	Cycles     int
	SampleRate float64
	Realtime   bool
	Schedule   []Setpoint
	// MaxIdlePolls bounds how long a cycle waits for the sampler.
	MaxIdlePolls int
}

func DefaultConfig() Config {
	return Config{
		Cycles:       1000,
		SampleRate:   DefaultSampleRate,
		MaxIdlePolls: 1000,
	}
}

// Period is the time between samples.
func (c Config) Period() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.SampleRate)
}

func (c Config) validate() error {
	if c.Cycles <= 0 {
		return fmt.Errorf("%w: cycles must be positive, got %d", ErrInvalidConfig, c.Cycles)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %f", ErrInvalidConfig, c.SampleRate)
	}
	for _, sp := range c.Schedule {
		if sp.Position < MinPosition || sp.Position > MaxPosition {
			return fmt.Errorf("%w: setpoint %d at cycle %d outside [%d, %d]",
				ErrInvalidConfig, sp.Position, sp.Cycle, MinPosition, MaxPosition)
		}
		if sp.Cycle < 0 {
			return fmt.Errorf("%w: setpoint cycle %d is negative", ErrInvalidConfig, sp.Cycle)
		}
	}
	return nil
}

// Sample records one control cycle.
type Sample struct {
	Cycle    int   `json:"cycle"`
	Position int16 `json:"position"`
	Seek     int16 `json:"seek"`
	PWM      int16 `json:"pwm"`
	Drive    int16 `json:"drive"`
	Integral int16 `json:"integral"`
	Reversed bool  `json:"reversed,omitempty"` // Seek is held in the reversed frame
}

// Target is the seek position in sensor coordinates.
func (s Sample) Target() int16 {
	if s.Reversed {
		return MaxPosition - s.Seek
	}
	return s.Seek
}

type Result struct {
	Samples []Sample
	Metrics map[string]float64
	Cycles  int
	Errors  []error
}
