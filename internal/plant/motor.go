// Package plant simulates the mechanics a servo controller drives: a
// gear-motor turning a potentiometer read by a 10-bit ADC.
package plant

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/songsen/servoM8/internal/integrators"
)

const (
	maxCount = 1023
	maxDrive = 255
)

// Params describe the motor and sensor. Speeds and positions are in ADC
// counts.
type Params struct {
	// NoLoadSpeed is the output shaft speed at full drive, counts/s.
	NoLoadSpeed float64 `yaml:"no_load_speed" json:"no_load_speed"`
	// TimeConstant is the mechanical time constant in seconds.
	TimeConstant float64 `yaml:"time_constant" json:"time_constant"`
	// Friction is the smallest drive magnitude that turns the motor.
	Friction int16 `yaml:"friction" json:"friction"`
	// Noise is the standard deviation of the sensor noise in counts.
	Noise float64 `yaml:"noise" json:"noise"`
	// Substeps is the number of integration steps per sample.
	Substeps int `yaml:"substeps" json:"substeps"`
}

func DefaultParams() Params {
	return Params{
		NoLoadSpeed:  1600,
		TimeConstant: 0.03,
		Friction:     10,
		Substeps:     10,
	}
}

func (p Params) validate() error {
	if p.NoLoadSpeed <= 0 {
		return fmt.Errorf("plant: no-load speed must be positive, got %f", p.NoLoadSpeed)
	}
	if p.TimeConstant <= 0 {
		return fmt.Errorf("plant: time constant must be positive, got %f", p.TimeConstant)
	}
	if p.Friction < 0 || p.Friction > maxDrive {
		return fmt.Errorf("plant: friction %d outside [0, %d]", p.Friction, maxDrive)
	}
	if p.Noise < 0 {
		return fmt.Errorf("plant: noise must not be negative, got %f", p.Noise)
	}
	if p.Substeps <= 0 {
		return fmt.Errorf("plant: substeps must be positive, got %d", p.Substeps)
	}
	return nil
}

// Motor is a first-order motor model with hard end stops. The state is
// (position, velocity). Each Ready call advances it by one sample period,
// so a Motor stands in for the sample clock as well as the mechanics.
type Motor struct {
	params Params
	integ  integrators.Integrator
	rng    *rand.Rand
	period float64

	x     integrators.State
	t     float64
	drive int16
}

// NewMotor builds a motor sampled every period seconds, resting at
// position. seed fixes the sensor noise sequence.
func NewMotor(params Params, integ integrators.Integrator, period float64, position float64, seed int64) (*Motor, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if integ == nil {
		return nil, fmt.Errorf("plant: no integrator")
	}
	if period <= 0 {
		return nil, fmt.Errorf("plant: sample period must be positive, got %f", period)
	}
	if position < 0 || position > maxCount {
		return nil, fmt.Errorf("plant: initial position %f outside [0, %d]", position, maxCount)
	}
	return &Motor{
		params: params,
		integ:  integ,
		rng:    rand.New(rand.NewSource(seed)),
		period: period,
		x:      integrators.State{position, 0},
	}, nil
}

// Derive implements integrators.System. u is the normalized drive.
func (m *Motor) Derive(x integrators.State, u float64, t float64) integrators.State {
	return integrators.State{
		x[1],
		(m.params.NoLoadSpeed*u - x[1]) / m.params.TimeConstant,
	}
}

// Apply sets the drive held until the next call.
func (m *Motor) Apply(drive int16) {
	m.drive = max(min(drive, maxDrive), -maxDrive)
}

// Ready advances the model by one sample period and reports a sample.
func (m *Motor) Ready() bool {
	u := 0.0
	if m.drive >= m.params.Friction || m.drive <= -m.params.Friction {
		u = float64(m.drive) / maxDrive
	}

	dt := m.period / float64(m.params.Substeps)
	for i := 0; i < m.params.Substeps; i++ {
		m.x = m.integ.Step(m, m.x, u, m.t, dt)
		m.t += dt
		m.endStops()
	}
	return true
}

func (m *Motor) endStops() {
	if m.x[0] < 0 {
		m.x[0], m.x[1] = 0, 0
	}
	if m.x[0] > maxCount {
		m.x[0], m.x[1] = maxCount, 0
	}
}

// Position is the ADC reading of the potentiometer, noise included.
func (m *Motor) Position() int16 {
	p := m.x[0]
	if m.params.Noise > 0 {
		p += m.rng.NormFloat64() * m.params.Noise
	}
	p = math.Round(p)
	return int16(max(min(p, maxCount), 0))
}

// Angle is the noiseless shaft position in counts.
func (m *Motor) Angle() float64 { return m.x[0] }

// Speed is the shaft velocity in counts per second.
func (m *Motor) Speed() float64 { return m.x[1] }

// Time is the simulated time in seconds.
func (m *Motor) Time() float64 { return m.t }

func (m *Motor) Drive() int16 { return m.drive }
