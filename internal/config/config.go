package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"gopkg.in/yaml.v3"

	"github.com/songsen/servoM8/internal/plant"
	"github.com/songsen/servoM8/internal/registers"
	"github.com/songsen/servoM8/internal/servo"
)

const (
	DefaultCycles     = 1000
	DefaultSampleRate = servo.DefaultSampleRate
	DefaultStart      = 512.0

	// EnvPrefix marks environment overrides: SERVOM8_CYCLES=200 sets
	// cycles, SERVOM8_PLANT__NOISE=1.5 sets plant.noise.
	EnvPrefix = "SERVOM8_"
)

type Config struct {
	Controller    string           `yaml:"controller"`
	Profile       string           `yaml:"profile"`
	Integrator    string           `yaml:"integrator"`
	Cycles        int              `yaml:"cycles"`
	SampleRate    float64          `yaml:"sample_rate"`
	Seed          int64            `yaml:"seed"`
	Realtime      bool             `yaml:"realtime"`
	Start         float64          `yaml:"start"`
	Reverse       bool             `yaml:"reverse"`
	SwapDirection bool             `yaml:"swap_direction"`
	Estimator     bool             `yaml:"estimator"`
	Schedule      []servo.Setpoint `yaml:"schedule"`
	Registers     map[string]int   `yaml:"registers"`
	Plant         plant.Params     `yaml:"plant"`
}

func DefaultConfig() *Config {
	return &Config{
		Controller: "ipd",
		Profile:    "futaba-s3003",
		Integrator: "rk4",
		Cycles:     DefaultCycles,
		SampleRate: DefaultSampleRate,
		Start:      DefaultStart,
		Schedule:   []servo.Setpoint{},
		Registers:  map[string]int{},
	}
}

// Load layers the defaults, the YAML file at path (skipped when path is
// empty) and SERVOM8_ environment variables, in that order.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "yaml"), nil); err != nil {
		return nil, fmt.Errorf("config: defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), koanfyaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Registers == nil {
		cfg.Registers = map[string]int{}
	}
	return cfg, cfg.Validate()
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything that can be checked without building the run.
func (c *Config) Validate() error {
	if c.Cycles <= 0 {
		return fmt.Errorf("config: cycles must be positive, got %d", c.Cycles)
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("config: sample rate must be positive, got %f", c.SampleRate)
	}
	if c.Start < servo.MinPosition || c.Start > servo.MaxPosition {
		return fmt.Errorf("config: start %f outside [%d, %d]", c.Start, servo.MinPosition, servo.MaxPosition)
	}
	if _, ok := Profiles[c.Profile]; !ok {
		return fmt.Errorf("config: unknown profile %q", c.Profile)
	}
	for name, v := range c.Registers {
		if _, ok := registers.LookupWord(name); ok {
			if v < -0x8000 || v > 0xFFFF {
				return fmt.Errorf("config: register %s value %d does not fit a word", name, v)
			}
			continue
		}
		if _, ok := registers.LookupByte(name); ok {
			if v < 0 || v > 0xFF {
				return fmt.Errorf("config: register %s value %d does not fit a byte", name, v)
			}
			continue
		}
		return fmt.Errorf("config: unknown register %q", name)
	}
	for _, sp := range c.Schedule {
		if sp.Cycle < 0 || sp.Position < servo.MinPosition || sp.Position > servo.MaxPosition {
			return fmt.Errorf("config: invalid setpoint %d at cycle %d", sp.Position, sp.Cycle)
		}
	}
	return nil
}

// ApplyRegisters writes the register overrides. Negative word values are
// stored as two's complement.
func (c *Config) ApplyRegisters(regs registers.Store) {
	for name, v := range c.Registers {
		if w, ok := registers.LookupWord(name); ok {
			regs.SetWord(w, uint16(v))
			continue
		}
		if r, ok := registers.LookupByte(name); ok {
			regs.SetByte(r, uint8(v))
		}
	}
}

// PlantParams are the profile's plant parameters with every non-zero field
// of c.Plant taking precedence.
func (c *Config) PlantParams() plant.Params {
	p := Profiles[c.Profile].Plant
	if c.Plant.NoLoadSpeed != 0 {
		p.NoLoadSpeed = c.Plant.NoLoadSpeed
	}
	if c.Plant.TimeConstant != 0 {
		p.TimeConstant = c.Plant.TimeConstant
	}
	if c.Plant.Friction != 0 {
		p.Friction = c.Plant.Friction
	}
	if c.Plant.Noise != 0 {
		p.Noise = c.Plant.Noise
	}
	if c.Plant.Substeps != 0 {
		p.Substeps = c.Plant.Substeps
	}
	return p
}

// Clone returns a copy sharing no slices or maps with c.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Schedule = append([]servo.Setpoint{}, c.Schedule...)
	cp.Registers = make(map[string]int, len(c.Registers))
	for k, v := range c.Registers {
		cp.Registers[k] = v
	}
	return &cp
}

func (c *Config) LoopConfig() servo.Config {
	lc := servo.DefaultConfig()
	lc.Cycles = c.Cycles
	lc.SampleRate = c.SampleRate
	lc.Realtime = c.Realtime
	lc.Schedule = append([]servo.Setpoint(nil), c.Schedule...)
	return lc
}
