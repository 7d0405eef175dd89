package config

import (
	"sort"

	"github.com/songsen/servoM8/internal/control"
	"github.com/songsen/servoM8/internal/plant"
	"github.com/songsen/servoM8/internal/registers"
)

// Profile is the calibration of one servo model: the PID defaults the
// firmware ships for it, its PWM timing and a plant model that behaves
// like it.
type Profile struct {
	Name           string
	Description    string
	PID            control.PIDGains
	PWMFreqDivider uint16
	MinSeek        uint16
	MaxSeek        uint16
	Plant          plant.Params
}

// Apply writes the profile's hardware registers. Controller gains are left
// to the controller's own defaults.
func (p Profile) Apply(regs registers.Store) {
	regs.SetWord(registers.PWMFreqDivider, p.PWMFreqDivider)
	regs.SetWord(registers.MinSeek, p.MinSeek)
	regs.SetWord(registers.MaxSeek, p.MaxSeek)
	regs.SetByte(registers.RegDeadband, p.PID.Deadband)
}

func analogServo(speed float64) plant.Params {
	p := plant.DefaultParams()
	p.NoLoadSpeed = speed
	return p
}

var Profiles = map[string]Profile{
	"unknown": {
		Name:           "unknown",
		Description:    "uncalibrated servo, all gains zero",
		PWMFreqDivider: 0x0010,
		MinSeek:        0x0060,
		MaxSeek:        0x03A0,
		Plant:          plant.DefaultParams(),
	},
	"futaba-s3003": {
		Name:           "futaba-s3003",
		Description:    "Futaba S3003, 0.19 s/60 deg",
		PID:            control.DefaultPIDGains,
		PWMFreqDivider: 0x0008,
		MinSeek:        0x0060,
		MaxSeek:        0x03A0,
		Plant:          analogServo(1790),
	},
	"hitec-hs-311": {
		Name:           "hitec-hs-311",
		Description:    "Hitec HS-311, 0.19 s/60 deg",
		PID:            control.DefaultPIDGains,
		PWMFreqDivider: 0x0008,
		MinSeek:        0x0060,
		MaxSeek:        0x03A0,
		Plant:          analogServo(1790),
	},
	"hitec-hs-475hb": {
		Name:           "hitec-hs-475hb",
		Description:    "Hitec HS-475HB, 0.23 s/60 deg",
		PID:            control.DefaultPIDGains,
		PWMFreqDivider: 0x0008,
		MinSeek:        0x0060,
		MaxSeek:        0x03A0,
		Plant:          analogServo(1480),
	},
}

func GetProfile(name string) (Profile, bool) {
	p, ok := Profiles[name]
	return p, ok
}

func ListProfiles() []string {
	names := make([]string, 0, len(Profiles))
	for name := range Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
