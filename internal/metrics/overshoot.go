package metrics

import "github.com/songsen/servoM8/internal/servo"

// Overshoot is the largest travel, in counts, past the seek position after
// its most recent change, measured in the direction of that change.
type Overshoot struct {
	name      string
	started   bool
	seek      int16
	direction int32
	peak      int32
}

func NewOvershoot() *Overshoot {
	return &Overshoot{
		name: "overshoot",
	}
}

func (o *Overshoot) Name() string {
	return o.name
}

func (o *Overshoot) Observe(s servo.Sample) {
	target := s.Target()
	if !o.started || target != o.seek {
		o.direction = 0
		if o.started {
			switch {
			case target > s.Position:
				o.direction = 1
			case target < s.Position:
				o.direction = -1
			}
		}
		o.started = true
		o.seek = target
		o.peak = 0
	}

	if o.direction == 0 {
		return
	}
	past := (int32(s.Position) - int32(target)) * o.direction
	if past > o.peak {
		o.peak = past
	}
}

func (o *Overshoot) Value() float64 {
	return float64(o.peak)
}

func (o *Overshoot) Reset() {
	o.started = false
	o.seek = 0
	o.direction = 0
	o.peak = 0
}
