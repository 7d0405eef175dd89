package metrics

import "github.com/songsen/servoM8/internal/servo"

// TrackingError is the mean |target - position| over the most recent window
// cycles, or over the whole run when window is zero.
type TrackingError struct {
	name   string
	window int
	errs   []int32
	next   int
	sum    int64
	count  int
}

func NewTrackingError(window int) *TrackingError {
	t := &TrackingError{
		name:   "tracking_error",
		window: max(window, 0),
	}
	if t.window > 0 {
		t.errs = make([]int32, t.window)
	}
	return t
}

func (t *TrackingError) Name() string {
	return t.name
}

func (t *TrackingError) Observe(s servo.Sample) {
	e := int32(s.Target()) - int32(s.Position)
	if e < 0 {
		e = -e
	}

	if t.window == 0 {
		t.sum += int64(e)
		t.count++
		return
	}

	if t.count == t.window {
		t.sum -= int64(t.errs[t.next])
	} else {
		t.count++
	}
	t.errs[t.next] = e
	t.sum += int64(e)
	t.next = (t.next + 1) % t.window
}

func (t *TrackingError) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return float64(t.sum) / float64(t.count)
}

func (t *TrackingError) Reset() {
	t.sum = 0
	t.count = 0
	t.next = 0
}
