package servo

import (
	"errors"
	"fmt"
)

// Domain errors for loop operations.
var (
	// ErrInvalidConfig indicates a loop configuration that cannot run.
	ErrInvalidConfig = errors.New("servo: invalid loop configuration")

	// ErrPositionRange indicates a sampler produced a position outside [0, 1023].
	ErrPositionRange = errors.New("servo: sampled position outside sensor domain")

	// ErrSamplerStalled indicates the sampler never became ready.
	ErrSamplerStalled = errors.New("servo: sampler produced no sample")
)

// CycleError wraps an error with the cycle it occurred in.
type CycleError struct {
	Cycle    int
	Position int16
	Wrapped  error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle %d (position=%d): %v", e.Cycle, e.Position, e.Wrapped)
}

func (e *CycleError) Unwrap() error {
	return e.Wrapped
}
