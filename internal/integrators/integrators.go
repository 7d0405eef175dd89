// Package integrators advances continuous-time models by one fixed step.
package integrators

// State is a point in a model's state space.
type State []float64

// System is a continuous-time model with a scalar input.
type System interface {
	Derive(x State, u float64, t float64) State
}

type Integrator interface {
	Step(sys System, x State, u float64, t, dt float64) State
}

// New returns the integrator called name, or nil if there is none.
func New(name string) Integrator {
	switch name {
	case "euler":
		return NewEuler()
	case "rk4":
		return NewRK4()
	}
	return nil
}

// Names lists the integrators New knows.
func Names() []string {
	return []string{"euler", "rk4"}
}
