package integrators

// RK4 is the classic fourth-order Runge-Kutta method. Stage buffers are
// reused between steps, so an RK4 must not be shared across goroutines.
type RK4 struct {
	k1, k2, k3 State
	scratch    State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.scratch) != n {
		r.k1 = make(State, n)
		r.k2 = make(State, n)
		r.k3 = make(State, n)
		r.scratch = make(State, n)
	}
}

func (r *RK4) Step(sys System, x State, u float64, t, dt float64) State {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k1, sys.Derive(x, u, t))

	for i := range x {
		r.scratch[i] = x[i] + 0.5*dt*r.k1[i]
	}
	copy(r.k2, sys.Derive(r.scratch, u, t+0.5*dt))

	for i := range x {
		r.scratch[i] = x[i] + 0.5*dt*r.k2[i]
	}
	copy(r.k3, sys.Derive(r.scratch, u, t+0.5*dt))

	for i := range x {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	k4 := sys.Derive(r.scratch, u, t+dt)

	result := make(State, n)
	for i := range x {
		result[i] = x[i] + dt/6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+k4[i])
	}
	return result
}
