package integrators

import "github.com/san-kum/threebody/internal/dynamo"

// RK4 is classical fourth-order Runge-Kutta over a flat state.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	r.ensureScratch(n)
	half := dt * 0.5

	copy(r.k1, dyn.Derive(x, t))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + r.k1[i]*half
	}
	copy(r.k2, dyn.Derive(r.scratch, t+half))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + r.k2[i]*half
	}
	copy(r.k3, dyn.Derive(r.scratch, t+half))

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + r.k3[i]*dt
	}
	copy(r.k4, dyn.Derive(r.scratch, t+dt))

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + (r.k1[i]+r.k2[i]*2+r.k3[i]*2+r.k4[i])*dt6
	}

	return result
}
