// Package dynamo provides the primitives shared by the three-body packages.
//
// The package defines:
//
//   - [State]: flat vector view of a system (positions first, then velocities)
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical integrator interface
//   - domain errors such as [ErrSingular] and the [SimulationError] wrapper
//
// # Example
//
//	flat := physics.NewFlat(physics.NewGravity(1), masses)
//	integ := integrators.NewRK4()
//	x = integ.Step(flat, x, t, dt)
//
// # Thread Safety
//
// Nothing in this package holds shared mutable state. Integrators keep
// scratch buffers and must not be shared between goroutines.
package dynamo
