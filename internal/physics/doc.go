// Package physics is the numerical core of the three-body simulation.
//
// It models three point masses under mutual Newtonian gravity:
//
//   - [Body]: position, velocity and mass of one point mass
//   - [System]: the ordered triple of bodies
//   - [Gravity]: force law, system derivative and the RK4 stepper
//   - [Flat]: adapter exposing a [System] as a [dynamo.System] over an
//     18-component state, for the generic steppers in package integrators
//
// All arithmetic is float64. Three-body trajectories are chaotic and
// single precision rounding grows into visible divergence within a few
// orbits.
//
// # Singularity
//
// The force law has no softening term. Two bodies at the same position give
// a NaN or infinite acceleration. [Gravity.Step] lets that propagate;
// [Gravity.StepChecked] refuses to commit a step whose stages go non-finite
// and reports [dynamo.ErrSingular] instead.
//
// # Example
//
//	g := physics.NewGravity(physics.DefaultG)
//	s := physics.FigureEight()
//	for i := 0; i < 10; i++ {
//	    g.StepSystem(&s, 0.0005)
//	}
//	energy := g.Energy(s)
package physics
