package integrators

import "github.com/san-kum/threebody/internal/dynamo"

// Names lists the steppers New accepts.
func Names() []string {
	return []string{"rk4", "verlet", "euler"}
}

// New returns a stepper by name.
func New(name string) (dynamo.Integrator, bool) {
	switch name {
	case "rk4":
		return NewRK4(), true
	case "verlet":
		return NewVerlet(), true
	case "euler":
		return NewEuler(), true
	}
	return nil, false
}
