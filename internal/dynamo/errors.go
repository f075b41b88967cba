package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidMass indicates a body constructed with a non-positive or non-finite mass.
	ErrInvalidMass = errors.New("dynamo: mass must be positive and finite")

	// ErrSingular indicates two bodies at (numerically) the same position.
	ErrSingular = errors.New("dynamo: zero separation between bodies")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrHalted is returned by a driver that already hit a fatal numeric failure.
	ErrHalted = errors.New("dynamo: simulation halted after numeric failure")

	// ErrUnknownPreset indicates a preset name with no registered initial conditions.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrDimensionMismatch indicates a flat state of the wrong length.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
