package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for scene and engine operations.
var (
	// ErrBodyExists indicates a body was added to the engine twice.
	ErrBodyExists = errors.New("dynamo: body already added")

	// ErrBodyNotFound indicates an operation on a body the engine does not know.
	ErrBodyNotFound = errors.New("dynamo: body not found")

	// ErrMultipleBoats indicates a second boat was added to a scene.
	ErrMultipleBoats = errors.New("dynamo: scene already has a boat")

	// ErrInvalidBounds indicates an empty or inverted container extent.
	ErrInvalidBounds = errors.New("dynamo: invalid bounds")

	// ErrInvalidShape indicates a shape with non-positive dimensions.
	ErrInvalidShape = errors.New("dynamo: invalid shape dimensions")

	// ErrContextCanceled indicates a run was interrupted between frames.
	ErrContextCanceled = errors.New("dynamo: run canceled by context")
)

// SimulationError wraps an error with the frame it happened on.
type SimulationError struct {
	Frame   int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
