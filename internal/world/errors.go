package world

import "errors"

// Domain errors for world mutations and stepping.
var (
	// ErrUnknownBody indicates a body that is not part of the world.
	ErrUnknownBody = errors.New("world: unknown body")

	// ErrUnknownConstraint indicates a constraint that is not part of the world.
	ErrUnknownConstraint = errors.New("world: unknown constraint")

	// ErrUnknownSpring indicates a spring that is not part of the world.
	ErrUnknownSpring = errors.New("world: unknown spring")

	// ErrDuplicate indicates an entity that was already added.
	ErrDuplicate = errors.New("world: already added")

	// ErrInvalidConfig indicates a bad configuration or time step.
	ErrInvalidConfig = errors.New("world: invalid configuration")
)
