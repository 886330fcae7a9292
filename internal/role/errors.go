package role

import "errors"

var (
	// ErrInvalidMapping is returned when a configured name to value mapping can't
	// be turned into a registry.
	ErrInvalidMapping = errors.New("invalid role mapping")

	// ErrInvalidRole is returned when a value or name is not a member of the registry.
	ErrInvalidRole = errors.New("invalid role")
)
