package settings

import "errors"

// Domain errors for the settings package, checked with errors.Is().
var (
	// ErrNotFound is returned when a setting name does not exist.
	ErrNotFound = errors.New("settings: not found")

	// ErrInvalidValue is returned when a value is not a permitted kind.
	ErrInvalidValue = errors.New("settings: invalid value")
)
