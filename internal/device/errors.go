package device

import "errors"

// Domain errors for the device package, checked with errors.Is().
var (
	// ErrNotFound is returned when a device ID does not exist.
	ErrNotFound = errors.New("device: not found")

	// ErrExists is returned when creating a device with an ID that already exists.
	ErrExists = errors.New("device: already exists")

	// ErrInvalid is returned when device validation fails.
	ErrInvalid = errors.New("device: invalid")

	// ErrInvalidType is returned when a device type is not recognised.
	ErrInvalidType = errors.New("device: invalid type")
)
