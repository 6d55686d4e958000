package device

import (
	"fmt"
	"strings"
)

// maxNameLength bounds device and room names from API input.
const maxNameLength = 100

// Validate checks a device for API creation.
// Identity and classification fields are required; state fields are not,
// since they default at the store level.
func (d *Device) Validate() error {
	if strings.TrimSpace(d.DeviceID) == "" {
		return fmt.Errorf("%w: deviceId is required", ErrInvalid)
	}
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if len(d.Name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalid, maxNameLength)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, d.Type)
	}
	if len(d.Room) > maxNameLength {
		return fmt.Errorf("%w: room exceeds %d characters", ErrInvalid, maxNameLength)
	}
	return nil
}
