package command

import "errors"

var (
	// ErrUnknownCommand is returned for verbs outside the fixed command
	// set. Nothing is published and no state is touched.
	ErrUnknownCommand = errors.New("command: unknown command")

	// ErrUnsupportedToggle is returned when a device type has no toggle
	// semantics.
	ErrUnsupportedToggle = errors.New("command: device type cannot be toggled")

	// ErrPublishFailed is returned when the broker rejected or timed out
	// the outbound message. No optimistic state was written.
	ErrPublishFailed = errors.New("command: publish failed")
)
