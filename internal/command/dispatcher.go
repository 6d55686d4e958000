package command

import (
	"context"
	"fmt"

	"github.com/homeguardhq/homeguard-core/internal/device"
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/logging"
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/mqtt"
	"github.com/homeguardhq/homeguard-core/internal/reconcile"
	"github.com/homeguardhq/homeguard-core/internal/settings"
)

// Publisher is the outbound transport surface the dispatcher needs.
// Implemented by mqtt.Client.
type Publisher interface {
	PublishString(topic, payload string) error
}

// Dispatcher validates control commands, publishes them to the broker, and
// records the expected outcome optimistically.
//
// Publish happens before the store write: if the broker rejects the
// message, no state changes and no rollback is needed. The optimistic
// record is tagged pending until the device's own status report comes back
// through the reconciler and overwrites it.
type Dispatcher struct {
	publisher Publisher
	devices   device.Repository
	settings  settings.Repository
	logger    *logging.Logger

	notifier reconcile.Notifier // optional
}

// NewDispatcher creates a Dispatcher over the given transport and stores.
func NewDispatcher(publisher Publisher, devices device.Repository, settingsRepo settings.Repository, logger *logging.Logger) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		devices:   devices,
		settings:  settingsRepo,
		logger:    logger.With("component", "dispatcher"),
	}
}

// SetNotifier enables WebSocket push of optimistic state changes.
func (d *Dispatcher) SetNotifier(n reconcile.Notifier) {
	d.notifier = n
}

// Dispatch publishes the command and applies its optimistic effect.
// Unknown verbs fail with ErrUnknownCommand before anything is published.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) error {
	r, ok := routes[cmd]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}

	if err := d.publisher.PublishString(r.topic, r.payload); err != nil {
		return fmt.Errorf("%w: %s on %s: %v", ErrPublishFailed, cmd, r.topic, err)
	}
	d.logger.Info("command dispatched", "command", string(cmd), "topic", r.topic)

	// ARM/DISARM own the system-wide arming state.
	if cmd == CommandArm || cmd == CommandDisarm {
		setting := settings.Setting{
			SettingName: settings.SettingSystemArmed,
			Value:       settings.BoolValue(*r.armed),
		}
		if err := d.settings.Upsert(ctx, setting); err != nil {
			return fmt.Errorf("recording %s: %w", settings.SettingSystemArmed, err)
		}
		if d.notifier != nil {
			d.notifier.SettingUpdated(setting)
		}
	}

	if r.deviceID != "" {
		change := device.StateChange{IsArmed: r.armed, Pending: true}
		if r.status != "" {
			status := r.status
			change.Status = &status
		}
		if err := d.applyOptimistic(ctx, r.deviceID, change); err != nil {
			return err
		}
	}
	return nil
}

// Toggle reads a device's current status and dispatches the command that
// flips it. Only locks, sirens, and lights have toggle semantics.
func (d *Dispatcher) Toggle(ctx context.Context, deviceID string) error {
	dev, err := d.devices.GetByID(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("reading device %s: %w", deviceID, err)
	}

	switch dev.Type {
	case device.TypeSmartLock:
		if dev.Status == device.StatusLocked {
			return d.Dispatch(ctx, CommandUnlock)
		}
		return d.Dispatch(ctx, CommandLock)

	case device.TypeSiren:
		if dev.Status == device.StatusActive {
			return d.Dispatch(ctx, CommandDeactivate)
		}
		return d.Dispatch(ctx, CommandActivate)

	case device.TypeSmartLight:
		// Lights have no command verb; they are driven directly on their
		// own set topic.
		target := device.StatusOn
		if dev.Status == device.StatusOn {
			target = device.StatusOff
		}
		if err := d.publisher.PublishString(mqtt.TopicLightSet, target); err != nil {
			return fmt.Errorf("%w: light %s: %v", ErrPublishFailed, target, err)
		}
		d.logger.Info("light toggled", "device", deviceID, "target", target)
		status := target
		return d.applyOptimistic(ctx, deviceID, device.StateChange{Status: &status, Pending: true})

	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedToggle, dev.Type)
	}
}

// applyOptimistic writes a pending state change and pushes the updated
// record to the notifier.
func (d *Dispatcher) applyOptimistic(ctx context.Context, deviceID string, change device.StateChange) error {
	if err := d.devices.ApplyState(ctx, reconcile.SeedFor(deviceID), change); err != nil {
		return fmt.Errorf("recording optimistic state for %s: %w", deviceID, err)
	}
	if d.notifier != nil {
		if updated, err := d.devices.GetByID(ctx, deviceID); err == nil {
			d.notifier.DeviceUpdated(*updated)
		}
	}
	return nil
}
