package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/homeguardhq/homeguard-core/internal/activity"
	"github.com/homeguardhq/homeguard-core/internal/device"
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/logging"
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/mqtt"
	"github.com/homeguardhq/homeguard-core/internal/settings"
)

// messageTimeout bounds the store round trips for a single message, so a
// dead store fails one message fast instead of hanging the handler.
const messageTimeout = 5 * time.Second

// Telemetry receives numeric sensor readings for time-series export.
// Implemented by influxdb.Client; nil disables export.
type Telemetry interface {
	WriteSensorReading(deviceID, measurement string, value float64)
}

// Notifier receives change notifications for live dashboard push.
// Implemented by the API WebSocket hub; nil disables push.
type Notifier interface {
	DeviceUpdated(d device.Device)
	SettingUpdated(s settings.Setting)
	EntryLogged(e activity.Entry)
}

// Reconciler folds inbound transport messages into durable per-device state
// and the activity log.
//
// Each message produces at most one device mutation, at most one setting
// mutation, and at most one log entry. Messages on unrecognised topics are
// ignored. Writes are upserts keyed by device identity, so redelivery of an
// identical message converges on the same stored state (a duplicate log
// entry is expected and kept).
type Reconciler struct {
	devices  device.Repository
	settings settings.Repository
	log      activity.Repository
	logger   *logging.Logger

	telemetry Telemetry // optional
	notifier  Notifier  // optional
}

// New creates a Reconciler over the three stores.
func New(devices device.Repository, settingsRepo settings.Repository, log activity.Repository, logger *logging.Logger) *Reconciler {
	return &Reconciler{
		devices:  devices,
		settings: settingsRepo,
		log:      log,
		logger:   logger.With("component", "reconciler"),
	}
}

// SetTelemetry enables time-series export of sensor readings.
func (r *Reconciler) SetTelemetry(t Telemetry) {
	r.telemetry = t
}

// SetNotifier enables WebSocket push of state changes.
func (r *Reconciler) SetNotifier(n Notifier) {
	r.notifier = n
}

// Start subscribes the reconciler to the full fixed topic set.
// The client restores these subscriptions itself after reconnects.
func (r *Reconciler) Start(client *mqtt.Client) error {
	if err := client.SubscribeAll(mqtt.InboundTopics(), r.handleMessage); err != nil {
		return fmt.Errorf("subscribing reconciler: %w", err)
	}
	r.logger.Info("subscribed to device topics", "topics", len(mqtt.InboundTopics()))
	return nil
}

// handleMessage adapts Process to the transport callback. Errors are
// terminal for the single message only: they are recorded in the activity
// log (best effort) and returned for transport-level logging, and the
// subscriber loop continues.
func (r *Reconciler) handleMessage(topic string, payload []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), messageTimeout)
	defer cancel()

	if err := r.Process(ctx, topic, string(payload)); err != nil {
		r.logger.Error("message processing failed", "topic", topic, "error", err)
		if logErr := r.log.Append(ctx,
			fmt.Sprintf("Failed to process message on %s: %v", topic, err),
			activity.TypeDanger,
		); logErr != nil {
			r.logger.Error("could not record processing failure", "error", logErr)
		}
		return err
	}
	return nil
}

// Process applies one (topic, payload) pair to the stores.
//
// Payloads are plain UTF-8 text per the wire contract. Unrecognised topics
// are accepted without error and produce no mutation and no log entry.
func (r *Reconciler) Process(ctx context.Context, topic, payload string) error {
	switch topic {
	case mqtt.TopicLockStatus:
		return r.applyLockStatus(ctx, payload)
	case mqtt.TopicMotion:
		return r.applyMotion(ctx, payload)
	case mqtt.TopicDistance:
		return r.applyDistance(ctx, payload)
	case mqtt.TopicAlarm:
		return r.applyAlarm(ctx, payload)
	case mqtt.TopicArmed:
		return r.applyArmed(ctx, payload)
	case mqtt.TopicRFIDEvents:
		return r.applyRFIDEvent(ctx, payload)
	default:
		return nil
	}
}

// applyLockStatus handles home/lock/status: "LOCKED"/"UNLOCKED".
// The lock's isArmed flag mirrors the LOCKED status.
func (r *Reconciler) applyLockStatus(ctx context.Context, payload string) error {
	status := payload
	armed := status == device.StatusLocked

	if err := r.applyDevice(ctx, DeviceSmartLock, device.StateChange{
		Status:  &status,
		IsArmed: &armed,
	}); err != nil {
		return err
	}

	message := "Smart Lock status: " + status
	entryType := activity.TypeInfo

	// Proximity-unlock correlation: an UNLOCKED report while an object sits
	// within close range of the door sensor means a close-range credential
	// opened it. Read-then-write across two independent records; a race
	// against a concurrent distance update is accepted.
	if status == device.StatusUnlocked {
		ultrasonic, err := r.devices.GetByID(ctx, DeviceUltrasonicSensor)
		switch {
		case err == nil:
			if ultrasonic.Value > 0 && ultrasonic.Value < UnlockProximity {
				message = "Door unlocked by RFID at close distance"
				entryType = activity.TypeSuccess
			}
		case errors.Is(err, device.ErrNotFound):
			// Sensor not yet seen; keep the generic unlock log.
		default:
			return fmt.Errorf("reading ultrasonic sensor: %w", err)
		}
	}

	return r.appendLog(ctx, message, entryType)
}

// applyMotion handles home/sensor/motion: "DETECTED"/"CLEARED".
func (r *Reconciler) applyMotion(ctx context.Context, payload string) error {
	status := payload

	if err := r.applyDevice(ctx, DeviceMotionSensor, device.StateChange{
		Status: &status,
	}); err != nil {
		return err
	}

	entryType := activity.TypeInfo
	if status == device.StatusDetected {
		entryType = activity.TypeWarning
	}
	return r.appendLog(ctx, "Motion Sensor status: "+status, entryType)
}

// applyDistance handles home/sensor/distance: a floating point reading in
// centimetres. Unparsable payloads degrade to 0 rather than failing the
// message.
func (r *Reconciler) applyDistance(ctx context.Context, payload string) error {
	value, err := strconv.ParseFloat(strings.TrimSpace(payload), 64)
	if err != nil {
		r.logger.Warn("unparsable distance payload", "payload", payload)
		value = 0
	}

	if err := r.applyDevice(ctx, DeviceUltrasonicSensor, device.StateChange{
		Value: &value,
	}); err != nil {
		return err
	}

	if r.telemetry != nil {
		r.telemetry.WriteSensorReading(DeviceUltrasonicSensor, "distance_cm", value)
	}

	entryType := activity.TypeInfo
	if value > 0 && value < DistanceDanger {
		entryType = activity.TypeWarning
	}
	return r.appendLog(ctx, fmt.Sprintf("Ultrasonic Sensor distance: %g cm", value), entryType)
}

// applyAlarm handles home/security/alarm: "ACTIVE"/"INACTIVE".
// The siren's isArmed flag reflects the system arming state, not alarm
// activity, so it is deliberately not touched here.
func (r *Reconciler) applyAlarm(ctx context.Context, payload string) error {
	status := payload

	if err := r.applyDevice(ctx, DeviceSiren, device.StateChange{
		Status: &status,
	}); err != nil {
		return err
	}

	entryType := activity.TypeInfo
	if status == device.StatusActive {
		entryType = activity.TypeDanger
	}
	return r.appendLog(ctx, "Alarm status: "+status, entryType)
}

// applyArmed handles home/security/armed: "ARMED"/"DISARMED". The armed
// state lives in the systemArmed setting; the siren's isArmed flag mirrors
// it so the device list shows which devices are live.
func (r *Reconciler) applyArmed(ctx context.Context, payload string) error {
	armed := payload == "ARMED"

	setting := settings.Setting{
		SettingName: settings.SettingSystemArmed,
		Value:       settings.BoolValue(armed),
	}
	if err := r.settings.Upsert(ctx, setting); err != nil {
		return fmt.Errorf("updating %s: %w", settings.SettingSystemArmed, err)
	}
	if r.notifier != nil {
		r.notifier.SettingUpdated(setting)
	}

	if err := r.applyDevice(ctx, DeviceSiren, device.StateChange{
		IsArmed: &armed,
	}); err != nil {
		return err
	}

	entryType := activity.TypeInfo
	if armed {
		entryType = activity.TypeSuccess
	}
	return r.appendLog(ctx, "Security system is now: "+payload, entryType)
}

// applyRFIDEvent handles home/rfid/events: free-text reader events.
// Log only; no device record is mutated.
func (r *Reconciler) applyRFIDEvent(ctx context.Context, payload string) error {
	if strings.Contains(payload, "Authorized Tag") {
		return r.appendLog(ctx, "Valid key card scanned", activity.TypeSuccess)
	}
	return r.appendLog(ctx, "Invalid key card scanned", activity.TypeAlert)
}

// applyDevice writes a confirmed (non-pending) state change and pushes the
// updated record to the notifier.
func (r *Reconciler) applyDevice(ctx context.Context, id string, change device.StateChange) error {
	change.Pending = false
	if err := r.devices.ApplyState(ctx, SeedFor(id), change); err != nil {
		return fmt.Errorf("applying state to %s: %w", id, err)
	}

	if r.notifier != nil {
		if updated, err := r.devices.GetByID(ctx, id); err == nil {
			r.notifier.DeviceUpdated(*updated)
		}
	}
	return nil
}

// appendLog writes an activity entry and pushes it to the notifier.
func (r *Reconciler) appendLog(ctx context.Context, message string, entryType activity.EntryType) error {
	if err := r.log.Append(ctx, message, entryType); err != nil {
		return fmt.Errorf("appending activity log: %w", err)
	}
	if r.notifier != nil {
		r.notifier.EntryLogged(activity.Entry{
			Message:   message,
			Type:      entryType,
			Timestamp: time.Now().UTC(),
		})
	}
	return nil
}
