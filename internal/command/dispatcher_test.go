package command

import (
	"context"
	"errors"
	"testing"

	"github.com/homeguardhq/homeguard-core/internal/device"
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/config"
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/logging"
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/mqtt"
	"github.com/homeguardhq/homeguard-core/internal/reconcile"
	"github.com/homeguardhq/homeguard-core/internal/settings"
)

type fakePublisher struct {
	topics   []string
	payloads []string
	err      error
}

func (f *fakePublisher) PublishString(topic, payload string) error {
	if f.err != nil {
		return f.err
	}
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload)
	return nil
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *fakePublisher, device.Repository, settings.Repository) {
	t.Helper()

	db := testDB(t)
	devices := device.NewSQLiteRepository(db)
	settingsRepo := settings.NewSQLiteRepository(db)
	pub := &fakePublisher{}
	logger := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stderr"}, "test")
	return NewDispatcher(pub, devices, settingsRepo, logger), pub, devices, settingsRepo
}

func TestDispatch_Arm(t *testing.T) {
	d, pub, devices, settingsRepo := newTestDispatcher(t)
	ctx := context.Background()

	if err := d.Dispatch(ctx, CommandArm); err != nil {
		t.Fatalf("Dispatch(ARM) error = %v", err)
	}

	if len(pub.topics) != 1 || pub.topics[0] != mqtt.TopicArmedSet {
		t.Errorf("published topics = %v, want [%s]", pub.topics, mqtt.TopicArmedSet)
	}
	if pub.payloads[0] != "ARMED" {
		t.Errorf("payload = %q, want ARMED", pub.payloads[0])
	}

	armed, err := settingsRepo.Get(ctx, settings.SettingSystemArmed)
	if err != nil {
		t.Fatalf("Get(systemArmed) error = %v", err)
	}
	if !armed.Value.Bool {
		t.Error("systemArmed should be true after ARM")
	}

	siren, err := devices.GetByID(ctx, reconcile.DeviceSiren)
	if err != nil {
		t.Fatalf("GetByID(siren) error = %v", err)
	}
	if !siren.IsArmed {
		t.Error("siren IsArmed should be true after ARM")
	}
	if !siren.Pending {
		t.Error("optimistic write should be pending")
	}
}

func TestDispatch_LockWritesOptimisticStatus(t *testing.T) {
	d, pub, devices, _ := newTestDispatcher(t)
	ctx := context.Background()

	if err := d.Dispatch(ctx, CommandLock); err != nil {
		t.Fatalf("Dispatch(LOCK) error = %v", err)
	}

	if pub.topics[0] != mqtt.TopicLockSet || pub.payloads[0] != "LOCK" {
		t.Errorf("published %q on %q", pub.payloads[0], pub.topics[0])
	}

	lock, err := devices.GetByID(ctx, reconcile.DeviceSmartLock)
	if err != nil {
		t.Fatalf("GetByID(lock) error = %v", err)
	}
	if lock.Status != device.StatusLocked {
		t.Errorf("Status = %q, want %q", lock.Status, device.StatusLocked)
	}
	if !lock.IsArmed {
		t.Error("lock IsArmed should be true after LOCK")
	}
	if !lock.Pending {
		t.Error("optimistic write should be pending")
	}
}

func TestDispatch_UnknownCommandRejectedBeforePublish(t *testing.T) {
	d, pub, devices, settingsRepo := newTestDispatcher(t)
	ctx := context.Background()

	err := d.Dispatch(ctx, Command("FOO"))
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("Dispatch(FOO) error = %v, want ErrUnknownCommand", err)
	}

	if len(pub.topics) != 0 {
		t.Errorf("nothing should be published, got %v", pub.topics)
	}
	if list, _ := devices.List(ctx); len(list) != 0 {
		t.Errorf("no device should be written, got %d", len(list))
	}
	if _, err := settingsRepo.Get(ctx, settings.SettingSystemArmed); !errors.Is(err, settings.ErrNotFound) {
		t.Errorf("systemArmed should be untouched, got err = %v", err)
	}
}

func TestDispatch_PublishFailureLeavesStoresUntouched(t *testing.T) {
	d, pub, devices, settingsRepo := newTestDispatcher(t)
	pub.err = errors.New("broker gone")
	ctx := context.Background()

	err := d.Dispatch(ctx, CommandArm)
	if !errors.Is(err, ErrPublishFailed) {
		t.Fatalf("Dispatch(ARM) error = %v, want ErrPublishFailed", err)
	}

	if list, _ := devices.List(ctx); len(list) != 0 {
		t.Errorf("no device should be written, got %d", len(list))
	}
	if _, err := settingsRepo.Get(ctx, settings.SettingSystemArmed); !errors.Is(err, settings.ErrNotFound) {
		t.Errorf("systemArmed should be untouched, got err = %v", err)
	}
}

func TestToggle_SmartLock(t *testing.T) {
	d, pub, devices, _ := newTestDispatcher(t)
	ctx := context.Background()

	status := device.StatusLocked
	if err := devices.ApplyState(ctx, reconcile.SeedFor(reconcile.DeviceSmartLock), device.StateChange{Status: &status}); err != nil {
		t.Fatalf("ApplyState() error = %v", err)
	}

	if err := d.Toggle(ctx, reconcile.DeviceSmartLock); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}

	if pub.payloads[0] != "UNLOCK" {
		t.Errorf("payload = %q, want UNLOCK", pub.payloads[0])
	}

	lock, err := devices.GetByID(ctx, reconcile.DeviceSmartLock)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if lock.Status != device.StatusUnlocked {
		t.Errorf("Status = %q, want %q", lock.Status, device.StatusUnlocked)
	}
}

func TestToggle_SmartLight(t *testing.T) {
	d, pub, devices, _ := newTestDispatcher(t)
	ctx := context.Background()

	light := &device.Device{
		DeviceID: "smartLight001",
		Name:     "Hallway Light",
		Type:     device.TypeSmartLight,
		Status:   device.StatusOff,
	}
	if err := devices.Create(ctx, light); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := d.Toggle(ctx, "smartLight001"); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}

	if pub.topics[0] != mqtt.TopicLightSet || pub.payloads[0] != device.StatusOn {
		t.Errorf("published %q on %q", pub.payloads[0], pub.topics[0])
	}

	got, err := devices.GetByID(ctx, "smartLight001")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != device.StatusOn {
		t.Errorf("Status = %q, want %q", got.Status, device.StatusOn)
	}
	if !got.Pending {
		t.Error("optimistic write should be pending")
	}
}

func TestToggle_UnsupportedType(t *testing.T) {
	d, pub, devices, _ := newTestDispatcher(t)
	ctx := context.Background()

	sensor := &device.Device{
		DeviceID: "contactSensor001",
		Name:     "Window Sensor",
		Type:     device.TypeContactSensor,
	}
	if err := devices.Create(ctx, sensor); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := d.Toggle(ctx, "contactSensor001")
	if !errors.Is(err, ErrUnsupportedToggle) {
		t.Fatalf("Toggle() error = %v, want ErrUnsupportedToggle", err)
	}
	if len(pub.topics) != 0 {
		t.Errorf("nothing should be published, got %v", pub.topics)
	}
}

func TestToggle_UnknownDevice(t *testing.T) {
	d, _, _, _ := newTestDispatcher(t)

	err := d.Toggle(context.Background(), "ghost001")
	if !errors.Is(err, device.ErrNotFound) {
		t.Fatalf("Toggle() error = %v, want device.ErrNotFound", err)
	}
}
