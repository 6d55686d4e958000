package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/homeguardhq/homeguard-core/internal/infrastructure/logging"
)

// Defaults is the fixed set of settings seeded at startup if absent.
func Defaults() []Setting {
	return []Setting{
		{SettingName: "alarmDuration", Value: NumberValue(60), Description: "Duration of the alarm siren in seconds"},
		{SettingName: "armingDelay", Value: NumberValue(10), Description: "Delay before system fully arms in seconds"},
		{SettingName: "disarmingDelay", Value: NumberValue(5), Description: "Delay to enter disarm code before alarm triggers in seconds"},
		{SettingName: "pirSensitivity", Value: NumberValue(500), Description: "Sensitivity threshold for PIR motion sensors (0-1023)"},
		{SettingName: SettingSystemArmed, Value: BoolValue(false), Description: "Current armed state of the system"},
		{SettingName: "panicMode", Value: BoolValue(false), Description: "Current panic mode state"},
		{SettingName: "motionAutomationEnabled", Value: BoolValue(true), Description: "Enable/disable light automation based on motion"},
	}
}

// Seed inserts the default settings that do not yet exist. Existing values
// are never overwritten; seeding is safe to run on every startup.
func Seed(ctx context.Context, repo Repository, logger *logging.Logger) error {
	seeded := 0
	for _, def := range Defaults() {
		_, err := repo.Get(ctx, def.SettingName)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("checking setting %s: %w", def.SettingName, err)
		}
		if err := repo.Upsert(ctx, def); err != nil {
			return fmt.Errorf("seeding setting %s: %w", def.SettingName, err)
		}
		seeded++
	}

	if seeded > 0 {
		logger.Info("default settings seeded", "count", seeded)
	}
	return nil
}
