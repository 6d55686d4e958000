package settings

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/homeguardhq/homeguard-core/internal/infrastructure/logging"
)

func discardLogger() *logging.Logger {
	return &logging.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestSeedInsertsDefaults(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	if err := Seed(ctx, repo, discardLogger()); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != len(Defaults()) {
		t.Fatalf("seeded %d settings, want %d", len(list), len(Defaults()))
	}

	armed, err := repo.Get(ctx, SettingSystemArmed)
	if err != nil {
		t.Fatalf("Get %s: %v", SettingSystemArmed, err)
	}
	if armed.Value != BoolValue(false) {
		t.Errorf("%s = %+v, want BoolValue(false)", SettingSystemArmed, armed.Value)
	}
}

func TestSeedPreservesExistingValues(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	if err := repo.Upsert(ctx, Setting{SettingName: "alarmDuration", Value: NumberValue(300)}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if err := Seed(ctx, repo, discardLogger()); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	got, err := repo.Get(ctx, "alarmDuration")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Value != NumberValue(300) {
		t.Errorf("alarmDuration = %+v, want NumberValue(300)", got.Value)
	}
}

func TestSeedIdempotent(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := Seed(ctx, repo, discardLogger()); err != nil {
			t.Fatalf("Seed: %v", err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != len(Defaults()) {
		t.Errorf("have %d settings after repeated seeding, want %d", len(list), len(Defaults()))
	}
}
