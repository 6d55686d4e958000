package api

import (
	"context"
	"database/sql"
	"net/http/httptest"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/homeguardhq/homeguard-core/internal/activity"
	"github.com/homeguardhq/homeguard-core/internal/auth"
	"github.com/homeguardhq/homeguard-core/internal/command"
	"github.com/homeguardhq/homeguard-core/internal/device"
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/config"
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/logging"
	"github.com/homeguardhq/homeguard-core/internal/settings"
)

const testJWTSecret = "integration-test-secret-0123456789abcdef"

// fakeDispatcher records dispatched commands and toggles without a broker.
type fakeDispatcher struct {
	commands []command.Command
	toggled  []string
	err      error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, cmd command.Command) error {
	if !cmd.Valid() {
		return command.ErrUnknownCommand
	}
	if f.err != nil {
		return f.err
	}
	f.commands = append(f.commands, cmd)
	return nil
}

func (f *fakeDispatcher) Toggle(_ context.Context, deviceID string) error {
	if f.err != nil {
		return f.err
	}
	f.toggled = append(f.toggled, deviceID)
	return nil
}

// testDB creates a temporary SQLite database with the full schema applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "api-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schemaSQL := `
		CREATE TABLE devices (
			device_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			room TEXT NOT NULL DEFAULT 'General',
			status TEXT NOT NULL DEFAULT 'UNKNOWN',
			value REAL NOT NULL DEFAULT 0,
			is_armed INTEGER NOT NULL DEFAULT 0,
			auto_on_motion INTEGER NOT NULL DEFAULT 0,
			pending INTEGER NOT NULL DEFAULT 0,
			last_activity TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		) STRICT;

		CREATE TABLE activity_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			message TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'info',
			timestamp TEXT NOT NULL
		);

		CREATE TABLE settings (
			setting_name TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			value TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL
		) STRICT;

		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TEXT NOT NULL
		) STRICT;
	`
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("creating schema: %v", err)
	}

	return db
}

// testServer wires a Server over a fresh database and starts an HTTP test
// listener in front of its router.
type testServer struct {
	*Server
	ts         *httptest.Server
	db         *sql.DB
	dispatcher *fakeDispatcher
	devices    device.Repository
	activity   activity.Repository
	settings   settings.Repository
	users      auth.UserRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testDB(t)
	deviceRepo := device.NewSQLiteRepository(db)
	activityRepo := activity.NewSQLiteRepository(db)
	settingsRepo := settings.NewSQLiteRepository(db)
	userRepo := auth.NewUserRepository(db)
	dispatcher := &fakeDispatcher{}
	logger := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stderr"}, "test")

	srv, err := New(Deps{
		Security:   config.SecurityConfig{JWT: config.JWTConfig{Secret: testJWTSecret, AccessTokenTTL: 60}},
		Logger:     logger,
		Devices:    deviceRepo,
		Activity:   activityRepo,
		Settings:   settingsRepo,
		Users:      userRepo,
		Dispatcher: dispatcher,
		Version:    "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ts := httptest.NewServer(srv.buildRouter())
	t.Cleanup(ts.Close)

	return &testServer{
		Server:     srv,
		ts:         ts,
		db:         db,
		dispatcher: dispatcher,
		devices:    deviceRepo,
		activity:   activityRepo,
		settings:   settingsRepo,
		users:      userRepo,
	}
}

// authToken creates a stored user and returns a valid bearer token for it.
func (s *testServer) authToken(t *testing.T) string {
	t.Helper()

	user := &auth.User{
		Email:        "tester@example.com",
		Name:         "Tester",
		PasswordHash: "unused",
	}
	if err := s.users.Create(context.Background(), user); err != nil {
		t.Fatalf("creating test user: %v", err)
	}

	token, err := auth.GenerateToken(user, testJWTSecret, 60)
	if err != nil {
		t.Fatalf("generating test token: %v", err)
	}
	return token
}
