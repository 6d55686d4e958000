// HomeGuard Core - Home Security Backend
//
// This is the main entry point for the HomeGuard Core service. It bridges
// a fleet of security devices speaking MQTT (lock, motion, distance, siren,
// RFID) to a durable state store, an activity log, and a REST/WebSocket
// facade for dashboards.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/homeguardhq/homeguard-core/migrations"

	"github.com/homeguardhq/homeguard-core/internal/activity"
	"github.com/homeguardhq/homeguard-core/internal/api"
	"github.com/homeguardhq/homeguard-core/internal/auth"
	"github.com/homeguardhq/homeguard-core/internal/command"
	"github.com/homeguardhq/homeguard-core/internal/device"
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/config"
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/database"
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/influxdb"
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/logging"
	"github.com/homeguardhq/homeguard-core/internal/infrastructure/mqtt"
	"github.com/homeguardhq/homeguard-core/internal/reconcile"
	"github.com/homeguardhq/homeguard-core/internal/settings"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting HomeGuard Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	// Open database and run migrations
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Stores
	deviceRepo := device.NewSQLiteRepository(db.DB)
	activityRepo := activity.NewSQLiteRepository(db.DB)
	settingsRepo := settings.NewSQLiteRepository(db.DB)
	userRepo := auth.NewUserRepository(db.DB)

	// Seed default settings on first boot
	if seedErr := settings.Seed(ctx, settingsRepo, log); seedErr != nil {
		return fmt.Errorf("seeding settings: %w", seedErr)
	}

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT connected", "broker", cfg.MQTT.BrokerURL())
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", cfg.MQTT.BrokerURL(),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Connect to InfluxDB (optional telemetry export)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Command dispatcher: REST commands out to the broker
	dispatcher := command.NewDispatcher(mqttClient, deviceRepo, settingsRepo, log)

	// API server with WebSocket hub
	apiServer, err := api.New(api.Deps{
		Config:     cfg.Server,
		WS:         cfg.WebSocket,
		Security:   cfg.Security,
		MQTT:       cfg.MQTT,
		Logger:     log,
		Devices:    deviceRepo,
		Activity:   activityRepo,
		Settings:   settingsRepo,
		Users:      userRepo,
		Dispatcher: dispatcher,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	// Reconciler: broker messages in, durable state out. The WebSocket hub
	// sees both directions.
	reconciler := reconcile.New(deviceRepo, settingsRepo, activityRepo, log)
	reconciler.SetNotifier(apiServer.Hub())
	dispatcher.SetNotifier(apiServer.Hub())
	if influxClient != nil {
		reconciler.SetTelemetry(influxClient)
	}
	if subErr := reconciler.Start(mqttClient); subErr != nil {
		return fmt.Errorf("starting reconciler: %w", subErr)
	}

	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT
	// 4. Database

	log.Info("HomeGuard Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses HOMEGUARD_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HOMEGUARD_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
