// Argus Core - Tracker Fleet Management
//
// This is the main entry point for the Argus Core daemon. Argus manages a
// fleet of MQTT-connected asset trackers:
//   - Lock/unlock command delivery with device acknowledgement
//   - Motion and GPS telemetry ingestion
//   - User-facing notifications over REST and WebSocket
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/argus-iot/argus-core/migrations"

	"github.com/argus-iot/argus-core/internal/api"
	"github.com/argus-iot/argus-core/internal/infrastructure/config"
	"github.com/argus-iot/argus-core/internal/infrastructure/database"
	"github.com/argus-iot/argus-core/internal/infrastructure/influxdb"
	"github.com/argus-iot/argus-core/internal/infrastructure/logging"
	"github.com/argus-iot/argus-core/internal/infrastructure/mqtt"
	"github.com/argus-iot/argus-core/internal/ingest"
	"github.com/argus-iot/argus-core/internal/location"
	"github.com/argus-iot/argus-core/internal/lock"
	"github.com/argus-iot/argus-core/internal/motion"
	"github.com/argus-iot/argus-core/internal/notification"
	"github.com/argus-iot/argus-core/internal/tracker"
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
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
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
	log.Info("starting Argus Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
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

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

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
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// Set up MQTT logging callbacks
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Connect to InfluxDB (optional telemetry mirror)
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
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Repositories
	trackerRepo := tracker.NewSQLiteRepository(db.DB)
	lockRepo := lock.NewSQLiteRepository(db.DB)
	motionRepo := motion.NewSQLiteRepository(db.DB)
	locationRepo := location.NewSQLiteRepository(db.DB)
	notificationRepo := notification.NewSQLiteRepository(db.DB)

	qos := byte(cfg.MQTT.QoS)

	// The WebSocket hub is created up front so the notification service
	// can broadcast through it; the API server adopts it as an external
	// hub rather than creating its own.
	hub := api.NewHub(cfg.WebSocket, log)
	go hub.Run(ctx)

	// Telemetry sinks only when InfluxDB is enabled (an interface value
	// holding a nil pointer would defeat the nil checks downstream).
	var motionTelemetry motion.Telemetry
	var locationTelemetry location.Telemetry
	var lockTelemetry tracker.Telemetry
	if influxClient != nil {
		motionTelemetry = influxClient
		locationTelemetry = influxClient
		lockTelemetry = influxClient
	}

	notificationSvc := notification.NewService(notificationRepo, hub)
	trackerSvc := tracker.NewService(trackerRepo)
	reconciler := tracker.NewReconciler(trackerRepo, mqttClient, notificationSvc, lockTelemetry, log, qos)

	motionProcessor := motion.NewProcessor(motionRepo, trackerRepo, notificationSvc, motionTelemetry, log)
	locationRecorder := location.NewRecorder(locationRepo, locationTelemetry)

	// Subscribe to device topics
	ingestor := ingest.New(mqttClient, reconciler, motionProcessor, locationRecorder, lockRepo, log, qos)
	if err := ingestor.Start(ctx); err != nil {
		return fmt.Errorf("starting ingestor: %w", err)
	}
	defer func() {
		log.Info("stopping ingestor")
		if closeErr := ingestor.Close(); closeErr != nil {
			log.Error("error closing ingestor", "error", closeErr)
		}
	}()
	log.Info("device topic subscriptions active")

	// Start API server
	server, err := api.New(api.Deps{
		Config:        cfg.API,
		WS:            cfg.WebSocket,
		Security:      cfg.Security,
		Logger:        log,
		Trackers:      trackerSvc,
		Reconciler:    reconciler,
		Locks:         lockRepo,
		Motions:       motionProcessor,
		Locations:     locationRecorder,
		Notifications: notificationSvc,
		Publisher:     mqttClient,
		ExternalHub:   hub,
		Version:       version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient, server); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. Ingestor (unsubscribe device topics)
	// 3. InfluxDB (if enabled)
	// 4. MQTT
	// 5. Database

	log.Info("Argus Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses ARGUS_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("ARGUS_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client, server *api.Server) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	// InfluxDB is optional
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}
