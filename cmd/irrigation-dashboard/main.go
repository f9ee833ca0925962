// Irrigation Dashboard
//
// Entry point for the irrigation dashboard. It keeps a broker session to
// the pump controller, mirrors the controller's state, and serves the
// dashboard page plus a small JSON API on the local network.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/nerrad567/irrigation-dashboard/migrations"

	"github.com/nerrad567/irrigation-dashboard/internal/api"
	"github.com/nerrad567/irrigation-dashboard/internal/credentials"
	"github.com/nerrad567/irrigation-dashboard/internal/dashboard"
	"github.com/nerrad567/irrigation-dashboard/internal/eventloop"
	"github.com/nerrad567/irrigation-dashboard/internal/infrastructure/config"
	"github.com/nerrad567/irrigation-dashboard/internal/infrastructure/database"
	"github.com/nerrad567/irrigation-dashboard/internal/infrastructure/logging"
	"github.com/nerrad567/irrigation-dashboard/internal/infrastructure/mqtt"
	"github.com/nerrad567/irrigation-dashboard/internal/sequencer"
	"github.com/nerrad567/irrigation-dashboard/internal/session"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	defaultConfigPath = "configs/config.yaml"
	shutdownTimeout   = 10 * time.Second
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context) error {
	log := logging.Default()
	log.Info("starting irrigation dashboard",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded", "path", configPath, "level", cfg.Logging.Level)

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

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	// The loop outlives ctx so shutdown work can still run on it.
	loopCtx, stopLoop := context.WithCancel(context.Background())
	loop := eventloop.New()
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(loopCtx)
	}()
	defer func() {
		stopLoop()
		<-loopDone
	}()

	dash := dashboard.New(loop, credentials.NewSQLiteStore(db.DB), mqtt.PahoDialer{Logger: log}, dashboardOptions(cfg, log))

	srv, err := api.New(api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Logger:   log,
		Core:     dash,
		Database: db,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	dash.OnView(srv.BroadcastView)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}

	if err := dash.Start(ctx); err != nil {
		//nolint:errcheck // Already failing
		srv.Close()
		return fmt.Errorf("starting dashboard: %w", err)
	}

	log.Info("irrigation dashboard running",
		"api", fmt.Sprintf("http://%s:%d/panel/", cfg.API.Host, cfg.API.Port),
		"actuators", cfg.Device.Actuators,
	)

	<-ctx.Done()
	log.Info("shutdown signal received")

	if err := srv.Close(); err != nil {
		log.Error("error closing API server", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := dash.Disconnect(shutdownCtx); err != nil {
		log.Error("error disconnecting from broker", "error", err)
	}

	log.Info("irrigation dashboard stopped")
	return nil
}

// dashboardOptions maps configuration onto the core's options.
func dashboardOptions(cfg *config.Config, log *logging.Logger) dashboard.Options {
	opts := dashboard.Options{
		Actuators: cfg.Device.Actuators,
		Session: session.Settings{
			Port:              cfg.Broker.Port,
			Path:              cfg.Broker.Path,
			ClientIDPrefix:    cfg.Broker.ClientIDPrefix,
			ConnectTimeout:    cfg.Broker.ConnectTimeout,
			ReconnectInterval: cfg.Broker.ReconnectInterval,
			KeepAlive:         cfg.Broker.KeepAlive,
			QoS:               byte(cfg.Broker.QoS), //nolint:gosec // Validated to 0..2
		},
		Timing: sequencer.Timing{
			TargetOffsets:     cfg.Sequencer.TargetOffsets,
			CelebrateStagger:  cfg.Sequencer.CelebrateStagger,
			CelebrateDuration: cfg.Sequencer.CelebrateDuration,
		},
		Logger: log,
	}

	if cfg.Credentials.Complete() {
		opts.Seed = &credentials.ConnectionConfig{
			Host:     cfg.Credentials.Host,
			Username: cfg.Credentials.Username,
			Password: cfg.Credentials.Password,
		}
	}
	return opts
}

// getConfigPath returns IRRIGATION_CONFIG if set, otherwise the default.
func getConfigPath() string {
	if path := os.Getenv("IRRIGATION_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
