package main

import (
	"context"
	"fmt"
	"os"

	"github.com/benbjohnson/clock"
	"github.com/goodtune/gametime/internal/config"
	"github.com/goodtune/gametime/internal/ledger"
	"github.com/goodtune/gametime/internal/session"
	"github.com/goodtune/gametime/internal/storage"
	"github.com/goodtune/gametime/internal/storage/bolt"
	"github.com/goodtune/gametime/internal/storage/redis"
	"github.com/rs/zerolog"
)

// app wires the configured storage backend, ledger and session machine for
// a command invocation.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	clk     clock.Clock
	store   storage.Store
	ledger  *ledger.Ledger
	machine *session.Machine
}

// openApp loads configuration, opens storage and recovers any persisted
// session anchor. quiet keeps one-shot commands from spamming log lines.
func openApp(quiet bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var logger zerolog.Logger
	if quiet {
		logger = zerolog.New(os.Stderr).Level(zerolog.ErrorLevel).With().Timestamp().Logger()
	} else {
		logger = setupLogger(cfg.Logging)
	}

	store, err := openStorage(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	clk := clock.New()
	ldg := ledger.New(store.Totals(), clk, logger)
	machine := session.NewMachine(store.Anchor(), ldg, clk, session.Config{
		MaxSession: cfg.Tracking.MaxSessionDuration(),
	}, logger)

	if err := machine.Restore(context.Background()); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to recover session state: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		clk:     clk,
		store:   store,
		ledger:  ldg,
		machine: machine,
	}, nil
}

// Close releases the storage backend.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close storage")
	}
}

// openStorage opens the configured storage backend.
func openStorage(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Type {
	case "redis":
		return redis.Open(cfg.Redis)
	case "bolt":
		return bolt.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// setupLogger configures the logger based on configuration
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Set output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Default to console text
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
