// Package cli holds the process bootstrap shared by every tracker command:
// environment, logging, configuration and the wired ledger.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tracker/internal/backend"
	"tracker/internal/config"
	"tracker/internal/ledger"
	"tracker/internal/log"
	"tracker/internal/services"
	"tracker/internal/storage"
)

// LoadEnvFile loads a .env file for local development. A missing file is
// not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadEnvFileFrom loads an explicit env file; unlike LoadEnvFile a missing
// file is reported.
func LoadEnvFileFrom(path string) error {
	return godotenv.Load(path)
}

// SetupLogger builds the process logger at the given level and installs it
// as the slog default.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Level = log.ParseLevel(level)
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration from the environment.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// App is the wired ledger: slot, store, service and edit session.
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Store   *ledger.Store
	Service *services.LedgerService
	Session *ledger.EditSession
}

// Bootstrap opens the configured slot, hydrates the store and connects the
// optional event publisher.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	factory := backend.NewFactory(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	slot, err := factory.CreateSlot(ctx, backendCfg)
	if err != nil {
		return nil, err
	}

	adapter := storage.NewAdapter(slot, cfg.StorageKey, logger)
	store, err := ledger.NewStore(ctx, adapter,
		ledger.WithPersistEmpty(cfg.PersistEmptyLedger),
		ledger.WithLogger(logger),
	)
	if err != nil {
		adapter.Close()
		return nil, fmt.Errorf("create ledger store: %w", err)
	}

	logger.InfoContext(ctx, "Ledger opened",
		"backend", backendCfg.Type,
		log.FieldStorageKey, adapter.Key(),
		log.FieldLedgerSize, store.Len())

	service := services.NewLedgerService(store, adapter, factory.ConnectPublisher(ctx, cfg), logger)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Service: service,
		Session: ledger.NewEditSession(store, service, logger),
	}, nil
}

// Close flushes the ledger and releases storage and the publisher.
func (a *App) Close(ctx context.Context) error {
	return a.Service.Close(ctx)
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
