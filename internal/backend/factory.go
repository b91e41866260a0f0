package backend

import (
	"context"
	"fmt"

	"tracker/internal/amqp"
	"tracker/internal/config"
	"tracker/internal/log"
	"tracker/internal/services"
	"tracker/internal/storage"
	"tracker/internal/storage/file"
	"tracker/internal/storage/memory"
	"tracker/internal/storage/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *DefaultFactory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

func (f *DefaultFactory) CreateSlot(ctx context.Context, config Config) (storage.Slot, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		slot, err := sqlite.Open(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite slot: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return slot, nil

	case FileBackend:
		slot, err := file.New(config.DataDirectory)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file slot: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized file backend", "data_directory", slot.Dir())
		return slot, nil

	case MemoryBackend:
		f.logger.WarnContext(ctx, "Initialized memory backend, data will not survive restarts")
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// ConnectPublisher dials AMQP when a URL is configured. A connection failure
// is logged and yields no publisher: the ledger keeps working locally.
func (f *DefaultFactory) ConnectPublisher(ctx context.Context, cfg *config.Config) services.Publisher {
	if cfg.AMQPURL == "" {
		return nil
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, f.logger)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", log.FieldError, err.Error())
		return nil
	}

	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)
	return client
}
