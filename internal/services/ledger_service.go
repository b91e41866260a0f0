package services

import (
	"context"
	"fmt"
	"io"

	"github.com/gofrs/uuid/v5"

	"tracker/internal/amqp"
	"tracker/internal/core"
	"tracker/internal/ledger"
	"tracker/internal/log"
)

// Publisher delivers change events. *amqp.Client implements it.
type Publisher interface {
	PublishTransactionEvent(ctx context.Context, evt *amqp.TransactionEvent) error
	Close() error
}

// LedgerService applies mutations to the store first and then announces
// them. A publish failure never fails the mutation: the ledger change is
// already saved locally.
type LedgerService struct {
	store     *ledger.Store
	storage   io.Closer
	publisher Publisher
	logger    *log.Logger
}

// NewLedgerService wires a store to its storage and an optional publisher.
// storage is closed by Close; either may be nil.
func NewLedgerService(store *ledger.Store, storage io.Closer, publisher Publisher, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.Discard()
	}
	return &LedgerService{
		store:     store,
		storage:   storage,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
	}
}

// Store exposes the underlying ledger for reads.
func (s *LedgerService) Store() *ledger.Store {
	return s.store
}

func (s *LedgerService) Add(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	added, err := s.store.Add(ctx, tx)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, amqp.EventCreated, added)
	return added, nil
}

func (s *LedgerService) Update(ctx context.Context, id uuid.UUID, tx core.Transaction) (core.Transaction, error) {
	updated, err := s.store.Update(ctx, id, tx)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, amqp.EventUpdated, updated)
	return updated, nil
}

func (s *LedgerService) UpdateAt(ctx context.Context, index int, tx core.Transaction) (core.Transaction, error) {
	updated, err := s.store.UpdateAt(ctx, index, tx)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, amqp.EventUpdated, updated)
	return updated, nil
}

func (s *LedgerService) Delete(ctx context.Context, id uuid.UUID) (core.Transaction, error) {
	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, amqp.EventDeleted, removed)
	return removed, nil
}

func (s *LedgerService) DeleteAt(ctx context.Context, index int) (core.Transaction, error) {
	removed, err := s.store.DeleteAt(ctx, index)
	if err != nil {
		return core.Transaction{}, err
	}
	s.publish(ctx, amqp.EventDeleted, removed)
	return removed, nil
}

func (s *LedgerService) publish(ctx context.Context, event string, tx core.Transaction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, amqp.NewTransactionEvent(event, tx)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish transaction event",
			log.FieldOperation, log.OpPublish,
			"event", event,
			log.FieldTransactionID, tx.ID.String(),
			log.FieldError, err.Error())
	}
}

// Close flushes a dirty ledger, then closes storage and the publisher.
func (s *LedgerService) Close(ctx context.Context) error {
	var errs []error

	if s.store != nil {
		if err := s.store.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush: %w", err))
		}
	}

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
