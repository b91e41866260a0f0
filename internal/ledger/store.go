// Package ledger owns the in-memory transaction ledger and the edit flow
// that feeds it.
package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/gofrs/uuid/v5"

	"tracker/internal/core"
	"tracker/internal/log"
)

// Persister loads and saves the full ledger. storage.Adapter satisfies it.
type Persister interface {
	Load(ctx context.Context) ([]core.Transaction, bool)
	Save(ctx context.Context, ledger []core.Transaction) error
}

// Store holds the ordered ledger. Every successful mutation is followed by a
// save of the whole ledger; a failed save marks the store dirty and is
// retried by the next mutation or by Flush.
type Store struct {
	mu           sync.RWMutex
	items        []core.Transaction
	version      uint64
	dirty        bool
	persister    Persister
	persistEmpty bool
	newID        func() uuid.UUID
	logger       *log.Logger
}

type Option func(*Store)

// WithPersistEmpty makes the store save the ledger even when it is empty.
// By default an empty ledger is never written, so a cleared ledger reloads
// the last non-empty snapshot.
func WithPersistEmpty(enabled bool) Option {
	return func(s *Store) {
		s.persistEmpty = enabled
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator replaces the random UUID source.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// NewStore hydrates a store once from the persister.
func NewStore(ctx context.Context, persister Persister, opts ...Option) (*Store, error) {
	if persister == nil {
		return nil, errors.New("ledger: persister is required")
	}

	s := &Store{
		persister: persister,
		newID:     func() uuid.UUID { return uuid.Must(uuid.NewV4()) },
		logger:    log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentLedger)

	if loaded, ok := persister.Load(ctx); ok {
		s.items = loaded
	}
	s.logger.InfoContext(ctx, "Ledger hydrated",
		log.FieldOperation, log.OpLoad, log.FieldLedgerSize, len(s.items))

	return s, nil
}

// Add validates tx, assigns it a fresh ID and appends it.
func (s *Store) Add(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx.ID = s.uniqueID()
	s.items = append(s.items, tx)
	s.committed(ctx, log.OpCreate, tx)
	return tx, nil
}

// UpdateAt replaces the element at index, keeping its ID and position.
func (s *Store) UpdateAt(ctx context.Context, index int, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIndex(index); err != nil {
		return core.Transaction{}, err
	}
	return s.replace(ctx, index, tx)
}

// Update replaces the element with the given ID in place.
func (s *Store) Update(ctx context.Context, id uuid.UUID, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)
	if index < 0 {
		return core.Transaction{}, core.ErrNotFound
	}
	return s.replace(ctx, index, tx)
}

// DeleteAt removes the element at index; later elements shift down by one.
func (s *Store) DeleteAt(ctx context.Context, index int) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIndex(index); err != nil {
		return core.Transaction{}, err
	}
	return s.remove(ctx, index), nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)
	if index < 0 {
		return core.Transaction{}, core.ErrNotFound
	}
	return s.remove(ctx, index), nil
}

func (s *Store) Get(id uuid.UUID) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index := s.indexOf(id)
	if index < 0 {
		return core.Transaction{}, core.ErrNotFound
	}
	return s.items[index], nil
}

// At returns the element at a display position.
func (s *Store) At(index int) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkIndex(index); err != nil {
		return core.Transaction{}, err
	}
	return s.items[index], nil
}

// IndexOf returns the current position of id.
func (s *Store) IndexOf(id uuid.UUID) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index := s.indexOf(id)
	return index, index >= 0
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Version increases with every successful mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// List returns a copy of the ledger in order.
func (s *Store) List() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction(nil), s.items...)
}

// Snapshot returns a copy of the ledger together with the version it
// belongs to.
func (s *Store) Snapshot() (uint64, []core.Transaction) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version, append([]core.Transaction(nil), s.items...)
}

// Dirty reports whether the last save failed.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Flush retries a failed save. It is a no-op on a clean store.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}
	return s.save(ctx)
}

func (s *Store) replace(ctx context.Context, index int, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tx.ID = s.items[index].ID
	s.items[index] = tx
	s.committed(ctx, log.OpUpdate, tx)
	return tx, nil
}

func (s *Store) remove(ctx context.Context, index int) core.Transaction {
	removed := s.items[index]
	s.items = append(s.items[:index:index], s.items[index+1:]...)
	s.committed(ctx, log.OpDelete, removed)
	return removed
}

// committed bumps the version and saves. Must be called with mu held.
func (s *Store) committed(ctx context.Context, op string, tx core.Transaction) {
	s.version++
	s.logger.DebugContext(ctx, "Ledger mutated",
		append(log.NewFields().WithOperation(op).WithTransaction(tx).ToSlice(),
			log.FieldLedgerSize, len(s.items))...)

	if err := s.save(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save ledger, will retry on next change",
			log.FieldOperation, log.OpSave, log.FieldError, err.Error())
	}
}

func (s *Store) save(ctx context.Context) error {
	if len(s.items) == 0 && !s.persistEmpty {
		s.dirty = false
		return nil
	}
	if err := s.persister.Save(ctx, s.items); err != nil {
		s.dirty = true
		return err
	}
	s.dirty = false
	return nil
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.items) {
		return core.IndexError(index, len(s.items))
	}
	return nil
}

func (s *Store) indexOf(id uuid.UUID) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) uniqueID() uuid.UUID {
	for {
		id := s.newID()
		if id != uuid.Nil && s.indexOf(id) < 0 {
			return id
		}
	}
}
