package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/gofrs/uuid/v5"

	"tracker/internal/core"
	"tracker/internal/log"
)

// Mutator performs the writes behind a form submission. *Store implements
// it; services.LedgerService wraps it to publish change events.
type Mutator interface {
	Add(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	Update(ctx context.Context, id uuid.UUID, tx core.Transaction) (core.Transaction, error)
}

type Mode int

const (
	Idle Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "idle"
}

// State is the controller state. ID is set only while Editing.
type State struct {
	Mode Mode
	ID   uuid.UUID
}

// EditSession decides whether the next submission creates a record or
// replaces the one being edited. The edited record is tracked by ID, so
// deleting earlier records does not redirect the edit.
type EditSession struct {
	mu      sync.Mutex
	store   *Store
	mutator Mutator
	state   State
	logger  *log.Logger
}

// NewEditSession starts Idle. A nil mutator submits straight to the store.
func NewEditSession(store *Store, mutator Mutator, logger *log.Logger) *EditSession {
	if mutator == nil {
		mutator = store
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &EditSession{
		store:   store,
		mutator: mutator,
		logger:  logger.WithComponent(log.ComponentSession),
	}
}

// BeginEdit enters Editing for the record at index and returns a copy of it
// for pre-populating a form.
func (e *EditSession) BeginEdit(index int) (core.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.store.At(index)
	if err != nil {
		return core.Transaction{}, err
	}
	e.state = State{Mode: Editing, ID: tx.ID}
	e.logger.Debug("Edit started", log.FieldTransactionID, tx.ID.String(), log.FieldPosition, index)
	return tx, nil
}

func (e *EditSession) BeginEditID(id uuid.UUID) (core.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.store.Get(id)
	if err != nil {
		return core.Transaction{}, err
	}
	e.state = State{Mode: Editing, ID: tx.ID}
	e.logger.Debug("Edit started", log.FieldTransactionID, tx.ID.String())
	return tx, nil
}

// Submit adds tx when Idle, or replaces the edited record and returns to
// Idle. created reports which of the two happened. A rejected submission
// leaves the state as it was, except when the edited record no longer exists.
func (e *EditSession) Submit(ctx context.Context, tx core.Transaction) (saved core.Transaction, created bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Mode == Idle {
		saved, err = e.mutator.Add(ctx, tx)
		return saved, err == nil, err
	}

	saved, err = e.mutator.Update(ctx, e.state.ID, tx)
	if errors.Is(err, core.ErrNotFound) {
		e.logger.WarnContext(ctx, "Edited transaction no longer exists",
			log.FieldTransactionID, e.state.ID.String())
		e.state = State{}
		return core.Transaction{}, false, err
	}
	if err != nil {
		return core.Transaction{}, false, err
	}
	e.state = State{}
	return saved, false, nil
}

// Cancel abandons any edit in progress.
func (e *EditSession) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = State{}
}

func (e *EditSession) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ActiveIndex returns the current position of the edited record.
func (e *EditSession) ActiveIndex() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Mode != Editing {
		return -1, false
	}
	return e.store.IndexOf(e.state.ID)
}
