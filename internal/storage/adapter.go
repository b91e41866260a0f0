package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"tracker/internal/core"
	"tracker/internal/log"
)

// record is the persisted layout of one transaction. Records written before
// IDs existed carry no id and are assigned one on load.
type record struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Amount   amount `json:"amount"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

// amount is written as a JSON number carrying the exact decimal digits. On
// read it also accepts a numeric string, as older ledgers stored edited
// amounts the way they were typed.
type amount struct {
	decimal.Decimal
}

func (a amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a *amount) UnmarshalJSON(b []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return &core.ValidationError{Field: core.FieldAmount, Reason: "not a number"}
		}
		a.Decimal = d
	case string:
		d, err := core.ParseAmount(v)
		if err != nil {
			return err
		}
		a.Decimal = d
	default:
		return &core.ValidationError{Field: core.FieldAmount, Reason: "expected a number"}
	}
	return nil
}

// Adapter serializes the whole ledger into a single slot entry.
type Adapter struct {
	slot   Slot
	key    string
	logger *log.Logger
}

func NewAdapter(slot Slot, key string, logger *log.Logger) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Adapter{
		slot:   slot,
		key:    key,
		logger: logger.WithComponent(log.ComponentStorage),
	}
}

// Key returns the slot key the ledger is stored under.
func (a *Adapter) Key() string {
	return a.key
}

// Load reads the persisted ledger. A missing, unreadable or malformed blob
// yields ok=false and is never an error; invalid records are skipped.
func (a *Adapter) Load(ctx context.Context) ([]core.Transaction, bool) {
	blob, ok, err := a.slot.Get(ctx, a.key)
	if err != nil {
		readErr := &core.PersistenceReadError{Key: a.key, Err: err}
		a.logger.WarnContext(ctx, "Persisted ledger unreadable, starting empty",
			log.FieldStorageKey, a.key, log.FieldError, readErr.Error())
		return nil, false
	}
	if !ok || len(blob) == 0 {
		return nil, false
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(blob, &raws); err != nil {
		a.logger.WarnContext(ctx, "Persisted ledger malformed, starting empty",
			log.FieldStorageKey, a.key, log.FieldError, err.Error())
		return nil, false
	}
	if raws == nil {
		return nil, false
	}

	ledger := make([]core.Transaction, 0, len(raws))
	seen := make(map[uuid.UUID]struct{}, len(raws))
	for i, raw := range raws {
		tx, err := decodeRecord(raw)
		if err != nil {
			a.logger.WarnContext(ctx, "Skipping invalid persisted record",
				log.FieldPosition, i, log.FieldError, err.Error())
			continue
		}
		if _, dup := seen[tx.ID]; dup {
			tx.ID = uuid.Must(uuid.NewV4())
		}
		seen[tx.ID] = struct{}{}
		ledger = append(ledger, tx)
	}

	a.logger.DebugContext(ctx, "Ledger loaded", log.FieldStorageKey, a.key, log.FieldLedgerSize, len(ledger))
	return ledger, true
}

// Save writes the full ledger, in order, with a single Set.
func (a *Adapter) Save(ctx context.Context, ledger []core.Transaction) error {
	records := make([]record, len(ledger))
	for i, tx := range ledger {
		records[i] = fromTransaction(tx)
	}
	blob, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := a.slot.Set(ctx, a.key, blob); err != nil {
		return fmt.Errorf("write slot %q: %w", a.key, err)
	}
	a.logger.DebugContext(ctx, "Ledger saved", log.FieldStorageKey, a.key, log.FieldLedgerSize, len(ledger))
	return nil
}

// Close releases the underlying slot.
func (a *Adapter) Close() error {
	return a.slot.Close()
}

func fromTransaction(tx core.Transaction) record {
	return record{
		ID:       tx.ID.String(),
		Title:    tx.Title,
		Amount:   amount{tx.Amount},
		Category: string(tx.Category),
		Date:     tx.Date.String(),
	}
}

// decodeRecord converts one persisted element, so a bad record costs only
// itself.
func decodeRecord(raw json.RawMessage) (core.Transaction, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return core.Transaction{}, err
	}
	return rec.toTransaction()
}

func (r record) toTransaction() (core.Transaction, error) {
	date, err := core.ParseDate(r.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		Title:    r.Title,
		Amount:   r.Amount.Decimal,
		Category: core.Category(r.Category),
		Date:     date,
	}
	if r.ID != "" {
		id, err := uuid.FromString(r.ID)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("parse id %q: %w", r.ID, err)
		}
		tx.ID = id
	} else {
		tx.ID = uuid.Must(uuid.NewV4())
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}
