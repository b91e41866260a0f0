package amqp

import (
	"encoding/json"
	"time"

	"tracker/internal/core"
)

// Event names carried by TransactionEvent.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// TransactionEvent announces one ledger change. Amount is the decimal
// string so consumers never see float rounding.
type TransactionEvent struct {
	Event     string    `json:"event"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	Type      string    `json:"type"`
	Amount    string    `json:"amount"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionEvent describes tx as it stands after the change, or as it
// stood before a delete.
func NewTransactionEvent(event string, tx core.Transaction) *TransactionEvent {
	return &TransactionEvent{
		Event:     event,
		ID:        tx.ID.String(),
		Title:     tx.Title,
		Category:  string(tx.Category),
		Type:      string(tx.Type()),
		Amount:    tx.Amount.String(),
		Date:      tx.Date.String(),
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventFromJSON parses an event body.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
