// Package storage persists the ledger as one serialized blob in a durable
// key-value slot.
package storage

import (
	"context"
	"errors"
)

// DefaultKey names the slot holding the ledger.
const DefaultKey = "transactions"

// ErrClosed is returned by slots used after Close.
var ErrClosed = errors.New("storage slot closed")

// Slot is an opaque durable key-value store. Set replaces the value
// atomically: a reader sees either the old or the new blob, never a mix.
type Slot interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
