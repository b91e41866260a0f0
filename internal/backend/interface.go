package backend

import (
	"context"

	"tracker/internal/storage"
)

// Factory builds the durable slot the ledger is persisted to.
type Factory interface {
	CreateSlot(ctx context.Context, config Config) (storage.Slot, error)
}

// Config holds configuration for slot creation
type Config struct {
	Type BackendType

	// File backend
	DataDirectory string

	// SQLite backend
	SQLiteDBPath string
}

// BackendType represents the type of backend
type BackendType string

const (
	FileBackend   BackendType = "file"
	MemoryBackend BackendType = "memory"
	SQLiteBackend BackendType = "sqlite"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case FileBackend, MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}
