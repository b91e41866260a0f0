// Package memory provides an in-process storage slot. Nothing survives the
// process; it backs tests and DATA_BACKEND=memory.
package memory

import (
	"context"
	"sync"

	"tracker/internal/storage"
)

type Store struct {
	mu     sync.Mutex
	items  map[string][]byte
	closed bool
	// FailWrites makes Set fail, to exercise save-failure handling.
	FailWrites error
}

func New() *Store {
	return &Store{items: make(map[string][]byte)}
}

// NewSeeded returns a store pre-populated with the given entries.
func NewSeeded(entries map[string][]byte) *Store {
	s := New()
	for k, v := range entries {
		s.items[k] = append([]byte(nil), v...)
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, storage.ErrClosed
	}
	v, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return storage.ErrClosed
	}
	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.items[key] = append([]byte(nil), value...)
	return nil
}

// SetFailWrites toggles write failures under the store lock.
func (s *Store) SetFailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FailWrites = err
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
