// Package cache memoises derived ledger views. Keys embed the ledger
// version, so a mutation makes every older entry unreachable and the TTL
// sweep reclaims it.
package cache

import (
	"context"
	"strconv"
	"time"

	"tracker/internal/log"
)

// Cache is the interface the HTTP layer programs against.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

// Cleaner is a cache that can drop its expired entries.
type Cleaner interface {
	CleanExpired() int
}

// VersionKey prefixes a view key with the ledger version it was computed from.
func VersionKey(version uint64, view string) string {
	return strconv.FormatUint(version, 10) + "/" + view
}

// GetOrCompute returns the cached value for key, computing and storing it
// on a miss.
func GetOrCompute[T any](c Cache[T], key string, compute func() T) (T, bool) {
	if v, ok := c.Get(key); ok {
		return v, true
	}
	v := compute()
	c.Set(key, v)
	return v, false
}

// Manager sweeps expired entries from its registered caches.
type Manager struct {
	caches []Cleaner
	logger *log.Logger
}

func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Discard()
	}
	return &Manager{logger: logger.WithComponent(log.ComponentCache)}
}

// Register adds a cache to the sweep. Call before Run.
func (m *Manager) Register(cache Cleaner) {
	m.caches = append(m.caches, cache)
}

// Sweep cleans every registered cache once and returns the total removed.
func (m *Manager) Sweep() int {
	total := 0
	for _, c := range m.caches {
		total += c.CleanExpired()
	}
	return total
}

// Run sweeps on every tick until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := m.Sweep(); removed > 0 {
				m.logger.Debug("Expired cache entries removed", "count", removed)
			}
		case <-ctx.Done():
			return nil
		}
	}
}
