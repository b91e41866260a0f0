// Package http serves the ledger as a local JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"tracker/internal/cache"
	"tracker/internal/core"
	"tracker/internal/ledger"
	"tracker/internal/log"
	"tracker/internal/services"
)

const (
	defaultCacheSize = 128
	defaultCacheTTL  = time.Minute
)

// Deps are the collaborators the server routes requests to.
type Deps struct {
	Store     *ledger.Store
	Service   *services.LedgerService
	Session   *ledger.EditSession
	Logger    *log.Logger
	CacheSize int
	CacheTTL  time.Duration
}

type Server struct {
	http.Server

	store   *ledger.Store
	service *services.LedgerService
	session *ledger.EditSession
	logger  *log.Logger

	// Derived views keyed by ledger version.
	listCache   *cache.LRUCache[listResponse]
	totalsCache *cache.LRUCache[core.Totals]
	caches      *cache.Manager

	rateLimiter  *rateLimiter
	metrics      *securityMetrics
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.Discard()
	}
	size, ttl := deps.CacheSize, deps.CacheTTL
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	s := &Server{
		store:       deps.Store,
		service:     deps.Service,
		session:     deps.Session,
		logger:      logger.WithComponent(log.ComponentHTTP),
		listCache:   cache.NewLRUCache[listResponse](size, ttl),
		totalsCache: cache.NewLRUCache[core.Totals](size, ttl),
		caches:      cache.NewManager(logger),
		rateLimiter: newRateLimiter(),
		metrics:     &securityMetrics{},
	}
	s.caches.Register(s.listCache)
	s.caches.Register(s.totalsCache)
	s.caches.Register(s.rateLimiter)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleSubmitTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("POST /api/edit/{id}", s.handleBeginEdit)
	mux.HandleFunc("GET /api/edit", s.handleEditState)
	mux.HandleFunc("DELETE /api/edit", s.handleCancelEdit)
	mux.HandleFunc("GET /api/summary", s.handleSummary)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           log.Middleware(logger)(s.withSecurity(mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// RunCacheCleanup sweeps expired view-cache and rate-limit entries until
// ctx is done.
func (s *Server) RunCacheCleanup(ctx context.Context, interval time.Duration) error {
	return s.caches.Run(ctx, interval)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.logger.InfoContext(ctx, "Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
		err = s.Server.Shutdown(ctx)
	})
	return err
}
