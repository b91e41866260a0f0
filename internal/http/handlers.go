package http

import (
	"net/http"

	"github.com/gofrs/uuid/v5"

	"tracker/internal/cache"
	"tracker/internal/core"
	"tracker/internal/log"
)

func handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]string{"status": "ok"}).Write(w)
}

// handleReady reports 503 while the last save has not reached storage.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store.Dirty() {
		NewJSONResponse().
			Status(http.StatusServiceUnavailable).
			Body(map[string]any{"status": "unsaved changes", "dirty": true}).
			Write(w)
		return
	}
	NewJSONResponse().Body(map[string]any{"status": "ready", "dirty": false}).Write(w)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories := core.Categories()
	resp := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, categoryResponse{Name: string(c), Type: string(c.Type())})
	}
	NewJSONResponse().Body(resp).Write(w)
}

// handleListTransactions returns the filtered view. Each item carries its
// position in the full ledger.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	criteria, input, err := ParseFilterQuery(r.URL.Query())
	if err != nil {
		if ve, ok := core.IsValidation(err); ok {
			ErrorResponse(http.StatusBadRequest, ve.Error(), ve.Field).Write(w)
			return
		}
		BadRequestError(err.Error()).Write(w)
		return
	}

	version, items := s.store.Snapshot()
	resp, hit := cache.GetOrCompute[listResponse](s.listCache, cache.VersionKey(version, "list|"+criteria.Key()), func() listResponse {
		return buildListResponse(items, criteria)
	})
	resp.Filter = input

	log.FromContext(r.Context()).DebugContext(r.Context(), "Listed transactions",
		log.FieldOperation, log.OpFilter, log.FieldLedgerSize, len(items), "count", resp.Count, "cache_hit", hit)
	NewJSONResponse().Body(resp).Write(w)
}

func buildListResponse(items []core.Transaction, criteria core.FilterCriteria) listResponse {
	positions := make(map[uuid.UUID]int, len(items))
	for i, tx := range items {
		positions[tx.ID] = i
	}

	filtered := core.Apply(items, criteria)
	resp := listResponse{
		Items: make([]transactionResponse, 0, len(filtered)),
		Count: len(filtered),
		Total: len(items),
	}
	for _, tx := range filtered {
		resp.Items = append(resp.Items, newTransactionResponse(tx, positions[tx.ID]))
	}
	return resp
}

// handleSubmitTransaction routes the form through the edit session: it
// creates a transaction when idle and replaces the edited one otherwise.
func (s *Server) handleSubmitTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := NewRequestBodyParser(r).ParseTransaction()
	if err != nil {
		s.writeBodyError(w, r, err)
		return
	}

	saved, created, err := s.session.Submit(r.Context(), tx)
	if err != nil {
		errorFor(r, err).Write(w)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.writeTransaction(w, saved, status)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errorFor(r, err).Write(w)
		return
	}
	tx, err := s.store.Get(id)
	if err != nil {
		errorFor(r, err).Write(w)
		return
	}
	s.writeTransaction(w, tx, http.StatusOK)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errorFor(r, err).Write(w)
		return
	}
	// Existence is checked before the body so a stale ID reports 404.
	if _, err := s.store.Get(id); err != nil {
		errorFor(r, err).Write(w)
		return
	}

	tx, err := NewRequestBodyParser(r).ParseTransaction()
	if err != nil {
		s.writeBodyError(w, r, err)
		return
	}
	updated, err := s.service.Update(r.Context(), id, tx)
	if err != nil {
		errorFor(r, err).Write(w)
		return
	}
	s.writeTransaction(w, updated, http.StatusOK)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errorFor(r, err).Write(w)
		return
	}
	index, _ := s.store.IndexOf(id)
	removed, err := s.service.Delete(r.Context(), id)
	if err != nil {
		errorFor(r, err).Write(w)
		return
	}
	NewJSONResponse().Body(newTransactionResponse(removed, index)).Write(w)
}

func (s *Server) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errorFor(r, err).Write(w)
		return
	}
	if _, err := s.session.BeginEditID(id); err != nil {
		errorFor(r, err).Write(w)
		return
	}
	NewJSONResponse().Body(newSessionResponse(s.session.State(), s.store)).Write(w)
}

func (s *Server) handleEditState(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(newSessionResponse(s.session.State(), s.store)).Write(w)
}

func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	s.session.Cancel()
	NewJSONResponse().Body(newSessionResponse(s.session.State(), s.store)).Write(w)
}

// handleSummary aggregates the full ledger; filters never apply here.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	version, items := s.store.Snapshot()
	totals, _ := cache.GetOrCompute[core.Totals](s.totalsCache, cache.VersionKey(version, "summary"), func() core.Totals {
		return core.ComputeTotals(items)
	})
	NewJSONResponse().Body(newSummaryResponse(totals)).Write(w)
}

func (s *Server) writeTransaction(w http.ResponseWriter, tx core.Transaction, status int) {
	index, _ := s.store.IndexOf(tx.ID)
	NewJSONResponse().Status(status).Body(newTransactionResponse(tx, index)).Write(w)
}

// writeBodyError answers 422 for a rejected field and 400 for a body that
// could not be decoded at all.
func (s *Server) writeBodyError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := core.IsValidation(err); ok {
		ValidationErrorResponse(ve).Write(w)
		return
	}
	log.FromContext(r.Context()).WarnContext(r.Context(), "Malformed request body", log.FieldError, err.Error())
	BadRequestError("malformed request body").Write(w)
}
