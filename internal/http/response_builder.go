package http

import (
	"encoding/json"
	"net/http"

	"tracker/internal/core"
	"tracker/internal/ledger"
)

// JSONResponseBuilder provides a fluent API for writing JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	body       any
	headers    map[string]string
}

func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value to encode. A nil body writes no content.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_ = json.NewEncoder(w).Encode(b.body)
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// ErrorResponse creates an error body with an optional offending field.
func ErrorResponse(statusCode int, message, field string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(statusCode).
		Body(errorResponse{Error: message, Field: field})
}

func BadRequestError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message, "")
}

func NotFoundError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message, "")
}

func InternalServerError(message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message, "")
}

// ValidationErrorResponse reports a rejected field as 422.
func ValidationErrorResponse(ve *core.ValidationError) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, ve.Error(), ve.Field)
}

type transactionResponse struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
	Title    string `json:"title"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Date     string `json:"date"`
}

func newTransactionResponse(tx core.Transaction, position int) transactionResponse {
	return transactionResponse{
		ID:       tx.ID.String(),
		Position: position,
		Title:    tx.Title,
		Amount:   core.FormatAmount(tx.Amount),
		Category: string(tx.Category),
		Type:     string(tx.Type()),
		Date:     tx.Date.String(),
	}
}

type listResponse struct {
	Items  []transactionResponse `json:"items"`
	Count  int                   `json:"count"`
	Total  int                   `json:"total"`
	Filter core.FilterInput      `json:"filter"`
}

type categoryTotalResponse struct {
	Category string `json:"category"`
	Type     string `json:"type"`
	Amount   string `json:"amount"`
}

type summaryResponse struct {
	TotalIncome   string                  `json:"totalIncome"`
	TotalExpenses string                  `json:"totalExpenses"`
	TotalBalance  string                  `json:"totalBalance"`
	Count         int                     `json:"count"`
	Categories    []categoryTotalResponse `json:"categories"`
}

func newSummaryResponse(totals core.Totals) summaryResponse {
	resp := summaryResponse{
		TotalIncome:   core.FormatAmount(totals.TotalIncome),
		TotalExpenses: core.FormatAmount(totals.TotalExpenses),
		TotalBalance:  core.FormatAmount(totals.TotalBalance),
		Count:         totals.Count,
		Categories:    make([]categoryTotalResponse, 0, len(totals.ByCategory)),
	}
	for _, ca := range totals.ByCategory {
		resp.Categories = append(resp.Categories, categoryTotalResponse{
			Category: string(ca.Category),
			Type:     string(ca.Category.Type()),
			Amount:   core.FormatAmount(ca.Amount),
		})
	}
	return resp
}

type categoryResponse struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type sessionResponse struct {
	Mode        string               `json:"mode"`
	ID          string               `json:"id,omitempty"`
	Position    *int                 `json:"position,omitempty"`
	Transaction *transactionResponse `json:"transaction,omitempty"`
}

func newSessionResponse(state ledger.State, store *ledger.Store) sessionResponse {
	resp := sessionResponse{Mode: state.Mode.String()}
	if state.Mode != ledger.Editing {
		return resp
	}
	resp.ID = state.ID.String()
	if index, ok := store.IndexOf(state.ID); ok {
		resp.Position = &index
		if tx, err := store.At(index); err == nil {
			tr := newTransactionResponse(tx, index)
			resp.Transaction = &tr
		}
	}
	return resp
}
