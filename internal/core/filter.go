package core

import "strings"

// FilterCriteria narrows the displayed ledger. Every field is optional and
// a nil or empty field places no constraint.
type FilterCriteria struct {
	Category   *Category
	StartDate  *Date
	EndDate    *Date
	SearchText string
	Type       *TransactionType
}

// FilterInput carries raw criteria as typed by a user; empty strings mean absent.
type FilterInput struct {
	Category   string `json:"category" yaml:"category"`
	StartDate  string `json:"startDate" yaml:"startDate"`
	EndDate    string `json:"endDate" yaml:"endDate"`
	SearchText string `json:"search" yaml:"search"`
	Type       string `json:"type" yaml:"type"`
}

// ParseFilterCriteria converts raw input into criteria, rejecting unknown
// categories and types and malformed dates.
func ParseFilterCriteria(in FilterInput) (FilterCriteria, error) {
	var criteria FilterCriteria

	if v := strings.TrimSpace(in.Category); v != "" {
		c, err := ParseCategory(v)
		if err != nil {
			return FilterCriteria{}, err
		}
		criteria.Category = &c
	}
	if v := strings.TrimSpace(in.StartDate); v != "" {
		d, err := ParseDate(v)
		if err != nil {
			return FilterCriteria{}, &ValidationError{Field: FieldStartDate, Reason: "expected YYYY-MM-DD"}
		}
		criteria.StartDate = &d
	}
	if v := strings.TrimSpace(in.EndDate); v != "" {
		d, err := ParseDate(v)
		if err != nil {
			return FilterCriteria{}, &ValidationError{Field: FieldEndDate, Reason: "expected YYYY-MM-DD"}
		}
		criteria.EndDate = &d
	}
	if v := strings.TrimSpace(in.Type); v != "" {
		t, err := ParseTransactionType(v)
		if err != nil {
			return FilterCriteria{}, err
		}
		criteria.Type = &t
	}
	criteria.SearchText = in.SearchText

	return criteria, nil
}

// IsEmpty reports whether the criteria constrain nothing.
func (f FilterCriteria) IsEmpty() bool {
	return f.Category == nil && f.StartDate == nil && f.EndDate == nil && f.SearchText == "" && f.Type == nil
}

// Key is a stable textual form of the criteria, used as a cache key.
func (f FilterCriteria) Key() string {
	var b strings.Builder
	if f.Category != nil {
		b.WriteString("c=" + string(*f.Category))
	}
	b.WriteByte('|')
	if f.StartDate != nil {
		b.WriteString("s=" + f.StartDate.String())
	}
	b.WriteByte('|')
	if f.EndDate != nil {
		b.WriteString("e=" + f.EndDate.String())
	}
	b.WriteByte('|')
	if f.Type != nil {
		b.WriteString("t=" + string(*f.Type))
	}
	b.WriteByte('|')
	b.WriteString("q=" + strings.ToLower(f.SearchText))
	return b.String()
}

// Matches applies every criterion conjunctively to one record.
func (f FilterCriteria) Matches(tx Transaction) bool {
	if f.Category != nil && tx.Category != *f.Category {
		return false
	}
	if f.StartDate != nil && tx.Date.Compare(*f.StartDate) < 0 {
		return false
	}
	if f.EndDate != nil && tx.Date.Compare(*f.EndDate) > 0 {
		return false
	}
	if f.SearchText != "" && !strings.Contains(strings.ToLower(tx.Title), strings.ToLower(f.SearchText)) {
		return false
	}
	if f.Type != nil && tx.Type() != *f.Type {
		return false
	}
	return true
}

// Apply returns the records matching the criteria in ledger order. Empty
// criteria return the ledger itself.
func Apply(ledger []Transaction, criteria FilterCriteria) []Transaction {
	if criteria.IsEmpty() {
		return ledger
	}
	out := make([]Transaction, 0, len(ledger))
	for _, tx := range ledger {
		if criteria.Matches(tx) {
			out = append(out, tx)
		}
	}
	return out
}
