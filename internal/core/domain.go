package core

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const (
	Food          Category = "Food"
	Bills         Category = "Bills"
	Salary        Category = "Salary"
	Entertainment Category = "Entertainment"
	Other         Category = "Other"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DateLayout is the ISO-8601 calendar date layout used on every boundary.
const DateLayout = "2006-01-02"

type (
	Category string

	TransactionType string

	Date struct {
		time.Time
	}

	// Transaction is a single ledger record. It is replaced wholesale on edit;
	// the ID survives the replacement.
	Transaction struct {
		ID       uuid.UUID
		Title    string
		Amount   decimal.Decimal
		Category Category
		Date     Date
	}
)

// categories is the fixed enumeration in display order.
var categories = []Category{Food, Bills, Salary, Entertainment, Other}

// Categories returns the fixed category enumeration in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

func (c Category) IsValid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Type classifies the category. Salary is the only income category.
func (c Category) Type() TransactionType {
	if c == Salary {
		return Income
	}
	return Expense
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory matches the canonical name first and falls back to a
// case-insensitive comparison.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if c := Category(s); c.IsValid() {
		return c, nil
	}
	for _, c := range categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", &ValidationError{Field: FieldCategory, Reason: "unknown category " + strconv.Quote(s)}
}

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", &ValidationError{Field: FieldType, Reason: "must be income or expense"}
	}
	return t, nil
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Out-of-range days such as 2024-02-30
// are rejected rather than normalised.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &ValidationError{Field: FieldDate, Reason: "expected YYYY-MM-DD"}
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return &ValidationError{Field: FieldDate, Reason: "must not be empty"}
	}
	return nil
}

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Compare orders two dates by calendar day, ignoring any time component.
func (d Date) Compare(other Date) int {
	a, b := d.truncate(), other.truncate()
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

func (d Date) truncate() time.Time {
	y, m, day := d.Time.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON overrides the promoted time.Time encoding so dates stay YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return &ValidationError{Field: FieldDate, Reason: "expected a string"}
	}
	return d.UnmarshalText([]byte(s))
}

// Type derives income/expense from the category; it is never stored.
func (t Transaction) Type() TransactionType {
	return t.Category.Type()
}

func (t Transaction) IsIncome() bool {
	return t.Type() == Income
}

// Validate checks title, amount, category and date in that order and
// reports the first offending field.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: FieldTitle, Reason: "must not be empty"}
	}
	if err := CheckAmount(t.Amount); err != nil {
		return err
	}
	if !t.Category.IsValid() {
		return &ValidationError{Field: FieldCategory, Reason: "unknown category " + strconv.Quote(string(t.Category))}
	}
	return t.Date.Validate()
}

// Equal compares every field, using decimal equality for the amount.
func (t Transaction) Equal(other Transaction) bool {
	return t.ID == other.ID &&
		t.Title == other.Title &&
		t.Amount.Equal(other.Amount) &&
		t.Category == other.Category &&
		t.Date.Compare(other.Date) == 0
}

// SameContent is Equal without the ID.
func (t Transaction) SameContent(other Transaction) bool {
	other.ID = t.ID
	return t.Equal(other)
}
