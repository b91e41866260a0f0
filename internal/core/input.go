package core

import "strings"

// TransactionInput carries the raw form fields of a transaction.
type TransactionInput struct {
	Title    string
	Amount   string
	Category string
	Date     string
}

// ParseTransactionInput validates raw fields in form order (title, amount,
// category, date) and reports the first offending one. The returned record
// has no ID.
func ParseTransactionInput(in TransactionInput) (Transaction, error) {
	tx := Transaction{Title: strings.TrimSpace(in.Title)}
	if tx.Title == "" {
		return Transaction{}, &ValidationError{Field: FieldTitle, Reason: "must not be empty"}
	}

	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return Transaction{}, err
	}
	tx.Amount = amount

	category, err := ParseCategory(in.Category)
	if err != nil {
		return Transaction{}, err
	}
	tx.Category = category

	date, err := ParseDate(in.Date)
	if err != nil {
		return Transaction{}, err
	}
	tx.Date = date

	return tx, nil
}
