// Package core provides money parsing and handling utilities.
//
// Amounts are shopspring decimals so that sums over the ledger are exact;
// display formatting rounds to two places.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Amount bounds. Every accepted amount has at most 15 integer digits and
// MaxAmountScale decimal places, so it survives persistence exactly.
const MaxAmountScale = 8

// MaxAmount is the exclusive upper bound for an amount.
var MaxAmount = decimal.New(1, 15)

// CheckAmount rejects amounts that are not positive or fall outside the
// supported range.
func CheckAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return &ValidationError{Field: FieldAmount, Reason: "must be greater than 0"}
	}
	if d.GreaterThanOrEqual(MaxAmount) {
		return &ValidationError{Field: FieldAmount, Reason: "must be less than " + MaxAmount.String()}
	}
	if !d.Equal(d.Truncate(MaxAmountScale)) {
		return &ValidationError{Field: FieldAmount, Reason: "too many decimal places"}
	}
	return nil
}

// ParseAmount converts a user-entered decimal string to a positive amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Signs,
// exponents and grouping characters are rejected, as are zero and amounts
// outside the range checked by CheckAmount.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,5")  -> 12.5, nil
//	ParseAmount("-1")    -> 0, ValidationError{amount}
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, &ValidationError{Field: FieldAmount, Reason: "must not be empty"}
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, &ValidationError{Field: FieldAmount, Reason: "not a number"}
	}
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return decimal.Zero, &ValidationError{Field: FieldAmount, Reason: "not a number"}
		}
	}
	if s == "." {
		return decimal.Zero, &ValidationError{Field: FieldAmount, Reason: "not a number"}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: FieldAmount, Reason: "not a number"}
	}
	if err := CheckAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// FormatAmount renders an amount rounded to two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
