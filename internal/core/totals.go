package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   decimal.Decimal
}

// Totals summarises the whole ledger. It never reflects an active filter.
type Totals struct {
	TotalIncome    decimal.Decimal
	TotalExpenses  decimal.Decimal
	TotalBalance   decimal.Decimal
	CategoryTotals map[Category]decimal.Decimal
	// ByCategory lists every category in display order, zero when unused.
	ByCategory []CategoryAmount
	Count      int
}

// ComputeTotals reduces the full ledger into income, expense, balance and
// per-category sums.
func ComputeTotals(ledger []Transaction) Totals {
	totals := Totals{
		TotalIncome:    decimal.Zero,
		TotalExpenses:  decimal.Zero,
		CategoryTotals: make(map[Category]decimal.Decimal, len(categories)),
		Count:          len(ledger),
	}
	for _, c := range categories {
		totals.CategoryTotals[c] = decimal.Zero
	}

	for _, tx := range ledger {
		if tx.IsIncome() {
			totals.TotalIncome = totals.TotalIncome.Add(tx.Amount)
		} else {
			totals.TotalExpenses = totals.TotalExpenses.Add(tx.Amount)
		}
		totals.CategoryTotals[tx.Category] = totals.CategoryTotals[tx.Category].Add(tx.Amount)
	}
	totals.TotalBalance = totals.TotalIncome.Sub(totals.TotalExpenses)

	totals.ByCategory = make([]CategoryAmount, 0, len(categories))
	for _, c := range categories {
		totals.ByCategory = append(totals.ByCategory, CategoryAmount{Category: c, Amount: totals.CategoryTotals[c]})
	}
	return totals
}
