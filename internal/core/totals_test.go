package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals_Scenario(t *testing.T) {
	ledger := sampleLedger()[:2]
	totals := ComputeTotals(ledger)

	assert.True(t, totals.TotalIncome.Equal(decimal.NewFromInt(1000)))
	assert.True(t, totals.TotalExpenses.Equal(decimal.NewFromInt(50)))
	assert.True(t, totals.TotalBalance.Equal(decimal.NewFromInt(950)))
	assert.Equal(t, 2, totals.Count)
}

func TestComputeTotals_CategoryBreakdown(t *testing.T) {
	totals := ComputeTotals(sampleLedger())

	require.Len(t, totals.ByCategory, len(Categories()))
	for i, c := range Categories() {
		assert.Equal(t, c, totals.ByCategory[i].Category)
		assert.True(t, totals.ByCategory[i].Amount.Equal(totals.CategoryTotals[c]))
	}
	assert.True(t, totals.CategoryTotals[Salary].Equal(decimal.NewFromInt(1200)))
	assert.True(t, totals.CategoryTotals[Bills].Equal(decimal.RequireFromString("80.25")))
	assert.True(t, totals.CategoryTotals[Other].IsZero())
	assert.Equal(t, "142.25", FormatAmount(totals.TotalExpenses))
	assert.Equal(t, "1057.75", FormatAmount(totals.TotalBalance))
}

func TestComputeTotals_Empty(t *testing.T) {
	totals := ComputeTotals(nil)
	assert.True(t, totals.TotalBalance.IsZero())
	assert.Len(t, totals.CategoryTotals, len(Categories()))
	assert.Zero(t, totals.Count)
}

func TestComputeTotals_IndependentOfFilter(t *testing.T) {
	ledger := sampleLedger()
	full := ComputeTotals(ledger)

	filtered := Apply(ledger, FilterCriteria{Type: ptr(Income)})
	require.Less(t, len(filtered), len(ledger))
	narrowed := ComputeTotals(filtered)

	assert.False(t, full.TotalExpenses.Equal(narrowed.TotalExpenses))
	assert.False(t, full.TotalBalance.Equal(narrowed.TotalBalance))
	assert.Equal(t, len(ledger), full.Count)

	again := ComputeTotals(ledger)
	assert.True(t, full.TotalBalance.Equal(again.TotalBalance), "filtering must not touch the ledger")
	assert.Equal(t, len(ledger), len(Apply(ledger, FilterCriteria{})))
}
