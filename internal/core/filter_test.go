package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLedger() []Transaction {
	return []Transaction{
		{Title: "Paycheck", Amount: decimal.NewFromInt(1000), Category: Salary, Date: NewDate(2024, 1, 1)},
		{Title: "Groceries", Amount: decimal.NewFromInt(50), Category: Food, Date: NewDate(2024, 1, 2)},
		{Title: "Electricity bill", Amount: decimal.RequireFromString("80.25"), Category: Bills, Date: NewDate(2024, 1, 15)},
		{Title: "Cinema", Amount: decimal.NewFromInt(12), Category: Entertainment, Date: NewDate(2024, 2, 3)},
		{Title: "Bonus paycheck", Amount: decimal.NewFromInt(200), Category: Salary, Date: NewDate(2024, 2, 28)},
	}
}

func titles(txs []Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.Title
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestApply_EmptyCriteriaIsIdentity(t *testing.T) {
	ledger := sampleLedger()
	got := Apply(ledger, FilterCriteria{})
	assert.Equal(t, ledger, got)

	assert.Empty(t, Apply(nil, FilterCriteria{}))
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		criteria FilterCriteria
		want     []string
	}{
		{
			name:     "expense type",
			criteria: FilterCriteria{Type: ptr(Expense)},
			want:     []string{"Groceries", "Electricity bill", "Cinema"},
		},
		{
			name:     "income type",
			criteria: FilterCriteria{Type: ptr(Income)},
			want:     []string{"Paycheck", "Bonus paycheck"},
		},
		{
			name:     "category",
			criteria: FilterCriteria{Category: ptr(Bills)},
			want:     []string{"Electricity bill"},
		},
		{
			name:     "inclusive date range",
			criteria: FilterCriteria{StartDate: ptr(NewDate(2024, 1, 2)), EndDate: ptr(NewDate(2024, 2, 3))},
			want:     []string{"Groceries", "Electricity bill", "Cinema"},
		},
		{
			name:     "start date only",
			criteria: FilterCriteria{StartDate: ptr(NewDate(2024, 2, 1))},
			want:     []string{"Cinema", "Bonus paycheck"},
		},
		{
			name:     "end date only",
			criteria: FilterCriteria{EndDate: ptr(NewDate(2024, 1, 1))},
			want:     []string{"Paycheck"},
		},
		{
			name:     "case-insensitive search",
			criteria: FilterCriteria{SearchText: "PAYCHECK"},
			want:     []string{"Paycheck", "Bonus paycheck"},
		},
		{
			name:     "conjunction",
			criteria: FilterCriteria{SearchText: "pay", StartDate: ptr(NewDate(2024, 2, 1)), Type: ptr(Income)},
			want:     []string{"Bonus paycheck"},
		},
		{
			name:     "category contradicting type",
			criteria: FilterCriteria{Category: ptr(Salary), Type: ptr(Expense)},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(sampleLedger(), tt.criteria)
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestApply_ExpenseScenario(t *testing.T) {
	ledger := sampleLedger()[:2]
	got := Apply(ledger, FilterCriteria{Type: ptr(Expense)})
	require.Len(t, got, 1)
	assert.Equal(t, "Groceries", got[0].Title)
}

func TestParseFilterCriteria(t *testing.T) {
	criteria, err := ParseFilterCriteria(FilterInput{})
	require.NoError(t, err)
	assert.True(t, criteria.IsEmpty())

	criteria, err = ParseFilterCriteria(FilterInput{
		Category:   "food",
		StartDate:  "2024-01-01",
		EndDate:    "2024-01-31",
		SearchText: "gro",
		Type:       "Expense",
	})
	require.NoError(t, err)
	require.NotNil(t, criteria.Category)
	assert.Equal(t, Food, *criteria.Category)
	assert.Equal(t, "2024-01-01", criteria.StartDate.String())
	assert.Equal(t, "2024-01-31", criteria.EndDate.String())
	assert.Equal(t, Expense, *criteria.Type)
	assert.Equal(t, "gro", criteria.SearchText)

	bad := []struct {
		in    FilterInput
		field string
	}{
		{FilterInput{Category: "Rent"}, FieldCategory},
		{FilterInput{StartDate: "Jan 1"}, FieldStartDate},
		{FilterInput{EndDate: "2024-02-31"}, FieldEndDate},
		{FilterInput{Type: "transfer"}, FieldType},
	}
	for _, tc := range bad {
		_, err := ParseFilterCriteria(tc.in)
		ve, ok := IsValidation(err)
		require.True(t, ok, "expected validation error for %+v", tc.in)
		assert.Equal(t, tc.field, ve.Field)
	}
}

func TestFilterCriteriaKey(t *testing.T) {
	a := FilterCriteria{Category: ptr(Food), SearchText: "Gro"}
	b := FilterCriteria{Category: ptr(Food), SearchText: "gro"}
	c := FilterCriteria{Category: ptr(Bills), SearchText: "gro"}
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.NotEqual(t, FilterCriteria{}.Key(), a.Key())
}
