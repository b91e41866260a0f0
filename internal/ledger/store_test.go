package ledger

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker/internal/core"
)

// fakePersister records every save and can be told to fail.
type fakePersister struct {
	mu      sync.Mutex
	initial []core.Transaction
	loaded  bool
	saves   [][]core.Transaction
	failErr error
}

func (p *fakePersister) Load(context.Context) ([]core.Transaction, bool) {
	return p.initial, p.loaded
}

func (p *fakePersister) Save(_ context.Context, ledger []core.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failErr != nil {
		return p.failErr
	}
	p.saves = append(p.saves, append([]core.Transaction(nil), ledger...))
	return nil
}

func (p *fakePersister) saveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.saves)
}

func (p *fakePersister) last() []core.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.saves) == 0 {
		return nil
	}
	return p.saves[len(p.saves)-1]
}

func newTx(title, amount string, category core.Category, day int) core.Transaction {
	return core.Transaction{
		Title:    title,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     core.NewDate(2024, 1, day),
	}
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *fakePersister) {
	t.Helper()
	p := &fakePersister{}
	s, err := NewStore(context.Background(), p, opts...)
	require.NoError(t, err)
	return s, p
}

func seed(t *testing.T, s *Store, txs ...core.Transaction) []core.Transaction {
	t.Helper()
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		added, err := s.Add(context.Background(), tx)
		require.NoError(t, err)
		out = append(out, added)
	}
	return out
}

func TestNewStoreRequiresPersister(t *testing.T) {
	_, err := NewStore(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewStoreHydrates(t *testing.T) {
	p := &fakePersister{
		initial: []core.Transaction{newTx("Paycheck", "1000", core.Salary, 1)},
		loaded:  true,
	}
	s, err := NewStore(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, uint64(0), s.Version())
	assert.Zero(t, p.saveCount(), "hydration must not save")
}

func TestAddAppends(t *testing.T) {
	s, p := newTestStore(t)
	seed(t, s, newTx("Paycheck", "1000", core.Salary, 1))

	added, err := s.Add(context.Background(), newTx("Groceries", "50", core.Food, 2))
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 2)
	assert.True(t, list[len(list)-1].Equal(added))
	assert.True(t, added.SameContent(newTx("Groceries", "50", core.Food, 2)))
	assert.NotEqual(t, list[0].ID, list[1].ID)
	assert.Equal(t, uint64(2), s.Version())
	assert.Equal(t, 2, p.saveCount())
	assert.Len(t, p.last(), 2)
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		name  string
		tx    core.Transaction
		field string
	}{
		{name: "empty title", tx: newTx("", "10", core.Food, 1), field: core.FieldTitle},
		{name: "blank title", tx: newTx("   ", "10", core.Food, 1), field: core.FieldTitle},
		{name: "zero amount", tx: newTx("x", "0", core.Food, 1), field: core.FieldAmount},
		{name: "negative amount", tx: newTx("x", "-5", core.Food, 1), field: core.FieldAmount},
		{name: "amount too large", tx: newTx("x", "1e400", core.Food, 1), field: core.FieldAmount},
		{name: "amount too precise", tx: newTx("x", "0."+strings.Repeat("0", 400)+"1", core.Food, 1), field: core.FieldAmount},
		{name: "unknown category", tx: newTx("x", "5", core.Category("Travel"), 1), field: core.FieldCategory},
		{name: "missing date", tx: core.Transaction{Title: "x", Amount: decimal.NewFromInt(5), Category: core.Food}, field: core.FieldDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, p := newTestStore(t)
			seed(t, s, newTx("Paycheck", "1000", core.Salary, 1))
			before := s.List()

			_, err := s.Add(context.Background(), tt.tx)
			ve, ok := core.IsValidation(err)
			require.True(t, ok, "want ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, before, s.List())
			assert.Equal(t, 1, p.saveCount())
		})
	}
}

func TestUpdateAtReplacesInPlace(t *testing.T) {
	s, _ := newTestStore(t)
	seeded := seed(t, s,
		newTx("Paycheck", "1000", core.Salary, 1),
		newTx("Groceries", "50", core.Food, 2),
		newTx("Rent", "700", core.Bills, 3),
	)

	replacement := newTx("Supermarket", "55.20", core.Food, 4)
	updated, err := s.UpdateAt(context.Background(), 1, replacement)
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 3)
	assert.True(t, list[1].SameContent(replacement))
	assert.Equal(t, seeded[1].ID, list[1].ID, "update keeps the ID")
	assert.Equal(t, seeded[1].ID, updated.ID)
	assert.True(t, list[0].Equal(seeded[0]))
	assert.True(t, list[2].Equal(seeded[2]))
}

func TestUpdateAtChecksIndexBeforeValidation(t *testing.T) {
	s, _ := newTestStore(t)
	seed(t, s, newTx("Paycheck", "1000", core.Salary, 1))

	_, err := s.UpdateAt(context.Background(), 3, newTx("", "0", core.Food, 1))
	assert.ErrorIs(t, err, core.ErrIndexOutOfRange)

	_, err = s.UpdateAt(context.Background(), 0, newTx("", "10", core.Food, 1))
	ve, ok := core.IsValidation(err)
	require.True(t, ok)
	assert.Equal(t, core.FieldTitle, ve.Field)
	assert.Equal(t, "Paycheck", s.List()[0].Title)
}

func TestDeleteAtShifts(t *testing.T) {
	s, p := newTestStore(t)
	seeded := seed(t, s,
		newTx("A", "1", core.Food, 1),
		newTx("B", "2", core.Food, 2),
		newTx("C", "3", core.Food, 3),
	)

	removed, err := s.DeleteAt(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, seeded[1].ID, removed.ID)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, seeded[0].ID, list[0].ID)
	assert.Equal(t, seeded[2].ID, list[1].ID)
	assert.Len(t, p.last(), 2)
}

func TestDeleteAtOutOfRange(t *testing.T) {
	s, _ := newTestStore(t)
	seed(t, s, newTx("Paycheck", "1000", core.Salary, 1), newTx("Groceries", "50", core.Food, 2))
	before := s.List()
	version := s.Version()

	for _, index := range []int{5, 2, -1} {
		_, err := s.DeleteAt(context.Background(), index)
		assert.ErrorIs(t, err, core.ErrIndexOutOfRange, "index %d", index)
	}
	assert.Equal(t, before, s.List())
	assert.Equal(t, version, s.Version())
}

func TestIDAddressedOperations(t *testing.T) {
	s, _ := newTestStore(t)
	seeded := seed(t, s, newTx("A", "1", core.Food, 1), newTx("B", "2", core.Bills, 2))
	ctx := context.Background()

	got, err := s.Get(seeded[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Title)

	index, ok := s.IndexOf(seeded[1].ID)
	assert.True(t, ok)
	assert.Equal(t, 1, index)

	_, err = s.Update(ctx, seeded[1].ID, newTx("B2", "3", core.Bills, 3))
	require.NoError(t, err)

	_, err = s.Delete(ctx, seeded[0].ID)
	require.NoError(t, err)

	index, ok = s.IndexOf(seeded[1].ID)
	assert.True(t, ok)
	assert.Equal(t, 0, index)

	_, err = s.Get(seeded[0].ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = s.Update(ctx, seeded[0].ID, newTx("x", "1", core.Food, 1))
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = s.Delete(ctx, seeded[0].ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, ok = s.IndexOf(seeded[0].ID)
	assert.False(t, ok)
}

func TestListIsACopy(t *testing.T) {
	s, _ := newTestStore(t)
	seed(t, s, newTx("A", "1", core.Food, 1))

	list := s.List()
	list[0].Title = "mutated"
	assert.Equal(t, "A", s.List()[0].Title)
}

func TestEmptyLedgerIsNotSaved(t *testing.T) {
	s, p := newTestStore(t)
	seed(t, s, newTx("A", "1", core.Food, 1))
	require.Equal(t, 1, p.saveCount())

	_, err := s.DeleteAt(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, p.saveCount(), "empty ledger must not be written")
	assert.False(t, s.Dirty())
}

func TestPersistEmptySavesClearedLedger(t *testing.T) {
	s, p := newTestStore(t, WithPersistEmpty(true))
	seed(t, s, newTx("A", "1", core.Food, 1))

	_, err := s.DeleteAt(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, p.saveCount())
	assert.Empty(t, p.last())
}

func TestFailedSaveRetriedOnNextMutation(t *testing.T) {
	s, p := newTestStore(t)
	ctx := context.Background()

	p.failErr = errors.New("disk full")
	added, err := s.Add(ctx, newTx("A", "1", core.Food, 1))
	require.NoError(t, err, "a failed save does not fail the mutation")
	assert.True(t, s.Dirty())
	assert.Equal(t, 1, s.Len())

	p.failErr = nil
	_, err = s.Add(ctx, newTx("B", "2", core.Food, 2))
	require.NoError(t, err)
	assert.False(t, s.Dirty())
	require.Len(t, p.last(), 2)
	assert.Equal(t, added.ID, p.last()[0].ID)
}

func TestFlush(t *testing.T) {
	s, p := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Flush(ctx))
	assert.Zero(t, p.saveCount(), "clean store does not save")

	p.failErr = errors.New("disk full")
	seed(t, s, newTx("A", "1", core.Food, 1))
	assert.Error(t, s.Flush(ctx))
	assert.True(t, s.Dirty())

	p.failErr = nil
	require.NoError(t, s.Flush(ctx))
	assert.False(t, s.Dirty())
	assert.Equal(t, 1, p.saveCount())
}

func TestConcurrentAdds(t *testing.T) {
	s, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Add(context.Background(), newTx("A", "1", core.Food, 1))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, s.Len())
	assert.Equal(t, uint64(20), s.Version())
}

func TestSnapshotMatchesVersion(t *testing.T) {
	s, _ := newTestStore(t)
	seed(t, s, newTx("A", "1", core.Food, 1), newTx("B", "2", core.Food, 2))

	version, items := s.Snapshot()
	assert.Equal(t, s.Version(), version)
	assert.Len(t, items, 2)
}
