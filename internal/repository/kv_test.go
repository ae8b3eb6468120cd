package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eckho-Systems/Inventory-System/internal/apperror"
	"github.com/Eckho-Systems/Inventory-System/internal/kvstore"
	"github.com/Eckho-Systems/Inventory-System/internal/model"
)

func newTestStores(t *testing.T) Stores {
	t.Helper()
	store, err := kvstore.OpenFile(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewKVStores(store)
}

func seedItem(t *testing.T, s Stores, name, category string, qty int) *model.Item {
	t.Helper()
	item := &model.Item{
		Name:              name,
		Category:          category,
		Quantity:          qty,
		LowStockThreshold: 10,
		CreatedBy:         uuid.New(),
		Active:            true,
	}
	require.NoError(t, s.Items.Create(context.Background(), item))
	return item
}

func seedEntry(t *testing.T, s Stores, item *model.Item, change int, at time.Time) *model.Transaction {
	t.Helper()
	txType := model.TransactionAdd
	if change < 0 {
		txType = model.TransactionRemove
	}
	entry := &model.Transaction{
		ItemID:         item.ID,
		ItemName:       item.Name,
		QuantityChange: change,
		UserID:         uuid.New(),
		UserName:       "tester",
		UserRole:       model.RoleStaff,
		Timestamp:      at,
		Type:           txType,
	}
	require.NoError(t, s.Ledger.Create(context.Background(), entry))
	return entry
}

// ── Users ────────────────────────────────────────────────────────────────────

func TestKVUserLookupsAreActiveOnly(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	u := &model.User{Username: "ana", Name: "Ana", PinHash: "x", Role: model.RoleStaff, Active: true}
	require.NoError(t, s.Users.Create(ctx, u))
	require.NoError(t, s.Users.Deactivate(ctx, u.ID))

	_, err := s.Users.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, apperror.NotFound("user"))
	_, err = s.Users.FindByUsername(ctx, "ana")
	assert.ErrorIs(t, err, apperror.NotFound("user"))

	list, err := s.Users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Count includes inactive accounts: it answers "is this a fresh install".
	n, err := s.Users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestKVUserFindByUsernameIsCaseSensitive(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	u := &model.User{Username: "Ana", Name: "Ana", PinHash: "x", Role: model.RoleStaff, Active: true}
	require.NoError(t, s.Users.Create(ctx, u))

	_, err := s.Users.FindByUsername(ctx, "ana")
	assert.ErrorIs(t, err, apperror.NotFound("user"))
	found, err := s.Users.FindByUsername(ctx, "Ana")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
}

func TestKVUserListOrdersByCreatedDesc(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	old := &model.User{Username: "old", Name: "Old", PinHash: "x", Role: model.RoleStaff, Active: true,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	recent := &model.User{Username: "new", Name: "New", PinHash: "x", Role: model.RoleStaff, Active: true,
		CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.Users.Create(ctx, old))
	require.NoError(t, s.Users.Create(ctx, recent))

	list, err := s.Users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Username)
	assert.Equal(t, "old", list[1].Username)
}

func TestKVUserPinHashSurvivesStorage(t *testing.T) {
	dir := t.TempDir()
	store, err := kvstore.OpenFile(dir)
	require.NoError(t, err)
	s := NewKVStores(store)
	ctx := context.Background()

	const hash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	u := &model.User{Username: "ana", Name: "Ana", PinHash: hash, Role: model.RoleStaff, Active: true}
	require.NoError(t, s.Users.Create(ctx, u))

	// The hash never appears in the serialized API shape, but the stored
	// document must keep it or nobody can authenticate.
	got, err := s.Users.FindByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, hash, got.PinHash)

	// Still there after a reopen from disk.
	require.NoError(t, store.Close())
	store, err = kvstore.OpenFile(dir)
	require.NoError(t, err)
	defer store.Close()
	s = NewKVStores(store)

	got, err = s.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, hash, got.PinHash)
}

func TestKVUserExistsUsernameSeesInactive(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	u := &model.User{Username: "ana", Name: "Ana", PinHash: "x", Role: model.RoleStaff, Active: true}
	require.NoError(t, s.Users.Create(ctx, u))
	require.NoError(t, s.Users.Deactivate(ctx, u.ID))

	// Deactivated accounts keep their username reserved.
	exists, err := s.Users.ExistsUsername(ctx, "ana")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.Users.ExistsUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, exists)
}

// ── Items ────────────────────────────────────────────────────────────────────

func TestKVItemListFiltersAndSorts(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	seedItem(t, s, "Zucchini", "Produce", 5)
	seedItem(t, s, "Apple", "Produce", 3)
	coffee := seedItem(t, s, "Coffee Beans", "Drinks", 8)

	all, err := s.Items.List(ctx, ItemFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Apple", "Coffee Beans", "Zucchini"},
		[]string{all[0].Name, all[1].Name, all[2].Name})

	produce, err := s.Items.List(ctx, ItemFilter{Category: "Produce"})
	require.NoError(t, err)
	assert.Len(t, produce, 2)

	// Search is a case-insensitive substring match.
	found, err := s.Items.List(ctx, ItemFilter{Search: "bEaN"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, coffee.ID, found[0].ID)
}

func TestKVItemLowStock(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	seedItem(t, s, "Plenty", "X", 50)
	low := seedItem(t, s, "Low", "X", 4)
	lower := seedItem(t, s, "Lower", "X", 1)
	at := seedItem(t, s, "AtThreshold", "X", 10)

	items, err := s.Items.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	// Quantity ascending.
	assert.Equal(t, lower.ID, items[0].ID)
	assert.Equal(t, low.ID, items[1].ID)
	assert.Equal(t, at.ID, items[2].ID)
}

func TestKVItemCategoriesInUse(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	seedItem(t, s, "A", "Drinks", 1)
	seedItem(t, s, "B", "Drinks", 1)
	gone := seedItem(t, s, "C", "Snacks", 1)
	require.NoError(t, s.Items.Deactivate(ctx, gone.ID))

	names, err := s.Items.CategoriesInUse(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Drinks"}, names)

	n, err := s.Items.CountByCategory(ctx, "Drinks")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	n, err = s.Items.CountByCategory(ctx, "Snacks")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestKVItemUpdateQuantityStampsBySign(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()
	item := seedItem(t, s, "Tea", "Drinks", 10)

	require.NoError(t, s.Items.UpdateQuantity(ctx, item.ID, 15, 5))
	got, err := s.Items.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Quantity)
	assert.NotNil(t, got.LastStockAdded)
	assert.Nil(t, got.LastStockRemoved)

	require.NoError(t, s.Items.UpdateQuantity(ctx, item.ID, 12, -3))
	got, err = s.Items.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, got.Quantity)
	assert.NotNil(t, got.LastStockRemoved)
}

func TestKVItemUpdateNeverTouchesQuantity(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()
	item := seedItem(t, s, "Tea", "Drinks", 10)

	// Simulate a stale struct carrying an outdated quantity.
	stale := *item
	stale.Quantity = 999
	stale.Name = "Green Tea"
	require.NoError(t, s.Items.Update(ctx, &stale))

	got, err := s.Items.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Green Tea", got.Name)
	assert.Equal(t, 10, got.Quantity)
}

// ── Ledger ───────────────────────────────────────────────────────────────────

func TestKVLedgerFilterAndPagination(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()
	item := seedItem(t, s, "Tea", "Drinks", 10)
	other := seedItem(t, s, "Coffee", "Drinks", 10)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	seedEntry(t, s, item, 5, base)
	seedEntry(t, s, item, -2, base.Add(time.Hour))
	seedEntry(t, s, other, 7, base.Add(2*time.Hour))

	// Timestamp descending.
	all, err := s.Ledger.List(ctx, LedgerFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 7, all[0].QuantityChange)
	assert.Equal(t, -2, all[1].QuantityChange)
	assert.Equal(t, 5, all[2].QuantityChange)

	// Item filter.
	forItem, err := s.Ledger.List(ctx, LedgerFilter{ItemID: &item.ID})
	require.NoError(t, err)
	assert.Len(t, forItem, 2)

	// Type filter.
	removals, err := s.Ledger.List(ctx, LedgerFilter{Type: model.TransactionRemove})
	require.NoError(t, err)
	require.Len(t, removals, 1)
	assert.Equal(t, -2, removals[0].QuantityChange)

	// Inclusive time bounds.
	start, end := base, base.Add(time.Hour)
	ranged, err := s.Ledger.List(ctx, LedgerFilter{Start: &start, End: &end})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	// Pagination.
	page, err := s.Ledger.List(ctx, LedgerFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, -2, page[0].QuantityChange)

	// Offset past the end yields empty, not an error.
	page, err = s.Ledger.List(ctx, LedgerFilter{Limit: 5, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestKVLedgerPurgeByItem(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()
	item := seedItem(t, s, "Tea", "Drinks", 10)

	now := time.Now().UTC()
	seedEntry(t, s, item, 5, now)
	seedEntry(t, s, item, -1, now.Add(time.Second))
	marker := &model.Transaction{
		ItemID: item.ID, ItemName: item.Name, UserID: uuid.New(),
		UserName: "tester", UserRole: model.RoleOwner,
		Timestamp: now.Add(2 * time.Second), Type: model.TransactionItemDelete,
	}
	require.NoError(t, s.Ledger.Create(ctx, marker))

	// Purge keeping the deletion marker.
	n, err := s.Ledger.PurgeByItem(ctx, item.ID, model.TransactionItemDelete)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	left, err := s.Ledger.List(ctx, LedgerFilter{ItemID: &item.ID})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, model.TransactionItemDelete, left[0].Type)

	// Full purge removes the marker too.
	n, err = s.Ledger.PurgeByItem(ctx, item.ID, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

// ── Unit of work ─────────────────────────────────────────────────────────────

func TestKVUnitOfWorkCommitsTogether(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()
	item := seedItem(t, s, "Tea", "Drinks", 10)

	err := s.UnitOfWork.Do(ctx, func(tx TxStores) error {
		if err := tx.Items.UpdateQuantity(ctx, item.ID, 15, 5); err != nil {
			return err
		}
		return tx.Ledger.Create(ctx, &model.Transaction{
			ItemID: item.ID, ItemName: item.Name, QuantityChange: 5,
			UserID: uuid.New(), UserName: "tester", UserRole: model.RoleStaff,
			Type: model.TransactionAdd,
		})
	})
	require.NoError(t, err)

	got, err := s.Items.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Quantity)
	entries, err := s.Ledger.List(ctx, LedgerFilter{ItemID: &item.ID})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestKVUnitOfWorkRollsBackOnError(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()
	item := seedItem(t, s, "Tea", "Drinks", 10)

	boom := errors.New("boom")
	err := s.UnitOfWork.Do(ctx, func(tx TxStores) error {
		if err := tx.Items.UpdateQuantity(ctx, item.ID, 15, 5); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Items.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)
	entries, err := s.Ledger.List(ctx, LedgerFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}
