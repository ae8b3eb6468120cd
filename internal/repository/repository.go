// Package repository defines the data access contracts for the four persisted
// collections and the atomic unit-of-work boundary, with two interchangeable
// implementations: a structured database (GORM over sqlite/postgres) and a
// flat key-value store (file or redis). Query semantics — filter predicates,
// sort orders, pagination — are defined once in this package; the database
// implementation translates them to SQL, the kv implementation applies them
// as scans. Both must stay observably identical.
package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Eckho-Systems/Inventory-System/internal/model"
)

// UserRepository is the Identity Store's persistence contract. Lookups are
// restricted to active users; List orders by creation time descending.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// ExistsUsername reports whether any user, active or deactivated, holds
	// the username. Deactivated accounts keep their name reserved.
	ExistsUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, u *model.User) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	// Delete is a hard removal; the role-hierarchy gate lives in the service.
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository persists categories. Lookups are active-only; List
// orders by name ascending. Removal is soft-deactivate only.
type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	FindByName(ctx context.Context, name string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, c *model.Category) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// ItemRepository persists current-state inventory records. All queries are
// active-only. Quantity is written exclusively through UpdateQuantity so the
// stock-mutation protocol is the single quantity write path.
type ItemRepository interface {
	Create(ctx context.Context, i *model.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]model.Item, error)
	LowStock(ctx context.Context) ([]model.Item, error)
	// CategoriesInUse returns distinct category names of active items, ascending.
	CategoriesInUse(ctx context.Context) ([]string, error)
	// CountByCategory counts active items whose denormalized category name matches.
	CountByCategory(ctx context.Context, name string) (int64, error)
	// UpdateQuantity sets quantity and stamps lastStockAdded or lastStockRemoved
	// according to the sign of delta. The caller guarantees newQuantity >= 0.
	UpdateQuantity(ctx context.Context, id uuid.UUID, newQuantity, delta int) error
	// Update writes metadata only (name, description, category, threshold,
	// active flag) — never quantity.
	Update(ctx context.Context, i *model.Item) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	// Delete hard-removes the row. Only the item-deletion protocol calls it.
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransactionRepository is the append-only ledger. Entries are never updated;
// DeleteByID and PurgeByItem exist only for the exceptional purge paths.
type TransactionRepository interface {
	Create(ctx context.Context, t *model.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	// List returns entries matching filter, timestamp descending.
	List(ctx context.Context, filter LedgerFilter) ([]model.Transaction, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	// PurgeByItem deletes all entries for an item. A non-empty keepType
	// preserves entries of that type (the deletion marker). Returns the
	// number of entries removed.
	PurgeByItem(ctx context.Context, itemID uuid.UUID, keepType model.TransactionType) (int64, error)
}

// TxStores bundles the repositories bound to one atomic unit. Only the two
// collections the mutation protocol touches together are exposed.
type TxStores struct {
	Items  ItemRepository
	Ledger TransactionRepository
}

// UnitOfWork runs fn so that every write issued through tx either commits as
// a whole or leaves no observable state. This is the atomicity boundary of
// the item-deletion protocol and the stock-mutation protocol.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx TxStores) error) error
}

// Stores is the backend adapter's output: one uniform set of repositories
// regardless of which physical backend is configured.
type Stores struct {
	Users      UserRepository
	Categories CategoryRepository
	Items      ItemRepository
	Ledger     TransactionRepository
	UnitOfWork UnitOfWork

	// Backend names the selected implementation ("database" or "kv"), for
	// health reporting and logs.
	Backend string
}

// ── Query semantics (single source of truth for both backends) ───────────────

// ItemFilter narrows item listings. Category is exact match; Search is a
// case-insensitive substring match on the name.
type ItemFilter struct {
	Category string
	Search   string
}

// Matches is the scan-side predicate for ItemFilter.
func (f ItemFilter) Matches(i *model.Item) bool {
	if f.Category != "" && i.Category != f.Category {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(i.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// LedgerFilter narrows ledger queries. All set fields are AND-combined.
// Start/End are inclusive bounds on the entry timestamp.
type LedgerFilter struct {
	Start  *time.Time
	End    *time.Time
	UserID *uuid.UUID
	ItemID *uuid.UUID
	Type   model.TransactionType
	Limit  int
	Offset int
}

// Matches is the scan-side predicate for LedgerFilter (pagination excluded).
func (f LedgerFilter) Matches(t *model.Transaction) bool {
	if f.Start != nil && t.Timestamp.Before(*f.Start) {
		return false
	}
	if f.End != nil && t.Timestamp.After(*f.End) {
		return false
	}
	if f.UserID != nil && t.UserID != *f.UserID {
		return false
	}
	if f.ItemID != nil && t.ItemID != *f.ItemID {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	return true
}

// WithoutPagination strips limit/offset, for full-range aggregate scans.
func (f LedgerFilter) WithoutPagination() LedgerFilter {
	f.Limit = 0
	f.Offset = 0
	return f
}

// Sort orders. Secondary keys keep results deterministic when the primary
// key collides (same timestamp, same quantity).

func sortTransactionsByTimestampDesc(list []model.Transaction) {
	sort.SliceStable(list, func(a, b int) bool {
		if !list[a].Timestamp.Equal(list[b].Timestamp) {
			return list[a].Timestamp.After(list[b].Timestamp)
		}
		return list[a].ID.String() < list[b].ID.String()
	})
}

func sortItemsByName(list []model.Item) {
	sort.SliceStable(list, func(a, b int) bool {
		if list[a].Name != list[b].Name {
			return list[a].Name < list[b].Name
		}
		return list[a].ID.String() < list[b].ID.String()
	})
}

func sortItemsByQuantityAsc(list []model.Item) {
	sort.SliceStable(list, func(a, b int) bool {
		if list[a].Quantity != list[b].Quantity {
			return list[a].Quantity < list[b].Quantity
		}
		return list[a].Name < list[b].Name
	})
}

func sortUsersByCreatedDesc(list []model.User) {
	sort.SliceStable(list, func(a, b int) bool {
		if !list[a].CreatedAt.Equal(list[b].CreatedAt) {
			return list[a].CreatedAt.After(list[b].CreatedAt)
		}
		return list[a].ID.String() < list[b].ID.String()
	})
}

func sortCategoriesByName(list []model.Category) {
	sort.SliceStable(list, func(a, b int) bool {
		return list[a].Name < list[b].Name
	})
}

// paginate applies limit/offset to an already-sorted slice.
func paginate(list []model.Transaction, limit, offset int) []model.Transaction {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
