package repository

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Eckho-Systems/Inventory-System/internal/apperror"
	"github.com/Eckho-Systems/Inventory-System/internal/kvstore"
	"github.com/Eckho-Systems/Inventory-System/internal/model"
)

// kvItemRepo is the flat-store ItemRepository. When tx is set, writes are
// buffered into the enclosing unit of work instead of committing immediately.
type kvItemRepo struct {
	store kvstore.Store
	tx    kvstore.Tx
}

func (r *kvItemRepo) Create(ctx context.Context, i *model.Item) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	now := time.Now().UTC()
	if i.DateAdded.IsZero() {
		i.DateAdded = now
	}
	i.UpdatedAt = now
	return putDoc(ctx, r.store, r.tx, kvstore.BucketItems, i.ID.String(), i)
}

func (r *kvItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var i model.Item
	err := getDoc(ctx, r.store, kvstore.BucketItems, id.String(), &i)
	if isKeyNotFound(err) || (err == nil && !i.Active) {
		return nil, apperror.NotFound("item")
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *kvItemRepo) List(ctx context.Context, filter ItemFilter) ([]model.Item, error) {
	items, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	matched := items[:0]
	for _, i := range items {
		if i.Active && filter.Matches(&i) {
			matched = append(matched, i)
		}
	}
	sortItemsByName(matched)
	return matched, nil
}

func (r *kvItemRepo) LowStock(ctx context.Context) ([]model.Item, error) {
	items, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	low := items[:0]
	for _, i := range items {
		if i.Active && i.LowStock() {
			low = append(low, i)
		}
	}
	sortItemsByQuantityAsc(low)
	return low, nil
}

func (r *kvItemRepo) CategoriesInUse(ctx context.Context) ([]string, error) {
	items, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, i := range items {
		if !i.Active {
			continue
		}
		if _, dup := seen[i.Category]; dup {
			continue
		}
		seen[i.Category] = struct{}{}
		names = append(names, i.Category)
	}
	sort.Strings(names)
	return names, nil
}

func (r *kvItemRepo) CountByCategory(ctx context.Context, name string) (int64, error) {
	items, err := r.all(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	for _, i := range items {
		if i.Active && i.Category == name {
			n++
		}
	}
	return n, nil
}

func (r *kvItemRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, newQuantity, delta int) error {
	i, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	i.Quantity = newQuantity
	if delta > 0 {
		i.LastStockAdded = &now
	} else {
		i.LastStockRemoved = &now
	}
	i.UpdatedAt = now
	return putDoc(ctx, r.store, r.tx, kvstore.BucketItems, id.String(), i)
}

func (r *kvItemRepo) Update(ctx context.Context, i *model.Item) error {
	// Re-read so a stale quantity on the incoming struct can never overwrite
	// the current one; this path writes metadata only.
	var cur model.Item
	err := getDoc(ctx, r.store, kvstore.BucketItems, i.ID.String(), &cur)
	if isKeyNotFound(err) {
		return apperror.NotFound("item")
	}
	if err != nil {
		return err
	}
	cur.Name = i.Name
	cur.Description = i.Description
	cur.Category = i.Category
	cur.LowStockThreshold = i.LowStockThreshold
	cur.Active = i.Active
	cur.UpdatedAt = time.Now().UTC()
	return putDoc(ctx, r.store, r.tx, kvstore.BucketItems, i.ID.String(), &cur)
}

func (r *kvItemRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	var i model.Item
	err := getDoc(ctx, r.store, kvstore.BucketItems, id.String(), &i)
	if isKeyNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	i.Active = false
	i.UpdatedAt = time.Now().UTC()
	return putDoc(ctx, r.store, r.tx, kvstore.BucketItems, id.String(), &i)
}

func (r *kvItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteDoc(ctx, r.store, r.tx, kvstore.BucketItems, id.String())
}

func (r *kvItemRepo) all(ctx context.Context) ([]model.Item, error) {
	raws, err := r.store.List(ctx, kvstore.BucketItems)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.Item](raws)
}
