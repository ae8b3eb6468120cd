package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Eckho-Systems/Inventory-System/internal/apperror"
	"github.com/Eckho-Systems/Inventory-System/internal/model"
)

type itemRepo struct{ db *gorm.DB }

// NewItemRepository returns the structured-database ItemRepository.
func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) Create(ctx context.Context, i *model.Item) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var i model.Item
	err := r.db.WithContext(ctx).Where("id = ? AND active = ?", id, true).First(&i).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("item")
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *itemRepo) List(ctx context.Context, filter ItemFilter) ([]model.Item, error) {
	q := r.db.WithContext(ctx).Where("active = ?", true)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		// lower() LIKE lower() behaves identically on sqlite and postgres
		q = q.Where("lower(name) LIKE lower(?)", "%"+filter.Search+"%")
	}
	var items []model.Item
	err := q.Order("name ASC, id ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) LowStock(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	err := r.db.WithContext(ctx).
		Where("active = ? AND quantity <= low_stock_threshold", true).
		Order("quantity ASC, name ASC").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) CategoriesInUse(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("active = ?", true).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &names).Error
	return names, err
}

func (r *itemRepo) CountByCategory(ctx context.Context, name string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("category = ? AND active = ?", name, true).
		Count(&n).Error
	return n, err
}

func (r *itemRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, newQuantity, delta int) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"quantity":   newQuantity,
		"updated_at": now,
	}
	if delta > 0 {
		updates["last_stock_added"] = now
	} else {
		updates["last_stock_removed"] = now
	}
	res := r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ? AND active = ?", id, true).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("item")
	}
	return nil
}

func (r *itemRepo) Update(ctx context.Context, i *model.Item) error {
	// Save would overwrite quantity from a possibly stale struct; restrict the
	// write set to metadata so this path can never race the mutation protocol.
	return r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ?", i.ID).
		Updates(map[string]interface{}{
			"name":                i.Name,
			"description":         i.Description,
			"category":            i.Category,
			"low_stock_threshold": i.LowStockThreshold,
			"active":              i.Active,
			"updated_at":          time.Now().UTC(),
		}).Error
}

func (r *itemRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Item{}).
		Where("id = ?", id).Update("active", false).Error
}

func (r *itemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Item{}, "id = ?", id).Error
}
