package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Eckho-Systems/Inventory-System/internal/apperror"
	"github.com/Eckho-Systems/Inventory-System/internal/kvstore"
	"github.com/Eckho-Systems/Inventory-System/internal/model"
)

type kvCategoryRepo struct{ store kvstore.Store }

func (r *kvCategoryRepo) Create(ctx context.Context, c *model.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	return putDoc(ctx, r.store, nil, kvstore.BucketCategories, c.ID.String(), c)
}

func (r *kvCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	err := getDoc(ctx, r.store, kvstore.BucketCategories, id.String(), &c)
	if isKeyNotFound(err) || (err == nil && !c.Active) {
		return nil, apperror.NotFound("category")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *kvCategoryRepo) FindByName(ctx context.Context, name string) (*model.Category, error) {
	cats, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		if cats[i].Active && cats[i].Name == name {
			return &cats[i], nil
		}
	}
	return nil, apperror.NotFound("category")
}

func (r *kvCategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	cats, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	active := cats[:0]
	for _, c := range cats {
		if c.Active {
			active = append(active, c)
		}
	}
	sortCategoriesByName(active)
	return active, nil
}

func (r *kvCategoryRepo) Update(ctx context.Context, c *model.Category) error {
	c.UpdatedAt = time.Now().UTC()
	return putDoc(ctx, r.store, nil, kvstore.BucketCategories, c.ID.String(), c)
}

func (r *kvCategoryRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	var c model.Category
	err := getDoc(ctx, r.store, kvstore.BucketCategories, id.String(), &c)
	if isKeyNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	c.Active = false
	c.UpdatedAt = time.Now().UTC()
	return putDoc(ctx, r.store, nil, kvstore.BucketCategories, id.String(), &c)
}

func (r *kvCategoryRepo) all(ctx context.Context) ([]model.Category, error) {
	raws, err := r.store.List(ctx, kvstore.BucketCategories)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.Category](raws)
}
