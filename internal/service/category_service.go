package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Eckho-Systems/Inventory-System/internal/apperror"
	"github.com/Eckho-Systems/Inventory-System/internal/dto"
	"github.com/Eckho-Systems/Inventory-System/internal/model"
	"github.com/Eckho-Systems/Inventory-System/internal/repository"
)

// CategoryService manages the category collection. Items reference categories
// by name, so renames and removals are guarded against active references.
type CategoryService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	categories repository.CategoryRepository
	items      repository.ItemRepository
}

func NewCategoryService(categories repository.CategoryRepository, items repository.ItemRepository) CategoryService {
	return &categoryService{categories: categories, items: items}
}

func (s *categoryService) Create(ctx context.Context, actor Actor, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if _, err := s.categories.FindByName(ctx, req.Name); err == nil {
		return nil, apperror.Duplicate("category %q already exists", req.Name)
	} else if !errors.Is(err, apperror.NotFound("category")) {
		return nil, err
	}

	cat := &model.Category{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   actor.ID,
		Active:      true,
	}
	if err := s.categories.Create(ctx, cat); err != nil {
		return nil, err
	}
	resp := dto.NewCategoryResponse(cat, 0)
	return &resp, nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, len(cats))
	for i := range cats {
		n, err := s.items.CountByCategory(ctx, cats[i].Name)
		if err != nil {
			return nil, err
		}
		out[i] = dto.NewCategoryResponse(&cats[i], n)
	}
	return out, nil
}

// Update renames or re-describes a category. Renaming is refused while any
// active item still carries the old name: the denormalized item.category
// field would silently detach otherwise.
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != cat.Name {
		n, err := s.items.CountByCategory(ctx, cat.Name)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, apperror.InUse("category %q has %d items; reassign them before renaming", cat.Name, n)
		}
		if existing, err := s.categories.FindByName(ctx, *req.Name); err == nil && existing.ID != cat.ID {
			return nil, apperror.Duplicate("category %q already exists", *req.Name)
		} else if err != nil && !errors.Is(err, apperror.NotFound("category")) {
			return nil, err
		}
		cat.Name = *req.Name
	}
	if req.Description != nil {
		cat.Description = req.Description
	}
	if err := s.categories.Update(ctx, cat); err != nil {
		return nil, err
	}

	n, err := s.items.CountByCategory(ctx, cat.Name)
	if err != nil {
		return nil, err
	}
	resp := dto.NewCategoryResponse(cat, n)
	return &resp, nil
}

// Deactivate soft-removes a category: the record stays for history, but it no
// longer appears in listings or accepts new items. Refused while in use.
func (s *categoryService) Deactivate(ctx context.Context, id uuid.UUID) error {
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.items.CountByCategory(ctx, cat.Name)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.InUse("category %q has %d items; reassign them before removing", cat.Name, n)
	}
	return s.categories.Deactivate(ctx, id)
}
