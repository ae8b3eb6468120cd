package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Eckho-Systems/Inventory-System/internal/dto"
	"github.com/Eckho-Systems/Inventory-System/internal/repository"
)

// ItemService covers the read side of the inventory plus metadata edits.
// Anything that changes a quantity lives in StockService.
type ItemService interface {
	List(ctx context.Context, q dto.ItemFilterQuery) ([]dto.ItemResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error)
	LowStock(ctx context.Context) ([]dto.ItemResponse, error)
	CategoriesInUse(ctx context.Context) ([]string, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type itemService struct {
	items      repository.ItemRepository
	categories repository.CategoryRepository
}

func NewItemService(items repository.ItemRepository, categories repository.CategoryRepository) ItemService {
	return &itemService{items: items, categories: categories}
}

func (s *itemService) List(ctx context.Context, q dto.ItemFilterQuery) ([]dto.ItemResponse, error) {
	items, err := s.items.List(ctx, repository.ItemFilter{Category: q.Category, Search: q.Search})
	if err != nil {
		return nil, err
	}
	return dto.NewItemListResponse(items), nil
}

func (s *itemService) Get(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewItemResponse(item)
	return &resp, nil
}

func (s *itemService) LowStock(ctx context.Context) ([]dto.ItemResponse, error) {
	items, err := s.items.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewItemListResponse(items), nil
}

func (s *itemService) CategoriesInUse(ctx context.Context) ([]string, error) {
	return s.items.CategoriesInUse(ctx)
}

// Update edits metadata only. Quantity never moves through this path.
func (s *itemService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil && *req.Category != item.Category {
		// Reassignment targets must be live categories.
		if _, err := s.categories.FindByName(ctx, *req.Category); err != nil {
			return nil, err
		}
		item.Category = *req.Category
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.LowStockThreshold != nil {
		item.LowStockThreshold = *req.LowStockThreshold
	}
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *itemService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.items.FindByID(ctx, id); err != nil {
		return err
	}
	return s.items.Deactivate(ctx, id)
}
