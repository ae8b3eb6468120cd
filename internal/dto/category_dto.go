package dto

import (
	"time"

	"github.com/Eckho-Systems/Inventory-System/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=80"`
	Description *string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=80"`
	Description *string `json:"description"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	ItemCount   int64     `json:"itemCount"`
	CreatedBy   string    `json:"createdBy"`
	Active      bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewCategoryResponse(c *model.Category, itemCount int64) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		ItemCount:   itemCount,
		CreatedBy:   c.CreatedBy.String(),
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
	}
}
