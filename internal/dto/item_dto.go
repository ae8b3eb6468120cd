package dto

import (
	"time"

	"github.com/Eckho-Systems/Inventory-System/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateItemRequest struct {
	Name              string  `json:"name"              validate:"required,min=1,max=120"`
	Category          string  `json:"category"          validate:"required,min=1,max=80"`
	Quantity          int     `json:"quantity"          validate:"min=0"`
	Description       *string `json:"description"`
	LowStockThreshold *int    `json:"lowStockThreshold" validate:"omitempty,min=0"`
}

type UpdateItemRequest struct {
	Name              *string `json:"name"              validate:"omitempty,min=1,max=120"`
	Category          *string `json:"category"          validate:"omitempty,min=1,max=80"`
	Description       *string `json:"description"`
	LowStockThreshold *int    `json:"lowStockThreshold" validate:"omitempty,min=0"`
}

// AdjustStockRequest carries a signed quantity change: positive adds stock,
// negative removes it. Zero is rejected.
type AdjustStockRequest struct {
	QuantityChange int     `json:"quantityChange" validate:"required"`
	Notes          *string `json:"notes"          validate:"omitempty,max=500"`
}

// ─── Filters ─────────────────────────────────────────────────────────────────

type ItemFilterQuery struct {
	Category string `form:"category"`
	Search   string `form:"search"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Category          string     `json:"category"`
	Quantity          int        `json:"quantity"`
	Description       *string    `json:"description,omitempty"`
	LowStockThreshold int        `json:"lowStockThreshold"`
	LowStock          bool       `json:"isLowStock"`
	DateAdded         time.Time  `json:"dateAdded"`
	LastStockAdded    *time.Time `json:"lastStockAdded,omitempty"`
	LastStockRemoved  *time.Time `json:"lastStockRemoved,omitempty"`
	CreatedBy         string     `json:"createdBy"`
	Active            bool       `json:"isActive"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func NewItemResponse(i *model.Item) ItemResponse {
	return ItemResponse{
		ID:                i.ID.String(),
		Name:              i.Name,
		Category:          i.Category,
		Quantity:          i.Quantity,
		Description:       i.Description,
		LowStockThreshold: i.LowStockThreshold,
		LowStock:          i.LowStock(),
		DateAdded:         i.DateAdded,
		LastStockAdded:    i.LastStockAdded,
		LastStockRemoved:  i.LastStockRemoved,
		CreatedBy:         i.CreatedBy.String(),
		Active:            i.Active,
		UpdatedAt:         i.UpdatedAt,
	}
}

func NewItemListResponse(items []model.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = NewItemResponse(&items[i])
	}
	return out
}

// AdjustStockResponse returns the post-adjustment item together with the
// ledger entry the adjustment appended.
type AdjustStockResponse struct {
	Item        ItemResponse        `json:"item"`
	Transaction TransactionResponse `json:"transaction"`
}
