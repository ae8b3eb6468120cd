package dto

import (
	"time"

	"github.com/Eckho-Systems/Inventory-System/internal/model"
)

// ─── Query binding ───────────────────────────────────────────────────────────

// LedgerFilterQuery binds the ledger listing's query string. Start and End are
// RFC 3339 timestamps, inclusive on both ends.
type LedgerFilterQuery struct {
	Start  string `form:"start"  validate:"omitempty"`
	End    string `form:"end"    validate:"omitempty"`
	UserID string `form:"user_id" validate:"omitempty,uuid"`
	ItemID string `form:"item_id" validate:"omitempty,uuid"`
	Type   string `form:"type"   validate:"omitempty,oneof=add remove item_delete"`
	Limit  int    `form:"limit,default=50"  validate:"min=1,max=500"`
	Offset int    `form:"offset,default=0"  validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TransactionResponse struct {
	ID             string    `json:"id"`
	ItemID         string    `json:"itemId"`
	ItemName       string    `json:"itemName"`
	QuantityChange int       `json:"quantityChange"`
	UserID         string    `json:"userId"`
	UserName       string    `json:"userName"`
	UserRole       string    `json:"userRole"`
	Timestamp      time.Time `json:"timestamp"`
	Type           string    `json:"transactionType"`
	Notes          *string   `json:"notes,omitempty"`
}

func NewTransactionResponse(t *model.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             t.ID.String(),
		ItemID:         t.ItemID.String(),
		ItemName:       t.ItemName,
		QuantityChange: t.QuantityChange,
		UserID:         t.UserID.String(),
		UserName:       t.UserName,
		UserRole:       string(t.UserRole),
		Timestamp:      t.Timestamp,
		Type:           string(t.Type),
		Notes:          t.Notes,
	}
}

func NewTransactionListResponse(list []model.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(list))
	for i := range list {
		out[i] = NewTransactionResponse(&list[i])
	}
	return out
}

type LedgerListResponse struct {
	Data   []TransactionResponse `json:"data"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// StatsResponse is the reports read model aggregated from the filtered ledger.
type StatsResponse struct {
	TotalTransactions int    `json:"totalTransactions"`
	StockAdded        int    `json:"stockAdded"`
	StockRemoved      int    `json:"stockRemoved"`
	MostActiveUser    string `json:"mostActiveUser"`
	MostTrackedItem   string `json:"mostTrackedItem"`
}

type PurgeResponse struct {
	Deleted int64 `json:"deleted"`
}
