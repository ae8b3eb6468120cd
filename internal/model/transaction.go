package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TransactionAdd        TransactionType = "add"
	TransactionRemove     TransactionType = "remove"
	TransactionItemDelete TransactionType = "item_delete"
)

// Distinguished note values. Consumers compare against these to render
// bootstrap entries and deletion markers differently from ordinary restocks.
const (
	NoteInitialStock = "Initial stock when creating item"
	NoteItemDeleted  = "Item deleted from inventory"
)

// Transaction is an append-only ledger entry recording one stock mutation,
// item creation with stock, or item deletion. Entries are immutable once
// written: there is no update path, and deletion happens only through the
// item-deletion protocol and the explicit history purge.
//
// ItemName, UserName and UserRole are snapshots taken at the time of the
// action, not live joins, so the ledger stays meaningful after the referenced
// item or user is renamed, deactivated or deleted.
type Transaction struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID   uuid.UUID `gorm:"type:uuid;not null;index" json:"itemId"`
	ItemName string    `gorm:"not null" json:"itemName"`
	// QuantityChange is signed: positive = addition, negative = removal.
	// Zero is permitted only for item_delete markers.
	QuantityChange int             `gorm:"not null" json:"quantityChange"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"userId"`
	UserName       string          `gorm:"not null" json:"userName"`
	UserRole       Role            `gorm:"type:varchar(20);not null" json:"userRole"`
	Timestamp      time.Time       `gorm:"not null;index" json:"timestamp"`
	Type           TransactionType `gorm:"column:transaction_type;not null" json:"transactionType"`
	Notes          *string         `json:"notes,omitempty"`
}

func (Transaction) TableName() string { return "transactions" }

func (t *Transaction) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
