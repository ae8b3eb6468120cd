package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item is a mutable current-state inventory record. Quantity is the critical
// field: it never goes negative, and every change to it is paired with exactly
// one ledger Transaction. Quantity is only written through
// ItemRepository.UpdateQuantity, never through Update.
type Item struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"index;not null" json:"name"`
	// Category is the denormalized category name, matched by string equality
	// against Category.Name.
	Category          string     `gorm:"index;not null" json:"category"`
	Quantity          int        `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	Description       *string    `json:"description,omitempty"`
	LowStockThreshold int        `gorm:"not null;default:10;check:low_stock_threshold >= 0" json:"lowStockThreshold"`
	DateAdded         time.Time  `gorm:"not null" json:"dateAdded"`
	LastStockAdded    *time.Time `json:"lastStockAdded,omitempty"`
	LastStockRemoved  *time.Time `json:"lastStockRemoved,omitempty"`
	CreatedBy         uuid.UUID  `gorm:"type:uuid;not null" json:"createdBy"`
	Active            bool       `gorm:"not null;default:true" json:"isActive"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (i *Item) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// LowStock reports whether the item is at or below its reorder threshold.
func (i *Item) LowStock() bool { return i.Quantity <= i.LowStockThreshold }
