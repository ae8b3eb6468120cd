package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a named grouping referenced by items. Items reference a
// category by name, not by id, so renames are guarded at the service layer.
// Name uniqueness applies among active categories only — a deactivated
// category frees its name — so it is enforced by the service-level check, not
// a database constraint.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"index;not null" json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null" json:"createdBy"`
	Active      bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TableName pins the table name independent of the naming strategy; the kv
// backend shares the same bucket name.
func (Category) TableName() string { return "categories" }

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
