package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the privilege level of a user. Roles are totally ordered:
// staff < manager < owner.
type Role string

const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleOwner   Role = "owner"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStaff, RoleManager, RoleOwner:
		return true
	}
	return false
}

// Level returns the numeric rank of the role within the hierarchy.
func (r Role) Level() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleManager:
		return 2
	case RoleStaff:
		return 1
	}
	return 0
}

// User stores system users with role-based access.
// PinHash holds a bcrypt digest of the login PIN — never the raw PIN.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string    `gorm:"uniqueIndex;not null" json:"username"`
	PinHash     string    `gorm:"not null" json:"-"`
	Name        string    `gorm:"not null" json:"name"`
	Role        Role      `gorm:"type:varchar(20);not null" json:"role"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	Active      bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an id when the caller did not provide one.
// SQLite has no gen_random_uuid(), so ids are always app-assigned.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
