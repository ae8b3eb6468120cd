package dto

import (
	"time"

	"github.com/Eckho-Systems/Inventory-System/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=1,max=50"`
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Pin      string `json:"pin"      validate:"required,min=4,max=32"`
	Role     string `json:"role"     validate:"required,oneof=staff manager owner"`
}

type UpdateUserRequest struct {
	Name string `json:"name" validate:"omitempty,min=1,max=100"`
	Role string `json:"role" validate:"omitempty,oneof=staff manager owner"`
	Pin  string `json:"pin"  validate:"omitempty,min=4,max=32"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	Active      bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		Name:        u.Name,
		Role:        string(u.Role),
		LastLoginAt: u.LastLoginAt,
		Active:      u.Active,
		CreatedAt:   u.CreatedAt,
	}
}

func NewUserListResponse(users []model.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = NewUserResponse(&users[i])
	}
	return out
}
