package service

import (
	"github.com/google/uuid"

	"github.com/Eckho-Systems/Inventory-System/internal/model"
)

// Actor is the authenticated user snapshot every mutation carries. The ledger
// records these fields verbatim, so they come from the token, not a live
// lookup: the entry reflects who acted, as they were at that moment.
type Actor struct {
	ID       uuid.UUID
	Username string
	Name     string
	Role     model.Role
}
