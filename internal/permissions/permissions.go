// Package permissions holds the role-based access matrix. The matrix is data,
// not code: handlers declare the permission they need and the middleware
// consults Has. Role-hierarchy rules for managing user accounts live here too
// so the service layer and the HTTP layer gate identically.
package permissions

import "github.com/Eckho-Systems/Inventory-System/internal/model"

// Permission names one gated capability.
type Permission string

const (
	ViewInventory Permission = "view_inventory"
	AddStock      Permission = "add_stock"
	RemoveStock   Permission = "remove_stock"
	CreateItem    Permission = "create_item"
	EditItem      Permission = "edit_item"
	DeleteItem    Permission = "delete_item"

	ViewTransactions   Permission = "view_transactions"
	ExportTransactions Permission = "export_transactions"

	ViewReports   Permission = "view_reports"
	ExportReports Permission = "export_reports"

	ViewUsers      Permission = "view_users"
	CreateUser     Permission = "create_user"
	EditUser       Permission = "edit_user"
	DeleteUser     Permission = "delete_user"
	DeactivateUser Permission = "deactivate_user"
)

// All lists every known permission. The owner role holds the full set.
var All = []Permission{
	ViewInventory, AddStock, RemoveStock, CreateItem, EditItem, DeleteItem,
	ViewTransactions, ExportTransactions,
	ViewReports, ExportReports,
	ViewUsers, CreateUser, EditUser, DeleteUser, DeactivateUser,
}

var rolePermissions = map[model.Role][]Permission{
	model.RoleStaff: {
		ViewInventory, AddStock, RemoveStock,
	},
	model.RoleManager: {
		ViewInventory, AddStock, RemoveStock,
		CreateItem, EditItem,
		ViewTransactions, ExportTransactions,
		ViewReports, ExportReports,
		ViewUsers, CreateUser, EditUser, DeactivateUser,
	},
	model.RoleOwner: All,
}

// Has reports whether role is granted perm. Unknown roles have nothing.
func Has(role model.Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// HasAny reports whether role is granted at least one of perms.
func HasAny(role model.Role, perms ...Permission) bool {
	for _, p := range perms {
		if Has(role, p) {
			return true
		}
	}
	return false
}

// For returns the permission set of a role, for the login response.
func For(role model.Role) []Permission {
	perms := rolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// CanCreateRole reports whether actor may create an account with the target
// role. Accounts are only created at or below the actor's own level, and
// never at owner level by a non-owner.
func CanCreateRole(actor, target model.Role) bool {
	if !Has(actor, CreateUser) || !target.Valid() {
		return false
	}
	return target.Level() <= actor.Level()
}

// CanManageUser reports whether actor may edit or deactivate an account with
// the target role. Managers manage staff; owners manage everyone below them.
func CanManageUser(actor, target model.Role) bool {
	if !target.Valid() {
		return false
	}
	if actor == model.RoleOwner {
		return true
	}
	return Has(actor, EditUser) && target.Level() < actor.Level()
}

// CanDeleteUser reports whether actor may hard-delete an account with the
// target role. Deletion requires strictly outranking the target.
func CanDeleteUser(actor, target model.Role) bool {
	if !Has(actor, DeleteUser) || !target.Valid() {
		return false
	}
	return target.Level() < actor.Level()
}
