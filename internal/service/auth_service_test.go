package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Eckho-Systems/Inventory-System/internal/apperror"
	"github.com/Eckho-Systems/Inventory-System/internal/dto"
	"github.com/Eckho-Systems/Inventory-System/internal/model"
	"github.com/Eckho-Systems/Inventory-System/internal/repository"
)

func newAuthService(t *testing.T) (AuthService, repository.Stores) {
	t.Helper()
	stores := newTestStores(t)
	return NewAuthService(stores.Users, testConfig()), stores
}

func seedUser(t *testing.T, stores repository.Stores, username, pin string, role model.Role) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{Username: username, Name: "User " + username, PinHash: string(hash), Role: role, Active: true}
	require.NoError(t, stores.Users.Create(context.Background(), u))
	return u
}

func TestLoginSuccess(t *testing.T) {
	svc, stores := newAuthService(t)
	ctx := context.Background()
	seedUser(t, stores, "ana", "4321", model.RoleManager)

	resp, err := svc.Login(ctx, dto.LoginRequest{Username: "ana", Pin: "4321"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "manager", resp.User.Role)
	assert.Contains(t, resp.Permissions, "create_item")
	assert.NotContains(t, resp.Permissions, "delete_item")

	// lastLoginAt recorded on success.
	u, err := stores.Users.FindByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.NotNil(t, u.LastLoginAt)

	// Token carries the actor snapshot.
	token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "ana", claims["username"])
	assert.Equal(t, "manager", claims["role"])
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, stores := newAuthService(t)
	ctx := context.Background()
	u := seedUser(t, stores, "ana", "4321", model.RoleStaff)
	inactive := seedUser(t, stores, "bob", "4321", model.RoleStaff)
	require.NoError(t, stores.Users.Deactivate(ctx, inactive.ID))

	for name, req := range map[string]dto.LoginRequest{
		"wrong pin":        {Username: "ana", Pin: "0000"},
		"unknown username": {Username: "ghost", Pin: "4321"},
		"inactive account": {Username: "bob", Pin: "4321"},
	} {
		_, err := svc.Login(ctx, req)
		assert.ErrorIs(t, err, apperror.Authentication(), name)
	}

	// A failed attempt never touches lastLoginAt.
	got, err := stores.Users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LastLoginAt)
}

func TestCreateUserRoleGating(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	// Manager may create staff and managers, never owners.
	manager := testActor(model.RoleManager)
	_, err := svc.CreateUser(ctx, manager, dto.CreateUserRequest{
		Username: "s1", Name: "Staff", Pin: "1111", Role: "staff"})
	assert.NoError(t, err)
	_, err = svc.CreateUser(ctx, manager, dto.CreateUserRequest{
		Username: "o1", Name: "Owner", Pin: "1111", Role: "owner"})
	assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))

	// Staff may not create anyone.
	_, err = svc.CreateUser(ctx, testActor(model.RoleStaff), dto.CreateUserRequest{
		Username: "s2", Name: "Staff", Pin: "1111", Role: "staff"})
	assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc, stores := newAuthService(t)
	ctx := context.Background()
	ana := seedUser(t, stores, "ana", "4321", model.RoleStaff)
	owner := testActor(model.RoleOwner)

	_, err := svc.CreateUser(ctx, owner, dto.CreateUserRequest{
		Username: "ana", Name: "Other Ana", Pin: "9999", Role: "staff"})
	assert.Equal(t, apperror.CodeDuplicate, apperror.CodeOf(err))

	// A deactivated account keeps its username reserved.
	require.NoError(t, stores.Users.Deactivate(ctx, ana.ID))
	_, err = svc.CreateUser(ctx, owner, dto.CreateUserRequest{
		Username: "ana", Name: "Other Ana", Pin: "9999", Role: "staff"})
	assert.Equal(t, apperror.CodeDuplicate, apperror.CodeOf(err))
}

func TestUpdateUserSelfAndHierarchy(t *testing.T) {
	svc, stores := newAuthService(t)
	ctx := context.Background()
	manager := seedUser(t, stores, "mgr", "1111", model.RoleManager)
	staff := seedUser(t, stores, "stf", "1111", model.RoleStaff)
	actor := Actor{ID: manager.ID, Username: manager.Username, Name: manager.Name, Role: manager.Role}

	// Manager renames staff.
	resp, err := svc.UpdateUser(ctx, actor, staff.ID, dto.UpdateUserRequest{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", resp.Name)

	// Anyone may change their own name and PIN, not their own role.
	_, err = svc.UpdateUser(ctx, actor, manager.ID, dto.UpdateUserRequest{Name: "Me", Pin: "2222"})
	assert.NoError(t, err)
	_, err = svc.UpdateUser(ctx, actor, manager.ID, dto.UpdateUserRequest{Role: "owner"})
	assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))

	// A manager cannot edit another manager.
	peer := seedUser(t, stores, "mgr2", "1111", model.RoleManager)
	_, err = svc.UpdateUser(ctx, actor, peer.ID, dto.UpdateUserRequest{Name: "X"})
	assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))
}

func TestDeactivateUser(t *testing.T) {
	svc, stores := newAuthService(t)
	ctx := context.Background()
	staff := seedUser(t, stores, "stf", "1111", model.RoleStaff)
	owner := testActor(model.RoleOwner)

	require.NoError(t, svc.DeactivateUser(ctx, owner, staff.ID))
	_, err := stores.Users.FindByID(ctx, staff.ID)
	assert.ErrorIs(t, err, apperror.NotFound("user"))

	// Idempotent: deactivating again, or an unknown id, is a no-op.
	assert.NoError(t, svc.DeactivateUser(ctx, owner, staff.ID))
	assert.NoError(t, svc.DeactivateUser(ctx, owner, uuid.New()))

	// Never yourself.
	err = svc.DeactivateUser(ctx, owner, owner.ID)
	assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))
}

func TestDeleteUserHierarchy(t *testing.T) {
	svc, stores := newAuthService(t)
	ctx := context.Background()
	mgr := seedUser(t, stores, "mgr", "1111", model.RoleManager)
	stf := seedUser(t, stores, "stf", "1111", model.RoleStaff)
	owner := testActor(model.RoleOwner)

	// Owner deletes a manager; manager cannot delete anyone.
	require.NoError(t, svc.DeleteUser(ctx, owner, mgr.ID))
	mgrActor := Actor{ID: mgr.ID, Role: model.RoleManager}
	err := svc.DeleteUser(ctx, mgrActor, stf.ID)
	assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))

	// Never yourself.
	err = svc.DeleteUser(ctx, owner, owner.ID)
	assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))
}
