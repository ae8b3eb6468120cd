package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eckho-Systems/Inventory-System/internal/apperror"
	"github.com/Eckho-Systems/Inventory-System/internal/config"
	"github.com/Eckho-Systems/Inventory-System/internal/database"
	"github.com/Eckho-Systems/Inventory-System/internal/model"
	"github.com/Eckho-Systems/Inventory-System/internal/repository"
)

func newDBStores(t *testing.T) repository.Stores {
	t.Helper()
	cfg := &config.Config{
		DBDriver:   "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.CreateSchema(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repository.NewDatabaseStores(db)
}

func TestDBCategoryNameReusableAfterDeactivate(t *testing.T) {
	s := newDBStores(t)
	ctx := context.Background()

	first := &model.Category{Name: "Drinks", CreatedBy: uuid.New(), Active: true}
	require.NoError(t, s.Categories.Create(ctx, first))
	require.NoError(t, s.Categories.Deactivate(ctx, first.ID))

	// Name uniqueness is scoped to active categories: after a soft-deactivate
	// the name is free again, on this backend just like on the kv backend.
	second := &model.Category{Name: "Drinks", CreatedBy: uuid.New(), Active: true}
	require.NoError(t, s.Categories.Create(ctx, second))

	got, err := s.Categories.FindByName(ctx, "Drinks")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestDBUserDuplicateUsernameIsTyped(t *testing.T) {
	s := newDBStores(t)
	ctx := context.Background()

	u := &model.User{Username: "ana", Name: "Ana", PinHash: "x", Role: model.RoleStaff, Active: true}
	require.NoError(t, s.Users.Create(ctx, u))

	// The unique index reports as a typed duplicate, not a raw driver error.
	dup := &model.User{Username: "ana", Name: "Other Ana", PinHash: "x", Role: model.RoleStaff, Active: true}
	err := s.Users.Create(ctx, dup)
	assert.Equal(t, apperror.CodeDuplicate, apperror.CodeOf(err))

	// Deactivated accounts keep their username reserved.
	require.NoError(t, s.Users.Deactivate(ctx, u.ID))
	exists, err := s.Users.ExistsUsername(ctx, "ana")
	require.NoError(t, err)
	assert.True(t, exists)
}
