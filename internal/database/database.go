// Package database owns the structured backend's lifecycle: opening the GORM
// connection (sqlite or postgres), creating and dropping the schema, and
// seeding the initial owner account on an empty install.
package database

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Eckho-Systems/Inventory-System/internal/config"
	"github.com/Eckho-Systems/Inventory-System/internal/model"
	"github.com/Eckho-Systems/Inventory-System/internal/repository"
)

// Seed credentials for a fresh install. The PIN must be changed after first
// login; the server logs a warning when the seed account is created.
const (
	SeedOwnerUsername = "owner"
	SeedOwnerName     = "Store Owner"
	SeedOwnerPIN      = "1234"
)

// Open establishes the GORM connection for the configured driver. SQL logging
// is silenced; query visibility comes from the request log, not the driver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("database: unknown driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Unique violations surface as gorm.ErrDuplicatedKey on both drivers.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver == "sqlite" {
		// SQLite permits one writer; a single connection avoids SQLITE_BUSY.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}
	return db, nil
}

// CreateSchema creates or updates the four tables. AutoMigrate is additive and
// idempotent, so calling it on every startup is safe.
func CreateSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Item{},
		&model.Transaction{},
	); err != nil {
		return fmt.Errorf("database: auto-migrate: %w", err)
	}
	return nil
}

// DropSchema removes all four tables. Test and reset tooling only.
func DropSchema(db *gorm.DB) error {
	return db.Migrator().DropTable(
		&model.Transaction{},
		&model.Item{},
		&model.Category{},
		&model.User{},
	)
}

// ApplySeedDataIfEmpty creates the default owner account when the user
// collection is empty. It runs against the repository contract, so both
// storage backends seed identically. Returns true when the seed was applied.
func ApplySeedDataIfEmpty(ctx context.Context, users repository.UserRepository) (bool, error) {
	n, err := users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("database: count users: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedOwnerPIN), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("database: hash seed pin: %w", err)
	}
	owner := &model.User{
		Username: SeedOwnerUsername,
		PinHash:  string(hash),
		Name:     SeedOwnerName,
		Role:     model.RoleOwner,
		Active:   true,
	}
	if err := users.Create(ctx, owner); err != nil {
		return false, fmt.Errorf("database: create seed owner: %w", err)
	}
	return true, nil
}
