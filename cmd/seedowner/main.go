// cmd/seedowner creates or resets the default owner account against the
// configured backend. Useful after locking yourself out of a dev install.
// Usage: seedowner [pin]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/Eckho-Systems/Inventory-System/internal/apperror"
	"github.com/Eckho-Systems/Inventory-System/internal/config"
	"github.com/Eckho-Systems/Inventory-System/internal/database"
	"github.com/Eckho-Systems/Inventory-System/internal/kvstore"
	"github.com/Eckho-Systems/Inventory-System/internal/model"
	"github.com/Eckho-Systems/Inventory-System/internal/repository"
)

func main() {
	pin := database.SeedOwnerPIN
	if len(os.Args) > 1 {
		pin = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fail("load config: %v", err)
	}

	stores, err := openStores(cfg)
	if err != nil {
		fail("open backend: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		fail("hash pin: %v", err)
	}

	ctx := context.Background()
	existing, err := stores.Users.FindByUsername(ctx, database.SeedOwnerUsername)
	switch {
	case err == nil:
		existing.PinHash = string(hash)
		existing.Active = true
		if err := stores.Users.Update(ctx, existing); err != nil {
			fail("update owner: %v", err)
		}
		fmt.Printf("owner %q PIN reset\n", database.SeedOwnerUsername)
	case errors.Is(err, apperror.NotFound("user")):
		// A deactivated owner is not found by the active-only lookup but
		// still owns the username; never create a second account over it.
		taken, err := stores.Users.ExistsUsername(ctx, database.SeedOwnerUsername)
		if err != nil {
			fail("check username: %v", err)
		}
		if taken {
			fail("owner %q exists but is deactivated; reactivate that account instead", database.SeedOwnerUsername)
		}
		owner := &model.User{
			Username: database.SeedOwnerUsername,
			Name:     database.SeedOwnerName,
			PinHash:  string(hash),
			Role:     model.RoleOwner,
			Active:   true,
		}
		if err := stores.Users.Create(ctx, owner); err != nil {
			fail("create owner: %v", err)
		}
		fmt.Printf("owner %q created\n", database.SeedOwnerUsername)
	default:
		fail("lookup owner: %v", err)
	}
}

func openStores(cfg *config.Config) (repository.Stores, error) {
	switch cfg.StorageBackend {
	case config.BackendDatabase:
		db, err := database.Open(cfg)
		if err != nil {
			return repository.Stores{}, err
		}
		if err := database.CreateSchema(db); err != nil {
			return repository.Stores{}, err
		}
		return repository.NewDatabaseStores(db), nil
	case config.BackendKV:
		var store kvstore.Store
		var err error
		if cfg.KVDriver == "redis" {
			store, err = kvstore.OpenRedis(cfg.RedisURL)
		} else {
			store, err = kvstore.OpenFile(cfg.KVPath)
		}
		if err != nil {
			return repository.Stores{}, err
		}
		return repository.NewKVStores(store), nil
	default:
		return repository.Stores{}, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
