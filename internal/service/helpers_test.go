package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Eckho-Systems/Inventory-System/internal/config"
	"github.com/Eckho-Systems/Inventory-System/internal/dto"
	"github.com/Eckho-Systems/Inventory-System/internal/kvstore"
	"github.com/Eckho-Systems/Inventory-System/internal/model"
	"github.com/Eckho-Systems/Inventory-System/internal/repository"
)

// Tests run the services against the file-backed flat store: in-process, no
// external dependencies, and the same repository contract the database
// backend implements.
func newTestStores(t *testing.T) repository.Stores {
	t.Helper()
	store, err := kvstore.OpenFile(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return repository.NewKVStores(store)
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1}
}

func testActor(role model.Role) Actor {
	return Actor{ID: uuid.New(), Username: "tester", Name: "Test User", Role: role}
}

func seedCategory(t *testing.T, stores repository.Stores, name string) *model.Category {
	t.Helper()
	cat := &model.Category{Name: name, CreatedBy: uuid.New(), Active: true}
	require.NoError(t, stores.Categories.Create(context.Background(), cat))
	return cat
}

func createItem(t *testing.T, svc StockService, actor Actor, name, category string, qty int) *dto.ItemResponse {
	t.Helper()
	resp, err := svc.CreateItemWithInitialStock(context.Background(), actor, dto.CreateItemRequest{
		Name: name, Category: category, Quantity: qty,
	})
	require.NoError(t, err)
	return resp
}

// failingLedger wraps a TransactionRepository and fails Create on demand,
// for exercising the best-effort bootstrap append.
type failingLedger struct {
	repository.TransactionRepository
	fail bool
}

var errLedgerDown = errors.New("ledger unavailable")

func (f *failingLedger) Create(ctx context.Context, tr *model.Transaction) error {
	if f.fail {
		return errLedgerDown
	}
	return f.TransactionRepository.Create(ctx, tr)
}
