package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Eckho-Systems/Inventory-System/internal/config"
)

// gormUnitOfWork wraps a GORM transaction: the item write and the ledger
// append inside fn commit or roll back together.
type gormUnitOfWork struct{ db *gorm.DB }

func (u gormUnitOfWork) Do(ctx context.Context, fn func(tx TxStores) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(TxStores{
			Items:  NewItemRepository(tx),
			Ledger: NewTransactionRepository(tx),
		})
	})
}

// NewDatabaseStores assembles the structured-database backend.
func NewDatabaseStores(db *gorm.DB) Stores {
	return Stores{
		Users:      NewUserRepository(db),
		Categories: NewCategoryRepository(db),
		Items:      NewItemRepository(db),
		Ledger:     NewTransactionRepository(db),
		UnitOfWork: gormUnitOfWork{db: db},
		Backend:    config.BackendDatabase,
	}
}
