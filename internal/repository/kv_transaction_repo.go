package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Eckho-Systems/Inventory-System/internal/apperror"
	"github.com/Eckho-Systems/Inventory-System/internal/kvstore"
	"github.com/Eckho-Systems/Inventory-System/internal/model"
)

// kvTransactionRepo is the flat-store ledger. When tx is set, appends are
// buffered into the enclosing unit of work.
type kvTransactionRepo struct {
	store kvstore.Store
	tx    kvstore.Tx
}

func (r *kvTransactionRepo) Create(ctx context.Context, t *model.Transaction) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}
	return putDoc(ctx, r.store, r.tx, kvstore.BucketTransactions, t.ID.String(), t)
}

func (r *kvTransactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	err := getDoc(ctx, r.store, kvstore.BucketTransactions, id.String(), &t)
	if isKeyNotFound(err) {
		return nil, apperror.NotFound("transaction")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *kvTransactionRepo) List(ctx context.Context, filter LedgerFilter) ([]model.Transaction, error) {
	entries, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	matched := entries[:0]
	for _, t := range entries {
		if filter.Matches(&t) {
			matched = append(matched, t)
		}
	}
	sortTransactionsByTimestampDesc(matched)
	return paginate(matched, filter.Limit, filter.Offset), nil
}

func (r *kvTransactionRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return deleteDoc(ctx, r.store, r.tx, kvstore.BucketTransactions, id.String())
}

func (r *kvTransactionRepo) PurgeByItem(ctx context.Context, itemID uuid.UUID, keepType model.TransactionType) (int64, error) {
	entries, err := r.all(ctx)
	if err != nil {
		return 0, err
	}
	var victims []string
	for _, t := range entries {
		if t.ItemID != itemID {
			continue
		}
		if keepType != "" && t.Type == keepType {
			continue
		}
		victims = append(victims, t.ID.String())
	}
	if len(victims) == 0 {
		return 0, nil
	}
	if r.tx != nil {
		for _, key := range victims {
			r.tx.Delete(kvstore.BucketTransactions, key)
		}
		return int64(len(victims)), nil
	}
	err = r.store.Update(ctx, func(tx kvstore.Tx) error {
		for _, key := range victims {
			tx.Delete(kvstore.BucketTransactions, key)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int64(len(victims)), nil
}

func (r *kvTransactionRepo) all(ctx context.Context) ([]model.Transaction, error) {
	raws, err := r.store.List(ctx, kvstore.BucketTransactions)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.Transaction](raws)
}
