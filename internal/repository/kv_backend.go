package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Eckho-Systems/Inventory-System/internal/config"
	"github.com/Eckho-Systems/Inventory-System/internal/kvstore"
)

// kvUnitOfWork funnels all writes issued by fn into one kvstore.Update, the
// flat store's all-or-nothing boundary.
type kvUnitOfWork struct{ store kvstore.Store }

func (u kvUnitOfWork) Do(ctx context.Context, fn func(tx TxStores) error) error {
	return u.store.Update(ctx, func(tx kvstore.Tx) error {
		return fn(TxStores{
			Items:  &kvItemRepo{store: u.store, tx: tx},
			Ledger: &kvTransactionRepo{store: u.store, tx: tx},
		})
	})
}

// NewKVStores assembles the flat key-value backend.
func NewKVStores(store kvstore.Store) Stores {
	return Stores{
		Users:      &kvUserRepo{store: store},
		Categories: &kvCategoryRepo{store: store},
		Items:      &kvItemRepo{store: store},
		Ledger:     &kvTransactionRepo{store: store},
		UnitOfWork: kvUnitOfWork{store: store},
		Backend:    config.BackendKV,
	}
}

// ── shared document helpers ──────────────────────────────────────────────────

// putDoc writes v under key, through tx when one is active.
func putDoc(ctx context.Context, store kvstore.Store, tx kvstore.Tx, bucket, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if tx != nil {
		tx.Put(bucket, key, raw)
		return nil
	}
	return store.Update(ctx, func(t kvstore.Tx) error {
		t.Put(bucket, key, raw)
		return nil
	})
}

// deleteDoc removes key, through tx when one is active.
func deleteDoc(ctx context.Context, store kvstore.Store, tx kvstore.Tx, bucket, key string) error {
	if tx != nil {
		tx.Delete(bucket, key)
		return nil
	}
	return store.Update(ctx, func(t kvstore.Tx) error {
		t.Delete(bucket, key)
		return nil
	})
}

// getDoc loads key into out. Returns kvstore.ErrKeyNotFound untouched so
// callers can translate it to the right entity error.
func getDoc(ctx context.Context, store kvstore.Store, bucket, key string, out interface{}) error {
	raw, err := store.Get(ctx, bucket, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// decodeAll unmarshals every document of a bucket listing.
func decodeAll[T any](raws [][]byte) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func isKeyNotFound(err error) bool { return errors.Is(err, kvstore.ErrKeyNotFound) }
