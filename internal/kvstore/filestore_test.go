package kvstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorePutGet(t *testing.T) {
	store, err := OpenFile(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	err = store.Update(ctx, func(tx Tx) error {
		tx.Put(BucketItems, "a", []byte(`{"name":"Coffee"}`))
		return nil
	})
	require.NoError(t, err)

	doc, err := store.Get(ctx, BucketItems, "a")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Coffee"}`, string(doc))

	_, err = store.Get(ctx, BucketItems, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFileStoreUpdateIsAtomic(t *testing.T) {
	store, err := OpenFile(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	boom := errors.New("boom")
	err = store.Update(ctx, func(tx Tx) error {
		tx.Put(BucketItems, "a", []byte(`{}`))
		tx.Put(BucketTransactions, "t", []byte(`{}`))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// Nothing from the failed update is visible.
	_, err = store.Get(ctx, BucketItems, "a")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	_, err = store.Get(ctx, BucketTransactions, "t")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFileStoreDelete(t *testing.T) {
	store, err := OpenFile(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Update(ctx, func(tx Tx) error {
		tx.Put(BucketUsers, "u", []byte(`{}`))
		return nil
	}))
	require.NoError(t, store.Update(ctx, func(tx Tx) error {
		tx.Delete(BucketUsers, "u")
		return nil
	}))

	_, err = store.Get(ctx, BucketUsers, "u")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := OpenFile(dir)
	require.NoError(t, err)
	require.NoError(t, store.Update(ctx, func(tx Tx) error {
		tx.Put(BucketCategories, "c", []byte(`{"name":"Drinks"}`))
		return nil
	}))
	require.NoError(t, store.Close())

	reopened, err := OpenFile(dir)
	require.NoError(t, err)
	doc, err := reopened.Get(ctx, BucketCategories, "c")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Drinks"}`, string(doc))

	docs, err := reopened.List(ctx, BucketCategories)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestFileStorePersistFailureLeavesDiskConsistent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := OpenFile(dir)
	require.NoError(t, err)
	require.NoError(t, store.Update(ctx, func(tx Tx) error {
		tx.Put(BucketItems, "item-1", []byte(`{"name":"Coffee"}`))
		return nil
	}))

	// Block the transactions bucket from being staged: its temp path is
	// occupied by a directory, so the write fails.
	require.NoError(t, os.Mkdir(filepath.Join(dir, BucketTransactions+".json.tmp"), 0o755))

	// A marker append + row delete spanning two buckets must not half-persist.
	err = store.Update(ctx, func(tx Tx) error {
		tx.Put(BucketTransactions, "marker", []byte(`{}`))
		tx.Delete(BucketItems, "item-1")
		return nil
	})
	require.Error(t, err)

	// Memory rolled back.
	doc, err := store.Get(ctx, BucketItems, "item-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Coffee"}`, string(doc))

	// Disk rolled back too: a restart sees the item, and no marker.
	reopened, err := OpenFile(dir)
	require.NoError(t, err)
	doc, err = reopened.Get(ctx, BucketItems, "item-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Coffee"}`, string(doc))
	_, err = reopened.Get(ctx, BucketTransactions, "marker")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFileStoreUnknownBucket(t *testing.T) {
	store, err := OpenFile(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Get(ctx, "bogus", "k")
	assert.Error(t, err)
	err = store.Update(ctx, func(tx Tx) error {
		tx.Put("bogus", "k", []byte(`{}`))
		return nil
	})
	assert.Error(t, err)
}
