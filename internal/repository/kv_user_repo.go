package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Eckho-Systems/Inventory-System/internal/apperror"
	"github.com/Eckho-Systems/Inventory-System/internal/kvstore"
	"github.com/Eckho-Systems/Inventory-System/internal/model"
)

type kvUserRepo struct{ store kvstore.Store }

// userDoc is the stored form of a user. The model's json tags shape API
// output, where the PIN hash is hidden; the store must keep every field.
type userDoc struct {
	model.User
	PinHash string `json:"pinHash"`
}

func newUserDoc(u *model.User) userDoc { return userDoc{User: *u, PinHash: u.PinHash} }

func (d userDoc) user() model.User {
	u := d.User
	u.PinHash = d.PinHash
	return u
}

func (r *kvUserRepo) Create(ctx context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return putDoc(ctx, r.store, nil, kvstore.BucketUsers, u.ID.String(), newUserDoc(u))
}

func (r *kvUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var d userDoc
	err := getDoc(ctx, r.store, kvstore.BucketUsers, id.String(), &d)
	if isKeyNotFound(err) || (err == nil && !d.Active) {
		return nil, apperror.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	u := d.user()
	return &u, nil
}

func (r *kvUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	users, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		// Exact, case-sensitive match
		if users[i].Active && users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, apperror.NotFound("user")
}

// ExistsUsername matches any status: a deactivated account still owns its
// username.
func (r *kvUserRepo) ExistsUsername(ctx context.Context, username string) (bool, error) {
	users, err := r.all(ctx)
	if err != nil {
		return false, err
	}
	for i := range users {
		if users[i].Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *kvUserRepo) List(ctx context.Context) ([]model.User, error) {
	users, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	active := users[:0]
	for _, u := range users {
		if u.Active {
			active = append(active, u)
		}
	}
	sortUsersByCreatedDesc(active)
	return active, nil
}

func (r *kvUserRepo) Count(ctx context.Context) (int64, error) {
	raws, err := r.store.List(ctx, kvstore.BucketUsers)
	if err != nil {
		return 0, err
	}
	return int64(len(raws)), nil
}

func (r *kvUserRepo) Update(ctx context.Context, u *model.User) error {
	u.UpdatedAt = time.Now().UTC()
	return putDoc(ctx, r.store, nil, kvstore.BucketUsers, u.ID.String(), newUserDoc(u))
}

func (r *kvUserRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	var d userDoc
	err := getDoc(ctx, r.store, kvstore.BucketUsers, id.String(), &d)
	if isKeyNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	d.Active = false
	d.UpdatedAt = time.Now().UTC()
	return putDoc(ctx, r.store, nil, kvstore.BucketUsers, id.String(), d)
}

func (r *kvUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteDoc(ctx, r.store, nil, kvstore.BucketUsers, id.String())
}

func (r *kvUserRepo) all(ctx context.Context) ([]model.User, error) {
	raws, err := r.store.List(ctx, kvstore.BucketUsers)
	if err != nil {
		return nil, err
	}
	docs, err := decodeAll[userDoc](raws)
	if err != nil {
		return nil, err
	}
	users := make([]model.User, len(docs))
	for i := range docs {
		users[i] = docs[i].user()
	}
	return users, nil
}
