package repository

import (
	"context"

	"github.com/parisxmas/partnerhub/internal/blob"
	"github.com/parisxmas/partnerhub/internal/codec"
	"github.com/parisxmas/partnerhub/internal/models"
	"github.com/parisxmas/partnerhub/internal/retry"
)

const usersPrefix = "users/"

// UserRepo stores operator accounts keyed by email.
type UserRepo struct {
	store blob.Store
	retry retry.Policy
}

func NewUserRepo(store blob.Store, policy retry.Policy) *UserRepo {
	return &UserRepo{store: store, retry: policy}
}

// FindByEmail fetches a user, or (nil, nil) when absent.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return retry.DoValue(ctx, r.retry, func(ctx context.Context) (*models.User, error) {
		data, found, err := r.store.Get(ctx, usersPrefix+email)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, nil
		}
		var user models.User
		if _, err := codec.Decode(data, &user); err != nil {
			return nil, retry.Permanent(err)
		}
		return &user, nil
	})
}

// Save upserts a user by email.
func (r *UserRepo) Save(ctx context.Context, user *models.User) error {
	data, err := codec.Encode(user, nil)
	if err != nil {
		return err
	}
	return r.retry.Do(ctx, func(ctx context.Context) error {
		return r.store.Set(ctx, usersPrefix+user.Email, data)
	})
}
