// Package adapters provides the store-backed repository for the auth
// feature.
package adapters

import (
	"context"
	"errors"
	"time"

	"jobboard_backend/internal/feature/auth/domain/entity"
	"jobboard_backend/internal/feature/auth/usecase"
	"jobboard_backend/internal/platform/store"
)

const resource = "users"

// userStore implements usecase.UserRepository over the store request
// primitive.
type userStore struct {
	client store.Client
}

var _ usecase.UserRepository = (*userStore)(nil)

// NewUserStore creates the users repository over the given store binding.
func NewUserStore(client store.Client) *userStore {
	return &userStore{client: client}
}

// Create persists a new user. The store's unique index on email turns
// duplicate signups into usecase.ErrEmailAlreadyExists.
func (r *userStore) Create(ctx context.Context, u entity.User) (*entity.User, error) {
	body := map[string]any{
		"name":              u.Name,
		"email":             u.Email,
		"password_hash":     u.PasswordHash,
		"subscription_plan": u.SubscriptionPlan,
	}
	var out []entity.User
	if _, err := r.client.Do(ctx, store.MethodPost, resource, nil, body, &out); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, usecase.ErrEmailAlreadyExists
		}
		return nil, err
	}
	if len(out) == 0 {
		return nil, store.ErrNotFound
	}
	return &out[0], nil
}

// FindByEmail returns (nil, nil) when no user carries the email.
func (r *userStore) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, store.Params{
		"email":          store.Eq(email),
		store.ParamLimit: "1",
	})
}

// FindByID returns (nil, nil) when the user does not exist.
func (r *userStore) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, store.Params{
		"id":             store.Eq(id),
		store.ParamLimit: "1",
	})
}

func (r *userStore) findOne(ctx context.Context, params store.Params) (*entity.User, error) {
	var out []entity.User
	err := store.Retry(ctx, func() error {
		out = out[:0]
		_, err := r.client.Do(ctx, store.MethodGet, resource, params, nil, &out)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// TouchLastLogin stamps a successful authentication.
func (r *userStore) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	params := store.Params{"id": store.Eq(id)}
	body := map[string]any{"last_login": at.UTC().Format(time.RFC3339)}
	var out []entity.User
	if _, err := r.client.Do(ctx, store.MethodPatch, resource, params, body, &out); err != nil {
		return err
	}
	if len(out) == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}
