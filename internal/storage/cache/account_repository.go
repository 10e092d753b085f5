package cache

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/skybi/identity-server/internal/account"
	"github.com/skybi/identity-server/internal/hashmap"
)

// AccountRepository implements the account.Repository interface in order to implement caching
type AccountRepository struct {
	repo  account.Repository
	cache *hashmap.ExpiringMap[uuid.UUID, *account.Account]
}

var _ account.Repository = (*AccountRepository)(nil)

// GetPage retrieves the accounts matching a query.
// Pages are always read from the underlying repository and never touch the cache, as a page read racing a write
// could otherwise replace a fresh entry with an outdated row.
func (repo *AccountRepository) GetPage(ctx context.Context, query *account.Query) ([]*account.Account, uint64, error) {
	return repo.repo.GetPage(ctx, query)
}

// GetByID retrieves an account by its ID
func (repo *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	if cached, ok := repo.cache.Lookup(id); ok {
		return cached.Clone(), nil
	}
	obj, err := repo.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if obj != nil {
		repo.cache.Set(obj.ID, obj.Clone())
	}
	return obj, nil
}

// CountTenanted counts the accounts using the given account as their tenant
func (repo *AccountRepository) CountTenanted(ctx context.Context, tenantID uuid.UUID) (uint64, error) {
	return repo.repo.CountTenanted(ctx, tenantID)
}

// Create creates a new account
func (repo *AccountRepository) Create(ctx context.Context, create *account.Create) (*account.Account, error) {
	obj, err := repo.repo.Create(ctx, create)
	if err != nil {
		return nil, err
	}
	repo.cache.Set(obj.ID, obj.Clone())
	return obj, nil
}

// Update updates an existing account
func (repo *AccountRepository) Update(ctx context.Context, id uuid.UUID, update *account.Update) (*account.Account, error) {
	obj, err := repo.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			repo.cache.Unset(id)
		}
		return nil, err
	}
	repo.cache.Set(obj.ID, obj.Clone())
	return obj, nil
}

// Delete deletes an account by its ID
func (repo *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := repo.repo.Delete(ctx, id)
	if err != nil && !errors.Is(err, account.ErrNotFound) {
		return err
	}
	repo.cache.Unset(id)
	return err
}
