package account

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/skybi/identity-server/internal/filter"
	"github.com/skybi/identity-server/internal/paging"
)

var (
	ErrDuplicate = errors.New("an account with the same username or email already exists")
	ErrNotFound  = errors.New("the account does not exist")
	ErrReference = errors.New("the account references or is referenced by an account that changed concurrently")
	ErrBlank     = errors.New("the username and email must not be blank")
)

// Repository defines the account repository API
type Repository interface {
	// GetPage retrieves the accounts matching a query along with the total amount of matching accounts
	GetPage(ctx context.Context, query *Query) ([]*Account, uint64, error)

	// GetByID retrieves an account by its ID; a nil account is returned if it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// CountTenanted counts the accounts using the given account as their tenant
	CountTenanted(ctx context.Context, tenantID uuid.UUID) (uint64, error)

	// Create creates a new account.
	// ErrDuplicate is returned if the username or email is already taken, ErrReference if the tenant vanished.
	Create(ctx context.Context, create *Create) (*Account, error)

	// Update updates an existing account and returns its new state.
	// ErrNotFound is returned if the account does not exist, ErrDuplicate if the new username or email is taken and
	// ErrReference if the new tenant vanished.
	Update(ctx context.Context, id uuid.UUID, update *Update) (*Account, error)

	// Delete deletes an account by its ID.
	// ErrNotFound is returned if the account does not exist, ErrReference if it is still used as a tenant.
	Delete(ctx context.Context, id uuid.UUID) error
}

// Query describes which accounts to retrieve.
// A nil Filter matches every account; an empty Sort falls back to paging.DefaultSort.
type Query struct {
	Filter filter.Filter
	Sort   paging.Sort
	Offset uint64
	Limit  uint64
}

// EffectiveSort returns the sort specification to apply for the query
func (query *Query) EffectiveSort() paging.Sort {
	if len(query.Sort) == 0 {
		return paging.DefaultSort()
	}
	return query.Sort
}

// Create is used to create a new account
type Create struct {
	Username     string
	Name         string
	Email        string
	Tenant       *uuid.UUID
	PasswordHash string
}

// Update is used to update an existing account.
// A nil Tenant leaves the tenant untouched, an invalid one removes it.
type Update struct {
	Username *string
	Name     *string
	Email    *string
	Locked   *bool
	Tenant   *uuid.NullUUID
}

// IsEmpty reports whether the update changes anything at all
func (update *Update) IsEmpty() bool {
	return update.Username == nil && update.Name == nil && update.Email == nil && update.Locked == nil && update.Tenant == nil
}
