package inmem

import (
	"context"
	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/skybi/identity-server/internal/account"
	"github.com/skybi/identity-server/internal/paging"
	"sort"
	"strings"
	"time"
)

// entry is the indexed representation of an account
type entry struct {
	ID       string
	Username string
	Email    string
	Tenant   string
	Account  *account.Account
}

func newEntry(obj *account.Account) *entry {
	tenant := ""
	if obj.Tenant != nil {
		tenant = obj.Tenant.String()
	}
	return &entry{
		ID:       obj.ID.String(),
		Username: obj.Username,
		Email:    obj.Email,
		Tenant:   tenant,
		Account:  obj,
	}
}

// AccountRepository implements the account.Repository interface using an in-memory database
type AccountRepository struct {
	db  *memdb.MemDB
	now func() time.Time
}

var _ account.Repository = (*AccountRepository)(nil)

// GetPage retrieves the accounts matching a query along with the total amount of matching accounts
func (repo *AccountRepository) GetPage(_ context.Context, query *account.Query) ([]*account.Account, uint64, error) {
	txn := repo.db.Txn(false)
	it, err := txn.Get(tableAccounts, "id")
	if err != nil {
		return nil, 0, err
	}

	matches := []*account.Account{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		acc := obj.(*entry).Account
		if query.Filter != nil && !query.Filter.Matches(acc) {
			continue
		}
		matches = append(matches, acc)
	}

	order := query.EffectiveSort()
	sort.SliceStable(matches, func(i, j int) bool {
		return less(matches[i], matches[j], order)
	})

	n := uint64(len(matches))
	if query.Offset >= n {
		return []*account.Account{}, n, nil
	}
	end := n
	if query.Limit > 0 && query.Offset+query.Limit < n {
		end = query.Offset + query.Limit
	}

	accounts := make([]*account.Account, 0, end-query.Offset)
	for _, acc := range matches[query.Offset:end] {
		accounts = append(accounts, acc.Clone())
	}
	return accounts, n, nil
}

// GetByID retrieves an account by its ID
func (repo *AccountRepository) GetByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	obj, err := repo.db.Txn(false).First(tableAccounts, "id", id.String())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return obj.(*entry).Account.Clone(), nil
}

// CountTenanted counts the accounts using the given account as their tenant
func (repo *AccountRepository) CountTenanted(_ context.Context, tenantID uuid.UUID) (uint64, error) {
	it, err := repo.db.Txn(false).Get(tableAccounts, "tenant", tenantID.String())
	if err != nil {
		return 0, err
	}
	var n uint64
	for obj := it.Next(); obj != nil; obj = it.Next() {
		n++
	}
	return n, nil
}

// Create creates a new account
func (repo *AccountRepository) Create(_ context.Context, create *account.Create) (*account.Account, error) {
	txn := repo.db.Txn(true)
	defer txn.Abort()

	taken, err := isTaken(txn, "", create.Username, create.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, account.ErrDuplicate
	}

	now := repo.timestamp()
	obj := &account.Account{
		ID:           uuid.New(),
		Username:     create.Username,
		Name:         create.Name,
		Email:        create.Email,
		PasswordHash: create.PasswordHash,
		Active:       true,
		CreatedDate:  now,
		UpdatedDate:  now,
	}
	if create.Tenant != nil {
		tenant := *create.Tenant
		obj.Tenant = &tenant
	}

	if err := txn.Insert(tableAccounts, newEntry(obj)); err != nil {
		return nil, err
	}
	txn.Commit()
	return obj.Clone(), nil
}

// Update updates an existing account
func (repo *AccountRepository) Update(_ context.Context, id uuid.UUID, update *account.Update) (*account.Account, error) {
	txn := repo.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tableAccounts, "id", id.String())
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, account.ErrNotFound
	}
	obj := raw.(*entry).Account.Clone()

	if update.Username != nil {
		obj.Username = *update.Username
	}
	if update.Name != nil {
		obj.Name = *update.Name
	}
	if update.Email != nil {
		obj.Email = *update.Email
	}
	if update.Locked != nil {
		obj.Locked = *update.Locked
	}
	if update.Tenant != nil {
		if update.Tenant.Valid {
			tenant := update.Tenant.UUID
			obj.Tenant = &tenant
		} else {
			obj.Tenant = nil
		}
	}
	obj.UpdatedDate = repo.timestamp()

	taken, err := isTaken(txn, obj.ID.String(), obj.Username, obj.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, account.ErrDuplicate
	}

	if err := txn.Insert(tableAccounts, newEntry(obj)); err != nil {
		return nil, err
	}
	txn.Commit()
	return obj.Clone(), nil
}

// Delete deletes an account by its ID.
// Like the foreign key of the PostgreSQL schema, it refuses to delete accounts still used as a tenant.
func (repo *AccountRepository) Delete(_ context.Context, id uuid.UUID) error {
	txn := repo.db.Txn(true)
	defer txn.Abort()

	obj, err := txn.First(tableAccounts, "id", id.String())
	if err != nil {
		return err
	}
	if obj == nil {
		return account.ErrNotFound
	}
	tenanted, err := txn.First(tableAccounts, "tenant", id.String())
	if err != nil {
		return err
	}
	if tenanted != nil {
		return account.ErrReference
	}
	if err := txn.Delete(tableAccounts, obj); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (repo *AccountRepository) timestamp() time.Time {
	if repo.now != nil {
		return repo.now().UTC()
	}
	return time.Now().UTC()
}

// less orders two accounts by the given sort specification and falls back to their IDs
func less(a, b *account.Account, order paging.Sort) bool {
	for _, field := range order {
		cmp := account.Compare(a, b, field.Field)
		if cmp == 0 {
			continue
		}
		if field.Direction == paging.Descending {
			return cmp > 0
		}
		return cmp < 0
	}
	return a.ID.String() < b.ID.String()
}

// isTaken reports whether an account other than the one with the given ID already uses username or email.
// go-memdb does not reject duplicates in unique indexes, it overwrites them.
func isTaken(txn *memdb.Txn, id, username, email string) (bool, error) {
	for _, lookup := range [][2]string{{"username", username}, {"email", email}} {
		obj, err := txn.First(tableAccounts, lookup[0], strings.ToLower(lookup[1]))
		if err != nil {
			return false, err
		}
		if obj != nil && obj.(*entry).ID != id {
			return true, nil
		}
	}
	return false, nil
}
