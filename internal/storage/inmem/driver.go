package inmem

import (
	"context"
	"github.com/hashicorp/go-memdb"
	"github.com/skybi/identity-server/internal/account"
	"github.com/skybi/identity-server/internal/storage"
	"time"
)

const tableAccounts = "accounts"

var dbSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableAccounts: {
			Name: tableAccounts,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:         "id",
					Unique:       true,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "ID"},
				},
				"username": {
					Name:         "username",
					Unique:       true,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "Username", Lowercase: true},
				},
				"email": {
					Name:         "email",
					Unique:       true,
					AllowMissing: false,
					Indexer:      &memdb.StringFieldIndex{Field: "Email", Lowercase: true},
				},
				"tenant": {
					Name:         "tenant",
					Unique:       false,
					AllowMissing: true,
					Indexer:      &memdb.StringFieldIndex{Field: "Tenant"},
				},
			},
		},
	},
}

// Driver represents the in-memory storage driver built on top of hashicorp/go-memdb.
// Nothing survives a restart.
type Driver struct {
	db       *memdb.MemDB
	now      func() time.Time
	accounts *AccountRepository
}

var _ storage.Driver = (*Driver)(nil)

// New creates a new empty in-memory storage driver.
// Use Initialize to create the database and initialize the repository implementations.
func New() *Driver {
	return &Driver{}
}

// WithClock makes the driver use the given clock to timestamp accounts
func (driver *Driver) WithClock(now func() time.Time) *Driver {
	driver.now = now
	return driver
}

// Initialize creates the in-memory database and initializes the repository implementations
func (driver *Driver) Initialize(_ context.Context) error {
	db, err := memdb.NewMemDB(dbSchema)
	if err != nil {
		return err
	}
	driver.db = db
	driver.accounts = &AccountRepository{db: db, now: driver.now}
	return nil
}

// Accounts provides the in-memory account repository implementation
func (driver *Driver) Accounts() account.Repository {
	return driver.accounts
}

// Close discards the repository implementations and the database
func (driver *Driver) Close() {
	driver.accounts = nil
	driver.db = nil
}
