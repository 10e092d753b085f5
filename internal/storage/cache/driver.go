package cache

import (
	"context"
	"github.com/google/uuid"
	"github.com/skybi/identity-server/internal/account"
	"github.com/skybi/identity-server/internal/hashmap"
	"github.com/skybi/identity-server/internal/storage"
	"time"
)

// cleanupInterval is the interval expired cache entries are removed in
const cleanupInterval = 10 * time.Second

// Driver represents a storage driver implementation that wraps another one in order to implement in-memory caching
type Driver struct {
	underlying storage.Driver
	lifetime   time.Duration
	accounts   *AccountRepository
}

var _ storage.Driver = (*Driver)(nil)

// New returns a new caching storage driver keeping entries for the given lifetime
func New(underlying storage.Driver, lifetime time.Duration) *Driver {
	return &Driver{
		underlying: underlying,
		lifetime:   lifetime,
	}
}

// Initialize initializes the underlying driver and the caching repositories
func (driver *Driver) Initialize(ctx context.Context) error {
	if err := driver.underlying.Initialize(ctx); err != nil {
		return err
	}

	accountCache := hashmap.NewExpiring[uuid.UUID, *account.Account](driver.lifetime)
	accountCache.ScheduleCleanupTask(cleanupInterval)
	driver.accounts = &AccountRepository{
		repo:  driver.underlying.Accounts(),
		cache: accountCache,
	}
	return nil
}

// Accounts provides the caching account repository implementation
func (driver *Driver) Accounts() account.Repository {
	return driver.accounts
}

// Close stops the caching repositories and closes the underlying driver
func (driver *Driver) Close() {
	driver.accounts.cache.StopCleanupTask()
	driver.accounts = nil
	driver.underlying.Close()
}
