package storage

import (
	"context"
	"github.com/skybi/identity-server/internal/account"
)

// Driver represents a storage driver
type Driver interface {
	// Initialize initializes the storage driver (i.e. opens a database connection)
	Initialize(ctx context.Context) error

	// Accounts provides an account repository implementation
	Accounts() account.Repository

	// Close closes the storage driver (i.e. closes a database connection)
	Close()
}
