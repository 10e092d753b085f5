package account

import (
	"github.com/google/uuid"
	"strings"
	"time"
)

// Names of the account fields clients may filter or sort by
const (
	FieldUserName    = "UserName"
	FieldName        = "Name"
	FieldEmail       = "Email"
	FieldCreatedDate = "CreatedDate"
	FieldUpdatedDate = "UpdatedDate"
)

// SortableFields lists every field accounts can be sorted by
var SortableFields = []string{FieldUserName, FieldName, FieldEmail, FieldCreatedDate, FieldUpdatedDate}

// Account represents an identity registered to the service
type Account struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Tenant       *uuid.UUID `json:"tenant_id,omitempty"`
	PasswordHash string     `json:"-"`
	Locked       bool       `json:"locked"`
	Active       bool       `json:"is_active"`
	CreatedDate  time.Time  `json:"created_date"`
	UpdatedDate  time.Time  `json:"updated_date"`
}

// ResourceID returns the string representation of the account ID
func (account *Account) ResourceID() string {
	return account.ID.String()
}

// TenantID returns the ID of the account this account belongs to, if any
func (account *Account) TenantID() (string, bool) {
	if account.Tenant == nil {
		return "", false
	}
	return account.Tenant.String(), true
}

// FieldValue returns the string value of a filterable field
func (account *Account) FieldValue(field string) (string, bool) {
	switch field {
	case FieldUserName:
		return account.Username, true
	case FieldName:
		return account.Name, true
	case FieldEmail:
		return account.Email, true
	case FieldCreatedDate:
		return account.CreatedDate.UTC().Format(time.RFC3339Nano), true
	case FieldUpdatedDate:
		return account.UpdatedDate.UTC().Format(time.RFC3339Nano), true
	default:
		return "", false
	}
}

// Clone returns a deep copy of the account
func (account *Account) Clone() *Account {
	cpy := *account
	if account.Tenant != nil {
		tenant := *account.Tenant
		cpy.Tenant = &tenant
	}
	return &cpy
}

// IsTenantOf reports whether this account is the tenant of other
func (account *Account) IsTenantOf(other *Account) bool {
	return other.Tenant != nil && *other.Tenant == account.ID
}

// Compare compares two accounts by a sortable field.
// The result is negative if a sorts before b, positive if after and 0 if they are equal in that field.
func Compare(a, b *Account, field string) int {
	switch field {
	case FieldCreatedDate:
		return a.CreatedDate.Compare(b.CreatedDate)
	case FieldUpdatedDate:
		return a.UpdatedDate.Compare(b.UpdatedDate)
	}
	first, _ := a.FieldValue(field)
	second, _ := b.FieldValue(field)
	return strings.Compare(first, second)
}
