package postgres

import (
	"context"
	"errors"
	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/skybi/identity-server/internal/account"
	"strings"
	"time"
)

// PostgreSQL error codes mapped to account repository errors
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// AccountRepository implements the account.Repository interface using PostgreSQL
type AccountRepository struct {
	db *pgxpool.Pool
}

var _ account.Repository = (*AccountRepository)(nil)

// GetPage retrieves the accounts matching a query along with the total amount of matching accounts
func (repo *AccountRepository) GetPage(ctx context.Context, query *account.Query) ([]*account.Account, uint64, error) {
	selection, count, err := buildPageQueries(query)
	if err != nil {
		return nil, 0, err
	}

	sql, vals, err := count.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var n uint64
	if err := repo.db.QueryRow(ctx, sql, vals...).Scan(&n); err != nil {
		return nil, 0, err
	}
	if n == 0 || query.Offset >= n {
		return []*account.Account{}, n, nil
	}

	sql, vals, err = selection.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := repo.db.Query(ctx, sql, vals...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []*account.Account{}, n, nil
		}
		return nil, 0, err
	}
	defer rows.Close()

	accounts := []*account.Account{}
	for rows.Next() {
		obj, err := repo.rowToAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, obj)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return accounts, n, nil
}

// GetByID retrieves an account by its ID
func (repo *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	// squirrel.Eq would expand the uuid.UUID byte array into an IN list
	sql, vals, err := squirrel.Select(columns...).
		From("accounts").
		Where(squirrel.Eq{"account_id": id.String()}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	obj, err := repo.rowToAccount(repo.db.QueryRow(ctx, sql, vals...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return obj, nil
}

// CountTenanted counts the accounts using the given account as their tenant
func (repo *AccountRepository) CountTenanted(ctx context.Context, tenantID uuid.UUID) (uint64, error) {
	var n uint64
	if err := repo.db.QueryRow(ctx, "SELECT COUNT(*) FROM accounts WHERE tenant_id = $1", tenantID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Create creates a new account
func (repo *AccountRepository) Create(ctx context.Context, create *account.Create) (*account.Account, error) {
	now := time.Now().UTC()
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

	sql, vals, err := squirrel.Insert("accounts").
		Columns(columns...).
		Values(
			obj.ID,
			obj.Username,
			obj.Name,
			obj.Email,
			nullableTenant(obj.Tenant),
			obj.PasswordHash,
			obj.Locked,
			obj.Active,
			obj.CreatedDate,
			obj.UpdatedDate,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := repo.db.Exec(ctx, sql, vals...); err != nil {
		return nil, translateError(err)
	}
	return obj, nil
}

// Update updates an existing account
func (repo *AccountRepository) Update(ctx context.Context, id uuid.UUID, update *account.Update) (*account.Account, error) {
	query := squirrel.Update("accounts").
		Set("updated_date", time.Now().UTC()).
		Where(squirrel.Eq{"account_id": id.String()})
	sql, vals, err := buildUpdate(query, update).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	obj, err := repo.rowToAccount(repo.db.QueryRow(ctx, sql, vals...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrNotFound
		}
		return nil, translateError(err)
	}
	return obj, nil
}

// Delete deletes an account by its ID
func (repo *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := repo.db.Exec(ctx, "DELETE FROM accounts WHERE account_id = $1", id)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return account.ErrNotFound
	}
	return nil
}

func (repo *AccountRepository) rowToAccount(row pgx.Row) (*account.Account, error) {
	obj := new(account.Account)
	var tenant uuid.NullUUID
	err := row.Scan(
		&obj.ID,
		&obj.Username,
		&obj.Name,
		&obj.Email,
		&tenant,
		&obj.PasswordHash,
		&obj.Locked,
		&obj.Active,
		&obj.CreatedDate,
		&obj.UpdatedDate,
	)
	if err != nil {
		return nil, err
	}
	if tenant.Valid {
		obj.Tenant = &tenant.UUID
	}
	obj.CreatedDate = obj.CreatedDate.UTC()
	obj.UpdatedDate = obj.UpdatedDate.UTC()
	return obj, nil
}

func nullableTenant(tenant *uuid.UUID) uuid.NullUUID {
	if tenant == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *tenant, Valid: true}
}

// translateError maps unique constraint violations to account.ErrDuplicate
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return account.ErrDuplicate
	case codeForeignKeyViolation:
		return account.ErrReference
	default:
		return err
	}
}
