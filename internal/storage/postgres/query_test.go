package postgres

import (
	"errors"
	"fmt"
	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/skybi/identity-server/internal/account"
	"github.com/skybi/identity-server/internal/filter"
	"github.com/skybi/identity-server/internal/paging"
	"strings"
	"testing"
)

func TestFilterToSQL(t *testing.T) {
	cases := []struct {
		pattern string
		sql     string
		arg     string
	}{
		{"Bruce", "username = ?", "Bruce"},
		{"Bru*", "username LIKE ?", "Bru%"},
		{"*uce", "username LIKE ?", "%uce"},
		{"*ru*", "username LIKE ?", "%ru%"},
		{"50%_*", "username LIKE ?", `50\%\_%`},
	}
	for _, c := range cases {
		where, err := filterToSQL(filter.NewCriterion(account.FieldUserName, c.pattern))
		if err != nil {
			t.Fatalf("%s: %v", c.pattern, err)
		}
		sql, args, err := where.ToSql()
		if err != nil {
			t.Fatalf("%s: %v", c.pattern, err)
		}
		if sql != c.sql {
			t.Fatalf("%s: expected %q, got %q", c.pattern, c.sql, sql)
		}
		if len(args) != 1 || args[0] != c.arg {
			t.Fatalf("%s: expected argument %q, got %v", c.pattern, c.arg, args)
		}
	}
}

func TestFilterToSQLComposite(t *testing.T) {
	composed, err := filter.Compose(
		filter.NewCriterion(account.FieldName, "Bruce*"),
		filter.NewCriterion(account.FieldEmail, "*@wayne.com"),
	)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	where, err := filterToSQL(composed)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	sql, args, err := where.ToSql()
	if err != nil {
		t.Fatalf("to sql: %v", err)
	}
	if sql != "(name LIKE ? AND email LIKE ?)" {
		t.Fatalf("unexpected sql %q", sql)
	}
	if len(args) != 2 || args[0] != "Bruce%" || args[1] != "%@wayne.com" {
		t.Fatalf("unexpected arguments %v", args)
	}

	or := filter.NewComposite(filter.Or, filter.NewCriterion(account.FieldName, "a"), filter.NewCriterion(account.FieldName, "b"))
	where, _ = filterToSQL(or)
	sql, _, _ = where.ToSql()
	if sql != "(name = ? OR name = ?)" {
		t.Fatalf("unexpected sql %q", sql)
	}
}

func TestFilterToSQLRejectsUnknownFields(t *testing.T) {
	if _, err := filterToSQL(filter.NewCriterion("Password", "x")); err == nil {
		t.Fatal("expected an error for an unknown field")
	}
}

func TestBuildPageQueries(t *testing.T) {
	sort, err := paging.ParseSort("-email,name", account.SortableFields...)
	if err != nil {
		t.Fatalf("parse sort: %v", err)
	}
	selection, count, err := buildPageQueries(&account.Query{
		Filter: filter.NewCriterion(account.FieldUserName, "bruce"),
		Sort:   sort,
		Offset: 60,
		Limit:  30,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	sql, args, err := selection.ToSql()
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	for _, part := range []string{
		"FROM accounts WHERE username = $1",
		"ORDER BY email DESC, name ASC, account_id ASC",
		"LIMIT 30",
		"OFFSET 60",
	} {
		if !strings.Contains(sql, part) {
			t.Fatalf("expected %q in %q", part, sql)
		}
	}
	if len(args) != 1 || args[0] != "bruce" {
		t.Fatalf("unexpected arguments %v", args)
	}

	sql, _, err = count.ToSql()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if sql != "SELECT COUNT(*) FROM accounts WHERE username = $1" {
		t.Fatalf("unexpected count sql %q", sql)
	}
}

func TestBuildPageQueriesDefaultSort(t *testing.T) {
	selection, _, err := buildPageQueries(&account.Query{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	sql, _, _ := selection.ToSql()
	if !strings.HasSuffix(sql, "ORDER BY updated_date DESC, account_id ASC") {
		t.Fatalf("unexpected sql %q", sql)
	}
}

func TestOrderByRejectsUnknownFields(t *testing.T) {
	_, err := orderBy(paging.Sort{{Field: "Password", Direction: paging.Ascending}})
	var sortErr *paging.SortError
	if !errors.As(err, &sortErr) || sortErr.Field != "Password" {
		t.Fatalf("expected a sort error, got %v", err)
	}
}

func TestBuildUpdate(t *testing.T) {
	name := "Bruce"
	base := squirrel.Update("accounts").Where(squirrel.Eq{"account_id": "x"})

	sql, args, err := buildUpdate(base, &account.Update{Name: &name, Tenant: &uuid.NullUUID{}}).ToSql()
	if err != nil {
		t.Fatalf("to sql: %v", err)
	}
	if sql != "UPDATE accounts SET name = ?, tenant_id = ? WHERE account_id = ?" {
		t.Fatalf("unexpected sql %q", sql)
	}
	if len(args) != 3 || args[0] != "Bruce" || args[1] != nil {
		t.Fatalf("unexpected arguments %v", args)
	}
}

func TestTranslateError(t *testing.T) {
	if err := translateError(&pgconn.PgError{Code: codeUniqueViolation}); !errors.Is(err, account.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := translateError(&pgconn.PgError{Code: codeForeignKeyViolation}); !errors.Is(err, account.ErrReference) {
		t.Fatalf("expected ErrReference, got %v", err)
	}
	wrapped := fmt.Errorf("delete: %w", &pgconn.PgError{Code: codeForeignKeyViolation})
	if err := translateError(wrapped); !errors.Is(err, account.ErrReference) {
		t.Fatalf("expected ErrReference for a wrapped error, got %v", err)
	}
	syntax := &pgconn.PgError{Code: "42601"}
	if err := translateError(syntax); err != syntax {
		t.Fatalf("expected unrelated PostgreSQL errors to pass through, got %v", err)
	}
	other := errors.New("boom")
	if err := translateError(other); err != other {
		t.Fatalf("expected the error to pass through, got %v", err)
	}
}
