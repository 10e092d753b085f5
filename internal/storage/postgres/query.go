package postgres

import (
	"fmt"
	"github.com/Masterminds/squirrel"
	"github.com/skybi/identity-server/internal/account"
	"github.com/skybi/identity-server/internal/filter"
	"github.com/skybi/identity-server/internal/paging"
	"strings"
)

var columns = []string{
	"account_id",
	"username",
	"name",
	"email",
	"tenant_id",
	"password_hash",
	"locked",
	"active",
	"created_date",
	"updated_date",
}

// sortColumns maps the sortable account fields to their columns
var sortColumns = map[string]string{
	account.FieldUserName:    "username",
	account.FieldName:        "name",
	account.FieldEmail:       "email",
	account.FieldCreatedDate: "created_date",
	account.FieldUpdatedDate: "updated_date",
}

// filterColumns maps the filterable account fields to their columns.
// Date fields are compared in their textual form in memory and are not translated.
var filterColumns = map[string]string{
	account.FieldUserName: "username",
	account.FieldName:     "name",
	account.FieldEmail:    "email",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// filterToSQL translates a filter tree into a squirrel condition
func filterToSQL(f filter.Filter) (squirrel.Sqlizer, error) {
	switch typed := f.(type) {
	case *filter.Criterion:
		column, ok := filterColumns[typed.Field]
		if !ok {
			return nil, fmt.Errorf("the field '%s' cannot be filtered by", typed.Field)
		}
		value := likeEscaper.Replace(typed.Value)
		switch typed.Operator {
		case filter.StartsWith:
			return squirrel.Like{column: value + "%"}, nil
		case filter.EndsWith:
			return squirrel.Like{column: "%" + value}, nil
		case filter.Contains:
			return squirrel.Like{column: "%" + value + "%"}, nil
		default:
			return squirrel.Eq{column: typed.Value}, nil
		}
	case *filter.Composite:
		parts := make([]squirrel.Sqlizer, 0, len(typed.Filters))
		for _, child := range typed.Filters {
			part, err := filterToSQL(child)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		if typed.Logic == filter.Or {
			return squirrel.Or(parts), nil
		}
		return squirrel.And(parts), nil
	default:
		return nil, fmt.Errorf("unsupported filter type %T", f)
	}
}

// orderBy translates a sort specification into ORDER BY clauses.
// The primary key is always appended so that pages stay stable.
func orderBy(sort paging.Sort) ([]string, error) {
	clauses := make([]string, 0, len(sort)+1)
	for _, field := range sort {
		column, ok := sortColumns[field.Field]
		if !ok {
			return nil, &paging.SortError{Field: field.Field}
		}
		direction := "ASC"
		if field.Direction == paging.Descending {
			direction = "DESC"
		}
		clauses = append(clauses, column+" "+direction)
	}
	return append(clauses, "account_id ASC"), nil
}

// buildPageQueries builds the data and the count query for an account query
func buildPageQueries(query *account.Query) (squirrel.SelectBuilder, squirrel.SelectBuilder, error) {
	selection := squirrel.Select(columns...).From("accounts").PlaceholderFormat(squirrel.Dollar)
	count := squirrel.Select("COUNT(*)").From("accounts").PlaceholderFormat(squirrel.Dollar)

	if query.Filter != nil {
		where, err := filterToSQL(query.Filter)
		if err != nil {
			return selection, count, err
		}
		selection = selection.Where(where)
		count = count.Where(where)
	}

	order, err := orderBy(query.EffectiveSort())
	if err != nil {
		return selection, count, err
	}
	selection = selection.OrderBy(order...)

	if query.Offset > 0 {
		selection = selection.Offset(query.Offset)
	}
	if query.Limit > 0 {
		selection = selection.Limit(query.Limit)
	}
	return selection, count, nil
}

// buildUpdate builds the UPDATE statement applying an account update
func buildUpdate(query squirrel.UpdateBuilder, update *account.Update) squirrel.UpdateBuilder {
	if update.Username != nil {
		query = query.Set("username", *update.Username)
	}
	if update.Name != nil {
		query = query.Set("name", *update.Name)
	}
	if update.Email != nil {
		query = query.Set("email", *update.Email)
	}
	if update.Locked != nil {
		query = query.Set("locked", *update.Locked)
	}
	if update.Tenant != nil {
		if update.Tenant.Valid {
			query = query.Set("tenant_id", update.Tenant.UUID)
		} else {
			query = query.Set("tenant_id", nil)
		}
	}
	return query
}
