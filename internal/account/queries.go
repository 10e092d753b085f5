package account

import (
	"context"
	"github.com/google/uuid"
	"github.com/skybi/identity-server/internal/filter"
	"github.com/skybi/identity-server/internal/option"
	"github.com/skybi/identity-server/internal/paging"
	"strings"
)

// Search describes an account search
type Search struct {
	Request paging.Request
	Filter  filter.Filter
	Sort    paging.Sort
}

// Criteria turns the populated search fields into filter criteria (in the order name, email, username)
func Criteria(name, email, username string) []*filter.Criterion {
	var criteria []*filter.Criterion
	if strings.TrimSpace(name) != "" {
		criteria = append(criteria, filter.NewCriterion(FieldName, name))
	}
	if strings.TrimSpace(email) != "" {
		criteria = append(criteria, filter.NewCriterion(FieldEmail, email))
	}
	if strings.TrimSpace(username) != "" {
		criteria = append(criteria, filter.NewCriterion(FieldUserName, username))
	}
	return criteria
}

// Queries executes the read-only account queries
type Queries struct {
	repo Repository
}

// NewQueries creates a new account query executor
func NewQueries(repo Repository) *Queries {
	return &Queries{repo: repo}
}

// Page retrieves a page of accounts, most recently updated first
func (queries *Queries) Page(ctx context.Context, request paging.Request) (*paging.Page[*Account], error) {
	return queries.fetch(ctx, request, &Query{Sort: paging.DefaultSort()})
}

// Search retrieves a page of the accounts matching a search
func (queries *Queries) Search(ctx context.Context, search *Search) (*paging.Page[*Account], error) {
	return queries.fetch(ctx, search.Request, &Query{Filter: search.Filter, Sort: search.Sort})
}

// One retrieves a single account
func (queries *Queries) One(ctx context.Context, id uuid.UUID) (option.Option[*Account], error) {
	obj, err := queries.repo.GetByID(ctx, id)
	if err != nil {
		return option.None[*Account](), err
	}
	if obj == nil {
		return option.None[*Account](), nil
	}
	return option.Some(obj), nil
}

func (queries *Queries) fetch(ctx context.Context, request paging.Request, query *Query) (*paging.Page[*Account], error) {
	query.Offset = uint64(request.Offset())
	query.Limit = uint64(request.PageSize)

	accounts, n, err := queries.repo.GetPage(ctx, query)
	if err != nil {
		return nil, err
	}
	return paging.NewPage(accounts, int(n), request.PageSize), nil
}
