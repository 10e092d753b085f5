package hateoas

import (
	"errors"
	"github.com/skybi/identity-server/internal/paging"
	"net/http"
)

var errEmptyHref = errors.New("the URL generator returned an empty URL")

// LinkBuilder builds the links of single resources and paged collections.
// Fetching and deleting a resource share the same route; only the link method differs.
type LinkBuilder struct {
	urls        URLGenerator
	getOneRoute string
}

// NewLinkBuilder creates a new link builder generating resource links using the given route
func NewLinkBuilder(urls URLGenerator, getOneRoute string) *LinkBuilder {
	return &LinkBuilder{
		urls:        urls,
		getOneRoute: getOneRoute,
	}
}

// SelfLink builds the 'self' link of a resource
func (builder *LinkBuilder) SelfLink(resource Resource) (Link, error) {
	href, err := builder.resourceHref(resource.ResourceID())
	if err != nil {
		return Link{}, err
	}
	return get(RelationSelf, href), nil
}

// ResourceLinks builds all links of a single resource: 'self', 'delete' and, if the resource belongs to a tenant,
// 'tenant'
func (builder *LinkBuilder) ResourceLinks(resource Resource) ([]Link, error) {
	href, err := builder.resourceHref(resource.ResourceID())
	if err != nil {
		return nil, err
	}
	self := get(RelationSelf, href)
	del := Link{Relation: RelationDelete, Method: http.MethodDelete, Href: href}

	tenantID, ok := tenantOf(resource)
	if !ok {
		return []Link{self, del}, nil
	}
	tenantHref, err := builder.resourceHref(tenantID)
	if err != nil {
		return nil, err
	}
	return []Link{self, del, get(RelationTenant, tenantHref)}, nil
}

// CollectionLinks builds the navigation links of a paged collection.
// Every link carries the fixed parameters (filters, sorting, ...) followed by the page and page size so paging
// through a collection never drops them.
func (builder *LinkBuilder) CollectionLinks(route string, fixed Params, meta paging.Metadata) (LinkSet, error) {
	pageLink := func(relation string, page int) (*Link, error) {
		href, err := builder.href(route, fixed.With(
			NewParam(ParamPage, page),
			NewParam(ParamPageSize, meta.PageSize),
		))
		if err != nil {
			return nil, err
		}
		link := get(relation, href)
		return &link, nil
	}

	var set LinkSet
	var err error
	if set.First, err = pageLink(RelationFirst, 1); err != nil {
		return LinkSet{}, err
	}
	if meta.HasPrevious {
		if set.Previous, err = pageLink(RelationPrevious, meta.Page-1); err != nil {
			return LinkSet{}, err
		}
	}
	if meta.HasNext {
		if set.Next, err = pageLink(RelationNext, meta.Page+1); err != nil {
			return LinkSet{}, err
		}
	}
	if set.Last, err = pageLink(RelationLast, meta.LastPage); err != nil {
		return LinkSet{}, err
	}
	return set, nil
}

func (builder *LinkBuilder) resourceHref(id string) (string, error) {
	return builder.href(builder.getOneRoute, Params{{Name: ParamID, Value: id}})
}

func (builder *LinkBuilder) href(route string, params Params) (string, error) {
	href, err := builder.urls.Link(route, params)
	if err != nil {
		return "", &LinkError{Route: route, Err: err}
	}
	if href == "" {
		return "", &LinkError{Route: route, Err: errEmptyHref}
	}
	return href, nil
}

func tenantOf(resource Resource) (string, bool) {
	tenanted, ok := resource.(Tenanted)
	if !ok {
		return "", false
	}
	id, ok := tenanted.TenantID()
	return id, ok && id != ""
}
