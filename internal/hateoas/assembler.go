package hateoas

import (
	"github.com/skybi/identity-server/internal/outcome"
	"github.com/skybi/identity-server/internal/paging"
)

// Assembler composes the externally visible representations of a resource kind
type Assembler[T Resource] struct {
	links   *LinkBuilder
	options paging.Options
}

// NewAssembler creates a new response assembler
func NewAssembler[T Resource](links *LinkBuilder, options paging.Options) *Assembler[T] {
	return &Assembler[T]{
		links:   links,
		options: options,
	}
}

// Options returns the paging options the assembler was created with
func (assembler *Assembler[T]) Options() paging.Options {
	return assembler.options
}

// Page wraps a page of entries into a paged response.
// The page size of request is capped to the configured maximum; a missing page size falls back to the default one.
// Every item receives its own 'self' link and the order of entries is kept.
func (assembler *Assembler[T]) Page(entries []T, total int, request paging.Request, route string, fixed Params) (*PagedResponse[T], error) {
	request = assembler.Effective(request)
	meta := paging.Compute(total, request.PageSize, request.Page)

	links, err := assembler.links.CollectionLinks(route, fixed, meta)
	if err != nil {
		return nil, err
	}

	items := make([]*Browsable[T], 0, len(entries))
	for _, entry := range entries {
		self, err := assembler.links.SelfLink(entry)
		if err != nil {
			return nil, err
		}
		items = append(items, &Browsable[T]{Resource: entry, Links: []Link{self}})
	}

	return &PagedResponse[T]{
		Items: items,
		Links: links,
		Total: total,
	}, nil
}

// Effective returns the request as it is actually used for querying
func (assembler *Assembler[T]) Effective(request paging.Request) paging.Request {
	if request.PageSize < 1 {
		request.PageSize = assembler.options.DefaultPageSize
	}
	if request.Page < 1 {
		request.Page = 1
	}
	return request.Clamp(assembler.options.MaxPageSize)
}

// Single wraps a resource together with all of its links
func (assembler *Assembler[T]) Single(resource T) (*Browsable[T], error) {
	links, err := assembler.links.ResourceLinks(resource)
	if err != nil {
		return nil, err
	}
	return &Browsable[T]{Resource: resource, Links: links}, nil
}

// Created wraps a newly created resource together with its 'self' link
func (assembler *Assembler[T]) Created(resource T) (*Browsable[T], error) {
	self, err := assembler.links.SelfLink(resource)
	if err != nil {
		return nil, err
	}
	return &Browsable[T]{Resource: resource, Links: []Link{self}}, nil
}

// Result represents the externally visible result of a command.
// Payload is only ever set for the Success category.
type Result[P any] struct {
	Category outcome.Category
	Payload  *P
}

// CommandResult classifies a command outcome. On success, onSuccess (if set) builds the payload; every other
// category is returned without one. Outcomes outside their enumeration are returned as errors.
func CommandResult[P any](o outcome.Outcome, onSuccess func() (*P, error)) (*Result[P], error) {
	category, err := o.Classify()
	if err != nil {
		return nil, err
	}
	if category != outcome.Success {
		return &Result[P]{Category: category}, nil
	}

	var payload *P
	if onSuccess != nil {
		payload, err = onSuccess()
		if err != nil {
			return nil, err
		}
	}
	return &Result[P]{Category: outcome.Success, Payload: payload}, nil
}
