package hateoas

import (
	"fmt"
	"net/http"
)

// Link relations used by this package
const (
	RelationSelf     = "self"
	RelationDelete   = "delete"
	RelationTenant   = "tenant"
	RelationFirst    = "first"
	RelationPrevious = "previous"
	RelationNext     = "next"
	RelationLast     = "last"
)

// Names of the route parameters set by this package
const (
	ParamID       = "id"
	ParamPage     = "page"
	ParamPageSize = "pageSize"
)

// Link represents a hyperlink to a related resource or action
type Link struct {
	Relation string `json:"relation"`
	Method   string `json:"method"`
	Href     string `json:"href"`
}

// LinkSet holds the navigation links of a paged collection.
// First and Last are always set, Previous and Next only if such a page exists.
type LinkSet struct {
	First    *Link `json:"first"`
	Previous *Link `json:"previous"`
	Next     *Link `json:"next"`
	Last     *Link `json:"last"`
}

// Browsable wraps a resource together with its links
type Browsable[T any] struct {
	Resource T      `json:"resource"`
	Links    []Link `json:"links"`
}

// PagedResponse represents a single page of browsable resources along with its navigation links
type PagedResponse[T any] struct {
	Items []*Browsable[T] `json:"items"`
	Links LinkSet         `json:"links"`
	Total int             `json:"total"`
}

// Resource is implemented by every resource links can be built for
type Resource interface {
	// ResourceID returns the identifier used to address the resource
	ResourceID() string
}

// Tenanted is implemented by resources that may belong to a parent (tenant) resource of the same kind
type Tenanted interface {
	// TenantID returns the identifier of the tenant and whether the resource has one
	TenantID() (string, bool)
}

// Param represents a single named route parameter
type Param struct {
	Name  string
	Value string
}

// NewParam creates a route parameter out of an arbitrary value
func NewParam(name string, value any) Param {
	return Param{Name: name, Value: fmt.Sprint(value)}
}

// Params represents an ordered set of route parameters
type Params []Param

// With returns a new parameter set consisting of the current parameters followed by the given ones.
// The receiver is never modified.
func (params Params) With(more ...Param) Params {
	merged := make(Params, 0, len(params)+len(more))
	merged = append(merged, params...)
	return append(merged, more...)
}

// Get returns the value of the first parameter with the given name
func (params Params) Get(name string) (string, bool) {
	for _, param := range params {
		if param.Name == name {
			return param.Value, true
		}
	}
	return "", false
}

// URLGenerator turns a route name and its parameters into an absolute URL.
// Implementations have to be deterministic and safe for concurrent use.
type URLGenerator interface {
	Link(route string, params Params) (string, error)
}

// LinkError is returned whenever a link could not be generated.
// It indicates a configuration defect (i.e. an unknown route) rather than a problem with a single request.
type LinkError struct {
	Route string
	Err   error
}

func (err *LinkError) Error() string {
	return fmt.Sprintf("could not generate a link for route '%s': %s", err.Route, err.Err.Error())
}

func (err *LinkError) Unwrap() error {
	return err.Err
}

func get(relation, href string) Link {
	return Link{Relation: relation, Method: http.MethodGet, Href: href}
}
