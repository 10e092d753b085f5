package routes

import (
	"errors"
	"fmt"
	"github.com/skybi/identity-server/internal/hateoas"
	"net/url"
	"strings"
)

var (
	ErrUnknownRoute = errors.New("the route is not registered")
)

// MissingParamError is returned whenever a path parameter of a route was not provided
type MissingParamError struct {
	Param string
}

func (err *MissingParamError) Error() string {
	return fmt.Sprintf("the path parameter '%s' is missing", err.Param)
}

// Table maps route names to chi path patterns and generates absolute URLs for them.
// Routes have to be registered before the table is used concurrently.
type Table struct {
	base   string
	routes map[string]string
}

var _ hateoas.URLGenerator = (*Table)(nil)

// New creates a new empty route table generating URLs below the given base address
func New(base string) *Table {
	return &Table{
		base:   strings.TrimSuffix(base, "/"),
		routes: make(map[string]string),
	}
}

// Register registers a named route and returns its pattern so it can be passed to the router directly
func (table *Table) Register(name, pattern string) string {
	table.routes[name] = pattern
	return pattern
}

// Pattern returns the pattern of a registered route
func (table *Table) Pattern(name string) (string, bool) {
	pattern, ok := table.routes[name]
	return pattern, ok
}

// Link generates the absolute URL of a route.
// Parameters named like a path parameter of the route ('{id}' or '{id:regex}') are substituted into the path,
// all other non-empty parameters are appended as the query string in the given order.
func (table *Table) Link(route string, params hateoas.Params) (string, error) {
	pattern, ok := table.routes[route]
	if !ok {
		return "", ErrUnknownRoute
	}

	used := make(map[string]bool)
	segments := strings.Split(pattern, "/")
	for i, segment := range segments {
		if !strings.HasPrefix(segment, "{") || !strings.HasSuffix(segment, "}") {
			continue
		}
		name, _, _ := strings.Cut(segment[1:len(segment)-1], ":")
		value, ok := params.Get(name)
		if !ok || value == "" {
			return "", &MissingParamError{Param: name}
		}
		segments[i] = url.PathEscape(value)
		used[name] = true
	}

	var query []string
	for _, param := range params {
		if used[param.Name] || param.Value == "" {
			continue
		}
		query = append(query, url.QueryEscape(param.Name)+"="+url.QueryEscape(param.Value))
	}

	href := table.base + strings.Join(segments, "/")
	if len(query) > 0 {
		href += "?" + strings.Join(query, "&")
	}
	return href, nil
}
