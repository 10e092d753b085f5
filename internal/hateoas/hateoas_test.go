package hateoas

import (
	"errors"
	"fmt"
	"github.com/skybi/identity-server/internal/outcome"
	"github.com/skybi/identity-server/internal/paging"
	"net/url"
	"strconv"
	"strings"
	"testing"
)

const (
	baseURL     = "http://host/api"
	routeGetAll = "accounts.list"
	routeGetOne = "accounts.one"
	routeSearch = "accounts.search"
)

var errUnknownRoute = errors.New("unknown route")

type fakeURLs struct{}

func (fakeURLs) Link(route string, params Params) (string, error) {
	switch route {
	case routeGetAll, routeGetOne, routeSearch:
	default:
		return "", errUnknownRoute
	}
	query := make([]string, 0, len(params))
	for _, param := range params {
		if param.Value == "" {
			continue
		}
		query = append(query, url.QueryEscape(param.Name)+"="+url.QueryEscape(param.Value))
	}
	return fmt.Sprintf("%s/%s/?%s", baseURL, route, strings.Join(query, "&")), nil
}

type testResource struct {
	id     string
	tenant string
}

func (res *testResource) ResourceID() string {
	return res.id
}

func (res *testResource) TenantID() (string, bool) {
	return res.tenant, res.tenant != ""
}

func newAssembler() *Assembler[*testResource] {
	return NewAssembler[*testResource](NewLinkBuilder(fakeURLs{}, routeGetOne), paging.DefaultOptions())
}

func generate(n int) []*testResource {
	resources := make([]*testResource, 0, n)
	for i := 0; i < n; i++ {
		resources = append(resources, &testResource{id: strconv.Itoa(i)})
	}
	return resources
}

func pageHref(route string, page, pageSize int) string {
	return fmt.Sprintf("%s/%s/?page=%d&pageSize=%d", baseURL, route, page, pageSize)
}

func TestPageOfEmptyCollection(t *testing.T) {
	assembler := newAssembler()
	for _, pageSize := range []int{1, 10, 500} {
		for _, page := range []int{1, 10, 500} {
			response, err := assembler.Page(nil, 0, paging.Request{Page: page, PageSize: pageSize}, routeGetAll, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			effective := pageSize
			if effective > 200 {
				effective = 200
			}
			want := pageHref(routeGetAll, 1, effective)

			links := response.Links
			if links.First == nil || links.First.Relation != RelationFirst || links.First.Href != want {
				t.Fatalf("pageSize=%d page=%d: unexpected first link %+v", pageSize, page, links.First)
			}
			if links.Last == nil || links.Last.Relation != RelationLast || links.Last.Href != want {
				t.Fatalf("pageSize=%d page=%d: unexpected last link %+v", pageSize, page, links.Last)
			}
			if links.Previous != nil || links.Next != nil {
				t.Fatalf("pageSize=%d page=%d: unexpected previous/next links %+v", pageSize, page, links)
			}
			if response.Total != 0 || response.Items == nil || len(response.Items) != 0 {
				t.Fatalf("pageSize=%d page=%d: unexpected items/total", pageSize, page)
			}
		}
	}
}

func TestPageOfLargeCollection(t *testing.T) {
	cases := []struct {
		pageSize, lastPage int
	}{
		{30, 14},
		{10, 40},
	}
	assembler := newAssembler()
	for _, c := range cases {
		entries := generate(c.pageSize)
		response, err := assembler.Page(entries, 400, paging.Request{Page: 1, PageSize: c.pageSize}, routeGetAll, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		links := response.Links
		if links.First.Href != pageHref(routeGetAll, 1, c.pageSize) {
			t.Errorf("pageSize=%d: unexpected first link %q", c.pageSize, links.First.Href)
		}
		if links.Previous != nil {
			t.Errorf("pageSize=%d: unexpected previous link", c.pageSize)
		}
		if links.Next == nil || links.Next.Relation != RelationNext || links.Next.Href != pageHref(routeGetAll, 2, c.pageSize) {
			t.Errorf("pageSize=%d: unexpected next link %+v", c.pageSize, links.Next)
		}
		if links.Last.Href != pageHref(routeGetAll, c.lastPage, c.pageSize) {
			t.Errorf("pageSize=%d: unexpected last link %q", c.pageSize, links.Last.Href)
		}
		if response.Total != 400 {
			t.Errorf("pageSize=%d: unexpected total %d", c.pageSize, response.Total)
		}
	}
}

func TestPageDefaultsMissingPageSize(t *testing.T) {
	response, err := newAssembler().Page(nil, 400, paging.Request{}, routeGetAll, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Links.Last.Href != pageHref(routeGetAll, 14, 30) {
		t.Fatalf("unexpected last link %q", response.Links.Last.Href)
	}
}

func TestPageMiddleHasBothNeighbours(t *testing.T) {
	response, err := newAssembler().Page(generate(10), 400, paging.Request{Page: 5, PageSize: 10}, routeGetAll, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Links.Previous == nil || response.Links.Previous.Href != pageHref(routeGetAll, 4, 10) {
		t.Fatalf("unexpected previous link %+v", response.Links.Previous)
	}
	if response.Links.Next == nil || response.Links.Next.Href != pageHref(routeGetAll, 6, 10) {
		t.Fatalf("unexpected next link %+v", response.Links.Next)
	}
}

func TestPageLinksRoundTrip(t *testing.T) {
	for _, total := range []int{0, 1, 29, 30, 31, 400} {
		response, err := newAssembler().Page(nil, total, paging.Request{Page: 1, PageSize: 30}, routeGetAll, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first := queryOf(t, response.Links.First.Href)
		last := queryOf(t, response.Links.Last.Href)
		if first.Get(ParamPage) != "1" || first.Get(ParamPageSize) != "30" {
			t.Errorf("total=%d: unexpected first query %v", total, first)
		}
		if last.Get(ParamPage) != strconv.Itoa(paging.PageCount(total, 30)) || last.Get(ParamPageSize) != "30" {
			t.Errorf("total=%d: unexpected last query %v", total, last)
		}
	}
}

func TestPagePreservesFixedParams(t *testing.T) {
	fixed := Params{
		{Name: "name", Value: "*Wayne"},
		{Name: "email", Value: ""},
		{Name: "sort", Value: "-UpdatedDate"},
	}
	response, err := newAssembler().Page(generate(10), 100, paging.Request{Page: 2, PageSize: 10}, routeSearch, fixed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	links := response.Links
	for _, link := range []*Link{links.First, links.Previous, links.Next, links.Last} {
		if link == nil {
			t.Fatalf("expected all four links to be present")
		}
		query := queryOf(t, link.Href)
		if query.Get("name") != "*Wayne" || query.Get("sort") != "-UpdatedDate" {
			t.Errorf("%s link dropped a filter: %s", link.Relation, link.Href)
		}
	}
	if len(fixed) != 3 {
		t.Fatalf("the fixed parameters must not be modified")
	}
}

func TestPageItemsKeepOrderAndGetSelfLinks(t *testing.T) {
	entries := generate(5)
	response, err := newAssembler().Page(entries, 5, paging.Request{Page: 1, PageSize: 10}, routeGetAll, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(response.Items) != len(entries) {
		t.Fatalf("expected %d items, got %d", len(entries), len(response.Items))
	}
	for i, item := range response.Items {
		if item.Resource != entries[i] {
			t.Fatalf("item %d: order not preserved", i)
		}
		if len(item.Links) != 1 || item.Links[0].Relation != RelationSelf || item.Links[0].Method != "GET" {
			t.Fatalf("item %d: unexpected links %+v", i, item.Links)
		}
		want := fmt.Sprintf("%s/%s/?id=%d", baseURL, routeGetOne, i)
		if item.Links[0].Href != want {
			t.Fatalf("item %d: got href %q, want %q", i, item.Links[0].Href, want)
		}
	}
}

func TestPageUnknownRouteIsFatal(t *testing.T) {
	_, err := newAssembler().Page(nil, 0, paging.Request{Page: 1, PageSize: 10}, "accounts.unknown", nil)
	var linkErr *LinkError
	if !errors.As(err, &linkErr) || !errors.Is(err, errUnknownRoute) {
		t.Fatalf("expected a link error, got %v", err)
	}
}

func TestSingleLinks(t *testing.T) {
	assembler := newAssembler()

	browsable, err := assembler.Single(&testResource{id: "robin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertResourceLinks(t, browsable.Links, "robin", "")

	browsable, err = assembler.Single(&testResource{id: "robin", tenant: "batman"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertResourceLinks(t, browsable.Links, "robin", "batman")
}

func assertResourceLinks(t *testing.T, links []Link, id, tenant string) {
	t.Helper()

	counts := map[string]int{}
	byRelation := map[string]Link{}
	for _, link := range links {
		if strings.TrimSpace(link.Relation) == "" || strings.TrimSpace(link.Href) == "" {
			t.Fatalf("links must have a relation and a href: %+v", link)
		}
		counts[link.Relation]++
		byRelation[link.Relation] = link
	}
	if counts[RelationSelf] != 1 || counts[RelationDelete] != 1 {
		t.Fatalf("expected exactly one self and one delete link, got %+v", links)
	}

	href := fmt.Sprintf("%s/%s/?id=%s", baseURL, routeGetOne, id)
	if self := byRelation[RelationSelf]; self.Method != "GET" || self.Href != href {
		t.Fatalf("unexpected self link %+v", self)
	}
	if del := byRelation[RelationDelete]; del.Method != "DELETE" || del.Href != href {
		t.Fatalf("unexpected delete link %+v", del)
	}

	tenantLink, ok := byRelation[RelationTenant]
	if tenant == "" {
		if ok {
			t.Fatalf("unexpected tenant link %+v", tenantLink)
		}
		return
	}
	if counts[RelationTenant] != 1 || tenantLink.Method != "GET" || tenantLink.Href != fmt.Sprintf("%s/%s/?id=%s", baseURL, routeGetOne, tenant) {
		t.Fatalf("unexpected tenant link %+v", tenantLink)
	}
}

func TestCommandResultDelete(t *testing.T) {
	cases := map[outcome.DeleteOutcome]outcome.Category{
		outcome.DeleteDone:         outcome.Success,
		outcome.DeleteNotFound:     outcome.NotFound,
		outcome.DeleteConflict:     outcome.Conflict,
		outcome.DeleteUnauthorized: outcome.Unauthorized,
	}
	for value, want := range cases {
		result, err := CommandResult[struct{}](value, nil)
		if err != nil {
			t.Fatalf("%d: unexpected error: %v", value, err)
		}
		if result.Category != want || result.Payload != nil {
			t.Fatalf("%d: unexpected result %+v", value, result)
		}
	}
}

func TestCommandResultCreate(t *testing.T) {
	assembler := newAssembler()
	created := outcome.Created(&testResource{id: "batman"})

	result, err := CommandResult(created, func() (*Browsable[*testResource], error) {
		resource, _ := created.Resource()
		return assembler.Created(resource)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Category != outcome.Success || result.Payload == nil {
		t.Fatalf("unexpected result %+v", result)
	}
	links := result.Payload.Links
	if len(links) != 1 || links[0].Relation != RelationSelf || links[0].Href != fmt.Sprintf("%s/%s/?id=batman", baseURL, routeGetOne) {
		t.Fatalf("unexpected links %+v", links)
	}

	called := false
	result, err = CommandResult(outcome.CreateConflict[*testResource](), func() (*Browsable[*testResource], error) {
		called = true
		return nil, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called || result.Category != outcome.Conflict || result.Payload != nil {
		t.Fatalf("conflict must not build a payload: %+v", result)
	}
}

func TestCommandResultUnexpectedOutcome(t *testing.T) {
	_, err := CommandResult[struct{}](outcome.ModifyOutcome(99), nil)
	var unexpected *outcome.UnexpectedError
	if !errors.As(err, &unexpected) {
		t.Fatalf("expected an unexpected outcome error, got %v", err)
	}
}

func TestParamsWithDoesNotModifyReceiver(t *testing.T) {
	base := make(Params, 1, 4)
	base[0] = Param{Name: "name", Value: "x"}
	first := base.With(NewParam(ParamPage, 1))
	second := base.With(NewParam(ParamPage, 2))
	if v, _ := first.Get(ParamPage); v != "1" {
		t.Fatalf("first parameter set was overwritten: %v", first)
	}
	if v, _ := second.Get(ParamPage); v != "2" {
		t.Fatalf("unexpected second parameter set: %v", second)
	}
}

func queryOf(t *testing.T, href string) url.Values {
	t.Helper()
	parsed, err := url.Parse(href)
	if err != nil {
		t.Fatalf("invalid href %q: %v", href, err)
	}
	return parsed.Query()
}
