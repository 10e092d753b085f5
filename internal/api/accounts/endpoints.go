package accounts

import (
	"errors"
	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/skybi/identity-server/internal/account"
	"github.com/skybi/identity-server/internal/api/schema"
	"github.com/skybi/identity-server/internal/api/validation"
	"github.com/skybi/identity-server/internal/filter"
	"github.com/skybi/identity-server/internal/hateoas"
	"github.com/skybi/identity-server/internal/option"
	"github.com/skybi/identity-server/internal/outcome"
	"github.com/skybi/identity-server/internal/paging"
	"io"
	"math"
	"net/http"
)

// Names of the search query parameters
const (
	paramName     = "name"
	paramEmail    = "email"
	paramUsername = "username"
	paramSort     = "sort"
)

// EndpointGetAccounts handles the 'GET /v1/accounts?page={number?:1}&pageSize={number?}' endpoint
func (service *Service) EndpointGetAccounts(writer http.ResponseWriter, request *http.Request) {
	pageRequest, validationErrs := service.pageRequest(request)
	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	page, err := service.queries.Page(request.Context(), pageRequest)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}

	response, err := service.assembler.Page(page.Entries, page.Total, pageRequest, RouteList, nil)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	service.writer.WriteJSON(writer, response)
}

// EndpointSearchAccounts handles the
// 'GET /v1/accounts/search?name={string?}&email={string?}&username={string?}&sort={string?}&page={number?:1}&pageSize={number?}'
// endpoint
func (service *Service) EndpointSearchAccounts(writer http.ResponseWriter, request *http.Request) {
	pageRequest, validationErrs := service.pageRequest(request)

	fields := make(map[string]string, 4)
	for _, key := range []string{paramName, paramEmail, paramUsername, paramSort} {
		value, validationErr := validation.QueryString(request, key, false)
		if validationErr != nil {
			validationErrs = append(validationErrs, validationErr)
		}
		fields[key] = value
	}

	sort, err := paging.ParseSort(fields[paramSort], account.SortableFields...)
	if err != nil {
		var sortErr *paging.SortError
		if !errors.As(err, &sortErr) {
			service.writer.WriteInternalError(writer, err)
			return
		}
		validationErrs = append(validationErrs, schema.ErrSearchInvalidSort(sortErr.Field))
	}

	composed, err := filter.Compose(account.Criteria(fields[paramName], fields[paramEmail], fields[paramUsername])...)
	if err != nil {
		if !errors.Is(err, filter.ErrNoCriteria) {
			service.writer.WriteInternalError(writer, err)
			return
		}
		validationErrs = append(validationErrs, schema.ErrSearchNoCriteria)
	}

	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	page, err := service.queries.Search(request.Context(), &account.Search{
		Request: pageRequest,
		Filter:  composed,
		Sort:    sort,
	})
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}

	// Every search parameter the client sent is carried over into the navigation links
	fixed := hateoas.Params{
		{Name: paramName, Value: fields[paramName]},
		{Name: paramEmail, Value: fields[paramEmail]},
		{Name: paramUsername, Value: fields[paramUsername]},
		{Name: paramSort, Value: fields[paramSort]},
	}
	response, err := service.assembler.Page(page.Entries, page.Total, pageRequest, RouteSearch, fixed)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	service.writer.WriteJSON(writer, response)
}

// EndpointGetAccount handles the 'GET /v1/accounts/{id}' endpoint
func (service *Service) EndpointGetAccount(writer http.ResponseWriter, request *http.Request) {
	id, ok := service.accountID(writer, request)
	if !ok {
		return
	}

	found, err := service.queries.One(request.Context(), id)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}

	err = option.Match(found, func(obj *account.Account) error {
		browsable, err := service.assembler.Single(obj)
		if err != nil {
			return err
		}
		service.writer.WriteJSON(writer, browsable)
		return nil
	}, func() error {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
		return nil
	})
	if err != nil {
		service.writer.WriteInternalError(writer, err)
	}
}

type endpointCreateAccountRequestPayload struct {
	Username *string    `json:"username" required:"true" trim:"true" min:"1" max:"64"`
	Name     *string    `json:"name" trim:"true" max:"128"`
	Email    *string    `json:"email" required:"true" trim:"true" min:"3" max:"254"`
	Password *string    `json:"password" required:"true" min:"8" max:"72"`
	Tenant   *uuid.UUID `json:"tenant_id"`
}

// EndpointCreateAccount handles the 'POST /v1/accounts' endpoint
func (service *Service) EndpointCreateAccount(writer http.ResponseWriter, request *http.Request) {
	// Unmarshal and validate the request body
	payload, validationErrs, err := validation.UnmarshalBody[endpointCreateAccountRequestPayload](request)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	input := &account.NewAccount{
		Username: *payload.Username,
		Email:    *payload.Email,
		Password: *payload.Password,
		Tenant:   payload.Tenant,
	}
	if payload.Name != nil {
		input.Name = *payload.Name
	}

	created, err := service.commands.Create(request.Context(), input)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}

	result, err := hateoas.CommandResult(created, func() (*hateoas.Browsable[*account.Account], error) {
		obj, _ := created.Resource()
		return service.assembler.Created(obj)
	})
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if result.Category != outcome.Success {
		service.writeFailure(writer, result.Category)
		return
	}

	for _, link := range result.Payload.Links {
		if link.Relation == hateoas.RelationSelf {
			writer.Header().Set("Location", link.Href)
		}
	}
	service.writer.WriteJSONCode(writer, http.StatusCreated, result.Payload)
}

// EndpointPatchAccount handles the 'PATCH /v1/accounts/{id}' endpoint.
// The request body is a JSON patch document (RFC 6902) applied to the account representation.
func (service *Service) EndpointPatchAccount(writer http.ResponseWriter, request *http.Request) {
	id, ok := service.accountID(writer, request)
	if !ok {
		return
	}

	body, err := io.ReadAll(request.Body)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	document, err := jsonpatch.DecodePatch(body)
	if err != nil {
		service.writer.WriteErrors(writer, http.StatusBadRequest, schema.ErrPatchInvalid(err.Error()))
		return
	}

	patched, err := service.commands.Patch(request.Context(), &account.PatchCommand{
		ID:       id,
		Actor:    actorOf(request),
		Document: document,
	})
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	service.writeCommandResult(writer, patched)
}

// EndpointDeleteAccount handles the 'DELETE /v1/accounts/{id}' endpoint
func (service *Service) EndpointDeleteAccount(writer http.ResponseWriter, request *http.Request) {
	id, ok := service.accountID(writer, request)
	if !ok {
		return
	}

	deleted, err := service.commands.Delete(request.Context(), &account.DeleteCommand{
		ID:    id,
		Actor: actorOf(request),
	})
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	service.writeCommandResult(writer, deleted)
}

// pageRequest extracts the requested page out of the query parameters.
// Page sizes above the configured maximum are not rejected but capped later on.
func (service *Service) pageRequest(request *http.Request) (paging.Request, []*schema.Error) {
	var validationErrs []*schema.Error

	page, validationErr := validation.QueryNumber(request, hateoas.ParamPage, false, 1, 1, math.MaxInt32)
	if validationErr != nil {
		validationErrs = append(validationErrs, validationErr)
	}

	defaultPageSize := int64(service.assembler.Options().DefaultPageSize)
	pageSize, validationErr := validation.QueryNumber(request, hateoas.ParamPageSize, false, defaultPageSize, 1, math.MaxInt32)
	if validationErr != nil {
		validationErrs = append(validationErrs, validationErr)
	}

	return service.assembler.Effective(paging.Request{Page: int(page), PageSize: int(pageSize)}), validationErrs
}

// accountID parses the account ID path parameter; malformed IDs cannot address any account and result in 404
func (service *Service) accountID(writer http.ResponseWriter, request *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(request, "id"))
	if err != nil {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// writeCommandResult answers a command without a response body
func (service *Service) writeCommandResult(writer http.ResponseWriter, o outcome.Outcome) {
	result, err := hateoas.CommandResult[struct{}](o, nil)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if result.Category == outcome.Success {
		writer.WriteHeader(http.StatusNoContent)
		return
	}
	service.writeFailure(writer, result.Category)
}

// writeFailure answers a command that did not succeed
func (service *Service) writeFailure(writer http.ResponseWriter, category outcome.Category) {
	switch category {
	case outcome.NotFound:
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
	case outcome.Conflict:
		service.writer.WriteErrors(writer, http.StatusConflict, schema.ErrConflict)
	case outcome.Unauthorized:
		service.writer.WriteErrors(writer, http.StatusUnauthorized, schema.ErrUnauthorized)
	default:
		service.writer.WriteInternalError(writer, &outcome.UnexpectedError{Kind: "Category", Value: int(category)})
	}
}
