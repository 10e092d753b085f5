package schema

import "fmt"

var emptyMap = map[string]interface{}{}

var (
	ErrInternal = &Error{
		Type:    "generic.internal",
		Message: "An internal error occurred.",
		Details: emptyMap,
	}
	ErrNotFound = &Error{
		Type:    "generic.notFound",
		Message: "Resource not found.",
		Details: emptyMap,
	}
	ErrMethodNotAllowed = &Error{
		Type:    "generic.methodNotAllowed",
		Message: "Method not allowed.",
		Details: emptyMap,
	}
	ErrConflict = &Error{
		Type:    "generic.conflict",
		Message: "The request conflicts with the current state of the resource.",
		Details: emptyMap,
	}
	ErrUnauthorized = &Error{
		Type:    "access.unauthorized",
		Message: "You are not authorized to modify this resource.",
		Details: emptyMap,
	}
	ErrSearchNoCriteria = &Error{
		Type:    "validation.search.noCriteria",
		Message: "At least one of the search parameters 'name', 'email' or 'username' has to be set.",
		Details: emptyMap,
	}
	ErrSearchInvalidSort = func(field string) *Error {
		return &Error{
			Type:    "validation.search.invalidSort",
			Message: fmt.Sprintf("The field '%s' cannot be used for sorting.", field),
			Details: map[string]interface{}{
				"field": field,
			},
		}
	}
	ErrHeaderInvalid = func(name, value string) *Error {
		return &Error{
			Type:    "validation.header.invalid",
			Message: fmt.Sprintf("The header '%s' ('%s') is not valid.", name, value),
			Details: map[string]interface{}{
				"header": name,
				"value":  value,
			},
		}
	}
	ErrPatchInvalid = func(err string) *Error {
		return &Error{
			Type:    "validation.requestBody.invalidPatch",
			Message: "Request body is not a valid JSON patch document.",
			Details: map[string]interface{}{
				"error": err,
			},
		}
	}
)

// ErrorResponse represents the response structure sent by the API whenever errors occurred
type ErrorResponse struct {
	Status int      `json:"status"`
	Errors []*Error `json:"errors"`
}

// Error represents a single error present in the ErrorResponse
type Error struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details"`
}
