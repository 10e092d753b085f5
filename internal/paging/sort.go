package paging

import (
	"fmt"
	"strings"
)

// Direction represents the direction of a sort field
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// DefaultSortField is the field results are ordered by when the client does not ask for anything else
const DefaultSortField = "UpdatedDate"

// SortField represents a single field of a sort specification
type SortField struct {
	Field     string
	Direction Direction
}

// Sort represents an ordered sort specification; earlier fields take precedence
type Sort []SortField

// SortError is returned by ParseSort whenever a field is not sortable
type SortError struct {
	Field string
}

func (err *SortError) Error() string {
	return fmt.Sprintf("the field '%s' cannot be used for sorting", err.Field)
}

// DefaultSort returns the fallback sort specification (most recently updated first)
func DefaultSort() Sort {
	return Sort{{Field: DefaultSortField, Direction: Descending}}
}

// ParseSort parses a comma separated sort expression like '-UpdatedDate,+Name' or 'Name'.
// A leading '-' sorts descending, a leading '+' or no sign ascending.
// Field names are matched case-insensitively against allowed and replaced by their canonical spelling;
// if allowed is empty, every field is accepted as is.
// An empty expression yields DefaultSort.
func ParseSort(raw string, allowed ...string) (Sort, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultSort(), nil
	}

	parts := strings.Split(raw, ",")
	sort := make(Sort, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		direction := Ascending
		if strings.HasPrefix(part, "-") {
			direction = Descending
			part = part[1:]
		} else if strings.HasPrefix(part, "+") {
			part = part[1:]
		}
		if part == "" {
			return nil, &SortError{Field: part}
		}

		field, ok := canonicalField(part, allowed)
		if !ok {
			return nil, &SortError{Field: part}
		}
		sort = append(sort, SortField{Field: field, Direction: direction})
	}
	return sort, nil
}

// String renders the sort specification in the format accepted by ParseSort
func (sort Sort) String() string {
	parts := make([]string, 0, len(sort))
	for _, field := range sort {
		if field.Direction == Descending {
			parts = append(parts, "-"+field.Field)
		} else {
			parts = append(parts, "+"+field.Field)
		}
	}
	return strings.Join(parts, ",")
}

func canonicalField(name string, allowed []string) (string, bool) {
	if len(allowed) == 0 {
		return name, true
	}
	for _, candidate := range allowed {
		if strings.EqualFold(candidate, name) {
			return candidate, true
		}
	}
	return "", false
}
