package filter

import (
	"strings"
)

// Logic represents the boolean operator combining the children of a Composite
type Logic string

const (
	And Logic = "and"
	Or  Logic = "or"
)

// Composite combines several filters using a boolean operator.
// The order of its children is kept as given.
type Composite struct {
	Logic   Logic
	Filters []Filter
}

var _ Filter = (*Composite)(nil)

// NewComposite creates a new composite filter
func NewComposite(logic Logic, filters ...Filter) *Composite {
	children := make([]Filter, len(filters))
	copy(children, filters)
	return &Composite{
		Logic:   logic,
		Filters: children,
	}
}

// Matches reports whether the record satisfies all (And) or any (Or) children
func (composite *Composite) Matches(record Record) bool {
	if composite.Logic == Or {
		for _, child := range composite.Filters {
			if child.Matches(record) {
				return true
			}
		}
		return false
	}
	for _, child := range composite.Filters {
		if !child.Matches(record) {
			return false
		}
	}
	return true
}

func (composite *Composite) String() string {
	parts := make([]string, 0, len(composite.Filters))
	for _, child := range composite.Filters {
		parts = append(parts, child.String())
	}
	return "(" + strings.Join(parts, " "+strings.ToUpper(string(composite.Logic))+" ") + ")"
}

// Compose builds a single filter out of the given criteria.
// A single criterion is returned as is; several are combined into an And composite keeping their order.
// Composing nothing is rejected with ErrNoCriteria as there is no discriminating criterion to search with.
func Compose(criteria ...*Criterion) (Filter, error) {
	switch len(criteria) {
	case 0:
		return nil, ErrNoCriteria
	case 1:
		return criteria[0], nil
	}
	children := make([]Filter, 0, len(criteria))
	for _, criterion := range criteria {
		children = append(children, criterion)
	}
	return &Composite{Logic: And, Filters: children}, nil
}
