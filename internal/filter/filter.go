package filter

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoCriteria        = errors.New("at least one filter criterion is required")
	ErrInvalidExpression = errors.New("filter expressions have to look like 'field=pattern'")
)

// Wildcard is the marker turning an equality criterion into a prefix, suffix or substring match
const Wildcard = "*"

// Record is implemented by everything a Filter can be evaluated against
type Record interface {
	// FieldValue returns the string representation of a field and whether the record has that field at all
	FieldValue(field string) (string, bool)
}

// Filter represents a (possibly composite) predicate over records
type Filter interface {
	// Matches reports whether the record satisfies the filter
	Matches(record Record) bool

	fmt.Stringer
}

// Operator represents the comparison a Criterion performs
type Operator int

const (
	Equals Operator = iota
	StartsWith
	EndsWith
	Contains
)

func (operator Operator) String() string {
	switch operator {
	case Equals:
		return "eq"
	case StartsWith:
		return "startswith"
	case EndsWith:
		return "endswith"
	case Contains:
		return "contains"
	default:
		return fmt.Sprintf("operator(%d)", int(operator))
	}
}

// Criterion represents a single field criterion.
// Value is the pattern stripped from its wildcard markers.
type Criterion struct {
	Field    string
	Pattern  string
	Value    string
	Operator Operator
}

var _ Filter = (*Criterion)(nil)

// NewCriterion creates a criterion and infers its operator from the position of the wildcard markers in pattern:
// 'Bruce*' matches prefixes, '*Wayne' suffixes, '*ruce*' substrings and everything else is an equality check.
func NewCriterion(field, pattern string) *Criterion {
	leading := strings.HasPrefix(pattern, Wildcard)
	trailing := strings.HasSuffix(pattern, Wildcard)

	value := strings.TrimSuffix(strings.TrimPrefix(pattern, Wildcard), Wildcard)
	operator := Equals
	switch {
	case leading && trailing:
		operator = Contains
	case leading:
		operator = EndsWith
	case trailing:
		operator = StartsWith
	}

	return &Criterion{
		Field:    field,
		Pattern:  pattern,
		Value:    value,
		Operator: operator,
	}
}

// Parse parses a 'field=pattern' expression into a criterion
func Parse(expression string) (*Criterion, error) {
	field, pattern, ok := strings.Cut(expression, "=")
	field = strings.TrimSpace(field)
	if !ok || field == "" {
		return nil, ErrInvalidExpression
	}
	return NewCriterion(field, pattern), nil
}

// MatchString applies the criterion's operator to a raw field value
func (criterion *Criterion) MatchString(value string) bool {
	switch criterion.Operator {
	case StartsWith:
		return strings.HasPrefix(value, criterion.Value)
	case EndsWith:
		return strings.HasSuffix(value, criterion.Value)
	case Contains:
		return strings.Contains(value, criterion.Value)
	default:
		return value == criterion.Value
	}
}

// Matches reports whether the record has the criterion's field and its value satisfies the criterion
func (criterion *Criterion) Matches(record Record) bool {
	value, ok := record.FieldValue(criterion.Field)
	if !ok {
		return false
	}
	return criterion.MatchString(value)
}

func (criterion *Criterion) String() string {
	return criterion.Field + "=" + criterion.Pattern
}
