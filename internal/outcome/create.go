package outcome

type createKind int

const (
	createCreated createKind = iota + 1
	createConflict
)

// CreateOutcome represents the result of a create command: either the created resource or a conflict.
// The zero value is not a valid outcome.
type CreateOutcome[T any] struct {
	kind     createKind
	resource T
}

var _ Outcome = CreateOutcome[any]{}

// Created returns the outcome of a successful create command
func Created[T any](resource T) CreateOutcome[T] {
	return CreateOutcome[T]{kind: createCreated, resource: resource}
}

// CreateConflict returns the outcome of a create command rejected because of a conflicting resource
func CreateConflict[T any]() CreateOutcome[T] {
	return CreateOutcome[T]{kind: createConflict}
}

// Resource returns the created resource, if any
func (outcome CreateOutcome[T]) Resource() (T, bool) {
	return outcome.resource, outcome.kind == createCreated
}

// Classify maps the create outcome to its result category
func (outcome CreateOutcome[T]) Classify() (Category, error) {
	switch outcome.kind {
	case createCreated:
		return Success, nil
	case createConflict:
		return Conflict, nil
	default:
		return 0, &UnexpectedError{Kind: "create", Value: int(outcome.kind)}
	}
}
