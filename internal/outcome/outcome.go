package outcome

import "fmt"

// Category represents the externally visible result category of a command
type Category int

const (
	Success Category = iota + 1
	NotFound
	Conflict
	Unauthorized
)

func (category Category) String() string {
	switch category {
	case Success:
		return "success"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Unauthorized:
		return "unauthorized"
	default:
		return fmt.Sprintf("category(%d)", int(category))
	}
}

// Outcome is implemented by the outcome enumeration of every command kind
type Outcome interface {
	// Classify maps the outcome to its result category.
	// Values outside the enumeration yield an *UnexpectedError.
	Classify() (Category, error)
}

// UnexpectedError is returned whenever an outcome is not part of its command kind's enumeration.
// It indicates a broken contract between the command executor and its caller and is never recoverable.
type UnexpectedError struct {
	Kind  string
	Value int
}

func (err *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected %s command outcome <%d>", err.Kind, err.Value)
}
