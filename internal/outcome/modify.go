package outcome

// ModifyOutcome enumerates the results of an update command
type ModifyOutcome int

const (
	ModifyDone ModifyOutcome = iota + 1
	ModifyNotFound
	ModifyConflict
	ModifyUnauthorized
)

var _ Outcome = ModifyDone

// Classify maps the update outcome to its result category
func (outcome ModifyOutcome) Classify() (Category, error) {
	switch outcome {
	case ModifyDone:
		return Success, nil
	case ModifyNotFound:
		return NotFound, nil
	case ModifyConflict:
		return Conflict, nil
	case ModifyUnauthorized:
		return Unauthorized, nil
	default:
		return 0, &UnexpectedError{Kind: "modify", Value: int(outcome)}
	}
}

// DeleteOutcome enumerates the results of a delete command
type DeleteOutcome int

const (
	DeleteDone DeleteOutcome = iota + 1
	DeleteNotFound
	DeleteConflict
	DeleteUnauthorized
)

var _ Outcome = DeleteDone

// Classify maps the delete outcome to its result category
func (outcome DeleteOutcome) Classify() (Category, error) {
	switch outcome {
	case DeleteDone:
		return Success, nil
	case DeleteNotFound:
		return NotFound, nil
	case DeleteConflict:
		return Conflict, nil
	case DeleteUnauthorized:
		return Unauthorized, nil
	default:
		return 0, &UnexpectedError{Kind: "delete", Value: int(outcome)}
	}
}
