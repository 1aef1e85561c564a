package queue

import "errors"

var (
	ErrItemNotFound = errors.New("queue item not found")

	// ErrConflict is returned when a conditional write loses a concurrency
	// race: the guard passed on a stale snapshot but the store rejected the
	// update. Callers should refresh the item and retry, this is not a
	// permission failure.
	ErrConflict = errors.New("queue item changed concurrently")
)

// PolicyError is a state-machine guard rejection carrying the human-readable
// reason shown to the operator.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string {
	return e.Reason
}
