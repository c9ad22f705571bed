package order

import (
	"fmt"

	"github.com/google/uuid"
)

// InvalidAttributeError reports a constructor argument that violates the
// order invariants (non-positive quantity or price, empty symbol, bad side).
type InvalidAttributeError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidAttributeError) Error() string {
	return fmt.Sprintf("invalid order attribute %s=%q: %s", e.Field, e.Value, e.Reason)
}

// InvalidTransitionError reports a lifecycle move the state machine forbids.
type InvalidTransitionError struct {
	OrderID uuid.UUID
	From    State
	To      State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order %s cannot move from %s to %s", e.OrderID, e.From, e.To)
}
