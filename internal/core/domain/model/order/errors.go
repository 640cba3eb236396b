package order

import (
	"errors"
	"fmt"

	"khabarlagbe/internal/core/domain/model/kernel"
)

// ErrInvalidTransition classifies every rejected state-machine request.
// It is always surfaced to the requesting actor and never retried
// automatically; retrying cannot make an illegal transition legal.
var ErrInvalidTransition = errors.New("invalid transition")

// InvalidTransitionError reports an illegal state/actor/target combination.
// It carries the full context so the rejected actor's app can render a
// precise message instead of a generic failure.
type InvalidTransitionError struct {
	From  Status
	To    Status
	Actor kernel.Role
}

// NewInvalidTransitionError creates an InvalidTransitionError for the given
// current status, attempted target, and requesting actor role.
func NewInvalidTransitionError(from, to Status, actor kernel.Role) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Actor: actor}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s may not move order from %s to %s",
		ErrInvalidTransition, e.Actor, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ErrVersionGap is returned by Projection.Apply when an event's version is
// more than one ahead of the local view. The client cannot apply it without
// losing intermediate timeline entries and must reconcile against the
// authoritative snapshot instead.
var ErrVersionGap = errors.New("event version gap, reconciliation required")
