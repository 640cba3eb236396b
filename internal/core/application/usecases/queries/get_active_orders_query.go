package queries

import (
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/errs"
	"khabarlagbe/internal/pkg/guard"
)

var ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
	"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
)

// GetActiveOrdersQuery retrieves every non-terminal order visible to one
// actor: a customer's open orders, a restaurant's incoming queue, or a
// rider's current assignments. Connecting clients use it to know which
// order rooms to join.
type GetActiveOrdersQuery struct {
	actor   kernel.Role
	actorID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery creates a query for an actor's active orders.
func NewGetActiveOrdersQuery(actor kernel.Role, actorID kernel.UUID) (GetActiveOrdersQuery, error) {
	if err := actor.Validate(); err != nil {
		return GetActiveOrdersQuery{}, err
	}
	if actor == kernel.RoleSystem {
		return GetActiveOrdersQuery{}, errs.NewValueIsInvalidError("actor")
	}
	if err := actorID.Validate(); err != nil {
		return GetActiveOrdersQuery{}, err
	}
	return GetActiveOrdersQuery{
		actor:   actor,
		actorID: actorID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// Actor returns the querying actor's role.
func (q GetActiveOrdersQuery) Actor() kernel.Role { return q.actor }

// ActorID returns the querying actor's identifier.
func (q GetActiveOrdersQuery) ActorID() kernel.UUID { return q.actorID }
