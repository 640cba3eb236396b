package commands

import (
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/errs"
	"khabarlagbe/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand represents a request to cancel an order before pickup.
// Customers may cancel their own orders while the transition table allows
// it; support staff cancel on behalf of the platform as the system actor.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID
	actor   kernel.Role
	note    string

	guard guard.ConstructorGuard
}

// NewCancelOrderCommand creates a command to cancel an order. Only the
// customer and system roles may request cancellation; a customer must
// identify themselves with actorID and may only cancel their own orders,
// while the system actor carries no identity. The aggregate's transition
// table has the final say on whether the current status allows it.
func NewCancelOrderCommand(orderID, actorID kernel.UUID, actor kernel.Role, note string) (CancelOrderCommand, error) {
	cmd := CancelOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
	); err != nil {
		return CancelOrderCommand{}, err
	}
	if actor == kernel.RoleCustomer {
		if err := actorID.Validate(); err != nil {
			return CancelOrderCommand{}, err
		}
		cmd.actorID = actorID
	}
	cmd.note = note

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

// OrderID returns the order to cancel.
func (c CancelOrderCommand) OrderID() kernel.UUID { return c.orderID }

// ActorID returns the cancelling customer's identity. It is the zero UUID
// when the system actor cancels.
func (c CancelOrderCommand) ActorID() kernel.UUID { return c.actorID }

// Actor returns who requested the cancellation.
func (c CancelOrderCommand) Actor() kernel.Role { return c.actor }

// Note returns the optional cancellation note.
func (c CancelOrderCommand) Note() string { return c.note }

func (c *CancelOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CancelOrderCommand) setActor(actor kernel.Role) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor != kernel.RoleCustomer && actor != kernel.RoleSystem {
		return errs.NewValueIsInvalidError("actor")
	}
	c.actor = actor
	return nil
}
