package commands

import (
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/guard"
)

var ErrMarkOrderReadyCommandIsNotConstructed = errors.New(
	"MarkOrderReadyCommand must be created via NewMarkOrderReadyCommand constructor",
)

// MarkOrderReadyCommand represents a restaurant reporting that an order is
// packed and waiting for a rider. This transition makes the order visible
// to dispatch.
type MarkOrderReadyCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	restaurantID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkOrderReadyCommand creates a command to mark an order ready. The
// restaurant id identifies the acting restaurant and must match the order's.
func NewMarkOrderReadyCommand(orderID, restaurantID kernel.UUID) (MarkOrderReadyCommand, error) {
	cmd := MarkOrderReadyCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRestaurantID(restaurantID),
	); err != nil {
		return MarkOrderReadyCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkOrderReadyCommand) Validate() error {
	return c.guard.Validate(ErrMarkOrderReadyCommandIsNotConstructed)
}

// OrderID returns the order that is ready for pickup.
func (c MarkOrderReadyCommand) OrderID() kernel.UUID { return c.orderID }

// RestaurantID returns the acting restaurant.
func (c MarkOrderReadyCommand) RestaurantID() kernel.UUID { return c.restaurantID }

func (c *MarkOrderReadyCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *MarkOrderReadyCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}
	c.restaurantID = restaurantID
	return nil
}
