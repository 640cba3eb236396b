package commands

import (
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/guard"
)

var ErrStartPreparingCommandIsNotConstructed = errors.New(
	"StartPreparingCommand must be created via NewStartPreparingCommand constructor",
)

// StartPreparingCommand represents a restaurant starting to cook a
// confirmed order.
type StartPreparingCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	restaurantID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartPreparingCommand creates a command to begin preparation. The
// restaurant id identifies the acting restaurant and must match the order's.
func NewStartPreparingCommand(orderID, restaurantID kernel.UUID) (StartPreparingCommand, error) {
	cmd := StartPreparingCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRestaurantID(restaurantID),
	); err != nil {
		return StartPreparingCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c StartPreparingCommand) Validate() error {
	return c.guard.Validate(ErrStartPreparingCommandIsNotConstructed)
}

// OrderID returns the order entering preparation.
func (c StartPreparingCommand) OrderID() kernel.UUID { return c.orderID }

// RestaurantID returns the acting restaurant.
func (c StartPreparingCommand) RestaurantID() kernel.UUID { return c.restaurantID }

func (c *StartPreparingCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *StartPreparingCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}
	c.restaurantID = restaurantID
	return nil
}
