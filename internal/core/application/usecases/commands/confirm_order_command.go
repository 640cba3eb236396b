package commands

import (
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/errs"
	"khabarlagbe/internal/pkg/guard"
)

var ErrConfirmOrderCommandIsNotConstructed = errors.New(
	"ConfirmOrderCommand must be created via NewConfirmOrderCommand constructor",
)

// ConfirmOrderCommand represents a restaurant accepting a pending order
// together with its preparation time estimate.
type ConfirmOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	restaurantID kernel.UUID
	prepMinutes  int

	guard guard.ConstructorGuard
}

// NewConfirmOrderCommand creates a command to confirm a pending order. The
// restaurant id identifies the acting restaurant and must match the order's;
// the preparation estimate is mandatory and must be positive.
func NewConfirmOrderCommand(orderID, restaurantID kernel.UUID, prepMinutes int) (ConfirmOrderCommand, error) {
	cmd := ConfirmOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRestaurantID(restaurantID),
		cmd.setPrepMinutes(prepMinutes),
	); err != nil {
		return ConfirmOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmOrderCommandIsNotConstructed)
}

// OrderID returns the order to confirm.
func (c ConfirmOrderCommand) OrderID() kernel.UUID { return c.orderID }

// RestaurantID returns the acting restaurant.
func (c ConfirmOrderCommand) RestaurantID() kernel.UUID { return c.restaurantID }

// PrepMinutes returns the restaurant's preparation estimate in minutes.
func (c ConfirmOrderCommand) PrepMinutes() int { return c.prepMinutes }

func (c *ConfirmOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ConfirmOrderCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}
	c.restaurantID = restaurantID
	return nil
}

func (c *ConfirmOrderCommand) setPrepMinutes(prepMinutes int) error {
	if prepMinutes <= 0 {
		return errs.NewValueIsRequiredError("prepMinutes")
	}
	c.prepMinutes = prepMinutes
	return nil
}
