package commands

import (
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"
	"khabarlagbe/internal/pkg/guard"
)

var ErrRejectOrderCommandIsNotConstructed = errors.New(
	"RejectOrderCommand must be created via NewRejectOrderCommand constructor",
)

// RejectOrderCommand represents a restaurant declining a pending order with
// a mandatory free-text reason.
type RejectOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	restaurantID kernel.UUID
	reason       string

	guard guard.ConstructorGuard
}

// NewRejectOrderCommand creates a command to reject a pending order. The
// restaurant id identifies the acting restaurant and must match the order's;
// the reason must meet the minimum length the aggregate enforces.
func NewRejectOrderCommand(orderID, restaurantID kernel.UUID, reason string) (RejectOrderCommand, error) {
	cmd := RejectOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRestaurantID(restaurantID),
		cmd.setReason(reason),
	); err != nil {
		return RejectOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RejectOrderCommand) Validate() error {
	return c.guard.Validate(ErrRejectOrderCommandIsNotConstructed)
}

// OrderID returns the order to reject.
func (c RejectOrderCommand) OrderID() kernel.UUID { return c.orderID }

// RestaurantID returns the acting restaurant.
func (c RejectOrderCommand) RestaurantID() kernel.UUID { return c.restaurantID }

// Reason returns the restaurant's rejection reason.
func (c RejectOrderCommand) Reason() string { return c.reason }

func (c *RejectOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *RejectOrderCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}
	c.restaurantID = restaurantID
	return nil
}

func (c *RejectOrderCommand) setReason(reason string) error {
	if len(reason) < order.MinRejectReasonLength {
		return order.ErrRejectReasonTooShort
	}
	c.reason = reason
	return nil
}
