package commands

import (
	"errors"

	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/guard"
)

var ErrStartDeliveryCommandIsNotConstructed = errors.New(
	"StartDeliveryCommand must be created via NewStartDeliveryCommand constructor",
)

// StartDeliveryCommand represents the assigned rider leaving the restaurant
// towards the customer.
type StartDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	riderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartDeliveryCommand creates a command to start the delivery leg.
func NewStartDeliveryCommand(orderID, riderID kernel.UUID) (StartDeliveryCommand, error) {
	cmd := StartDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setRiderID(riderID),
	); err != nil {
		return StartDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c StartDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrStartDeliveryCommandIsNotConstructed)
}

// OrderID returns the order in transit.
func (c StartDeliveryCommand) OrderID() kernel.UUID { return c.orderID }

// RiderID returns the rider carrying the order.
func (c StartDeliveryCommand) RiderID() kernel.UUID { return c.riderID }

func (c *StartDeliveryCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *StartDeliveryCommand) setRiderID(riderID kernel.UUID) error {
	if err := riderID.Validate(); err != nil {
		return err
	}
	c.riderID = riderID
	return nil
}
